package handler

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/vfg2006/bikeshare-dashboard/internal/domain"
)

const (
	paramHourMin = "hour_min"
	paramHourMax = "hour_max"
	paramWeather = "weather"
)

// ParseFilter reads hour_min, hour_max and weather from a query string.
// Missing hours default to the full day. A missing weather parameter selects
// every code; weather present but blank selects none.
func ParseFilter(q url.Values) (domain.Filter, error) {
	hourMin, err := intParam(q, paramHourMin, domain.MinHour)
	if err != nil {
		return domain.Filter{}, err
	}

	hourMax, err := intParam(q, paramHourMax, domain.MaxHour)
	if err != nil {
		return domain.Filter{}, err
	}

	weather := domain.DefaultFilter().Weather
	if values, ok := q[paramWeather]; ok {
		weather, err = weatherCodes(values)
		if err != nil {
			return domain.Filter{}, err
		}
	}

	return domain.NewFilter(hourMin, hourMax, weather)
}

// FilterQuery encodes f so that ParseFilter returns it unchanged.
func FilterQuery(f domain.Filter) string {
	q := url.Values{}
	q.Set(paramHourMin, strconv.Itoa(f.HourMin))
	q.Set(paramHourMax, strconv.Itoa(f.HourMax))

	if len(f.Weather) == 0 {
		q.Set(paramWeather, "")
	}
	for _, code := range f.Weather {
		q.Add(paramWeather, strconv.Itoa(code))
	}

	return q.Encode()
}

func intParam(q url.Values, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return fallback, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Wrapf(domain.ErrInvalidFilter, "%s must be an integer, got %q", name, raw)
	}
	return v, nil
}

func weatherCodes(values []string) ([]int, error) {
	codes := []int{}
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}

			code, err := strconv.Atoi(part)
			if err != nil {
				return nil, errors.Wrapf(domain.ErrInvalidFilter, "weather must be a list of codes, got %q", part)
			}
			codes = append(codes, code)
		}
	}
	return codes, nil
}
