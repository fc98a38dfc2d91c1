package domain

import (
	"sort"

	"github.com/pkg/errors"
)

const (
	MinHour = 0
	MaxHour = 23
)

// ErrInvalidFilter is returned when a filter falls outside the accepted ranges.
var ErrInvalidFilter = errors.New("invalid filter")

// Filter selects an inclusive hour-of-day range and a set of weather codes.
// An empty Weather set is valid and selects nothing.
type Filter struct {
	HourMin int   `json:"hour_min"`
	HourMax int   `json:"hour_max"`
	Weather []int `json:"weather"`
}

// DefaultFilter selects every hour and every weather condition.
func DefaultFilter() Filter {
	return Filter{
		HourMin: MinHour,
		HourMax: MaxHour,
		Weather: append([]int(nil), WeatherCodes...),
	}
}

// NewFilter builds a validated filter with deduplicated, sorted weather codes.
func NewFilter(hourMin, hourMax int, weather []int) (Filter, error) {
	f := Filter{
		HourMin: hourMin,
		HourMax: hourMax,
		Weather: normalizeCodes(weather),
	}

	if err := f.Validate(); err != nil {
		return Filter{}, err
	}

	return f, nil
}

func (f Filter) Validate() error {
	if f.HourMin < MinHour || f.HourMax > MaxHour {
		return errors.Wrapf(ErrInvalidFilter, "hour range must be within %d..%d", MinHour, MaxHour)
	}

	if f.HourMin > f.HourMax {
		return errors.Wrapf(ErrInvalidFilter, "hour_min %d is after hour_max %d", f.HourMin, f.HourMax)
	}

	for _, code := range f.Weather {
		if !IsWeatherCode(code) {
			return errors.Wrapf(ErrInvalidFilter, "unknown weather code %d", code)
		}
	}

	return nil
}

// Matches reports whether a record satisfies both predicates.
func (f Filter) Matches(r RentalRecord) bool {
	if r.Hour < f.HourMin || r.Hour > f.HourMax {
		return false
	}

	for _, code := range f.Weather {
		if code == r.Weather {
			return true
		}
	}

	return false
}

func normalizeCodes(codes []int) []int {
	seen := make(map[int]struct{}, len(codes))
	out := make([]int, 0, len(codes))
	for _, code := range codes {
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}

	sort.Ints(out)
	return out
}
