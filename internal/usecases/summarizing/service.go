package summarizing

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/pkg/errors"
	"github.com/vfg2006/bikeshare-dashboard/infrastructure/dataset"
	"github.com/vfg2006/bikeshare-dashboard/internal/domain"
	"github.com/vfg2006/bikeshare-dashboard/pkg/utils"
)

type Summarizer interface {
	KPIs(view dataset.View) domain.KPIs
	HourlyUsage(view dataset.View) ([]domain.HourlyUsage, error)
	WeatherUsage(view dataset.View) ([]domain.WeatherUsage, error)
}

var (
	casualMean     = dataset.Aggregation{Column: dataset.ColCasual, Type: dataframe.Aggregation_MEAN}
	registeredMean = dataset.Aggregation{Column: dataset.ColRegistered, Type: dataframe.Aggregation_MEAN}
	totalMean      = dataset.Aggregation{Column: dataset.ColTotal, Type: dataframe.Aggregation_MEAN}
)

type Service struct{}

func NewService() *Service {
	return &Service{}
}

// KPIs sums cnt and averages the casual and registered counts. Averages stay
// nil on an empty view.
func (s *Service) KPIs(view dataset.View) domain.KPIs {
	kpis := domain.KPIs{Rows: view.Len()}
	if view.Len() == 0 {
		return kpis
	}

	casual := make([]float64, view.Len())
	registered := make([]float64, view.Len())
	for i, rec := range view.Records {
		kpis.TotalRentals += rec.Total
		casual[i] = float64(rec.Casual)
		registered[i] = float64(rec.Registered)
	}

	kpis.CasualAvg = utils.MeanWithTwoDecimalPlace(casual)
	kpis.RegisteredAvg = utils.MeanWithTwoDecimalPlace(registered)

	return kpis
}

// HourlyUsage averages casual and registered usage for every hour present in
// the view, ascending by hour.
func (s *Service) HourlyUsage(view dataset.View) ([]domain.HourlyUsage, error) {
	if view.Len() == 0 {
		return []domain.HourlyUsage{}, nil
	}

	grouped, err := dataset.GroupBy(view.Frame, dataset.ColHour, casualMean, registeredMean)
	if err != nil {
		return nil, errors.Wrap(err, "summarizing: hourly usage")
	}

	hours, err := grouped.Col(dataset.ColHour).Int()
	if err != nil {
		return nil, errors.Wrap(err, "summarizing: read hours")
	}
	casual := grouped.Col(casualMean.Name()).Float()
	registered := grouped.Col(registeredMean.Name()).Float()

	usage := make([]domain.HourlyUsage, len(hours))
	for i, hour := range hours {
		usage[i] = domain.HourlyUsage{
			Hour:          hour,
			CasualAvg:     utils.RoundWithTwoDecimalPlace(casual[i]),
			RegisteredAvg: utils.RoundWithTwoDecimalPlace(registered[i]),
		}
	}

	return usage, nil
}

// WeatherUsage averages total rentals for every weather code present in the
// view, ascending by code.
func (s *Service) WeatherUsage(view dataset.View) ([]domain.WeatherUsage, error) {
	if view.Len() == 0 {
		return []domain.WeatherUsage{}, nil
	}

	grouped, err := dataset.GroupBy(view.Frame, dataset.ColWeather, totalMean)
	if err != nil {
		return nil, errors.Wrap(err, "summarizing: weather usage")
	}

	codes, err := grouped.Col(dataset.ColWeather).Int()
	if err != nil {
		return nil, errors.Wrap(err, "summarizing: read weather codes")
	}
	totals := grouped.Col(totalMean.Name()).Float()

	usage := make([]domain.WeatherUsage, len(codes))
	for i, code := range codes {
		usage[i] = domain.WeatherUsage{
			Weather:  code,
			Label:    domain.WeatherLabel(code),
			TotalAvg: utils.RoundWithTwoDecimalPlace(totals[i]),
		}
	}

	return usage, nil
}
