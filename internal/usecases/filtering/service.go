package filtering

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"
	"github.com/vfg2006/bikeshare-dashboard/infrastructure/dataset"
	"github.com/vfg2006/bikeshare-dashboard/internal/domain"
)

type Filterer interface {
	// Apply returns the rows matching the filter, in source order.
	Apply(ds *dataset.Dataset, filter domain.Filter) (dataset.View, error)
}

type Service struct{}

func NewService() *Service {
	return &Service{}
}

func (s *Service) Apply(ds *dataset.Dataset, filter domain.Filter) (dataset.View, error) {
	empty := dataset.View{Records: []domain.RentalRecord{}}

	if err := filter.Validate(); err != nil {
		return empty, err
	}

	if ds.Len() == 0 || len(filter.Weather) == 0 {
		return empty, nil
	}

	predicates := []dataframe.F{
		{Colname: dataset.ColHour, Comparator: series.GreaterEq, Comparando: filter.HourMin},
		{Colname: dataset.ColHour, Comparator: series.LessEq, Comparando: filter.HourMax},
		{Colname: dataset.ColWeather, Comparator: series.In, Comparando: filter.Weather},
	}

	// Frame.Filter ORs its arguments, so the predicates are chained to AND them.
	view := ds.Frame
	for _, p := range predicates {
		view = view.Filter(p)
		if view.Err != nil {
			return empty, errors.Wrapf(view.Err, "filtering: %s %s", p.Colname, p.Comparator)
		}
		if view.Nrow() == 0 {
			return empty, nil
		}
	}

	rows, err := view.Col(dataset.ColRow).Int()
	if err != nil {
		return empty, errors.Wrap(err, "filtering: read row index")
	}

	records := make([]domain.RentalRecord, len(rows))
	for i, row := range rows {
		records[i] = ds.Records[row]
	}

	return dataset.View{Frame: view, Records: records}, nil
}
