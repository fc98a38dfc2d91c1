package dashboard

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/bikeshare-dashboard/infrastructure/dataset"
	"github.com/vfg2006/bikeshare-dashboard/internal/domain"
	"github.com/vfg2006/bikeshare-dashboard/internal/usecases/filtering"
	"github.com/vfg2006/bikeshare-dashboard/internal/usecases/segmenting"
	"github.com/vfg2006/bikeshare-dashboard/internal/usecases/summarizing"
	"github.com/vfg2006/bikeshare-dashboard/pkg/log"
)

// ErrDatasetUnavailable wraps every failure to obtain the source table.
var ErrDatasetUnavailable = errors.New("dataset unavailable")

//go:generate mockgen -source=service.go -destination=mocks/mock_service.go -package=mocks

// Dashboarder runs the whole pipeline for one filter selection.
type Dashboarder interface {
	Run(ctx context.Context, filter domain.Filter) (*domain.Dashboard, error)
}

// Service holds no state of its own; only the loader memoizes.
type Service struct {
	loader     dataset.Loader
	filterer   filtering.Filterer
	summarizer summarizing.Summarizer
	segmenter  segmenting.Segmenter
}

func NewService(
	loader dataset.Loader,
	filterer filtering.Filterer,
	summarizer summarizing.Summarizer,
	segmenter segmenting.Segmenter,
) Dashboarder {
	return &Service{
		loader:     loader,
		filterer:   filterer,
		summarizer: summarizer,
		segmenter:  segmenter,
	}
}

func (s *Service) Run(ctx context.Context, filter domain.Filter) (*domain.Dashboard, error) {
	logger := log.ForContext(ctx)
	started := time.Now()

	if err := filter.Validate(); err != nil {
		return nil, err
	}

	ds, err := s.loader.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(ErrDatasetUnavailable, err.Error())
	}

	view, err := s.filterer.Apply(ds, filter)
	if err != nil {
		return nil, errors.Wrap(err, "dashboard: filter")
	}

	hourly, err := s.summarizer.HourlyUsage(view)
	if err != nil {
		return nil, err
	}

	weather, err := s.summarizer.WeatherUsage(view)
	if err != nil {
		return nil, err
	}

	segmentation, err := s.segmenter.Segment(ctx, view)
	if err != nil {
		return nil, err
	}

	result := &domain.Dashboard{
		Filter:       filter,
		KPIs:         s.summarizer.KPIs(view),
		HourlyUsage:  hourly,
		WeatherUsage: weather,
		Segmentation: segmentation,
		Source:       ds.Source,
	}

	logger.WithFields(log.Fields{
		"hour_min":    filter.HourMin,
		"hour_max":    filter.HourMax,
		"weather":     filter.Weather,
		"rows":        result.KPIs.Rows,
		"warnings":    len(result.Warnings()),
		"duration_ms": time.Since(started).Milliseconds(),
	}).Debug("dashboard: pipeline finished")

	return result, nil
}
