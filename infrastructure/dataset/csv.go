package dataset

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"
	"github.com/vfg2006/bikeshare-dashboard/internal/config"
	"github.com/vfg2006/bikeshare-dashboard/internal/domain"
	"github.com/vfg2006/bikeshare-dashboard/pkg/log"
	"github.com/vfg2006/bikeshare-dashboard/pkg/utils"
)

// ErrMalformed wraps every schema or value problem found while reading the file.
var ErrMalformed = errors.New("malformed dataset")

var columnTypes = map[string]series.Type{
	ColDate:       series.String,
	ColHour:       series.Int,
	ColWeather:    series.Int,
	ColCasual:     series.Int,
	ColRegistered: series.Int,
	ColTotal:      series.Int,
}

// CSVSource reads the dataset from a local CSV file.
type CSVSource struct {
	path        string
	countPolicy string
}

func NewCSVSource(cfg config.Dataset) *CSVSource {
	policy := cfg.CountPolicy
	if policy == "" {
		policy = config.CountPolicyTrust
	}

	return &CSVSource{
		path:        cfg.Path,
		countPolicy: policy,
	}
}

func (s *CSVSource) Path() string {
	return s.path
}

func (s *CSVSource) Load(ctx context.Context) (*Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger := log.ForContext(ctx).WithField("dataset_path", s.path)
	started := time.Now()

	f, err := os.Open(s.path)
	if err != nil {
		return nil, errors.Wrapf(err, "dataset: open %s", s.path)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.Wrapf(err, "dataset: stat %s", s.path)
	}

	ds, err := Read(f, s.countPolicy)
	if err != nil {
		return nil, errors.Wrapf(err, "dataset: read %s", s.path)
	}

	ds.Source.Path = s.path
	ds.Source.Size = info.Size()
	ds.Source.ModTime = info.ModTime()
	ds.Source.LoadedAt = time.Now()

	if ds.Source.CountMismatch > 0 {
		logger.WithFields(log.Fields{
			"dataset_count_mismatch": ds.Source.CountMismatch,
			"dataset_count_policy":   s.countPolicy,
		}).Warn("dataset: cnt differs from casual + registered")
	}

	logger.WithFields(log.Fields{
		"dataset_rows": ds.Len(),
		"duration_ms":  time.Since(started).Milliseconds(),
	}).Info("dataset: loaded")

	return ds, nil
}

// Read parses a CSV stream into a Dataset. The cnt column is kept or recomputed
// according to countPolicy.
func Read(r io.Reader, countPolicy string) (*Dataset, error) {
	frame := dataframe.ReadCSV(r, dataframe.WithTypes(columnTypes))
	if frame.Err != nil {
		return nil, errors.Wrap(ErrMalformed, frame.Err.Error())
	}

	if err := checkColumns(frame.Names()); err != nil {
		return nil, err
	}

	dates := frame.Col(ColDate).Records()
	cols := make(map[string][]int, len(requiredColumns)-1)
	for _, name := range requiredColumns[1:] {
		values, err := frame.Col(name).Int()
		if err != nil {
			return nil, errors.Wrapf(ErrMalformed, "column %s: %v", name, err)
		}
		cols[name] = values
	}

	records := make([]domain.RentalRecord, frame.Nrow())
	rows := make([]int, frame.Nrow())
	mismatch := 0

	for i := range records {
		date, err := utils.ParseDate(dates[i])
		if err != nil {
			return nil, errors.Wrapf(ErrMalformed, "row %d: %s %q: %v", i+1, ColDate, dates[i], err)
		}

		rec := domain.RentalRecord{
			Date:       date,
			Hour:       cols[ColHour][i],
			Weather:    cols[ColWeather][i],
			Casual:     cols[ColCasual][i],
			Registered: cols[ColRegistered][i],
			Total:      cols[ColTotal][i],
		}

		if err := validateRecord(rec); err != nil {
			return nil, errors.Wrapf(err, "row %d", i+1)
		}

		if rec.Total != rec.Casual+rec.Registered {
			mismatch++
			if countPolicy == config.CountPolicyRecompute {
				rec.Total = rec.Casual + rec.Registered
			}
		}

		records[i] = rec
		rows[i] = i
	}

	frame = frame.Mutate(series.New(rows, series.Int, ColRow))
	if countPolicy == config.CountPolicyRecompute && mismatch > 0 {
		totals := make([]int, len(records))
		for i, rec := range records {
			totals[i] = rec.Total
		}
		frame = frame.Mutate(series.New(totals, series.Int, ColTotal))
	}
	if frame.Err != nil {
		return nil, errors.Wrap(frame.Err, "dataset: index rows")
	}

	return &Dataset{
		Frame:   frame,
		Records: records,
		Source: domain.SourceInfo{
			Rows:          len(records),
			CountMismatch: mismatch,
			CountPolicy:   countPolicy,
		},
	}, nil
}

func checkColumns(names []string) error {
	present := make(map[string]struct{}, len(names))
	for _, name := range names {
		present[name] = struct{}{}
	}

	for _, name := range requiredColumns {
		if _, ok := present[name]; !ok {
			return errors.Wrapf(ErrMalformed, "missing column %s", name)
		}
	}

	return nil
}

func validateRecord(rec domain.RentalRecord) error {
	if rec.Hour < domain.MinHour || rec.Hour > domain.MaxHour {
		return errors.Wrapf(ErrMalformed, "%s %d out of range", ColHour, rec.Hour)
	}

	if !domain.IsWeatherCode(rec.Weather) {
		return errors.Wrapf(ErrMalformed, "%s %d out of range", ColWeather, rec.Weather)
	}

	if rec.Casual < 0 || rec.Registered < 0 || rec.Total < 0 {
		return errors.Wrapf(ErrMalformed, "negative count")
	}

	return nil
}
