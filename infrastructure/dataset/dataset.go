// Package dataset loads the hourly rental CSV and memoizes it for the process lifetime.
package dataset

import (
	"context"

	"github.com/go-gota/gota/dataframe"
	"github.com/vfg2006/bikeshare-dashboard/internal/domain"
)

// Column names of the source file.
const (
	ColDate       = "dteday"
	ColHour       = "hr"
	ColWeather    = "weathersit"
	ColCasual     = "casual"
	ColRegistered = "registered"
	ColTotal      = "cnt"

	// ColRow is added at load time and maps a frame row back to Records.
	ColRow = "row"
)

var requiredColumns = []string{ColDate, ColHour, ColWeather, ColCasual, ColRegistered, ColTotal}

//go:generate mockgen -source=dataset.go -destination=mocks/mock_dataset.go -package=mocks

// Source reads a dataset from its backing store.
type Source interface {
	Path() string
	Load(ctx context.Context) (*Dataset, error)
}

// Loader hands out the dataset, possibly from memory.
type Loader interface {
	Load(ctx context.Context) (*Dataset, error)
}

// Dataset is the read-only table shared by every pipeline run.
// Records[i] is the row whose ColRow value is i.
type Dataset struct {
	Frame   dataframe.DataFrame
	Records []domain.RentalRecord
	Source  domain.SourceInfo
}

func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}
