package filtering

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/bikeshare-dashboard/infrastructure/dataset"
	"github.com/vfg2006/bikeshare-dashboard/infrastructure/dataset/datasettest"
	"github.com/vfg2006/bikeshare-dashboard/internal/domain"
)

func weatherSubsets() [][]int {
	subsets := make([][]int, 0, 16)
	for mask := 0; mask < 16; mask++ {
		var codes []int
		for i, code := range domain.WeatherCodes {
			if mask&(1<<i) != 0 {
				codes = append(codes, code)
			}
		}
		subsets = append(subsets, codes)
	}
	return subsets
}

func TestApply_MatchesNaivePredicate(t *testing.T) {
	ds := datasettest.Sample(t)
	svc := NewService()

	for lo := 0; lo <= 23; lo += 3 {
		for hi := lo; hi <= 23; hi += 4 {
			for _, codes := range weatherSubsets() {
				filter, err := domain.NewFilter(lo, hi, codes)
				require.NoError(t, err)

				got, err := svc.Apply(ds, filter)
				require.NoError(t, err)

				var want []domain.RentalRecord
				for _, rec := range ds.Records {
					if filter.Matches(rec) {
						want = append(want, rec)
					}
				}

				assert.LessOrEqual(t, got.Len(), ds.Len())
				assert.Len(t, got.Records, len(want), "hours %d..%d weather %v", lo, hi, codes)
				for i, rec := range got.Records {
					assert.True(t, filter.Matches(rec))
					assert.Equal(t, want[i], rec)
				}
			}
		}
	}
}

func TestApply_SingleHourSingleWeather(t *testing.T) {
	ds := datasettest.Sample(t)
	svc := NewService()

	t.Run("rows exist", func(t *testing.T) {
		got, err := svc.Apply(ds, domain.Filter{HourMin: 8, HourMax: 8, Weather: []int{1}})
		require.NoError(t, err)

		require.Len(t, got.Records, 3)
		for _, rec := range got.Records {
			assert.Equal(t, 8, rec.Hour)
			assert.Equal(t, 1, rec.Weather)
		}
	})

	t.Run("no rows match", func(t *testing.T) {
		got, err := svc.Apply(ds, domain.Filter{HourMin: 8, HourMax: 8, Weather: []int{4}})
		require.NoError(t, err)

		assert.NotNil(t, got.Records)
		assert.Empty(t, got.Records)
	})
}

func TestApply_EmptyWeatherSelection(t *testing.T) {
	got, err := NewService().Apply(datasettest.Sample(t), domain.Filter{HourMin: 0, HourMax: 23})
	require.NoError(t, err)

	assert.NotNil(t, got.Records)
	assert.Empty(t, got.Records)
}

func TestApply_FullSelectionKeepsEverything(t *testing.T) {
	ds := datasettest.Sample(t)

	got, err := NewService().Apply(ds, domain.DefaultFilter())
	require.NoError(t, err)

	assert.Equal(t, ds.Records, got.Records)
	assert.Equal(t, ds.Len(), got.Frame.Nrow())
}

func TestApply_FrameFollowsRecords(t *testing.T) {
	ds := datasettest.Sample(t)

	got, err := NewService().Apply(ds, domain.Filter{HourMin: 8, HourMax: 17, Weather: []int{1, 3}})
	require.NoError(t, err)
	require.Equal(t, got.Len(), got.Frame.Nrow())

	hours, err := got.Frame.Col(dataset.ColHour).Int()
	require.NoError(t, err)
	totals, err := got.Frame.Col(dataset.ColTotal).Int()
	require.NoError(t, err)

	for i, rec := range got.Records {
		assert.Equal(t, rec.Hour, hours[i])
		assert.Equal(t, rec.Total, totals[i])
	}
}

func TestApply_InvalidFilter(t *testing.T) {
	_, err := NewService().Apply(datasettest.Sample(t), domain.Filter{HourMin: 5, HourMax: 2, Weather: []int{1}})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidFilter))
}
