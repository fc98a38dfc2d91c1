package dashboard

import (
	"context"
	"os"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/bikeshare-dashboard/infrastructure/dataset/datasettest"
	"github.com/vfg2006/bikeshare-dashboard/infrastructure/dataset/mocks"
	"github.com/vfg2006/bikeshare-dashboard/internal/domain"
	"github.com/vfg2006/bikeshare-dashboard/internal/usecases/filtering"
	"github.com/vfg2006/bikeshare-dashboard/internal/usecases/segmenting"
	"github.com/vfg2006/bikeshare-dashboard/internal/usecases/summarizing"
	"go.uber.org/mock/gomock"
)

func newService(loader *mocks.MockLoader) Dashboarder {
	return NewService(loader, filtering.NewService(), summarizing.NewService(), segmenting.NewService())
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	t.Run("full selection", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		loader := mocks.NewMockLoader(ctrl)
		loader.EXPECT().Load(gomock.Any()).Return(datasettest.Sample(t), nil)

		got, err := newService(loader).Run(ctx, domain.DefaultFilter())
		require.NoError(t, err)

		assert.Equal(t, 14, got.KPIs.Rows)
		assert.Equal(t, 584, got.KPIs.TotalRentals)
		assert.Len(t, got.HourlyUsage, 8)
		assert.Len(t, got.WeatherUsage, 4)
		assert.Len(t, got.Segmentation.Days, 5)
		assert.Equal(t, 14, got.Source.Rows)
	})

	t.Run("identical inputs give identical results", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		loader := mocks.NewMockLoader(ctrl)
		ds := datasettest.Sample(t)
		loader.EXPECT().Load(gomock.Any()).Return(ds, nil).Times(2)

		svc := newService(loader)
		filter := domain.Filter{HourMin: 7, HourMax: 18, Weather: []int{1, 2}}

		first, err := svc.Run(ctx, filter)
		require.NoError(t, err)
		second, err := svc.Run(ctx, filter)
		require.NoError(t, err)

		assert.Equal(t, first.KPIs, second.KPIs)
		assert.Equal(t, first.Segmentation.Days, second.Segmentation.Days)
		assert.Equal(t, first, second)
	})

	t.Run("segmentation only sees filtered days", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		loader := mocks.NewMockLoader(ctrl)
		loader.EXPECT().Load(gomock.Any()).Return(datasettest.Sample(t), nil)

		got, err := newService(loader).Run(ctx, domain.Filter{HourMin: 22, HourMax: 23, Weather: []int{4}})
		require.NoError(t, err)

		require.Len(t, got.Segmentation.Days, 1)
		assert.Equal(t, 2011, got.Segmentation.Days[0].Date.Year())
		assert.Equal(t, 5, got.Segmentation.Days[0].Date.Day())
		assert.Equal(t, 2, got.Segmentation.Days[0].Monetary)
		assert.NotEmpty(t, got.Warnings())
	})

	t.Run("hour 8 with heavy rain is empty but defined", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		loader := mocks.NewMockLoader(ctrl)
		loader.EXPECT().Load(gomock.Any()).Return(datasettest.Sample(t), nil)

		got, err := newService(loader).Run(ctx, domain.Filter{HourMin: 8, HourMax: 8, Weather: []int{4}})
		require.NoError(t, err)

		assert.Equal(t, 0, got.KPIs.TotalRentals)
		assert.Nil(t, got.KPIs.CasualAvg)
		assert.Nil(t, got.KPIs.RegisteredAvg)
		assert.Empty(t, got.HourlyUsage)
		assert.Empty(t, got.WeatherUsage)
		assert.Empty(t, got.Segmentation.Days)
	})

	t.Run("empty weather selection", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		loader := mocks.NewMockLoader(ctrl)
		loader.EXPECT().Load(gomock.Any()).Return(datasettest.Sample(t), nil)

		got, err := newService(loader).Run(ctx, domain.Filter{HourMin: 0, HourMax: 23, Weather: []int{}})
		require.NoError(t, err)

		assert.Equal(t, 0, got.KPIs.Rows)
		assert.Empty(t, got.Segmentation.Days)
	})

	t.Run("invalid filter never loads", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		loader := mocks.NewMockLoader(ctrl)

		_, err := newService(loader).Run(ctx, domain.Filter{HourMin: 3, HourMax: 30, Weather: []int{1}})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInvalidFilter))
	})

	t.Run("load failure propagates", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		loader := mocks.NewMockLoader(ctrl)
		loader.EXPECT().Load(gomock.Any()).Return(nil, os.ErrNotExist)

		_, err := newService(loader).Run(ctx, domain.DefaultFilter())
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrDatasetUnavailable))
	})
}
