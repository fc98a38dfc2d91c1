package dataset_test

import (
	"context"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/bikeshare-dashboard/infrastructure/dataset"
	"github.com/vfg2006/bikeshare-dashboard/infrastructure/dataset/mocks"
	"go.uber.org/mock/gomock"
)

func TestCachedLoader(t *testing.T) {
	t.Run("loads once and serves from memory", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		source := mocks.NewMockSource(ctrl)

		want := &dataset.Dataset{}
		source.EXPECT().Path().Return("main_data.csv").AnyTimes()
		source.EXPECT().Load(gomock.Any()).Return(want, nil).Times(1)

		loader := dataset.NewCachedLoader(source)

		_, ok := loader.Cached()
		assert.False(t, ok)

		for i := 0; i < 3; i++ {
			got, err := loader.Load(context.Background())
			require.NoError(t, err)
			assert.Same(t, want, got)
		}

		cached, ok := loader.Cached()
		assert.True(t, ok)
		assert.Same(t, want, cached)
	})

	t.Run("concurrent callers share one load", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		source := mocks.NewMockSource(ctrl)

		want := &dataset.Dataset{}
		source.EXPECT().Path().Return("main_data.csv").AnyTimes()
		source.EXPECT().Load(gomock.Any()).Return(want, nil).Times(1)

		loader := dataset.NewCachedLoader(source)

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				got, err := loader.Load(context.Background())
				assert.NoError(t, err)
				assert.Same(t, want, got)
			}()
		}
		wg.Wait()
	})

	t.Run("failures are not cached", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		source := mocks.NewMockSource(ctrl)

		want := &dataset.Dataset{}
		loadErr := errors.New("file missing")
		source.EXPECT().Path().Return("main_data.csv").AnyTimes()
		gomock.InOrder(
			source.EXPECT().Load(gomock.Any()).Return(nil, loadErr),
			source.EXPECT().Load(gomock.Any()).Return(want, nil),
		)

		loader := dataset.NewCachedLoader(source)

		_, err := loader.Load(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Is(err, loadErr))

		got, err := loader.Load(context.Background())
		require.NoError(t, err)
		assert.Same(t, want, got)
	})

	t.Run("cancelled caller does not cancel the shared load", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		source := mocks.NewMockSource(ctrl)

		want := &dataset.Dataset{}
		source.EXPECT().Path().Return("main_data.csv").AnyTimes()
		source.EXPECT().Load(gomock.Any()).DoAndReturn(func(ctx context.Context) (*dataset.Dataset, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return want, nil
		}).Times(1)

		loader := dataset.NewCachedLoader(source)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		got, err := loader.Load(ctx)
		require.NoError(t, err)
		assert.Same(t, want, got)

		cached, ok := loader.Cached()
		assert.True(t, ok)
		assert.Same(t, want, cached)
	})
}
