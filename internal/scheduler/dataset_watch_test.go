package scheduler

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/bikeshare-dashboard/infrastructure/dataset"
	"github.com/vfg2006/bikeshare-dashboard/internal/config"
	"github.com/vfg2006/bikeshare-dashboard/internal/domain"
)

type fakeCache struct {
	ds *dataset.Dataset
}

func (f fakeCache) Cached() (*dataset.Dataset, bool) {
	return f.ds, f.ds != nil
}

func newWatch(t *testing.T, cache CachedDataset) (*DatasetWatchService, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "main_data.csv")
	require.NoError(t, os.WriteFile(path, []byte("dteday,hr\n"), 0o600))

	cfg := &config.Config{
		Dataset:      config.Dataset{Path: path, CountPolicy: config.CountPolicyTrust},
		DatasetWatch: config.DatasetWatch{CronSchedule: "*/10 * * * *"},
	}
	return NewDatasetWatchService(cache, cfg), path
}

func sourceOf(t *testing.T, path string) *dataset.Dataset {
	t.Helper()

	info, err := os.Stat(path)
	require.NoError(t, err)
	return &dataset.Dataset{Source: domain.SourceInfo{Path: path, Size: info.Size(), ModTime: info.ModTime()}}
}

func TestDatasetWatchService_Check(t *testing.T) {
	ctx := context.Background()

	t.Run("not loaded yet", func(t *testing.T) {
		s, _ := newWatch(t, fakeCache{})
		result := s.Check(ctx)
		assert.Equal(t, WatchStateNotLoaded, result.State)
		assert.NotZero(t, result.DiskSize)
	})

	t.Run("fresh when file matches the load", func(t *testing.T) {
		cache := &fakeCache{}
		s, path := newWatch(t, cache)
		cache.ds = sourceOf(t, path)

		assert.Equal(t, WatchStateFresh, s.Check(ctx).State)
	})

	t.Run("stale after the file changes", func(t *testing.T) {
		cache := &fakeCache{}
		s, path := newWatch(t, cache)
		cache.ds = sourceOf(t, path)

		require.NoError(t, os.WriteFile(path, []byte("dteday,hr,weathersit\n"), 0o600))
		later := time.Now().Add(time.Minute)
		require.NoError(t, os.Chtimes(path, later, later))

		result := s.Check(ctx)
		assert.Equal(t, WatchStateStale, result.State)
		assert.Equal(t, result, s.LastResult())
	})

	t.Run("missing file", func(t *testing.T) {
		s, _ := newWatch(t, fakeCache{})
		s.stat = func(string) (os.FileInfo, error) { return nil, fs.ErrNotExist }

		result := s.Check(ctx)
		assert.Equal(t, WatchStateMissing, result.State)
		assert.NotEmpty(t, result.Error)
	})
}

func TestDatasetWatchService_StartDisabled(t *testing.T) {
	s, _ := newWatch(t, fakeCache{})
	require.NoError(t, s.Start(context.Background()))
	assert.False(t, s.scheduler.IsRunning())
}

func TestDatasetWatchService_GetStatus(t *testing.T) {
	s, _ := newWatch(t, fakeCache{})

	status := s.GetStatus()
	assert.Equal(t, false, status["watch_enabled"])
	assert.Equal(t, "*/10 * * * *", status["watch_cron"])
	assert.Equal(t, WatchStateNotLoaded, status["state"])
}
