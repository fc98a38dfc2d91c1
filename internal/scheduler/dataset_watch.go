package scheduler

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/pkg/errors"
	"github.com/vfg2006/bikeshare-dashboard/infrastructure/dataset"
	"github.com/vfg2006/bikeshare-dashboard/internal/config"
	"github.com/vfg2006/bikeshare-dashboard/pkg/log"
)

const (
	WatchStateNotLoaded = "not_loaded"
	WatchStateFresh     = "fresh"
	WatchStateStale     = "stale"
	WatchStateMissing   = "missing"
)

// CachedDataset exposes the memoized dataset without loading it.
type CachedDataset interface {
	Cached() (*dataset.Dataset, bool)
}

// WatchResult is the outcome of one comparison between the file on disk and
// the dataset held in memory.
type WatchResult struct {
	State     string    `json:"state"`
	Path      string    `json:"path"`
	CheckedAt time.Time `json:"checked_at"`
	DiskSize  int64     `json:"disk_size,omitempty"`
	DiskMTime time.Time `json:"disk_mod_time"`
	Error     string    `json:"error,omitempty"`
}

// DatasetWatchService periodically checks whether the dataset file changed
// after it was loaded. A change is only reported; the cached dataset keeps
// serving until the process restarts.
type DatasetWatchService struct {
	scheduler *gocron.Scheduler
	config    config.DatasetWatch
	path      string
	cache     CachedDataset
	stat      func(string) (os.FileInfo, error)

	mu           sync.Mutex
	checkRunning bool
	last         WatchResult
}

func NewDatasetWatchService(cache CachedDataset, appConfig *config.Config) *DatasetWatchService {
	log.L.WithFields(log.Fields{
		"dataset_path":          appConfig.Dataset.Path,
		"dataset_watch_cron":    appConfig.DatasetWatch.CronSchedule,
		"dataset_watch_enabled": appConfig.DatasetWatch.Enabled,
	}).Info("dataset-watch: configuration loaded")

	return &DatasetWatchService{
		scheduler: gocron.NewScheduler(time.Local),
		config:    appConfig.DatasetWatch,
		path:      appConfig.Dataset.Path,
		cache:     cache,
		stat:      os.Stat,
		last:      WatchResult{State: WatchStateNotLoaded, Path: appConfig.Dataset.Path},
	}
}

// Start schedules the check when enabled and stops the scheduler when ctx is done.
func (s *DatasetWatchService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		log.L.Info("dataset-watch: disabled by configuration")
		return nil
	}

	log.L.WithField("dataset_watch_cron", s.config.CronSchedule).Info("dataset-watch: starting scheduler")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.Check(ctx)
	})
	if err != nil {
		return errors.Wrap(err, "dataset-watch: schedule")
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		log.L.Info("dataset-watch: stopping scheduler")
		s.scheduler.Stop()
	}()

	return nil
}

// Check compares the file on disk with the cached dataset and records the result.
// A check already in progress makes this call return the previous result.
func (s *DatasetWatchService) Check(ctx context.Context) WatchResult {
	s.mu.Lock()
	if s.checkRunning {
		last := s.last
		s.mu.Unlock()
		log.ForContext(ctx).Debug("dataset-watch: check already running, skipping")
		return last
	}
	s.checkRunning = true
	s.mu.Unlock()

	result := s.compare()

	s.mu.Lock()
	s.last = result
	s.checkRunning = false
	s.mu.Unlock()

	logger := log.ForContext(ctx).WithFields(log.Fields{
		"job":           "dataset-watch",
		"dataset_path":  result.Path,
		"dataset_state": result.State,
	})
	switch result.State {
	case WatchStateStale:
		logger.Warn("dataset-watch: file changed since load, restart to pick it up")
	case WatchStateMissing:
		logger.WithField("error", result.Error).Error("dataset-watch: file not readable")
	default:
		logger.Debug("dataset-watch: check done")
	}

	return result
}

func (s *DatasetWatchService) compare() WatchResult {
	result := WatchResult{Path: s.path, CheckedAt: time.Now()}

	info, err := s.stat(s.path)
	if err != nil {
		result.State = WatchStateMissing
		result.Error = err.Error()
		return result
	}
	result.DiskSize = info.Size()
	result.DiskMTime = info.ModTime()

	ds, ok := s.cache.Cached()
	if !ok {
		result.State = WatchStateNotLoaded
		return result
	}

	if ds.Source.Size != info.Size() || !ds.Source.ModTime.Equal(info.ModTime()) {
		result.State = WatchStateStale
		return result
	}

	result.State = WatchStateFresh
	return result
}

func (s *DatasetWatchService) LastResult() WatchResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *DatasetWatchService) GetStatus() map[string]any {
	last := s.LastResult()
	return map[string]any{
		"watch_enabled":   s.config.Enabled,
		"watch_cron":      s.config.CronSchedule,
		"state":           last.State,
		"last_checked_at": last.CheckedAt,
	}
}
