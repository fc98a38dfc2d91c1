package handler

import (
	"context"
	"net/http"

	"github.com/vfg2006/bikeshare-dashboard/infrastructure/dataset"
	"github.com/vfg2006/bikeshare-dashboard/internal/scheduler"
)

// DatasetCache exposes the memoized dataset without loading it.
type DatasetCache interface {
	Cached() (*dataset.Dataset, bool)
}

// DatasetWatcher compares the file on disk with the memoized dataset.
type DatasetWatcher interface {
	Check(ctx context.Context) scheduler.WatchResult
	LastResult() scheduler.WatchResult
	GetStatus() map[string]any
}

type datasetStatus struct {
	Loaded bool                  `json:"loaded"`
	Source any                   `json:"source,omitempty"`
	Watch  scheduler.WatchResult `json:"watch"`
}

// GetDatasetStatus reports the memoized source and the last watch result.
func GetDatasetStatus(cache DatasetCache, watcher DatasetWatcher) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := datasetStatus{Watch: watcher.LastResult()}
		if ds, ok := cache.Cached(); ok {
			status.Loaded = true
			status.Source = ds.Source
		}

		writeJSON(r.Context(), w, http.StatusOK, status)
	})
}
