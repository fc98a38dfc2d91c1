package handler

import (
	"net/http"

	"github.com/vfg2006/bikeshare-dashboard/pkg/log"
)

const CronJobTypeDatasetWatch = "dataset-watch"

// RunDatasetWatch runs the dataset watch check now and returns its result.
func RunDatasetWatch(watcher DatasetWatcher) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context()).WithField("job", CronJobTypeDatasetWatch)
		logger.Info("cron: manual run requested")

		result := watcher.Check(r.Context())

		writeJSON(r.Context(), w, http.StatusOK, map[string]any{
			"type":   CronJobTypeDatasetWatch,
			"result": result,
		})
	})
}

// GetCronStatus reports the schedule and last result of every job.
func GetCronStatus(watcher DatasetWatcher) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(r.Context(), w, http.StatusOK, map[string]any{
			CronJobTypeDatasetWatch: watcher.GetStatus(),
		})
	})
}
