package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/bikeshare-dashboard/infrastructure/charting"
	"github.com/vfg2006/bikeshare-dashboard/infrastructure/dataset"
	"github.com/vfg2006/bikeshare-dashboard/internal/api"
	"github.com/vfg2006/bikeshare-dashboard/internal/config"
	"github.com/vfg2006/bikeshare-dashboard/internal/scheduler"
	"github.com/vfg2006/bikeshare-dashboard/internal/usecases/dashboard"
	"github.com/vfg2006/bikeshare-dashboard/internal/usecases/filtering"
	"github.com/vfg2006/bikeshare-dashboard/internal/usecases/segmenting"
	"github.com/vfg2006/bikeshare-dashboard/internal/usecases/summarizing"
)

func main() {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("invalid log level %q, using info", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("log level set to %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loader := dataset.NewCachedLoader(dataset.NewCSVSource(cfg.Dataset))
	warmUp(ctx, loader)

	dashboardService := dashboard.NewService(
		loader,
		filtering.NewService(),
		summarizing.NewService(),
		segmenting.NewService(),
	)

	watchService := scheduler.NewDatasetWatchService(loader, cfg)
	if err := watchService.Start(ctx); err != nil {
		logrus.WithError(err).Error("could not start the dataset watch scheduler")
	}

	server, err := api.New(cfg, dashboardService, charting.NewRenderer(), loader, watchService)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

func configureLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// warmUp loads the dataset before serving. A failure is only logged: every
// request retries the load and reports the dataset as unavailable until it works.
func warmUp(ctx context.Context, loader dataset.Loader) {
	ds, err := loader.Load(ctx)
	if err != nil {
		logrus.WithError(err).Error("dataset not loaded at startup")
		return
	}

	logrus.WithFields(logrus.Fields{
		"dataset_path":   ds.Source.Path,
		"rows":           ds.Len(),
		"count_mismatch": ds.Source.CountMismatch,
	}).Info("dataset ready")
}
