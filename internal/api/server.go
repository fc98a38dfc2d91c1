package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/vfg2006/bikeshare-dashboard/infrastructure/charting"
	"github.com/vfg2006/bikeshare-dashboard/internal/api/handler"
	"github.com/vfg2006/bikeshare-dashboard/internal/api/handler/router"
	"github.com/vfg2006/bikeshare-dashboard/internal/config"
	"github.com/vfg2006/bikeshare-dashboard/internal/usecases/dashboard"
	"github.com/vfg2006/bikeshare-dashboard/pkg/log"
	"github.com/vfg2006/bikeshare-dashboard/pkg/middleware"
)

const shutdownTimeout = 15 * time.Second

type Server struct {
	httpServer *http.Server
}

// NewHandler builds the routed handler with the global middleware chain.
func NewHandler(
	config *config.Config,
	dashboardService dashboard.Dashboarder,
	renderer charting.ChartRenderer,
	cache handler.DatasetCache,
	watcher handler.DatasetWatcher,
) http.Handler {
	rt := router.New(
		router.WithRoutes(handler.Healthcheck()...),
		router.WithRoutes(handler.Page(dashboardService, renderer)...),
		router.WithRoutes(handler.Dashboard(dashboardService)...),
		router.WithRoutes(handler.Charts(dashboardService, renderer)...),
		router.WithRoutes(handler.Dataset(cache, watcher)...),
		router.WithRoutes(handler.CronJobs(watcher, config.Cron.JWTSecret)...),
	)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(config.Cors.AllowedOrigins),
	}

	return alice.New(middlewares...).Then(rt)
}

func New(
	config *config.Config,
	dashboardService dashboard.Dashboarder,
	renderer charting.ChartRenderer,
	cache handler.DatasetCache,
	watcher handler.DatasetWatcher,
) (*Server, error) {
	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
			Handler:           NewHandler(config, dashboardService, renderer, cache, watcher),
			ReadHeaderTimeout: 2 * time.Second,
		},
	}

	return srv, nil
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		log.L.WithField("address", s.httpServer.Addr).Info("server starting")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.L.WithError(err).Error("server stopped unexpectedly")
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		log.L.Info("interrupt signal received")
	case <-ctx.Done():
		log.L.Info("application context cancelled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.L.WithField("timeout", shutdownTimeout.String()).Info("shutting down server")

	if err := s.Shutdown(shutdownCtx); err != nil {
		log.L.WithError(err).Error("server shutdown failed")
		return err
	}

	log.L.Info("server stopped")
	return nil
}

func (s Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
