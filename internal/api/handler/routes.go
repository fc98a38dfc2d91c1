package handler

import (
	"net/http"

	"github.com/vfg2006/bikeshare-dashboard/infrastructure/charting"
	"github.com/vfg2006/bikeshare-dashboard/internal/api/handler/router"
	"github.com/vfg2006/bikeshare-dashboard/internal/usecases/dashboard"
	"github.com/vfg2006/bikeshare-dashboard/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Page(service dashboard.Dashboarder, renderer charting.ChartRenderer) []router.Route {
	return []router.Route{
		{
			Path:    "/",
			Method:  http.MethodGet,
			Handler: DashboardPage(service, renderer),
		},
	}
}

func Dashboard(service dashboard.Dashboarder) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/dashboard",
			Method:  http.MethodGet,
			Handler: GetDashboard(service),
		},
		{
			Path:    "/v1/kpis",
			Method:  http.MethodGet,
			Handler: GetKPIs(service),
		},
		{
			Path:    "/v1/usage/hourly",
			Method:  http.MethodGet,
			Handler: GetHourlyUsage(service),
		},
		{
			Path:    "/v1/usage/weather",
			Method:  http.MethodGet,
			Handler: GetWeatherUsage(service),
		},
		{
			Path:    "/v1/segments",
			Method:  http.MethodGet,
			Handler: GetSegments(service),
		},
	}
}

func Charts(service dashboard.Dashboarder, renderer charting.ChartRenderer) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/charts/hourly-usage.svg",
			Method:  http.MethodGet,
			Handler: HourlyUsageChart(service, renderer),
		},
		{
			Path:    "/v1/charts/weather-usage.svg",
			Method:  http.MethodGet,
			Handler: WeatherUsageChart(service, renderer),
		},
		{
			Path:    "/v1/charts/segments.svg",
			Method:  http.MethodGet,
			Handler: SegmentsChart(service, renderer),
		},
	}
}

func Dataset(cache DatasetCache, watcher DatasetWatcher) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/dataset",
			Method:  http.MethodGet,
			Handler: GetDatasetStatus(cache, watcher),
		},
	}
}

func CronJobs(watcher DatasetWatcher, jwtSecret string) []router.Route {
	auth := middleware.BearerAuth(jwtSecret)

	return []router.Route{
		{
			Path:        "/v1/cron/dataset-watch/run",
			Method:      http.MethodPost,
			Handler:     RunDatasetWatch(watcher),
			Middlewares: []func(http.Handler) http.Handler{auth},
		},
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(watcher),
			Middlewares: []func(http.Handler) http.Handler{auth},
		},
	}
}
