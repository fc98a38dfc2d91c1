package handler

import (
	"context"
	"net/http"

	"github.com/vfg2006/bikeshare-dashboard/internal/domain"
	"github.com/vfg2006/bikeshare-dashboard/internal/usecases/dashboard"
	"github.com/vfg2006/bikeshare-dashboard/pkg/log"
)

// panel picks the part of a dashboard a route returns.
type panel func(d *domain.Dashboard) any

// runPipeline parses the filter and runs the pipeline, writing the error
// response itself when anything fails.
func runPipeline(ctx context.Context, w http.ResponseWriter, r *http.Request, service dashboard.Dashboarder) (*domain.Dashboard, bool) {
	filter, err := ParseFilter(r.URL.Query())
	if err != nil {
		writePipelineError(ctx, w, err)
		return nil, false
	}

	result, err := service.Run(ctx, filter)
	if err != nil {
		writePipelineError(ctx, w, err)
		return nil, false
	}

	return result, true
}

func getPanel(service dashboard.Dashboarder, pick panel) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, runID := withRunID(r)

		result, ok := runPipeline(ctx, w, r, service)
		if !ok {
			return
		}

		log.ForContext(ctx).WithFields(log.Fields{
			"path": r.URL.Path,
			"rows": result.KPIs.Rows,
		}).Debug("dashboard: panel served")

		writeJSON(ctx, w, http.StatusOK, envelope{
			RunID:    runID,
			Filter:   result.Filter,
			Data:     pick(result),
			Warnings: result.Warnings(),
		})
	})
}

func GetDashboard(service dashboard.Dashboarder) http.Handler {
	return getPanel(service, func(d *domain.Dashboard) any { return d })
}

func GetKPIs(service dashboard.Dashboarder) http.Handler {
	return getPanel(service, func(d *domain.Dashboard) any { return d.KPIs })
}

func GetHourlyUsage(service dashboard.Dashboarder) http.Handler {
	return getPanel(service, func(d *domain.Dashboard) any { return d.HourlyUsage })
}

func GetWeatherUsage(service dashboard.Dashboarder) http.Handler {
	return getPanel(service, func(d *domain.Dashboard) any { return d.WeatherUsage })
}

func GetSegments(service dashboard.Dashboarder) http.Handler {
	return getPanel(service, func(d *domain.Dashboard) any { return d.Segmentation })
}
