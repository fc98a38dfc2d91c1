package handler

import (
	"bytes"
	"io"
	"net/http"

	"github.com/vfg2006/bikeshare-dashboard/infrastructure/charting"
	"github.com/vfg2006/bikeshare-dashboard/internal/domain"
	"github.com/vfg2006/bikeshare-dashboard/internal/usecases/dashboard"
	"github.com/vfg2006/bikeshare-dashboard/pkg/apiErrors"
	"github.com/vfg2006/bikeshare-dashboard/pkg/log"
)

// drawFunc renders one chart of a dashboard.
type drawFunc func(r charting.ChartRenderer, w io.Writer, d *domain.Dashboard) error

func getChart(service dashboard.Dashboarder, renderer charting.ChartRenderer, draw drawFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, _ := withRunID(r)

		result, ok := runPipeline(ctx, w, r, service)
		if !ok {
			return
		}

		var buf bytes.Buffer
		if err := draw(renderer, &buf, result); err != nil {
			log.ForContext(ctx).WithError(err).WithField("path", r.URL.Path).Error("charts: render failed")
			apiErrors.WriteError(w, apiErrors.ErrChartRender, err.Error(), nil)
			return
		}

		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("Cache-Control", "no-store")
		if _, err := buf.WriteTo(w); err != nil {
			log.ForContext(ctx).WithError(err).Warn("charts: write response")
		}
	})
}

func drawHourlyUsage(r charting.ChartRenderer, w io.Writer, d *domain.Dashboard) error {
	return r.HourlyUsage(w, d.HourlyUsage)
}

func drawWeatherUsage(r charting.ChartRenderer, w io.Writer, d *domain.Dashboard) error {
	return r.WeatherUsage(w, d.WeatherUsage)
}

func drawSegments(r charting.ChartRenderer, w io.Writer, d *domain.Dashboard) error {
	return r.SegmentCounts(w, d.Segmentation.Counts)
}

func HourlyUsageChart(service dashboard.Dashboarder, renderer charting.ChartRenderer) http.Handler {
	return getChart(service, renderer, drawHourlyUsage)
}

func WeatherUsageChart(service dashboard.Dashboarder, renderer charting.ChartRenderer) http.Handler {
	return getChart(service, renderer, drawWeatherUsage)
}

func SegmentsChart(service dashboard.Dashboarder, renderer charting.ChartRenderer) http.Handler {
	return getChart(service, renderer, drawSegments)
}
