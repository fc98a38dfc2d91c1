package handler

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/pkg/errors"
	"github.com/vfg2006/bikeshare-dashboard/infrastructure/charting"
	"github.com/vfg2006/bikeshare-dashboard/internal/domain"
	"github.com/vfg2006/bikeshare-dashboard/internal/usecases/dashboard"
	"github.com/vfg2006/bikeshare-dashboard/pkg/apiErrors"
	"github.com/vfg2006/bikeshare-dashboard/pkg/log"
)

const PageTitle = "Bike Rental Analysis Dashboard"

//go:embed templates/dashboard.html
var dashboardHTML string

var pageTemplate = template.Must(template.New("dashboard").Funcs(template.FuncMap{
	"avg": func(v *float64) string {
		if v == nil {
			return "N/A"
		}
		return fmt.Sprintf("%.2f", *v)
	},
	"decimal": func(v float64) string {
		return fmt.Sprintf("%.2f", v)
	},
}).Parse(dashboardHTML))

type weatherOption struct {
	Code    int
	Label   string
	Checked bool
}

// pageCharts holds SVG markup drawn by the chart renderer from the page's own run.
type pageCharts struct {
	HourlyUsage  template.HTML
	WeatherUsage template.HTML
	Segments     template.HTML
}

type pageData struct {
	Title     string
	RunID     string
	Filter    domain.Filter
	Hours     []int
	Weather   []weatherOption
	Query     template.URL
	Dashboard *domain.Dashboard
	Charts    pageCharts
	Error     string
}

func newPageData(runID string, filter domain.Filter) pageData {
	hours := make([]int, 0, domain.MaxHour-domain.MinHour+1)
	for h := domain.MinHour; h <= domain.MaxHour; h++ {
		hours = append(hours, h)
	}

	selected := make(map[int]bool, len(filter.Weather))
	for _, code := range filter.Weather {
		selected[code] = true
	}

	options := make([]weatherOption, 0, len(domain.WeatherCodes))
	for _, code := range domain.WeatherCodes {
		options = append(options, weatherOption{
			Code:    code,
			Label:   domain.WeatherLabel(code),
			Checked: selected[code],
		})
	}

	return pageData{
		Title:   PageTitle,
		RunID:   runID,
		Filter:  filter,
		Hours:   hours,
		Weather: options,
		// FilterQuery only emits url.Values.Encode output.
		Query: template.URL(FilterQuery(filter)),
	}
}

func renderPageCharts(renderer charting.ChartRenderer, d *domain.Dashboard) (pageCharts, error) {
	var charts pageCharts
	slots := []struct {
		draw drawFunc
		out  *template.HTML
	}{
		{drawHourlyUsage, &charts.HourlyUsage},
		{drawWeatherUsage, &charts.WeatherUsage},
		{drawSegments, &charts.Segments},
	}

	for _, slot := range slots {
		var buf bytes.Buffer
		if err := slot.draw(renderer, &buf, d); err != nil {
			return pageCharts{}, errors.Wrap(err, "page: render chart")
		}
		// go-chart only writes our own labels and numbers into the markup.
		*slot.out = template.HTML(buf.String())
	}

	return charts, nil
}

// DashboardPage renders the whole dashboard for the filter in the query string.
// Every form change resubmits the page, so each view is a full pipeline run.
// The charts are drawn inline from that same run.
func DashboardPage(service dashboard.Dashboarder, renderer charting.ChartRenderer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, runID := withRunID(r)
		logger := log.ForContext(ctx)

		status := http.StatusOK
		filter, err := ParseFilter(r.URL.Query())
		data := newPageData(runID, filter)

		if err != nil {
			data = newPageData(runID, domain.DefaultFilter())
		} else {
			data.Dashboard, err = service.Run(ctx, filter)
		}

		if err != nil {
			status = apiErrors.StatusFor(errorCode(err))
			data.Error = err.Error()
			logger.WithError(err).Warn("page: pipeline failed")
		} else if data.Charts, err = renderPageCharts(renderer, data.Dashboard); err != nil {
			status = apiErrors.StatusFor(apiErrors.ErrChartRender)
			data.Error = err.Error()
			logger.WithError(err).Error("page: chart render failed")
		}

		var buf bytes.Buffer
		if err := pageTemplate.Execute(&buf, data); err != nil {
			logger.WithError(errors.Wrap(err, "page: execute template")).Error("page: render failed")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "could not render page", nil)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		if _, err := buf.WriteTo(w); err != nil {
			logger.WithError(err).Warn("page: write response")
		}
	})
}
