// Package charting draws the dashboard charts as SVG.
package charting

import (
	"fmt"
	"html"
	"io"

	"github.com/pkg/errors"
	"github.com/vfg2006/bikeshare-dashboard/internal/domain"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	defaultWidth  = 900
	defaultHeight = 450

	// NoDataMessage is drawn in place of a chart whose input is empty.
	NoDataMessage = "No data for the current selection"
)

var (
	casualColor     = drawing.ColorFromHex("3b75af")
	registeredColor = drawing.ColorFromHex("ef8636")

	weatherPalette = map[int]drawing.Color{
		domain.WeatherClear:     drawing.ColorFromHex("3b4cc0"),
		domain.WeatherMist:      drawing.ColorFromHex("aac7fd"),
		domain.WeatherLightRain: drawing.ColorFromHex("f7b89c"),
		domain.WeatherHeavyRain: drawing.ColorFromHex("b40426"),
	}

	segmentPalette = map[domain.Segment]drawing.Color{
		domain.SegmentVIP:       drawing.ColorFromHex("3b4cc0"),
		domain.SegmentRegular:   drawing.ColorFromHex("dddddd"),
		domain.SegmentChurnRisk: drawing.ColorFromHex("b40426"),
	}
)

type ChartRenderer interface {
	HourlyUsage(w io.Writer, usage []domain.HourlyUsage) error
	WeatherUsage(w io.Writer, usage []domain.WeatherUsage) error
	SegmentCounts(w io.Writer, counts []domain.SegmentCount) error
}

type Renderer struct {
	width  int
	height int
}

func NewRenderer() *Renderer {
	return &Renderer{width: defaultWidth, height: defaultHeight}
}

// lineStyle draws a line with point markers.
func lineStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeColor: col,
		StrokeWidth: 2,
		DotColor:    col,
		DotWidth:    4,
	}
}

func (r *Renderer) HourlyUsage(w io.Writer, usage []domain.HourlyUsage) error {
	if len(usage) == 0 {
		return r.noData(w, "Average Bike Usage per Hour")
	}

	hours := make([]float64, len(usage))
	casual := make([]float64, len(usage))
	registered := make([]float64, len(usage))
	top := 0.0
	for i, u := range usage {
		hours[i] = float64(u.Hour)
		casual[i] = u.CasualAvg
		registered[i] = u.RegisteredAvg
		top = max(top, u.CasualAvg, u.RegisteredAvg)
	}

	ticks := make([]chart.Tick, 0, domain.MaxHour+1)
	for h := domain.MinHour; h <= domain.MaxHour; h++ {
		ticks = append(ticks, chart.Tick{Value: float64(h), Label: fmt.Sprintf("%d", h)})
	}

	ch := chart.Chart{
		Title:      "Average Bike Usage per Hour",
		Width:      r.width,
		Height:     r.height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  "Hour",
			Range: &chart.ContinuousRange{Min: domain.MinHour, Max: domain.MaxHour},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name:  "Average Users",
			Range: &chart.ContinuousRange{Min: 0, Max: headroom(top)},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{Name: "Casual Users (Avg)", XValues: hours, YValues: casual, Style: lineStyle(casualColor)},
			chart.ContinuousSeries{Name: "Registered Users (Avg)", XValues: hours, YValues: registered, Style: lineStyle(registeredColor)},
		},
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	if err := ch.Render(chart.SVG, w); err != nil {
		return errors.Wrap(err, "charting: render hourly usage")
	}
	return nil
}

func (r *Renderer) WeatherUsage(w io.Writer, usage []domain.WeatherUsage) error {
	if len(usage) == 0 {
		return r.noData(w, "Average Rentals by Weather Condition")
	}

	bars := make([]chart.Value, len(usage))
	top := 0.0
	for i, u := range usage {
		col := weatherPalette[u.Weather]
		bars[i] = chart.Value{
			Label: u.Label,
			Value: u.TotalAvg,
			Style: chart.Style{FillColor: col, StrokeColor: col},
		}
		top = max(top, u.TotalAvg)
	}

	return r.bars(w, "Average Rentals by Weather Condition", bars, top)
}

// SegmentCounts draws days per segment in the given order. Zero-count segments
// keep their slot so the axis stays stable across filters.
func (r *Renderer) SegmentCounts(w io.Writer, counts []domain.SegmentCount) error {
	bars := make([]chart.Value, 0, len(counts))
	total := 0
	top := 0.0
	for _, c := range counts {
		col := segmentPalette[c.Segment]
		bars = append(bars, chart.Value{
			Label: string(c.Segment),
			Value: float64(c.Days),
			Style: chart.Style{FillColor: col, StrokeColor: col},
		})
		total += c.Days
		top = max(top, float64(c.Days))
	}

	if total == 0 {
		return r.noData(w, "Customer Segments by RFM")
	}

	return r.bars(w, "Customer Segments by RFM", bars, top)
}

func (r *Renderer) bars(w io.Writer, title string, bars []chart.Value, top float64) error {
	bc := chart.BarChart{
		Title:      title,
		Width:      r.width,
		Height:     r.height,
		BarWidth:   r.width / (2 * (len(bars) + 1)),
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: headroom(top)},
		},
		Bars: bars,
	}

	if err := bc.Render(chart.SVG, w); err != nil {
		return errors.Wrapf(err, "charting: render %q", title)
	}
	return nil
}

// noData writes a placeholder SVG of the same size as a real chart.
func (r *Renderer) noData(w io.Writer, title string) error {
	_, err := fmt.Fprintf(w,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+
			`<rect width="100%%" height="100%%" fill="#ffffff"/>`+
			`<text x="50%%" y="40" text-anchor="middle" font-family="sans-serif" font-size="18">%s</text>`+
			`<text x="50%%" y="50%%" text-anchor="middle" font-family="sans-serif" font-size="14" fill="#888888">%s</text>`+
			`</svg>`,
		r.width, r.height, r.width, r.height, html.EscapeString(title), NoDataMessage)
	if err != nil {
		return errors.Wrap(err, "charting: write placeholder")
	}
	return nil
}

// headroom leaves 10% above the tallest value; an all-zero chart still gets a
// non-empty axis.
func headroom(top float64) float64 {
	if top <= 0 {
		return 1
	}
	return top * 1.1
}
