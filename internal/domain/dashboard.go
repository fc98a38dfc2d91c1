package domain

// Dashboard is everything the page renders for one filter selection.
type Dashboard struct {
	Filter       Filter         `json:"filter"`
	KPIs         KPIs           `json:"kpis"`
	HourlyUsage  []HourlyUsage  `json:"hourly_usage"`
	WeatherUsage []WeatherUsage `json:"weather_usage"`
	Segmentation Segmentation   `json:"segmentation"`
	Source       SourceInfo     `json:"source"`
}

// Warnings collects the non-fatal problems of a run.
func (d *Dashboard) Warnings() []string {
	if d == nil {
		return nil
	}
	return d.Segmentation.Warnings
}
