package domain

// KPIs are the three headline metrics of the filtered view.
// Averages are nil when the view is empty.
type KPIs struct {
	Rows          int      `json:"rows"`
	TotalRentals  int      `json:"total_rentals"`
	CasualAvg     *float64 `json:"casual_avg"`
	RegisteredAvg *float64 `json:"registered_avg"`
}

// HourlyUsage is the mean casual and registered usage for one hour of the day.
type HourlyUsage struct {
	Hour          int     `json:"hour"`
	CasualAvg     float64 `json:"casual_avg"`
	RegisteredAvg float64 `json:"registered_avg"`
}

// WeatherUsage is the mean total rentals for one weather condition.
type WeatherUsage struct {
	Weather  int     `json:"weather"`
	Label    string  `json:"label"`
	TotalAvg float64 `json:"total_avg"`
}
