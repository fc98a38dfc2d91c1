// Package domain holds the data types shared by the dashboard pipeline
package domain

import "time"

// RentalRecord is one hourly row of the source dataset.
type RentalRecord struct {
	Date       time.Time `json:"date"`
	Hour       int       `json:"hour"`
	Weather    int       `json:"weather"`
	Casual     int       `json:"casual"`
	Registered int       `json:"registered"`
	Total      int       `json:"total"`
}

// SourceInfo describes the file a dataset was loaded from.
type SourceInfo struct {
	Path          string    `json:"path"`
	Size          int64     `json:"size"`
	ModTime       time.Time `json:"mod_time"`
	LoadedAt      time.Time `json:"loaded_at"`
	Rows          int       `json:"rows"`
	CountMismatch int       `json:"count_mismatch"`
	CountPolicy   string    `json:"count_policy"`
}

const (
	WeatherClear     = 1
	WeatherMist      = 2
	WeatherLightRain = 3
	WeatherHeavyRain = 4
)

// WeatherCodes lists every weather condition code in display order.
var WeatherCodes = []int{WeatherClear, WeatherMist, WeatherLightRain, WeatherHeavyRain}

var weatherLabels = map[int]string{
	WeatherClear:     "Clear/Partly Cloudy",
	WeatherMist:      "Mist/Cloudy",
	WeatherLightRain: "Light Rain/Snow",
	WeatherHeavyRain: "Heavy Rain/Storm",
}

// WeatherLabel returns the human readable label of a weather code.
func WeatherLabel(code int) string {
	if label, ok := weatherLabels[code]; ok {
		return label
	}
	return "Unknown"
}

// IsWeatherCode reports whether code is one of the four known conditions.
func IsWeatherCode(code int) bool {
	_, ok := weatherLabels[code]
	return ok
}
