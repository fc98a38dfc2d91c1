package utils

import (
	"fmt"
	"strings"
	"time"
)

// ParseDate parses a calendar date in the YYYY-MM-DD layout.
func ParseDate(dateStr string) (time.Time, error) {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	return time.Parse(time.DateOnly, dateStr)
}

// DaysBetween returns the whole days from since to until.
func DaysBetween(since, until time.Time) int {
	return int(until.Sub(since).Hours() / 24)
}
