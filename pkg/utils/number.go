package utils

import (
	"math"

	"github.com/aclements/go-moremath/stats"
)

func RoundWithTwoDecimalPlace(f float64) float64 {
	if f == 0 {
		return 0
	}

	return math.Round(f*100) / 100
}

// MeanWithTwoDecimalPlace returns the rounded mean of xs, or nil when xs is empty.
func MeanWithTwoDecimalPlace(xs []float64) *float64 {
	if len(xs) == 0 {
		return nil
	}

	mean := RoundWithTwoDecimalPlace(stats.Mean(xs))
	return &mean
}
