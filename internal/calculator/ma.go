package calculator

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// MovingAverage returns the simple mean of the last window values.
// It returns NaN when the series is shorter than window or window is not positive.
func MovingAverage(series []float64, window int) float64 {
	if window <= 0 || len(series) < window {
		return math.NaN()
	}
	return stat.Mean(series[len(series)-window:], nil)
}
