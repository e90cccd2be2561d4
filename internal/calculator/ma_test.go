package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMovingAverage_Constant(t *testing.T) {
	series := []float64{10, 10, 10, 10, 10}
	for w := 1; w <= len(series); w++ {
		assert.Equal(t, 10.0, MovingAverage(series, w), "window %d", w)
	}
}

func TestMovingAverage_LastWindow(t *testing.T) {
	series := []float64{1, 2, 3, 4, 5, 6}
	assert.InDelta(t, 5.0, MovingAverage(series, 3), 1e-12)
	assert.InDelta(t, 3.5, MovingAverage(series, 6), 1e-12)
}

func TestMovingAverage_Insufficient(t *testing.T) {
	assert.True(t, math.IsNaN(MovingAverage([]float64{1, 2}, 3)))
	assert.True(t, math.IsNaN(MovingAverage(nil, 1)))
	assert.True(t, math.IsNaN(MovingAverage([]float64{1, 2}, 0)))
}
