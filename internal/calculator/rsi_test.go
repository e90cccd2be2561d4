package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRelativeStrengthIndex_NeutralFloor(t *testing.T) {
	for n := 0; n <= DefaultRSIWindow; n++ {
		series := make([]float64, n)
		for i := range series {
			series[i] = float64(100 + i)
		}
		assert.Equal(t, NeutralRSI, RelativeStrengthIndex(series, DefaultRSIWindow), "len %d", n)
	}
	assert.Equal(t, NeutralRSI, RelativeStrengthIndex([]float64{1, 2, 3}, 0))
}

func TestRelativeStrengthIndex_OnlyGains(t *testing.T) {
	series := []float64{1, 2, 3, 4, 5}
	rsi := RelativeStrengthIndex(series, 4)
	assert.Greater(t, rsi, 99.99)
	assert.LessOrEqual(t, rsi, 100.0)
}

func TestRelativeStrengthIndex_OnlyLosses(t *testing.T) {
	series := []float64{5, 4, 3, 2, 1}
	assert.InDelta(t, 0.0, RelativeStrengthIndex(series, 4), 1e-12)
}

func TestRelativeStrengthIndex_Mixed(t *testing.T) {
	// last 4 changes: +2, -1, +2, -1 -> avg gain 1, avg loss 0.5 -> rs 2 -> 66.67
	series := []float64{100, 90, 92, 91, 93, 92}
	assert.InDelta(t, 100.0-100.0/3.0, RelativeStrengthIndex(series, 4), 1e-9)
}

func TestRelativeStrengthIndex_UsesOnlyLastWindow(t *testing.T) {
	a := []float64{50, 10, 11, 12}
	b := []float64{1, 10, 11, 12}
	assert.Equal(t, RelativeStrengthIndex(a, 2), RelativeStrengthIndex(b, 2))
}
