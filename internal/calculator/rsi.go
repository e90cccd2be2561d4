package calculator

import "gonum.org/v1/gonum/stat"

// DefaultRSIWindow is the conventional 14-period lookback.
const DefaultRSIWindow = 14

// NeutralRSI is returned when there is not enough history. It cannot be told
// apart from a genuinely neutral market.
const NeutralRSI = 50.0

// lossFloor replaces a zero average loss so the gain/loss ratio stays finite.
const lossFloor = 1e-9

// RelativeStrengthIndex computes RSI from simple means of the last window gains
// and losses. Requires at least window+1 closes, otherwise NeutralRSI.
func RelativeStrengthIndex(series []float64, window int) float64 {
	if window <= 0 || len(series) < window+1 {
		return NeutralRSI
	}

	gains := make([]float64, 0, window)
	losses := make([]float64, 0, window)
	for i := len(series) - window; i < len(series); i++ {
		change := series[i] - series[i-1]
		if change > 0 {
			gains = append(gains, change)
			losses = append(losses, 0)
		} else {
			gains = append(gains, 0)
			losses = append(losses, -change)
		}
	}

	avgGain := stat.Mean(gains, nil)
	avgLoss := stat.Mean(losses, nil)
	if avgLoss == 0 {
		avgLoss = lossFloor
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}
