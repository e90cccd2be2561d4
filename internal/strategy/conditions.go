package strategy

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"CapitalSentinel/internal/calculator"
	"CapitalSentinel/internal/model"
)

// conditionFunc reports whether a condition holds for the closes and the label
// to record when it does.
type conditionFunc func(closes []float64, c model.Condition) (bool, string)

// conditions is the closed registry of supported buy-condition kinds.
var conditions = map[model.ConditionKind]conditionFunc{
	model.ConditionPriceAboveSMA: priceAboveSMA,
	model.ConditionRSIBelow:      rsiBelow,
}

// Supported reports whether kind has a registered evaluator.
func Supported(kind model.ConditionKind) bool {
	_, ok := conditions[kind]
	return ok
}

// priceAboveSMA: the last close is above its N-period simple moving average.
func priceAboveSMA(closes []float64, c model.Condition) (bool, string) {
	sma := calculator.MovingAverage(closes, c.Window)
	if math.IsNaN(sma) {
		return false, ""
	}
	return closes[len(closes)-1] > sma, fmt.Sprintf("price>%dSMA", c.Window)
}

// rsiBelow: RSI over the window is under the threshold.
func rsiBelow(closes []float64, c model.Condition) (bool, string) {
	rsi := calculator.RelativeStrengthIndex(closes, c.Window)
	return rsi < c.Threshold, fmt.Sprintf("RSI%d<%s", c.Window, formatThreshold(c.Threshold))
}

// formatThreshold prints a float with at least one fractional digit: 35 -> "35.0".
func formatThreshold(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
