package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"CapitalSentinel/internal/model"
)

func series(closes ...float64) model.PriceSeries {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := model.PriceSeries{Symbol: "TEST"}
	for i, c := range closes {
		s.Points = append(s.Points, model.PricePoint{Time: start.AddDate(0, 0, i), Close: c})
	}
	return s
}

func TestEvaluate_NoData(t *testing.T) {
	rules := model.RuleSet{BuyIf: []model.Condition{{Kind: model.ConditionPriceAboveSMA, Window: 3}}}
	sig := Evaluate("PLTR", rules, model.PriceSeries{})
	assert.Equal(t, model.Signal{Ticker: "PLTR", Action: model.ActionHold, Confidence: 0, Reason: "no data"}, sig)
}

func TestEvaluate_PriceAboveSMA(t *testing.T) {
	rules := model.RuleSet{BuyIf: []model.Condition{{Kind: model.ConditionPriceAboveSMA, Window: 3}}}
	sig := Evaluate("PLTR", rules, series(9, 9, 12))
	assert.Equal(t, model.ActionBuy, sig.Action)
	assert.Equal(t, 0.5, sig.Confidence)
	assert.Equal(t, "price>3SMA", sig.Reason)
}

func TestEvaluate_TwoConditionsCapConfidence(t *testing.T) {
	rules := model.RuleSet{BuyIf: []model.Condition{
		{Kind: model.ConditionPriceAboveSMA, Window: 2},
		{Kind: model.ConditionRSIBelow, Window: 3, Threshold: 80},
		{Kind: model.ConditionPriceAboveSMA, Window: 3},
	}}
	// changes +1, -4, +5: avg gain 2, avg loss 4/3 -> rsi 60
	sig := Evaluate("BTC-USD", rules, series(10, 11, 7, 12))
	assert.Equal(t, model.ActionBuy, sig.Action)
	assert.Equal(t, 1.0, sig.Confidence)
	assert.Equal(t, "price>2SMA, RSI3<80.0, price>3SMA", sig.Reason)
}

func TestEvaluate_Neutral(t *testing.T) {
	rules := model.RuleSet{BuyIf: []model.Condition{
		{Kind: model.ConditionPriceAboveSMA, Window: 3},
		{Kind: model.ConditionRSIBelow, Window: 14, Threshold: 35},
	}}
	// falling series: below SMA; RSI floor is 50 for short history -> not < 35
	sig := Evaluate("CRWD", rules, series(12, 11, 10))
	assert.Equal(t, model.Signal{Ticker: "CRWD", Action: model.ActionHold, Confidence: 0, Reason: "neutral"}, sig)
}

func TestEvaluate_InsufficientHistoryForSMA(t *testing.T) {
	rules := model.RuleSet{BuyIf: []model.Condition{{Kind: model.ConditionPriceAboveSMA, Window: 50}}}
	sig := Evaluate("PLTR", rules, series(1, 2, 3))
	assert.Equal(t, model.ActionHold, sig.Action)
	assert.Equal(t, "neutral", sig.Reason)
}

func TestEvaluate_UnknownKindIgnored(t *testing.T) {
	rules := model.RuleSet{BuyIf: []model.Condition{{Kind: "macd_cross", Window: 3}}}
	sig := Evaluate("PLTR", rules, series(1, 2, 3))
	assert.Equal(t, model.ActionHold, sig.Action)
}

func TestEvaluate_Deterministic(t *testing.T) {
	rules := model.RuleSet{BuyIf: []model.Condition{
		{Kind: model.ConditionPriceAboveSMA, Window: 5},
		{Kind: model.ConditionRSIBelow, Window: 5, Threshold: 55.5},
	}}
	s := series(10, 12, 11, 13, 12, 14, 13, 15)
	first := Evaluate("X", rules, s)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Evaluate("X", rules, s))
	}
}

func TestEvaluateAll_PreservesOrder(t *testing.T) {
	rules := map[string]model.RuleSet{
		"btc_usd": {BuyIf: []model.Condition{{Kind: model.ConditionPriceAboveSMA, Window: 3}}},
	}
	histories := map[string]model.PriceSeries{"BTC-USD": series(9, 9, 12)}
	got := EvaluateAll([]string{"PLTR", "BTC-USD"}, rules, histories)
	if assert.Len(t, got, 2) {
		assert.Equal(t, "PLTR", got[0].Ticker)
		assert.Equal(t, "no data", got[0].Reason)
		assert.Equal(t, "BTC-USD", got[1].Ticker)
		assert.Equal(t, model.ActionBuy, got[1].Action)
	}
}

func TestFormatThreshold(t *testing.T) {
	assert.Equal(t, "35.0", formatThreshold(35))
	assert.Equal(t, "27.5", formatThreshold(27.5))
	assert.True(t, Supported(model.ConditionRSIBelow))
	assert.False(t, Supported("nope"))
}
