package calculator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"CapitalSentinel/internal/model"
)

func TestHoldingMetrics_Priced(t *testing.T) {
	m := HoldingMetrics(model.Holding{Ticker: " pltr ", Quantity: 10, CostBasis: 14.5}, model.Available(20.0))
	assert.Equal(t, "PLTR", m.Ticker)
	assert.True(t, m.Priced)
	assert.InDelta(t, 200.0, m.MarketValue, 1e-9)
	assert.InDelta(t, 145.0, m.CostValue, 1e-9)
	assert.InDelta(t, 55.0, m.PnL, 1e-9)
	assert.InDelta(t, 55.0/145.0*100, m.PnLPct, 1e-9)
}

func TestHoldingMetrics_Unpriced(t *testing.T) {
	m := HoldingMetrics(model.Holding{Ticker: "XYZ", Quantity: 3, CostBasis: 1}, model.Unavailable[float64](errors.New("boom")))
	assert.False(t, m.Priced)
	assert.Zero(t, m.MarketValue)

	m = HoldingMetrics(model.Holding{Ticker: "XYZ", Quantity: 3, CostBasis: 1}, model.Available(0.0))
	assert.False(t, m.Priced)
}

func TestHoldingMetrics_ZeroCost(t *testing.T) {
	m := HoldingMetrics(model.Holding{Ticker: "AIR", Quantity: 2}, model.Available(5.0))
	assert.Zero(t, m.PnLPct)
	assert.InDelta(t, 10.0, m.PnL, 1e-9)
}

func TestCurrentValues(t *testing.T) {
	holdings := []model.Holding{
		{Ticker: "pltr", Quantity: 10},
		{Ticker: "BTC-USD", Quantity: 0.5},
		{Ticker: "GONE", Quantity: 4},
		{Ticker: "NEG", Quantity: -4},
	}
	prices := map[string]float64{"PLTR": 20, "BTC-USD": 40000, "NEG": 10}
	got := CurrentValues(holdings, prices)
	assert.Equal(t, map[string]float64{"PLTR": 200, "BTC-USD": 20000, "GONE": 0, "NEG": 0}, got)
}
