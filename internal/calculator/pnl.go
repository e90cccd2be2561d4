package calculator

import "CapitalSentinel/internal/model"

// HoldingMetrics values a holding at the given price. Unavailable or
// non-positive prices leave the row unpriced.
func HoldingMetrics(h model.Holding, price model.Result[float64]) model.HoldingMetrics {
	qty := clampNonNegative(h.Quantity)
	cost := clampNonNegative(h.CostBasis)
	m := model.HoldingMetrics{
		Ticker:    model.NormalizeTicker(h.Ticker),
		Quantity:  qty,
		CostBasis: cost,
	}
	if !price.OK() || !(price.Value > 0) {
		return m
	}

	m.Priced = true
	m.MarketPrice = price.Value
	m.MarketValue = qty * price.Value
	m.CostValue = qty * cost
	m.PnL = m.MarketValue - m.CostValue
	if m.CostValue != 0 {
		m.PnLPct = m.PnL / m.CostValue * 100.0
	}
	return m
}

// CurrentValues returns qty*price per upper-cased ticker. Tickers without a
// positive price are present with zero value.
func CurrentValues(holdings []model.Holding, prices map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(holdings))
	for _, h := range holdings {
		t := model.NormalizeTicker(h.Ticker)
		if t == "" {
			continue
		}
		out[t] += clampNonNegative(h.Quantity) * clampNonNegative(prices[t])
	}
	return out
}

// MarketValue sums the market value of all priced rows.
func MarketValue(metrics []model.HoldingMetrics) float64 {
	total := 0.0
	for _, m := range metrics {
		if m.Priced {
			total += m.MarketValue
		}
	}
	return total
}

// clampNonNegative maps negative and NaN inputs to zero.
func clampNonNegative(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	return v
}
