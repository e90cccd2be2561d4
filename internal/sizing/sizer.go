// Package sizing turns portfolio state and risk limits into per-ticker dollar targets.
package sizing

import (
	"math"

	"CapitalSentinel/internal/model"
)

// Inputs is everything the sizer needs for one pass. Maps are keyed by ticker.
type Inputs struct {
	PortfolioValue float64
	CashOnHand     float64
	LongTermPct    float64
	Weights        map[string]float64
	Prices         map[string]float64
	CurrentValues  map[string]float64
	Risk           model.RiskLimits
}

// Size computes allocation targets. The long-term slice of cash is split by
// weight, each target is capped by max_buy_usd and the remaining room under the
// position cap, and the total is scaled down so min_cash_reserve_usd stays
// untouched.
func Size(in Inputs) model.AllocationTarget {
	targets := make(model.AllocationTarget, len(in.Weights))
	if len(in.Weights) == 0 {
		return targets
	}

	risk := sanitizeRisk(in.Risk)
	cash := nonNegative(in.CashOnHand)
	allocLong := cash * (nonNegative(in.LongTermPct) / 100.0)
	maxPosVal := risk.MaxPositionPct * math.Max(1.0, nonNegative(in.PortfolioValue))

	total := 0.0
	for t, w := range in.Weights {
		raw := allocLong * nonNegative(w)
		room := math.Max(0, maxPosVal-nonNegative(in.CurrentValues[t]))
		target := math.Min(raw, math.Min(risk.MaxBuyUSD, room))
		if px := in.Prices[t]; !(px > 0) {
			target = 0
		}
		targets[t] = target
		total += target
	}

	spare := math.Max(0, cash-risk.MinCashReserveUSD)
	if total > spare && total > 0 {
		scale := spare / total
		for t, v := range targets {
			targets[t] = v * scale
		}
	}
	return targets
}

// sanitizeRisk clamps negative or NaN limits to zero.
func sanitizeRisk(r model.RiskLimits) model.RiskLimits {
	return model.RiskLimits{
		MaxPositionPct:    nonNegative(r.MaxPositionPct),
		MaxBuyUSD:         nonNegative(r.MaxBuyUSD),
		MinCashReserveUSD: nonNegative(r.MinCashReserveUSD),
	}
}

func nonNegative(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	return v
}
