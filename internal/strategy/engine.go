package strategy

import (
	"strings"

	"CapitalSentinel/internal/model"
)

const (
	reasonNoData  = "no data"
	reasonNeutral = "neutral"
)

// Evaluate runs the ticker's buy-conditions in declared order against the
// series. Each satisfied condition adds one point; confidence is min(1, score/2).
func Evaluate(ticker string, rules model.RuleSet, series model.PriceSeries) model.Signal {
	if series.Empty() {
		return model.Signal{Ticker: ticker, Action: model.ActionHold, Confidence: 0, Reason: reasonNoData}
	}

	closes := series.Closes()
	score := 0
	var reasons []string
	for _, c := range rules.BuyIf {
		fn, ok := conditions[c.Kind]
		if !ok {
			continue
		}
		if hit, label := fn(closes, c); hit {
			score++
			reasons = append(reasons, label)
		}
	}

	if score > 0 {
		return model.Signal{
			Ticker:     ticker,
			Action:     model.ActionBuy,
			Confidence: min(1.0, float64(score)/2),
			Reason:     strings.Join(reasons, ", "),
		}
	}

	reason := strings.Join(reasons, ", ")
	if reason == "" {
		reason = reasonNeutral
	}
	return model.Signal{Ticker: ticker, Action: model.ActionHold, Confidence: 0, Reason: reason}
}

// EvaluateAll evaluates every ticker in universe order. Tickers without rules
// or history still produce a signal.
func EvaluateAll(universe []string, rules map[string]model.RuleSet, histories map[string]model.PriceSeries) []model.Signal {
	signals := make([]model.Signal, 0, len(universe))
	for _, t := range universe {
		signals = append(signals, Evaluate(t, rules[model.RuleKey(t)], histories[t]))
	}
	return signals
}
