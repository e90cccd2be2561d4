package advisor

import (
	"context"

	"github.com/rs/zerolog/log"

	"CapitalSentinel/internal/model"
	"CapitalSentinel/internal/options"
)

// OptionsReport is a ranked, screened view of one underlying's call chain.
type OptionsReport struct {
	Ticker       string                 `json:"ticker"`
	Available    bool                   `json:"available"`
	Spot         float64                `json:"spot,omitempty"`
	Expirations  int                    `json:"expirations"`
	DaysToExpiry *int                   `json:"days_to_next_expiry,omitempty"`
	Scored       int                    `json:"scored"`
	Contracts    []model.OptionContract `json:"contracts"`
	Summary      options.Summary        `json:"summary"`
}

// ScreenOptions loads ticker's chain, fills missing deltas when enabled, scores
// the calls and applies criteria. An unavailable chain yields an empty report.
func (a *Advisor) ScreenOptions(ctx context.Context, ticker string, criteria options.Criteria) OptionsReport {
	ticker = model.NormalizeTicker(ticker)
	rep := OptionsReport{Ticker: ticker, Contracts: []model.OptionContract{}}
	if a.chains == nil {
		return rep
	}

	res := a.chains.Chain(ctx, ticker)
	if !res.OK() {
		log.Warn().Str("ticker", ticker).Err(res.Err).Msg("option chain unavailable")
		return rep
	}
	chain := res.Value
	rep.Available = true
	rep.Expirations = len(chain)

	now := a.now()
	if days, ok := options.DaysToNextExpiration(chain, now); ok {
		rep.DaysToExpiry = &days
	}

	spot := a.prices.LastPrice(ctx, ticker)
	if spot.OK() {
		rep.Spot = spot.Value
	}
	if a.settings.EstimateDelta {
		if spot.OK() && spot.Value > 0 {
			chain = options.EstimateDeltas(chain, spot.Value, a.settings.RiskFreeRate, now)
		} else {
			log.Warn().Str("ticker", ticker).Msg("no spot price, deltas not estimated")
		}
	}

	scored := options.ScoreChain(chain)
	rep.Scored = len(scored)
	a.metrics.AddContracts(len(scored))

	rep.Contracts = options.Screen(scored, criteria)
	rep.Summary = options.Summarize(rep.Contracts)
	return rep
}
