// Package advisor runs one evaluation pass: prices, signals, targets, tickets
// and holdings P&L for a given portfolio state.
package advisor

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"CapitalSentinel/internal/calculator"
	"CapitalSentinel/internal/collector"
	"CapitalSentinel/internal/config"
	"CapitalSentinel/internal/metrics"
	"CapitalSentinel/internal/model"
	"CapitalSentinel/internal/sizing"
	"CapitalSentinel/internal/strategy"
	"CapitalSentinel/internal/ticket"
)

// Settings control history lookups and option delta estimation.
type Settings struct {
	HistoryPeriod   string
	HistoryInterval string
	RiskFreeRate    float64
	EstimateDelta   bool
}

// Advisor wires providers and the strategy document into the decision core.
type Advisor struct {
	prices   collector.PriceProvider
	chains   collector.OptionsProvider
	strategy *config.Strategy
	settings Settings
	metrics  *metrics.Metrics
	now      func() time.Time
}

// New creates an Advisor. chains may be nil when option screening is not needed.
func New(prices collector.PriceProvider, chains collector.OptionsProvider, strat *config.Strategy, settings Settings, m *metrics.Metrics) *Advisor {
	if settings.HistoryPeriod == "" {
		settings.HistoryPeriod = "6mo"
	}
	if settings.HistoryInterval == "" {
		settings.HistoryInterval = "1d"
	}
	return &Advisor{
		prices:   prices,
		chains:   chains,
		strategy: strat,
		settings: settings,
		metrics:  m,
		now:      time.Now,
	}
}

// Strategy returns the loaded strategy document.
func (a *Advisor) Strategy() *config.Strategy { return a.strategy }

// IncomeSplit is the monthly income divided across allocation buckets.
type IncomeSplit struct {
	LongTerm   float64 `json:"long_term"`
	Swing      float64 `json:"swing"`
	RealEstate float64 `json:"real_estate"`
}

// Report is the outcome of one evaluation pass.
type Report struct {
	GeneratedAt    time.Time              `json:"generated_at"`
	Prices         map[string]float64     `json:"prices"`
	Unpriced       []string               `json:"unpriced,omitempty"`
	Holdings       []model.HoldingMetrics `json:"holdings"`
	HoldingsValue  float64                `json:"holdings_value"`
	CashOnHand     float64                `json:"cash_on_hand"`
	PortfolioValue float64                `json:"portfolio_value"`
	IncomeSplit    IncomeSplit            `json:"income_split"`
	Signals        []model.Signal         `json:"signals"`
	Targets        model.AllocationTarget `json:"targets"`
	Tickets        []model.Ticket         `json:"tickets"`
	Clip           string                 `json:"clip"`
}

// Run evaluates the strategy universe against state. Provider failures degrade
// to HOLD signals and skipped tickets; Run itself never fails.
func (a *Advisor) Run(ctx context.Context, state model.PortfolioState) Report {
	start := a.now()
	strat := a.strategy

	symbols := a.symbols(state)
	prices := make(map[string]float64, len(symbols))
	results := make(map[string]model.Result[float64], len(symbols))
	var unpriced []string
	for _, s := range symbols {
		r := a.prices.LastPrice(ctx, s)
		results[s] = r
		if r.OK() && r.Value > 0 {
			prices[s] = r.Value
			continue
		}
		unpriced = append(unpriced, s)
		log.Warn().Str("ticker", s).Err(r.Err).Msg("price unavailable")
	}

	histories := make(map[string]model.PriceSeries, len(strat.Universe))
	for _, t := range strat.Universe {
		r := a.prices.History(ctx, t, a.settings.HistoryPeriod, a.settings.HistoryInterval)
		if !r.OK() {
			log.Warn().Str("ticker", t).Err(r.Err).Msg("history unavailable")
			continue
		}
		histories[t] = r.Value
	}

	signals := strategy.EvaluateAll(strat.Universe, strat.Rules, histories)
	for _, sig := range signals {
		a.metrics.ObserveSignal(string(sig.Action))
	}

	holdings := make([]model.HoldingMetrics, 0, len(state.Holdings))
	for _, h := range state.Holdings {
		holdings = append(holdings, calculator.HoldingMetrics(h, results[model.NormalizeTicker(h.Ticker)]))
	}
	holdingsValue := calculator.MarketValue(holdings)

	pv := state.TotalPortfolioValue
	if !(pv > 0) {
		pv = state.CashOnHand + holdingsValue
	}

	targets := sizing.Size(sizing.Inputs{
		PortfolioValue: pv,
		CashOnHand:     state.CashOnHand,
		LongTermPct:    strat.LongTermPct,
		Weights:        strat.Weights,
		Prices:         prices,
		CurrentValues:  calculator.CurrentValues(state.Holdings, prices),
		Risk:           strat.Risk,
	})

	tickets := ticket.Build(signals, targets, prices)
	a.metrics.AddTickets(len(tickets))

	income := state.MonthlyIncome
	report := Report{
		GeneratedAt:    start,
		Prices:         prices,
		Unpriced:       unpriced,
		Holdings:       holdings,
		HoldingsValue:  holdingsValue,
		CashOnHand:     state.CashOnHand,
		PortfolioValue: pv,
		IncomeSplit: IncomeSplit{
			LongTerm:   income * state.Allocations.LongTermPct / 100,
			Swing:      income * state.Allocations.SwingPct / 100,
			RealEstate: income * state.Allocations.RealEstatePct / 100,
		},
		Signals: signals,
		Targets: targets,
		Tickets: tickets,
		Clip:    ticket.Clip(tickets),
	}

	elapsed := a.now().Sub(start)
	a.metrics.ObserveRun(elapsed)
	log.Info().
		Int("signals", len(signals)).
		Int("tickets", len(tickets)).
		Int("unpriced", len(unpriced)).
		Dur("elapsed", elapsed).
		Msg("advisory pass complete")
	return report
}

// symbols returns universe, weighted and held tickers, first occurrence order.
func (a *Advisor) symbols(state model.PortfolioState) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(t string) {
		t = model.NormalizeTicker(t)
		if t == "" || seen[t] {
			return
		}
		seen[t] = true
		out = append(out, t)
	}
	for _, t := range a.strategy.Universe {
		add(t)
	}
	for _, h := range state.Holdings {
		add(h.Ticker)
	}
	weighted := make([]string, 0, len(a.strategy.Weights))
	for t := range a.strategy.Weights {
		weighted = append(weighted, t)
	}
	sort.Strings(weighted)
	for _, t := range weighted {
		add(t)
	}
	return out
}
