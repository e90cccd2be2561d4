package advisor

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CapitalSentinel/internal/collector"
	"CapitalSentinel/internal/config"
	"CapitalSentinel/internal/metrics"
	"CapitalSentinel/internal/model"
	"CapitalSentinel/internal/options"
)

var fixedNow = time.Date(2025, 1, 2, 15, 0, 0, 0, time.UTC)

func testStrategy() *config.Strategy {
	return &config.Strategy{
		Universe:    []string{"PLTR", "BTC-USD"},
		Weights:     map[string]float64{"PLTR": 0.5, "BTC-USD": 0.5},
		Risk:        model.RiskLimits{MaxPositionPct: 0.25, MaxBuyUSD: 2500, MinCashReserveUSD: 0},
		LongTermPct: 40,
		Rules: map[string]model.RuleSet{
			"pltr": {BuyIf: []model.Condition{{Kind: model.ConditionPriceAboveSMA, Window: 3}}},
		},
	}
}

func newTestAdvisor(t *testing.T) (*Advisor, *collector.MockFetcher, *metrics.Metrics) {
	t.Helper()
	f := collector.NewMockFetcher()
	f.Prices["PLTR"] = 20
	f.Prices["BTC-USD"] = 50000
	f.Histories["PLTR"] = collector.GenerateSeries("PLTR", 10, 1, 30)
	f.Histories["BTC-USD"] = collector.GenerateSeries("BTC-USD", 50000, 0, 30)

	m := metrics.New(prometheus.NewRegistry())
	opts := collector.DefaultOptions()
	opts.RatePerSecond = 0
	opts.Metrics = m
	market := collector.NewMarket(f, f, opts)

	a := New(market, market, testStrategy(), Settings{EstimateDelta: true, RiskFreeRate: 0.04}, m)
	a.now = func() time.Time { return fixedNow }
	return a, f, m
}

func TestRun_EndToEnd(t *testing.T) {
	a, _, m := newTestAdvisor(t)
	state := model.PortfolioState{
		MonthlyIncome:       10000,
		CashOnHand:          10000,
		TotalPortfolioValue: 100000,
		Allocations:         model.DefaultAllocations(),
		Holdings: []model.Holding{
			{Ticker: "PLTR", Quantity: 10, CostBasis: 14.5},
			{Ticker: "GHOST", Quantity: 1, CostBasis: 1},
		},
	}

	rep := a.Run(context.Background(), state)

	require.Len(t, rep.Signals, 2)
	assert.Equal(t, model.ActionBuy, rep.Signals[0].Action)
	assert.Equal(t, "price>3SMA", rep.Signals[0].Reason)
	assert.Equal(t, model.ActionHold, rep.Signals[1].Action)
	assert.Equal(t, "neutral", rep.Signals[1].Reason)

	assert.InDelta(t, 2000, rep.Targets["PLTR"], 1e-9)
	assert.InDelta(t, 2000, rep.Targets["BTC-USD"], 1e-9)

	require.Len(t, rep.Tickets, 1, "only BUY signals become tickets")
	tk := rep.Tickets[0]
	assert.Equal(t, "PLTR", tk.Ticker)
	assert.Equal(t, 100.0, tk.Quantity)
	assert.Equal(t, 20.0, tk.EstPrice)
	assert.NotEmpty(t, tk.ID)
	assert.Contains(t, rep.Clip, "PLTR: BUY 100 @ MKT")

	require.Len(t, rep.Holdings, 2)
	assert.True(t, rep.Holdings[0].Priced)
	assert.InDelta(t, 55, rep.Holdings[0].PnL, 1e-9)
	assert.False(t, rep.Holdings[1].Priced)
	assert.Equal(t, []string{"GHOST"}, rep.Unpriced)
	assert.InDelta(t, 200, rep.HoldingsValue, 1e-9)

	assert.Equal(t, 4000.0, rep.IncomeSplit.LongTerm)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Tickets))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Signals.WithLabelValues("BUY")))
}

func TestRun_DerivesPortfolioValue(t *testing.T) {
	a, _, _ := newTestAdvisor(t)
	state := model.PortfolioState{
		CashOnHand: 10000,
		Holdings:   []model.Holding{{Ticker: "PLTR", Quantity: 10, CostBasis: 14.5}},
	}

	rep := a.Run(context.Background(), state)
	assert.InDelta(t, 10200, rep.PortfolioValue, 1e-9)
	// position cap 0.25*10200 - 200 = 2350 is above the 2000 raw target
	assert.InDelta(t, 2000, rep.Targets["PLTR"], 1e-9)
}

func TestRun_ProviderDown(t *testing.T) {
	a, f, _ := newTestAdvisor(t)
	f.Err = assert.AnError

	rep := a.Run(context.Background(), model.PortfolioState{CashOnHand: 10000})

	require.Len(t, rep.Signals, 2)
	for _, s := range rep.Signals {
		assert.Equal(t, model.ActionHold, s.Action)
		assert.Equal(t, "no data", s.Reason)
	}
	assert.Empty(t, rep.Tickets)
	assert.Equal(t, 0.0, rep.Targets.Total())
	assert.ElementsMatch(t, []string{"PLTR", "BTC-USD"}, rep.Unpriced)
}

func TestScreenOptions_EstimatesDeltas(t *testing.T) {
	a, f, _ := newTestAdvisor(t)
	f.Chains["PLTR"] = model.OptionChain{
		"2025-02-21": {
			Calls: []model.OptionContract{
				{ContractSymbol: "ATM", Strike: 20, ImpliedVolatility: 0.5, Volume: 100, OpenInterest: 200},
				{ContractSymbol: "ITM", Strike: 10, ImpliedVolatility: 0.5, Volume: 100, OpenInterest: 200, InTheMoney: true},
			},
		},
	}

	rep := a.ScreenOptions(context.Background(), "pltr", options.DefaultCriteria())

	assert.True(t, rep.Available)
	assert.Equal(t, "PLTR", rep.Ticker)
	assert.Equal(t, 20.0, rep.Spot)
	assert.Equal(t, 1, rep.Expirations)
	require.NotNil(t, rep.DaysToExpiry)
	assert.Equal(t, 50, *rep.DaysToExpiry)
	assert.Equal(t, 1, rep.Scored)
	require.Len(t, rep.Contracts, 1)
	c := rep.Contracts[0]
	assert.Equal(t, "ATM", c.ContractSymbol)
	assert.True(t, c.HasDelta)
	assert.InDelta(t, 0.55, c.Delta, 0.05)
	assert.Equal(t, 1, rep.Summary.Total)
}

func TestScreenOptions_WithoutEstimationChainIsEmpty(t *testing.T) {
	a, f, _ := newTestAdvisor(t)
	a.settings.EstimateDelta = false
	f.Chains["PLTR"] = model.OptionChain{
		"2025-02-21": {Calls: []model.OptionContract{{ContractSymbol: "ATM", Strike: 20, ImpliedVolatility: 0.5, Volume: 100, OpenInterest: 200}}},
	}

	rep := a.ScreenOptions(context.Background(), "PLTR", options.DefaultCriteria())
	assert.True(t, rep.Available)
	assert.Zero(t, rep.Scored)
	assert.Empty(t, rep.Contracts)
}

func TestScreenOptions_Unavailable(t *testing.T) {
	a, _, _ := newTestAdvisor(t)

	rep := a.ScreenOptions(context.Background(), "NOPE", options.DefaultCriteria())
	assert.False(t, rep.Available)
	assert.NotNil(t, rep.Contracts)
	assert.Empty(t, rep.Contracts)
}
