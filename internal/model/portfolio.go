package model

import "time"

// RiskLimits bounds what the sizer may propose.
type RiskLimits struct {
	MaxPositionPct    float64 `json:"max_position_pct" yaml:"max_position_pct"`
	MaxBuyUSD         float64 `json:"max_buy_usd" yaml:"max_buy_usd"`
	MinCashReserveUSD float64 `json:"min_cash_reserve_usd" yaml:"min_cash_reserve_usd"`
}

// DefaultRiskLimits returns the built-in limits used when the strategy omits them.
func DefaultRiskLimits() RiskLimits {
	return RiskLimits{
		MaxPositionPct:    0.25,
		MaxBuyUSD:         2500,
		MinCashReserveUSD: 5000,
	}
}

// AllocationTarget maps ticker to the dollar amount proposed for deployment.
type AllocationTarget map[string]float64

// Total sums all targets.
func (a AllocationTarget) Total() float64 {
	sum := 0.0
	for _, v := range a {
		sum += v
	}
	return sum
}

// Allocations splits income between buckets, in percent.
type Allocations struct {
	LongTermPct   float64 `json:"long_term_pct"`
	SwingPct      float64 `json:"swing_pct"`
	RealEstatePct float64 `json:"real_estate_pct"`
}

// Sum returns the total of all buckets.
func (a Allocations) Sum() float64 { return a.LongTermPct + a.SwingPct + a.RealEstatePct }

// DefaultAllocations mirrors the long/swing/real-estate split of 40/30/30.
func DefaultAllocations() Allocations {
	return Allocations{LongTermPct: 40, SwingPct: 30, RealEstatePct: 30}
}

// Holding is one row of the core holdings table.
type Holding struct {
	Ticker    string  `json:"ticker"`
	Quantity  float64 `json:"quantity"`
	CostBasis float64 `json:"cost_basis"`
}

// PortfolioState is the caller-owned portfolio snapshot passed into every evaluation.
type PortfolioState struct {
	MonthlyIncome       float64     `json:"monthly_income"`
	CashOnHand          float64     `json:"cash_on_hand"`
	TotalPortfolioValue float64     `json:"total_portfolio_value"`
	Allocations         Allocations `json:"allocations"`
	Holdings            []Holding   `json:"holdings"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

// Clone returns a deep copy so callers can mutate holdings freely.
func (s PortfolioState) Clone() PortfolioState {
	out := s
	out.Holdings = append([]Holding(nil), s.Holdings...)
	return out
}

// HoldingMetrics is the live valuation of one holding.
type HoldingMetrics struct {
	Ticker      string  `json:"ticker"`
	Quantity    float64 `json:"quantity"`
	CostBasis   float64 `json:"cost_basis"`
	Priced      bool    `json:"priced"`
	MarketPrice float64 `json:"market_price"`
	MarketValue float64 `json:"market_value"`
	CostValue   float64 `json:"cost_value"`
	PnL         float64 `json:"pnl"`
	PnLPct      float64 `json:"pnl_pct"`
}

// Ticket is an advisory, unexecuted order proposal.
type Ticket struct {
	ID       string  `json:"id"`
	Ticker   string  `json:"ticker"`
	Action   Action  `json:"action"`
	Quantity float64 `json:"qty"`
	EstPrice float64 `json:"est_price"`
	Dollars  float64 `json:"dollars"`
	Reason   string  `json:"reason"`
}
