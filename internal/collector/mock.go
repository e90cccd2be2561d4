package collector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"CapitalSentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// Symbols without configured data are reported as failures.
type MockFetcher struct {
	mu        sync.Mutex
	Prices    map[string]float64
	Histories map[string]model.PriceSeries
	Chains    map[string]model.OptionChain
	Err       error
	calls     int
}

// NewMockFetcher creates an empty mock.
func NewMockFetcher() *MockFetcher {
	return &MockFetcher{
		Prices:    map[string]float64{},
		Histories: map[string]model.PriceSeries{},
		Chains:    map[string]model.OptionChain{},
	}
}

func (m *MockFetcher) Name() string { return "mock" }

// Calls returns how many upstream lookups were served.
func (m *MockFetcher) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockFetcher) FetchHistory(_ context.Context, symbol, _, _ string) (model.PriceSeries, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.Err != nil {
		return model.PriceSeries{}, m.Err
	}
	s, ok := m.Histories[symbol]
	if !ok {
		return model.PriceSeries{}, fmt.Errorf("mock: unknown symbol %s", symbol)
	}
	return s, nil
}

func (m *MockFetcher) FetchLastPrice(_ context.Context, symbol string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.Err != nil {
		return 0, m.Err
	}
	p, ok := m.Prices[symbol]
	if !ok {
		return 0, fmt.Errorf("mock: unknown symbol %s", symbol)
	}
	return p, nil
}

func (m *MockFetcher) FetchChain(_ context.Context, symbol string) (model.OptionChain, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.Err != nil {
		return nil, m.Err
	}
	c, ok := m.Chains[symbol]
	if !ok {
		return nil, fmt.Errorf("mock: no chain for %s", symbol)
	}
	return c, nil
}

// GenerateSeries builds a daily close series drifting from base by step per bar.
func GenerateSeries(symbol string, base, step float64, count int) model.PriceSeries {
	end := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	s := model.PriceSeries{Symbol: symbol, FetchedAt: end}
	for i := 0; i < count; i++ {
		s.Points = append(s.Points, model.PricePoint{
			Time:  end.AddDate(0, 0, -(count - 1 - i)),
			Close: base + step*float64(i),
		})
	}
	return s
}

// DemoFetcher returns a mock seeded with a rising equity, a flat equity, two
// crypto pairs and a small PLTR call chain, for offline runs.
func DemoFetcher() *MockFetcher {
	m := NewMockFetcher()
	seed := []struct {
		symbol     string
		base, step float64
	}{
		{"PLTR", 14, 0.1},
		{"CRWD", 250, 0},
		{"BTC-USD", 60000, 50},
		{"XRP-USD", 0.6, -0.002},
	}
	for _, s := range seed {
		series := GenerateSeries(s.symbol, s.base, s.step, 120)
		m.Histories[s.symbol] = series
		m.Prices[s.symbol] = series.Last()
	}

	exp := time.Now().UTC().AddDate(0, 0, 30).Format(model.ExpirationLayout)
	m.Chains["PLTR"] = model.OptionChain{
		exp: {
			Calls: []model.OptionContract{
				{ContractSymbol: "PLTR-DEMO-C25", Strike: 25, Expiration: exp, LastPrice: 1.1, ImpliedVolatility: 0.55, Volume: 800, OpenInterest: 2400},
				{ContractSymbol: "PLTR-DEMO-C28", Strike: 28, Expiration: exp, LastPrice: 0.4, ImpliedVolatility: 0.6, Volume: 300, OpenInterest: 1500},
				{ContractSymbol: "PLTR-DEMO-C20", Strike: 20, Expiration: exp, LastPrice: 5.2, ImpliedVolatility: 0.5, Volume: 120, OpenInterest: 900, InTheMoney: true},
			},
		},
	}
	return m
}
