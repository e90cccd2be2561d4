package options

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CapitalSentinel/internal/model"
)

func TestScreen_Criteria(t *testing.T) {
	scored := []model.OptionContract{
		{ContractSymbol: "A", Volume: 500, OpenInterest: 100, ImpliedVolatility: 0.9, Delta: 0.4, Score: 2},
		{ContractSymbol: "B", Volume: 20, OpenInterest: 100, ImpliedVolatility: 0.3, Delta: 0.05, Score: 1.5},
		{ContractSymbol: "C", Volume: 200, OpenInterest: 300, ImpliedVolatility: 0.3, Delta: 0.5, Score: 1.2},
		{ContractSymbol: "D", Volume: 20, OpenInterest: 80, ImpliedVolatility: 0.2, Delta: 0.3, Score: 1.1},
	}

	got := Screen(scored, DefaultCriteria())
	require.Len(t, got, 3)
	assert.Equal(t, "A", got[0].ContractSymbol)

	strict := Criteria{MinVolume: 100, MinOpenInterest: 50, MaxIVPct: 50, MinDelta: 0.1, Limit: 0}
	got = Screen(scored, strict)
	require.Len(t, got, 1)
	assert.Equal(t, "C", got[0].ContractSymbol)

	limited := DefaultCriteria()
	limited.Limit = 2
	assert.Len(t, Screen(scored, limited), 2)
}

func TestSummarize(t *testing.T) {
	contracts := []model.OptionContract{
		{Expiration: "2025-02-21", ImpliedVolatility: 0.2, Score: 1, Delta: 0.4},
		{Expiration: "2025-01-17", ImpliedVolatility: 0.4, Score: 2, Delta: 0.6},
		{Expiration: "2025-02-21", ImpliedVolatility: 0.3, Score: 3, Delta: 0.5},
	}
	s := Summarize(contracts)
	assert.Equal(t, 3, s.Total)
	assert.InDelta(t, 30.0, s.AvgIVPct, 1e-9)
	assert.InDelta(t, 2.0, s.AvgScore, 1e-9)
	assert.InDelta(t, 0.5, s.AvgDelta, 1e-9)
	assert.Equal(t, []ExpirationCount{{"2025-02-21", 2}, {"2025-01-17", 1}}, s.Expirations)

	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestDaysToNextExpiration(t *testing.T) {
	chain := model.OptionChain{"2025-01-17": {}, "2025-02-21": {}}
	asOf := time.Date(2025, 1, 10, 15, 30, 0, 0, time.UTC)
	days, ok := DaysToNextExpiration(chain, asOf)
	assert.True(t, ok)
	assert.Equal(t, 7, days)

	_, ok = DaysToNextExpiration(model.OptionChain{}, asOf)
	assert.False(t, ok)
}
