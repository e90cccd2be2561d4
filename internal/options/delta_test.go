package options

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CapitalSentinel/internal/model"
)

func TestCallDelta(t *testing.T) {
	// at the money, zero rate: d1 = iv*sqrt(T)/2 -> delta slightly above 0.5
	d, ok := CallDelta(100, 100, 0.2, 0, 1)
	require.True(t, ok)
	assert.InDelta(t, 0.5398, d, 1e-4)

	deep, ok := CallDelta(200, 100, 0.2, 0.04, 0.5)
	require.True(t, ok)
	assert.Greater(t, deep, 0.99)

	far, ok := CallDelta(50, 100, 0.2, 0.04, 0.1)
	require.True(t, ok)
	assert.Less(t, far, 0.01)

	_, ok = CallDelta(100, 100, 0, 0, 1)
	assert.False(t, ok)
	_, ok = CallDelta(100, 100, 0.3, 0, 0)
	assert.False(t, ok)
}

func TestEstimateDeltas(t *testing.T) {
	known := model.OptionContract{ContractSymbol: "KNOWN", Strike: 100, ImpliedVolatility: 0.3, Delta: 0.42, HasDelta: true}
	missing := model.OptionContract{ContractSymbol: "MISSING", Strike: 110, ImpliedVolatility: 0.3}
	zeroIV := model.OptionContract{ContractSymbol: "ZEROIV", Strike: 110}
	chain := model.OptionChain{
		"2025-06-20": {Calls: []model.OptionContract{known, missing, zeroIV}},
		"2024-01-19": {Calls: []model.OptionContract{missing}},
	}
	asOf := time.Date(2025, 1, 2, 15, 0, 0, 0, time.UTC)

	got := EstimateDeltas(chain, 100, 0.04, asOf)
	calls := got["2025-06-20"].Calls
	assert.Equal(t, 0.42, calls[0].Delta)
	assert.True(t, calls[1].HasDelta)
	assert.Greater(t, calls[1].Delta, 0.0)
	assert.Less(t, calls[1].Delta, 0.5)
	assert.False(t, calls[2].HasDelta)
	// expired chain stays without delta
	assert.False(t, got["2024-01-19"].Calls[0].HasDelta)
	// input chain untouched
	assert.False(t, chain["2025-06-20"].Calls[1].HasDelta)
}
