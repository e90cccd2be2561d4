// Package options filters and ranks option chains by a composite
// liquidity/volatility/delta score.
package options

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"CapitalSentinel/internal/model"
)

// Filter thresholds; all must hold for a call to be scored.
const (
	maxImpliedVolatility = 1.0
	minVolume            = 10
	minOpenInterest      = 50
)

// Score weights.
const (
	weightVolumeOI   = 0.4
	weightCheapIV    = 0.3
	weightDeltaFocus = 0.3
)

// Eligible reports whether a call passes the screening predicate: out of the
// money, IV below 100%, volume above 10, open interest above 50, delta present.
func Eligible(c model.OptionContract) bool {
	return !c.InTheMoney &&
		c.ImpliedVolatility < maxImpliedVolatility &&
		c.Volume > minVolume &&
		c.OpenInterest > minOpenInterest &&
		c.HasDelta && !math.IsNaN(c.Delta)
}

// Score returns the unrounded composite score. The volume/OI term is unbounded,
// so low-OI contracts with heavy volume can dominate a ranking.
func Score(c model.OptionContract) float64 {
	return weightVolumeOI*(c.Volume/c.OpenInterest) +
		weightCheapIV*(1-c.ImpliedVolatility) +
		weightDeltaFocus*(1-math.Abs(0.5-c.Delta))
}

// DisplayScore rounds a score to four decimals for presentation.
func DisplayScore(score float64) float64 {
	return decimal.NewFromFloat(score).Round(4).InexactFloat64()
}

// ScoreChain scores every eligible call across all expirations and returns them
// sorted by descending score. Expirations are visited in ascending date order and
// ties keep that input order.
func ScoreChain(chain model.OptionChain) []model.OptionContract {
	var scored []model.OptionContract
	for _, exp := range Expirations(chain) {
		for _, c := range chain[exp].Calls {
			if !Eligible(c) {
				continue
			}
			c.Expiration = exp
			c.Score = Score(c)
			scored = append(scored, c)
		}
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	return scored
}

// Expirations returns the chain's expiration keys in ascending order.
func Expirations(chain model.OptionChain) []string {
	keys := make([]string, 0, len(chain))
	for k := range chain {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
