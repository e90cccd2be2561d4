package options

import (
	"sort"
	"time"

	"CapitalSentinel/internal/model"
)

// Criteria are the user-adjustable filters applied on top of the scored list.
type Criteria struct {
	MinVolume       float64 `yaml:"min_volume"`
	MinOpenInterest float64 `yaml:"min_open_interest"`
	MaxIVPct        float64 `yaml:"max_iv_pct"`
	MinDelta        float64 `yaml:"min_delta"`
	Limit           int     `yaml:"limit"`
}

// DefaultCriteria matches the screener's stock settings.
func DefaultCriteria() Criteria {
	return Criteria{MinVolume: 10, MinOpenInterest: 50, MaxIVPct: 100, MinDelta: 0.1, Limit: 20}
}

// Screen keeps scored contracts that satisfy the criteria, preserving rank
// order, and truncates to Limit when it is positive.
func Screen(scored []model.OptionContract, c Criteria) []model.OptionContract {
	out := make([]model.OptionContract, 0, len(scored))
	for _, oc := range scored {
		if oc.Volume < c.MinVolume ||
			oc.OpenInterest < c.MinOpenInterest ||
			oc.ImpliedVolatility > c.MaxIVPct/100 ||
			oc.Delta < c.MinDelta {
			continue
		}
		out = append(out, oc)
		if c.Limit > 0 && len(out) == c.Limit {
			break
		}
	}
	return out
}

// ExpirationCount is the number of ranked contracts per expiration.
type ExpirationCount struct {
	Expiration string `json:"expiration"`
	Count      int    `json:"count"`
}

// Summary aggregates a screened list.
type Summary struct {
	Total       int               `json:"total"`
	AvgIVPct    float64           `json:"avg_iv_pct"`
	AvgScore    float64           `json:"avg_score"`
	AvgDelta    float64           `json:"avg_delta"`
	Expirations []ExpirationCount `json:"expirations"`
}

// maxSummaryExpirations caps the expiration breakdown.
const maxSummaryExpirations = 5

// Summarize computes totals, averages and the busiest expirations.
func Summarize(contracts []model.OptionContract) Summary {
	s := Summary{Total: len(contracts)}
	if len(contracts) == 0 {
		return s
	}

	counts := map[string]int{}
	var iv, score, delta float64
	for _, c := range contracts {
		iv += c.ImpliedVolatility
		score += c.Score
		delta += c.Delta
		counts[c.Expiration]++
	}
	n := float64(len(contracts))
	s.AvgIVPct = iv / n * 100
	s.AvgScore = score / n
	s.AvgDelta = delta / n

	for exp, cnt := range counts {
		s.Expirations = append(s.Expirations, ExpirationCount{Expiration: exp, Count: cnt})
	}
	sort.Slice(s.Expirations, func(i, j int) bool {
		if s.Expirations[i].Count != s.Expirations[j].Count {
			return s.Expirations[i].Count > s.Expirations[j].Count
		}
		return s.Expirations[i].Expiration < s.Expirations[j].Expiration
	})
	if len(s.Expirations) > maxSummaryExpirations {
		s.Expirations = s.Expirations[:maxSummaryExpirations]
	}
	return s
}

// DaysToNextExpiration returns whole days from asOf to the nearest expiration.
// The second value is false for an empty or unparseable chain.
func DaysToNextExpiration(chain model.OptionChain, asOf time.Time) (int, bool) {
	exps := Expirations(chain)
	if len(exps) == 0 {
		return 0, false
	}
	next, err := time.Parse(model.ExpirationLayout, exps[0])
	if err != nil {
		return 0, false
	}
	y, m, d := asOf.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return int(next.Sub(today).Hours() / 24), true
}
