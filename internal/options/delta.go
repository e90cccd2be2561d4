package options

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"CapitalSentinel/internal/model"
)

// yearDays is the day count used to annualize time to expiry.
const yearDays = 365.0

// expirationClose is the hour (UTC) at which a contract is treated as expiring.
const expirationClose = 20

// CallDelta is the Black-Scholes delta N(d1) of a European call.
// ok is false when any input makes d1 undefined.
func CallDelta(spot, strike, iv, rate, years float64) (delta float64, ok bool) {
	if !(spot > 0) || !(strike > 0) || !(iv > 0) || !(years > 0) {
		return 0, false
	}
	sqrtT := math.Sqrt(years)
	d1 := (math.Log(spot/strike) + (rate+iv*iv/2)*years) / (iv * sqrtT)
	return distuv.UnitNormal.CDF(d1), true
}

// EstimateDeltas returns a copy of chain in which calls lacking a delta get a
// Black-Scholes estimate. Rows where the estimate is undefined stay without delta.
func EstimateDeltas(chain model.OptionChain, spot, rate float64, asOf time.Time) model.OptionChain {
	out := make(model.OptionChain, len(chain))
	for exp, tables := range chain {
		calls := append([]model.OptionContract(nil), tables.Calls...)
		years, ok := yearsToExpiry(exp, asOf)
		if ok {
			for i := range calls {
				if calls[i].HasDelta {
					continue
				}
				if d, ok := CallDelta(spot, calls[i].Strike, calls[i].ImpliedVolatility, rate, years); ok {
					calls[i].Delta = d
					calls[i].HasDelta = true
				}
			}
		}
		out[exp] = model.ExpirationChain{Calls: calls, Puts: append([]model.OptionContract(nil), tables.Puts...)}
	}
	return out
}

func yearsToExpiry(exp string, asOf time.Time) (float64, bool) {
	d, err := time.Parse(model.ExpirationLayout, exp)
	if err != nil {
		return 0, false
	}
	expiry := d.Add(expirationClose * time.Hour)
	years := expiry.Sub(asOf).Hours() / 24 / yearDays
	return years, years > 0
}
