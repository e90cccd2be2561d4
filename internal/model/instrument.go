package model

import "strings"

// InstrumentKind distinguishes whole-unit instruments from continuously divisible ones.
type InstrumentKind int

const (
	InstrumentWholeUnit InstrumentKind = iota
	InstrumentFractional
)

func (k InstrumentKind) String() string {
	if k == InstrumentFractional {
		return "fractional"
	}
	return "whole_unit"
}

// fractionalSuffix is the Yahoo naming convention for crypto pairs quoted in USD.
const fractionalSuffix = "-USD"

// ClassifyInstrument decides how quantities for ticker are rounded.
func ClassifyInstrument(ticker string) InstrumentKind {
	if strings.HasSuffix(strings.ToUpper(strings.TrimSpace(ticker)), fractionalSuffix) {
		return InstrumentFractional
	}
	return InstrumentWholeUnit
}

// NormalizeTicker trims and upper-cases a user supplied symbol.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// RuleKey maps a ticker to its strategy document key: 'ES=F' -> 'es_f', 'BTC-USD' -> 'btc_usd'.
func RuleKey(ticker string) string {
	k := strings.ToLower(strings.TrimSpace(ticker))
	k = strings.ReplaceAll(k, "=", "_")
	return strings.ReplaceAll(k, "-", "_")
}
