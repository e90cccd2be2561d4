// Package ticket converts BUY signals and dollar targets into advisory order tickets.
package ticket

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"CapitalSentinel/internal/model"
)

// fractionalPlaces is the quantity precision for continuously divisible instruments.
const fractionalPlaces = 3

// Build emits one ticket per BUY signal that has a positive price, a positive
// dollar target and a quantity that survives rounding. Signal order is preserved.
func Build(signals []model.Signal, targets model.AllocationTarget, prices map[string]float64) []model.Ticket {
	var tickets []model.Ticket
	for _, s := range signals {
		if s.Action != model.ActionBuy {
			continue
		}
		dollars := targets[s.Ticker]
		px := prices[s.Ticker]
		if !(px > 0) || !(dollars > 0) {
			continue
		}

		qty := Quantity(s.Ticker, dollars/px)
		if !(qty > 0) {
			continue
		}
		tickets = append(tickets, model.Ticket{
			ID:       uuid.NewString(),
			Ticker:   s.Ticker,
			Action:   model.ActionBuy,
			Quantity: qty,
			EstPrice: px,
			Dollars:  dollars,
			Reason:   s.Reason,
		})
	}
	return tickets
}

// Quantity rounds a raw unit count the way the instrument trades: three
// decimals for fractional instruments, whole units (truncated) otherwise.
func Quantity(ticker string, raw float64) float64 {
	d := decimal.NewFromFloat(raw)
	if model.ClassifyInstrument(ticker) == model.InstrumentFractional {
		return d.Round(fractionalPlaces).InexactFloat64()
	}
	return d.Truncate(0).InexactFloat64()
}

// Clip renders tickets as a single copyable order line.
func Clip(tickets []model.Ticket) string {
	parts := make([]string, 0, len(tickets))
	for _, t := range tickets {
		parts = append(parts, fmt.Sprintf("%s: BUY %s @ MKT (~$%s)",
			t.Ticker, FormatQuantity(t.Quantity), FormatDollars(t.Dollars, 0)))
	}
	return strings.Join(parts, " | ")
}

// FormatQuantity prints a quantity without trailing zeros.
func FormatQuantity(q float64) string {
	return decimal.NewFromFloat(q).String()
}

// FormatDollars prints an amount with thousands separators and the given decimals.
func FormatDollars(v float64, places int32) string {
	s := decimal.NewFromFloat(v).StringFixed(places)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String() + frac
	if neg {
		out = "-" + out
	}
	return out
}
