package notifier

import (
	"fmt"
	"html"
	"strings"

	"CapitalSentinel/internal/advisor"
	"CapitalSentinel/internal/model"
	"CapitalSentinel/internal/options"
	"CapitalSentinel/internal/ticket"
)

const timeLayout = "2006-01-02 15:04"

// FormatAdvisory formats a full advisory pass into a Telegram message.
func FormatAdvisory(rep advisor.Report) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>CapitalSentinel advisory</b> | %s\n\n", rep.GeneratedAt.Format(timeLayout)))
	b.WriteString(fmt.Sprintf("Cash: $%s | Portfolio: $%s\n\n",
		ticket.FormatDollars(rep.CashOnHand, 0), ticket.FormatDollars(rep.PortfolioValue, 0)))
	b.WriteString(FormatSignals(rep.Signals))
	b.WriteString("\n")
	b.WriteString(FormatTickets(rep))
	if len(rep.Unpriced) > 0 {
		b.WriteString(fmt.Sprintf("\n⚠️ No price for: %s\n", html.EscapeString(strings.Join(rep.Unpriced, ", "))))
	}
	return b.String()
}

// FormatSignals lists one line per ticker.
func FormatSignals(signals []model.Signal) string {
	var b strings.Builder
	b.WriteString("📈 <b>Signals</b>\n")
	if len(signals) == 0 {
		b.WriteString("  none\n")
		return b.String()
	}
	for _, s := range signals {
		icon := "⏸"
		if s.Action == model.ActionBuy {
			icon = "🟢"
		}
		b.WriteString(fmt.Sprintf("  %s %s %s (%.2f) %s\n",
			icon, html.EscapeString(s.Ticker), s.Action, s.Confidence, html.EscapeString(s.Reason)))
	}
	return b.String()
}

// FormatTickets lists proposed tickets and the copyable clip line.
func FormatTickets(rep advisor.Report) string {
	var b strings.Builder
	b.WriteString("🧾 <b>Tickets</b>\n")
	if len(rep.Tickets) == 0 {
		b.WriteString("  no tickets\n")
		return b.String()
	}
	for _, t := range rep.Tickets {
		b.WriteString(fmt.Sprintf("  %s BUY %s @ ~$%s = $%s\n",
			html.EscapeString(t.Ticker), ticket.FormatQuantity(t.Quantity),
			ticket.FormatDollars(t.EstPrice, 2), ticket.FormatDollars(t.Dollars, 2)))
	}
	b.WriteString(fmt.Sprintf("\n<code>%s</code>\n", html.EscapeString(rep.Clip)))
	return b.String()
}

// FormatPortfolio shows holdings P&L and the income split.
func FormatPortfolio(rep advisor.Report) string {
	var b strings.Builder
	b.WriteString("📦 <b>Portfolio</b>\n\n")
	for _, h := range rep.Holdings {
		if !h.Priced {
			b.WriteString(fmt.Sprintf("  %s %s | no price\n", html.EscapeString(h.Ticker), ticket.FormatQuantity(h.Quantity)))
			continue
		}
		b.WriteString(fmt.Sprintf("  %s %s @ $%s | $%s (%+.1f%%)\n",
			html.EscapeString(h.Ticker), ticket.FormatQuantity(h.Quantity),
			ticket.FormatDollars(h.MarketPrice, 2), ticket.FormatDollars(h.MarketValue, 2), h.PnLPct))
	}
	b.WriteString(fmt.Sprintf("\nHoldings: $%s\n", ticket.FormatDollars(rep.HoldingsValue, 2)))
	b.WriteString(fmt.Sprintf("Cash: $%s\n", ticket.FormatDollars(rep.CashOnHand, 2)))
	b.WriteString(fmt.Sprintf("Income split: long $%s | swing $%s | real estate $%s\n",
		ticket.FormatDollars(rep.IncomeSplit.LongTerm, 0),
		ticket.FormatDollars(rep.IncomeSplit.Swing, 0),
		ticket.FormatDollars(rep.IncomeSplit.RealEstate, 0)))
	return b.String()
}

// FormatOptions shows the top screened calls for one underlying.
func FormatOptions(rep advisor.OptionsReport, top int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🎯 <b>Options %s</b>\n", html.EscapeString(rep.Ticker)))
	if !rep.Available {
		b.WriteString("No options data available\n")
		return b.String()
	}
	if rep.Spot > 0 {
		b.WriteString(fmt.Sprintf("Spot: $%s", ticket.FormatDollars(rep.Spot, 2)))
	}
	if rep.DaysToExpiry != nil {
		b.WriteString(fmt.Sprintf(" | next expiry in %dd", *rep.DaysToExpiry))
	}
	b.WriteString(fmt.Sprintf("\n%d expirations, %d scored, %d match\n\n", rep.Expirations, rep.Scored, len(rep.Contracts)))

	if len(rep.Contracts) == 0 {
		b.WriteString("No contracts match the criteria\n")
		return b.String()
	}
	for i, c := range rep.Contracts {
		if top > 0 && i == top {
			break
		}
		b.WriteString(fmt.Sprintf("  %d. <code>%s</code> K=%.2f exp %s IV %.1f%% Δ %.2f score %.4f\n",
			i+1, html.EscapeString(c.ContractSymbol), c.Strike, c.Expiration,
			c.ImpliedVolatility*100, c.Delta, options.DisplayScore(c.Score)))
	}
	s := rep.Summary
	b.WriteString(fmt.Sprintf("\nAvg IV %.1f%% | avg score %.4f | avg Δ %.2f\n", s.AvgIVPct, s.AvgScore, s.AvgDelta))
	return b.String()
}

// FormatError renders a failed command reply.
func FormatError(err error) string {
	return fmt.Sprintf("❌ %s", html.EscapeString(err.Error()))
}
