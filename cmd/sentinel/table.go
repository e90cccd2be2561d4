package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/olekukonko/tablewriter"

	"CapitalSentinel/internal/advisor"
	"CapitalSentinel/internal/model"
	"CapitalSentinel/internal/options"
	"CapitalSentinel/internal/ticket"
)

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	t.SetAutoFormatHeaders(false)
	t.SetAlignment(tablewriter.ALIGN_LEFT)
	return t
}

func renderSignals(w io.Writer, signals []model.Signal) {
	t := newTable(w, "Ticker", "Action", "Confidence", "Reason")
	for _, s := range signals {
		t.Append([]string{s.Ticker, string(s.Action), fmt.Sprintf("%.2f", s.Confidence), s.Reason})
	}
	t.Render()
}

func renderTickets(w io.Writer, rep advisor.Report) {
	tickers := make([]string, 0, len(rep.Targets))
	for k := range rep.Targets {
		tickers = append(tickers, k)
	}
	sort.Strings(tickers)

	targets := newTable(w, "Ticker", "Target $", "Price")
	for _, k := range tickers {
		price := "n/a"
		if p, ok := rep.Prices[k]; ok {
			price = ticket.FormatDollars(p, 2)
		}
		targets.Append([]string{k, ticket.FormatDollars(rep.Targets[k], 2), price})
	}
	targets.Render()

	if len(rep.Tickets) == 0 {
		fmt.Fprintln(w, "\nNo tickets.")
		return
	}
	fmt.Fprintln(w)
	tickets := newTable(w, "ID", "Ticker", "Action", "Qty", "Est. Price", "Dollars", "Reason")
	for _, tk := range rep.Tickets {
		tickets.Append([]string{
			tk.ID, tk.Ticker, string(tk.Action), ticket.FormatQuantity(tk.Quantity),
			ticket.FormatDollars(tk.EstPrice, 2), ticket.FormatDollars(tk.Dollars, 2), tk.Reason,
		})
	}
	tickets.Render()
	fmt.Fprintf(w, "\n%s\n", rep.Clip)
}

func renderPortfolio(w io.Writer, state model.PortfolioState, rep advisor.Report) {
	t := newTable(w, "Ticker", "Qty", "Cost Basis", "Price", "Market Value", "P&L", "P&L %")
	for _, h := range rep.Holdings {
		if !h.Priced {
			t.Append([]string{h.Ticker, ticket.FormatQuantity(h.Quantity), ticket.FormatDollars(h.CostBasis, 2), "n/a", "n/a", "n/a", "n/a"})
			continue
		}
		t.Append([]string{
			h.Ticker, ticket.FormatQuantity(h.Quantity), ticket.FormatDollars(h.CostBasis, 2),
			ticket.FormatDollars(h.MarketPrice, 2), ticket.FormatDollars(h.MarketValue, 2),
			ticket.FormatDollars(h.PnL, 2), fmt.Sprintf("%+.2f%%", h.PnLPct),
		})
	}
	t.SetFooter([]string{"", "", "", "Total", ticket.FormatDollars(rep.HoldingsValue, 2), "", ""})
	t.Render()

	fmt.Fprintf(w, "\nCash on hand:    $%s\n", ticket.FormatDollars(state.CashOnHand, 2))
	fmt.Fprintf(w, "Monthly income:  $%s\n", ticket.FormatDollars(state.MonthlyIncome, 2))
	fmt.Fprintf(w, "Portfolio value: $%s\n", ticket.FormatDollars(rep.PortfolioValue, 2))
	fmt.Fprintf(w, "Allocations:     long %.0f%% ($%s) | swing %.0f%% ($%s) | real estate %.0f%% ($%s)\n",
		state.Allocations.LongTermPct, ticket.FormatDollars(rep.IncomeSplit.LongTerm, 0),
		state.Allocations.SwingPct, ticket.FormatDollars(rep.IncomeSplit.Swing, 0),
		state.Allocations.RealEstatePct, ticket.FormatDollars(rep.IncomeSplit.RealEstate, 0))
}

func renderOptions(w io.Writer, rep advisor.OptionsReport) {
	if !rep.Available {
		fmt.Fprintf(w, "No options data available for %s\n", rep.Ticker)
		return
	}
	fmt.Fprintf(w, "%s spot $%s | %d expirations", rep.Ticker, ticket.FormatDollars(rep.Spot, 2), rep.Expirations)
	if rep.DaysToExpiry != nil {
		fmt.Fprintf(w, " | next in %d days", *rep.DaysToExpiry)
	}
	fmt.Fprintf(w, " | %d scored\n\n", rep.Scored)

	if len(rep.Contracts) == 0 {
		fmt.Fprintln(w, "No contracts match the criteria.")
		return
	}
	t := newTable(w, "#", "Contract", "Expiration", "Strike", "Last", "IV %", "Volume", "OI", "Delta", "Score")
	for i, c := range rep.Contracts {
		t.Append([]string{
			fmt.Sprint(i + 1), c.ContractSymbol, c.Expiration,
			fmt.Sprintf("%.2f", c.Strike), fmt.Sprintf("%.2f", c.LastPrice),
			fmt.Sprintf("%.1f", c.ImpliedVolatility*100),
			fmt.Sprintf("%.0f", c.Volume), fmt.Sprintf("%.0f", c.OpenInterest),
			fmt.Sprintf("%.3f", c.Delta), fmt.Sprintf("%.4f", options.DisplayScore(c.Score)),
		})
	}
	t.Render()

	s := rep.Summary
	fmt.Fprintf(w, "\nTotal %d | avg IV %.1f%% | avg score %.4f | avg delta %.3f\n", s.Total, s.AvgIVPct, s.AvgScore, s.AvgDelta)
	for _, e := range s.Expirations {
		fmt.Fprintf(w, "  %s: %d\n", e.Expiration, e.Count)
	}
}
