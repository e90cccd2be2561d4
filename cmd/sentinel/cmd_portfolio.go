package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"CapitalSentinel/internal/model"
)

func portfolioCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Show holdings P&L and manage portfolio state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			state := a.portfolio.GetState()
			rep := a.advisor.Run(cmd.Context(), state)
			renderPortfolio(cmd.OutOrStdout(), state, rep)
			return nil
		},
	}

	amountCmd := func(use, short string, set func(float64) error) *cobra.Command {
		return &cobra.Command{
			Use:   use + " AMOUNT",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := parseAmount(args[0])
				if err != nil {
					return err
				}
				if err := set(v); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %.2f\n", use, v)
				return nil
			},
		}
	}

	cmd.AddCommand(
		amountCmd("set-cash", "Set cash on hand", func(v float64) error { return a.portfolio.SetCash(v) }),
		amountCmd("set-income", "Set monthly income", func(v float64) error { return a.portfolio.SetMonthlyIncome(v) }),
		amountCmd("set-value", "Set total portfolio value (0 derives it from cash and holdings)", func(v float64) error { return a.portfolio.SetPortfolioValue(v) }),
		&cobra.Command{
			Use:   "add TICKER QTY COST",
			Short: "Add or replace a holding",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				qty, err := parseAmount(args[1])
				if err != nil {
					return err
				}
				cost, err := parseAmount(args[2])
				if err != nil {
					return err
				}
				h := model.Holding{Ticker: args[0], Quantity: qty, CostBasis: cost}
				if err := a.portfolio.UpsertHolding(h); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "holding %s saved\n", model.NormalizeTicker(args[0]))
				return nil
			},
		},
		&cobra.Command{
			Use:   "remove TICKER",
			Short: "Remove a holding",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.portfolio.RemoveHolding(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "holding %s removed\n", model.NormalizeTicker(args[0]))
				return nil
			},
		},
		&cobra.Command{
			Use:   "alloc LONG SWING REAL_ESTATE",
			Short: "Set the income allocation percentages",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				var pct [3]float64
				for i, raw := range args {
					v, err := parseAmount(raw)
					if err != nil {
						return err
					}
					pct[i] = v
				}
				alloc := model.Allocations{LongTermPct: pct[0], SwingPct: pct[1], RealEstatePct: pct[2]}
				if err := a.portfolio.SetAllocations(alloc); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "allocations: %.0f/%.0f/%.0f\n", pct[0], pct[1], pct[2])
				return nil
			},
		},
	)
	return cmd
}

func parseAmount(raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", raw)
	}
	return v, nil
}
