package main

import (
	"github.com/spf13/cobra"
)

func optionsCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "options TICKER",
		Short: "Score and screen the call chain of an underlying",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			criteria := a.cfg.Options.Criteria
			f := cmd.Flags()
			if f.Changed("min-volume") {
				criteria.MinVolume, _ = f.GetFloat64("min-volume")
			}
			if f.Changed("min-oi") {
				criteria.MinOpenInterest, _ = f.GetFloat64("min-oi")
			}
			if f.Changed("max-iv") {
				criteria.MaxIVPct, _ = f.GetFloat64("max-iv")
			}
			if f.Changed("min-delta") {
				criteria.MinDelta, _ = f.GetFloat64("min-delta")
			}
			if f.Changed("limit") {
				criteria.Limit, _ = f.GetInt("limit")
			}

			rep := a.advisor.ScreenOptions(cmd.Context(), args[0], criteria)
			if asJSON {
				return writeJSON(cmd, rep)
			}
			renderOptions(cmd.OutOrStdout(), rep)
			return nil
		},
	}
	cmd.Flags().Float64("min-volume", 10, "minimum contract volume")
	cmd.Flags().Float64("min-oi", 50, "minimum open interest")
	cmd.Flags().Float64("max-iv", 100, "maximum implied volatility in percent")
	cmd.Flags().Float64("min-delta", 0.1, "minimum delta")
	cmd.Flags().Int("limit", 20, "maximum contracts to list (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}
