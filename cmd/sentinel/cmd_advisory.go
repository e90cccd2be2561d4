package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func signalsCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "signals",
		Short: "Evaluate buy rules for the strategy universe",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rep := a.advisor.Run(cmd.Context(), a.portfolio.GetState())
			if asJSON {
				return writeJSON(cmd, rep.Signals)
			}
			renderSignals(cmd.OutOrStdout(), rep.Signals)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func ticketsCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "tickets",
		Short: "Size targets and build advisory order tickets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rep := a.advisor.Run(cmd.Context(), a.portfolio.GetState())
			if asJSON {
				return writeJSON(cmd, rep)
			}
			renderTickets(cmd.OutOrStdout(), rep)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full report as JSON")
	return cmd
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
