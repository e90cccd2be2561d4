package main

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"CapitalSentinel/internal/api"
	"CapitalSentinel/internal/metrics"
)

func serveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the read-only JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return newAPIServer(a).Run(cmd.Context())
		},
	}
}

func newAPIServer(a *app) *api.Server {
	if a.cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	var m *metrics.Metrics
	if a.cfg.API.Metrics {
		m = a.metrics
	}
	return api.NewServer(a.cfg.API.Addr, a.cfg.Env, a.advisor, a.portfolio, a.cfg.Options.Criteria, m)
}
