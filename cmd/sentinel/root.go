package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"CapitalSentinel/internal/config"
)

const defaultConfigPath = "configs/config.yaml"

// Execute builds the command tree and runs it.
func Execute(ctx context.Context) error {
	var (
		cfgPath string
		a       = &app{}
	)

	root := &cobra.Command{
		Use:           "sentinel",
		Short:         "Advisory signals, position sizing and options screening for a personal portfolio",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cfgPath == "" {
				cfgPath = defaultConfigPath
				if v := os.Getenv("CONFIG_PATH"); v != "" {
					cfgPath = v
				}
			}
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("config validation: %w", err)
			}
			setupLogging(cfg)
			return a.init(cfg)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.close()
		},
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default $CONFIG_PATH or "+defaultConfigPath+")")

	root.AddCommand(
		signalsCmd(a),
		ticketsCmd(a),
		optionsCmd(a),
		portfolioCmd(a),
		serveCmd(a),
		runCmd(a),
	)
	return root.ExecuteContext(ctx)
}

func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Log.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.Log.Format == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	log.Debug().Str("env", cfg.Env).Str("provider", cfg.DataSource.Provider).Msg("configuration loaded")
}
