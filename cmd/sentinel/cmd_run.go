package main

import (
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"CapitalSentinel/internal/notifier"
	"CapitalSentinel/internal/scheduler"
)

func runCmd(a *app) *cobra.Command {
	var (
		withAPI    bool
		runOnStart bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the daemon: cron advisories, Telegram commands and optionally the API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := a.cfg
			if err := cfg.ValidateTelegram(); err != nil {
				return fmt.Errorf("config validation: %w", err)
			}
			chatID, _ := strconv.ParseInt(cfg.Telegram.ChatID, 10, 64)

			tn, err := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, chatID, cfg.Proxy, cfg.Telegram.PollTimeout)
			if err != nil {
				return fmt.Errorf("init telegram: %w", err)
			}

			sched := scheduler.NewScheduler(ctx, a.advisor, a.portfolio, tn, cfg.Options.Tickers, cfg.Options.Criteria)
			if err := sched.RegisterAll(cfg.Schedule.AdvisoryCron, cfg.Schedule.OptionsCron); err != nil {
				return fmt.Errorf("register cron tasks: %w", err)
			}
			sched.Start()
			defer sched.Stop()

			go func() {
				if err := tn.StartPolling(ctx, sched.HandleCommand); err != nil {
					log.Error().Err(err).Msg("telegram polling")
				}
			}()
			log.Info().Msg("telegram polling started")

			if runOnStart {
				log.Info().Msg("run-on-start enabled, executing advisory task now")
				go sched.RunAdvisoryNow()
			}

			if withAPI {
				go func() {
					if err := newAPIServer(a).Run(ctx); err != nil {
						log.Error().Err(err).Msg("api server")
					}
				}()
			}

			log.Info().Msg("CapitalSentinel is running, press Ctrl+C to stop")
			<-ctx.Done()
			log.Info().Msg("shutdown signal received, stopping")
			return nil
		},
	}
	cmd.Flags().BoolVar(&withAPI, "api", false, "also serve the JSON API")
	cmd.Flags().BoolVar(&runOnStart, "run-on-start", false, "send an advisory immediately")
	return cmd
}
