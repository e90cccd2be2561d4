package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"CapitalSentinel/internal/advisor"
	"CapitalSentinel/internal/collector"
	"CapitalSentinel/internal/config"
	"CapitalSentinel/internal/metrics"
	"CapitalSentinel/internal/model"
	"CapitalSentinel/internal/portfolio"
)

// app holds the wired components shared by every subcommand.
type app struct {
	cfg       *config.Config
	metrics   *metrics.Metrics
	market    *collector.Market
	advisor   *advisor.Advisor
	portfolio *portfolio.Manager
}

func (a *app) init(cfg *config.Config) error {
	a.cfg = cfg

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.metrics = metrics.New(reg)

	var (
		fetcher collector.Fetcher
		chains  collector.ChainFetcher
	)
	switch cfg.DataSource.Provider {
	case "mock":
		demo := collector.DemoFetcher()
		fetcher, chains = demo, demo
	default:
		y := collector.NewYahooFetcher(cfg.Proxy, cfg.DataSource.Timeout)
		if cfg.DataSource.BaseURL != "" {
			y.BaseURL = cfg.DataSource.BaseURL
		}
		y.MaxExpirations = cfg.DataSource.MaxExpirations
		fetcher, chains = y, y
	}
	log.Info().Str("provider", fetcher.Name()).Msg("data source ready")

	opts := collector.DefaultOptions()
	opts.TTL = cfg.Cache.TTL
	opts.Timeout = cfg.DataSource.Timeout
	opts.RatePerSecond = cfg.DataSource.RatePerSecond
	opts.Burst = cfg.DataSource.Burst
	opts.Cache = collector.NewCache(cfg.Cache.RedisAddr)
	opts.Metrics = a.metrics
	a.market = collector.NewMarket(fetcher, chains, opts)

	strat, err := config.LoadStrategy(cfg.StrategyFile)
	if err != nil {
		return fmt.Errorf("load strategy: %w", err)
	}

	store, err := portfolio.Open(cfg.Portfolio.Store, cfg.Portfolio.StateFile, cfg.Portfolio.SQLitePath)
	if err != nil {
		return fmt.Errorf("open portfolio store: %w", err)
	}
	a.portfolio, err = portfolio.NewManager(store, seedState(cfg))
	if err != nil {
		store.Close()
		return fmt.Errorf("init portfolio: %w", err)
	}

	a.advisor = advisor.New(a.market, a.market, strat, advisor.Settings{
		HistoryPeriod:   cfg.DataSource.HistoryPeriod,
		HistoryInterval: cfg.DataSource.HistoryInterval,
		RiskFreeRate:    cfg.Options.RiskFreeRate,
		EstimateDelta:   cfg.Options.EstimateDelta,
	}, a.metrics)
	return nil
}

func (a *app) close() error {
	if a.portfolio == nil {
		return nil
	}
	return a.portfolio.Close()
}

// seedState is the first-start portfolio, with configured cash and income.
func seedState(cfg *config.Config) model.PortfolioState {
	s := portfolio.DefaultState()
	if cfg.Portfolio.CashOnHand > 0 {
		s.CashOnHand = cfg.Portfolio.CashOnHand
	}
	if cfg.Portfolio.MonthlyIncome > 0 {
		s.MonthlyIncome = cfg.Portfolio.MonthlyIncome
	}
	return s
}
