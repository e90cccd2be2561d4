package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"CapitalSentinel/internal/options"
)

// Config holds all application configuration.
type Config struct {
	Env      string `yaml:"env"`
	Telegram struct {
		BotToken    string `yaml:"bot_token"`
		ChatID      string `yaml:"chat_id"`
		PollTimeout int    `yaml:"poll_timeout"`
	} `yaml:"telegram"`
	DataSource struct {
		Provider        string        `yaml:"provider"` // yahoo | mock
		BaseURL         string        `yaml:"base_url"`
		Timeout         time.Duration `yaml:"timeout"`
		RatePerSecond   float64       `yaml:"rate_per_second"`
		Burst           int           `yaml:"burst"`
		HistoryPeriod   string        `yaml:"history_period"`
		HistoryInterval string        `yaml:"history_interval"`
		MaxExpirations  int           `yaml:"max_expirations"`
	} `yaml:"data_source"`
	Cache struct {
		TTL       time.Duration `yaml:"ttl"`
		RedisAddr string        `yaml:"redis_addr"`
	} `yaml:"cache"`
	Schedule struct {
		AdvisoryCron string `yaml:"advisory_cron"`
		OptionsCron  string `yaml:"options_cron"`
	} `yaml:"schedule"`
	Portfolio struct {
		Store         string  `yaml:"store"` // json | sqlite | memory
		StateFile     string  `yaml:"state_file"`
		SQLitePath    string  `yaml:"sqlite_path"`
		CashOnHand    float64 `yaml:"cash_on_hand"`
		MonthlyIncome float64 `yaml:"monthly_income"`
	} `yaml:"portfolio"`
	StrategyFile string `yaml:"strategy_file"`
	Options      struct {
		Tickers       []string         `yaml:"tickers"`
		Criteria      options.Criteria `yaml:"criteria"`
		RiskFreeRate  float64          `yaml:"risk_free_rate"`
		EstimateDelta bool             `yaml:"estimate_delta"`
	} `yaml:"options"`
	API struct {
		Addr    string `yaml:"addr"`
		Metrics bool   `yaml:"metrics"`
	} `yaml:"api"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // console | json
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	// Seeded before decoding so an explicit zero or false in the file wins.
	cfg.Options.Criteria = options.DefaultCriteria()
	cfg.Options.EstimateDelta = true
	cfg.Options.RiskFreeRate = 0.045
	cfg.API.Metrics = true

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Env = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Cache.RedisAddr = v
	}
	if v := os.Getenv("STRATEGY_FILE"); v != "" {
		cfg.StrategyFile = v
	}
	if v := os.Getenv("PORTFOLIO_STORE"); v != "" {
		cfg.Portfolio.Store = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Portfolio.SQLitePath = v
	}
	if v := os.Getenv("CASH_ON_HAND"); v != "" {
		if cash, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Portfolio.CashOnHand = cash
		}
	}
	if v := os.Getenv("API_ADDR"); v != "" {
		cfg.API.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	// Defaults
	if cfg.Env == "" {
		cfg.Env = "prod"
	}
	if cfg.Telegram.PollTimeout == 0 {
		cfg.Telegram.PollTimeout = 30
	}
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "yahoo"
	}
	if cfg.DataSource.Timeout == 0 {
		cfg.DataSource.Timeout = 10 * time.Second
	}
	if cfg.DataSource.RatePerSecond == 0 {
		cfg.DataSource.RatePerSecond = 2
	}
	if cfg.DataSource.Burst == 0 {
		cfg.DataSource.Burst = 4
	}
	if cfg.DataSource.HistoryPeriod == "" {
		cfg.DataSource.HistoryPeriod = "6mo"
	}
	if cfg.DataSource.HistoryInterval == "" {
		cfg.DataSource.HistoryInterval = "1d"
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 5 * time.Minute
	}
	if cfg.Schedule.AdvisoryCron == "" {
		cfg.Schedule.AdvisoryCron = "0 35 9 * * 1-5"
	}
	if cfg.Schedule.OptionsCron == "" {
		cfg.Schedule.OptionsCron = "0 0 10 * * 1-5"
	}
	if cfg.Portfolio.Store == "" {
		cfg.Portfolio.Store = "json"
	}
	if cfg.Portfolio.StateFile == "" {
		cfg.Portfolio.StateFile = "data/portfolio.json"
	}
	if cfg.Portfolio.SQLitePath == "" {
		cfg.Portfolio.SQLitePath = "data/capital_sentinel.db"
	}
	if cfg.StrategyFile == "" {
		cfg.StrategyFile = "configs/strategy.yaml"
	}
	if len(cfg.Options.Tickers) == 0 {
		cfg.Options.Tickers = []string{"PLTR"}
	}
	if cfg.API.Addr == "" {
		cfg.API.Addr = ":8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}

	return cfg, nil
}

// Validate checks the settings every command depends on.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case "yahoo", "mock":
	default:
		return fmt.Errorf("data_source.provider must be yahoo or mock, got %q", c.DataSource.Provider)
	}
	switch c.Portfolio.Store {
	case "json", "sqlite", "memory":
	default:
		return fmt.Errorf("portfolio.store must be json, sqlite or memory, got %q", c.Portfolio.Store)
	}
	if c.DataSource.Timeout < 0 || c.Cache.TTL < 0 {
		return fmt.Errorf("data_source.timeout and cache.ttl must not be negative")
	}
	if c.Portfolio.CashOnHand < 0 || c.Portfolio.MonthlyIncome < 0 {
		return fmt.Errorf("portfolio cash_on_hand and monthly_income must not be negative")
	}
	if c.Options.Criteria.Limit < 0 {
		return fmt.Errorf("options.criteria.limit must not be negative")
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level)); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	for name, spec := range map[string]string{
		"schedule.advisory_cron": c.Schedule.AdvisoryCron,
		"schedule.options_cron":  c.Schedule.OptionsCron,
	} {
		if _, err := parser.Parse(spec); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// ValidateTelegram checks the settings the notifier needs.
func (c *Config) ValidateTelegram() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	if _, err := strconv.ParseInt(c.Telegram.ChatID, 10, 64); err != nil {
		return fmt.Errorf("telegram.chat_id must be numeric: %w", err)
	}
	return nil
}
