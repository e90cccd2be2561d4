package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"CapitalSentinel/internal/metrics"
	"CapitalSentinel/internal/model"
)

// Options tune the guards around an upstream fetcher.
type Options struct {
	TTL           time.Duration // cache lifetime for successful lookups; 0 disables caching
	Timeout       time.Duration // per-lookup deadline
	RatePerSecond float64       // 0 disables rate limiting
	Burst         int
	BreakerTrips  uint32        // consecutive failures before the breaker opens
	BreakerCool   time.Duration // open-state duration before a half-open probe
	Cache         Cache
	Metrics       *metrics.Metrics
}

// DefaultOptions returns the production guard settings.
func DefaultOptions() Options {
	return Options{
		TTL:           5 * time.Minute,
		Timeout:       10 * time.Second,
		RatePerSecond: 2,
		Burst:         4,
		BreakerTrips:  3,
		BreakerCool:   30 * time.Second,
	}
}

// Market wraps a Fetcher with caching, rate limiting, a circuit breaker and
// per-call timeouts. Every lookup yields a model.Result and never an error.
type Market struct {
	fetcher Fetcher
	chains  ChainFetcher
	opts    Options
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

// NewMarket builds a guarded provider. chains may be nil when the fetcher has
// no options support.
func NewMarket(f Fetcher, chains ChainFetcher, opts Options) *Market {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.BreakerTrips == 0 {
		opts.BreakerTrips = 3
	}
	if opts.BreakerCool <= 0 {
		opts.BreakerCool = 30 * time.Second
	}
	if opts.Cache == nil {
		opts.Cache = NewMemoryCache()
	}

	limit := rate.Inf
	if opts.RatePerSecond > 0 {
		limit = rate.Limit(opts.RatePerSecond)
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = 1
	}

	trips := opts.BreakerTrips
	st := gobreaker.Settings{
		Name:    f.Name(),
		Timeout: opts.BreakerCool,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= trips
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, model.ErrNoData) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("provider", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
		},
	}

	return &Market{
		fetcher: f,
		chains:  chains,
		opts:    opts,
		limiter: rate.NewLimiter(limit, burst),
		breaker: gobreaker.NewCircuitBreaker(st),
	}
}

// Name identifies the upstream source.
func (m *Market) Name() string { return m.fetcher.Name() }

// LastPrice returns the latest close for symbol.
func (m *Market) LastPrice(ctx context.Context, symbol string) model.Result[float64] {
	key := "price:" + symbol
	return lookup(ctx, m, "price", key, func(ctx context.Context) (float64, error) {
		p, err := m.fetcher.FetchLastPrice(ctx, symbol)
		if err == nil && p <= 0 {
			return 0, model.ErrNoData
		}
		return p, err
	})
}

// History returns the close series for symbol.
func (m *Market) History(ctx context.Context, symbol, period, interval string) model.Result[model.PriceSeries] {
	key := fmt.Sprintf("history:%s:%s:%s", symbol, period, interval)
	return lookup(ctx, m, "history", key, func(ctx context.Context) (model.PriceSeries, error) {
		s, err := m.fetcher.FetchHistory(ctx, symbol, period, interval)
		if err == nil && s.Empty() {
			return s, model.ErrNoData
		}
		return s, err
	})
}

// Chain returns the option chain for symbol.
func (m *Market) Chain(ctx context.Context, symbol string) model.Result[model.OptionChain] {
	if m.chains == nil {
		return model.Unavailable[model.OptionChain](fmt.Errorf("%s: option chains not supported", m.fetcher.Name()))
	}
	key := "chain:" + symbol
	return lookup(ctx, m, "chain", key, func(ctx context.Context) (model.OptionChain, error) {
		c, err := m.chains.FetchChain(ctx, symbol)
		if err == nil && len(c) == 0 {
			return c, model.ErrNoData
		}
		return c, err
	})
}

// Prices looks up last prices for every symbol. Unavailable symbols are
// present with an unavailable result.
func (m *Market) Prices(ctx context.Context, symbols []string) map[string]model.Result[float64] {
	out := make(map[string]model.Result[float64], len(symbols))
	for _, s := range symbols {
		if _, done := out[s]; done {
			continue
		}
		out[s] = m.LastPrice(ctx, s)
	}
	return out
}

// Histories looks up close series for every symbol.
func (m *Market) Histories(ctx context.Context, symbols []string, period, interval string) map[string]model.Result[model.PriceSeries] {
	out := make(map[string]model.Result[model.PriceSeries], len(symbols))
	for _, s := range symbols {
		if _, done := out[s]; done {
			continue
		}
		out[s] = m.History(ctx, s, period, interval)
	}
	return out
}

func lookup[T any](ctx context.Context, m *Market, kind, key string, fetch func(context.Context) (T, error)) model.Result[T] {
	if raw, ok := m.opts.Cache.Get(ctx, key); ok {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			m.opts.Metrics.ObserveCache(kind, true)
			return model.Available(v)
		}
	}
	m.opts.Metrics.ObserveCache(kind, false)

	start := time.Now()
	v, err := guarded(ctx, m, fetch)
	outcome := "ok"
	if err != nil {
		outcome = classify(err)
	}
	m.opts.Metrics.ObserveProvider(kind, outcome, time.Since(start))

	if err != nil {
		log.Debug().Err(err).Str("provider", m.fetcher.Name()).Str("key", key).Msg("lookup unavailable")
		return model.Unavailable[T](err)
	}
	if m.opts.TTL > 0 {
		if raw, err := json.Marshal(v); err == nil {
			m.opts.Cache.Set(ctx, key, raw, m.opts.TTL)
		}
	}
	return model.Available(v)
}

func guarded[T any](ctx context.Context, m *Market, fetch func(context.Context) (T, error)) (T, error) {
	var zero T
	if err := m.limiter.Wait(ctx); err != nil {
		return zero, fmt.Errorf("rate limit: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, m.opts.Timeout)
	defer cancel()
	out, err := m.breaker.Execute(func() (interface{}, error) {
		return fetch(ctx)
	})
	if err != nil {
		return zero, err
	}
	v, ok := out.(T)
	if !ok {
		return zero, model.ErrNoData
	}
	return v, nil
}

func classify(err error) string {
	switch {
	case errors.Is(err, model.ErrNoData):
		return "empty"
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "open"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}
