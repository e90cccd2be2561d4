package collector

import (
	"context"

	"CapitalSentinel/internal/model"
)

// Fetcher retrieves prices from an upstream market data source.
type Fetcher interface {
	FetchHistory(ctx context.Context, symbol, period, interval string) (model.PriceSeries, error)
	FetchLastPrice(ctx context.Context, symbol string) (float64, error)
	Name() string
}

// ChainFetcher retrieves option chains from an upstream source.
type ChainFetcher interface {
	FetchChain(ctx context.Context, symbol string) (model.OptionChain, error)
}

// PriceProvider is the read side the advisor depends on. Lookups never fail;
// problems surface as unavailable results.
type PriceProvider interface {
	LastPrice(ctx context.Context, symbol string) model.Result[float64]
	History(ctx context.Context, symbol, period, interval string) model.Result[model.PriceSeries]
}

// OptionsProvider supplies option chains per underlying.
type OptionsProvider interface {
	Chain(ctx context.Context, symbol string) model.Result[model.OptionChain]
}
