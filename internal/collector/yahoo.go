package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"CapitalSentinel/internal/model"
)

// DefaultYahooBaseURL is the public Yahoo Finance query host.
const DefaultYahooBaseURL = "https://query1.finance.yahoo.com"

// YahooFetcher implements Fetcher and ChainFetcher using Yahoo Finance public endpoints.
type YahooFetcher struct {
	BaseURL        string
	Client         *http.Client
	MaxExpirations int // 0 fetches every listed expiration
}

// NewYahooFetcher creates a Yahoo Finance fetcher with optional proxy support.
func NewYahooFetcher(proxyURL string, timeout time.Duration) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &YahooFetcher{
		BaseURL: DefaultYahooBaseURL,
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// yahooChart is the response structure from the chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *yahooError `json:"error"`
	} `json:"chart"`
}

type yahooError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// yahooOptions is the response structure from the options API.
type yahooOptions struct {
	OptionChain struct {
		Result []struct {
			UnderlyingSymbol string  `json:"underlyingSymbol"`
			ExpirationDates  []int64 `json:"expirationDates"`
			Options          []struct {
				ExpirationDate int64          `json:"expirationDate"`
				Calls          []yahooOptionRow `json:"calls"`
				Puts           []yahooOptionRow `json:"puts"`
			} `json:"options"`
		} `json:"result"`
		Error *yahooError `json:"error"`
	} `json:"optionChain"`
}

type yahooOptionRow struct {
	ContractSymbol    string   `json:"contractSymbol"`
	Strike            float64  `json:"strike"`
	LastPrice         float64  `json:"lastPrice"`
	Volume            *float64 `json:"volume"`
	OpenInterest      *float64 `json:"openInterest"`
	ImpliedVolatility float64  `json:"impliedVolatility"`
	InTheMoney        bool     `json:"inTheMoney"`
	LastTradeDate     int64    `json:"lastTradeDate"`
}

func (f *YahooFetcher) get(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, truncate(string(body), 200))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("yahoo decode: %w", err)
	}
	return nil
}

// FetchHistory returns closes for the Yahoo range/interval pair, e.g. "6mo"/"1d".
func (f *YahooFetcher) FetchHistory(ctx context.Context, symbol, period, interval string) (model.PriceSeries, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		f.BaseURL, url.PathEscape(symbol), url.QueryEscape(interval), url.QueryEscape(period))

	var chart yahooChart
	if err := f.get(ctx, u, &chart); err != nil {
		return model.PriceSeries{}, err
	}
	if chart.Chart.Error != nil {
		return model.PriceSeries{}, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return model.PriceSeries{}, model.ErrNoData
	}

	result := chart.Chart.Result[0]
	series := model.PriceSeries{Symbol: symbol, FetchedAt: time.Now()}
	if len(result.Indicators.Quote) == 0 {
		return series, model.ErrNoData
	}
	closes := result.Indicators.Quote[0].Close
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil || *closes[i] < 0 {
			continue // null bars (holidays, halted sessions)
		}
		series.Points = append(series.Points, model.PricePoint{Time: time.Unix(ts, 0).UTC(), Close: *closes[i]})
	}
	sort.Slice(series.Points, func(i, j int) bool { return series.Points[i].Time.Before(series.Points[j].Time) })
	return series, nil
}

// FetchLastPrice returns the latest daily close.
func (f *YahooFetcher) FetchLastPrice(ctx context.Context, symbol string) (float64, error) {
	series, err := f.FetchHistory(ctx, symbol, "5d", "1d")
	if err != nil {
		return 0, err
	}
	if series.Empty() {
		return 0, fmt.Errorf("yahoo: no price data for %s", symbol)
	}
	return series.Last(), nil
}

// FetchChain loads every listed expiration's calls and puts.
func (f *YahooFetcher) FetchChain(ctx context.Context, symbol string) (model.OptionChain, error) {
	first, err := f.fetchOptions(ctx, symbol, 0)
	if err != nil {
		return nil, err
	}
	res := first.OptionChain.Result[0]

	chain := model.OptionChain{}
	for _, o := range res.Options {
		exp := expirationKey(o.ExpirationDate)
		chain[exp] = model.ExpirationChain{Calls: toContracts(o.Calls, exp), Puts: toContracts(o.Puts, exp)}
	}

	dates := res.ExpirationDates
	if f.MaxExpirations > 0 && len(dates) > f.MaxExpirations {
		dates = dates[:f.MaxExpirations]
	}
	for _, d := range dates {
		exp := expirationKey(d)
		if _, done := chain[exp]; done {
			continue
		}
		page, err := f.fetchOptions(ctx, symbol, d)
		if err != nil {
			return nil, fmt.Errorf("expiration %s: %w", exp, err)
		}
		for _, o := range page.OptionChain.Result[0].Options {
			chain[exp] = model.ExpirationChain{Calls: toContracts(o.Calls, exp), Puts: toContracts(o.Puts, exp)}
		}
	}
	if len(chain) == 0 {
		return nil, model.ErrNoData
	}
	return chain, nil
}

func (f *YahooFetcher) fetchOptions(ctx context.Context, symbol string, date int64) (*yahooOptions, error) {
	u := fmt.Sprintf("%s/v7/finance/options/%s", f.BaseURL, url.PathEscape(symbol))
	if date > 0 {
		u += fmt.Sprintf("?date=%d", date)
	}
	var out yahooOptions
	if err := f.get(ctx, u, &out); err != nil {
		return nil, err
	}
	if out.OptionChain.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", out.OptionChain.Error.Description)
	}
	if len(out.OptionChain.Result) == 0 {
		return nil, model.ErrNoData
	}
	return &out, nil
}

func toContracts(rows []yahooOptionRow, exp string) []model.OptionContract {
	out := make([]model.OptionContract, 0, len(rows))
	for _, r := range rows {
		c := model.OptionContract{
			ContractSymbol:    r.ContractSymbol,
			Strike:            r.Strike,
			Expiration:        exp,
			LastPrice:         r.LastPrice,
			ImpliedVolatility: r.ImpliedVolatility,
			InTheMoney:        r.InTheMoney,
		}
		if r.Volume != nil {
			c.Volume = *r.Volume
		}
		if r.OpenInterest != nil {
			c.OpenInterest = *r.OpenInterest
		}
		if r.LastTradeDate > 0 {
			c.LastTradeAt = time.Unix(r.LastTradeDate, 0).UTC()
		}
		out = append(out, c)
	}
	return out
}

func expirationKey(unix int64) string {
	return time.Unix(unix, 0).UTC().Format(model.ExpirationLayout)
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
