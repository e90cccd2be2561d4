package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chartBody = `{"chart":{"result":[{"timestamp":[1700000000,1700086400,1700172800],
"indicators":{"quote":[{"close":[10.5,null,11.25]}]}}],"error":null}}`

const optionsBody = `{"optionChain":{"result":[{"underlyingSymbol":"PLTR",
"expirationDates":[1767225600,1767830400],
"options":[{"expirationDate":1767225600,
"calls":[{"contractSymbol":"PLTR260101C00020000","strike":20,"lastPrice":1.2,"volume":150,"openInterest":300,"impliedVolatility":0.45,"inTheMoney":false}],
"puts":[{"contractSymbol":"PLTR260101P00020000","strike":20,"lastPrice":0.8,"impliedVolatility":0.5,"inTheMoney":true}]}]}],"error":null}}`

const secondPageBody = `{"optionChain":{"result":[{"underlyingSymbol":"PLTR",
"expirationDates":[1767225600,1767830400],
"options":[{"expirationDate":1767830400,"calls":[],"puts":[]}]}],"error":null}}`

func yahooServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/v8/finance/chart/PLTR"):
			assert.Equal(t, "1d", r.URL.Query().Get("interval"))
			_, _ = w.Write([]byte(chartBody))
		case r.URL.Path == "/v7/finance/options/PLTR" && r.URL.Query().Get("date") == "":
			_, _ = w.Write([]byte(optionsBody))
		case r.URL.Path == "/v7/finance/options/PLTR":
			_, _ = w.Write([]byte(secondPageBody))
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestYahoo(t *testing.T) *YahooFetcher {
	f := NewYahooFetcher("", 5*time.Second)
	f.BaseURL = yahooServer(t).URL
	return f
}

func TestYahooFetcher_FetchHistorySkipsNullCloses(t *testing.T) {
	f := newTestYahoo(t)

	series, err := f.FetchHistory(context.Background(), "PLTR", "6mo", "1d")
	require.NoError(t, err)
	assert.Equal(t, []float64{10.5, 11.25}, series.Closes())
	assert.Equal(t, "PLTR", series.Symbol)
}

func TestYahooFetcher_FetchLastPrice(t *testing.T) {
	f := newTestYahoo(t)

	p, err := f.FetchLastPrice(context.Background(), "PLTR")
	require.NoError(t, err)
	assert.Equal(t, 11.25, p)
}

func TestYahooFetcher_StatusError(t *testing.T) {
	f := newTestYahoo(t)

	_, err := f.FetchHistory(context.Background(), "NOPE", "6mo", "1d")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestYahooFetcher_FetchChain(t *testing.T) {
	f := newTestYahoo(t)

	chain, err := f.FetchChain(context.Background(), "PLTR")
	require.NoError(t, err)
	require.Len(t, chain, 2)

	first := chain["2026-01-01"]
	require.Len(t, first.Calls, 1)
	c := first.Calls[0]
	assert.Equal(t, "PLTR260101C00020000", c.ContractSymbol)
	assert.Equal(t, 150.0, c.Volume)
	assert.Equal(t, 300.0, c.OpenInterest)
	assert.Equal(t, "2026-01-01", c.Expiration)
	assert.False(t, c.HasDelta)

	require.Len(t, first.Puts, 1)
	assert.Zero(t, first.Puts[0].Volume, "missing volume decodes as zero")

	_, ok := chain["2026-01-08"]
	assert.True(t, ok)
}

func TestYahooFetcher_MaxExpirations(t *testing.T) {
	f := newTestYahoo(t)
	f.MaxExpirations = 1

	chain, err := f.FetchChain(context.Background(), "PLTR")
	require.NoError(t, err)
	assert.Len(t, chain, 1)
}

func TestGenerateSeries(t *testing.T) {
	s := GenerateSeries("X", 10, 1, 3)
	assert.Equal(t, []float64{10, 11, 12}, s.Closes())
	assert.True(t, s.Points[0].Time.Before(s.Points[2].Time))
}
