// Package metrics exposes Prometheus instrumentation for provider calls and
// advisory runs. All methods are safe on a nil *Metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the sentinel.
type Metrics struct {
	ProviderRequests *prometheus.CounterVec // labels: kind, outcome
	ProviderLatency  *prometheus.HistogramVec
	CacheLookups     *prometheus.CounterVec // labels: kind, result
	Signals          *prometheus.CounterVec // labels: action
	Tickets          prometheus.Counter
	ContractsScored  prometheus.Counter
	AdvisoryRuns     prometheus.Counter
	AdvisoryDuration prometheus.Histogram

	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them with reg. A nil reg uses a
// fresh private registry.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_provider_requests_total",
			Help: "Market data lookups by kind and outcome",
		}, []string{"kind", "outcome"}),
		ProviderLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sentinel_provider_latency_seconds",
			Help:    "Upstream market data latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_cache_lookups_total",
			Help: "Cache lookups by kind and result",
		}, []string{"kind", "result"}),
		Signals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_signals_total",
			Help: "Signals produced by action",
		}, []string{"action"}),
		Tickets: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sentinel_tickets_total",
			Help: "Advisory tickets emitted",
		}),
		ContractsScored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sentinel_option_contracts_scored_total",
			Help: "Option contracts that passed the screen filter",
		}),
		AdvisoryRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sentinel_advisory_runs_total",
			Help: "Completed advisory evaluation passes",
		}),
		AdvisoryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sentinel_advisory_duration_seconds",
			Help:    "Wall time of an advisory evaluation pass",
			Buckets: prometheus.DefBuckets,
		}),
		gatherer: reg,
	}
	reg.MustRegister(
		m.ProviderRequests, m.ProviderLatency, m.CacheLookups, m.Signals,
		m.Tickets, m.ContractsScored, m.AdvisoryRuns, m.AdvisoryDuration,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveProvider(kind, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.ProviderRequests.WithLabelValues(kind, outcome).Inc()
	if d > 0 {
		m.ProviderLatency.WithLabelValues(kind).Observe(d.Seconds())
	}
}

func (m *Metrics) ObserveCache(kind string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) ObserveSignal(action string) {
	if m == nil {
		return
	}
	m.Signals.WithLabelValues(action).Inc()
}

func (m *Metrics) AddTickets(n int) {
	if m == nil {
		return
	}
	m.Tickets.Add(float64(n))
}

func (m *Metrics) AddContracts(n int) {
	if m == nil {
		return
	}
	m.ContractsScored.Add(float64(n))
}

func (m *Metrics) ObserveRun(d time.Duration) {
	if m == nil {
		return
	}
	m.AdvisoryRuns.Inc()
	m.AdvisoryDuration.Observe(d.Seconds())
}
