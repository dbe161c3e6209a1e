// Package metrics exposes tracker and upstream counters on a private
// Prometheus registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "realm_warp"

// Metrics is safe to use as a nil pointer; every recorder is then a no-op.
type Metrics struct {
	registry *prometheus.Registry

	upstreamRequests *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec
	breakerState     *prometheus.GaugeVec

	cycles          prometheus.Counter
	cycleDuration   prometheus.Histogram
	accountsTracked prometheus.Gauge
	accountResults  *prometheus.CounterVec
	profileUpdates  prometheus.Counter
	leagueUpdates   prometheus.Counter
	matchResults    *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	auto := promauto.With(registry)

	return &Metrics{
		registry: registry,
		upstreamRequests: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Riot API requests by endpoint and outcome",
		}, []string{"endpoint", "outcome"}),
		upstreamLatency: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "request_duration_seconds",
			Help:      "Riot API request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		breakerState: auto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "circuit_breaker_state",
			Help:      "0 closed, 1 half-open, 2 open",
		}, []string{"name"}),
		cycles: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tracker",
			Name:      "cycles_total",
			Help:      "Completed reconciliation cycles",
		}),
		cycleDuration: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "tracker",
			Name:      "cycle_duration_seconds",
			Help:      "Wall time of one reconciliation cycle",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}),
		accountsTracked: auto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "tracker",
			Name:      "accounts",
			Help:      "Accounts listed at the start of the last cycle",
		}),
		accountResults: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tracker",
			Name:      "account_results_total",
			Help:      "Per-account cycle outcomes",
		}, []string{"result"}),
		profileUpdates: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tracker",
			Name:      "profile_updates_total",
			Help:      "Profile writes",
		}),
		leagueUpdates: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tracker",
			Name:      "league_updates_total",
			Help:      "Accounts whose league entries changed",
		}),
		matchResults: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tracker",
			Name:      "match_ingest_total",
			Help:      "Match ingestion outcomes",
		}, []string{"result"}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveUpstream(endpoint, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.upstreamRequests.WithLabelValues(endpoint, outcome).Inc()
	m.upstreamLatency.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

func (m *Metrics) SetBreakerState(name string, state float64) {
	if m == nil {
		return
	}
	m.breakerState.WithLabelValues(name).Set(state)
}

func (m *Metrics) ObserveCycle(elapsed time.Duration, accounts int) {
	if m == nil {
		return
	}
	m.cycles.Inc()
	m.cycleDuration.Observe(elapsed.Seconds())
	m.accountsTracked.Set(float64(accounts))
}

func (m *Metrics) AccountResult(result string) {
	if m == nil {
		return
	}
	m.accountResults.WithLabelValues(result).Inc()
}

func (m *Metrics) ProfileUpdated() {
	if m == nil {
		return
	}
	m.profileUpdates.Inc()
}

func (m *Metrics) LeagueUpdated() {
	if m == nil {
		return
	}
	m.leagueUpdates.Inc()
}

func (m *Metrics) MatchIngested(result string) {
	if m == nil {
		return
	}
	m.matchResults.WithLabelValues(result).Inc()
}
