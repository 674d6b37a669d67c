// Package metrics exposes Prometheus collectors for the football data client,
// the cache store and the HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/riskibarqy/matchday/internal/platform/resilience"
)

const namespace = "matchday"

type Metrics struct {
	gatherer prometheus.Gatherer

	// Counter: client results by resource and where the data came from.
	FetchTotal *prometheus.CounterVec
	// Histogram: provider round trip in seconds.
	UpstreamLatencySeconds *prometheus.HistogramVec
	// Counter: swallowed cache backend failures.
	CachePersistenceErrorsTotal *prometheus.CounterVec
	// Gauge: 0 closed, 1 half-open, 2 open.
	CircuitState prometheus.Gauge
	// Histogram: API latency by route pattern.
	HTTPLatencySeconds *prometheus.HistogramVec
}

// New registers the collectors on reg. A nil reg gets a private registry.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &Metrics{
		gatherer: reg,
		FetchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fetch_total",
				Help:      "Football data requests by resource and outcome (network, cache_fresh, cache_stale, failed).",
			},
			[]string{"resource", "outcome"},
		),
		UpstreamLatencySeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "upstream_latency_seconds",
				Help:      "Football data provider latency in seconds.",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 15},
			},
			[]string{"resource", "result"},
		),
		CachePersistenceErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_persistence_errors_total",
				Help:      "Cache backend failures that were logged and swallowed.",
			},
			[]string{"op"},
		),
		CircuitState: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "upstream_circuit_state",
				Help:      "Provider circuit breaker state: 0 closed, 1 half-open, 2 open.",
			},
		),
		HTTPLatencySeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "API request latency in seconds.",
				Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"route", "method", "status_code"},
		),
	}

	reg.MustRegister(
		m.FetchTotal,
		m.UpstreamLatencySeconds,
		m.CachePersistenceErrorsTotal,
		m.CircuitState,
		m.HTTPLatencySeconds,
	)
	return m
}

func (m *Metrics) ObserveFetch(resource, outcome string) {
	m.FetchTotal.WithLabelValues(resource, outcome).Inc()
}

func (m *Metrics) ObserveUpstreamLatency(resource string, elapsed time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.UpstreamLatencySeconds.WithLabelValues(resource, result).Observe(elapsed.Seconds())
}

func (m *Metrics) ObservePersistenceError(op string) {
	m.CachePersistenceErrorsTotal.WithLabelValues(op).Inc()
}

// ObserveCircuitState matches resilience.CircuitBreaker.OnStateChange.
func (m *Metrics) ObserveCircuitState(_, to resilience.CircuitState) {
	switch to {
	case resilience.CircuitStateOpen:
		m.CircuitState.Set(2)
	case resilience.CircuitStateHalfOpen:
		m.CircuitState.Set(1)
	default:
		m.CircuitState.Set(0)
	}
}

// Handler exposes the /metrics endpoint for Prometheus to scrape.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Middleware measures API latency per request, labelled by the matched route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rec := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		m.HTTPLatencySeconds.
			WithLabelValues(route, r.Method, strconv.Itoa(rec.statusCode)).
			Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}
