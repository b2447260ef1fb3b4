// Package metrics holds the Prometheus collectors for backend traffic.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the private registry all cinerec collectors register with.
var Registry = prometheus.NewRegistry()

var (
	// BackendRequests counts remote calls by endpoint and outcome
	// (ok, empty, error, rejected).
	BackendRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cinerec",
			Subsystem: "backend",
			Name:      "requests_total",
			Help:      "Remote service calls by endpoint and outcome.",
		},
		[]string{"endpoint", "outcome"},
	)

	// BackendLatency observes remote call latency in seconds.
	BackendLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cinerec",
			Subsystem: "backend",
			Name:      "request_duration_seconds",
			Help:      "Remote service call latency.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// BreakerState is 0 closed, 1 half-open, 2 open.
	BreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "cinerec",
			Subsystem: "backend",
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0 closed, 1 half-open, 2 open).",
		},
		[]string{"name"},
	)

	// StaleResults counts recommendation results dropped because the request
	// they answered was superseded.
	StaleResults = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "cinerec",
			Subsystem: "recommend",
			Name:      "stale_results_total",
			Help:      "Recommendation results discarded as stale.",
		},
	)
)

func init() {
	Registry.MustRegister(BackendRequests, BackendLatency, BreakerState, StaleResults)
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
