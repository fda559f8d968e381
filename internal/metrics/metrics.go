package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the login service.
type Metrics struct {
	// Login attempts by outcome: success, authentication_failed, no_group,
	// storage_failed
	LoginAttempts *prometheus.CounterVec

	// Sessions created (successful logins)
	SessionsCreated prometheus.Counter

	// SPARQL request latency by operation: select, update
	SparqlLatency *prometheus.HistogramVec
}

// New creates and registers all metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		LoginAttempts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "acmidm_login_attempts_total",
			Help: "Total login attempts by outcome",
		}, []string{"outcome"}),

		SessionsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "acmidm_sessions_created_total",
			Help: "Total session bindings created",
		}),

		SparqlLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "acmidm_sparql_request_duration_seconds",
			Help:    "Duration of SPARQL requests by operation",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation"}),
	}
}

// IncrementLogin records a login attempt outcome.
func (m *Metrics) IncrementLogin(outcome string) {
	if m != nil {
		m.LoginAttempts.WithLabelValues(outcome).Inc()
	}
}

// IncrementSessionsCreated records a created session binding.
func (m *Metrics) IncrementSessionsCreated() {
	if m != nil {
		m.SessionsCreated.Inc()
	}
}

// ObserveSparqlLatency records the duration of one SPARQL request.
func (m *Metrics) ObserveSparqlLatency(operation string, d time.Duration) {
	if m != nil {
		m.SparqlLatency.WithLabelValues(operation).Observe(d.Seconds())
	}
}
