// Package metrics exposes Prometheus instrumentation for the API.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "capstone_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "capstone_api_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "capstone_api_active_requests",
			Help: "Number of requests currently being served",
		},
	)

	RateLimitedRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "capstone_rate_limited_requests_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"scope"},
	)

	// Domain metrics
	ProjectTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "capstone_project_transitions_total",
			Help: "Project status transitions",
		},
		[]string{"from", "to"},
	)

	InterestOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "capstone_interest_operations_total",
			Help: "Interest and favorite operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "capstone_login_attempts_total",
			Help: "Login attempts by role and outcome",
		},
		[]string{"role", "outcome"},
	)

	// Email delivery
	EmailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "capstone_emails_total",
			Help: "Notification emails by outcome",
		},
		[]string{"template", "outcome"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "capstone_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "capstone_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Maintenance
	MaintenanceRowsPurged = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "capstone_maintenance_rows_purged_total",
			Help: "Rows removed by scheduled maintenance jobs",
		},
		[]string{"table"},
	)
)

// RecordAPIRequest records one completed request.
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordTransition counts a project status change.
func RecordTransition(from, to string) {
	ProjectTransitions.WithLabelValues(from, to).Inc()
}

// RecordInterestOperation counts an interest or favorite operation.
func RecordInterestOperation(operation, outcome string) {
	InterestOperations.WithLabelValues(operation, outcome).Inc()
}

// RecordLogin counts a login attempt.
func RecordLogin(role string, success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	LoginAttempts.WithLabelValues(role, outcome).Inc()
}

// RecordEmail counts a notification delivery attempt.
func RecordEmail(template, outcome string) {
	EmailsSent.WithLabelValues(template, outcome).Inc()
}

// RecordPurge counts rows removed from table by maintenance.
func RecordPurge(table string, rows int64) {
	if rows > 0 {
		MaintenanceRowsPurged.WithLabelValues(table).Add(float64(rows))
	}
}

// CircuitBreakerRequests counts calls through a breaker by result.
var CircuitBreakerRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "capstone_circuit_breaker_requests_total",
		Help: "Requests through a circuit breaker by result (success, failure, rejected)",
	},
	[]string{"name", "result"},
)
