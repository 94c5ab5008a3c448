// Package observability provides Prometheus metrics and HTTP middleware
// for monitoring the rigsheet API.
package observability

import "github.com/prometheus/client_golang/prometheus"

var (
	// RequestsTotal counts all HTTP requests by method and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rigsheet_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "status"},
	)

	// RequestDuration records HTTP request duration in seconds by method.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rigsheet_request_duration_seconds",
			Help:    "Request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	// AuthGateTotal counts authentication gate outcomes. The gate
	// swallows its failures, so this counter is the operational window
	// into rejected tokens and unknown subjects.
	AuthGateTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rigsheet_auth_gate_total",
			Help: "Authentication gate outcomes",
		},
		[]string{"outcome"},
	)

	// LoginsTotal counts login attempts by outcome.
	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rigsheet_logins_total",
			Help: "Login attempts",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		AuthGateTotal,
		LoginsTotal,
	)
}
