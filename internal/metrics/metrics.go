// Package metrics exposes Prometheus metrics for the awards console.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BackendRequestsTotal counts calls to the awards backend.
	// Labels: endpoint (check_auth/members/week_awards/...), status (HTTP code or "error")
	BackendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "awards_console_backend_requests_total",
			Help: "Total number of awards backend requests by endpoint and status",
		},
		[]string{"endpoint", "status"},
	)

	// BackendRequestDuration observes backend latency in seconds.
	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "awards_console_backend_request_duration_seconds",
			Help:    "Awards backend request duration in seconds by endpoint",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 15},
		},
		[]string{"endpoint"},
	)

	// ActionsTotal counts console form actions.
	// Labels: action (save/clear/prev/...), outcome (ok/error/confirm/stale/cancelled/ignored)
	ActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "awards_console_actions_total",
			Help: "Total number of console actions by action and outcome",
		},
		[]string{"action", "outcome"},
	)

	// HTTPRequestsTotal counts requests served by the console itself.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "awards_console_http_requests_total",
			Help: "Total number of HTTP requests served by route and status",
		},
		[]string{"method", "route", "status"},
	)

	// ActivePages reports the number of in-memory operator pages.
	ActivePages = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "awards_console_active_pages",
			Help: "Number of live operator page states held in memory",
		},
	)
)

// RecordBackend records one backend call. code 0 means the call failed before a response.
func RecordBackend(endpoint string, code int, seconds float64) {
	status := "error"
	if code > 0 {
		status = strconv.Itoa(code)
	}
	BackendRequestsTotal.WithLabelValues(endpoint, status).Inc()
	BackendRequestDuration.WithLabelValues(endpoint).Observe(seconds)
}

func RecordAction(action, outcome string) {
	ActionsTotal.WithLabelValues(action, outcome).Inc()
}

func RecordHTTP(method, route string, code int) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
}
