package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts records authentication attempts by result (success|failure).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ideaforge_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"result"},
	)

	// StatusTransitions counts idea status transition requests and their outcome (applied|rejected|noop).
	StatusTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ideaforge_status_transitions_total",
			Help: "Total number of idea status transition requests",
		},
		[]string{"result"},
	)

	// NotificationsEmitted counts notifications written by the workflow.
	NotificationsEmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ideaforge_notifications_emitted_total",
			Help: "Total number of notifications emitted",
		},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ideaforge_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
