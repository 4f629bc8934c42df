// Package metrics exposes the Prometheus instrumentation shared across the
// server: HTTP traffic, the notification sweep, push delivery, and AI
// gateway calls.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hemma_http_requests_total",
		Help: "HTTP requests by method and status class.",
	}, []string{"method", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hemma_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})

	NotificationsPromoted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hemma_notifications_promoted_total",
		Help: "Notifications flipped from scheduled to sent by the sweep.",
	})

	SweepRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hemma_notification_sweeps_total",
		Help: "Notification sweep invocations.",
	})

	PushSends = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hemma_push_sends_total",
		Help: "Web push delivery attempts by outcome.",
	}, []string{"outcome"})

	AIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hemma_ai_requests_total",
		Help: "AI gateway calls by function and outcome.",
	}, []string{"function", "outcome"})
)
