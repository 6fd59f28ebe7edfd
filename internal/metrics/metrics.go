// Package metrics holds the prometheus collectors served at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ChangesPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dormmate",
		Name:      "changes_published_total",
		Help:      "Change events published, by table and type.",
	}, []string{"table", "type"})

	ChangesPublishFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dormmate",
		Name:      "changes_publish_failed_total",
		Help:      "Change events that could not be published.",
	}, []string{"table"})

	RealtimeDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "dormmate",
		Name:      "realtime_dropped_total",
		Help:      "Events dropped because a subscriber buffer was full.",
	})

	RealtimeSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "dormmate",
		Name:      "realtime_subscribers",
		Help:      "Open realtime subscriptions.",
	})

	BookingsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dormmate",
		Name:      "bookings_rejected_total",
		Help:      "Booking writes rejected by the capacity gate.",
	}, []string{"reason"})

	BookingsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "dormmate",
		Name:      "bookings_completed_total",
		Help:      "Bookings completed by the expiry sweep.",
	})

	ChatRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dormmate",
		Name:      "chat_requests_total",
		Help:      "Assistant requests, by backend and outcome.",
	}, []string{"backend", "outcome"})

	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "dormmate",
		Name:      "rate_limited_total",
		Help:      "Requests rejected by the rate limiter.",
	})
)
