package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// NotificationsEmitted counts notifications appended to recipient logs by type.
	NotificationsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "whiskaway_notifications_emitted_total",
		Help: "Total number of notifications emitted by type",
	}, []string{"type"})

	// NotificationPublishFailures counts pub/sub publish failures for notification events.
	NotificationPublishFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "whiskaway_notification_publish_failures_total",
		Help: "Total number of notification events that could not be published",
	})

	// FriendRequestOutcomes counts friend request transitions by outcome.
	FriendRequestOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "whiskaway_friend_request_outcomes_total",
		Help: "Friend request transitions by outcome (sent, accepted, denied, auto_accepted)",
	}, []string{"outcome"})

	// LikeToggles counts like toggles by resulting state.
	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "whiskaway_like_toggles_total",
		Help: "Like toggles by resulting state (liked, unliked)",
	}, []string{"state"})

	// MessagesSent counts direct messages stored.
	MessagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "whiskaway_messages_sent_total",
		Help: "Total number of direct messages sent",
	})

	// StoreOperationLatency records service-level store latency by operation.
	StoreOperationLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "whiskaway_store_operation_latency_seconds",
		Help:    "Store operation latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
)

// TrackOperation returns a function that records latency for operation when called (e.g. defer).
func TrackOperation(operation string) func() {
	start := time.Now()
	return func() {
		StoreOperationLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}
