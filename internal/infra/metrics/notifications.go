package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		notificationsTotal,
		notificationLatency,
	)
}

var (
	notificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Notification delivery attempts by channel and outcome.",
		},
		[]string{"channel", "outcome"},
	)

	notificationLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "notification_send_latency_ms",
			Help:    "Channel send latency distribution in milliseconds.",
			Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000, 10000},
		},
		[]string{"channel"},
	)
)

func IncNotification(channel, outcome string) {
	notificationsTotal.WithLabelValues(norm(channel), norm(outcome)).Inc()
}

func ObserveNotificationLatency(channel string, ms float64) {
	notificationLatency.WithLabelValues(norm(channel)).Observe(ms)
}
