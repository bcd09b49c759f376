package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pcs",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, path and status.",
		},
		[]string{"method", "path", "status"},
	)

	bookingTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pcs",
			Name:      "booking_transitions_total",
			Help:      "Booking status transitions by source and target status.",
		},
		[]string{"from", "to"},
	)

	notificationFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "pcs",
			Name:      "notification_failures_total",
			Help:      "Notification sends that failed and were swallowed.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, bookingTransitions, notificationFailures)
	})
}

func IncHTTP(method, path, status string) {
	httpRequests.WithLabelValues(method, path, status).Inc()
}

func IncTransition(from, to string) {
	bookingTransitions.WithLabelValues(from, to).Inc()
}

func IncNotificationFailure() {
	notificationFailures.Inc()
}
