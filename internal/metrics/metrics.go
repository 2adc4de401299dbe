// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "todo_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "todo_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// ReminderCacheOps counts key-value store calls; op is set, expire or del.
	ReminderCacheOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "todo_reminder_cache_ops_total",
			Help: "Total number of reminder cache operations by result",
		},
		[]string{"op", "result"},
	)
)

// RecordRequest records one finished HTTP request.
func RecordRequest(method, route string, status int, elapsed time.Duration) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordCacheOp records the outcome of one reminder cache call.
func RecordCacheOp(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	ReminderCacheOps.WithLabelValues(op, result).Inc()
}
