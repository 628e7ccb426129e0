package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus collectors for the HTTP surface. Labels use the route template
// (c.FullPath), not the raw URL, to keep cardinality bounded.
var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campaign_http_requests_total",
			Help: "Total HTTP requests processed, by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "campaign_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds, by method and route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "campaign_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		},
	)

	submissionsRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "campaign_submissions_recorded_total",
			Help: "Total participation records accepted by the metrics endpoint.",
		},
	)
)

// Metrics instruments every request with Prometheus counters, a latency
// histogram and an in-flight gauge.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		httpRequestsInFlight.Inc()
		start := time.Now()

		c.Next()

		httpRequestsInFlight.Dec()
		elapsed := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, route).Observe(elapsed)
	}
}

// CountSubmission increments the accepted-submissions counter. Called by the
// handler after a record is stored, so rejected submissions never count.
func CountSubmission() {
	submissionsRecorded.Inc()
}
