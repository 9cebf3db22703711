// Package metrics exposes Prometheus instrumentation for the API.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jpo_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jpo_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	registrationsAdmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jpo_registrations_admitted_total",
			Help: "Registrations accepted by the admission check.",
		},
	)

	registrationsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jpo_registrations_rejected_total",
			Help: "Registrations rejected by the admission check, by reason.",
		},
		[]string{"reason"},
	)
)

// HTTP returns a gin middleware recording request counts and latencies.
func HTTP() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		requestsTotal.WithLabelValues(
			c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		requestDuration.WithLabelValues(
			c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the /metrics endpoint.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// RegistrationAdmitted counts an accepted registration.
func RegistrationAdmitted() {
	registrationsAdmitted.Inc()
}

// RegistrationRejected counts a rejected registration by reason
// ("duplicate" or "full").
func RegistrationRejected(reason string) {
	registrationsRejected.WithLabelValues(reason).Inc()
}
