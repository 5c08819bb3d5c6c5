// Package metrics collects booking-outcome counters and HTTP timings.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns its own registry so multiple instances can coexist in tests.
type Metrics struct {
	registry *prometheus.Registry

	BookingsCreated    prometheus.Counter
	BookingConflicts   prometheus.Counter
	BookingsWaitlisted prometheus.Counter
	BookingsCancelled  prometheus.Counter

	httpDuration *prometheus.HistogramVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		BookingsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "booking_created_total",
			Help: "Reservations committed successfully.",
		}),
		BookingConflicts: factory.NewCounter(prometheus.CounterOpts{
			Name: "booking_conflict_total",
			Help: "Booking attempts rejected because a resource was unavailable.",
		}),
		BookingsWaitlisted: factory.NewCounter(prometheus.CounterOpts{
			Name: "booking_waitlisted_total",
			Help: "Waitlist entries created.",
		}),
		BookingsCancelled: factory.NewCounter(prometheus.CounterOpts{
			Name: "booking_cancelled_total",
			Help: "Reservations cancelled.",
		}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method, route and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// GinMiddleware records request duration per route. Unmatched routes are
// bucketed under their raw path-less label to keep cardinality bounded.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
