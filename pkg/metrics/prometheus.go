// Package metrics provides Prometheus request metrics for the seqmux framework.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/seqmux/seqmux/pkg/common"
)

// Metrics owns a Prometheus registry and the request-level collectors.
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	errors   *prometheus.CounterVec
}

// New creates a Metrics instance with its own registry. The route label uses
// the matched route pattern rather than the concrete path, keeping label
// cardinality bounded.
func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Total number of HTTP requests processed.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "request_errors_total",
			Help:      "Total number of failed HTTP requests.",
		}, []string{"method", "route"}),
	}

	registry.MustRegister(m.requests, m.duration, m.errors)
	return m
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the exposition handler for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware observes every request flowing through it: a counter by method,
// route and status, a latency histogram, and an error counter for failures
// and 5xx responses.
func (m *Metrics) Middleware() common.Middleware {
	return func(c *common.Context, next common.Next) (any, error) {
		start := time.Now()

		v, err := next()
		duration := time.Since(start)

		route := c.GetString(common.RoutePatternKey)
		if route == "" {
			route = c.Path
		}

		status := c.ResponseStatus()
		if err != nil && status == 0 {
			status = http.StatusInternalServerError
		}

		m.requests.WithLabelValues(c.Method, route, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(c.Method, route).Observe(duration.Seconds())
		if err != nil || status >= 500 {
			m.errors.WithLabelValues(c.Method, route).Inc()
		}

		return v, err
	}
}
