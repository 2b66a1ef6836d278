package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the HTTP instrumentation exposed on /metrics.
type Metrics struct {
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	Panics          prometheus.Counter
	BlockedDeletes  prometheus.Counter

	gatherer prometheus.Gatherer
}

// NewMetrics registers the collectors on reg.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "liftlog",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "The total number of handled requests",
		}, []string{"method", "route", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "liftlog",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		Panics: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "liftlog",
			Subsystem: "http",
			Name:      "handler_panics_total",
			Help:      "The total number of recovered handler panics",
		}),
		BlockedDeletes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "liftlog",
			Name:      "exercise_delete_blocked_total",
			Help:      "Exercise deletions refused because sets still reference them",
		}),
		gatherer: reg,
	}
}

// Handler serves the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Instrument counts and times each request under its chi route pattern, so
// every workout detail is the one series /workout/{id}. chi reports
// patterns without the trailing slash.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		m.Requests.WithLabelValues(r.Method, route, strconv.Itoa(sw.status)).Inc()
		m.RequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
