// Package obs holds the Prometheus collectors shared by the HTTP layer and
// the data paths.
package obs

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "risk360_http_in_flight_requests",
		Help: "In-flight HTTP requests.",
	})

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "risk360_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "risk360_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// RemoteFailures counts backend calls swallowed by the fail-soft remote path.
	RemoteFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "risk360_remote_failures_total",
			Help: "Remote data service calls that failed and were answered with an empty result.",
		},
		[]string{"operation"},
	)

	// BackendConnected is 1 when the last connectivity probe succeeded.
	BackendConnected = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "risk360_backend_connected",
		Help: "Result of the most recent connectivity probe (1 connected, 0 demo).",
	})

	// PanicsRecovered counts handler panics turned into 500 responses.
	PanicsRecovered = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "risk360_http_panics_recovered_total",
		Help: "Handler panics recovered by the HTTP layer.",
	})

	// AuditEntries counts audit records written by the audit subscriber.
	AuditEntries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "risk360_audit_entries_total",
			Help: "Audit trail entries recorded, by entity type and action.",
		},
		[]string{"entity_type", "action"},
	)
)

var registerOnce sync.Once

// Init registers every collector with the default registry. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpInFlight,
			httpRequestsTotal,
			httpRequestDuration,
			RemoteFailures,
			BackendConnected,
			AuditEntries,
			PanicsRecovered,
		)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}

// Instrument records request counts and latency. Mounted with chi's Use, so
// the matched route pattern is known once the handler has run.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpInFlight.Inc()
		defer httpInFlight.Dec()
		start := time.Now()

		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(sw, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := strconv.Itoa(sw.code)
		httpRequestDuration.WithLabelValues(r.Method, route, status).Observe(time.Since(start).Seconds())
		httpRequestsTotal.WithLabelValues(r.Method, route, status).Inc()
	})
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

// SetConnected mirrors a probe result into BackendConnected.
func SetConnected(ok bool) {
	if ok {
		BackendConnected.Set(1)
		return
	}
	BackendConnected.Set(0)
}
