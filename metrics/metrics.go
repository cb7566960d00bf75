package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics tracks profile resolutions, individual record lookups and the
// HTTP API.
type Metrics struct {
	registry *prometheus.Registry

	Resolutions     *prometheus.CounterVec
	ResolveDuration prometheus.Histogram
	Lookups         *prometheus.CounterVec
	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
}

// New registers all metrics on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		Resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ensgraph_resolutions_total",
			Help: "Profile resolutions by outcome (found, not_found, fatal)",
		}, []string{"outcome"}),
		ResolveDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ensgraph_resolve_duration_seconds",
			Help:    "Duration of a full profile resolution",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8},
		}),
		Lookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ensgraph_lookups_total",
			Help: "Record lookups by kind (owner, text, coin, ...) and status",
		}, []string{"lookup", "status"}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ensgraph_http_requests_total",
			Help: "HTTP API requests by route and status code",
		}, []string{"route", "code"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ensgraph_http_request_duration_seconds",
			Help:    "HTTP API request duration by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// ObserveLookup records the status of one record lookup.
func (m *Metrics) ObserveLookup(lookup, status string) {
	m.Lookups.WithLabelValues(lookup, status).Inc()
}

// ObserveResolve records a finished resolution.
func (m *Metrics) ObserveResolve(outcome string, d time.Duration) {
	m.Resolutions.WithLabelValues(outcome).Inc()
	m.ResolveDuration.Observe(d.Seconds())
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(route string, code int, start time.Time) {
	m.HTTPRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.HTTPDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
