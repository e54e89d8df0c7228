// Package observability exposes prometheus metrics for serve mode.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics aggregates the stamp server instrumentation. Construct one per
// process with NewMetrics and share it across handlers.
type Metrics struct {
	registry *prometheus.Registry

	rendersTotal   *prometheus.CounterVec
	renderDuration prometheus.Histogram
	bodiesOmitted  prometheus.Counter
	locationSource *prometheus.CounterVec
}

// NewMetrics builds a metrics set on a private registry, so tests can
// instantiate it repeatedly without double-registration panics.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return &Metrics{
		registry: reg,
		rendersTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "starhash_renders_total",
			Help: "Stamp renders grouped by outcome.",
		}, []string{"outcome"}),
		renderDuration: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "starhash_render_duration_seconds",
			Help:    "Wall time spent composing and serializing one stamp.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
		bodiesOmitted: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "starhash_bodies_omitted_total",
			Help: "Solar-system bodies skipped because the ephemeris failed.",
		}),
		locationSource: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "starhash_location_source_total",
			Help: "Where each request's observer location came from (query, default).",
		}, []string{"source"}),
	}
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRender records one render attempt.
func (m *Metrics) ObserveRender(d time.Duration, omittedBodies int, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.rendersTotal.WithLabelValues(outcome).Inc()
	if err == nil {
		m.renderDuration.Observe(d.Seconds())
		m.bodiesOmitted.Add(float64(omittedBodies))
	}
}

// ObserveLocationSource records where a request's observer position came
// from.
func (m *Metrics) ObserveLocationSource(source string) {
	m.locationSource.WithLabelValues(source).Inc()
}
