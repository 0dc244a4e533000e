package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the blog. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	// Generation pipeline
	GenerateRuns  *prometheus.CounterVec
	DegradedSteps *prometheus.CounterVec

	// Content store
	StoreScans   *prometheus.CounterVec
	ScanDuration prometheus.Histogram
	PostsIndexed prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		GenerateRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aiblog",
			Name:      "generate_runs_total",
			Help:      "Generation pipeline runs by outcome.",
		}, []string{"outcome"}),
		DegradedSteps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aiblog",
			Name:      "generate_degraded_steps_total",
			Help:      "Non-fatal pipeline steps that fell back to a default.",
		}, []string{"step"}),
		StoreScans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aiblog",
			Name:      "store_scans_total",
			Help:      "Content store list calls, split by cache use.",
		}, []string{"source"}),
		ScanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "aiblog",
			Name:      "store_scan_duration_seconds",
			Help:      "Time spent reading the content directory.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}),
		PostsIndexed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "aiblog",
			Name:      "store_posts",
			Help:      "Records returned by the last directory scan.",
		}),
	}
	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.GenerateRuns,
		m.DegradedSteps,
		m.StoreScans,
		m.ScanDuration,
		m.PostsIndexed,
	)
	return m
}

// ObserveScan records one content store list call.
func (m *Metrics) ObserveScan(d time.Duration, posts int, cached bool) {
	if m == nil {
		return
	}
	if cached {
		m.StoreScans.WithLabelValues("cache").Inc()
		return
	}
	m.StoreScans.WithLabelValues("disk").Inc()
	m.ScanDuration.Observe(d.Seconds())
	m.PostsIndexed.Set(float64(posts))
}

func (m *Metrics) RunOutcome(outcome string) {
	if m == nil {
		return
	}
	m.GenerateRuns.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Degraded(step string) {
	if m == nil {
		return
	}
	m.DegradedSteps.WithLabelValues(step).Inc()
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
