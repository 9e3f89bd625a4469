// Package prom implements the observability hooks with Prometheus
// collectors.
//
// The CLI is short-lived, so metrics are not served over HTTP. Instead a
// [Metrics] value is installed for the duration of a command and written to
// a node-exporter textfile on exit:
//
//	m := prom.New()
//	m.Install()
//	defer m.WriteTextfile("/var/lib/node_exporter/graphdiff.prom")
package prom

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/graphdiff/pkg/errors"
	"github.com/matzehuels/graphdiff/pkg/observability"
)

const namespace = "graphdiff"

// Metrics holds every collector on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	searches       *prometheus.CounterVec
	searchDuration *prometheus.HistogramVec
	iterations     *prometheus.CounterVec
	bestScore      *prometheus.GaugeVec
	reward         *prometheus.HistogramVec

	runs           *prometheus.CounterVec
	runDuration    *prometheus.HistogramVec
	renders        *prometheus.CounterVec
	renderBytes    *prometheus.HistogramVec
	renderDuration *prometheus.HistogramVec

	cacheRequests *prometheus.CounterVec
	cacheBytes    *prometheus.CounterVec
}

var (
	_ observability.SearchHooks = (*Metrics)(nil)
	_ observability.RunHooks    = (*Metrics)(nil)
	_ observability.CacheHooks  = (*Metrics)(nil)
)

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		// =====================================================================
		// Search
		// =====================================================================

		searches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "total",
			Help:      "Matcher searches by algorithm and outcome",
		}, []string{"algorithm", "status"}),
		searchDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "duration_seconds",
			Help:      "Matcher search latency in seconds",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
		}, []string{"algorithm"}),
		iterations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "iterations_total",
			Help:      "Completed search iterations",
		}, []string{"algorithm"}),
		bestScore: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "best_score",
			Help:      "Best edge score of the most recent search",
		}, []string{"algorithm"}),
		reward: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "reward",
			Help:      "Pheromone reward deposited per iteration",
			Buckets:   []float64{0.05, 0.1, 0.2, 0.25, 0.34, 0.5, 0.75, 1},
		}, []string{"algorithm"}),

		// =====================================================================
		// Runs
		// =====================================================================

		runs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "total",
			Help:      "Diff runs by algorithm, cache result and outcome",
		}, []string{"algorithm", "cached", "status"}),
		runDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "duration_seconds",
			Help:      "End-to-end diff run latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"algorithm"}),
		renders: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "total",
			Help:      "Rendered artifacts by format and outcome",
		}, []string{"format", "status"}),
		renderBytes: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "bytes",
			Help:      "Rendered artifact size in bytes",
			Buckets:   prometheus.ExponentialBuckets(256, 4, 8),
		}, []string{"format"}),
		renderDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "duration_seconds",
			Help:      "Artifact render latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"format"}),

		// =====================================================================
		// Cache
		// =====================================================================

		cacheRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "requests_total",
			Help:      "Cache lookups by key type and result",
		}, []string{"key_type", "result"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "written_bytes_total",
			Help:      "Bytes written to the cache by key type",
		}, []string{"key_type"}),
	}
}

// Install registers m as the global search, run and cache hooks.
func (m *Metrics) Install() {
	observability.SetSearchHooks(m)
	observability.SetRunHooks(m)
	observability.SetCacheHooks(m)
}

// WriteTextfile writes the current values in the node-exporter textfile
// format. The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write metrics to %s", path)
	}
	return nil
}

func status(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, errors.ErrCodeSearchCanceled):
		return "canceled"
	default:
		return "error"
	}
}

func (m *Metrics) OnSearchStart(context.Context, string, int, int) {}

func (m *Metrics) OnIteration(_ context.Context, algorithm string, _, bestScore, _ int, reward float64) {
	m.iterations.WithLabelValues(algorithm).Inc()
	m.bestScore.WithLabelValues(algorithm).Set(float64(bestScore))
	if reward > 0 {
		m.reward.WithLabelValues(algorithm).Observe(reward)
	}
}

func (m *Metrics) OnSearchComplete(_ context.Context, algorithm string, score, _ int, d time.Duration, err error) {
	m.searches.WithLabelValues(algorithm, status(err)).Inc()
	m.searchDuration.WithLabelValues(algorithm).Observe(d.Seconds())
	if err == nil {
		m.bestScore.WithLabelValues(algorithm).Set(float64(score))
	}
}

func (m *Metrics) OnRunStart(context.Context, string, string) {}

func (m *Metrics) OnRunComplete(_ context.Context, _, algorithm string, cached bool, d time.Duration, err error) {
	c := "false"
	if cached {
		c = "true"
	}
	m.runs.WithLabelValues(algorithm, c, status(err)).Inc()
	m.runDuration.WithLabelValues(algorithm).Observe(d.Seconds())
}

func (m *Metrics) OnRenderComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	m.renders.WithLabelValues(format, status(err)).Inc()
	if err != nil {
		return
	}
	m.renderBytes.WithLabelValues(format).Observe(float64(size))
	m.renderDuration.WithLabelValues(format).Observe(d.Seconds())
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheRequests.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheRequests.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}
