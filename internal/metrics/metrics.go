// Package metrics exports benchmark results as Prometheus metrics.
//
// A Recorder owns its own registry, so a run's metrics never mix with the
// process defaults. After a run the registry is written in the text
// exposition format, ready for node_exporter's textfile collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pair outcome labels.
const (
	StatusOK      = "ok"
	StatusWarning = "warning"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// Sink receives measurements and pair outcomes from a run.
type Sink interface {
	// Measurement records the iteration durations of one measurement.
	Measurement(scenario, backend string, durations []time.Duration)

	// Pair records the final outcome of a pair. mean is zero for a pair
	// without a summary.
	Pair(scenario, backend, status string, mean time.Duration)
}

// Nop discards everything.
type Nop struct{}

func (Nop) Measurement(string, string, []time.Duration) {}
func (Nop) Pair(string, string, string, time.Duration)  {}

// Recorder is a Prometheus-backed Sink.
type Recorder struct {
	registry *prometheus.Registry

	iterationDuration *prometheus.HistogramVec
	measurements      *prometheus.CounterVec
	pairs             *prometheus.CounterVec
	pairMean          *prometheus.GaugeVec
}

// NewRecorder creates a Recorder with a fresh registry.
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Recorder{
		registry: registry,

		iterationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "copybench_iteration_duration_seconds",
				Help: "Duration of a single timed iteration",
				// 100ns to ~1.7s
				Buckets: prometheus.ExponentialBuckets(100e-9, 4, 12),
			},
			[]string{"scenario", "backend"},
		),

		measurements: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "copybench_measurements_total",
				Help: "Recorded measurements",
			},
			[]string{"scenario", "backend"},
		),

		pairs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "copybench_pairs_total",
				Help: "Completed pairs by outcome",
			},
			[]string{"scenario", "backend", "status"},
		),

		pairMean: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "copybench_pair_mean_seconds",
				Help: "Mean iteration duration of a pair",
			},
			[]string{"scenario", "backend"},
		),
	}
}

// Measurement implements Sink.
func (r *Recorder) Measurement(scenario, backend string, durations []time.Duration) {
	h := r.iterationDuration.WithLabelValues(scenario, backend)
	for _, d := range durations {
		h.Observe(d.Seconds())
	}
	r.measurements.WithLabelValues(scenario, backend).Inc()
}

// Pair implements Sink.
func (r *Recorder) Pair(scenario, backend, status string, mean time.Duration) {
	r.pairs.WithLabelValues(scenario, backend, status).Inc()
	if mean > 0 {
		r.pairMean.WithLabelValues(scenario, backend).Set(mean.Seconds())
	}
}

// Registry returns the registry the Recorder writes to.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes every metric to path in the text exposition
// format. The file is replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
