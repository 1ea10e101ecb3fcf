// Package samples records per-iteration durations and summarizes them.
//
// A Collector belongs to one (scenario, backend) pair. It keeps every
// duration because the summary reports an exact median; the number of
// samples is bounded by the scheduler's measurement cap.
package samples

import (
	"errors"
	"math"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"
)

// ErrInsufficientData is returned by Summary when nothing was recorded.
var ErrInsufficientData = errors.New("samples: no samples recorded")

// Summary describes the distribution of recorded durations.
type Summary struct {
	Count  int           `json:"count" yaml:"count"`
	Min    time.Duration `json:"min" yaml:"min"`
	Max    time.Duration `json:"max" yaml:"max"`
	Mean   time.Duration `json:"mean" yaml:"mean"`
	StdDev time.Duration `json:"stddev" yaml:"stddev"`
	Median time.Duration `json:"median" yaml:"median"`
	P90    time.Duration `json:"p90" yaml:"p90"`
	P99    time.Duration `json:"p99" yaml:"p99"`
}

// Collector accumulates durations for a single pair.
//
// Not safe for concurrent use; the scheduler drives one pair at a time.
type Collector struct {
	durations []time.Duration
	stats     Welford
	min, max  time.Duration
}

// NewCollector creates a Collector with room for capacity samples.
func NewCollector(capacity int) *Collector {
	if capacity < 0 {
		capacity = 0
	}
	return &Collector{durations: make([]time.Duration, 0, capacity)}
}

// Record appends d and updates the running statistics.
func (c *Collector) Record(d time.Duration) {
	if len(c.durations) == 0 || d < c.min {
		c.min = d
	}
	if len(c.durations) == 0 || d > c.max {
		c.max = d
	}
	c.durations = append(c.durations, d)
	c.stats.Add(float64(d))
}

// Count returns the number of recorded samples.
func (c *Collector) Count() int {
	return len(c.durations)
}

// Mean returns the running mean, 0 before any sample.
func (c *Collector) Mean() time.Duration {
	return time.Duration(math.Round(c.stats.Mean()))
}

// Durations returns a copy of the recorded samples in recording order.
func (c *Collector) Durations() []time.Duration {
	return slices.Clone(c.durations)
}

// Summary computes statistics over every recorded sample.
//
// Returns ErrInsufficientData if no samples were recorded.
func (c *Collector) Summary() (Summary, error) {
	n := len(c.durations)
	if n == 0 {
		return Summary{}, ErrInsufficientData
	}

	sorted := make([]float64, n)
	for i, d := range c.durations {
		sorted[i] = float64(d)
	}
	slices.Sort(sorted)

	var median float64
	if n%2 == 1 {
		median = sorted[n/2]
	} else {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}

	return Summary{
		Count:  n,
		Min:    c.min,
		Max:    c.max,
		Mean:   c.Mean(),
		StdDev: time.Duration(math.Round(c.stats.StdDev())),
		Median: time.Duration(math.Round(median)),
		P90:    time.Duration(stat.Quantile(0.90, stat.Empirical, sorted, nil)),
		P99:    time.Duration(stat.Quantile(0.99, stat.Empirical, sorted, nil)),
	}, nil
}
