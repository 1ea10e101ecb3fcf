package samples_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/randomizedcoder/copybench/internal/samples"
)

func TestCollector_Summary(t *testing.T) {
	c := samples.NewCollector(5)
	for _, ms := range []int{1, 2, 3, 4, 5} {
		c.Record(time.Duration(ms) * time.Millisecond)
	}

	s, err := c.Summary()
	require.NoError(t, err)

	assert.Equal(t, 5, s.Count)
	assert.Equal(t, 3*time.Millisecond, s.Mean)
	assert.Equal(t, 3*time.Millisecond, s.Median)
	assert.Equal(t, 1*time.Millisecond, s.Min)
	assert.Equal(t, 5*time.Millisecond, s.Max)
	assert.Equal(t, 5*time.Millisecond, s.P99)

	// sample stddev of 1..5 is sqrt(2.5)
	want := time.Duration(math.Round(math.Sqrt(2.5) * float64(time.Millisecond)))
	assert.Equal(t, want, s.StdDev)
}

func TestCollector_Empty(t *testing.T) {
	c := samples.NewCollector(0)

	_, err := c.Summary()
	assert.ErrorIs(t, err, samples.ErrInsufficientData)
	assert.Zero(t, c.Mean())
}

func TestCollector_EvenMedian(t *testing.T) {
	c := samples.NewCollector(4)
	for _, d := range []time.Duration{40, 10, 30, 20} {
		c.Record(d)
	}

	s, err := c.Summary()
	require.NoError(t, err)
	assert.Equal(t, time.Duration(25), s.Median)
	assert.Equal(t, []time.Duration{40, 10, 30, 20}, c.Durations(), "recording order is kept")
}

func TestCollector_SingleSample(t *testing.T) {
	c := samples.NewCollector(1)
	c.Record(7 * time.Microsecond)

	s, err := c.Summary()
	require.NoError(t, err)
	assert.Equal(t, 7*time.Microsecond, s.Median)
	assert.Zero(t, s.StdDev)
}

func TestWelford_MatchesBatch(t *testing.T) {
	xs := []float64{3.5, 1.25, 9, 4, 4, 12.75, 0.5}

	var w samples.Welford
	for _, x := range xs {
		w.Add(x)
	}

	assert.Equal(t, len(xs), w.Count())
	assert.InDelta(t, stat.Mean(xs, nil), w.Mean(), 1e-9)
	assert.InDelta(t, stat.Variance(xs, nil), w.Variance(), 1e-9)
	assert.InDelta(t, stat.StdDev(xs, nil)/stat.Mean(xs, nil), w.RSD(), 1e-9)

	w.Reset()
	assert.Zero(t, w.Count())
	assert.Zero(t, w.RSD())
}

func TestWelford_ZeroMean(t *testing.T) {
	var w samples.Welford
	w.Add(-1)
	w.Add(1)

	assert.True(t, math.IsInf(w.RSD(), 1))
}
