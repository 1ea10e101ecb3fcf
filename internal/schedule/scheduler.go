package schedule

import (
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/randomizedcoder/copybench/internal/backend"
	"github.com/randomizedcoder/copybench/internal/cancel"
	"github.com/randomizedcoder/copybench/internal/clock"
	"github.com/randomizedcoder/copybench/internal/samples"
	"github.com/randomizedcoder/copybench/internal/scenario"
)

var (
	// ErrConvergenceNotReached is the warning attached to an adaptive
	// result that hit its measurement cap without stabilizing.
	ErrConvergenceNotReached = errors.New("schedule: convergence not reached")

	// ErrCancelled is returned when a run is stopped before any
	// measurement was recorded, and attached as a warning to a partial
	// result otherwise.
	ErrCancelled = errors.New("schedule: cancelled")
)

// ConvergenceState tracks the per-measurement means of one pair.
type ConvergenceState struct {
	means samples.Welford
}

// Add folds the mean of one measurement into the state.
func (c *ConvergenceState) Add(mean time.Duration) {
	c.means.Add(float64(mean))
}

// Count returns the number of recorded measurements.
func (c *ConvergenceState) Count() int {
	return c.means.Count()
}

// RSD returns the relative standard deviation of the measurement means.
// Returns +Inf with fewer than two measurements.
func (c *ConvergenceState) RSD() float64 {
	if c.means.Count() < 2 {
		return math.Inf(1)
	}
	return c.means.RSD()
}

// Result is the outcome of one scheduled pair.
type Result struct {
	Collector    *samples.Collector
	Measurements int
	Warmups      int
	Converged    bool

	// RSD of the per-measurement means; +Inf with fewer than two.
	RSD float64

	// Warning is ErrConvergenceNotReached or ErrCancelled when the result
	// is best-effort, nil otherwise.
	Warning error
}

// Observer is notified after every recorded measurement.
type Observer interface {
	ObserveMeasurement(durations []time.Duration)
}

// Scheduler runs the measurement loop for one pair at a time.
type Scheduler struct {
	clock    clock.Clock
	canceler cancel.Canceler
	progress clock.Ticker
	observer Observer
	logger   *zap.Logger
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithCanceler sets the stop signal polled between measurements.
func WithCanceler(c cancel.Canceler) Option {
	return func(s *Scheduler) { s.canceler = c }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scheduler) { s.logger = l }
}

// WithProgress logs the loop state whenever t ticks.
func WithProgress(t clock.Ticker) Option {
	return func(s *Scheduler) { s.progress = t }
}

// WithObserver registers o for every recorded measurement.
func WithObserver(o Observer) Option {
	return func(s *Scheduler) { s.observer = o }
}

// New creates a Scheduler timing with clk.
func New(clk clock.Clock, opts ...Option) *Scheduler {
	s := &Scheduler{
		clock:    clk,
		canceler: cancel.Never{},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run measures sc on b with length elements under policy p.
//
// The canceler is checked before every measurement, warmups included; an
// in-flight measurement always completes. A failed measurement is not
// recorded and aborts the pair: the returned error matches
// scenario.ErrSetupFailed, scenario.ErrExecutionFailed or
// scenario.ErrResourceCleanupFailed. clock.ErrNotMonotonic is returned as
// is so the caller can stop the whole run.
func (s *Scheduler) Run(sc scenario.Scenario, b backend.Backend, length int, p Policy) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	log := s.logger.With(zap.String("scenario", sc.Name()), zap.String("backend", b.Name()))

	iterations := p.IterationCount()
	res := &Result{
		Collector: samples.NewCollector(p.MeasurementCap() * iterations),
		RSD:       math.Inf(1),
	}

	for res.Warmups < p.WarmupCount() {
		if s.canceler.Done() {
			return nil, fmt.Errorf("%w during warmup %d of %d", ErrCancelled, res.Warmups, p.WarmupCount())
		}
		if _, err := scenario.Measure(s.clock, sc, b, length, iterations); err != nil {
			return nil, fmt.Errorf("warmup %d: %w", res.Warmups, err)
		}
		res.Warmups++
	}

	var state ConvergenceState
	for state.Count() < p.MeasurementCap() {
		if s.canceler.Done() {
			if state.Count() == 0 {
				return nil, fmt.Errorf("%w before the first measurement", ErrCancelled)
			}
			res.Warning = ErrCancelled
			break
		}

		durations, err := scenario.Measure(s.clock, sc, b, length, iterations)
		if err != nil {
			log.Debug("measurement failed", zap.Int("measurement", state.Count()), zap.Error(err))
			return nil, fmt.Errorf("measurement %d: %w", state.Count(), err)
		}

		var sum time.Duration
		for _, d := range durations {
			res.Collector.Record(d)
			sum += d
		}
		state.Add(sum / time.Duration(len(durations)))
		if s.observer != nil {
			s.observer.ObserveMeasurement(durations)
		}

		if s.progress != nil && s.progress.Tick() {
			log.Info("measuring",
				zap.Int("measurements", state.Count()),
				zap.Float64("rsd", state.RSD()),
				zap.Duration("mean", res.Collector.Mean()))
		}

		if p.Satisfied(&state) {
			res.Converged = true
			break
		}
	}

	res.Measurements = state.Count()
	res.RSD = state.RSD()
	if !res.Converged && res.Warning == nil {
		res.Warning = ErrConvergenceNotReached
	}
	if res.Warning != nil {
		log.Warn("best-effort result",
			zap.Int("measurements", res.Measurements),
			zap.Float64("rsd", res.RSD),
			zap.Error(res.Warning))
	}
	return res, nil
}
