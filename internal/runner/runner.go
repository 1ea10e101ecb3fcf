package runner

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/randomizedcoder/copybench/internal/backend"
	"github.com/randomizedcoder/copybench/internal/cancel"
	"github.com/randomizedcoder/copybench/internal/clock"
	"github.com/randomizedcoder/copybench/internal/metrics"
	"github.com/randomizedcoder/copybench/internal/schedule"
)

// Runner measures suites.
type Runner struct {
	clock       clock.Clock
	canceler    cancel.Canceler
	logger      *zap.Logger
	sink        metrics.Sink
	progress    clock.Ticker
	trackAllocs bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithCanceler stops the run between measurements once c is done.
func WithCanceler(c cancel.Canceler) Option {
	return func(r *Runner) { r.canceler = c }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithMetrics sends measurements and outcomes to s.
func WithMetrics(s metrics.Sink) Option {
	return func(r *Runner) { r.sink = s }
}

// WithProgress logs scheduler progress whenever t ticks.
func WithProgress(t clock.Ticker) Option {
	return func(r *Runner) { r.progress = t }
}

// WithAllocs records heap allocation deltas per pair. Reading the memory
// statistics stops the world, so it happens only between pairs.
func WithAllocs(enabled bool) Option {
	return func(r *Runner) { r.trackAllocs = enabled }
}

// New creates a Runner timing with clk.
func New(clk clock.Clock, opts ...Option) *Runner {
	r := &Runner{
		clock:    clk,
		canceler: cancel.Never{},
		logger:   zap.NewNop(),
		sink:     metrics.Nop{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run measures every pair of suites in order.
//
// The Report always lists every pair. If any pair failed, the error is a
// *RunError naming each failure; successful pairs keep their Summary. A
// non-monotonic clock stops the run and marks the remaining pairs with
// ErrSkipped. An invalid suite fails before anything is measured.
func (r *Runner) Run(suites ...Suite) (*Report, error) {
	if err := validate(suites); err != nil {
		return nil, err
	}

	report := newReport()
	log := r.logger.With(zap.String("run_id", report.RunID.String()))
	log.Info("run started", zap.Int("suites", len(suites)))

	var fatal error
	for _, s := range suites {
		for _, e := range s.Entries {
			for _, b := range e.Backends {
				o := Outcome{
					Pair:   Pair{Scenario: e.Scenario.Name(), Backend: b.Name()},
					Suite:  s.Name,
					Length: e.Length,
					Policy: e.Policy.String(),
				}
				if fatal != nil {
					o.Err = fmt.Errorf("%w: %w", ErrSkipped, fatal)
					r.sink.Pair(o.Scenario, o.Backend, o.Status(), 0)
				} else {
					r.runPair(log, &o, e, b)
					if errors.Is(o.Err, clock.ErrNotMonotonic) {
						fatal = o.Err
						log.Error("timer failure, skipping remaining pairs", zap.Error(fatal))
					}
				}
				report.add(o)
			}
		}
	}
	report.Finished = time.Now()

	var failures []*PairError
	for _, o := range report.Outcomes {
		if o.Err != nil {
			failures = append(failures, &PairError{Pair: o.Pair, Err: o.Err})
		}
	}
	log.Info("run finished",
		zap.Int("pairs", len(report.Outcomes)),
		zap.Int("failed", len(failures)),
		zap.Duration("elapsed", report.Finished.Sub(report.Started)))

	if len(failures) > 0 {
		return report, &RunError{Failures: failures}
	}
	return report, nil
}

func (r *Runner) runPair(log *zap.Logger, o *Outcome, e Entry, b backend.Backend) {
	log = log.With(zap.String("scenario", o.Scenario), zap.String("backend", o.Backend))

	opts := []schedule.Option{
		schedule.WithCanceler(r.canceler),
		schedule.WithLogger(log),
		schedule.WithObserver(observer{sink: r.sink, pair: o.Pair}),
	}
	if r.progress != nil {
		r.progress.Reset()
		opts = append(opts, schedule.WithProgress(r.progress))
	}
	sched := schedule.New(r.clock, opts...)

	var before runtime.MemStats
	if r.trackAllocs {
		runtime.GC()
		runtime.ReadMemStats(&before)
	}
	started := time.Now()

	res, err := sched.Run(e.Scenario, b, e.Length, e.Policy)

	o.Elapsed = time.Since(started)
	if r.trackAllocs {
		var after runtime.MemStats
		runtime.ReadMemStats(&after)
		o.AllocBytes = after.TotalAlloc - before.TotalAlloc
		o.Mallocs = after.Mallocs - before.Mallocs
	}

	if err != nil {
		o.Err = err
		r.sink.Pair(o.Scenario, o.Backend, o.Status(), 0)
		log.Warn("pair failed", zap.Error(err))
		return
	}

	summary, err := res.Collector.Summary()
	if err != nil {
		o.Err = err
		r.sink.Pair(o.Scenario, o.Backend, o.Status(), 0)
		return
	}
	o.Summary = &summary
	o.Warning = res.Warning
	o.Measurements = res.Measurements
	o.Warmups = res.Warmups
	o.RSD = res.RSD

	r.sink.Pair(o.Scenario, o.Backend, o.Status(), summary.Mean)
	log.Info("pair finished",
		zap.Duration("mean", summary.Mean),
		zap.Duration("median", summary.Median),
		zap.Int("measurements", o.Measurements),
		zap.Float64("rsd", o.RSD))
}

// observer forwards scheduler measurements to a metrics.Sink.
type observer struct {
	sink metrics.Sink
	pair Pair
}

func (o observer) ObserveMeasurement(durations []time.Duration) {
	o.sink.Measurement(o.pair.Scenario, o.pair.Backend, durations)
}
