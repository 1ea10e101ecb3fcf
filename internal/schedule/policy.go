// Package schedule decides how many measurements a (scenario, backend)
// pair gets and drives them.
//
// Two policies are provided:
//   - Fixed: a deterministic number of measurements and iterations, for
//     comparing backends at identical N
//   - Adaptive: measures until the relative standard deviation of the
//     per-measurement means falls below a threshold, or a cap is reached
package schedule

import (
	"errors"
	"fmt"
)

// ErrInvalidPolicy is returned for a policy that cannot be run.
var ErrInvalidPolicy = errors.New("schedule: invalid policy")

// Policy controls the measurement loop of a single pair.
type Policy interface {
	// WarmupCount is the number of unrecorded measurements taken first.
	WarmupCount() int

	// IterationCount is the number of timed Execute calls per measurement.
	IterationCount() int

	// MeasurementCap bounds the recorded measurements.
	MeasurementCap() int

	// Satisfied reports whether the pair can stop measuring.
	Satisfied(s *ConvergenceState) bool

	// Validate reports a policy that cannot be run.
	Validate() error

	String() string
}

// Fixed runs exactly Measurements × Iterations recorded iterations,
// regardless of variance.
type Fixed struct {
	Warmup       int
	Measurements int
	Iterations   int
}

func (f Fixed) WarmupCount() int    { return f.Warmup }
func (f Fixed) IterationCount() int { return f.Iterations }
func (f Fixed) MeasurementCap() int { return f.Measurements }

// Satisfied is true once every measurement was taken.
func (f Fixed) Satisfied(s *ConvergenceState) bool {
	return s.Count() >= f.Measurements
}

func (f Fixed) Validate() error {
	switch {
	case f.Warmup < 0:
		return fmt.Errorf("%w: negative warmup %d", ErrInvalidPolicy, f.Warmup)
	case f.Measurements < 1:
		return fmt.Errorf("%w: measurements must be at least 1, got %d", ErrInvalidPolicy, f.Measurements)
	case f.Iterations < 1:
		return fmt.Errorf("%w: iterations must be at least 1, got %d", ErrInvalidPolicy, f.Iterations)
	}
	return nil
}

func (f Fixed) String() string {
	return fmt.Sprintf("fixed(warmup=%d, measurements=%d, iterations=%d)", f.Warmup, f.Measurements, f.Iterations)
}

// Adaptive measures until the per-measurement means stabilize.
//
// A pair is satisfied once at least Min measurements were recorded and
// the relative standard deviation of their means is below Threshold.
// Max caps the loop on noisy hosts; hitting it yields a best-effort
// result with ErrConvergenceNotReached as a warning.
type Adaptive struct {
	Warmup     int
	Iterations int
	Min        int
	Max        int
	Threshold  float64
}

func (a Adaptive) WarmupCount() int    { return a.Warmup }
func (a Adaptive) IterationCount() int { return a.Iterations }
func (a Adaptive) MeasurementCap() int { return a.Max }

// Satisfied is true once the minimum is met and the spread is below the
// threshold.
func (a Adaptive) Satisfied(s *ConvergenceState) bool {
	return s.Count() >= a.Min && s.RSD() < a.Threshold
}

func (a Adaptive) Validate() error {
	switch {
	case a.Warmup < 0:
		return fmt.Errorf("%w: negative warmup %d", ErrInvalidPolicy, a.Warmup)
	case a.Iterations < 1:
		return fmt.Errorf("%w: iterations must be at least 1, got %d", ErrInvalidPolicy, a.Iterations)
	case a.Min < 2:
		return fmt.Errorf("%w: at least 2 measurements are needed for a deviation, got %d", ErrInvalidPolicy, a.Min)
	case a.Max < a.Min:
		return fmt.Errorf("%w: cap %d below minimum %d", ErrInvalidPolicy, a.Max, a.Min)
	case !(a.Threshold > 0):
		return fmt.Errorf("%w: threshold must be positive, got %v", ErrInvalidPolicy, a.Threshold)
	}
	return nil
}

func (a Adaptive) String() string {
	return fmt.Sprintf("adaptive(warmup=%d, iterations=%d, min=%d, max=%d, rsd<%.3g)",
		a.Warmup, a.Iterations, a.Min, a.Max, a.Threshold)
}
