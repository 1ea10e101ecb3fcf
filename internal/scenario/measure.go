package scenario

import (
	"errors"
	"fmt"
	"time"

	"github.com/randomizedcoder/copybench/internal/backend"
	"github.com/randomizedcoder/copybench/internal/clock"
)

// Measure runs one measurement: SetUp, iterations timed calls to Execute,
// Verify, then CleanUp.
//
// It returns one duration per iteration. On any failure no durations are
// returned: a measurement is recorded whole or not at all. CleanUp runs
// whenever SetUp succeeded, including after a failing or panicking
// Execute. A backwards clock aborts with clock.ErrNotMonotonic unwrapped,
// so callers can tell it apart from scenario failures.
func Measure(clk clock.Clock, s Scenario, b backend.Backend, length, iterations int) ([]time.Duration, error) {
	inst, err := s.SetUp(b, length)
	if err != nil {
		return nil, &SetupError{Backend: b.Name(), Cause: err}
	}

	durations := make([]time.Duration, 0, max(iterations, 0))
	runErr := run(clk, inst, b, iterations, &durations)
	cleanErr := cleanUp(inst, b)

	if err := errors.Join(runErr, cleanErr); err != nil {
		return nil, err
	}
	return durations, nil
}

func run(clk clock.Clock, inst Instance, b backend.Backend, iterations int, out *[]time.Duration) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ExecutionError{Backend: b.Name(), Cause: panicCause(r)}
		}
	}()

	for i := 0; i < iterations; i++ {
		start := clk.Now()
		execErr := inst.Execute()
		end := clk.Now()

		if execErr != nil {
			return &ExecutionError{Backend: b.Name(), Cause: execErr}
		}
		d, err := clock.Elapsed(start, end)
		if err != nil {
			return err
		}
		*out = append(*out, d)
	}

	if v, ok := inst.(Verifier); ok {
		if err := v.Verify(); err != nil {
			return &ExecutionError{Backend: b.Name(), Cause: err}
		}
	}
	return nil
}

func cleanUp(inst Instance, b backend.Backend) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &CleanupError{Backend: b.Name(), Cause: panicCause(r)}
		}
	}()

	if err := inst.CleanUp(); err != nil {
		return &CleanupError{Backend: b.Name(), Cause: err}
	}
	return nil
}

func panicCause(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", r)
}
