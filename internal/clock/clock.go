// Package clock provides the monotonic time sources used to time benchmark
// iterations.
//
// This package offers two implementations of the Clock interface:
//   - Monotonic: Reads runtime.nanotime directly (no time.Time construction)
//   - Wall: Standard library time.Now() with its monotonic reading
//
// Both are immune to wall-clock adjustments. Elapsed is the only way the
// harness turns two readings into a duration; it refuses to produce a
// negative result so a broken clock stops the run instead of skewing it.
package clock

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotMonotonic is returned by Elapsed when the end reading precedes the
// start reading.
var ErrNotMonotonic = errors.New("clock: reading went backwards")

// Instant is a monotonic timestamp in nanoseconds.
// Only differences between two Instants from the same Clock are meaningful.
type Instant int64

// Clock returns monotonically non-decreasing timestamps.
//
// Implementations must be safe for concurrent use.
type Clock interface {
	// Now returns the current monotonic reading.
	Now() Instant
}

// Elapsed returns end - start.
//
// Returns ErrNotMonotonic if end is before start.
func Elapsed(start, end Instant) (time.Duration, error) {
	if end < start {
		return 0, fmt.Errorf("%w: start=%d end=%d", ErrNotMonotonic, start, end)
	}
	return time.Duration(end - start), nil
}

// Since returns the time elapsed since start on c.
func Since(c Clock, start Instant) (time.Duration, error) {
	return Elapsed(start, c.Now())
}
