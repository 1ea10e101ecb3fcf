// Package cancel provides the stop signals a benchmark run polls between
// measurements.
//
// This package offers three implementations of the Canceler interface:
//   - ContextCanceler: Follows a context.Context (signals, CLI shutdown)
//   - AtomicCanceler: atomic.Bool flag, for programmatic stops
//   - Budget: Fires once a time budget on a clock.Clock is exhausted
//
// The scheduler never interrupts an in-flight measurement; it checks
// Done() only at measurement boundaries, so checks must be cheap but need
// not be instantaneous.
package cancel

import "errors"

var (
	// ErrStopped is the cause reported after an explicit Cancel.
	ErrStopped = errors.New("cancel: stopped")

	// ErrBudgetSpent is the cause reported by an expired Budget.
	ErrBudgetSpent = errors.New("cancel: time budget spent")
)

// Canceler signals that a run should stop taking new measurements.
//
// Implementations must be safe for concurrent use:
//   - Multiple goroutines may call Done() concurrently
//   - Cancel() may be called concurrently with Done()
type Canceler interface {
	// Done returns true if cancellation has been triggered.
	Done() bool

	// Cancel triggers cancellation. Safe to call multiple times.
	Cancel()
}

// Causer is implemented by cancelers that can say why they are done.
type Causer interface {
	// Cause returns nil while not done.
	Cause() error
}

// CauseOf returns c's cause if it has one, ErrStopped if it is done
// without one, and nil otherwise.
func CauseOf(c Canceler) error {
	if cc, ok := c.(Causer); ok {
		return cc.Cause()
	}
	if c.Done() {
		return ErrStopped
	}
	return nil
}

// Never is a Canceler that is never done. Cancel is a no-op.
type Never struct{}

// Done always returns false.
func (Never) Done() bool { return false }

// Cancel does nothing.
func (Never) Cancel() {}
