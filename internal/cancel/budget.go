package cancel

import (
	"sync/atomic"
	"time"

	"github.com/randomizedcoder/copybench/internal/clock"
)

// Budget is done once its parent is done or a time budget has been spent.
//
// The budget starts when the Budget is created. A non-positive budget
// never expires on its own.
type Budget struct {
	parent  Canceler
	clock   clock.Clock
	start   clock.Instant
	budget  time.Duration
	spent   atomic.Bool
	stopped atomic.Bool
}

// NewBudget creates a Budget over parent. A nil parent behaves like Never.
func NewBudget(parent Canceler, c clock.Clock, budget time.Duration) *Budget {
	if parent == nil {
		parent = Never{}
	}
	return &Budget{
		parent: parent,
		clock:  c,
		start:  c.Now(),
		budget: budget,
	}
}

// Done returns true if the parent is done or the budget is spent.
func (b *Budget) Done() bool {
	if b.spent.Load() || b.stopped.Load() || b.parent.Done() {
		return true
	}
	if b.budget <= 0 {
		return false
	}
	// A clock running backwards is reported by the scheduler, not here.
	if time.Duration(b.clock.Now()-b.start) >= b.budget {
		b.spent.Store(true)
		return true
	}
	return false
}

// Cancel cancels the parent.
func (b *Budget) Cancel() {
	b.stopped.Store(true)
	b.parent.Cancel()
}

// Cause returns ErrBudgetSpent once the budget ran out, otherwise the
// parent's cause. It is nil while not done.
func (b *Budget) Cause() error {
	if !b.Done() {
		return nil
	}
	if b.spent.Load() {
		return ErrBudgetSpent
	}
	return CauseOf(b.parent)
}

// Remaining returns the unspent budget, 0 once expired.
// Returns -1 for an unlimited budget.
func (b *Budget) Remaining() time.Duration {
	if b.budget <= 0 {
		return -1
	}
	left := b.budget - time.Duration(b.clock.Now()-b.start)
	if left < 0 || b.spent.Load() {
		return 0
	}
	return left
}
