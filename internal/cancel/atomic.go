package cancel

import "sync/atomic"

// AtomicCanceler is a flag for stopping a run from code, such as a test
// that cancels from inside a scenario. Done is one atomic load.
type AtomicCanceler struct {
	done atomic.Bool
}

func NewAtomic() *AtomicCanceler {
	return &AtomicCanceler{}
}

func (a *AtomicCanceler) Done() bool {
	return a.done.Load()
}

// Cancel is idempotent.
func (a *AtomicCanceler) Cancel() {
	a.done.Store(true)
}

// Reset rearms the flag between runs. It must not race with Done or Cancel.
func (a *AtomicCanceler) Reset() {
	a.done.Store(false)
}
