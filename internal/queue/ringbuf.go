package queue

import (
	"sync/atomic"
)

// cacheLinePad keeps the producer and consumer cursors on separate lines.
type cacheLinePad [56]byte

// RingBuffer is a bounded single-producer single-consumer queue.
//
// A jobs.Worker built on it owns the consumer side; the producer side
// belongs to whichever single goroutine schedules jobs (the runner's
// measurement loop). A second concurrent Push or Pop panics instead of
// silently corrupting the ring.
type RingBuffer[T any] struct {
	slots []T
	mask  uint64

	_ cacheLinePad

	written atomic.Uint64 // producer cursor

	_ cacheLinePad

	read atomic.Uint64 // consumer cursor

	_ cacheLinePad

	pushing atomic.Bool
	popping atomic.Bool
}

// NewRingBuffer returns a ring holding at least size items. The capacity
// is rounded up to a power of two.
func NewRingBuffer[T any](size int) *RingBuffer[T] {
	n := uint64(1)
	for n < uint64(size) {
		n <<= 1
	}
	return &RingBuffer[T]{
		slots: make([]T, n),
		mask:  n - 1,
	}
}

// Push appends v, reporting false when the ring is full.
func (r *RingBuffer[T]) Push(v T) bool {
	if !r.pushing.CompareAndSwap(false, true) {
		panic("queue: concurrent Push on SPSC RingBuffer - schedule onto this worker from one goroutine")
	}
	defer r.pushing.Store(false)

	w := r.written.Load()
	if w-r.read.Load() >= uint64(len(r.slots)) {
		return false
	}
	r.slots[w&r.mask] = v
	r.written.Store(w + 1)
	return true
}

// Pop removes the oldest item, reporting false when the ring is empty.
func (r *RingBuffer[T]) Pop() (T, bool) {
	if !r.popping.CompareAndSwap(false, true) {
		panic("queue: concurrent Pop on SPSC RingBuffer - only the owning worker may Pop")
	}
	defer r.popping.Store(false)

	var zero T
	rd := r.read.Load()
	if rd >= r.written.Load() {
		return zero, false
	}
	v := r.slots[rd&r.mask]
	// Drop the reference so a finished job's closure can be collected.
	r.slots[rd&r.mask] = zero
	r.read.Store(rd + 1)
	return v, true
}

// Cap returns the rounded-up capacity.
func (r *RingBuffer[T]) Cap() int {
	return len(r.slots)
}
