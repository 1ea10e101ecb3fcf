package clock

import (
	"sync/atomic"
	"time"
)

// Ticker signals when a time interval has elapsed.
//
// The runner polls a Ticker between measurements to decide when to log
// progress; polling must stay cheap because it sits next to timed code.
type Ticker interface {
	// Tick returns true if the interval has elapsed since the last tick.
	// This is a non-blocking check.
	Tick() bool

	// Reset restarts the interval from now.
	Reset()
}

// AtomicTicker uses a Clock and a compare-and-swap on the last tick, so it
// may be polled from several goroutines and fires once per interval.
type AtomicTicker struct {
	clock    Clock
	interval int64 // nanoseconds
	lastTick atomic.Int64
}

// NewAtomicTicker creates an AtomicTicker reading c.
func NewAtomicTicker(c Clock, interval time.Duration) *AtomicTicker {
	t := &AtomicTicker{
		clock:    c,
		interval: int64(interval),
	}
	t.lastTick.Store(int64(c.Now()))
	return t
}

// Tick returns true if the interval has elapsed since the last tick.
//
// Uses a compare-and-swap so concurrent pollers fire a tick only once.
func (a *AtomicTicker) Tick() bool {
	now := int64(a.clock.Now())
	last := a.lastTick.Load()

	if now-last >= a.interval {
		if a.lastTick.CompareAndSwap(last, now) {
			return true
		}
	}
	return false
}

// Reset resets the ticker to start a new interval from now.
func (a *AtomicTicker) Reset() {
	a.lastTick.Store(int64(a.clock.Now()))
}

// BatchTicker reads the clock only every N calls to Tick().
//
// Example: With every=100 and interval=1s, the clock is read once per 100
// calls, and a tick fires if a second has passed.
//
// Not safe for concurrent use.
type BatchTicker struct {
	clock    Clock
	interval time.Duration
	every    int
	count    int
	lastTick Instant
}

// NewBatchTicker creates a BatchTicker that reads c every N calls.
func NewBatchTicker(c Clock, interval time.Duration, every int) *BatchTicker {
	if every < 1 {
		every = 1
	}
	return &BatchTicker{
		clock:    c,
		interval: interval,
		every:    every,
		lastTick: c.Now(),
	}
}

// Tick returns true if the interval has elapsed.
func (b *BatchTicker) Tick() bool {
	b.count++
	if b.count%b.every != 0 {
		return false
	}

	now := b.clock.Now()
	if time.Duration(now-b.lastTick) >= b.interval {
		b.lastTick = now
		return true
	}
	return false
}

// Reset resets the ticker state.
func (b *BatchTicker) Reset() {
	b.count = 0
	b.lastTick = b.clock.Now()
}
