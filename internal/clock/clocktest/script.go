// Package clocktest provides deterministic clocks for tests.
package clocktest

import (
	"sync"
	"time"

	"github.com/randomizedcoder/copybench/internal/clock"
)

// Script is a clock whose readings come in start/end pairs.
//
// Odd calls to Now return the current time unchanged; even calls advance
// it by the next scripted duration (cycling) and return the new time. A
// caller that brackets work with two Now calls therefore observes exactly
// the scripted durations in order.
type Script struct {
	mu        sync.Mutex
	now       clock.Instant
	durations []time.Duration
	calls     int
	next      int
}

// NewScript creates a Script cycling through durations.
// With no durations every bracketed interval is zero.
func NewScript(durations ...time.Duration) *Script {
	return &Script{durations: durations}
}

// Now returns the next scripted reading.
func (s *Script) Now() clock.Instant {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	if s.calls%2 == 0 && len(s.durations) > 0 {
		s.now += clock.Instant(s.durations[s.next%len(s.durations)])
		s.next++
	}
	return s.now
}

// Calls returns how many times Now was called.
func (s *Script) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// Manual is a clock that only moves when told to.
type Manual struct {
	mu  sync.Mutex
	now clock.Instant
}

// NewManual creates a Manual clock at zero.
func NewManual() *Manual {
	return &Manual{}
}

// Now returns the current reading.
func (m *Manual) Now() clock.Instant {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock by d. A negative d moves it backwards, which is
// how tests provoke clock.ErrNotMonotonic.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	m.now += clock.Instant(d)
	m.mu.Unlock()
}
