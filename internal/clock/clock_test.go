package clock_test

import (
	"errors"
	"testing"
	"time"

	"github.com/randomizedcoder/copybench/internal/clock"
	"github.com/randomizedcoder/copybench/internal/clock/clocktest"
)

func TestElapsed(t *testing.T) {
	d, err := clock.Elapsed(100, 350)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != 250*time.Nanosecond {
		t.Errorf("expected 250ns, got %v", d)
	}

	d, err = clock.Elapsed(42, 42)
	if err != nil || d != 0 {
		t.Errorf("expected (0, nil) for equal readings, got (%v, %v)", d, err)
	}
}

func TestElapsed_Backwards(t *testing.T) {
	_, err := clock.Elapsed(10, 9)
	if !errors.Is(err, clock.ErrNotMonotonic) {
		t.Errorf("expected ErrNotMonotonic, got %v", err)
	}
}

// Test that all implementations are non-decreasing
func TestClockInterface(t *testing.T) {
	testCases := []struct {
		name string
		c    clock.Clock
	}{
		{"Monotonic", clock.NewMonotonic()},
		{"Wall", clock.NewWall()},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			prev := tc.c.Now()
			for i := 0; i < 10000; i++ {
				now := tc.c.Now()
				if now < prev {
					t.Fatalf("reading %d went backwards: %d < %d", i, now, prev)
				}
				prev = now
			}

			start := tc.c.Now()
			time.Sleep(5 * time.Millisecond)
			d, err := clock.Since(tc.c, start)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if d < 5*time.Millisecond {
				t.Errorf("expected at least 5ms, got %v", d)
			}
		})
	}
}

func TestScript(t *testing.T) {
	s := clocktest.NewScript(time.Millisecond, time.Second)

	for i, want := range []time.Duration{time.Millisecond, time.Second, time.Millisecond} {
		start := s.Now()
		end := s.Now()
		d, err := clock.Elapsed(start, end)
		if err != nil {
			t.Fatalf("interval %d: %v", i, err)
		}
		if d != want {
			t.Errorf("interval %d: expected %v, got %v", i, want, d)
		}
	}
	if s.Calls() != 6 {
		t.Errorf("expected 6 calls, got %d", s.Calls())
	}
}

func TestManual_Backwards(t *testing.T) {
	m := clocktest.NewManual()
	start := m.Now()
	m.Advance(-time.Microsecond)

	if _, err := clock.Since(m, start); !errors.Is(err, clock.ErrNotMonotonic) {
		t.Errorf("expected ErrNotMonotonic, got %v", err)
	}
}
