package queue_test

import (
	"errors"
	"testing"

	"github.com/randomizedcoder/copybench/internal/queue"
)

func testQueue[T comparable](t *testing.T, q queue.Queue[T], val T, name string) {
	t.Helper()

	// Empty queue returns false
	if _, ok := q.Pop(); ok {
		t.Errorf("%s: expected Pop() = false on empty queue", name)
	}

	// Push succeeds
	if !q.Push(val) {
		t.Errorf("%s: expected Push() = true", name)
	}

	// Pop returns pushed value
	got, ok := q.Pop()
	if !ok {
		t.Errorf("%s: expected Pop() = true after Push()", name)
	}
	if got != val {
		t.Errorf("%s: expected %v, got %v", name, val, got)
	}

	// Queue is empty again
	if _, ok := q.Pop(); ok {
		t.Errorf("%s: expected Pop() = false after draining", name)
	}
}

// Test that every kind satisfies the contract when built through New
func TestQueueKinds(t *testing.T) {
	for _, kind := range queue.Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			q, err := queue.New[int](kind, 8)
			if err != nil {
				t.Fatalf("New(%q): %v", kind, err)
			}
			testQueue(t, q, 42, string(kind))
		})
	}
}

func TestQueueKinds_PointerPayload(t *testing.T) {
	type task struct{ id int }
	want := &task{id: 7}

	for _, kind := range queue.Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			q, err := queue.New[*task](kind, 8)
			if err != nil {
				t.Fatalf("New(%q): %v", kind, err)
			}
			testQueue(t, q, want, string(kind))
		})
	}
}

func TestNew_UnknownKind(t *testing.T) {
	_, err := queue.New[int]("lifo", 8)
	if !errors.Is(err, queue.ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
}

func TestChannelQueue_Full(t *testing.T) {
	q := queue.NewChannel[int](2)
	if !q.Push(1) {
		t.Error("expected Push(1) = true")
	}
	if !q.Push(2) {
		t.Error("expected Push(2) = true")
	}
	if q.Push(3) {
		t.Error("expected Push(3) = false on full queue")
	}
	if q.Cap() != 2 {
		t.Errorf("expected Cap() = 2, got %d", q.Cap())
	}
}

func TestRingBuffer_Full(t *testing.T) {
	q := queue.NewRingBuffer[int](2)
	if !q.Push(1) {
		t.Error("expected Push(1) = true")
	}
	if !q.Push(2) {
		t.Error("expected Push(2) = true")
	}
	if q.Push(3) {
		t.Error("expected Push(3) = false on full queue")
	}
}

func TestFIFO(t *testing.T) {
	testCases := []struct {
		name string
		q    queue.Queue[int]
	}{
		{"Channel", queue.NewChannel[int](8)},
		{"RingBuffer", queue.NewRingBuffer[int](8)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for i := 0; i < 5; i++ {
				if !tc.q.Push(i) {
					t.Fatalf("expected Push(%d) = true", i)
				}
			}
			for i := 0; i < 5; i++ {
				got, ok := tc.q.Pop()
				if !ok {
					t.Fatalf("expected Pop() = true for item %d", i)
				}
				if got != i {
					t.Errorf("FIFO violation: expected %d, got %d", i, got)
				}
			}
		})
	}
}

func TestShardedQueue_DrainsEverything(t *testing.T) {
	q, err := queue.NewSharded[int](64, 4)
	if err != nil {
		t.Fatalf("NewSharded: %v", err)
	}

	seen := make(map[int]bool)
	for i := 0; i < 32; i++ {
		if !q.Push(i) {
			t.Fatalf("expected Push(%d) = true", i)
		}
	}
	for {
		v, ok := q.Pop()
		if !ok {
			break
		}
		if seen[v] {
			t.Errorf("item %d popped twice", v)
		}
		seen[v] = true
	}
	if len(seen) != 32 {
		t.Errorf("expected 32 distinct items, got %d", len(seen))
	}
}

func TestRingBuffer_PowerOfTwo(t *testing.T) {
	// Size 5 should round up to 8
	q := queue.NewRingBuffer[int](5)
	if q.Cap() != 8 {
		t.Errorf("expected Cap() = 8 (rounded up), got %d", q.Cap())
	}

	for i := 0; i < 8; i++ {
		if !q.Push(i) {
			t.Fatalf("expected Push(%d) = true below Cap()", i)
		}
	}
	if q.Push(8) {
		t.Error("expected Push() = false at Cap()")
	}
}

func TestShardedQueue_Capacity(t *testing.T) {
	testCases := []struct {
		size, shards, want int
	}{
		{1, 4, 8},
		{7, 4, 8},
		{9, 4, 12},
		{64, 4, 64},
		{1, 1, 2},
	}

	for _, tc := range testCases {
		q, err := queue.NewSharded[int](tc.size, tc.shards)
		if err != nil {
			t.Fatalf("NewSharded(%d, %d): %v", tc.size, tc.shards, err)
		}
		if q.Cap() != tc.want {
			t.Errorf("NewSharded(%d, %d).Cap() = %d, want %d", tc.size, tc.shards, q.Cap(), tc.want)
		}
	}
}
