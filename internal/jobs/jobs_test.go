package jobs_test

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randomizedcoder/copybench/internal/jobs"
	"github.com/randomizedcoder/copybench/internal/queue"
)

func TestWorker_Schedule(t *testing.T) {
	for _, kind := range queue.Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			w, err := jobs.NewWorker(kind, 4)
			require.NoError(t, err)
			defer w.Close()

			var ran atomic.Int32
			for i := 0; i < 100; i++ {
				h := w.Schedule(func() { ran.Add(1) })
				require.NoError(t, h.Complete())
			}
			assert.Equal(t, int32(100), ran.Load())
		})
	}
}

func TestWorker_RunsInOrder(t *testing.T) {
	w, err := jobs.NewWorker(queue.KindRing, 2)
	require.NoError(t, err)
	defer w.Close()

	var got []int
	handles := make([]*jobs.Handle, 0, 50)
	for i := 0; i < 50; i++ {
		i := i
		handles = append(handles, w.Schedule(func() { got = append(got, i) }))
	}
	for _, h := range handles {
		require.NoError(t, h.Complete())
	}

	require.Len(t, got, 50)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

func TestWorker_PanicBecomesError(t *testing.T) {
	w, err := jobs.NewWorker(queue.KindChannel, 4)
	require.NoError(t, err)
	defer w.Close()

	h := w.Schedule(func() {
		var s []int
		_ = s[3]
	})
	err = h.Complete()

	var pe *jobs.PanicError
	require.ErrorAs(t, err, &pe)
	var re runtime.Error
	assert.ErrorAs(t, err, &re, "index panics unwrap to runtime.Error")

	// The worker survives the panic
	require.NoError(t, w.Schedule(func() {}).Complete())
}

func TestWorker_ClosedRejects(t *testing.T) {
	w, err := jobs.NewWorker(queue.KindSharded, 4)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close(), "Close is idempotent")

	err = w.Schedule(func() { t.Error("must not run") }).Complete()
	assert.ErrorIs(t, err, jobs.ErrClosed)
}

func TestWorker_CloseDrains(t *testing.T) {
	w, err := jobs.NewWorker(queue.KindChannel, 64)
	require.NoError(t, err)

	var ran atomic.Int32
	handles := make([]*jobs.Handle, 0, 32)
	for i := 0; i < 32; i++ {
		handles = append(handles, w.Schedule(func() { ran.Add(1) }))
	}
	require.NoError(t, w.Close())

	for _, h := range handles {
		assert.NoError(t, h.Complete())
	}
	assert.Equal(t, int32(32), ran.Load())
}

func TestPool_ScheduleParallel_CoversRange(t *testing.T) {
	testCases := []struct {
		name          string
		length, batch int
	}{
		{"empty", 0, 16},
		{"single", 1, 16},
		{"exact", 64, 16},
		{"ragged", 65535, 16},
		{"one-shard", 100, 4096},
		{"batch-one", 37, 1},
		{"batch-zero", 10, 0},
	}

	p, err := jobs.NewPool(4, queue.KindSharded, 64)
	require.NoError(t, err)
	defer p.Close()

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			hits := make([]int32, tc.length)
			h := p.ScheduleParallel(tc.length, tc.batch, func(start, end int) {
				for i := start; i < end; i++ {
					atomic.AddInt32(&hits[i], 1)
				}
			})
			require.NoError(t, h.Complete())

			for i, n := range hits {
				if n != 1 {
					t.Fatalf("index %d visited %d times", i, n)
				}
			}
		})
	}
}

// TestPool_TinyQueues schedules many more shards than the queues hold, so
// every submit has to wait for the worker to make room.
func TestPool_TinyQueues(t *testing.T) {
	for _, kind := range queue.Kinds() {
		for _, size := range []int{1, 4, 7} {
			t.Run(fmt.Sprintf("%s/%d", kind, size), func(t *testing.T) {
				p, err := jobs.NewPool(1, kind, size)
				require.NoError(t, err)
				defer p.Close()

				var visited atomic.Int64
				done := make(chan error, 1)
				go func() {
					done <- p.ScheduleParallel(64, 4, func(start, end int) {
						visited.Add(int64(end - start))
					}).Complete()
				}()

				select {
				case err := <-done:
					require.NoError(t, err)
				case <-time.After(10 * time.Second):
					t.Fatalf("ScheduleParallel on a %s queue of size %d never completed", kind, size)
				}
				assert.Equal(t, int64(64), visited.Load())
			})
		}
	}
}

func TestWorker_QueueCap(t *testing.T) {
	w, err := jobs.NewWorker(queue.KindSharded, 3)
	require.NoError(t, err)
	defer w.Close()

	assert.Equal(t, queue.DefaultShards*queue.MinShardCapacity, w.QueueCap())
}

func TestPool_ShardBounds(t *testing.T) {
	p, err := jobs.NewPool(3, queue.KindChannel, 8)
	require.NoError(t, err)
	defer p.Close()
	assert.Equal(t, 3, p.Size())

	var mu sync.Mutex
	var shards [][2]int
	h := p.ScheduleParallel(10, 4, func(start, end int) {
		mu.Lock()
		shards = append(shards, [2]int{start, end})
		mu.Unlock()
	})
	require.NoError(t, h.Complete())

	assert.ElementsMatch(t, [][2]int{{0, 4}, {4, 8}, {8, 10}}, shards)
}

func TestPool_FirstErrorWins(t *testing.T) {
	p, err := jobs.NewPool(2, queue.KindChannel, 8)
	require.NoError(t, err)
	defer p.Close()

	boom := errors.New("boom")
	h := p.ScheduleParallel(8, 1, func(start, _ int) {
		if start%2 == 0 {
			panic(boom)
		}
	})
	err = h.Complete()
	assert.ErrorIs(t, err, boom)
}

func TestPool_Closed(t *testing.T) {
	p, err := jobs.NewPool(2, queue.KindRing, 8)
	require.NoError(t, err)
	require.NoError(t, p.Close())

	assert.ErrorIs(t, p.ScheduleParallel(10, 2, func(int, int) {}).Complete(), jobs.ErrClosed)
	assert.ErrorIs(t, p.Schedule(func() {}).Complete(), jobs.ErrClosed)
}

func TestNewPool_UnknownQueue(t *testing.T) {
	_, err := jobs.NewPool(2, "lifo", 8)
	assert.ErrorIs(t, err, queue.ErrUnknownKind)
}
