package backend

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/randomizedcoder/copybench/internal/jobs"
)

// SingleThreadedJob runs the sequential loop as a job on one worker and
// waits for it. Compared with SequentialLoop it isolates the cost of
// dispatch and completion.
type SingleThreadedJob struct {
	worker *jobs.Worker
}

// NewSingleThreadedJob creates a SingleThreadedJob scheduling onto w.
func NewSingleThreadedJob(w *jobs.Worker) *SingleThreadedJob {
	return &SingleThreadedJob{worker: w}
}

// Name returns "job".
func (*SingleThreadedJob) Name() string { return "job" }

// Copy schedules the loop and blocks until it completes.
func (j *SingleThreadedJob) Copy(src, dst []Element, length int) error {
	if err := checkBounds(src, dst, length); err != nil {
		return err
	}
	return j.worker.Schedule(func() {
		for i := 0; i < length; i++ {
			dst[i] = src[i]
		}
	}).Complete()
}

// ParallelShardedJob splits [0, length) into shards of BatchSize elements
// and copies them on a worker pool behind one join barrier.
//
// Each shard writes only its own index range, so the result is identical
// for any batch size, worker count or completion order. Unchecked shards
// copy with memmove instead of an indexed loop.
type ParallelShardedJob struct {
	pool      *jobs.Pool
	batchSize int
	unchecked bool
}

// NewParallelShardedJob creates a ParallelShardedJob on p.
// A batch size below 1 is treated as 1.
func NewParallelShardedJob(p *jobs.Pool, batchSize int, unchecked bool) *ParallelShardedJob {
	if batchSize < 1 {
		batchSize = 1
	}
	return &ParallelShardedJob{pool: p, batchSize: batchSize, unchecked: unchecked}
}

// Name returns "parallel/<batch>" or "parallel-unchecked/<batch>".
func (j *ParallelShardedJob) Name() string {
	if j.unchecked {
		return fmt.Sprintf("parallel-unchecked/%d", j.batchSize)
	}
	return fmt.Sprintf("parallel/%d", j.batchSize)
}

// BatchSize returns the shard size.
func (j *ParallelShardedJob) BatchSize() int {
	return j.batchSize
}

// Copy dispatches every shard, then waits for all of them.
func (j *ParallelShardedJob) Copy(src, dst []Element, length int) error {
	if err := checkBounds(src, dst, length); err != nil {
		return err
	}
	shard := func(start, end int) {
		for i := start; i < end; i++ {
			dst[i] = src[i]
		}
	}
	if j.unchecked {
		shard = func(start, end int) {
			rawCopy(src, dst, start, end)
		}
	}
	return j.pool.ScheduleParallel(length, j.batchSize, shard).Complete()
}

// ParallelGoroutines copies shards on freshly spawned goroutines, at most
// GOMAXPROCS at a time. It is the unpooled counterpart of
// ParallelShardedJob.
type ParallelGoroutines struct {
	batchSize int
}

// NewParallelGoroutines creates a ParallelGoroutines backend.
func NewParallelGoroutines(batchSize int) *ParallelGoroutines {
	if batchSize < 1 {
		batchSize = 1
	}
	return &ParallelGoroutines{batchSize: batchSize}
}

// Name returns "goroutines/<batch>".
func (g *ParallelGoroutines) Name() string {
	return fmt.Sprintf("goroutines/%d", g.batchSize)
}

// Copy spawns one goroutine per shard and waits for all of them.
func (g *ParallelGoroutines) Copy(src, dst []Element, length int) error {
	if err := checkBounds(src, dst, length); err != nil {
		return err
	}
	var eg errgroup.Group
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for start := 0; start < length; start += g.batchSize {
		end := min(start+g.batchSize, length)
		eg.Go(func() error {
			copy(dst[start:end], src[start:end])
			return nil
		})
	}
	return eg.Wait()
}
