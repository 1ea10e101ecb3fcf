package jobs

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/randomizedcoder/copybench/internal/queue"
)

// Pool is a fixed set of Workers.
//
// Scheduling methods are meant to be called from one goroutine (the
// runner); the pool's workers run concurrently with each other.
type Pool struct {
	workers []*Worker
	next    int
}

// NewPool starts n workers, each with its own queue. n < 1 means
// runtime.GOMAXPROCS(0).
func NewPool(n int, kind queue.Kind, queueSize int) (*Pool, error) {
	if n < 1 {
		n = runtime.GOMAXPROCS(0)
	}
	p := &Pool{workers: make([]*Worker, 0, n)}
	for i := 0; i < n; i++ {
		w, err := NewWorker(kind, queueSize)
		if err != nil {
			closeErr := p.Close()
			return nil, errors.Join(fmt.Errorf("jobs: start worker %d: %w", i, err), closeErr)
		}
		p.workers = append(p.workers, w)
	}
	return p, nil
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Schedule runs fn on the next worker, round-robin.
func (p *Pool) Schedule(fn func()) *Handle {
	if len(p.workers) == 0 {
		return completed(ErrClosed)
	}
	w := p.workers[p.next%len(p.workers)]
	p.next++
	return w.Schedule(fn)
}

// ScheduleParallel splits [0, length) into contiguous shards of batch
// elements and runs fn(start, end) for each shard. Shard i goes to worker
// i mod Size, so shards never overlap and workers write disjoint ranges.
//
// A non-positive length yields an already-completed handle.
func (p *Pool) ScheduleParallel(length, batch int, fn func(start, end int)) *Handle {
	if length <= 0 {
		return completed(nil)
	}
	if len(p.workers) == 0 {
		return completed(ErrClosed)
	}
	if batch < 1 {
		batch = 1
	}

	shards := (length + batch - 1) / batch
	h := &Handle{}
	h.wg.Add(shards)
	for s := 0; s < shards; s++ {
		start := s * batch
		end := min(start+batch, length)
		if err := p.workers[s%len(p.workers)].submit(newTask(fn, start, end, h)); err != nil {
			h.fail(err)
			h.wg.Done()
		}
	}
	return h
}

// Close closes every worker after its queued tasks have run.
func (p *Pool) Close() error {
	var errs []error
	for _, w := range p.workers {
		errs = append(errs, w.Close())
	}
	return errors.Join(errs...)
}
