// Package jobs runs deferred units of work on long-lived worker goroutines.
//
// A Worker drains one queue.Queue on one goroutine; a Pool spreads work
// over several Workers. Scheduling returns a Handle and Handle.Complete is
// the join barrier: it returns only after every task behind the handle has
// finished, so callers never observe partial completion.
package jobs

import (
	"errors"
	"fmt"
	"sync"
)

// ErrClosed is returned when work is scheduled on a closed Worker or Pool.
var ErrClosed = errors.New("jobs: scheduler closed")

// PanicError reports a task that panicked.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("jobs: task panicked: %v", e.Value)
}

// Unwrap exposes the panic value when it is an error, such as a
// runtime.Error from an out-of-range index.
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// Handle tracks a group of scheduled tasks.
type Handle struct {
	wg   sync.WaitGroup
	once sync.Once
	err  error
}

// Complete blocks until every task behind the handle has finished.
// Returns the first task failure, if any.
func (h *Handle) Complete() error {
	h.wg.Wait()
	return h.err
}

// fail records the first failure. Later failures are dropped.
func (h *Handle) fail(err error) {
	h.once.Do(func() { h.err = err })
}

func completed(err error) *Handle {
	h := &Handle{}
	if err != nil {
		h.fail(err)
	}
	return h
}

// task is one shard of work, [start, end).
type task struct {
	fn         func(start, end int)
	start, end int
	h          *Handle
}

var taskPool = sync.Pool{
	New: func() any { return new(task) },
}

func newTask(fn func(start, end int), start, end int, h *Handle) *task {
	t := taskPool.Get().(*task)
	t.fn, t.start, t.end, t.h = fn, start, end, h
	return t
}

// run executes the task and releases it. The handle is signalled last so
// a waiter never sees a task that is still running.
func (t *task) run() {
	h := t.h
	defer h.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			h.fail(&PanicError{Value: r})
		}
		*t = task{}
		taskPool.Put(t)
	}()
	t.fn(t.start, t.end)
}
