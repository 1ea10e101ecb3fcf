package jobs

import (
	"runtime"
	"sync"

	"github.com/randomizedcoder/copybench/internal/queue"
)

// Worker executes tasks on a single goroutine, in queue order.
//
// With queue.KindRing the Worker inherits the SPSC contract: schedule onto
// it from one goroutine at a time.
type Worker struct {
	q    queue.Queue[*task]
	wake chan struct{}
	stop chan struct{}
	done chan struct{}

	// mu orders producers against Close: every task pushed under the read
	// lock is in the queue before stop is closed, and is drained.
	mu     sync.RWMutex
	closed bool
}

// NewWorker starts a Worker fed by a queue of the given kind and size.
func NewWorker(kind queue.Kind, size int) (*Worker, error) {
	q, err := queue.New[*task](kind, size)
	if err != nil {
		return nil, err
	}
	w := &Worker{
		q:    q,
		wake: make(chan struct{}, 1),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// QueueCap is how many tasks can wait before Schedule has to back off.
func (w *Worker) QueueCap() int {
	return w.q.Cap()
}

// Schedule runs fn on the worker goroutine.
func (w *Worker) Schedule(fn func()) *Handle {
	h := &Handle{}
	h.wg.Add(1)
	if err := w.submit(newTask(func(int, int) { fn() }, 0, 0, h)); err != nil {
		h.fail(err)
		h.wg.Done()
	}
	return h
}

func (w *Worker) submit(t *task) error {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.closed {
		*t = task{}
		taskPool.Put(t)
		return ErrClosed
	}
	for !w.q.Push(t) {
		// Full: make sure the worker is awake, then back off.
		w.signal()
		runtime.Gosched()
	}
	w.signal()
	return nil
}

func (w *Worker) signal() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *Worker) loop() {
	defer close(w.done)
	for {
		if t, ok := w.q.Pop(); ok {
			t.run()
			continue
		}
		select {
		case <-w.wake:
		case <-w.stop:
			for {
				t, ok := w.q.Pop()
				if !ok {
					return
				}
				t.run()
			}
		}
	}
}

// Close runs every queued task, then stops the worker goroutine.
// Safe to call multiple times.
func (w *Worker) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		<-w.done
		return nil
	}
	w.closed = true
	close(w.stop)
	w.mu.Unlock()

	<-w.done
	return nil
}
