// Package queue provides the task queues that feed job workers.
//
// Every worker drains exactly one queue. Three implementations of the
// Queue interface are available, selected by Kind:
//   - ChannelQueue: buffered channel, safe for any number of producers
//   - RingBuffer: lock-free SPSC ring with misuse guards
//   - ShardedQueue: go-lock-free-ring sharded MPSC ring
//
// # RingBuffer Safety (IMPORTANT)
//
// RingBuffer is a Single-Producer Single-Consumer (SPSC) queue. A worker
// backed by it may only be scheduled onto from one goroutine at a time.
// The runner schedules from a single goroutine, which satisfies this; the
// runtime guards panic on misuse.
package queue

import (
	"errors"
	"fmt"
)

// ErrUnknownKind is returned by New for an unrecognized Kind.
var ErrUnknownKind = errors.New("queue: unknown kind")

// Queue is a non-blocking FIFO-ish queue.
//
// Push returns false if the queue is full, Pop returns false if empty.
// Only ChannelQueue and RingBuffer preserve strict FIFO order; the sharded
// ring orders items per shard.
type Queue[T any] interface {
	// Push adds an item to the queue.
	// Returns false if the queue is full.
	Push(T) bool

	// Pop removes and returns an item from the queue.
	// Returns false if the queue is empty.
	Pop() (T, bool)

	// Cap is the number of items the queue accepts before Push fails.
	Cap() int
}

// Kind names a Queue implementation.
type Kind string

const (
	KindChannel Kind = "channel"
	KindRing    Kind = "ring"
	KindSharded Kind = "sharded"
)

// Kinds lists every supported Kind.
func Kinds() []Kind {
	return []Kind{KindChannel, KindRing, KindSharded}
}

// New creates a Queue of the given kind holding at least size items.
func New[T any](kind Kind, size int) (Queue[T], error) {
	if size < 1 {
		size = 1
	}
	switch kind {
	case KindChannel:
		return NewChannel[T](size), nil
	case KindRing:
		return NewRingBuffer[T](size), nil
	case KindSharded:
		return NewSharded[T](size, DefaultShards)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}
