package queue

import (
	"sync/atomic"

	ring "github.com/randomizedcoder/go-lock-free-ring"
)

const (
	// DefaultShards is the shard count New uses for KindSharded.
	DefaultShards = 4

	// MinShardCapacity is the smallest per-shard capacity NewSharded
	// builds. A one-slot go-lock-free-ring shard reports its slot free
	// again straight after a write, so a second Push would overwrite an
	// item that was never read.
	MinShardCapacity = 2
)

// ShardedQueue adapts go-lock-free-ring's sharded MPSC ring to Queue.
//
// Producers are spread over the shards round-robin, so concurrent
// schedulers rarely contend on the same shard. Exactly one goroutine
// (the worker) may call Pop.
type ShardedQueue[T any] struct {
	r    *ring.ShardedRing
	next atomic.Uint64
	cap  int
}

// NewSharded creates a ShardedQueue holding at least size items over
// shards shards. shards must be a power of two. Each shard gets at least
// MinShardCapacity slots.
func NewSharded[T any](size, shards int) (*ShardedQueue[T], error) {
	if shards < 1 {
		shards = 1
	}
	perShard := max((size+shards-1)/shards, MinShardCapacity)
	r, err := ring.NewShardedRing(uint64(perShard*shards), uint64(shards))
	if err != nil {
		return nil, err
	}
	return &ShardedQueue[T]{r: r, cap: perShard * shards}, nil
}

// Push writes v to the next shard.
// Returns false if that shard is full.
func (q *ShardedQueue[T]) Push(v T) bool {
	pid := q.next.Add(1) - 1
	return q.r.Write(pid, v)
}

// Pop reads the next available item from any shard.
func (q *ShardedQueue[T]) Pop() (T, bool) {
	v, ok := q.r.TryRead()
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// Cap returns the total slot count over all shards.
func (q *ShardedQueue[T]) Cap() int {
	return q.cap
}
