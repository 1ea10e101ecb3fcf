package queue_test

import (
	"testing"

	"github.com/randomizedcoder/copybench/internal/queue"
)

// task mirrors the pointer payload job workers actually carry.
type task struct {
	start, end int
}

// Sink variables to prevent compiler from eliminating benchmark loops
var sinkTask *task
var sinkBool bool

func benchPushPop(b *testing.B, q queue.Queue[*task]) {
	t := &task{end: 4096}
	b.ReportAllocs()
	b.ResetTimer()

	var val *task
	var ok bool
	for i := 0; i < b.N; i++ {
		q.Push(t)
		val, ok = q.Pop()
	}
	sinkTask = val
	sinkBool = ok
}

// Direct type benchmarks (true performance floor)

func BenchmarkQueue_Channel_PushPop_Direct(b *testing.B) {
	q := queue.NewChannel[*task](1024)
	t := &task{end: 4096}
	b.ReportAllocs()
	b.ResetTimer()

	var val *task
	var ok bool
	for i := 0; i < b.N; i++ {
		q.Push(t)
		val, ok = q.Pop()
	}
	sinkTask = val
	sinkBool = ok
}

func BenchmarkQueue_RingBuffer_PushPop_Direct(b *testing.B) {
	q := queue.NewRingBuffer[*task](1024)
	t := &task{end: 4096}
	b.ReportAllocs()
	b.ResetTimer()

	var val *task
	var ok bool
	for i := 0; i < b.N; i++ {
		q.Push(t)
		val, ok = q.Pop()
	}
	sinkTask = val
	sinkBool = ok
}

// Interface benchmarks (how job workers see the queue)

func BenchmarkQueue_Channel_PushPop_Interface(b *testing.B) {
	benchPushPop(b, queue.NewChannel[*task](1024))
}

func BenchmarkQueue_RingBuffer_PushPop_Interface(b *testing.B) {
	benchPushPop(b, queue.NewRingBuffer[*task](1024))
}

func BenchmarkQueue_Sharded_PushPop_Interface(b *testing.B) {
	q, err := queue.NewSharded[*task](1024, queue.DefaultShards)
	if err != nil {
		b.Fatal(err)
	}
	benchPushPop(b, q)
}

// Burst benchmarks: a parallel copy enqueues one task per shard, then the
// worker drains them.

func benchBurst(b *testing.B, q queue.Queue[*task], burst int) {
	t := &task{end: 16}
	b.ReportAllocs()
	b.ResetTimer()

	var val *task
	for i := 0; i < b.N; i++ {
		for j := 0; j < burst; j++ {
			q.Push(t)
		}
		for j := 0; j < burst; j++ {
			val, _ = q.Pop()
		}
	}
	sinkTask = val
}

func BenchmarkQueue_Channel_Burst64(b *testing.B) {
	benchBurst(b, queue.NewChannel[*task](1024), 64)
}

func BenchmarkQueue_RingBuffer_Burst64(b *testing.B) {
	benchBurst(b, queue.NewRingBuffer[*task](1024), 64)
}

func BenchmarkQueue_Sharded_Burst64(b *testing.B) {
	q, err := queue.NewSharded[*task](1024, queue.DefaultShards)
	if err != nil {
		b.Fatal(err)
	}
	benchBurst(b, q, 64)
}
