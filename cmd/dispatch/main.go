// Command dispatch measures the cost of handing work to a job worker
// through each queue implementation, without the benchmark harness.
//
// A job backend pays this round trip on top of the copy itself.
//
// Usage:
//
//	go run ./cmd/dispatch -n 1000000 -size 1024 -batch 4096
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/randomizedcoder/copybench/internal/jobs"
	"github.com/randomizedcoder/copybench/internal/queue"
)

func main() {
	iterations := flag.Int("n", 1_000_000, "number of jobs per queue")
	size := flag.Int("size", 1024, "queue size")
	length := flag.Int("length", 65535, "elements per parallel job")
	batch := flag.Int("batch", 4096, "shard size for the parallel round trip")
	workers := flag.Int("workers", 0, "pool workers (0 = GOMAXPROCS)")
	flag.Parse()

	fmt.Printf("Benchmarking job dispatch (%d jobs, size=%d)\n", *iterations, *size)
	fmt.Println("─────────────────────────────────────────────────")

	fmt.Printf("\nSingle worker, schedule + complete per job:\n")
	var baseline float64
	for _, kind := range queue.Kinds() {
		perOp, capacity, err := roundTrip(kind, *size, *iterations)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", kind, err)
			os.Exit(1)
		}
		if baseline == 0 {
			baseline = perOp
		}
		fmt.Printf("  %-8s  cap=%-6d  %8.2f ns/op  (%.2fx vs %s)\n", kind, capacity, perOp, baseline/perOp, queue.Kinds()[0])
	}

	fmt.Printf("\nPool, %d elements in shards of %d, one join per call:\n", *length, *batch)
	for _, kind := range queue.Kinds() {
		perOp, shards, err := parallelRoundTrip(kind, *workers, *size, *length, *batch, *iterations/100)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", kind, err)
			os.Exit(1)
		}
		fmt.Printf("  %-8s  %10.2f ns/call  (%d shards, %.2f ns/shard)\n", kind, perOp, shards, perOp/float64(shards))
	}
}

// roundTrip also returns the queue capacity, which New may round up.
func roundTrip(kind queue.Kind, size, n int) (float64, int, error) {
	w, err := jobs.NewWorker(kind, size)
	if err != nil {
		return 0, 0, err
	}
	defer w.Close()

	noop := func() {}
	start := time.Now()
	for i := 0; i < n; i++ {
		if err := w.Schedule(noop).Complete(); err != nil {
			return 0, 0, err
		}
	}
	return float64(time.Since(start).Nanoseconds()) / float64(n), w.QueueCap(), nil
}

func parallelRoundTrip(kind queue.Kind, workers, size, length, batch, n int) (float64, int, error) {
	p, err := jobs.NewPool(workers, kind, size)
	if err != nil {
		return 0, 0, err
	}
	defer p.Close()

	n = max(n, 1)
	shards := (length + batch - 1) / batch
	fn := func(int, int) {}
	start := time.Now()
	for i := 0; i < n; i++ {
		if err := p.ScheduleParallel(length, batch, fn).Complete(); err != nil {
			return 0, 0, err
		}
	}
	return float64(time.Since(start).Nanoseconds()) / float64(n), shards, nil
}
