// Command copyloop times copy backends in a plain loop, without warmup,
// per-measurement setup or adaptive sampling.
//
// Useful as a sanity check against the harness: large disagreements
// point at setup cost leaking into the harness timings, or at noise.
//
// Usage:
//
//	go run ./cmd/copyloop -n 10000 -length 65535 -backends loop,bulk,unsafe,parallel/4096
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/randomizedcoder/copybench/internal/backend"
	"github.com/randomizedcoder/copybench/internal/cancel"
	"github.com/randomizedcoder/copybench/internal/clock"
	"github.com/randomizedcoder/copybench/internal/jobs"
	"github.com/randomizedcoder/copybench/internal/queue"
)

type options struct {
	iterations int
	length     int
	names      string
	budget     time.Duration
	progress   time.Duration
}

func main() {
	var o options
	flag.IntVar(&o.iterations, "n", 10_000, "copies per backend")
	flag.IntVar(&o.length, "length", 65535, "elements per copy")
	flag.StringVar(&o.names, "backends", "loop,bulk,unsafe,job,parallel/16,parallel/4096", "comma-separated backends")
	flag.DurationVar(&o.budget, "budget", 10*time.Second, "per-backend time limit")
	flag.DurationVar(&o.progress, "progress", 2*time.Second, "progress line interval on stderr (0 = off)")
	flag.Parse()

	if err := run(o); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(o options) (err error) {
	w, err := jobs.NewWorker(queue.KindSharded, 1024)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, w.Close()) }()
	p, err := jobs.NewPool(0, queue.KindSharded, 1024)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, p.Close()) }()

	backends, err := backend.ParseAll(strings.Split(o.names, ","), backend.Deps{Worker: w, Pool: p})
	if err != nil {
		return err
	}

	src := make([]backend.Element, o.length)
	for i := range src {
		src[i] = backend.Element(i)
	}
	dst := make([]backend.Element, o.length)
	bytesPerCopy := float64(o.length * backend.ElementSize)

	fmt.Printf("Benchmarking copy backends (%d copies of %d elements)\n", o.iterations, o.length)
	fmt.Println("─────────────────────────────────────────────────────────")

	clk := clock.NewMonotonic()
	var baseline float64
	for _, b := range backends {
		// Polled every 64 copies so the checks stay off the profile.
		stop := cancel.NewBudget(nil, clk, o.budget)
		ticker := clock.NewAtomicTicker(clk, o.progress)
		done := 0

		start := time.Now()
		for done < o.iterations {
			if done%64 == 0 {
				if stop.Done() {
					break
				}
				if o.progress > 0 && ticker.Tick() {
					fmt.Fprintf(os.Stderr, "  %s: %d/%d copies, %v of budget left\n",
						b.Name(), done, o.iterations, stop.Remaining().Round(time.Millisecond))
				}
			}
			if err := b.Copy(src, dst, o.length); err != nil {
				return fmt.Errorf("%s: %w", b.Name(), err)
			}
			done++
		}
		elapsed := time.Since(start)

		if err := backend.Verify(src, dst, o.length); err != nil {
			return fmt.Errorf("%s: %w", b.Name(), err)
		}
		clear(dst)

		perOp := float64(elapsed.Nanoseconds()) / float64(max(done, 1))
		if baseline == 0 {
			baseline = perOp
		}
		note := ""
		if done < o.iterations {
			note = fmt.Sprintf("  (budget hit after %d)", done)
		}
		fmt.Printf("  %-24s %12.0f ns/op  %7.2f GB/s  %6.2fx%s\n",
			b.Name(), perOp, bytesPerCopy/perOp, baseline/perOp, note)
	}
	return nil
}
