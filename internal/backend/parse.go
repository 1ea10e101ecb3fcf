package backend

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/randomizedcoder/copybench/internal/jobs"
)

var (
	// ErrUnknownBackend is returned by Parse for an unrecognized name.
	ErrUnknownBackend = errors.New("backend: unknown backend")

	// ErrNoWorkers is returned by Parse when a job backend is requested
	// without the worker infrastructure it needs.
	ErrNoWorkers = errors.New("backend: job backend requires workers")
)

// Deps holds the worker infrastructure job backends schedule onto.
type Deps struct {
	Worker *jobs.Worker
	Pool   *jobs.Pool
}

// Parse resolves a backend name:
//
//	loop, bulk, unsafe, collect, reflect, none, job,
//	parallel/<batch>, parallel-unchecked/<batch>, goroutines/<batch>
func Parse(name string, deps Deps) (Backend, error) {
	base, arg, hasArg := strings.Cut(name, "/")

	batch := 0
	if hasArg {
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%w: %q: batch size must be a positive integer", ErrUnknownBackend, name)
		}
		batch = n
	}

	switch {
	case base == "loop" && !hasArg:
		return SequentialLoop{}, nil
	case base == "bulk" && !hasArg:
		return BulkCopy{}, nil
	case base == "unsafe" && !hasArg:
		return UnsafeRawCopy{}, nil
	case base == "collect" && !hasArg:
		return CollectCopy{}, nil
	case base == "reflect" && !hasArg:
		return ReflectCopy{}, nil
	case base == "none" && !hasArg:
		return None{}, nil
	case base == "job" && !hasArg:
		if deps.Worker == nil {
			return nil, fmt.Errorf("%w: %q", ErrNoWorkers, name)
		}
		return NewSingleThreadedJob(deps.Worker), nil
	case (base == "parallel" || base == "parallel-unchecked") && hasArg:
		if deps.Pool == nil {
			return nil, fmt.Errorf("%w: %q", ErrNoWorkers, name)
		}
		return NewParallelShardedJob(deps.Pool, batch, base == "parallel-unchecked"), nil
	case base == "goroutines" && hasArg:
		return NewParallelGoroutines(batch), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
}

// ParseAll resolves every name, stopping at the first error.
func ParseAll(names []string, deps Deps) ([]Backend, error) {
	out := make([]Backend, 0, len(names))
	for _, name := range names {
		b, err := Parse(name, deps)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}
