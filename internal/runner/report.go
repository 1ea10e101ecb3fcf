package runner

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/randomizedcoder/copybench/internal/metrics"
	"github.com/randomizedcoder/copybench/internal/samples"
)

// ErrSkipped marks pairs that were not run because an earlier pair hit a
// fatal error.
var ErrSkipped = errors.New("runner: skipped after fatal error")

// Outcome is the result of one pair: either a Summary or an Err.
type Outcome struct {
	Pair
	Suite  string
	Length int
	Policy string

	Summary *samples.Summary
	Err     error

	// Warning is set for a best-effort Summary.
	Warning error

	Measurements int
	Warmups      int
	RSD          float64

	// Heap allocation deltas over the whole pair, untimed phases
	// included. Zero unless allocation tracking is enabled.
	AllocBytes uint64
	Mallocs    uint64

	// Elapsed is the wall time spent on the pair.
	Elapsed time.Duration
}

// OK reports whether the pair produced a Summary.
func (o *Outcome) OK() bool {
	return o.Err == nil && o.Summary != nil
}

// Report holds the outcome of every requested pair in declaration order.
type Report struct {
	RunID    uuid.UUID
	Started  time.Time
	Finished time.Time
	Outcomes []Outcome

	index map[Pair]int
}

func newReport() *Report {
	return &Report{
		RunID:   uuid.New(),
		Started: time.Now(),
		index:   make(map[Pair]int),
	}
}

func (r *Report) add(o Outcome) {
	r.index[o.Pair] = len(r.Outcomes)
	r.Outcomes = append(r.Outcomes, o)
}

// Lookup returns the outcome of p.
func (r *Report) Lookup(p Pair) (Outcome, bool) {
	i, ok := r.index[p]
	if !ok {
		return Outcome{}, false
	}
	return r.Outcomes[i], true
}

// Summaries maps every successful pair to its Summary.
func (r *Report) Summaries() map[Pair]samples.Summary {
	out := make(map[Pair]samples.Summary, len(r.Outcomes))
	for _, o := range r.Outcomes {
		if o.OK() {
			out[o.Pair] = *o.Summary
		}
	}
	return out
}

// Failed returns the outcomes that carry an error.
func (r *Report) Failed() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			out = append(out, o)
		}
	}
	return out
}

// PairError is the failure of a single pair.
type PairError struct {
	Pair
	Err error
}

func (e *PairError) Error() string {
	return fmt.Sprintf("%s: %v", e.Pair, e.Err)
}

func (e *PairError) Unwrap() error { return e.Err }

// RunError lists every failed pair of a run. The Report returned next to
// it still holds the successful pairs.
type RunError struct {
	Failures []*PairError
}

func (e *RunError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d pair(s) failed", len(e.Failures))
	for _, f := range e.Failures {
		b.WriteString("\n  ")
		b.WriteString(f.Error())
	}
	return b.String()
}

// Unwrap exposes each pair failure to errors.Is and errors.As.
func (e *RunError) Unwrap() []error {
	out := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		out[i] = f
	}
	return out
}

// Status classifies the outcome with the metrics status labels.
func (o *Outcome) Status() string {
	switch {
	case errors.Is(o.Err, ErrSkipped):
		return metrics.StatusSkipped
	case o.Err != nil:
		return metrics.StatusFailed
	case o.Warning != nil:
		return metrics.StatusWarning
	default:
		return metrics.StatusOK
	}
}
