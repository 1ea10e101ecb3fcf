// Package runner drives benchmark suites pair by pair and collects a
// Report.
//
// A Suite is an ordered list of entries, each naming a scenario, the
// backends to compare it on, an element count and a scheduling policy.
// Pairs run strictly one after another, in declaration order.
package runner

import (
	"errors"
	"fmt"

	"github.com/randomizedcoder/copybench/internal/backend"
	"github.com/randomizedcoder/copybench/internal/scenario"
	"github.com/randomizedcoder/copybench/internal/schedule"
)

// ErrInvalidSuite is returned by Run for a suite that cannot be run.
var ErrInvalidSuite = errors.New("runner: invalid suite")

// Entry is one scenario measured on several backends.
type Entry struct {
	Scenario scenario.Scenario
	Backends []backend.Backend
	Length   int
	Policy   schedule.Policy
}

// Suite is a named, ordered list of entries.
type Suite struct {
	Name    string
	Entries []Entry
}

// Pair identifies one (scenario, backend) combination.
type Pair struct {
	Scenario string `json:"scenario" yaml:"scenario"`
	Backend  string `json:"backend" yaml:"backend"`
}

func (p Pair) String() string {
	return p.Scenario + "[" + p.Backend + "]"
}

// Pairs lists the pairs of s in run order.
func (s Suite) Pairs() []Pair {
	var out []Pair
	for _, e := range s.Entries {
		for _, b := range e.Backends {
			out = append(out, Pair{Scenario: e.Scenario.Name(), Backend: b.Name()})
		}
	}
	return out
}

func validate(suites []Suite) error {
	seen := make(map[Pair]string)
	for _, s := range suites {
		for i, e := range s.Entries {
			where := fmt.Sprintf("suite %q entry %d", s.Name, i)
			switch {
			case e.Scenario == nil:
				return fmt.Errorf("%w: %s: no scenario", ErrInvalidSuite, where)
			case e.Policy == nil:
				return fmt.Errorf("%w: %s: no policy", ErrInvalidSuite, where)
			case len(e.Backends) == 0:
				return fmt.Errorf("%w: %s: no backends", ErrInvalidSuite, where)
			case e.Length < 0:
				return fmt.Errorf("%w: %s: negative length %d", ErrInvalidSuite, where, e.Length)
			}
			if err := e.Policy.Validate(); err != nil {
				return fmt.Errorf("%w: %s: %w", ErrInvalidSuite, where, err)
			}

			for _, b := range e.Backends {
				p := Pair{Scenario: e.Scenario.Name(), Backend: b.Name()}
				if prev, dup := seen[p]; dup {
					return fmt.Errorf("%w: %s declared in suite %q and %q", ErrInvalidSuite, p, prev, s.Name)
				}
				seen[p] = s.Name
			}
		}
	}
	return nil
}
