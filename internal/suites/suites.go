// Package suites declares the built-in benchmark suites:
//
//   - array: managed slice copies (loop, bulk, collect, reflect)
//   - native: raw and job-dispatched copies (unsafe, job, parallel)
//   - lifecycle: host object create/destroy/instantiate
//   - baselines: harness floor (empty body, one log call)
package suites

import (
	"errors"
	"fmt"
	"slices"

	"github.com/randomizedcoder/copybench/internal/backend"
	"github.com/randomizedcoder/copybench/internal/config"
	"github.com/randomizedcoder/copybench/internal/host"
	"github.com/randomizedcoder/copybench/internal/jobs"
	"github.com/randomizedcoder/copybench/internal/runner"
	"github.com/randomizedcoder/copybench/internal/scenario"
	"github.com/randomizedcoder/copybench/internal/schedule"
)

// ErrUnknownSuite is returned for a suite name that is not built in.
var ErrUnknownSuite = errors.New("suites: unknown suite")

// Suite names.
const (
	Array     = "array"
	Native    = "native"
	Lifecycle = "lifecycle"
	Baselines = "baselines"
)

// LifecycleKind is the object kind the lifecycle scenarios create.
const LifecycleKind host.Kind = "gameobject"

// Names lists the built-in suites in run order.
func Names() []string {
	return []string{Array, Native, Lifecycle, Baselines}
}

// Deps owns the long-lived infrastructure the suites run on.
type Deps struct {
	Worker *jobs.Worker
	Pool   *jobs.Pool
	Host   host.Host
}

// NewDeps starts the job worker and pool described by cfg.
func NewDeps(cfg config.WorkersConfig) (*Deps, error) {
	w, err := jobs.NewWorker(cfg.QueueKind(), cfg.QueueSize)
	if err != nil {
		return nil, fmt.Errorf("job worker: %w", err)
	}
	p, err := jobs.NewPool(cfg.Count, cfg.QueueKind(), cfg.QueueSize)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("job pool: %w", err), w.Close())
	}
	return &Deps{Worker: w, Pool: p, Host: host.NewRegistry(0)}, nil
}

// Backends exposes the workers to backend.Parse.
func (d *Deps) Backends() backend.Deps {
	return backend.Deps{Worker: d.Worker, Pool: d.Pool}
}

// Close stops the workers after draining queued jobs.
func (d *Deps) Close() error {
	return errors.Join(d.Worker.Close(), d.Pool.Close())
}

// Builtin builds the suites selected by cfg.Run.Suites, every suite when
// the selection is empty.
func Builtin(cfg *config.Config, deps *Deps) ([]runner.Suite, error) {
	selected := cfg.Run.Suites
	if len(selected) == 0 {
		selected = Names()
	}
	for _, name := range selected {
		if !slices.Contains(Names(), name) {
			return nil, fmt.Errorf("%w: %q (have %v)", ErrUnknownSuite, name, Names())
		}
	}

	policy, err := cfg.Policy.Build()
	if err != nil {
		return nil, err
	}

	var out []runner.Suite
	for _, name := range Names() {
		if !slices.Contains(selected, name) {
			continue
		}
		var s runner.Suite
		switch name {
		case Array:
			s, err = copySuite(Array, cfg.Suites.ArrayBackends, cfg.Suites.Length, policy, deps)
		case Native:
			s, err = copySuite(Native, cfg.Suites.NativeBackends, cfg.Suites.Length, policy, deps)
		case Lifecycle:
			s = lifecycleSuite(deps.Host, cfg.Suites.LifecycleIterations, policy)
		case Baselines:
			s = baselineSuite(policy)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func copySuite(name string, backends []string, length int, policy schedule.Policy, deps *Deps) (runner.Suite, error) {
	bs, err := backend.ParseAll(backends, deps.Backends())
	if err != nil {
		return runner.Suite{}, fmt.Errorf("suite %s: %w", name, err)
	}
	return runner.Suite{
		Name: name,
		Entries: []runner.Entry{{
			Scenario: scenario.NewCopy(name + "/copy"),
			Backends: bs,
			Length:   length,
			Policy:   policy,
		}},
	}, nil
}

// lifecycleSuite runs every host scenario at a fixed iteration count so
// create and destroy are compared at identical N.
func lifecycleSuite(h host.Host, iterations int, policy schedule.Policy) runner.Suite {
	fixed := schedule.Fixed{
		Warmup:       policy.WarmupCount(),
		Measurements: min(policy.MeasurementCap(), 10),
		Iterations:   iterations,
	}
	none := []backend.Backend{backend.None{}}
	return runner.Suite{
		Name: Lifecycle,
		Entries: []runner.Entry{
			{Scenario: host.NewScenario(h, LifecycleKind), Backends: none, Policy: fixed},
			{Scenario: host.DestroyScenario(h, LifecycleKind), Backends: none, Length: iterations, Policy: fixed},
			{Scenario: host.NewDestroyScenario(h, LifecycleKind), Backends: none, Policy: fixed},
			{Scenario: host.InstantiateScenario(h, LifecycleKind), Backends: none, Policy: fixed},
		},
	}
}

func baselineSuite(policy schedule.Policy) runner.Suite {
	none := []backend.Backend{backend.None{}}
	return runner.Suite{
		Name: Baselines,
		Entries: []runner.Entry{
			{Scenario: scenario.Empty(), Backends: none, Policy: policy},
			{Scenario: scenario.Log(), Backends: none, Policy: policy},
		},
	}
}
