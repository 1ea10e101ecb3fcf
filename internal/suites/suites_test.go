package suites_test

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/randomizedcoder/copybench/internal/backend"
	"github.com/randomizedcoder/copybench/internal/clock"
	"github.com/randomizedcoder/copybench/internal/config"
	"github.com/randomizedcoder/copybench/internal/runner"
	"github.com/randomizedcoder/copybench/internal/suites"
)

func load(t *testing.T, env map[string]string) (*config.Config, *suites.Deps) {
	t.Helper()
	for k, v := range env {
		t.Setenv(k, v)
	}
	cfg, err := config.Load(viper.New(), "")
	require.NoError(t, err)

	deps, err := suites.NewDeps(cfg.Workers)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, deps.Close()) })
	return cfg, deps
}

func TestBuiltin_Defaults(t *testing.T) {
	cfg, deps := load(t, nil)

	ss, err := suites.Builtin(cfg, deps)
	require.NoError(t, err)
	require.Len(t, ss, 4)

	names := make([]string, len(ss))
	for i, s := range ss {
		names[i] = s.Name
	}
	assert.Equal(t, suites.Names(), names)

	native := ss[1].Pairs()
	assert.Contains(t, native, runner.Pair{Scenario: "native/copy", Backend: "parallel/16"})
	assert.Contains(t, native, runner.Pair{Scenario: "native/copy", Backend: "parallel/4096"})
	assert.Contains(t, native, runner.Pair{Scenario: "native/copy", Backend: "unsafe"})
	assert.Contains(t, native, runner.Pair{Scenario: "native/copy", Backend: "job"})
	assert.Equal(t, 65535, ss[1].Entries[0].Length)

	assert.Len(t, ss[2].Pairs(), 4)
	assert.Len(t, ss[3].Pairs(), 2)
}

func TestBuiltin_Selection(t *testing.T) {
	cfg, deps := load(t, map[string]string{"COPYBENCH_RUN_SUITES": "baselines,array"})

	ss, err := suites.Builtin(cfg, deps)
	require.NoError(t, err)
	require.Len(t, ss, 2)
	assert.Equal(t, suites.Array, ss[0].Name, "declaration order, not selection order")
	assert.Equal(t, suites.Baselines, ss[1].Name)
}

func TestBuiltin_Errors(t *testing.T) {
	t.Run("unknown suite", func(t *testing.T) {
		cfg, deps := load(t, map[string]string{"COPYBENCH_RUN_SUITES": "gpu"})
		_, err := suites.Builtin(cfg, deps)
		assert.ErrorIs(t, err, suites.ErrUnknownSuite)
	})

	t.Run("unknown backend", func(t *testing.T) {
		cfg, deps := load(t, map[string]string{"COPYBENCH_SUITES_NATIVE_BACKENDS": "loop,memcpy"})
		_, err := suites.Builtin(cfg, deps)
		assert.ErrorIs(t, err, backend.ErrUnknownBackend)
	})
}

func TestBuiltin_RunsClean(t *testing.T) {
	cfg, deps := load(t, map[string]string{
		"COPYBENCH_POLICY_MODE":                 "fixed",
		"COPYBENCH_POLICY_MEASUREMENTS":         "2",
		"COPYBENCH_POLICY_ITERATIONS":           "5",
		"COPYBENCH_SUITES_LENGTH":               "4096",
		"COPYBENCH_SUITES_LIFECYCLE_ITERATIONS": "50",
	})

	ss, err := suites.Builtin(cfg, deps)
	require.NoError(t, err)

	report, err := runner.New(clock.NewMonotonic(), runner.WithLogger(zaptest.NewLogger(t))).Run(ss...)
	require.NoError(t, err)

	for _, o := range report.Outcomes {
		assert.True(t, o.OK(), "%s: %v", o.Pair, o.Err)
	}
	reg, ok := deps.Host.(interface{ Len() int })
	require.True(t, ok)
	assert.Zero(t, reg.Len(), "lifecycle scenarios leak nothing")
}
