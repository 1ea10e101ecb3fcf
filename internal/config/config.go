// Package config loads copybench settings from defaults, an optional YAML
// file, COPYBENCH_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/randomizedcoder/copybench/internal/queue"
	"github.com/randomizedcoder/copybench/internal/schedule"
)

// EnvPrefix is the prefix of environment overrides: COPYBENCH_POLICY_MODE
// sets policy.mode.
const EnvPrefix = "COPYBENCH"

// ErrInvalid is returned for a configuration that fails validation.
var ErrInvalid = errors.New("config: invalid configuration")

// Config is the complete configuration.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Run     RunConfig     `mapstructure:"run"`
	Policy  PolicyConfig  `mapstructure:"policy"`
	Workers WorkersConfig `mapstructure:"workers"`
	Suites  SuitesConfig  `mapstructure:"suites"`
	Output  OutputConfig  `mapstructure:"output"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type RunConfig struct {
	// Suites to run, by name. Empty runs every built-in suite.
	Suites []string `mapstructure:"suites"`

	// Budget stops taking new measurements once spent. Zero is unlimited.
	Budget time.Duration `mapstructure:"budget"`

	// Clock is "monotonic" or "wall".
	Clock string `mapstructure:"clock"`

	Allocs   bool          `mapstructure:"allocs"`
	Progress time.Duration `mapstructure:"progress"`
}

type PolicyConfig struct {
	// Mode is "fixed" or "adaptive".
	Mode         string  `mapstructure:"mode"`
	Warmup       int     `mapstructure:"warmup"`
	Iterations   int     `mapstructure:"iterations"`
	Measurements int     `mapstructure:"measurements"`
	Min          int     `mapstructure:"min"`
	Max          int     `mapstructure:"max"`
	Threshold    float64 `mapstructure:"threshold"`
}

type WorkersConfig struct {
	// Count of pool workers; 0 uses GOMAXPROCS.
	Count     int    `mapstructure:"count"`
	Queue     string `mapstructure:"queue"`
	QueueSize int    `mapstructure:"queue_size"`
}

type SuitesConfig struct {
	// Length is the element count of the copy suites.
	Length int `mapstructure:"length"`

	ArrayBackends  []string `mapstructure:"array_backends"`
	NativeBackends []string `mapstructure:"native_backends"`

	// LifecycleIterations is the iteration count of the host lifecycle
	// scenarios, which also sizes the destroy scenario's object pool.
	LifecycleIterations int `mapstructure:"lifecycle_iterations"`
}

type OutputConfig struct {
	Format string `mapstructure:"format"`

	// File receives the report; empty writes to stdout.
	File string `mapstructure:"file"`

	// SVG, when set, also writes a chart there.
	SVG string `mapstructure:"svg"`

	// Metrics, when set, writes Prometheus metrics there.
	Metrics string `mapstructure:"metrics"`
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "auto")

	v.SetDefault("run.suites", []string{})
	v.SetDefault("run.budget", time.Duration(0))
	v.SetDefault("run.clock", "monotonic")
	v.SetDefault("run.allocs", true)
	v.SetDefault("run.progress", 5*time.Second)

	v.SetDefault("policy.mode", "adaptive")
	v.SetDefault("policy.warmup", 1)
	v.SetDefault("policy.iterations", 100)
	v.SetDefault("policy.measurements", 10)
	v.SetDefault("policy.min", 5)
	v.SetDefault("policy.max", 50)
	v.SetDefault("policy.threshold", 0.05)

	v.SetDefault("workers.count", 0)
	v.SetDefault("workers.queue", string(queue.KindSharded))
	v.SetDefault("workers.queue_size", 1024)

	v.SetDefault("suites.length", 65535)
	v.SetDefault("suites.array_backends", []string{"loop", "bulk", "collect", "reflect"})
	v.SetDefault("suites.native_backends", []string{
		"loop", "bulk", "unsafe", "job", "parallel/16", "parallel/4096", "parallel-unchecked/4096", "goroutines/4096",
	})
	v.SetDefault("suites.lifecycle_iterations", 10000)

	v.SetDefault("output.format", "table")
	v.SetDefault("output.file", "")
	v.SetDefault("output.svg", "")
	v.SetDefault("output.metrics", "")
}

// Load reads the configuration through v. path, if non-empty, names a
// YAML file. Flags bound to v before Load take precedence over both.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values that are not checked where they are used.
func (c *Config) Validate() error {
	if _, err := c.Policy.Build(); err != nil {
		return fmt.Errorf("%w: policy: %w", ErrInvalid, err)
	}
	switch c.Run.Clock {
	case "monotonic", "wall":
	default:
		return fmt.Errorf("%w: run.clock must be monotonic or wall, got %q", ErrInvalid, c.Run.Clock)
	}
	if c.Run.Budget < 0 {
		return fmt.Errorf("%w: negative run.budget %v", ErrInvalid, c.Run.Budget)
	}
	if c.Suites.Length < 0 {
		return fmt.Errorf("%w: negative suites.length %d", ErrInvalid, c.Suites.Length)
	}
	if c.Workers.QueueSize < 1 {
		return fmt.Errorf("%w: workers.queue_size must be positive, got %d", ErrInvalid, c.Workers.QueueSize)
	}
	return nil
}

// QueueKind returns the configured worker queue kind.
func (w WorkersConfig) QueueKind() queue.Kind {
	return queue.Kind(w.Queue)
}

// Build turns the policy section into a schedule.Policy.
func (p PolicyConfig) Build() (schedule.Policy, error) {
	var policy schedule.Policy
	switch p.Mode {
	case "fixed":
		policy = schedule.Fixed{Warmup: p.Warmup, Measurements: p.Measurements, Iterations: p.Iterations}
	case "adaptive":
		policy = schedule.Adaptive{Warmup: p.Warmup, Iterations: p.Iterations, Min: p.Min, Max: p.Max, Threshold: p.Threshold}
	default:
		return nil, fmt.Errorf("%w: mode must be fixed or adaptive, got %q", schedule.ErrInvalidPolicy, p.Mode)
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return policy, nil
}
