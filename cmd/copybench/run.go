package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/randomizedcoder/copybench/internal/cancel"
	"github.com/randomizedcoder/copybench/internal/clock"
	"github.com/randomizedcoder/copybench/internal/config"
	"github.com/randomizedcoder/copybench/internal/metrics"
	"github.com/randomizedcoder/copybench/internal/report"
	"github.com/randomizedcoder/copybench/internal/runner"
	"github.com/randomizedcoder/copybench/internal/suites"
)

func newRunCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the benchmark suites and write a report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := a.load()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck
			return run(cmd, cfg, logger)
		},
	}

	f := cmd.Flags()
	f.StringSlice("suites", nil, fmt.Sprintf("suites to run %v (default all)", suites.Names()))
	f.String("policy", "adaptive", "scheduling policy (fixed, adaptive)")
	f.Int("iterations", 100, "timed iterations per measurement")
	f.Duration("budget", 0, "stop taking new measurements after this long (0 = unlimited)")
	f.Int("length", 65535, "elements per copy")
	f.Int("workers", 0, "job pool workers (0 = GOMAXPROCS)")
	f.String("queue", "sharded", "job queue (channel, ring, sharded)")
	f.String("clock", "monotonic", "timer (monotonic, wall)")
	f.Bool("allocs", true, "record allocation deltas per pair")
	f.StringP("format", "f", "table", fmt.Sprintf("report format %v", report.Formats()))
	f.StringP("output", "o", "", "report file (default stdout)")
	f.String("svg", "", "also write an SVG chart to this file")
	f.String("metrics", "", "write Prometheus metrics to this textfile")

	for key, flag := range map[string]string{
		"run.suites":        "suites",
		"policy.mode":       "policy",
		"policy.iterations": "iterations",
		"run.budget":        "budget",
		"suites.length":     "length",
		"workers.count":     "workers",
		"workers.queue":     "queue",
		"run.clock":         "clock",
		"run.allocs":        "allocs",
		"output.format":     "format",
		"output.file":       "output",
		"output.svg":        "svg",
		"output.metrics":    "metrics",
	} {
		_ = a.v.BindPFlag(key, f.Lookup(flag))
	}
	return cmd
}

func run(cmd *cobra.Command, cfg *config.Config, logger *zap.Logger) error {
	format, err := report.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}

	var clk clock.Clock = clock.NewMonotonic()
	if cfg.Run.Clock == "wall" {
		clk = clock.NewWall()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	budget := cancel.NewBudget(cancel.NewContext(ctx), clk, cfg.Run.Budget)

	deps, err := suites.NewDeps(cfg.Workers)
	if err != nil {
		return err
	}
	defer deps.Close()

	ss, err := suites.Builtin(cfg, deps)
	if err != nil {
		return err
	}

	recorder := metrics.NewRecorder()
	opts := []runner.Option{
		runner.WithLogger(logger),
		runner.WithCanceler(budget),
		runner.WithMetrics(recorder),
		runner.WithAllocs(cfg.Run.Allocs),
	}
	if cfg.Run.Progress > 0 {
		// Read the clock once per 16 polls; progress is coarse anyway.
		opts = append(opts, runner.WithProgress(clock.NewBatchTicker(clk, cfg.Run.Progress, 16)))
	}

	logger.Info("starting",
		zap.Strings("suites", cfg.Run.Suites),
		zap.String("clock", cfg.Run.Clock),
		zap.String("queue", cfg.Workers.Queue),
		zap.Int("queue_cap", deps.Worker.QueueCap()),
		zap.Int("pool_workers", deps.Pool.Size()),
		zap.Duration("budget", cfg.Run.Budget))

	rep, runErr := runner.New(clk, opts...).Run(ss...)
	if cause := budget.Cause(); cause != nil {
		logger.Warn("run stopped early", zap.Error(cause))
	} else if cfg.Run.Budget > 0 {
		logger.Info("run finished within budget", zap.Duration("budget_left", budget.Remaining()))
	}
	if rep == nil {
		return runErr
	}

	if err := writeReport(cmd.OutOrStdout(), cfg.Output.File, format, rep); err != nil {
		return errors.Join(runErr, err)
	}
	if cfg.Output.SVG != "" {
		if err := writeReport(nil, cfg.Output.SVG, report.FormatSVG, rep); err != nil {
			logger.Warn("chart not written", zap.Error(err))
		}
	}
	if cfg.Output.Metrics != "" {
		if err := recorder.WriteTextfile(cfg.Output.Metrics); err != nil {
			logger.Warn("metrics not written", zap.String("path", cfg.Output.Metrics), zap.Error(err))
		}
	}

	if runErr != nil {
		logger.Error("run finished with failures", zap.Error(runErr))
	}
	return runErr
}

// writeReport writes to path, or to stdout when path is empty.
func writeReport(stdout io.Writer, path string, format report.Format, rep *runner.Report) error {
	if path == "" {
		return report.Write(stdout, format, rep)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.Write(f, format, rep); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
