package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/randomizedcoder/copybench/internal/config"
	"github.com/randomizedcoder/copybench/internal/logging"
)

// app carries what every subcommand needs.
type app struct {
	v          *viper.Viper
	configPath string
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "copybench",
		Short: "Compare copy strategies with an adaptive benchmark harness",
		Long: `copybench measures the same logical copy through different execution
backends (sequential loop, bulk copy, raw memmove, job dispatch, parallel
sharded jobs) and host object lifecycle operations, excluding setup and
teardown from the timings and sampling until results stabilize.`,
		SilenceUsage: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML configuration file")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("log-format", "auto", "log format (auto, console, json)")
	_ = a.v.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = a.v.BindPFlag("log.format", pf.Lookup("log-format"))

	root.AddCommand(newRunCmd(a), newListCmd(a))
	return root
}

func (a *app) load() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(a.v, a.configPath)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
