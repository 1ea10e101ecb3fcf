package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/randomizedcoder/copybench/internal/suites"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the configured suites and their (scenario, backend) pairs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := a.load()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			deps, err := suites.NewDeps(cfg.Workers)
			if err != nil {
				return err
			}
			defer deps.Close()

			ss, err := suites.Builtin(cfg, deps)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, s := range ss {
				fmt.Fprintf(out, "%s\n", s.Name)
				for _, e := range s.Entries {
					for _, b := range e.Backends {
						fmt.Fprintf(out, "  %-22s %-26s length=%-6d %s\n",
							e.Scenario.Name(), b.Name(), e.Length, e.Policy)
					}
				}
			}
			return nil
		},
	}
}
