package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"spx-gex/internal/logger"
	"spx-gex/internal/store"
	"spx-gex/internal/trace"
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "gex",
		Short:         "gex records the SPX Total Gamma figure from the gflows dashboard.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			if err := logger.Init(); err != nil {
				return err
			}
			return trace.Init(cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to the YAML config (optional)")

	load := func() (*store.Config, error) {
		return store.LoadConfig(configPath)
	}

	run := newRunCmd(load)
	root.AddCommand(run, newHistoryCmd(load))
	root.RunE = run.RunE
	return root
}
