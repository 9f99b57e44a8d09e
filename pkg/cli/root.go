package cli

import (
	"github.com/spf13/cobra"
)

// Version is stamped at build time.
var Version = "dev"

// NewRootCmd builds the root cobra command and wires the persistent
// flags shared by every subcommand into deps.
func NewRootCmd(deps *Deps) *cobra.Command {
	if deps == nil {
		deps = &Deps{}
	}

	cmd := &cobra.Command{
		Use:           "luma",
		Short:         "content engine for folder-structured photo and blog sites",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(&deps.ConfigFile, "config", "",
		"config file (default ./luma.yaml)")
	cmd.PersistentFlags().StringVar(&deps.LogLevel, "log-level", "",
		"minimum log level")
	cmd.PersistentFlags().BoolVar(&deps.LogJSON, "log-json", false,
		"output logs as JSON")

	cmd.AddCommand(
		NewServeCmd(deps),
		NewRebuildCmd(deps),
		NewInvalidateCmd(deps),
		NewStatsCmd(deps),
		NewTokenCmd(deps),
		NewPasswordCmd(deps),
	)

	return cmd
}
