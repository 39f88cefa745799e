package cmd

import (
	"github.com/spf13/cobra"

	"github.com/liuxd6825/k6dict/cmd/state"
	"github.com/liuxd6825/k6dict/lib/consts"
)

func getCmdVersion(gs *state.GlobalState) *cobra.Command {
	// versionCmd represents the version command.
	return &cobra.Command{
		Use:   "version",
		Short: "Show application version",
		Long:  `Show the application version and exit.`,
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			gs.Console.Printf("k6dict v%s\n", consts.FullVersion())
		},
	}
}
