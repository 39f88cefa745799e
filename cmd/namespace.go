package cmd

import (
	"github.com/spf13/cobra"

	"github.com/liuxd6825/k6dict/cmd/state"
	"github.com/liuxd6825/k6dict/loader"
)

func getCmdNamespace(gs *state.GlobalState) *cobra.Command {
	namespaceCmd := &cobra.Command{
		Use:   "namespace [flags] dictionary",
		Short: "Print the namespace of a dictionary",
		Long: `Print the namespace of a dictionary.

Only the top level name is read, the dictionary isn't resolved.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig(gs, cmd.Flags())
			if err != nil {
				return err
			}
			pwd, err := gs.Getwd()
			if err != nil {
				return err
			}
			src, err := loader.ReadSource(gs.FS, args[0], pwd, gs.Stdin)
			if err != nil {
				return err
			}
			namespace, err := newLoader(gs, conf).ExtractSourceNamespace(src)
			if err != nil {
				return err
			}
			gs.Console.Print(namespace + "\n")
			return nil
		},
	}
	namespaceCmd.Flags().AddFlagSet(configFlagSet())

	return namespaceCmd
}
