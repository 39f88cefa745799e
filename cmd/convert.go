package cmd

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/liuxd6825/k6dict/cmd/state"
	"github.com/liuxd6825/k6dict/errext"
	"github.com/liuxd6825/k6dict/errext/exitcodes"
	"github.com/liuxd6825/k6dict/lib/fsext"
	"github.com/liuxd6825/k6dict/loader"
)

// cmdConvert handles the `k6dict convert` sub-command
type cmdConvert struct {
	gs     *state.GlobalState
	output string
}

func (c *cmdConvert) run(cmd *cobra.Command, args []string) error {
	conf, err := loadConfig(c.gs, cmd.Flags())
	if err != nil {
		return err
	}
	pwd, err := c.gs.Getwd()
	if err != nil {
		return err
	}
	src, err := loader.ReadSource(c.gs.FS, args[0], pwd, c.gs.Stdin)
	if err != nil {
		return err
	}
	d, err := newLoader(c.gs, conf).LoadSource(src)
	if err != nil {
		return err
	}

	to, _ := loader.ParseNotation(conf.OutputNotation.String) // validated already
	var buf bytes.Buffer
	if err := loader.New(c.gs.Logger, to).Store(&buf, d); err != nil {
		return err
	}

	if c.output == "" || c.output == "-" {
		c.gs.Console.Print(buf.String())
		return nil
	}

	path := fsext.Abs(pwd, c.output)
	if err := fsext.WriteFile(c.gs.FS, path, buf.Bytes(), 0o644); err != nil {
		return errext.WithExitCodeIfNone(
			fmt.Errorf("couldn't write the dictionary to %q: %w", c.output, err), exitcodes.CannotWriteOutput)
	}
	c.gs.Logger.WithField("path", path).Debug("Dictionary written")
	return nil
}

func (c *cmdConvert) flagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.SortFlags = false
	flags.AddFlagSet(configFlagSet())
	flags.StringP("to", "t", "json", "notation to convert to: json or yaml")
	flags.StringVarP(&c.output, "output", "o", "", "file to write to, stdout by default")
	return flags
}

func getCmdConvert(gs *state.GlobalState) *cobra.Command {
	c := &cmdConvert{gs: gs}

	convertCmd := &cobra.Command{
		Use:   "convert [flags] dictionary",
		Short: "Convert a dictionary to another notation",
		Long: `Convert a dictionary to another notation.

The dictionary is resolved first, so the output holds the merged declarations:
every field and message with everything it inherits.`,
		Example: `
  # Convert a JSON dictionary to YAML
  k6dict convert --to yaml fix44.json

  # Write the result to a file
  k6dict convert --to json --output fix44.json fix44.yaml`[1:],
		Args: cobra.ExactArgs(1),
		RunE: c.run,
	}
	convertCmd.Flags().AddFlagSet(c.flagSet())

	return convertCmd
}
