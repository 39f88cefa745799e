package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/liuxd6825/k6dict/cmd/state"
	"github.com/liuxd6825/k6dict/dictionary"
	"github.com/liuxd6825/k6dict/errext"
	"github.com/liuxd6825/k6dict/errext/exitcodes"
	"github.com/liuxd6825/k6dict/lib/fsext"
	"github.com/liuxd6825/k6dict/loader"
)

// cmdValidate handles the `k6dict validate` sub-command
type cmdValidate struct {
	gs *state.GlobalState
}

type validation struct {
	path string
	dict *dictionary.Dictionary
	err  error
}

func (c *cmdValidate) run(cmd *cobra.Command, args []string) error {
	conf, err := loadConfig(c.gs, cmd.Flags())
	if err != nil {
		return err
	}
	l := newLoader(c.gs, conf)

	pwd, err := c.gs.Getwd()
	if err != nil {
		return err
	}

	results := make([]validation, len(args))
	g, ctx := errgroup.WithContext(c.gs.Ctx)
	g.SetLimit(int(conf.Concurrency.Int64))
	for i, arg := range args {
		i, arg := i, arg
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = c.validate(l, arg, pwd)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
			msg, _ := errext.Format(r.err)
			c.gs.Console.Printf("%s %s: %s\n", c.gs.Console.Failure("FAIL"), r.path, msg)
			continue
		}
		if c.gs.Flags.Quiet {
			continue
		}
		c.gs.Console.Printf("%s %s %s\n", c.gs.Console.Success("OK  "), r.path, c.gs.Console.Faint(
			fmt.Sprintf("(%s, %d fields, %d messages)",
				r.dict.Namespace(), r.dict.Fields().Len(), r.dict.Messages().Len())))
	}

	if failed > 0 {
		return errext.WithExitCodeIfNone(
			fmt.Errorf("%d of %d dictionaries failed validation", failed, len(results)),
			exitcodes.InvalidDictionary)
	}
	return nil
}

func (c *cmdValidate) validate(l *loader.Loader, path, pwd string) validation {
	logger := c.gs.Logger.WithField("path", path)
	src, err := loader.ReadSource(fsext.NewReadOnlyFs(c.gs.FS), path, pwd, c.gs.Stdin)
	if err != nil {
		logger.WithError(err).Debug("Dictionary couldn't be read")
		return validation{path: path, err: err}
	}
	d, err := l.LoadSource(src)
	if err != nil {
		logger.WithError(err).Debug("Dictionary is invalid")
		return validation{path: path, err: err}
	}
	logger.Debug("Dictionary is valid")
	return validation{path: path, dict: d}
}

func (c *cmdValidate) flagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.SortFlags = false
	flags.AddFlagSet(configFlagSet())
	flags.Int64("concurrency", 4, "how many dictionaries are loaded at the same time")
	return flags
}

func getCmdValidate(gs *state.GlobalState) *cobra.Command {
	c := &cmdValidate{gs: gs}

	validateCmd := &cobra.Command{
		Use:   "validate [flags] dictionary...",
		Short: "Validate dictionaries",
		Long: `Validate dictionaries.

Every dictionary is loaded and resolved on its own, and a line with the outcome
is printed for each of them. The command fails when any of them is invalid.
Use "-" to read a dictionary from the standard input.`,
		Example: `
  # Validate a single dictionary
  k6dict validate fix44.json

  # Validate several dictionaries, loading two at a time
  k6dict validate --concurrency 2 fix42.yaml fix44.yaml fix50.yaml`[1:],
		Args: cobra.MinimumNArgs(1),
		RunE: c.run,
	}
	validateCmd.Flags().AddFlagSet(c.flagSet())

	return validateCmd
}
