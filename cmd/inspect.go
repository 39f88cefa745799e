package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/liuxd6825/k6dict/cmd/state"
	"github.com/liuxd6825/k6dict/dictionary"
	"github.com/liuxd6825/k6dict/errext"
	"github.com/liuxd6825/k6dict/errext/exitcodes"
	"github.com/liuxd6825/k6dict/loader"
)

// cmdInspect handles the `k6dict inspect` sub-command
type cmdInspect struct {
	gs      *state.GlobalState
	message string
	yaml    bool
}

type messageSummary struct {
	Name        string   `yaml:"name"`
	Parent      string   `yaml:"parent,omitempty"`
	Description string   `yaml:"description,omitempty"`
	Fields      []string `yaml:"fields"`
}

type dictionarySummary struct {
	Namespace   string           `yaml:"namespace"`
	Description string           `yaml:"description,omitempty"`
	Fields      []string         `yaml:"fields,omitempty"`
	Messages    []messageSummary `yaml:"messages,omitempty"`
}

func (c *cmdInspect) run(cmd *cobra.Command, args []string) error {
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

	messages := d.Messages().Values()
	if c.message != "" {
		m, ok := d.MessageStructure(c.message)
		if !ok {
			return errext.WithExitCodeIfNone(
				errext.WithHint(
					fmt.Errorf("message '%s' not found in dictionary '%s'", c.message, d.Namespace()),
					"known messages are "+strings.Join(d.Messages().Names(), ", ")),
				exitcodes.InvalidInput)
		}
		messages = []*dictionary.Message{m}
	}

	if c.yaml {
		return c.gs.Console.PrintYAML(summarize(d, messages, c.message == ""))
	}

	p := &treePrinter{gs: c.gs, width: c.termWidth()}
	if c.message == "" {
		p.header(d)
	}
	for _, m := range messages {
		p.message(m)
	}
	return nil
}

func (c *cmdInspect) termWidth() int {
	if !c.gs.Console.IsTTY {
		return 0
	}
	width, err := c.gs.Console.TermWidth()
	if err != nil {
		c.gs.Logger.WithError(err).Debug("Couldn't get the terminal width")
	}
	return width
}

func summarize(d *dictionary.Dictionary, messages []*dictionary.Message, withFields bool) dictionarySummary {
	s := dictionarySummary{Namespace: d.Namespace(), Description: d.Description()}
	if withFields {
		s.Fields = d.Fields().Names()
	}
	for _, m := range messages {
		s.Messages = append(s.Messages, messageSummary{
			Name:        m.Name(),
			Parent:      m.ParentName(),
			Description: m.Description(),
			Fields:      m.Fields().Names(),
		})
	}
	return s
}

// treePrinter writes messages with their fields, expanding composite fields
// in place. A message already being expanded is marked instead of expanded
// again.
type treePrinter struct {
	gs    *state.GlobalState
	width int
	path  []*dictionary.Message
}

func (p *treePrinter) line(depth int, s string) {
	s = strings.Repeat("  ", depth) + s
	if p.width > 0 && len(s) > p.width {
		s = s[:p.width-1] + "…"
	}
	p.gs.Console.Print(s + "\n")
}

func (p *treePrinter) header(d *dictionary.Dictionary) {
	p.line(0, fmt.Sprintf("dictionary %s %s", p.gs.Console.ApplyTheme(d.Namespace()),
		p.gs.Console.Faint(fmt.Sprintf("(%d fields, %d messages)", d.Fields().Len(), d.Messages().Len()))))
	p.attributes(1, d.Attributes())
	for _, f := range d.Fields().Values() {
		p.line(1, p.simpleField(f))
	}
}

func (p *treePrinter) message(m *dictionary.Message) {
	title := "message " + p.gs.Console.ApplyTheme(m.Name())
	if m.ParentName() != "" {
		title += " extends " + m.ParentName()
	}
	if m.Description() != "" {
		title += " " + p.gs.Console.Faint("# "+m.Description())
	}
	p.line(0, title)
	p.fields(1, m)
}

func (p *treePrinter) attributes(depth int, attrs *dictionary.Index[*dictionary.Attribute]) {
	attrs.Each(func(name string, a *dictionary.Attribute) bool {
		p.line(depth, fmt.Sprintf("@%s = %s", name, p.gs.Console.Faint(a.Value().String())))
		return true
	})
}

func (p *treePrinter) fields(depth int, m *dictionary.Message) {
	p.path = append(p.path, m)
	defer func() { p.path = p.path[:len(p.path)-1] }()

	p.attributes(depth, m.Attributes())
	m.Fields().Each(func(_ string, f *dictionary.Field) bool {
		if !f.IsComplex() {
			p.line(depth, p.simpleField(f))
			return true
		}

		s := fmt.Sprintf("%s -> %s", f.Name(), f.Message().Name())
		s += fieldFlags(f)
		if p.expanding(f.Message()) {
			p.line(depth, s+" "+p.gs.Console.Faint("(recursive)"))
			return true
		}
		p.line(depth, s)
		p.fields(depth+1, f.Message())
		return true
	})
}

func (p *treePrinter) expanding(m *dictionary.Message) bool {
	for _, e := range p.path {
		if e == m {
			return true
		}
	}
	return false
}

func (p *treePrinter) simpleField(f *dictionary.Field) string {
	s := fmt.Sprintf("%s: %s", f.Name(), p.gs.Console.Faint(f.Type().String()))
	s += fieldFlags(f)
	if v, ok := f.DefaultValue(); ok {
		s += " default=" + v.Literal()
	}
	if f.IsEnum() {
		values := make([]string, 0, f.Values().Len())
		f.Values().Each(func(name string, v *dictionary.Attribute) bool {
			values = append(values, name+"="+v.Literal())
			return true
		})
		s += " enum[" + strings.Join(values, ",") + "]"
	}
	return s
}

func fieldFlags(f *dictionary.Field) string {
	var s string
	if f.IsCollection() {
		s += " collection"
	}
	if f.IsRequired() {
		s += " required"
	}
	if f.IsServiceName() {
		s += " service-name"
	}
	return s
}

func (c *cmdInspect) flagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.SortFlags = false
	flags.AddFlagSet(configFlagSet())
	flags.StringVarP(&c.message, "message", "m", "", "only print the structure of this message")
	flags.BoolVar(&c.yaml, "yaml", false, "print a YAML summary instead of the tree")
	return flags
}

func getCmdInspect(gs *state.GlobalState) *cobra.Command {
	c := &cmdInspect{gs: gs}

	inspectCmd := &cobra.Command{
		Use:   "inspect [flags] dictionary",
		Short: "Print the resolved structure of a dictionary",
		Long: `Print the resolved structure of a dictionary.

Messages are printed with their inherited fields. Composite fields are marked
with "->" and expanded in place, unless the message is already being expanded,
in which case they're marked as recursive.`,
		Example: `
  # Print every message
  k6dict inspect fix44.json

  # Print one message only
  k6dict inspect --message NewOrderSingle fix44.json`[1:],
		Args: cobra.ExactArgs(1),
		RunE: c.run,
	}
	inspectCmd.Flags().AddFlagSet(c.flagSet())

	return inspectCmd
}
