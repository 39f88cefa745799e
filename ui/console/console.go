// Package console implements the synced, optionally coloured terminal output
// of the CLI.
package console

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Console enables synced writing to stdout and stderr ...
type Console struct {
	IsTTY          bool
	outMx          *sync.Mutex
	Stdout, Stderr io.Writer
	stdout, stderr *consoleWriter
	theme          *theme
	logger         *logrus.Logger
}

// New returns the pointer to a new Console value. Colours are only used when
// colorize is set and both outputs are terminals; termType is the value of
// the TERM environment variable.
func New(stdout, stderr io.Writer, colorize bool, termType string) *Console {
	outMx := &sync.Mutex{}
	outCW := newConsoleWriter(stdout, outMx, termType)
	errCW := newConsoleWriter(stderr, outMx, termType)
	isTTY := outCW.isTTY && errCW.isTTY

	// Default logger without any formatting
	logger := &logrus.Logger{
		Out:       errCW,
		Formatter: new(logrus.TextFormatter),
		Hooks:     make(logrus.LevelHooks),
		Level:     logrus.InfoLevel,
	}

	c := &Console{
		IsTTY:  isTTY,
		outMx:  outMx,
		Stdout: outCW,
		Stderr: errCW,
		stdout: outCW,
		stderr: errCW,
		logger: logger,
	}

	// Only enable themes and a fancy logger if we're in a TTY
	if isTTY && colorize {
		c.theme = newTheme()
		logger.Formatter = &logrus.TextFormatter{
			ForceColors:   true,
			DisableColors: false,
		}
	} else {
		c.DisableColor()
	}

	return c
}

// DisableColor drops the theme and strips ANSI escape sequences from anything
// written to the console afterwards.
func (c *Console) DisableColor() {
	c.outMx.Lock()
	defer c.outMx.Unlock()

	c.theme = nil
	c.stdout.disableColor()
	c.stderr.disableColor()
	if tf, ok := c.logger.Formatter.(*logrus.TextFormatter); ok {
		tf.ForceColors = false
		tf.DisableColors = true
	}
}

// ApplyTheme adds ANSI color escape sequences to s if themes are enabled;
// otherwise it returns s unchanged.
func (c *Console) ApplyTheme(s string) string {
	if c.colorized() {
		return c.theme.foreground.Sprint(s)
	}

	return s
}

// Success colours s as a passed check.
func (c *Console) Success(s string) string {
	if c.colorized() {
		return c.theme.success.Sprint(s)
	}
	return s
}

// Failure colours s as a failed check.
func (c *Console) Failure(s string) string {
	if c.colorized() {
		return c.theme.failure.Sprint(s)
	}
	return s
}

// Faint dims s.
func (c *Console) Faint(s string) string {
	if c.colorized() {
		return c.theme.faint.Sprint(s)
	}
	return s
}

// Banner returns the ASCII art banner, optionally with ANSI color escape
// sequences if themes are enabled.
func (c *Console) Banner() string {
	banner := strings.Join([]string{
		`   _    __         _ _      _   `,
		`  | |__/ /  ___ __| (_) ___| |_ `,
		`  | / / _ \/ _ \ _' | |/ __| __|`,
		`  |   ( (_) | (_| | | | (__| |_ `,
		`  |_|\_\___/ \__,_|_|_|\___|\__|`,
	}, "\n")

	return c.ApplyTheme(banner)
}

// GetLogger returns the preconfigured plain-text logger. It will be configured
// to output colors if themes are enabled.
func (c *Console) GetLogger() *logrus.Logger {
	return c.logger
}

// SetLogger overrides the preconfigured logger.
func (c *Console) SetLogger(l *logrus.Logger) {
	c.logger = l
}

// Print writes s to stdout.
func (c *Console) Print(s string) {
	if _, err := fmt.Fprint(c.Stdout, s); err != nil {
		c.logger.Errorf("could not print '%s' to stdout: %s", s, err.Error())
	}
}

// Printf writes s to stdout, formatted with optional arguments.
func (c *Console) Printf(s string, a ...interface{}) {
	if _, err := fmt.Fprintf(c.Stdout, s, a...); err != nil {
		c.logger.Errorf("could not print '%s' to stdout: %s", s, err.Error())
	}
}

// PrintYAML marshals v to YAML, and writes the result to stdout. It returns an
// error if marshalling fails.
func (c *Console) PrintYAML(v interface{}) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("could not marshal YAML: %w", err)
	}
	c.Print(string(data))
	return nil
}

// TermWidth returns the terminal window width in characters. If the window size
// lookup fails, or if we're not running in a TTY (interactive terminal), the
// default value of 80 will be returned. err will be non-nil if the lookup fails.
func (c *Console) TermWidth() (int, error) {
	if !c.IsTTY || c.stdout.fd == nil {
		return defaultTermWidth, nil
	}

	width, _, err := term.GetSize(int(c.stdout.fd.Fd()))
	if !(width > 0) || err != nil {
		return defaultTermWidth, err
	}

	return width, nil
}

func (c *Console) colorized() bool {
	return c.theme != nil
}

// OSFile is a subset of the functionality implemented by os.File.
type OSFile interface {
	Fd() uintptr
}

// theme is a collection of colors supported by the console output.
type theme struct {
	foreground *color.Color
	success    *color.Color
	failure    *color.Color
	faint      *color.Color
}

func newTheme() *theme {
	return &theme{
		foreground: newColor(color.FgCyan),
		success:    newColor(color.FgGreen),
		failure:    newColor(color.FgRed, color.Bold),
		faint:      newColor(color.Faint),
	}
}

// A writer that syncs writes with a mutex and, if the output is a TTY, clears
// before newlines.
type consoleWriter struct {
	raw   io.Writer
	out   io.Writer
	fd    OSFile
	isTTY bool
	mutex *sync.Mutex
}

func newConsoleWriter(out io.Writer, mx *sync.Mutex, termType string) *consoleWriter {
	w := &consoleWriter{raw: out, out: out, mutex: mx}
	if f, ok := out.(OSFile); ok {
		w.fd = f
		w.isTTY = termType != "dumb" && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
	}
	if file, ok := out.(*os.File); ok && w.isTTY {
		w.out = colorable.NewColorable(file)
	}
	return w
}

// disableColor must be called with the mutex held.
func (w *consoleWriter) disableColor() {
	w.out = colorable.NewNonColorable(w.raw)
}

func (w *consoleWriter) Write(p []byte) (n int, err error) {
	origLen := len(p)
	if w.isTTY {
		// Add a TTY code to erase till the end of line with each new line
		p = bytes.ReplaceAll(p, []byte{'\n'}, []byte{'\x1b', '[', '0', 'K', '\n'})
	}

	w.mutex.Lock()
	n, err = w.out.Write(p)
	w.mutex.Unlock()

	if err != nil && n < origLen {
		return n, err
	}
	return origLen, err
}

// newColor returns the requested color with the given attributes.
func newColor(attributes ...color.Attribute) *color.Color {
	c := color.New(attributes...)
	c.EnableColor()
	return c
}
