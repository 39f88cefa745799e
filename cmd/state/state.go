// Package state holds what every k6dict command shares: the filesystem, the
// environment, the console and the loggers.
package state

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/liuxd6825/k6dict/lib/fsext"
	"github.com/liuxd6825/k6dict/ui/console"
)

// GlobalState contains the GlobalOptions and accessors for most of the global
// process-external state like CLI arguments, env vars, standard input, output
// and error, etc. In practice, most of it is normally accessed through the `os`
// package from the Go stdlib.
//
// We group them here so we can prevent direct access to them from the rest of
// the k6dict codebase. This gives us the ability to mock them and have robust
// and easy-to-write integration-like tests to check the k6dict end-to-end
// behavior in any simulated conditions.
//
// `NewGlobalState()` returns a globalState object with the real `os`
// parameters, while `NewGlobalTestState()` can be used in tests to create
// simulated environments.
type GlobalState struct {
	Ctx context.Context

	FS         fsext.Fs
	Getwd      func() (string, error)
	BinaryName string
	CmdArgs    []string
	Env        map[string]string

	DefaultFlags, Flags GlobalOptions

	Console *console.Console
	Stdin   io.Reader

	OSExit func(int)

	Logger         *logrus.Logger
	FallbackLogger logrus.FieldLogger
}

// NewGlobalState returns a new GlobalState with the given ctx.
// Ideally, this should be the only function in the whole codebase where we use
// global variables and functions from the os package. Anywhere else, things
// like os.Stdout, os.Stderr, os.Stdin, os.Getenv(), etc. should be removed and
// the respective properties of globalState used instead.
func NewGlobalState(ctx context.Context) *GlobalState {
	env := BuildEnvMap(os.Environ())
	defaultFlags := GetDefaultGlobalOptions(userConfigDir())
	globalFlags := consolidateGlobalFlags(defaultFlags, env)

	cons := console.New(os.Stdout, os.Stderr, !globalFlags.NoColor, env["TERM"])
	logger := cons.GetLogger()

	return &GlobalState{
		Ctx:            ctx,
		FS:             fsext.NewOsFs(),
		Getwd:          os.Getwd,
		BinaryName:     filepath.Base(os.Args[0]),
		CmdArgs:        os.Args,
		Env:            env,
		DefaultFlags:   defaultFlags,
		Flags:          globalFlags,
		Console:        cons,
		Stdin:          os.Stdin,
		OSExit:         os.Exit,
		Logger:         logger,
		FallbackLogger: &logrus.Logger{ // we may modify the other one
			Out:       cons.Stderr,
			Formatter: new(logrus.TextFormatter), // no fancy formatting here
			Hooks:     make(logrus.LevelHooks),
			Level:     logrus.InfoLevel,
		},
	}
}

func userConfigDir() string {
	confDir, err := os.UserConfigDir()
	if err != nil {
		return ".config"
	}
	return confDir
}

// BuildEnvMap returns a map from raw environment variable strings, as
// returned by os.Environ().
func BuildEnvMap(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v := parseEnvKeyValue(kv)
		env[k] = v
	}
	return env
}

func parseEnvKeyValue(kv string) (string, string) {
	if idx := strings.IndexRune(kv, '='); idx != -1 {
		return kv[:idx], kv[idx+1:]
	}
	return kv, ""
}
