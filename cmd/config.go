package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/mstoykov/envconfig"
	"github.com/spf13/pflag"
	"gopkg.in/guregu/null.v3"

	"github.com/liuxd6825/k6dict/cmd/state"
	"github.com/liuxd6825/k6dict/errext"
	"github.com/liuxd6825/k6dict/errext/exitcodes"
	"github.com/liuxd6825/k6dict/lib/fsext"
	"github.com/liuxd6825/k6dict/loader"
)

// Config holds the settings of the dictionary commands. Values are layered
// defaults < config file < environment < flags.
type Config struct {
	Notation       null.String `json:"notation" envconfig:"K6DICT_NOTATION"`
	OutputNotation null.String `json:"outputNotation" envconfig:"K6DICT_OUTPUT_NOTATION"`
	Concurrency    null.Int    `json:"concurrency" envconfig:"K6DICT_CONCURRENCY"`
}

// NewConfig returns a Config with the default values, none of them valid.
func NewConfig() Config {
	return Config{
		Notation:       null.NewString(loader.Auto.String(), false),
		OutputNotation: null.NewString(loader.JSON.String(), false),
		Concurrency:    null.NewInt(4, false),
	}
}

// Apply the provided config on top of the current one, returning a new one.
// The provided config has priority over the current one.
func (c Config) Apply(cfg Config) Config {
	if cfg.Notation.Valid {
		c.Notation = cfg.Notation
	}
	if cfg.OutputNotation.Valid {
		c.OutputNotation = cfg.OutputNotation
	}
	if cfg.Concurrency.Valid {
		c.Concurrency = cfg.Concurrency
	}
	return c
}

func configFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.SortFlags = false
	flags.StringP("notation", "n", "auto", "notation of the input dictionaries: auto, json or yaml")
	return flags
}

// getConfig gets configuration from CLI flags. Only the flags the user
// changed are valid.
func getConfig(flags *pflag.FlagSet) (Config, error) {
	var conf Config
	for _, f := range []struct {
		name string
		dst  *null.String
	}{
		{"notation", &conf.Notation},
		{"to", &conf.OutputNotation},
	} {
		if flag := flags.Lookup(f.name); flag != nil && flag.Changed {
			v, err := flags.GetString(f.name)
			if err != nil {
				return conf, err
			}
			*f.dst = null.StringFrom(v)
		}
	}
	if flag := flags.Lookup("concurrency"); flag != nil && flag.Changed {
		v, err := flags.GetInt64("concurrency")
		if err != nil {
			return conf, err
		}
		conf.Concurrency = null.IntFrom(v)
	}
	return conf, nil
}

// readDiskConfig reads the JSON config file. A missing file is not an error
// unless its path was set explicitly.
func readDiskConfig(gs *state.GlobalState) (Config, error) {
	data, err := fsext.ReadFile(gs.FS, gs.Flags.ConfigFilePath)
	if errors.Is(err, fs.ErrNotExist) && gs.Flags.ConfigFilePath == gs.DefaultFlags.ConfigFilePath {
		return Config{}, nil
	} else if err != nil {
		return Config{}, fmt.Errorf("couldn't load the configuration from %q: %w", gs.Flags.ConfigFilePath, err)
	}

	var conf Config
	if err := json.Unmarshal(data, &conf); err != nil {
		return Config{}, fmt.Errorf("couldn't parse the configuration from %q: %w", gs.Flags.ConfigFilePath, err)
	}
	return conf, nil
}

// readEnvConfig reads configuration variables from the environment.
func readEnvConfig(env map[string]string) (Config, error) {
	conf := Config{}
	err := envconfig.Process("", &conf, func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	})
	return conf, err
}

// getConsolidatedConfig assembles the final configuration from the defaults,
// the config file, the environment and the CLI flags, in that order of
// precedence, and validates it.
func getConsolidatedConfig(gs *state.GlobalState, cliConf Config) (Config, error) {
	fileConf, err := readDiskConfig(gs)
	if err != nil {
		return Config{}, errext.WithExitCodeIfNone(err, exitcodes.InvalidConfig)
	}
	envConf, err := readEnvConfig(gs.Env)
	if err != nil {
		return Config{}, errext.WithExitCodeIfNone(err, exitcodes.InvalidConfig)
	}

	conf := NewConfig().Apply(fileConf).Apply(envConf).Apply(cliConf)
	if err := validateConfig(conf); err != nil {
		return Config{}, errext.WithExitCodeIfNone(err, exitcodes.InvalidConfig)
	}
	return conf, nil
}

func validateConfig(conf Config) error {
	if _, err := loader.ParseNotation(conf.Notation.String); err != nil {
		return err
	}
	if _, err := loader.ParseNotation(conf.OutputNotation.String); err != nil {
		return err
	}
	if conf.Concurrency.Int64 < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", conf.Concurrency.Int64)
	}
	return nil
}

// newLoader returns a loader for the configured input notation.
func newLoader(gs *state.GlobalState, conf Config) *loader.Loader {
	n, _ := loader.ParseNotation(conf.Notation.String) // validated already
	return loader.New(gs.Logger, n)
}

// loadConfig is the common prologue of the dictionary commands.
func loadConfig(gs *state.GlobalState, flags *pflag.FlagSet) (Config, error) {
	cliConf, err := getConfig(flags)
	if err != nil {
		return Config{}, errext.WithExitCodeIfNone(err, exitcodes.InvalidConfig)
	}
	return getConsolidatedConfig(gs, cliConf)
}
