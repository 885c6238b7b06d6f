// Package config loads the settings shared by the binaries: command-line
// flags layered over HEXTRAP_* environment variables over built-in defaults.
package config

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config wraps a viper instance behind typed getters.
type Config struct {
	v    *viper.Viper
	args []string
}

// Load parses args (not including the program name) and binds every flag
// into the settings store. Call it once at startup before any getter.
func (c *Config) Load(args []string) error {
	c.v = viper.New()

	fs := pflag.NewFlagSet("hextrap", pflag.ContinueOnError)
	fs.Bool("debug", false, "debug logging")
	fs.String("ws-address", "localhost:8765", "host:port the websocket service listens on")
	fs.Int("board-size", 7, "hex grid dimension for new games")
	fs.String("strategy", "iterative", "move strategy: random, limited, minimax or iterative")
	fs.Int("depth", 4, "depth cap for the limited strategy")
	fs.Bool("alpha-beta", true, "alpha-beta pruning for the searching strategies")
	fs.Float64("allotted-time", 2.0, "seconds allowed per move selection; 0 disables the deadline")
	fs.String("trial-log", "", "write per-game YAML records of self-play trials to this file")
	fs.String("cpu-profile", "", "write cpu profile to a file")
	fs.String("mem-profile", "", "write memory profile to a file")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.v.BindPFlags(fs); err != nil {
		return err
	}
	c.v.SetEnvPrefix("hextrap")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()
	c.args = fs.Args()
	return nil
}

// Args returns the positional arguments left over after flag parsing. The
// shell binary runs them as a one-shot command line.
func (c *Config) Args() []string {
	return c.args
}

func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// AllSettings returns the whole settings map, for the startup log line.
func (c *Config) AllSettings() map[string]any {
	return c.v.AllSettings()
}
