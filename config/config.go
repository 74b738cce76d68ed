// Package config resolves the program's tunables from command-line
// flags, CROSSCRAM_* environment variables, an optional crosscram.yaml
// in the working directory, and built-in defaults, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	v    *viper.Viper
	args []string
}

// Load parses args and wires up the resolution chain. Call it once,
// before any Get.
func (c *Config) Load(args []string) error {
	c.v = viper.New()

	fs := pflag.NewFlagSet("crosscram", pflag.ContinueOnError)
	fs.Bool("debug", false, "log debug information")
	fs.Int("rows", 8, "rows on a new board")
	fs.Int("cols", 8, "columns on a new board")
	fs.Int("plies", 6, "search depth in plies")
	fs.String("weights-file", "", "yaml file with evaluator weights")
	fs.String("ttable-file", "", "table file to load at startup")
	fs.String("cpu-profile", "", "write cpu profile to file")
	fs.String("mem-profile", "", "write memory profile to file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c.args = fs.Args()
	if err := c.v.BindPFlags(fs); err != nil {
		return err
	}

	c.v.SetEnvPrefix("crosscram")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	c.v.SetConfigName("crosscram")
	c.v.SetConfigType("yaml")
	c.v.AddConfigPath(".")
	if err := c.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config file: %w", err)
		}
	}
	return nil
}

// AdjustRelativePaths rebases the file settings onto the executable's
// directory when they are relative and not present from the working
// directory. Running the binary from anywhere still finds files that
// ship next to it.
func (c *Config) AdjustRelativePaths(exPath string) {
	for _, key := range []string{"weights-file", "ttable-file"} {
		val := c.v.GetString(key)
		if val == "" || filepath.IsAbs(val) {
			continue
		}
		if _, err := os.Stat(val); err == nil {
			continue
		}
		c.v.Set(key, filepath.Join(exPath, val))
	}
}

func (c *Config) GetBool(key string) bool { return c.v.GetBool(key) }

func (c *Config) GetInt(key string) int { return c.v.GetInt(key) }

func (c *Config) GetString(key string) string { return c.v.GetString(key) }

// Args returns the positional arguments left after flag parsing, used
// as a one-shot shell command when present.
func (c *Config) Args() []string {
	return c.args
}

// AllSettings returns every resolved setting, for startup logging.
func (c *Config) AllSettings() map[string]any {
	return c.v.AllSettings()
}
