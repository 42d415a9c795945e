package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ralphhook/ralph-hook-fmt/build"
	"github.com/ralphhook/ralph-hook-fmt/format"
	"github.com/ralphhook/ralph-hook-fmt/project"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var ErrInvalidTimeout = errors.New("timeout must be greater than zero")

// FileNames are searched for, in order, when looking for a config file.
var FileNames = []string{".ralph-hook-fmt.toml", "ralph-hook-fmt.toml"}

// Config holds the settings for a single invocation.
type Config struct {
	// Debug attaches a summary of what happened to the response.
	Debug bool `mapstructure:"debug" toml:"debug,omitempty"`
	// ProjectOnly ignores formatters which are not installed within the file's project.
	ProjectOnly bool          `mapstructure:"project-only" toml:"project-only,omitempty"`
	Timeout     time.Duration `mapstructure:"timeout" toml:"timeout,omitempty"`
	Verbose     uint8         `mapstructure:"verbose" toml:"verbose,omitempty"`
	// Excludes are globs for files which should never be formatted.
	Excludes []string `mapstructure:"excludes" toml:"excludes,omitempty"`
	// Disable lists formatters, by name, which should never be selected.
	Disable []string `mapstructure:"disable" toml:"disable,omitempty"`
}

// SetFlags appends our flags to the provided flag set.
// Flag names match the mapstructure tags in Config, so a flag's default applies when the config file is silent.
func SetFlags(fs *pflag.FlagSet) {
	fs.Bool(
		"debug", false,
		"Report what was formatted, skipped or failed back to the host. (env $RALPH_HOOK_FMT_DEBUG)",
	)
	fs.Bool(
		"project-only", false,
		"Only use formatters installed within the file's project, ignoring PATH. (env $RALPH_HOOK_FMT_PROJECT_ONLY)",
	)
	fs.Duration(
		"timeout", format.DefaultTimeout,
		"How long a formatter may run before it is terminated. (env $RALPH_HOOK_FMT_TIMEOUT)",
	)
	fs.CountP(
		"verbose", "v",
		"Set the verbosity of logs written to stderr e.g. -vv. (env $RALPH_HOOK_FMT_VERBOSE)",
	)
	fs.StringSlice(
		"excludes", nil,
		"Never format files matching the specified globs. (env $RALPH_HOOK_FMT_EXCLUDES)",
	)
	fs.StringSlice(
		"disable", nil,
		"Never select the named formatters e.g. biome,black. (env $RALPH_HOOK_FMT_DISABLE)",
	)
}

// NewViper creates a Viper instance pre-configured with the following options:
// * TOML config type
// * automatic env enabled
// * `RALPH_HOOK_FMT_` env prefix for environment variables
// * replacement of `-` and `.` with `_` when mapping flags to env e.g. `project-only` => `RALPH_HOOK_FMT_PROJECT_ONLY`.
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetConfigType("toml")

	v.SetEnvPrefix(EnvPrefix())
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	return v
}

// EnvPrefix returns the prefix for environment variables, derived from the binary name.
func EnvPrefix() string {
	return strings.ReplaceAll(build.Name, "-", "_")
}

// FromViper takes a viper instance and produces a Config instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = format.DefaultTimeout
	}

	if cfg.Timeout < 0 {
		return nil, ErrInvalidTimeout
	}

	return cfg, nil
}

// Find returns the path of the config file to use for a file in dir.
// An explicit path takes precedence, followed by the `RALPH_HOOK_FMT_CONFIG` env variable, and finally a search
// upwards from dir for one of FileNames. An empty path is returned if there is no config file.
func Find(explicit string, dir string) string {
	if explicit != "" {
		return explicit
	}

	if path := os.Getenv(strings.ToUpper(EnvPrefix()) + "_CONFIG"); path != "" {
		return path
	}

	path, _, err := project.FindUp(dir, FileNames...)
	if err != nil {
		return ""
	}

	return filepath.Clean(path)
}

// Load reads the config file at path into v. Values from flags and the environment continue to take precedence.
func Load(v *viper.Viper, path string) error {
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	return nil
}
