package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/hugo-lorenzo-mato/crashkeeper/internal/app"
)

// Loader handles configuration loading from multiple sources.
type Loader struct {
	v          *viper.Viper
	configFile string
	envPrefix  string
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return NewLoaderWithViper(viper.New())
}

// NewLoaderWithViper creates a loader using an existing viper instance so
// command line flags bound to it take part in the lookup.
func NewLoaderWithViper(v *viper.Viper) *Loader {
	return &Loader{
		v:         v,
		envPrefix: "CRASHKEEPER",
	}
}

// WithConfigFile sets an explicit config file path.
func (l *Loader) WithConfigFile(path string) *Loader {
	l.configFile = path
	return l
}

// WithEnvPrefix sets the environment variable prefix.
func (l *Loader) WithEnvPrefix(prefix string) *Loader {
	l.envPrefix = prefix
	return l
}

// Viper returns the underlying viper instance for flag binding.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

// Load loads configuration from all sources.
// Precedence (highest to lowest):
// 1. CLI flags (set via viper.BindPFlag)
// 2. Environment variables (CRASHKEEPER_*)
// 3. Project config (.crashkeeper.yaml in current directory)
// 4. User config (~/.config/crashkeeper/config.yaml)
// 5. Defaults
func (l *Loader) Load() (*Config, error) {
	l.setDefaults()

	l.v.SetEnvPrefix(l.envPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()

	if l.configFile != "" {
		l.v.SetConfigFile(l.configFile)
	} else {
		l.v.SetConfigName(".crashkeeper")
		l.v.SetConfigType("yaml")
		l.v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			l.v.AddConfigPath(filepath.Join(home, ".config", "crashkeeper"))
		}
	}

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}

func (l *Loader) setDefaults() {
	l.v.SetDefault("log.level", "info")
	l.v.SetDefault("log.format", "auto")

	l.v.SetDefault("app.name", "crashkeeper")
	l.v.SetDefault("app.version_name", "")
	l.v.SetDefault("app.version_code", 0)
	l.v.SetDefault("app.root", app.DefaultRoot("crashkeeper"))

	l.v.SetDefault("crash.grace_period", "1s")
	l.v.SetDefault("crash.exit_code", 1)
	l.v.SetDefault("crash.notify", true)
	l.v.SetDefault("crash.notify_message", "an unhandled error occurred")
	l.v.SetDefault("crash.notify_duration", "1s")
	l.v.SetDefault("crash.require_mounted_storage", false)
	l.v.SetDefault("crash.runtime_output", false)
	l.v.SetDefault("crash.max_cause_depth", 32)
}

// ConfigFile returns the config file path if one was used.
func (l *Loader) ConfigFile() string {
	return l.v.ConfigFileUsed()
}

// AppContext builds the application context described by cfg.
func (c *Config) AppContext() *app.Context {
	return &app.Context{
		Name:        c.App.Name,
		VersionName: c.App.VersionName,
		VersionCode: c.App.VersionCode,
		Root:        c.App.Root,
	}
}
