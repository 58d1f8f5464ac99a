// Package config loads crashkeeper's settings from defaults, an optional
// YAML file, CRASHKEEPER_* environment variables and command line flags.
package config

import (
	"fmt"
	"time"
)

// Config is the complete crashkeeper configuration.
type Config struct {
	Log   LogConfig   `mapstructure:"log" yaml:"log"`
	App   AppConfig   `mapstructure:"app" yaml:"app"`
	Crash CrashConfig `mapstructure:"crash" yaml:"crash"`
}

// LogConfig configures the fallback logger.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// AppConfig describes the host application.
type AppConfig struct {
	Name        string `mapstructure:"name" yaml:"name"`
	VersionName string `mapstructure:"version_name" yaml:"version_name"`
	VersionCode int    `mapstructure:"version_code" yaml:"version_code"`
	Root        string `mapstructure:"root" yaml:"root"`
}

// CrashConfig configures the crash path.
type CrashConfig struct {
	GracePeriod           string `mapstructure:"grace_period" yaml:"grace_period"`
	ExitCode              int    `mapstructure:"exit_code" yaml:"exit_code"`
	Notify                bool   `mapstructure:"notify" yaml:"notify"`
	NotifyMessage         string `mapstructure:"notify_message" yaml:"notify_message"`
	NotifyDuration        string `mapstructure:"notify_duration" yaml:"notify_duration"`
	RequireMountedStorage bool   `mapstructure:"require_mounted_storage" yaml:"require_mounted_storage"`
	RuntimeOutput         bool   `mapstructure:"runtime_output" yaml:"runtime_output"`
	MaxCauseDepth         int    `mapstructure:"max_cause_depth" yaml:"max_cause_depth"`
}

// GraceDuration parses GracePeriod.
func (c CrashConfig) GraceDuration() (time.Duration, error) {
	return parseDuration("crash.grace_period", c.GracePeriod)
}

// NotifyDisplayDuration parses NotifyDuration.
func (c CrashConfig) NotifyDisplayDuration() (time.Duration, error) {
	return parseDuration("crash.notify_duration", c.NotifyDuration)
}

func parseDuration(field, s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: negative duration %s", field, s)
	}
	return d, nil
}
