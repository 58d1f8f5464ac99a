package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Log: LogConfig{Level: "info", Format: "auto"},
		App: AppConfig{Name: "crashkeeper", Root: "/tmp/crashkeeper"},
		Crash: CrashConfig{
			GracePeriod:    "1s",
			ExitCode:       1,
			NotifyDuration: "2s",
			MaxCauseDepth:  32,
		},
	}
}

func TestValidator_Valid(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateConfig(validConfig()))
}

func TestValidator_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"log level", func(c *Config) { c.Log.Level = "trace" }, "log.level"},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"empty root", func(c *Config) { c.App.Root = " " }, "app.root"},
		{"negative version code", func(c *Config) { c.App.VersionCode = -1 }, "app.version_code"},
		{"zero exit code", func(c *Config) { c.Crash.ExitCode = 0 }, "crash.exit_code"},
		{"exit code too large", func(c *Config) { c.Crash.ExitCode = 126 }, "crash.exit_code"},
		{"unparsable grace", func(c *Config) { c.Crash.GracePeriod = "soon" }, "crash.grace_period"},
		{"negative grace", func(c *Config) { c.Crash.GracePeriod = "-1s" }, "crash.grace_period"},
		{"negative notify duration", func(c *Config) { c.Crash.NotifyDuration = "-5ms" }, "crash.notify_duration"},
		{"cause depth", func(c *Config) { c.Crash.MaxCauseDepth = 0 }, "crash.max_cause_depth"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := ValidateConfig(cfg)
			require.Error(t, err)

			var verrs ValidationErrors
			require.True(t, errors.As(err, &verrs))
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.field, verrs[0].Field)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestValidator_CollectsAll(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Log.Level = "loud"
	cfg.Crash.ExitCode = -3

	v := NewValidator()
	require.Error(t, v.Validate(cfg))
	assert.True(t, v.Errors().HasErrors())
	assert.Len(t, v.Errors(), 2)
}

func TestCrashConfig_EmptyDurations(t *testing.T) {
	t.Parallel()

	d, err := CrashConfig{}.GraceDuration()
	require.NoError(t, err)
	assert.Zero(t, d)
}
