package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation: %s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors collects multiple validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Validator validates configuration.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{errors: make(ValidationErrors, 0)}
}

// Validate validates the entire configuration.
func (v *Validator) Validate(cfg *Config) error {
	v.validateLog(&cfg.Log)
	v.validateApp(&cfg.App)
	v.validateCrash(&cfg.Crash)

	if len(v.errors) > 0 {
		return v.errors
	}
	return nil
}

// Errors returns the collected validation errors.
func (v *Validator) Errors() ValidationErrors {
	return v.errors
}

func (v *Validator) addError(field string, value interface{}, msg string) {
	v.errors = append(v.errors, ValidationError{
		Field:   field,
		Value:   value,
		Message: msg,
	})
}

func (v *Validator) validateLog(cfg *LogConfig) {
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[cfg.Level] {
		v.addError("log.level", cfg.Level, "must be one of: debug, info, warn, error")
	}

	validFormats := map[string]bool{
		"auto": true, "text": true, "json": true,
	}
	if !validFormats[cfg.Format] {
		v.addError("log.format", cfg.Format, "must be one of: auto, text, json")
	}
}

func (v *Validator) validateApp(cfg *AppConfig) {
	if strings.TrimSpace(cfg.Root) == "" {
		v.addError("app.root", cfg.Root, "must not be empty")
	}
	if cfg.VersionCode < 0 {
		v.addError("app.version_code", cfg.VersionCode, "must not be negative")
	}
}

func (v *Validator) validateCrash(cfg *CrashConfig) {
	// 126 and above are reserved by shells for exec failures and signals.
	if cfg.ExitCode < 1 || cfg.ExitCode > 125 {
		v.addError("crash.exit_code", cfg.ExitCode, "must be between 1 and 125")
	}
	if _, err := cfg.GraceDuration(); err != nil {
		v.addError("crash.grace_period", cfg.GracePeriod, err.Error())
	}
	if _, err := cfg.NotifyDisplayDuration(); err != nil {
		v.addError("crash.notify_duration", cfg.NotifyDuration, err.Error())
	}
	if cfg.MaxCauseDepth < 1 {
		v.addError("crash.max_cause_depth", cfg.MaxCauseDepth, "must be at least 1")
	}
}

// ValidateConfig is a convenience function that creates a validator and validates config.
func ValidateConfig(cfg *Config) error {
	return NewValidator().Validate(cfg)
}
