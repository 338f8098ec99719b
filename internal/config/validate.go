package config

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError represents a config validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors represents multiple validation failures.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var b strings.Builder
	b.WriteString("config validation failed:\n")
	for _, err := range e {
		b.WriteString("  - ")
		b.WriteString(err.Error())
		b.WriteString("\n")
	}
	return b.String()
}

// validLogLevels lists recognized log levels.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validManagers lists recognized supervisor drivers.
var validManagers = map[string]bool{
	"auto":      true,
	"systemctl": true,
	"dbus":      true,
}

// validSecurityModes lists recognized SMTP transport security modes.
var validSecurityModes = map[string]bool{
	"none":     true,
	"starttls": true,
	"implicit": true,
}

// Validate checks the configuration for errors.
// Returns ValidationErrors if validation fails.
func Validate(cfg *Config) error {
	var errs ValidationErrors

	if !validLogLevels[cfg.LogLevel] {
		errs = append(errs, ValidationError{
			Field:   "log_level",
			Message: fmt.Sprintf("must be one of: debug, info, warn, error; got %q", cfg.LogLevel),
		})
	}

	// Validate monitor config
	if cfg.Monitor.Host == "" {
		errs = append(errs, ValidationError{
			Field:   "monitor.host",
			Message: "must not be empty",
		})
	}

	if cfg.Monitor.Port < 1 || cfg.Monitor.Port > 65535 {
		errs = append(errs, ValidationError{
			Field:   "monitor.port",
			Message: fmt.Sprintf("must be between 1 and 65535, got %d", cfg.Monitor.Port),
		})
	}

	if cfg.Monitor.StatusCommand == "" {
		errs = append(errs, ValidationError{
			Field:   "monitor.status_command",
			Message: "must not be empty",
		})
	}

	if cfg.Monitor.LoadStatsCommand == "" {
		errs = append(errs, ValidationError{
			Field:   "monitor.load_stats_command",
			Message: "must not be empty",
		})
	}

	if cfg.Monitor.TimeoutSeconds < 1 {
		errs = append(errs, ValidationError{
			Field:   "monitor.timeout_seconds",
			Message: fmt.Sprintf("must be at least 1 second, got %d", cfg.Monitor.TimeoutSeconds),
		})
	}

	// Validate service config
	if cfg.Service.Unit == "" {
		errs = append(errs, ValidationError{
			Field:   "service.unit",
			Message: "must not be empty",
		})
	}

	if !validManagers[cfg.Service.Manager] {
		errs = append(errs, ValidationError{
			Field:   "service.manager",
			Message: fmt.Sprintf("must be one of: auto, systemctl, dbus; got %q", cfg.Service.Manager),
		})
	}

	// Validate durable state paths
	if cfg.State.Path == "" {
		errs = append(errs, ValidationError{
			Field:   "state.path",
			Message: "must not be empty",
		})
	}

	if cfg.Logbook.Path == "" {
		errs = append(errs, ValidationError{
			Field:   "logbook.path",
			Message: "must not be empty",
		})
	}

	// Validate alert config (only if enabled)
	if cfg.Alerts.Enabled {
		if cfg.Alerts.From == "" {
			errs = append(errs, ValidationError{
				Field:   "alerts.from",
				Message: "must not be empty when alerts are enabled",
			})
		}

		if len(cfg.Alerts.To) == 0 {
			errs = append(errs, ValidationError{
				Field:   "alerts.to",
				Message: "must list at least one recipient when alerts are enabled",
			})
		}

		if cfg.Alerts.SMTP.Host == "" {
			errs = append(errs, ValidationError{
				Field:   "alerts.smtp.host",
				Message: "must not be empty when alerts are enabled",
			})
		}

		if cfg.Alerts.SMTP.Port < 1 || cfg.Alerts.SMTP.Port > 65535 {
			errs = append(errs, ValidationError{
				Field:   "alerts.smtp.port",
				Message: fmt.Sprintf("must be between 1 and 65535, got %d", cfg.Alerts.SMTP.Port),
			})
		}

		if !validSecurityModes[cfg.Alerts.SMTP.Security] {
			errs = append(errs, ValidationError{
				Field:   "alerts.smtp.security",
				Message: fmt.Sprintf("must be one of: none, starttls, implicit; got %q", cfg.Alerts.SMTP.Security),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// IsValidationError checks if an error is a validation error.
func IsValidationError(err error) bool {
	var ve ValidationError
	var ves ValidationErrors
	return errors.As(err, &ve) || errors.As(err, &ves)
}
