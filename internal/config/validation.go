package config

import (
	"fmt"
	"regexp"
	"strings"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// validateConfig collects every invalid value into one error.
func validateConfig(config *Config) error {
	var validationErrors []string

	validationErrors = append(validationErrors, validateLogging(config)...)
	validationErrors = append(validationErrors, validateBridge(config)...)
	validationErrors = append(validationErrors, validateWorkers(config)...)

	if len(validationErrors) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(validationErrors, "\n  - "))
	}
	return nil
}

func validateLogging(config *Config) []string {
	var validationErrors []string
	switch config.Logging.Level {
	case "trace", "debug", "info", "warn", "error", "disabled":
	default:
		validationErrors = append(validationErrors, fmt.Sprintf("logging.level must be one of: trace, debug, info, warn, error, disabled (got: %s)", config.Logging.Level))
	}
	switch config.Logging.Format {
	case "console", "json":
	default:
		validationErrors = append(validationErrors, fmt.Sprintf("logging.format must be console or json (got: %s)", config.Logging.Format))
	}
	return validationErrors
}

func validateBridge(config *Config) []string {
	var validationErrors []string
	if !identifierPattern.MatchString(config.Bridge.Namespace) {
		validationErrors = append(validationErrors, fmt.Sprintf("bridge.namespace must be a script identifier (got: %q)", config.Bridge.Namespace))
	}
	if config.Bridge.HostTimeout < 0 {
		validationErrors = append(validationErrors, "bridge.host_timeout must be non-negative")
	}
	return validationErrors
}

func validateWorkers(config *Config) []string {
	if config.Workers.Background < 1 {
		return []string{"workers.background must be at least 1"}
	}
	return nil
}
