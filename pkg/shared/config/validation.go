package config

import (
	"fmt"
	"strings"
)

// MaxWorkers caps Tracking.Workers.
const MaxWorkers = 256

var validLogLevels = []string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR"}

// ValidateConfig checks if the global configurations have valid values.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("YAML global config: configuration object is nil")
	}
	if err := ValidateLoggerConfig(&cfg.Logger); err != nil {
		return fmt.Errorf("YAML global config: logger directive is invalid: %w", err)
	}
	if err := ValidateTrackingConfig(&cfg.Tracking); err != nil {
		return fmt.Errorf("YAML global config: tracking directive is invalid: %w", err)
	}
	return nil
}

// ValidateLoggerConfig checks the log level name.
func ValidateLoggerConfig(loggerConfig *Logger) error {
	if loggerConfig == nil {
		return fmt.Errorf("logger configuration is nil")
	}
	if loggerConfig.Level == "" {
		return nil
	}
	level := strings.ToUpper(loggerConfig.Level)
	for _, valid := range validLogLevels {
		if level == valid {
			return nil
		}
	}
	return fmt.Errorf("level must be one of %s: %q", strings.Join(validLogLevels, ", "), loggerConfig.Level)
}

// ValidateTrackingConfig checks the tracking settings.
func ValidateTrackingConfig(trackingConfig *Tracking) error {
	if trackingConfig == nil {
		return fmt.Errorf("tracking configuration is nil")
	}
	if err := ValidateWorkers(trackingConfig.Workers); err != nil {
		return err
	}
	return nil
}

// ValidateWorkers checks that a worker count is within [0, MaxWorkers].
func ValidateWorkers(workers int) error {
	if workers < 0 || workers > MaxWorkers {
		return fmt.Errorf("workers must be between 0 and %d: %d", MaxWorkers, workers)
	}
	return nil
}
