package config

import (
	"fmt"
	"os"
	"runtime"

	yaml "gopkg.in/yaml.v2"
)

// DefaultConfigFile is read when present and no --config flag is given.
const DefaultConfigFile = "config.yml"

// Config is the YAML configuration of scanio-tracker.
type Config struct {
	Logger   Logger   `yaml:"logger"`
	Tracking Tracking `yaml:"tracking"`
}

// Logger configures hclog output.
type Logger struct {
	Level           string `yaml:"level"`
	DisableTime     *bool  `yaml:"disable_time"`
	JSONFormat      *bool  `yaml:"json_format"`
	IncludeLocation *bool  `yaml:"include_location"`
}

// Tracking configures how raw issue snapshots are produced.
type Tracking struct {
	// Workers bounds the number of components processed in parallel.
	// Zero means one worker per CPU.
	Workers        int    `yaml:"workers"`
	NoSuppressions *bool  `yaml:"no_suppressions"`
	Output         string `yaml:"output"`
}

// ValidateConfigPath checks that path exists and is a regular file.
func ValidateConfigPath(path string) error {
	s, err := os.Stat(path)
	if err != nil {
		return err
	}
	if s.IsDir() {
		return fmt.Errorf("'%s' is a directory, not a file", path)
	}
	return nil
}

// LoadYAML decodes the YAML file at configPath into data.
func LoadYAML(configPath string, data interface{}) error {
	if err := ValidateConfigPath(configPath); err != nil {
		return err
	}

	file, err := os.Open(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	d := yaml.NewDecoder(file)
	if err := d.Decode(data); err != nil {
		return fmt.Errorf("failed to decode %q: %w", configPath, err)
	}
	return nil
}

// LoadConfig reads the configuration file. An empty path loads
// DefaultConfigFile when it exists and falls back to defaults otherwise.
func LoadConfig(configPath string) (*Config, error) {
	cfg := &Config{}
	if configPath == "" {
		if _, err := os.Stat(DefaultConfigFile); err != nil {
			return cfg, nil
		}
		configPath = DefaultConfigFile
	}

	if err := LoadYAML(configPath, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WorkerCount returns the configured number of workers, defaulting to the
// number of CPUs capped at MaxWorkers.
func WorkerCount(cfg *Config) int {
	defaultWorkers := runtime.NumCPU()
	if defaultWorkers > MaxWorkers {
		defaultWorkers = MaxWorkers
	}
	if cfg == nil {
		return defaultWorkers
	}
	return SetThen(cfg.Tracking.Workers, defaultWorkers)
}
