package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all bdirules configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`

	// Rule application across the agent population
	Architecture ArchitectureConfig `yaml:"architecture"`

	// Scenario file holding rules and agents
	Ruleset RulesetConfig `yaml:"ruleset"`
}

// RulesetConfig locates the scenario file.
type RulesetConfig struct {
	Path  string `yaml:"path"`
	Watch bool   `yaml:"watch"` // Reload rules when the file changes
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "bdirules",
		Version: "0.3.0",

		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},

		Architecture: ArchitectureConfig{
			ParallelThreshold: 64,
			MaxWorkers:        8,
			Steps:             1,
			StepInterval:      "0s",
		},
	}
}

// Load reads a YAML config file. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save writes the configuration as YAML, creating the directory if needed.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies BDI_* environment variables on top of the file.
// Malformed numbers are ignored.
func (c *Config) applyEnvOverrides() {
	if level := os.Getenv("BDI_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if format := os.Getenv("BDI_LOG_FORMAT"); format != "" {
		c.Logging.Format = format
	}
	if v := os.Getenv("BDI_PARALLEL_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Architecture.ParallelThreshold = n
		}
	}
	if v := os.Getenv("BDI_MAX_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Architecture.MaxWorkers = n
		}
	}
	if path := os.Getenv("BDI_RULESET"); path != "" {
		c.Ruleset.Path = path
	}
}

// GetStepInterval returns the pause between steps, 0 when unset or invalid.
func (c *Config) GetStepInterval() time.Duration {
	d, err := time.ParseDuration(c.Architecture.StepInterval)
	if err != nil {
		return 0
	}
	return d
}

// ValidLogLevels lists accepted logging levels.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	validLevel := false
	for _, l := range ValidLogLevels {
		if c.Logging.Level == l {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.Logging.Level, ValidLogLevels)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("invalid log format: %s (valid: json, console)", c.Logging.Format)
	}
	return c.ValidateArchitecture()
}
