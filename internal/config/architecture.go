package config

import "fmt"

// ArchitectureConfig controls how rules are applied to the agent population.
type ArchitectureConfig struct {
	ParallelThreshold int    `yaml:"parallel_threshold" json:"parallel_threshold"` // Population size at which agents run concurrently; 0 disables
	MaxWorkers        int    `yaml:"max_workers" json:"max_workers"`               // Concurrent agents per rule
	Steps             int    `yaml:"steps" json:"steps"`                           // Steps per run
	StepInterval      string `yaml:"step_interval" json:"step_interval"`           // Pause between steps (watch mode)
}

// ValidateArchitecture checks that architecture limits are within range.
func (c *Config) ValidateArchitecture() error {
	if c.Architecture.ParallelThreshold < 0 {
		return fmt.Errorf("parallel_threshold must be >= 0")
	}
	if c.Architecture.MaxWorkers < 1 {
		return fmt.Errorf("max_workers must be >= 1")
	}
	if c.Architecture.Steps < 0 {
		return fmt.Errorf("steps must be >= 0")
	}
	return nil
}
