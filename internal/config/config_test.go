package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "bdirules", cfg.Name)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 64, cfg.Architecture.ParallelThreshold)
	assert.Equal(t, 8, cfg.Architecture.MaxWorkers)
	require.NoError(t, cfg.Validate())
}

func TestConfig_SaveLoad(t *testing.T) {
	t.Setenv("BDI_LOG_LEVEL", "")
	t.Setenv("BDI_PARALLEL_THRESHOLD", "")

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Logging.Level = "debug"
	cfg.Architecture.ParallelThreshold = 10
	cfg.Ruleset.Path = "scenario.yaml"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", loaded.Logging.Level)
	assert.Equal(t, 10, loaded.Architecture.ParallelThreshold)
	assert.Equal(t, "scenario.yaml", loaded.Ruleset.Path)
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Architecture, cfg.Architecture)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging: [unclosed"), 0644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("architecture:\n  max_workers: 2\n"), 0644))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Architecture.MaxWorkers)
	assert.Equal(t, 64, cfg.Architecture.ParallelThreshold)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }},
		{"negative threshold", func(c *Config) { c.Architecture.ParallelThreshold = -1 }},
		{"no workers", func(c *Config) { c.Architecture.MaxWorkers = 0 }},
		{"negative steps", func(c *Config) { c.Architecture.Steps = -3 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestGetStepInterval(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Architecture.StepInterval = "250ms"
	assert.Equal(t, int64(250), cfg.GetStepInterval().Milliseconds())
	cfg.Architecture.StepInterval = "soon"
	assert.Zero(t, cfg.GetStepInterval())
}

func TestLoggingConfig_IsCategoryEnabled(t *testing.T) {
	c := LoggingConfig{}
	assert.True(t, c.IsCategoryEnabled("rule"))

	c.Categories = map[string]bool{"rule": false, "store": true}
	assert.False(t, c.IsCategoryEnabled("rule"))
	assert.True(t, c.IsCategoryEnabled("store"))
	assert.True(t, c.IsCategoryEnabled("architecture"))
}
