// Package logging provides config-driven categorized logging for bdirules.
// Each category is a named child of one zap logger; categories switched off
// in the logging config receive a no-op logger.
package logging

import (
	"fmt"
	"sync"

	"bdirules/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot         Category = "boot"         // CLI startup, config loading
	CategoryRule         Category = "rule"         // Rule evaluation outcomes
	CategoryArchitecture Category = "architecture" // Steps over the agent population
	CategoryRuleset      Category = "ruleset"      // Scenario parsing and reloads
	CategoryStore        Category = "store"        // Base snapshots and lifetime expiry
)

var (
	base      = zap.NewNop()
	logCfg    config.LoggingConfig
	loggers   = make(map[Category]*zap.Logger)
	loggersMu sync.RWMutex
)

// Build creates a zap logger for the given logging config. The json format
// uses the production encoder, anything else the development console encoder.
func Build(cfg config.LoggingConfig) (*zap.Logger, error) {
	var zc zap.Config
	if cfg.Format == "json" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}

	level := zapcore.InfoLevel
	if cfg.Level != "" {
		parsed, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	return zc.Build()
}

// Initialize builds the root logger from cfg and installs it.
func Initialize(cfg config.LoggingConfig) (*zap.Logger, error) {
	l, err := Build(cfg)
	if err != nil {
		return nil, err
	}
	Use(l, cfg)
	return l, nil
}

// Use installs l as the root logger. Category loggers handed out before the
// call keep writing to the previous root.
func Use(l *zap.Logger, cfg config.LoggingConfig) {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if l == nil {
		l = zap.NewNop()
	}
	base = l
	logCfg = cfg
	loggers = make(map[Category]*zap.Logger)
}

// IsCategoryEnabled checks the installed config for a category.
func IsCategoryEnabled(category Category) bool {
	loggersMu.RLock()
	defer loggersMu.RUnlock()
	return logCfg.IsCategoryEnabled(string(category))
}

// Get returns the logger for a category.
func Get(category Category) *zap.Logger {
	loggersMu.RLock()
	if l, ok := loggers[category]; ok {
		loggersMu.RUnlock()
		return l
	}
	loggersMu.RUnlock()

	loggersMu.Lock()
	defer loggersMu.Unlock()

	if l, ok := loggers[category]; ok {
		return l
	}

	var l *zap.Logger
	if logCfg.IsCategoryEnabled(string(category)) {
		l = base.Named(string(category))
	} else {
		l = zap.NewNop()
	}
	loggers[category] = l
	return l
}

// Sync flushes the root logger.
func Sync() error {
	loggersMu.RLock()
	defer loggersMu.RUnlock()
	return base.Sync()
}
