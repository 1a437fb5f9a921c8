package config

import (
	"time"

	redisclient "github.com/blushlabs/resilience/internal/infra/redis"
	"github.com/blushlabs/resilience/internal/infra/storage/postgres"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server   ServerConfig       `yaml:"server"`
	Store    StoreConfig        `yaml:"store"`
	History  HistoryConfig      `yaml:"history"`
	Recovery RecoveryConfig     `yaml:"recovery"`
	Logging  LoggingConfig      `yaml:"logging"`
	Redis    redisclient.Config `yaml:"redis"`
	Database postgres.Config    `yaml:"database"`
}

// ServerConfig holds diagnostics HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// StoreConfig holds file store settings.
type StoreConfig struct {
	Root         string `yaml:"root"`
	MinFreeBytes uint64 `yaml:"min_free_bytes"`
}

// HistoryConfig bounds the in-memory error history.
type HistoryConfig struct {
	Capacity int `yaml:"capacity"`
}

// RecoveryConfig holds backoff settings for the file-system Retry strategy.
type RecoveryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	BaseDelay   time.Duration `yaml:"base_delay"`
	MaxDelay    time.Duration `yaml:"max_delay"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}
