package config

import (
	"github.com/vietddude/orglens/internal/infra/blob"
	"github.com/vietddude/orglens/internal/infra/github"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Org     string        `yaml:"org"`
	GitHub  github.Config `yaml:"github"`
	Engine  EngineConfig  `yaml:"engine"`
	Storage blob.Config   `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// EngineConfig holds batch processing settings.
type EngineConfig struct {
	BatchSize   int  `yaml:"batch_size"`
	MaxAttempts int  `yaml:"max_attempts"`
	RetryFailed bool `yaml:"retry_failed"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// MetricsConfig holds the Prometheus endpoint settings.
type MetricsConfig struct {
	Listen string `yaml:"listen"` // empty disables the endpoint
}
