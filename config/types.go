package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	// Artifactory holds the client settings map (af_url, api_key, username,
	// password, raw_response, verbose_level)
	Artifactory map[string]any `mapstructure:"artifactory"`
	Logging     LoggingConfig  `mapstructure:"logging"`
	Retry       RetryConfig    `mapstructure:"retry"`
	Batch       BatchConfig    `mapstructure:"batch"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}

// RetryConfig controls retries of failed calls made by the command line tool
type RetryConfig struct {
	MaxRetries  uint64        `mapstructure:"max_retries"`
	MaxElapsed  time.Duration `mapstructure:"max_elapsed"`
	MaxInterval time.Duration `mapstructure:"max_interval"`
}

// BatchConfig contains settings for multi-item operations
type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}
