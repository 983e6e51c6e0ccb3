package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/s0up4200/rtclient/artifactory"
)

// envPrefix is prepended to environment overrides, e.g. RTCLIENT_ARTIFACTORY_API_KEY
const envPrefix = "RTCLIENT"

// envSettings are the artifactory keys that may come from the environment
var envSettings = []string{
	artifactory.KeyURL,
	artifactory.KeyAPIKey,
	artifactory.KeyUsername,
	artifactory.KeyPassword,
}

// Load loads the configuration from file and environment. Without an
// explicit path a missing config file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envSettings {
		if err := v.BindEnv("artifactory." + key); err != nil {
			return nil, fmt.Errorf("error binding environment: %w", err)
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		v.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".rtclient"))
		}

		v.AddConfigPath("/etc/rtclient/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configPath != "" {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)

	// Retry defaults
	v.SetDefault("retry.max_retries", 0)
	v.SetDefault("retry.max_elapsed", "20s")
	v.SetDefault("retry.max_interval", "2s")

	// Batch defaults
	v.SetDefault("batch.concurrency", artifactory.DefaultConcurrency)
}

// Settings converts the artifactory section into validated client settings
func (c *Config) Settings() (artifactory.Settings, error) {
	return artifactory.ParseSettings(c.Artifactory)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if _, err := cfg.Settings(); err != nil {
		return fmt.Errorf("artifactory: %w", err)
	}

	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	if cfg.Retry.MaxElapsed < 0 || cfg.Retry.MaxInterval < 0 {
		return fmt.Errorf("retry durations must not be negative")
	}

	if cfg.Batch.Concurrency < 1 || cfg.Batch.Concurrency > artifactory.MaxConcurrency {
		return fmt.Errorf("invalid batch.concurrency: %d (must be between 1 and %d)",
			cfg.Batch.Concurrency, artifactory.MaxConcurrency)
	}

	return nil
}
