package config

import (
	"os"
	"strconv"
	"strings"

	"hypersample/domain/space"
	"hypersample/internal"
	"hypersample/internal/errors"
	"hypersample/internal/render"
	"hypersample/internal/sampler"
)

// Config represents the complete application configuration
type Config struct {
	Sampler SamplerConfig
	Render  RenderConfig
	Log     LogConfig
}

// SamplerConfig holds sampling settings
type SamplerConfig struct {
	// Seed of zero draws a fresh wall-clock seed per run
	Seed          int64
	MaxAttempts   int
	Discriminator string
	// SpaceFile, when set, replaces the built-in parameter space
	SpaceFile string
}

// RenderConfig holds command rendering settings
type RenderConfig struct {
	CommandPrefix string
}

// LogConfig holds logging settings
type LogConfig struct {
	Level internal.LogLevel
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	samplerConfig, err := loadSamplerConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load sampler configuration")
	}

	logConfig, err := loadLogConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load log configuration")
	}

	config := &Config{
		Sampler: *samplerConfig,
		Render:  *loadRenderConfig(),
		Log:     *logConfig,
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadSamplerConfig() (*SamplerConfig, error) {
	seed, err := getEnvInt64OrDefault("SAMPLER_SEED", 0)
	if err != nil {
		return nil, err
	}
	attempts, err := getEnvIntOrDefault("SAMPLER_MAX_ATTEMPTS", sampler.DefaultMaxAttempts)
	if err != nil {
		return nil, err
	}

	return &SamplerConfig{
		Seed:          seed,
		MaxAttempts:   attempts,
		Discriminator: getEnvOrDefault("SAMPLER_DISCRIMINATOR", space.DefaultDiscriminator),
		SpaceFile:     getEnvOrDefault("SPACE_FILE", ""),
	}, nil
}

func loadRenderConfig() *RenderConfig {
	return &RenderConfig{
		CommandPrefix: getEnvOrDefault("COMMAND_PREFIX", render.DefaultPrefix),
	}
}

func loadLogConfig() (*LogConfig, error) {
	levelStr := getEnvOrDefault("LOG_LEVEL", "INFO")
	level, ok := internal.ParseLogLevel(levelStr)
	if !ok {
		return nil, errors.ConfigInvalid("LOG_LEVEL must be one of ERROR, WARN, INFO, DEBUG, TRACE, got " + levelStr)
	}
	return &LogConfig{Level: level}, nil
}

// Validate checks cross-field constraints; flags may change fields after Load
func (c *Config) Validate() error {
	if c.Sampler.MaxAttempts < 1 {
		return errors.ConfigInvalid("sampler max attempts must be positive")
	}
	if strings.TrimSpace(c.Sampler.Discriminator) == "" {
		return errors.ConfigInvalid("sampler discriminator is required")
	}
	if strings.TrimSpace(c.Render.CommandPrefix) == "" {
		return errors.ConfigInvalid("command prefix is required")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.ConfigInvalid(key + " must be an integer, got " + value)
	}
	return intValue, nil
}

func getEnvInt64OrDefault(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	intValue, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, errors.ConfigInvalid(key + " must be an integer, got " + value)
	}
	return intValue, nil
}
