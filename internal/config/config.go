// Package config loads service configuration from defaults, an optional
// YAML file, a .env file and environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all service configuration
type Config struct {
	Port              string `yaml:"port" validate:"required,numeric"`
	RedisAddr         string `yaml:"redis_addr"`
	WorkerConcurrency int    `yaml:"worker_concurrency" validate:"gte=1,lte=100"`
	MinKeywordCount   int    `yaml:"min_keyword_count" validate:"gte=1"`
	MaxUploadMB       int64  `yaml:"max_upload_mb" validate:"gte=1,lte=512"`
	TracingEnabled    bool   `yaml:"tracing_enabled"`
	OTLPEndpoint      string `yaml:"otlp_endpoint" validate:"required_if=TracingEnabled true"`
	LogLevel          string `yaml:"log_level" validate:"oneof=debug info warn error"`
	ServiceName       string `yaml:"service_name" validate:"required"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Port:              "8080",
		WorkerConcurrency: 5,
		MinKeywordCount:   3,
		MaxUploadMB:       10,
		OTLPEndpoint:      "localhost:4317",
		LogLevel:          "info",
		ServiceName:       "reviewinsights",
	}
}

// Load builds the configuration. The YAML file at CONFIG_PATH (default
// config.yaml) is optional; a .env file in the working directory is loaded
// if present and never overrides variables already set.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if err := cfg.loadFile(getEnv("CONFIG_PATH", "config.yaml")); err != nil {
		return Config{}, err
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Port = getEnv("PORT", c.Port)
	c.RedisAddr = getEnv("REDIS_ADDR", c.RedisAddr)
	c.WorkerConcurrency = getEnvInt("WORKER_CONCURRENCY", c.WorkerConcurrency)
	c.MinKeywordCount = getEnvInt("MIN_KEYWORD_COUNT", c.MinKeywordCount)
	c.MaxUploadMB = int64(getEnvInt("MAX_UPLOAD_MB", int(c.MaxUploadMB)))
	c.TracingEnabled = getEnvBool("TRACING_ENABLED", c.TracingEnabled)
	c.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", c.OTLPEndpoint)
	c.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", c.LogLevel))
	c.ServiceName = getEnv("SERVICE_NAME", c.ServiceName)
}

// Validate checks field constraints
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// QueueEnabled reports whether background analysis is configured
func (c Config) QueueEnabled() bool {
	return c.RedisAddr != ""
}

// MaxUploadBytes returns the upload limit in bytes
func (c Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

// SlogLevel maps LogLevel to a slog level
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns a default value
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		slog.Warn("ignoring non-integer environment variable", "key", key, "value", value)
	}
	return defaultValue
}
