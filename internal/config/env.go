package config

import (
	"os"
	"strings"
)

// loadFromEnv overrides config from environment variables.
func loadFromEnv(cfg *Config) {
	loadFromEnvHelper(cfg, nil, "")
}

// loadFromEnvHelper is the shared implementation for env loading.
// If sources is non-nil, it tracks the source of each value.
func loadFromEnvHelper(cfg *Config, sources map[string]ConfigSource, source ConfigSource) {
	mark := func(field string) {
		if sources != nil {
			sources[field] = source
		}
	}

	if v := os.Getenv("TASKS_DATA_DIR"); v != "" {
		cfg.DataDir = v
		mark("data_dir")
	}
	if v := os.Getenv("TASKS_STORAGE_KEY"); v != "" {
		cfg.StorageKey = v
		mark("storage_key")
	}
	if v := os.Getenv("TASKS_VALIDATE_SNAPSHOT"); v != "" {
		cfg.ValidateSnapshot = boolFromString(v)
		mark("validate_snapshot")
	}

	// Logging configuration
	if v := os.Getenv("TASKS_LOG_DIR"); v != "" {
		cfg.LogDir = v
		mark("log_dir")
	}
	if v := os.Getenv("TASKS_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
		mark("log_level")
	}
	if v := os.Getenv("TASKS_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
		mark("log_format")
	}
	if v := os.Getenv("TASKS_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
		mark("log_timestamps")
	}
	if v := os.Getenv("TASKS_LOG_CALLER"); v != "" {
		cfg.LogCaller = boolFromString(v)
		mark("log_caller")
	}
}

func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
