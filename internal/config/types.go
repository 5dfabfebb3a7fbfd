// Package config handles configuration loading and defaults.
package config

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, in load order.
	Files []string
}

// Default values.
const (
	DefaultDataDir          = "~/.tasks"
	DefaultStorageKey       = "simple-todo-items"
	DefaultLogDir           = "~/.tasks/logs"
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "text"
	DefaultValidateSnapshot = true
)

// Config holds the full configuration for tasks.
type Config struct {
	// Storage
	DataDir    string `toml:"data_dir"`
	StorageKey string `toml:"storage_key"`

	// ValidateSnapshot checks each stored record's shape on load.
	ValidateSnapshot bool `toml:"validate_snapshot"`

	// Ephemeral keeps the list in memory only (flag only).
	Ephemeral bool `toml:"-"`

	// Logging configuration
	LogDir        string `toml:"log_dir"`
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Key bindings for the interactive view
	Keys KeyMap `toml:"keys"`

	// Computed at runtime (not in config file)
	ProjectRoot string `toml:"-"`
}
