package config

import (
	"flag"
)

// flagFields maps global flag names to the config field they set.
var flagFields = map[string]string{
	"data-dir":          "data_dir",
	"key":               "storage_key",
	"validate-snapshot": "validate_snapshot",
	"log-dir":           "log_dir",
	"log-level":         "log_level",
	"log-format":        "log_format",
}

// parseFlags defines and parses CLI flags.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	return parseFlagsHelper(cfg, fs, args, nil, "")
}

// parseFlagsHelper binds the global flags to cfg, parses args, and marks
// explicitly set flags in sources when sources is non-nil.
func parseFlagsHelper(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource, source ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("tasks", flag.ContinueOnError)
	}

	// Storage
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Directory holding the task list")
	fs.StringVar(&cfg.StorageKey, "key", cfg.StorageKey, "Storage key (file name) of the task list")
	fs.BoolVar(&cfg.ValidateSnapshot, "validate-snapshot", cfg.ValidateSnapshot, "Discard stored lists whose records are not {text, done}")
	fs.BoolVar(&cfg.Ephemeral, "ephemeral", cfg.Ephemeral, "Keep the list in memory only")

	// Logging
	fs.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Log directory")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug|info|warn|error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text|json|logfmt)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if sources != nil {
		fs.Visit(func(f *flag.Flag) {
			if field, ok := flagFields[f.Name]; ok {
				sources[field] = source
			}
		})
	}

	return nil
}
