package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# tasks configuration file
# Values can be overridden by environment variables (TASKS_*) or CLI flags

# Directory holding the task list (supports ~ and $VAR expansion)
data_dir = "~/.tasks"

# Storage key; the list is written to <data_dir>/<storage_key>.json
storage_key = "simple-todo-items"

# Discard stored lists whose records are not {"text": string, "done": bool}
validate_snapshot = true

# Logging
log_dir = "~/.tasks/logs"
log_level = "info"        # debug, info, warn, error
log_format = "text"       # text, json, logfmt
log_timestamps = false
log_caller = false

# Key bindings for the interactive view (bubbletea key names)
[keys]
submit = ["enter"]
focus = ["tab"]
up = ["up", "k"]
down = ["down", "j"]
toggle = [" ", "x"]
delete = ["d", "delete"]
clear = ["c"]
quit = ["q"]
`
}
