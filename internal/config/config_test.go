// Package config tests configuration loading.
package config

import (
	"flag"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"
)

// isolate points HOME and the working directory at empty temp dirs so no
// real config file leaks into a test.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	for _, name := range []string{
		"TASKS_DATA_DIR", "TASKS_STORAGE_KEY", "TASKS_VALIDATE_SNAPSHOT",
		"TASKS_LOG_DIR", "TASKS_LOG_LEVEL", "TASKS_LOG_FORMAT",
		"TASKS_LOG_TIMESTAMPS", "TASKS_LOG_CALLER",
	} {
		t.Setenv(name, "")
	}

	wd := t.TempDir()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(wd); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(old) })
	return home
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	if cfg.DataDir != DefaultDataDir {
		t.Errorf("DataDir: got %q, want %q", cfg.DataDir, DefaultDataDir)
	}
	if cfg.StorageKey != DefaultStorageKey {
		t.Errorf("StorageKey: got %q, want %q", cfg.StorageKey, DefaultStorageKey)
	}
	if !cfg.ValidateSnapshot {
		t.Error("ValidateSnapshot: got false, want true")
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Errorf("logging defaults: got %q/%q", cfg.LogLevel, cfg.LogFormat)
	}
	if err := cfg.Keys.Validate(); err != nil {
		t.Errorf("default key map invalid: %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TASKS_DATA_DIR", "/tmp/tasks-data")
	t.Setenv("TASKS_STORAGE_KEY", "work")
	t.Setenv("TASKS_VALIDATE_SNAPSHOT", "no")
	t.Setenv("TASKS_LOG_LEVEL", "debug")
	t.Setenv("TASKS_LOG_FORMAT", "json")
	t.Setenv("TASKS_LOG_TIMESTAMPS", "yes")
	t.Setenv("TASKS_LOG_CALLER", "1")

	cfg := &Config{}
	setDefaults(cfg)
	loadFromEnv(cfg)

	if cfg.DataDir != "/tmp/tasks-data" {
		t.Errorf("DataDir: got %q", cfg.DataDir)
	}
	if cfg.StorageKey != "work" {
		t.Errorf("StorageKey: got %q", cfg.StorageKey)
	}
	if cfg.ValidateSnapshot {
		t.Error("ValidateSnapshot: got true, want false")
	}
	if cfg.LogLevel != "debug" || cfg.LogFormat != "json" {
		t.Errorf("logging: got %q/%q", cfg.LogLevel, cfg.LogFormat)
	}
	if !cfg.LogTimestamps || !cfg.LogCaller {
		t.Errorf("LogTimestamps/LogCaller: got %v/%v", cfg.LogTimestamps, cfg.LogCaller)
	}
}

func TestLoadConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "tasks.toml")

	content := []byte(`storage_key = "groceries"
validate_snapshot = false

[keys]
toggle = ["t"]
`)
	if err := os.WriteFile(configFile, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg := &Config{}
	setDefaults(cfg)
	if err := loadConfigFile(cfg, configFile); err != nil {
		t.Fatalf("loadConfigFile: %v", err)
	}

	if cfg.StorageKey != "groceries" {
		t.Errorf("StorageKey: got %q, want groceries", cfg.StorageKey)
	}
	if cfg.ValidateSnapshot {
		t.Error("ValidateSnapshot: got true, want false")
	}
	if !reflect.DeepEqual(cfg.Keys.Toggle, []string{"t"}) {
		t.Errorf("Keys.Toggle: got %v, want [t]", cfg.Keys.Toggle)
	}
	if !reflect.DeepEqual(cfg.Keys.Delete, DefaultKeyMap().Delete) {
		t.Errorf("Keys.Delete should keep its default, got %v", cfg.Keys.Delete)
	}
}

func TestLoadConfigFileInvalid(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "tasks.toml")
	os.WriteFile(configFile, []byte("storage_key = \n"), 0644)

	cfg := &Config{}
	if err := loadConfigFile(cfg, configFile); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadPriority(t *testing.T) {
	home := isolate(t)

	userDir := filepath.Join(home, ".tasks")
	os.MkdirAll(userDir, 0755)
	os.WriteFile(filepath.Join(userDir, "tasks.toml"), []byte(`storage_key = "user"
log_level = "warn"
log_format = "logfmt"
`), 0644)
	os.WriteFile("tasks.toml", []byte(`storage_key = "project"
log_level = "error"
`), 0644)
	t.Setenv("TASKS_LOG_LEVEL", "debug")

	fs := flag.NewFlagSet("tasks", flag.ContinueOnError)
	loaded, err := LoadWithSources(fs, []string{"--data-dir", "data", "ls"})
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}
	cfg := loaded.Config

	if cfg.StorageKey != "project" {
		t.Errorf("StorageKey: got %q, want project", cfg.StorageKey)
	}
	if cfg.LogFormat != "logfmt" {
		t.Errorf("LogFormat: got %q, want logfmt", cfg.LogFormat)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel: got %q, want debug", cfg.LogLevel)
	}
	wd, _ := os.Getwd()
	if cfg.DataDir != filepath.Join(wd, "data") {
		t.Errorf("DataDir: got %q, want %q", cfg.DataDir, filepath.Join(wd, "data"))
	}
	if got := fs.Args(); len(got) != 1 || got[0] != "ls" {
		t.Errorf("remaining args: got %v, want [ls]", got)
	}

	wantSources := map[string]ConfigSource{
		"storage_key": SourceProjFile,
		"log_format":  SourceUserFile,
		"log_level":   SourceEnv,
		"data_dir":    SourceFlag,
		"log_dir":     SourceDefault,
	}
	for field, want := range wantSources {
		if got := loaded.Sources[field]; got != want {
			t.Errorf("Sources[%s]: got %q, want %q", field, got, want)
		}
	}
	if len(loaded.Files) != 2 {
		t.Errorf("Files: got %v, want user and project files", loaded.Files)
	}
}

func TestLoadDefaultsExpandHome(t *testing.T) {
	home := isolate(t)

	cfg, err := Load(flag.NewFlagSet("tasks", flag.ContinueOnError), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DataDir != filepath.Join(home, ".tasks") {
		t.Errorf("DataDir: got %q, want %q", cfg.DataDir, filepath.Join(home, ".tasks"))
	}
	if cfg.LogDir != filepath.Join(home, ".tasks", "logs") {
		t.Errorf("LogDir: got %q", cfg.LogDir)
	}
}

func TestLoadRejectsEmptyKey(t *testing.T) {
	isolate(t)
	_, err := Load(flag.NewFlagSet("tasks", flag.ContinueOnError), []string{"--key", ""})
	if err == nil || !strings.Contains(err.Error(), "storage_key") {
		t.Errorf("expected storage_key error, got %v", err)
	}
}

func TestParseFlagsEphemeral(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)
	fs := flag.NewFlagSet("tasks", flag.ContinueOnError)
	if err := parseFlags(cfg, fs, []string{"--ephemeral", "--validate-snapshot=false"}); err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if !cfg.Ephemeral {
		t.Error("Ephemeral: got false, want true")
	}
	if cfg.ValidateSnapshot {
		t.Error("ValidateSnapshot: got true, want false")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	t.Setenv("TASKS_TEST_DIR", "/srv/tasks")

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"~", home},
		{"~/data", filepath.Join(home, "data")},
		{"$TASKS_TEST_DIR/data", "/srv/tasks/data"},
		{"/abs/path", "/abs/path"},
		{"rel/~/path", "rel/~/path"},
	}
	for _, tt := range tests {
		if got := expandPath(tt.in); got != tt.want {
			t.Errorf("expandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExpandPercentVars(t *testing.T) {
	t.Setenv("TASKS_PCT", "X")
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"%TASKS_PCT%", "X"},
		{"a%TASKS_PCT%b%TASKS_PCT%c", "aXbXc"},
		{"%TASKS_UNSET_VAR%\\x", "%TASKS_UNSET_VAR%\\x"},
		{"50%", "50%"},
		{"a%TASKS_PCT%b%tail", "aXb%tail"},
	}
	for _, tt := range tests {
		if got := expandPercentVars(tt.in); got != tt.want {
			t.Errorf("expandPercentVars(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFindUserConfigFileOSDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG lookup only applies on linux")
	}
	home := isolate(t)
	dir := filepath.Join(home, ".config", "tasks")
	os.MkdirAll(dir, 0755)
	path := filepath.Join(dir, "tasks.toml")
	os.WriteFile(path, []byte(""), 0644)

	if got := findUserConfigFile(); got != path {
		t.Errorf("findUserConfigFile() = %q, want %q", got, path)
	}
}

func TestExampleConfigParses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.toml")
	os.WriteFile(path, []byte(ExampleConfig()), 0644)

	cfg := &Config{}
	if err := loadConfigFile(cfg, path); err != nil {
		t.Fatalf("example config does not parse: %v", err)
	}
	if !reflect.DeepEqual(cfg.Keys, DefaultKeyMap()) {
		t.Errorf("example keys differ from defaults: %+v", cfg.Keys)
	}
	if cfg.StorageKey != DefaultStorageKey {
		t.Errorf("example storage_key: got %q", cfg.StorageKey)
	}
}
