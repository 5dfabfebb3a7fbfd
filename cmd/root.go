// Package cmd implements the CLI command structure for tasks.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasks-go/internal/config"
	"github.com/nibzard/tasks-go/internal/logging"
	"github.com/nibzard/tasks-go/internal/todo"
	"github.com/nibzard/tasks-go/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Run executes the tasks CLI.
func Run(ctx context.Context, args []string) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("tasks", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs, os.Stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	loaded, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := loaded.Config
	if *help {
		printUsage(fs, os.Stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	// Determine the subcommand
	// If no args or first arg is a flag, use "tui" as default
	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 {
		if !strings.HasPrefix(remainingArgs[0], "-") {
			subcommand = remainingArgs[0]
			remainingArgs = remainingArgs[1:]
		}
	}

	switch subcommand {
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "ls", "list":
		return lsCommand(cfg, remainingArgs)
	case "add":
		return addCommand(cfg, remainingArgs)
	case "toggle", "done":
		return toggleCommand(cfg, remainingArgs)
	case "rm", "remove":
		return rmCommand(cfg, remainingArgs)
	case "clear":
		return clearCommand(cfg, remainingArgs)
	case "doctor":
		return doctorCommand(loaded, remainingArgs)
	case "config":
		return configCommand(loaded, remainingArgs)
	case "tail":
		return tailCommand(ctx, cfg, remainingArgs)
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, os.Stdout)
		return nil
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, os.Stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// consoleLogger returns the logger used by one-shot commands.
func consoleLogger(cfg *config.Config) *log.Logger {
	return logging.New(os.Stderr, logging.OptionsFromConfig(cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller))
}

// newSlot picks the storage behind the snapshot.
func newSlot(cfg *config.Config) todo.Slot {
	if cfg.Ephemeral {
		return todo.NewMemorySlot()
	}
	return todo.NewFileSlot(cfg.DataDir)
}

func newSnapshot(cfg *config.Config, slot todo.Slot, logger *log.Logger) (*todo.Snapshot, error) {
	snap, err := todo.NewSnapshot(slot, cfg.StorageKey,
		todo.WithValidation(cfg.ValidateSnapshot),
		todo.WithSnapshotLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot: %w", err)
	}
	return snap, nil
}

// openController loads the stored list for a one-shot command.
func openController(cfg *config.Config) (*todo.Controller, error) {
	logger := consoleLogger(cfg)
	snap, err := newSnapshot(cfg, newSlot(cfg), logger)
	if err != nil {
		return nil, err
	}
	return todo.Open(snap, todo.WithLogger(logger)), nil
}

// mutate runs op against the stored list and prints the result once,
// whether or not op changed anything.
func mutate(cfg *config.Config, countOnly bool, op func(*todo.Controller) error) error {
	ctrl, err := openController(cfg)
	if err != nil {
		return err
	}
	opErr := op(ctrl)
	ctrl.SetRenderer(ui.PlainRenderer{W: os.Stdout, CountOnly: countOnly})
	ctrl.Render()
	return opErr
}

// tuiCommand launches the interactive view.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tasks tui", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	logger := logging.Discard()
	run, err := logging.OpenRunLog(cfg.LogDir)
	if err != nil {
		consoleLogger(cfg).Warn("Session log disabled", "dir", cfg.LogDir, "err", err)
	} else {
		defer run.Close()
		logger = logging.New(run.Writer(), logging.OptionsFromConfig(cfg.LogLevel, cfg.LogFormat, true, cfg.LogCaller))
	}

	snap, err := newSnapshot(cfg, newSlot(cfg), logger)
	if err != nil {
		return err
	}
	ctrl := todo.Open(snap, todo.WithLogger(logger))
	logger.Info("Session started", "key", cfg.StorageKey, "tasks", len(ctrl.Tasks()), "ephemeral", cfg.Ephemeral)

	if err := ui.RunTUI(ctx, ctrl, cfg.Keys); err != nil {
		logger.Error("Session aborted", "err", err)
		return err
	}
	logger.Info("Session ended", "tasks", len(ctrl.Tasks()))
	return nil
}

// lsCommand prints the list, the empty state, and the count.
func lsCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tasks ls", flag.ContinueOnError)
	countOnly := fs.Bool("count", false, "Only print the count line")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	ctrl, err := openController(cfg)
	if err != nil {
		return err
	}
	ui.WritePlain(os.Stdout, ctrl.Tasks(), *countOnly)
	return nil
}

// addCommand appends one task built from the remaining arguments.
func addCommand(cfg *config.Config, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: tasks add <text>")
	}
	text := strings.Join(args, " ")
	return mutate(cfg, true, func(c *todo.Controller) error {
		return c.Add(text)
	})
}

// toggleCommand flips the task at a 1-based row number.
func toggleCommand(cfg *config.Config, args []string) error {
	index, err := parseRow("toggle", args)
	if err != nil {
		return err
	}
	return mutate(cfg, false, func(c *todo.Controller) error {
		return c.Toggle(index)
	})
}

// rmCommand deletes the task at a 1-based row number.
func rmCommand(cfg *config.Config, args []string) error {
	index, err := parseRow("rm", args)
	if err != nil {
		return err
	}
	return mutate(cfg, false, func(c *todo.Controller) error {
		return c.Remove(index)
	})
}

// clearCommand drops every done task.
func clearCommand(cfg *config.Config, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	return mutate(cfg, false, func(c *todo.Controller) error {
		return c.ClearCompleted()
	})
}

// parseRow converts a 1-based row number to a list index. Numbers outside
// the list are left for the store to ignore.
func parseRow(command string, args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("usage: tasks %s <n>", command)
	}
	n, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return 0, fmt.Errorf("invalid task number %q: %w", args[0], err)
	}
	return n - 1, nil
}

// doctorCommand checks config, key bindings, storage, and the stored list.
func doctorCommand(loaded *config.ConfigWithSources, args []string) error {
	fs := flag.NewFlagSet("tasks doctor", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg := loaded.Config

	fmt.Println("Tasks Doctor")
	fmt.Println("============")
	fmt.Println()

	allOK := true

	fmt.Println("Config files:")
	if len(loaded.Files) == 0 {
		fmt.Println("  (none, using defaults)")
	}
	for _, f := range loaded.Files {
		fmt.Printf("  %s\n", f)
	}
	fmt.Println()

	fmt.Println("Key bindings:")
	if err := cfg.Keys.Validate(); err != nil {
		fmt.Printf("  ❌ %v\n", err)
		allOK = false
	} else {
		fmt.Println("  ✅ OK")
	}
	fmt.Println()

	fmt.Printf("Data dir: %s\n", cfg.DataDir)
	if !checkDir(cfg.DataDir) {
		allOK = false
	}
	fmt.Println()

	fmt.Printf("Log dir: %s\n", cfg.LogDir)
	if !checkDir(cfg.LogDir) {
		allOK = false
	}
	fmt.Println()

	slot := todo.NewFileSlot(cfg.DataDir)
	fmt.Printf("Stored list: %s\n", slot.Path(cfg.StorageKey))
	snap, err := newSnapshot(cfg, slot, logging.Discard())
	if err != nil {
		fmt.Printf("  ❌ %v\n", err)
		allOK = false
	} else {
		result := snap.Check()
		switch {
		case !result.Valid:
			fmt.Println("  ⚠️  Would be discarded on load:")
			for _, e := range result.Errors {
				fmt.Printf("    - %v\n", e)
			}
			allOK = false
		case !result.Present:
			fmt.Println("  ✅ Not created yet (starts empty)")
		default:
			fmt.Printf("  ✅ OK (%d tasks)\n", result.Tasks)
		}
	}
	fmt.Println()

	if allOK {
		fmt.Println("✅ All checks passed.")
		return nil
	}
	fmt.Println("⚠️  Some checks failed.")
	return fmt.Errorf("doctor checks failed")
}

// checkDir reports a directory that exists or can be created later.
func checkDir(dir string) bool {
	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		fmt.Println("  ✅ Not created yet")
		return true
	case err != nil:
		fmt.Printf("  ❌ Error: %v\n", err)
		return false
	case !info.IsDir():
		fmt.Println("  ❌ Not a directory")
		return false
	default:
		fmt.Println("  ✅ OK")
		return true
	}
}

// configCommand prints the effective configuration and where each value
// came from.
func configCommand(loaded *config.ConfigWithSources, args []string) error {
	fs := flag.NewFlagSet("tasks config", flag.ContinueOnError)
	example := fs.Bool("example", false, "Print an example config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *example {
		fmt.Print(config.ExampleConfig())
		return nil
	}

	cfg := loaded.Config
	for _, field := range config.ConfigFields() {
		fmt.Printf("%-18s = %-32s (%s)\n", field, configValue(cfg, field), loaded.Sources[field])
	}
	if cfg.Ephemeral {
		fmt.Printf("%-18s = %s\n", "ephemeral", "true")
	}
	if len(loaded.Files) > 0 {
		fmt.Println()
		fmt.Println("Files:")
		for _, f := range loaded.Files {
			fmt.Printf("  %s\n", f)
		}
	}
	return nil
}

// configValue formats a tracked config field for display.
func configValue(cfg *config.Config, field string) string {
	switch field {
	case "data_dir":
		return cfg.DataDir
	case "storage_key":
		return cfg.StorageKey
	case "validate_snapshot":
		return strconv.FormatBool(cfg.ValidateSnapshot)
	case "log_dir":
		return cfg.LogDir
	case "log_level":
		return cfg.LogLevel
	case "log_format":
		return cfg.LogFormat
	case "log_timestamps":
		return strconv.FormatBool(cfg.LogTimestamps)
	case "log_caller":
		return strconv.FormatBool(cfg.LogCaller)
	case "keys.submit":
		return formatKeys(cfg.Keys.Submit)
	case "keys.focus":
		return formatKeys(cfg.Keys.Focus)
	case "keys.up":
		return formatKeys(cfg.Keys.Up)
	case "keys.down":
		return formatKeys(cfg.Keys.Down)
	case "keys.toggle":
		return formatKeys(cfg.Keys.Toggle)
	case "keys.delete":
		return formatKeys(cfg.Keys.Delete)
	case "keys.clear":
		return formatKeys(cfg.Keys.Clear)
	case "keys.quit":
		return formatKeys(cfg.Keys.Quit)
	}
	return ""
}

func formatKeys(keys []string) string {
	quoted := make([]string, 0, len(keys))
	for _, k := range keys {
		quoted = append(quoted, strconv.Quote(k))
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// tailCommand prints the latest interactive session log.
func tailCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tasks tail", flag.ContinueOnError)
	follow := fs.Bool("f", false, "Follow the log (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logPath, err := logging.FindLatestLog(cfg.LogDir)
	if err != nil {
		return fmt.Errorf("finding latest log: %w", err)
	}
	if logPath == "" {
		fmt.Println("No log files found.")
		return nil
	}

	fmt.Printf("Tailing: %s\n", logPath)
	if *follow {
		fmt.Println("(Ctrl+C to stop)")
	}
	fmt.Println()

	return logging.TailLog(ctx, os.Stdout, logPath, *n, *follow)
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Printf("tasks version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Tasks - a small persistent to-do list")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tasks [options] [command] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui           Interactive view (default command)")
	fmt.Fprintln(w, "  ls            Print the list and the count")
	fmt.Fprintln(w, "  add <text>    Add a task")
	fmt.Fprintln(w, "  toggle <n>    Mark task n done or open again")
	fmt.Fprintln(w, "  rm <n>        Delete task n")
	fmt.Fprintln(w, "  clear         Delete every done task")
	fmt.Fprintln(w, "  doctor        Check config, key bindings, and the stored list")
	fmt.Fprintln(w, "  config        Show effective configuration and its sources")
	fmt.Fprintln(w, "  tail          Print the latest session log")
	fmt.Fprintln(w, "  version       Show version information")
	fmt.Fprintln(w, "  help          Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ls Options:")
	fmt.Fprintln(w, "  -count")
	fmt.Fprintln(w, "        Only print the count line")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config Options:")
	fmt.Fprintln(w, "  -example")
	fmt.Fprintln(w, "        Print an example config file")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tail Options:")
	fmt.Fprintln(w, "  -f, --follow")
	fmt.Fprintln(w, "        Follow the log (like tail -f)")
	fmt.Fprintln(w, "  -n int")
	fmt.Fprintln(w, "        Number of lines to show (0 = all)")
}
