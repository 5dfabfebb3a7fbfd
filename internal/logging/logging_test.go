// Package logging provides tests for run logs and logger construction.
package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestOpenRunLog(t *testing.T) {
	t.Run("creates nested dir and file", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "a", "b")
		run, err := OpenRunLog(dir)
		if err != nil {
			t.Fatalf("OpenRunLog() error = %v", err)
		}
		defer run.Close()

		if run.RunID == "" {
			t.Error("expected RunID to be set")
		}
		if filepath.Dir(run.Path) != dir {
			t.Errorf("Path %q not under %q", run.Path, dir)
		}
		if !strings.HasSuffix(run.Path, ".log") {
			t.Errorf("Path %q should end in .log", run.Path)
		}

		New(run.Writer(), DefaultOptions()).Info("hello", "k", "v")
		data, err := os.ReadFile(run.Path)
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		if !strings.Contains(string(data), "hello") {
			t.Errorf("log file = %q, want it to contain hello", data)
		}
	})

	t.Run("empty dir is an error", func(t *testing.T) {
		if _, err := OpenRunLog(""); err == nil {
			t.Error("expected error for empty dir")
		}
	})

	t.Run("close is nil-safe", func(t *testing.T) {
		var run *RunLog
		if err := run.Close(); err != nil {
			t.Errorf("Close() on nil = %v", err)
		}
	})
}

func TestFindLatestLog(t *testing.T) {
	t.Run("missing dir", func(t *testing.T) {
		got, err := FindLatestLog(filepath.Join(t.TempDir(), "missing"))
		if err != nil || got != "" {
			t.Errorf("FindLatestLog() = (%q, %v), want empty", got, err)
		}
	})

	t.Run("picks newest .log", func(t *testing.T) {
		dir := t.TempDir()
		old := filepath.Join(dir, "old.log")
		newer := filepath.Join(dir, "new.log")
		other := filepath.Join(dir, "notes.txt")
		os.WriteFile(old, []byte("old"), 0644)
		os.WriteFile(newer, []byte("new"), 0644)
		os.WriteFile(other, []byte("x"), 0644)

		now := time.Now()
		os.Chtimes(old, now.Add(-time.Hour), now.Add(-time.Hour))
		os.Chtimes(newer, now, now)
		os.Chtimes(other, now.Add(time.Hour), now.Add(time.Hour))

		got, err := FindLatestLog(dir)
		if err != nil {
			t.Fatalf("FindLatestLog() error = %v", err)
		}
		if got != newer {
			t.Errorf("FindLatestLog() = %q, want %q", got, newer)
		}
	})
}

func TestTailLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	os.WriteFile(path, []byte("one\ntwo\nthree\n"), 0644)

	tests := []struct {
		n    int
		want string
	}{
		{0, "one\ntwo\nthree\n"},
		{2, "two\nthree\n"},
		{10, "one\ntwo\nthree\n"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		if err := TailLog(context.Background(), &buf, path, tt.n, false); err != nil {
			t.Fatalf("TailLog(n=%d) error = %v", tt.n, err)
		}
		if buf.String() != tt.want {
			t.Errorf("TailLog(n=%d) = %q, want %q", tt.n, buf.String(), tt.want)
		}
	}

	if err := TailLog(context.Background(), &bytes.Buffer{}, path+".missing", 0, false); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestTailLogFollowStopsOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	os.WriteFile(path, []byte("start\n"), 0644)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	if err := TailLog(ctx, &buf, path, 0, true); err != nil {
		t.Fatalf("TailLog() error = %v", err)
	}
	if buf.String() != "start\n" {
		t.Errorf("TailLog() = %q, want start", buf.String())
	}
}

func TestLastLines(t *testing.T) {
	if got := lastLines("a\nb", 1); got != "b" {
		t.Errorf("lastLines no trailing newline = %q, want b", got)
	}
	if got := lastLines("", 3); got != "" {
		t.Errorf("lastLines empty = %q", got)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]log.Level{
		"debug":   log.DebugLevel,
		"INFO":    log.InfoLevel,
		"warn":    log.WarnLevel,
		"warning": log.WarnLevel,
		"error":   log.ErrorLevel,
		"fatal":   log.FatalLevel,
		"bogus":   log.InfoLevel,
		"":        log.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseFormatter(t *testing.T) {
	tests := map[string]log.Formatter{
		"json":   log.JSONFormatter,
		"logfmt": log.LogfmtFormatter,
		"text":   log.TextFormatter,
		"":       log.TextFormatter,
	}
	for in, want := range tests {
		if got := ParseFormatter(in); got != want {
			t.Errorf("ParseFormatter(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewRespectsLevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, OptionsFromConfig("warn", "json", false, false))

	logger.Info("hidden")
	logger.Warn("shown", "key", "k1")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message logged at warn level: %q", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"key":"k1"`) {
		t.Errorf("expected JSON warn line, got %q", out)
	}
}

func TestDiscard(t *testing.T) {
	Discard().Error("nothing")
}
