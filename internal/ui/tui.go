package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/tasks-go/internal/config"
	"github.com/nibzard/tasks-go/internal/todo"
)

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

type tuiConfig struct {
	input     io.Reader
	output    io.Writer
	altScreen bool
}

// WithIO runs the program on the given streams instead of the terminal.
// The TTY check is skipped.
func WithIO(in io.Reader, out io.Writer) TUIOption {
	return func(c *tuiConfig) {
		c.input = in
		c.output = out
		c.altScreen = false
	}
}

// RunTUI starts the interactive view over ctrl. It fails before drawing
// anything when stdout is not a terminal or the key map is broken.
func RunTUI(ctx context.Context, ctrl *todo.Controller, keys config.KeyMap, opts ...TUIOption) error {
	c := &tuiConfig{altScreen: true}
	for _, opt := range opts {
		opt(c)
	}

	if err := keys.Validate(); err != nil {
		return fmt.Errorf("interactive view cannot start: %w", err)
	}
	if c.output == nil && !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	model := newTUIModel(ctrl, keys)

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if c.altScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	if c.input != nil {
		programOpts = append(programOpts, tea.WithInput(c.input))
	}
	if c.output != nil {
		programOpts = append(programOpts, tea.WithOutput(c.output))
	}

	program := tea.NewProgram(model, programOpts...)
	_, err := program.Run()
	return err
}

type focusArea int

const (
	focusInput focusArea = iota
	focusList
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	doneStyle   = lipgloss.NewStyle().Strikethrough(true).Faint(true)
	cursorStyle = lipgloss.NewStyle().Bold(true)
	emptyStyle  = lipgloss.NewStyle().Faint(true).Italic(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	helpStyle   = lipgloss.NewStyle().Faint(true)
)

type tuiModel struct {
	ctrl   *todo.Controller
	keys   config.KeyMap
	input  textinput.Model
	focus  focusArea
	cursor int

	// Rebuilt by Render after every mutation.
	rows  []string
	count string
	empty string

	status string
}

func newTUIModel(ctrl *todo.Controller, keys config.KeyMap) *tuiModel {
	ti := textinput.New()
	ti.Placeholder = "What needs to be done?"
	ti.CharLimit = 256
	ti.Width = 40
	ti.Prompt = "> "
	ti.Focus()

	m := &tuiModel{
		ctrl:  ctrl,
		keys:  keys,
		input: ti,
		focus: focusInput,
	}
	ctrl.SetRenderer(m)
	ctrl.Render()
	return m
}

// Render implements todo.Renderer. It replaces the whole rendered set.
func (m *tuiModel) Render(tasks []todo.Task) {
	rows := make([]string, 0, len(tasks))
	for i, task := range tasks {
		row := FormatTask(i, task)
		if task.Done {
			row = doneStyle.Render(row)
		}
		rows = append(rows, row)
	}
	m.rows = rows
	m.count = RenderCount(tasks)
	m.empty = RenderEmptyState(tasks)
	m.cursor = clampCursor(m.cursor, len(tasks))
}

func (m *tuiModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.focus == focusInput {
			return m.updateInput(msg)
		}
		return m.updateList(msg)
	case tea.WindowSizeMsg:
		if msg.Width > 10 {
			m.input.Width = msg.Width - 10
		}
	}
	return m, nil
}

func (m *tuiModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch {
	case contains(m.keys.Submit, key):
		m.apply(m.ctrl.Add(m.input.Value()))
		m.input.SetValue("")
		return m, m.input.Focus()
	case contains(m.keys.Focus, key), key == "esc":
		m.input.Blur()
		m.focus = focusList
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *tuiModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keys.Lookup(msg.String()) {
	case "quit":
		return m, tea.Quit
	case "focus", "submit":
		m.focus = focusInput
		return m, m.input.Focus()
	case "up":
		m.cursor = clampCursor(m.cursor-1, len(m.rows))
	case "down":
		m.cursor = clampCursor(m.cursor+1, len(m.rows))
	case "toggle":
		m.apply(m.ctrl.Toggle(m.cursor))
	case "delete":
		m.apply(m.ctrl.Remove(m.cursor))
	case "clear":
		m.apply(m.ctrl.ClearCompleted())
	}
	return m, nil
}

// apply records the outcome of a controller call in the status line.
func (m *tuiModel) apply(err error) {
	if err != nil {
		m.status = "save failed: " + err.Error()
		return
	}
	m.status = ""
}

func (m *tuiModel) View() string {
	var b strings.Builder
	writeTitle(&b)
	b.WriteString(m.input.View() + "\n\n")
	m.writeRows(&b)
	b.WriteString("\n" + m.count + "\n")
	if m.status != "" {
		b.WriteString(errorStyle.Render(m.status) + "\n")
	}
	b.WriteString("\n")
	writeHelp(&b, m.keys, m.focus)
	return b.String()
}

func (m *tuiModel) writeRows(b *strings.Builder) {
	if m.empty != "" {
		b.WriteString("  " + emptyStyle.Render(m.empty+" Type above and press "+config.Describe(m.keys.Submit)+".") + "\n")
		return
	}
	for i, row := range m.rows {
		prefix := "  "
		if m.focus == focusList && i == m.cursor {
			prefix = cursorStyle.Render("> ")
		}
		b.WriteString(prefix + row + "\n")
	}
}

func writeTitle(b *strings.Builder) {
	title := "Tasks"
	b.WriteString(titleStyle.Render(title) + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func writeHelp(b *strings.Builder, keys config.KeyMap, focus focusArea) {
	var parts []string
	if focus == focusInput {
		parts = []string{
			config.Describe(keys.Submit) + " add",
			config.Describe(keys.Focus) + " list",
			"ctrl+c quit",
		}
	} else {
		parts = []string{
			config.Describe(keys.Toggle) + " toggle",
			config.Describe(keys.Delete) + " delete",
			config.Describe(keys.Clear) + " clear done",
			config.Describe(keys.Focus) + " input",
		}
		if q := config.Describe(keys.Quit); q != "" {
			parts = append(parts, q+" quit")
		}
	}
	b.WriteString(helpStyle.Render(strings.Join(parts, " | ")) + "\n")
}

func clampCursor(cursor, length int) int {
	if length == 0 || cursor < 0 {
		return 0
	}
	if cursor >= length {
		return length - 1
	}
	return cursor
}

func contains(keys []string, key string) bool {
	for _, k := range keys {
		if k != "" && k == key {
			return true
		}
	}
	return false
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
