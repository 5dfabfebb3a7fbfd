// Package ui renders the task list and runs the interactive terminal view.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/nibzard/tasks-go/internal/todo"
)

// EmptyStateText is shown when the list has no tasks.
const EmptyStateText = "No tasks yet."

// RenderCount summarizes the list: "0 tasks", "N tasks (all done)" or
// "N tasks, M open".
func RenderCount(tasks []todo.Task) string {
	total := len(tasks)
	open := todo.CountOpen(tasks)

	switch {
	case total == 0:
		return "0 tasks"
	case open == 0:
		return fmt.Sprintf("%d tasks (all done)", total)
	default:
		return fmt.Sprintf("%d tasks, %d open", total, open)
	}
}

// RenderEmptyState returns the placeholder for an empty list and "" otherwise.
func RenderEmptyState(tasks []todo.Task) string {
	if len(tasks) == 0 {
		return EmptyStateText
	}
	return ""
}

// RenderList formats every task as one line, numbered from 1.
func RenderList(tasks []todo.Task) []string {
	rows := make([]string, 0, len(tasks))
	for i, task := range tasks {
		rows = append(rows, FormatTask(i, task))
	}
	return rows
}

// FormatTask formats the task at index as "N. [x] text".
func FormatTask(index int, task todo.Task) string {
	mark := " "
	if task.Done {
		mark = "x"
	}
	return fmt.Sprintf("%d. [%s] %s", index+1, mark, task.Text)
}

// PlainRenderer writes the list, empty state, and count to W.
type PlainRenderer struct {
	W io.Writer
	// CountOnly limits output to the summary line.
	CountOnly bool
}

// Render implements todo.Renderer.
func (p PlainRenderer) Render(tasks []todo.Task) {
	WritePlain(p.W, tasks, p.CountOnly)
}

// WritePlain writes a full text projection of tasks to w.
func WritePlain(w io.Writer, tasks []todo.Task, countOnly bool) {
	var b strings.Builder
	if !countOnly {
		if empty := RenderEmptyState(tasks); empty != "" {
			b.WriteString(empty + "\n")
		}
		for _, row := range RenderList(tasks) {
			b.WriteString("  " + row + "\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(RenderCount(tasks) + "\n")
	io.WriteString(w, b.String())
}
