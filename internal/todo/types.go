package todo

import "strings"

// Task is a single list entry.
type Task struct {
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// Store holds the ordered task list in memory.
// Order is insertion order; nothing ever sorts it.
type Store struct {
	tasks []Task
}

// NewStore returns a store seeded with a copy of tasks.
func NewStore(tasks []Task) *Store {
	s := &Store{tasks: make([]Task, 0, len(tasks))}
	s.tasks = append(s.tasks, tasks...)
	return s
}

// Tasks returns a copy of the current list.
func (s *Store) Tasks() []Task {
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// Open returns the number of tasks not marked done.
func (s *Store) Open() int {
	return CountOpen(s.tasks)
}

// Add appends a new open task with the trimmed text.
// It reports false and leaves the list alone when the text is blank.
func (s *Store) Add(raw string) bool {
	text := strings.TrimSpace(raw)
	if text == "" {
		return false
	}
	s.tasks = append(s.tasks, Task{Text: text, Done: false})
	return true
}

// Toggle flips the done flag of the task at index.
func (s *Store) Toggle(index int) bool {
	if !s.inRange(index) {
		return false
	}
	s.tasks[index].Done = !s.tasks[index].Done
	return true
}

// Remove deletes the task at index, shifting later tasks left.
func (s *Store) Remove(index int) bool {
	if !s.inRange(index) {
		return false
	}
	s.tasks = append(s.tasks[:index], s.tasks[index+1:]...)
	return true
}

// ClearCompleted drops every done task and keeps the rest in order.
func (s *Store) ClearCompleted() {
	remaining := make([]Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		if !task.Done {
			remaining = append(remaining, task)
		}
	}
	s.tasks = remaining
}

func (s *Store) inRange(index int) bool {
	return index >= 0 && index < len(s.tasks)
}

// CountOpen returns how many tasks in the list are not done.
func CountOpen(tasks []Task) int {
	open := 0
	for _, task := range tasks {
		if !task.Done {
			open++
		}
	}
	return open
}
