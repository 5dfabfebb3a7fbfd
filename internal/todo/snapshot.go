package todo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// snapshotSchemaURL names the embedded schema inside the compiler.
const snapshotSchemaURL = "https://tasks.local/snapshot.schema.json"

// snapshotSchema describes a well-formed snapshot.
const snapshotSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "Task snapshot",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["text", "done"],
    "properties": {
      "text": { "type": "string" },
      "done": { "type": "boolean" }
    }
  }
}`

// SnapshotSchema returns the embedded snapshot schema.
func SnapshotSchema() []byte {
	return []byte(snapshotSchema)
}

// ErrNotArray is reported when a stored snapshot is valid JSON but not an array.
var ErrNotArray = errors.New("snapshot is not an array")

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // dotted path to the offending value
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationResult describes a stored snapshot without loading it.
type ValidationResult struct {
	Present bool // the key exists in the slot
	Valid   bool
	Tasks   int // number of tasks when valid
	Errors  []error
}

// SnapshotOption configures a Snapshot.
type SnapshotOption func(*Snapshot)

// WithValidation toggles the per-record shape check. When disabled, any JSON
// array is accepted and records decode with zero values for missing fields.
func WithValidation(enabled bool) SnapshotOption {
	return func(s *Snapshot) {
		s.validate = enabled
	}
}

// WithSnapshotLogger sets the logger used to report discarded snapshots.
func WithSnapshotLogger(logger *log.Logger) SnapshotOption {
	return func(s *Snapshot) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Snapshot reads and writes the task list under one fixed key.
type Snapshot struct {
	slot     Slot
	key      string
	validate bool
	schema   *jsonschema.Schema
	logger   *log.Logger
}

// NewSnapshot returns a snapshot adapter for key in slot.
func NewSnapshot(slot Slot, key string, opts ...SnapshotOption) (*Snapshot, error) {
	s := &Snapshot{
		slot:     slot,
		key:      key,
		validate: true,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(snapshotSchemaURL, strings.NewReader(snapshotSchema)); err != nil {
		return nil, fmt.Errorf("load snapshot schema: %w", err)
	}
	schema, err := compiler.Compile(snapshotSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile snapshot schema: %w", err)
	}
	s.schema = schema

	return s, nil
}

// Key returns the storage key.
func (s *Snapshot) Key() string {
	return s.key
}

// Load returns the stored list. Every failure mode yields an empty list.
func (s *Snapshot) Load() []Task {
	tasks, err := s.load()
	if err != nil {
		s.logger.Warn("Discarding stored tasks", "key", s.key, "err", err)
		return []Task{}
	}
	return tasks
}

func (s *Snapshot) load() ([]Task, error) {
	raw, ok, err := s.slot.Get(s.key)
	if err != nil {
		return nil, err
	}
	if !ok || len(bytes.TrimSpace(raw)) == 0 {
		return []Task{}, nil
	}

	if errs := s.check(raw); len(errs) > 0 {
		return nil, errs[0]
	}

	var tasks []Task
	if err := json.Unmarshal(raw, &tasks); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if tasks == nil {
		tasks = []Task{}
	}
	return tasks, nil
}

// check returns every reason raw would be discarded.
func (s *Snapshot) check(raw []byte) []error {
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return []error{fmt.Errorf("parse snapshot: %w", err)}
	}
	if _, ok := doc.([]interface{}); !ok {
		return []error{ErrNotArray}
	}
	if !s.validate {
		return nil
	}
	if err := s.schema.Validate(doc); err != nil {
		return schemaErrors(err)
	}
	return nil
}

// Save overwrites the stored list.
func (s *Snapshot) Save(tasks []Task) error {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	data = append(data, '\n')

	if err := s.slot.Set(s.key, data); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Check reports whether the stored snapshot would load, and why not.
func (s *Snapshot) Check() *ValidationResult {
	result := &ValidationResult{Valid: true, Errors: make([]error, 0)}

	raw, ok, err := s.slot.Get(s.key)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err)
		return result
	}
	result.Present = ok
	if !ok || len(bytes.TrimSpace(raw)) == 0 {
		return result
	}

	if errs := s.check(raw); len(errs) > 0 {
		result.Valid = false
		result.Errors = append(result.Errors, errs...)
		return result
	}

	var tasks []Task
	if err := json.Unmarshal(raw, &tasks); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Errorf("decode snapshot: %w", err))
		return result
	}
	result.Tasks = len(tasks)
	return result
}

func schemaErrors(err error) []error {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []error{err}
	}
	var out []error
	collectSchemaErrors(&out, ve)
	return out
}

func collectSchemaErrors(out *[]error, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		*out = append(*out, &ValidationError{
			Path: jsonPointerToPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(out, cause)
	}
}

// jsonPointerToPath turns "/0/done" into "[0].done".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	path := ""
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			path += fmt.Sprintf("[%d]", idx)
			continue
		}
		if path == "" {
			path = part
		} else {
			path += "." + part
		}
	}
	return path
}
