package todo

import (
	"io"

	"github.com/charmbracelet/log"
)

// Renderer reflects the current list somewhere visible.
type Renderer interface {
	Render(tasks []Task)
}

// RenderFunc adapts a function to Renderer.
type RenderFunc func(tasks []Task)

// Render calls f.
func (f RenderFunc) Render(tasks []Task) {
	f(tasks)
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithRenderer sets the renderer called after every saved mutation.
func WithRenderer(r Renderer) ControllerOption {
	return func(c *Controller) {
		c.renderer = r
	}
}

// WithLogger sets the controller logger.
func WithLogger(logger *log.Logger) ControllerOption {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Controller runs each gesture to completion: mutate, save, render.
type Controller struct {
	store    *Store
	snapshot *Snapshot
	renderer Renderer
	logger   *log.Logger
}

// Open loads the snapshot into a fresh store and returns its controller.
func Open(snapshot *Snapshot, opts ...ControllerOption) *Controller {
	return NewController(NewStore(snapshot.Load()), snapshot, opts...)
}

// NewController wires an existing store to a snapshot.
func NewController(store *Store, snapshot *Snapshot, opts ...ControllerOption) *Controller {
	c := &Controller{
		store:    store,
		snapshot: snapshot,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetRenderer replaces the renderer.
func (c *Controller) SetRenderer(r Renderer) {
	c.renderer = r
}

// Store returns the underlying store.
func (c *Controller) Store() *Store {
	return c.store
}

// Tasks returns a copy of the current list.
func (c *Controller) Tasks() []Task {
	return c.store.Tasks()
}

// Render pushes the current list to the renderer without mutating.
func (c *Controller) Render() {
	if c.renderer != nil {
		c.renderer.Render(c.store.Tasks())
	}
}

// Add adds a task. Blank text does nothing and returns nil.
func (c *Controller) Add(text string) error {
	if !c.store.Add(text) {
		return nil
	}
	return c.commit("add", "len", c.store.Len())
}

// Toggle flips the task at index. Out-of-range indexes do nothing.
func (c *Controller) Toggle(index int) error {
	if !c.store.Toggle(index) {
		return nil
	}
	return c.commit("toggle", "index", index)
}

// Remove deletes the task at index. Out-of-range indexes do nothing.
func (c *Controller) Remove(index int) error {
	if !c.store.Remove(index) {
		return nil
	}
	return c.commit("remove", "index", index)
}

// ClearCompleted drops all done tasks.
func (c *Controller) ClearCompleted() error {
	before := c.store.Len()
	c.store.ClearCompleted()
	return c.commit("clear", "removed", before-c.store.Len())
}

// commit saves and renders. The render happens even when the save fails so
// the view keeps mirroring memory.
func (c *Controller) commit(op string, keyvals ...interface{}) error {
	tasks := c.store.Tasks()
	err := c.snapshot.Save(tasks)
	if err != nil {
		c.logger.Error("Save failed", "op", op, "key", c.snapshot.Key(), "err", err)
	} else {
		c.logger.Debug("Tasks updated", append([]interface{}{"op", op}, keyvals...)...)
	}
	if c.renderer != nil {
		c.renderer.Render(tasks)
	}
	return err
}
