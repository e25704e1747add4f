// Package split tracks the divider position and maximize state of a
// two-pane editor/preview layout.
package split

import (
	"math"
	"sync"
)

// Position bounds, in percent of the container width.
const (
	MinPosition     = 10.0
	MaxPosition     = 90.0
	DefaultPosition = 50.0
)

// Rect is the horizontal extent of the container holding both panes.
type Rect struct {
	Left  float64
	Width float64
}

// State is a snapshot of the layout.
// EditorMaximized and PreviewMaximized are never both true.
type State struct {
	// Position is the editor pane's share of the width in percent.
	Position float64

	EditorMaximized  bool
	PreviewMaximized bool
}

// Maximized returns true if either pane occupies the full width.
func (s State) Maximized() bool {
	return s.EditorMaximized || s.PreviewMaximized
}

// Controller owns the split state for one editor.
// All methods are safe for concurrent use.
type Controller struct {
	mu sync.Mutex

	state    State
	min      float64
	max      float64
	resizing bool

	onChange func(State)
}

// Option configures a Controller.
type Option func(*Controller)

// WithBounds sets the position bounds. Invalid bounds are ignored.
func WithBounds(min, max float64) Option {
	return func(c *Controller) {
		if min >= 0 && max <= 100 && min < max {
			c.min = min
			c.max = max
		}
	}
}

// WithPosition sets the initial divider position.
func WithPosition(p float64) Option {
	return func(c *Controller) {
		c.state.Position = p
	}
}

// WithOnChange registers a callback invoked after every state change.
// The callback runs without the controller lock held.
func WithOnChange(fn func(State)) Option {
	return func(c *Controller) {
		c.onChange = fn
	}
}

// New creates a controller with the divider at DefaultPosition.
func New(opts ...Option) *Controller {
	c := &Controller{
		state: State{Position: DefaultPosition},
		min:   MinPosition,
		max:   MaxPosition,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.state.Position = c.clamp(c.state.Position)
	return c
}

func (c *Controller) clamp(p float64) float64 {
	if math.IsNaN(p) {
		return DefaultPosition
	}
	return math.Max(c.min, math.Min(c.max, p))
}

// notify calls onChange with s. Must be called without c.mu held.
func (c *Controller) notify(s State) {
	if c.onChange != nil {
		c.onChange(s)
	}
}

// State returns the current layout state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Position returns the divider position in percent.
func (c *Controller) Position() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Position
}

// Maximized returns true if either pane is maximized.
func (c *Controller) Maximized() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Maximized()
}

// BeginResize starts a divider drag. It has no effect while a pane is
// maximized, since the divider is hidden.
func (c *Controller) BeginResize() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Maximized() {
		return false
	}
	c.resizing = true
	return true
}

// IsResizing returns true while a divider drag is in progress.
func (c *Controller) IsResizing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resizing
}

// UpdateResize moves the divider to pointerX within container.
// The position is (pointerX - Left) / Width as a percentage, clamped to the
// bounds.
// Returns the new position and whether it was applied; updates outside a
// drag or against a zero-width container are ignored.
func (c *Controller) UpdateResize(pointerX float64, container Rect) (float64, bool) {
	c.mu.Lock()
	if !c.resizing || container.Width <= 0 {
		p := c.state.Position
		c.mu.Unlock()
		return p, false
	}

	c.state.Position = c.clamp((pointerX - container.Left) * 100 / container.Width)
	s := c.state
	c.mu.Unlock()

	c.notify(s)
	return s.Position, true
}

// EndResize finishes a divider drag.
func (c *Controller) EndResize() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resizing = false
}

// SetPosition sets the divider position directly, clamped to the bounds.
func (c *Controller) SetPosition(p float64) float64 {
	c.mu.Lock()
	c.state.Position = c.clamp(p)
	s := c.state
	c.mu.Unlock()

	c.notify(s)
	return s.Position
}

// MaximizeEditor gives the editor the full width and clears the preview's
// maximized flag.
func (c *Controller) MaximizeEditor() {
	c.set(true, false)
}

// MaximizePreview gives the preview the full width and clears the editor's
// maximized flag.
func (c *Controller) MaximizePreview() {
	c.set(false, true)
}

// Restore returns to the split layout.
func (c *Controller) Restore() {
	c.set(false, false)
}

// ToggleEditor maximizes the editor, or restores the split if the editor
// is already maximized.
func (c *Controller) ToggleEditor() {
	c.mu.Lock()
	on := !c.state.EditorMaximized
	c.mu.Unlock()
	c.set(on, false)
}

// TogglePreview maximizes the preview, or restores the split if the
// preview is already maximized.
func (c *Controller) TogglePreview() {
	c.mu.Lock()
	on := !c.state.PreviewMaximized
	c.mu.Unlock()
	c.set(false, on)
}

func (c *Controller) set(editor, preview bool) {
	c.mu.Lock()
	c.state.EditorMaximized = editor
	c.state.PreviewMaximized = preview
	if editor || preview {
		c.resizing = false
	}
	s := c.state
	c.mu.Unlock()

	c.notify(s)
}

// Widths splits total columns between the editor and preview panes.
func (s State) Widths(total int) (editor, preview int) {
	if total <= 0 {
		return 0, 0
	}
	switch {
	case s.EditorMaximized:
		return total, 0
	case s.PreviewMaximized:
		return 0, total
	}
	editor = int(math.Round(float64(total) * s.Position / 100))
	return editor, total - editor
}
