package history

import (
	"sync"
	"time"
)

// DefaultMaxEntries is the default undo depth.
const DefaultMaxEntries = 50

// History manages undo/redo state for one document.
type History struct {
	mu sync.Mutex

	undoStack []Entry
	redoStack []Entry

	// Configuration
	maxEntries int

	now func() time.Time
}

// Option configures a History.
type Option func(*History)

// WithClock sets the time source used to stamp entries.
func WithClock(now func() time.Time) Option {
	return func(h *History) {
		if now != nil {
			h.now = now
		}
	}
}

// NewHistory creates a new history manager.
func NewHistory(maxEntries int, opts ...Option) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	h := &History{
		maxEntries: maxEntries,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Snapshot records content as the state before a new edit.
// Clears the redo stack.
func (h *History) Snapshot(content string) {
	h.Push(Entry{Content: content})
}

// Push records a fully described entry as the state before a new edit.
// Clears the redo stack.
func (h *History) Push(e Entry) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if e.Timestamp.IsZero() {
		e.Timestamp = h.now()
	}
	h.undoStack = h.appendBounded(h.undoStack, e)

	// Redo history is only valid until the next new edit
	h.redoStack = nil
}

// appendBounded appends e and evicts the oldest entries beyond maxEntries.
func (h *History) appendBounded(stack []Entry, e Entry) []Entry {
	stack = append(stack, e)
	if len(stack) > h.maxEntries {
		excess := len(stack) - h.maxEntries
		// Copy down so evicted snapshots can be collected.
		n := copy(stack, stack[excess:])
		for i := n; i < len(stack); i++ {
			stack[i] = Entry{}
		}
		stack = stack[:n]
	}
	return stack
}

// Undo returns the content to restore and true, moving current onto the
// redo stack. Returns false and leaves both stacks untouched when there is
// nothing to undo.
func (h *History) Undo(current string) (string, bool) {
	e, ok := h.UndoEntry(Entry{Content: current})
	return e.Content, ok
}

// UndoEntry is Undo with selection and label carried through.
func (h *History) UndoEntry(current Entry) (Entry, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undoStack) == 0 {
		return Entry{}, false
	}

	i := len(h.undoStack) - 1
	prev := h.undoStack[i]
	h.undoStack[i] = Entry{}
	h.undoStack = h.undoStack[:i]

	if current.Timestamp.IsZero() {
		current.Timestamp = h.now()
	}
	h.redoStack = append(h.redoStack, current)
	return prev, true
}

// Redo returns the content to restore and true, moving current back onto
// the undo stack. Returns false when there is nothing to redo.
func (h *History) Redo(current string) (string, bool) {
	e, ok := h.RedoEntry(Entry{Content: current})
	return e.Content, ok
}

// RedoEntry is Redo with selection and label carried through.
func (h *History) RedoEntry(current Entry) (Entry, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.redoStack) == 0 {
		return Entry{}, false
	}

	i := len(h.redoStack) - 1
	next := h.redoStack[i]
	h.redoStack[i] = Entry{}
	h.redoStack = h.redoStack[:i]

	if current.Timestamp.IsZero() {
		current.Timestamp = h.now()
	}
	h.undoStack = h.appendBounded(h.undoStack, current)
	return next, true
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undo steps available.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

// RedoCount returns the number of redo steps available.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack)
}

// Clear removes all undo/redo history.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.undoStack = nil
	h.redoStack = nil
}

// UndoInfo returns info about available undo steps, oldest first.
func (h *History) UndoInfo() []Info {
	h.mu.Lock()
	defer h.mu.Unlock()

	result := make([]Info, len(h.undoStack))
	for i, e := range h.undoStack {
		result[i] = e.info()
	}
	return result
}

// RedoInfo returns info about available redo steps, oldest first.
func (h *History) RedoInfo() []Info {
	h.mu.Lock()
	defer h.mu.Unlock()

	result := make([]Info, len(h.redoStack))
	for i, e := range h.redoStack {
		result[i] = e.info()
	}
	return result
}

// PeekUndo returns info about the next undo step without removing it.
func (h *History) PeekUndo() (Info, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undoStack) == 0 {
		return Info{}, false
	}
	return h.undoStack[len(h.undoStack)-1].info(), true
}

// PeekRedo returns info about the next redo step without removing it.
func (h *History) PeekRedo() (Info, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.redoStack) == 0 {
		return Info{}, false
	}
	return h.redoStack[len(h.redoStack)-1].info(), true
}

// SetMaxEntries changes the maximum undo depth.
// If the current stack is larger, oldest entries are removed.
func (h *History) SetMaxEntries(max int) {
	if max <= 0 {
		max = DefaultMaxEntries
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.maxEntries = max

	if len(h.undoStack) > max {
		excess := len(h.undoStack) - max
		h.undoStack = append([]Entry(nil), h.undoStack[excess:]...)
	}
}

// MaxEntries returns the maximum undo depth.
func (h *History) MaxEntries() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.maxEntries
}
