package session

import "github.com/dshills/markpad/internal/layout/split"

// Payloads published on the event bus.

// ContentChanged is published after every content or undo change.
type ContentChanged struct {
	SessionID string
	Label     string
	Length    int // UTF-16 code units
	Modified  bool
}

// Saved is published after a successful save.
type Saved struct {
	SessionID string
	Length    int
}

// SaveFailed is published when persistence fails.
type SaveFailed struct {
	SessionID string
	Err       error
}

// Ended is published when the session is cancelled or closed.
type Ended struct {
	SessionID string
	Modified  bool
}

// LayoutChanged is published when the split state changes.
type LayoutChanged struct {
	SessionID string
	State     split.State
}
