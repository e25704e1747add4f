package history

import (
	"time"

	"github.com/dshills/markpad/internal/engine/textrange"
)

// Entry is an immutable snapshot of document content.
type Entry struct {
	// Content is the full note body at snapshot time.
	Content string

	// Selection is the caret or selection active at snapshot time.
	Selection textrange.Selection

	// Label describes the action that caused the snapshot (e.g. "Bold").
	Label string

	// Timestamp is when the snapshot was taken.
	Timestamp time.Time
}

// Info describes a history entry without exposing its content.
type Info struct {
	Label     string
	Timestamp time.Time
	Size      int // content length in bytes
}

func (e Entry) info() Info {
	return Info{
		Label:     e.Label,
		Timestamp: e.Timestamp,
		Size:      len(e.Content),
	}
}
