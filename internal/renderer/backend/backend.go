// Package backend provides the terminal abstraction the front end draws on.
package backend

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/markpad/internal/input/key"
)

// EventType identifies the type of terminal event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventMouse
	EventResize
	EventPaste
	EventInterrupt
	// EventClosed is returned by PollEvent after Shutdown.
	EventClosed
)

// Event represents a terminal event.
type Event struct {
	Type EventType

	// Key event
	Key key.Event

	// Mouse event fields
	MouseX, MouseY int
	MouseButton    MouseButton
	Mod            key.Modifier

	// Resize event fields
	Width, Height int

	// PasteStart is true at the start of a bracketed paste and false at its
	// end. The pasted text arrives as key events in between.
	PasteStart bool

	// Data is the payload of an interrupt posted with PostInterrupt.
	Data any
}

// MouseButton represents mouse button state.
type MouseButton int

const (
	// MouseNone is reported on release and on motion with no button held.
	MouseNone MouseButton = iota
	MouseLeft
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
	MouseWheelLeft
	MouseWheelRight
)

// IsWheel reports whether b is a wheel movement.
func (b MouseButton) IsWheel() bool {
	return b >= MouseWheelUp && b <= MouseWheelRight
}

// Backend is a cell grid with an event queue.
type Backend interface {
	// Init prepares the display. Must be called before any other method.
	Init() error

	// Shutdown restores the terminal.
	Shutdown()

	// Size returns the current dimensions in cells.
	Size() (width, height int)

	// SetContent sets one cell. Positions outside the screen are ignored.
	SetContent(x, y int, mainc rune, combc []rune, style tcell.Style)

	// Clear blanks the screen.
	Clear()

	// Show flushes pending changes to the display.
	Show()

	// ShowCursor positions and displays the cursor.
	ShowCursor(x, y int)

	// HideCursor hides the cursor.
	HideCursor()

	// PollEvent blocks for the next event. It returns an EventClosed event
	// once the backend is shut down.
	PollEvent() Event

	// PostInterrupt queues an EventInterrupt carrying data. It is safe to
	// call from any goroutine.
	PostInterrupt(data any) error
}
