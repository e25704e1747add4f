package session

import (
	"github.com/dshills/markpad/internal/event"
	"github.com/dshills/markpad/internal/layout/scrollsync"
	"github.com/dshills/markpad/internal/layout/split"
)

// Layout returns the split state.
func (s *Session) Layout() split.State {
	return s.split.State()
}

// Split returns the split controller.
func (s *Session) Split() *split.Controller {
	return s.split
}

// Scroll returns the scroll synchronizer.
func (s *Session) Scroll() *scrollsync.Synchronizer {
	return s.scroll
}

// SetPanes replaces the pane handles used for scroll sync.
func (s *Session) SetPanes(editor, preview scrollsync.Pane) {
	s.scroll.SetPanes(editor, preview)
}

// OnScroll forwards a user scroll of source to the companion pane.
func (s *Session) OnScroll(source scrollsync.PaneID) bool {
	if s.State() == StateClosed {
		return false
	}
	return s.scroll.OnScroll(source)
}

// BeginResize starts a divider drag.
func (s *Session) BeginResize() bool {
	return s.split.BeginResize()
}

// UpdateResize moves the divider to pointerX within container.
func (s *Session) UpdateResize(pointerX float64, container split.Rect) (float64, bool) {
	return s.split.UpdateResize(pointerX, container)
}

// EndResize finishes a divider drag.
func (s *Session) EndResize() {
	s.split.EndResize()
}

func (s *Session) layoutChanged(st split.State) {
	s.publish(pending{event.New(event.TopicLayoutChanged, s.id, LayoutChanged{SessionID: s.id, State: st})})
}
