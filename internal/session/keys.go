package session

import (
	"github.com/dshills/markpad/internal/input/key"
)

// Dispatch resolves ev and runs the resulting action. Bound chords win;
// unbound printable runes are typed, and an unbound Tab indents so focus
// never leaves the content area.
func (s *Session) Dispatch(ev key.Event) (bool, error) {
	if b, ok := s.keys.Lookup(ev); ok {
		s.log.Debug("key %s -> %s", ev.Chord(), b.Action)
		return true, s.ApplyToolbarAction(b.Action, b.Args)
	}

	switch {
	case ev.IsPrintable():
		return true, s.Type(string(ev.Rune))
	case ev.Key == key.KeyTab && ev.Modifiers == key.ModNone:
		return true, s.ApplyToolbarAction(ActionIndent, nil)
	}
	return false, nil
}

// ApplyKeyEvent is Dispatch with errors logged rather than returned. It
// reports whether the key was consumed.
func (s *Session) ApplyKeyEvent(ev key.Event) bool {
	handled, err := s.Dispatch(ev)
	if err != nil {
		s.log.Warn("key %s: %v", ev.Chord(), err)
	}
	return handled
}
