package key

import (
	"fmt"
	"unicode"
)

// Event is a single key press.
type Event struct {
	Key       Key
	Rune      rune
	Modifiers Modifier
}

// Rune returns a character event.
func Rune(r rune, mods Modifier) Event {
	return Event{Key: KeyRune, Rune: r, Modifiers: mods}
}

// Special returns an event for a named key.
func Special(k Key, mods Modifier) Event {
	return Event{Key: k, Modifiers: mods}
}

// IsRune reports whether e carries a character.
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// IsPrintable reports whether e should be typed into the document: a
// printable character with no Ctrl, Alt or Meta held.
func (e Event) IsPrintable() bool {
	return e.IsRune() &&
		unicode.IsPrint(e.Rune) &&
		e.Modifiers&(ModCtrl|ModAlt|ModMeta) == 0
}

// Chord is the normalized, comparable form of an Event.
type Chord struct {
	Key       Key
	Rune      rune
	Modifiers Modifier
}

// Chord normalizes e for binding lookup.
//
// Letters held with Ctrl, Alt or Meta are folded to lower case, and an
// upper-case letter implies Shift. For plain characters Shift is dropped
// since it is already reflected in the rune.
func (e Event) Chord() Chord {
	c := Chord{Key: e.Key, Rune: e.Rune, Modifiers: e.Modifiers}
	if e.Key != KeyRune {
		c.Rune = 0
		return c
	}
	if e.Modifiers&(ModCtrl|ModAlt|ModMeta) == 0 {
		c.Modifiers = c.Modifiers.Without(ModShift)
		return c
	}
	if unicode.IsUpper(e.Rune) {
		c.Rune = unicode.ToLower(e.Rune)
		c.Modifiers = c.Modifiers.With(ModShift)
	}
	return c
}

// String returns the canonical plus-form spec, like "Ctrl+Shift+z".
func (c Chord) String() string {
	name := c.Key.String()
	if c.Key == KeyRune {
		name = string(c.Rune)
		if c.Rune == ' ' {
			name = "Space"
		}
	}
	if c.Modifiers == ModNone {
		return name
	}
	return c.Modifiers.String() + "+" + name
}

// String returns the canonical spec of the event.
func (e Event) String() string {
	return e.Chord().String()
}

// GoString implements fmt.GoStringer.
func (e Event) GoString() string {
	return fmt.Sprintf("key.Event{Key: %s, Rune: %q, Modifiers: %q}",
		e.Key, e.Rune, e.Modifiers.String())
}
