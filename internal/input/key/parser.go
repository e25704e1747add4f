package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parse errors.
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// Parse parses a key specification into an Event.
// See the package documentation for the accepted forms.
func Parse(spec string) (Event, error) {
	s := strings.TrimSpace(spec)
	if s == "" {
		return Event{}, ErrEmptySpec
	}
	if len(s) > 2 && s[0] == '<' && s[len(s)-1] == '>' {
		s = s[1 : len(s)-1]
	}

	parts := splitSpec(s)
	var mods Modifier
	for _, p := range parts[:len(parts)-1] {
		m, ok := LookupModifier(p)
		if !ok {
			return Event{}, fmt.Errorf("%w: unknown modifier %q in %q", ErrInvalidSpec, p, spec)
		}
		mods = mods.With(m)
	}

	name := parts[len(parts)-1]
	if name == "" {
		return Event{}, fmt.Errorf("%w: missing key in %q", ErrInvalidSpec, spec)
	}
	switch strings.ToLower(name) {
	case "space":
		return Rune(' ', mods), nil
	case "plus":
		return Rune('+', mods), nil
	case "minus":
		return Rune('-', mods), nil
	}
	if k, ok := Lookup(name); ok {
		return Special(k, mods), nil
	}
	if r, size := utf8.DecodeRuneInString(name); size == len(name) && r != utf8.RuneError {
		if mods&(ModCtrl|ModAlt|ModMeta) != 0 {
			r = unicode.ToLower(r)
		}
		return Rune(r, mods), nil
	}
	return Event{}, fmt.Errorf("%w: unknown key %q in %q", ErrInvalidSpec, name, spec)
}

// splitSpec splits on "+" or "-", treating a trailing separator character
// as the key itself ("Ctrl++", "C--").
func splitSpec(s string) []string {
	sep := "+"
	if !strings.Contains(s, "+") {
		sep = "-"
	}
	if len(s) == 1 || !strings.Contains(s, sep) {
		return []string{s}
	}
	if strings.HasSuffix(s, sep+sep) {
		head := strings.Split(s[:len(s)-2], sep)
		return append(head, sep)
	}
	return strings.Split(s, sep)
}

// MustParse is Parse for specs known to be valid. It panics on error.
func MustParse(spec string) Event {
	e, err := Parse(spec)
	if err != nil {
		panic(err)
	}
	return e
}

// ParseChord parses spec and returns its normalized chord.
func ParseChord(spec string) (Chord, error) {
	e, err := Parse(spec)
	if err != nil {
		return Chord{}, err
	}
	return e.Chord(), nil
}

// Normalize returns the canonical spelling of spec.
func Normalize(spec string) (string, error) {
	c, err := ParseChord(spec)
	if err != nil {
		return "", err
	}
	return c.String(), nil
}
