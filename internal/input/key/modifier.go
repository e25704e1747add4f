package key

import "strings"

// Modifier is a set of modifier keys.
type Modifier uint8

const (
	// ModNone is the empty set.
	ModNone Modifier = 0

	ModShift Modifier = 1 << (iota - 1)
	ModCtrl
	ModAlt
	ModMeta
)

// Has reports whether m contains every modifier in mod.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod == mod
}

// With returns m plus mod.
func (m Modifier) With(mod Modifier) Modifier {
	return m | mod
}

// Without returns m minus mod.
func (m Modifier) Without(mod Modifier) Modifier {
	return m &^ mod
}

// modOrder is the order modifiers appear in formatted specs.
var modOrder = []struct {
	mod   Modifier
	long  string
	short string
}{
	{ModCtrl, "Ctrl", "C"},
	{ModAlt, "Alt", "A"},
	{ModShift, "Shift", "S"},
	{ModMeta, "Meta", "M"},
}

// String returns the modifiers joined with "+", like "Ctrl+Shift".
func (m Modifier) String() string {
	var parts []string
	for _, o := range modOrder {
		if m.Has(o.mod) {
			parts = append(parts, o.long)
		}
	}
	return strings.Join(parts, "+")
}

// Short returns the dash form, like "C-S".
func (m Modifier) Short() string {
	var parts []string
	for _, o := range modOrder {
		if m.Has(o.mod) {
			parts = append(parts, o.short)
		}
	}
	return strings.Join(parts, "-")
}

var modNames = map[string]Modifier{
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"c":       ModCtrl,
	"alt":     ModAlt,
	"option":  ModAlt,
	"opt":     ModAlt,
	"a":       ModAlt,
	"shift":   ModShift,
	"s":       ModShift,
	"meta":    ModMeta,
	"cmd":     ModMeta,
	"super":   ModMeta,
	"m":       ModMeta,
}

// LookupModifier returns the modifier named name, ignoring case.
func LookupModifier(name string) (Modifier, bool) {
	m, ok := modNames[strings.ToLower(strings.TrimSpace(name))]
	return m, ok
}
