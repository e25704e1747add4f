// Package key models keyboard input for the editor.
//
//   - Key identifies a named key, or KeyRune for characters.
//   - Modifier is a bit set of Ctrl, Alt, Shift and Meta.
//   - Event is one key press as delivered by the terminal backend.
//   - Chord is the normalized, comparable form of an Event used for lookup.
//
// # Key Specifications
//
// Bindings are written as
//
//   - plain keys: "a", "Enter", "Tab", "F5"
//   - plus form: "Ctrl+B", "Ctrl+Shift+Z", "Alt+Up"
//   - dash form: "C-b", "C-S-z", "A-i"
//   - bracket form: "<C-b>", "<Esc>"
//
// Letters combined with Ctrl or Alt are case-insensitive; "Ctrl+B" and
// "C-b" name the same chord. Shift must be spelled out.
package key
