// Package keymap maps key chords to editor action names.
//
// A Keymap is a named list of Bindings. Keymaps are registered in a
// Registry which builds a chord index; when two keymaps bind the same
// chord, the one with the higher Priority wins and, on a tie, the one
// registered last. User keymaps loaded from disk default to UserPriority
// so they override the built-in bindings.
//
// # Files
//
// Keymap files are JSON or YAML:
//
//	name: my-keys
//	bindings:
//	  - keys: Ctrl+B
//	    action: format.bold
//	  - keys: Alt+3
//	    action: format.heading
//	    args: {level: 3}
//
// # Usage
//
//	reg := keymap.NewRegistry()
//	_ = reg.Register(keymap.Default())
//	if b, ok := reg.Lookup(ev); ok {
//	    // run b.Action with b.Args
//	}
package keymap
