// Package config loads markpad settings.
//
// Settings are resolved in layers, later layers winning:
//
//  1. built-in defaults (Default)
//  2. TOML files, in the order given to the Loader, deep-merged
//  3. MARKPAD_* environment variables
//
// Example file:
//
//	[editor]
//	historyDepth = 100
//	indentWidth = 4
//
//	[scroll]
//	cooldown = "150ms"
//
//	[keymap]
//	paths = ["~/.config/markpad/keys.yaml"]
//
// The watcher subpackage reports file changes so the application can
// reload settings and keymaps while running.
package config
