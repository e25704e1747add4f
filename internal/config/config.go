package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/dshills/markpad/internal/logging"
)

// Config holds every markpad setting.
type Config struct {
	Editor  EditorConfig  `toml:"editor"`
	Layout  LayoutConfig  `toml:"layout"`
	Scroll  ScrollConfig  `toml:"scroll"`
	Log     LogConfig     `toml:"log"`
	Keymap  KeymapConfig  `toml:"keymap"`
	Plugins PluginsConfig `toml:"plugins"`
	Store   StoreConfig   `toml:"store"`
	Preview PreviewConfig `toml:"preview"`
}

// EditorConfig configures the editing session.
type EditorConfig struct {
	// HistoryDepth caps the undo stack.
	HistoryDepth int `toml:"historyDepth"`
	// IndentWidth is the number of spaces inserted by Tab.
	IndentWidth int `toml:"indentWidth"`
	// TypingCheckpoint is the pause that ends a typing burst.
	TypingCheckpoint Duration `toml:"typingCheckpoint"`
}

// LayoutConfig configures the split between editor and preview.
type LayoutConfig struct {
	SplitPosition float64 `toml:"splitPosition"`
	MinPosition   float64 `toml:"minPosition"`
	MaxPosition   float64 `toml:"maxPosition"`
}

// ScrollConfig configures scroll synchronization.
type ScrollConfig struct {
	Cooldown Duration `toml:"cooldown"`
	Sync     bool     `toml:"sync"`
}

// LogConfig configures logging. An empty File logs to stderr.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// KeymapConfig lists keymap files or directories.
type KeymapConfig struct {
	Paths []string `toml:"paths"`
}

// PluginsConfig configures Lua transform scripts.
type PluginsConfig struct {
	Dir     string `toml:"dir"`
	Enabled bool   `toml:"enabled"`
	// Timeout caps one script call. Calls run on the UI loop, so it is short.
	Timeout Duration `toml:"timeout"`
}

// StoreConfig configures the note store.
type StoreConfig struct {
	Dir string `toml:"dir"`
}

// PreviewConfig configures the rendered preview.
type PreviewConfig struct {
	// Style is a glamour style name such as "dark", "light" or "notty".
	Style string `toml:"style"`
	// WordWrap is the wrap column; 0 wraps at the pane width.
	WordWrap int `toml:"wordWrap"`
}

// Dir returns the markpad configuration directory.
func Dir() string {
	if d, err := os.UserConfigDir(); err == nil {
		return filepath.Join(d, "markpad")
	}
	return ".markpad"
}

// Default returns the built-in settings.
func Default() *Config {
	dir := Dir()
	return &Config{
		Editor: EditorConfig{
			HistoryDepth:     50,
			IndentWidth:      2,
			TypingCheckpoint: Dur(time.Second),
		},
		Layout: LayoutConfig{
			SplitPosition: 50,
			MinPosition:   10,
			MaxPosition:   90,
		},
		Scroll: ScrollConfig{
			Cooldown: Dur(100 * time.Millisecond),
			Sync:     true,
		},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(dir, "markpad.log"),
		},
		Keymap: KeymapConfig{
			Paths: []string{filepath.Join(dir, "keymaps")},
		},
		Plugins: PluginsConfig{
			Dir:     filepath.Join(dir, "plugins"),
			Enabled: true,
			Timeout: Dur(250 * time.Millisecond),
		},
		Store: StoreConfig{
			Dir: filepath.Join(dir, "notes"),
		},
		Preview: PreviewConfig{
			Style: "dark",
		},
	}
}

// Validate checks ranges and returns ValidationErrors listing every
// problem, or nil.
func (c *Config) Validate() error {
	var errs ValidationErrors
	add := func(path string, value any, msg string) {
		errs = append(errs, &ValidationError{Path: path, Value: value, Message: msg})
	}

	if c.Editor.HistoryDepth < 1 {
		add("editor.historyDepth", c.Editor.HistoryDepth, "must be at least 1")
	}
	if c.Editor.IndentWidth < 1 || c.Editor.IndentWidth > 16 {
		add("editor.indentWidth", c.Editor.IndentWidth, "must be between 1 and 16")
	}
	if c.Editor.TypingCheckpoint.Duration < 0 {
		add("editor.typingCheckpoint", c.Editor.TypingCheckpoint, "must not be negative")
	}
	l := c.Layout
	if l.MinPosition < 0 || l.MaxPosition > 100 || l.MinPosition >= l.MaxPosition {
		add("layout.minPosition", l.MinPosition, "bounds must satisfy 0 <= min < max <= 100")
	}
	if l.SplitPosition < l.MinPosition || l.SplitPosition > l.MaxPosition {
		add("layout.splitPosition", l.SplitPosition, "must lie within the position bounds")
	}
	if c.Scroll.Cooldown.Duration < 0 {
		add("scroll.cooldown", c.Scroll.Cooldown, "must not be negative")
	}
	if c.Plugins.Timeout.Duration <= 0 {
		add("plugins.timeout", c.Plugins.Timeout, "must be positive")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		add("log.level", c.Log.Level, "must be debug, info, warn or error")
	}
	if c.Preview.WordWrap < 0 {
		add("preview.wordWrap", c.Preview.WordWrap, "must not be negative")
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// LogLevel returns the parsed log level.
func (c *Config) LogLevel() logging.Level {
	return logging.ParseLevel(c.Log.Level)
}

// ExpandPaths replaces a leading "~" in path settings with the home
// directory.
func (c *Config) ExpandPaths() {
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	expand := func(p string) string {
		if p == "~" {
			return home
		}
		if len(p) > 1 && p[0] == '~' && (p[1] == '/' || p[1] == filepath.Separator) {
			return filepath.Join(home, p[2:])
		}
		return p
	}
	c.Log.File = expand(c.Log.File)
	c.Plugins.Dir = expand(c.Plugins.Dir)
	c.Store.Dir = expand(c.Store.Dir)
	for i, p := range c.Keymap.Paths {
		c.Keymap.Paths[i] = expand(p)
	}
}
