package app

import (
	"context"
	"os"
	"path/filepath"

	"github.com/dshills/markpad/internal/config"
	"github.com/dshills/markpad/internal/config/watcher"
	"github.com/dshills/markpad/internal/event"
	"github.com/dshills/markpad/internal/input/keymap"
	"github.com/dshills/markpad/internal/layout/scrollsync"
	"github.com/dshills/markpad/internal/layout/split"
	"github.com/dshills/markpad/internal/logging"
	"github.com/dshills/markpad/internal/plugin/lua"
	"github.com/dshills/markpad/internal/preview"
	"github.com/dshills/markpad/internal/renderer/statusline"
	"github.com/dshills/markpad/internal/session"
	"github.com/dshills/markpad/internal/store"
)

// ConfigFile is the configuration file name inside config.Dir.
const ConfigFile = "config.toml"

// DefaultConfigPath returns the configuration file used when
// Options.ConfigPath is empty.
func DefaultConfigPath() string {
	return filepath.Join(config.Dir(), ConfigFile)
}

// bootstrapper handles component initialization with proper cleanup on failure.
type bootstrapper struct {
	app       *Application
	opts      Options
	initOrder []string
}

// newBootstrapper creates a new bootstrapper for the application.
func newBootstrapper(app *Application) *bootstrapper {
	return &bootstrapper{
		app:       app,
		opts:      app.opts,
		initOrder: make([]string, 0, 10),
	}
}

// bootstrap initializes all components in dependency order.
// On failure, it cleans up already-initialized components.
func (b *bootstrapper) bootstrap() error {
	steps := []func() error{
		b.initConfig,
		b.initLogging,
		b.initEventBus,
		b.initStore,
		b.initNote,
		b.initKeymaps,
		b.initPreview,
		b.initSession,
		b.initPlugins,
		b.initWatcher,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			b.cleanup()
			return err
		}
	}
	b.app.log.Info("started on note %s (%q)", b.app.note.ID, b.app.note.Title)
	return nil
}

// initConfig loads defaults, the TOML file and MARKPAD_* overrides.
func (b *bootstrapper) initConfig() error {
	path := b.opts.ConfigPath
	if path == "" {
		path = DefaultConfigPath()
	}
	cfg, err := config.NewLoader(config.WithFiles(path)).Load()
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	b.app.configPath = path
	b.app.config = cfg
	b.initOrder = append(b.initOrder, "config")
	return nil
}

// initLogging opens the log file. An empty file setting logs to stderr.
func (b *bootstrapper) initLogging() error {
	cfg := b.app.config
	level := cfg.LogLevel()
	if b.opts.LogLevel != "" {
		level = logging.ParseLevel(b.opts.LogLevel)
	}

	if cfg.Log.File == "" {
		b.app.log = logging.New(logging.Config{Level: level, Output: os.Stderr, Prefix: "markpad"})
	} else {
		l, err := logging.Open(cfg.Log.File, level)
		if err != nil {
			return &InitError{Component: "logging", Err: err}
		}
		b.app.log = l
	}
	b.app.log = b.app.log.WithComponent("app")
	b.initOrder = append(b.initOrder, "logging")
	return nil
}

// initEventBus creates the bus and the application's subscriptions.
func (b *bootstrapper) initEventBus() error {
	b.app.bus = event.NewBus(event.WithPanicHandler(b.app.handlerPanicked))
	b.app.subs = newSubscriptionManager(b.app)
	b.app.subs.setupSubscriptions()
	b.initOrder = append(b.initOrder, "eventBus")
	return nil
}

// initStore opens the note directory.
func (b *bootstrapper) initStore() error {
	s, err := store.Open(b.app.config.Store.Dir, store.WithLogger(b.app.log))
	if err != nil {
		return &InitError{Component: "store", Err: err}
	}
	b.app.store = s
	b.initOrder = append(b.initOrder, "store")
	return nil
}

// initNote picks the note to edit: the requested one, a new one, or the
// most recently updated one. An empty store gets a new note.
func (b *bootstrapper) initNote() error {
	ctx := context.Background()
	st := b.app.store

	var (
		note store.Note
		err  error
	)
	switch {
	case b.opts.NoteID != "":
		note, err = st.Get(ctx, b.opts.NoteID)
	case b.opts.New:
		note, err = st.Create(ctx, "", "")
	default:
		var notes []store.Note
		notes, err = st.List(ctx)
		if err == nil && len(notes) > 0 {
			note = notes[0]
		} else if err == nil {
			note, err = st.Create(ctx, "", "")
		}
	}
	if err != nil {
		return &InitError{Component: "note", Err: err}
	}
	b.app.note = note
	return nil
}

// initKeymaps registers the built-in keymap and the user's keymap files.
// Broken user keymaps are logged and skipped.
func (b *bootstrapper) initKeymaps() error {
	b.app.keys = keymap.NewRegistry()
	if err := b.app.keys.Register(keymap.Default()); err != nil {
		return &InitError{Component: "keymap", Err: err}
	}
	if err := b.app.loadUserKeymaps(); err != nil {
		b.app.log.Warn("keymaps: %v", err)
		b.app.notify(statusline.MessageWarning, "Keymap error: %v", err)
	}
	return nil
}

// initPreview creates the preview renderer and code block tracker.
func (b *bootstrapper) initPreview() error {
	cfg := b.app.config
	b.app.preview = preview.NewRenderer(preview.WithStyle(cfg.Preview.Style), preview.WithWordWrap(true))
	b.app.blocks = preview.NewCodeBlocks()
	if b.opts.Clipboard != nil {
		b.app.blocks.SetWriter(b.opts.Clipboard)
	}
	return nil
}

// initSession opens the note in a session persisted to the store.
func (b *bootstrapper) initSession() error {
	cfg := b.app.config
	b.app.session = session.Open(b.app.note.Content,
		session.WithID(b.app.note.ID),
		session.WithPersist(b.app.store.Persister(b.app.note.ID)),
		session.WithPublisher(b.app.bus),
		session.WithLogger(b.app.log),
		session.WithKeymap(b.app.keys),
		session.WithHistoryDepth(cfg.Editor.HistoryDepth),
		session.WithIndentWidth(cfg.Editor.IndentWidth),
		session.WithTypingCheckpoint(cfg.Editor.TypingCheckpoint.Duration),
		session.WithSplitOptions(
			split.WithBounds(cfg.Layout.MinPosition, cfg.Layout.MaxPosition),
			split.WithPosition(cfg.Layout.SplitPosition),
		),
		session.WithScrollOptions(
			scrollsync.WithCooldown(cfg.Scroll.Cooldown.Duration),
			scrollsync.WithEnabled(cfg.Scroll.Sync),
		),
	)
	if err := b.app.registerCommands(); err != nil {
		return &InitError{Component: "commands", Err: err}
	}
	b.initOrder = append(b.initOrder, "session")
	return nil
}

// initPlugins loads the Lua scripts and exposes them as session actions.
// Broken scripts are logged and skipped.
func (b *bootstrapper) initPlugins() error {
	cfg := b.app.config
	if !cfg.Plugins.Enabled {
		return nil
	}
	b.app.plugins = lua.NewHost(cfg.Plugins.Dir,
		lua.WithHostLogger(b.app.log),
		lua.WithPublisher(b.app.bus),
		lua.WithTimeout(cfg.Plugins.Timeout.Duration),
	)
	if err := b.app.loadPlugins(); err != nil {
		b.app.log.Warn("plugins: %v", err)
		b.app.notify(statusline.MessageWarning, "Plugin error: %v", err)
	}
	b.initOrder = append(b.initOrder, "plugins")
	return nil
}

// initWatcher reloads settings, keymaps and plugins when their files
// change. Paths that cannot be watched are logged and skipped.
func (b *bootstrapper) initWatcher() error {
	log := b.app.log
	w, err := watcher.New(b.app.reload, watcher.WithErrorHandler(func(err error) {
		log.Warn("watch: %v", err)
	}))
	if err != nil {
		log.Warn("live reload disabled: %v", err)
		return nil
	}
	for _, p := range b.app.watchPaths() {
		if err := w.Add(p); err != nil {
			log.Debug("not watching %s: %v", p, err)
		}
	}
	b.app.watcher = w
	b.initOrder = append(b.initOrder, "watcher")
	return nil
}

// cleanup releases initialized components in reverse order.
// Called when bootstrap fails partway through.
func (b *bootstrapper) cleanup() {
	for i := len(b.initOrder) - 1; i >= 0; i-- {
		b.cleanupComponent(b.initOrder[i])
	}
}

// cleanupComponent cleans up a single component.
func (b *bootstrapper) cleanupComponent(component string) {
	switch component {
	case "watcher":
		if b.app.watcher != nil {
			_ = b.app.watcher.Close()
			b.app.watcher = nil
		}
	case "plugins":
		if b.app.plugins != nil {
			b.app.plugins.Close()
			b.app.plugins = nil
		}
	case "session":
		if b.app.session != nil {
			_ = b.app.session.Close()
			b.app.session = nil
		}
	case "eventBus":
		if b.app.subs != nil {
			b.app.subs.close()
			b.app.subs = nil
		}
	case "logging":
		_ = b.app.log.Close()
		b.app.log = logging.NullLogger
	}
}
