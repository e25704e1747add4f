// Package app wires the markpad components together and runs the
// terminal front end.
//
// New loads the configuration, opens the note store and starts a
// session on one note. Run draws the editor and preview panes on a
// backend and feeds keys, mouse and paste input into the session until
// the user quits. Shutdown releases everything in reverse order.
package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/markpad/internal/config"
	"github.com/dshills/markpad/internal/config/watcher"
	"github.com/dshills/markpad/internal/event"
	"github.com/dshills/markpad/internal/input/keymap"
	"github.com/dshills/markpad/internal/logging"
	"github.com/dshills/markpad/internal/plugin/lua"
	"github.com/dshills/markpad/internal/preview"
	"github.com/dshills/markpad/internal/renderer"
	"github.com/dshills/markpad/internal/renderer/backend"
	"github.com/dshills/markpad/internal/session"
	"github.com/dshills/markpad/internal/store"
)

// Application is the central coordinator for the markpad components.
type Application struct {
	mu sync.RWMutex

	opts       Options
	configPath string
	config     *config.Config
	log        *logging.Logger
	bus        *event.Bus

	store   *store.Store
	note    store.Note
	keys    *keymap.Registry
	session *session.Session
	plugins *lua.Host
	watcher *watcher.Watcher

	backend  backend.Backend
	renderer *renderer.Renderer
	preview  *preview.Renderer
	blocks   *preview.CodeBlocks

	subs    *subscriptionManager
	metrics *Metrics

	// ready is set once the backend accepts interrupts; queued holds
	// notices raised before that.
	ready  bool
	queued []any

	ui uiState

	running  atomic.Bool
	loop     sync.WaitGroup
	shutdown sync.Once
}

// uiState is owned by the event loop goroutine.
type uiState struct {
	followCaret bool
	quitArmed   bool
	confirmQuit bool
	discard     bool
	selecting   bool
	anchor      int
	pasting     bool
	paste       strings.Builder
	scanned     string
	scannedOnce bool
}

// Options configures the application.
type Options struct {
	// ConfigPath is the TOML configuration file. Empty uses
	// config.toml in the markpad configuration directory.
	ConfigPath string

	// NoteID opens an existing note.
	NoteID string

	// New creates a fresh note instead of opening the most recent one.
	New bool

	// LogLevel overrides the configured log level.
	LogLevel string

	// Clipboard replaces the system clipboard for code block copies.
	Clipboard func(string) error
}

// New creates an Application and starts every component except the
// terminal front end.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts:    opts,
		metrics: NewMetrics(),
		log:     logging.NullLogger,
	}

	if err := newBootstrapper(app).bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

// SetBackend sets the terminal backend. Must be called before Run.
func (app *Application) SetBackend(b backend.Backend) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.running.Load() {
		return ErrAlreadyRunning
	}
	app.backend = b
	return nil
}

// Run initializes the backend and runs the event loop until the user
// quits or the backend closes.
func (app *Application) Run() error {
	app.mu.RLock()
	b := app.backend
	app.mu.RUnlock()
	if b == nil {
		return ErrNoBackend
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	app.loop.Add(1)
	defer app.loop.Done()
	defer app.running.Store(false)

	if err := b.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	defer b.Shutdown()

	r := renderer.New(b)
	app.mu.Lock()
	app.renderer = r
	app.mu.Unlock()
	app.session.SetPanes(r.EditorView(), r.PreviewView())

	app.ui.followCaret = true
	app.drainQueued()
	app.redraw()

	app.log.Info("running on note %s", app.note.ID)
	err := app.eventLoop()

	app.mu.Lock()
	app.ready = false
	app.mu.Unlock()

	if errors.Is(err, ErrQuit) {
		return nil
	}
	return err
}

// ShutdownSaveTimeout bounds the save of unsaved changes on shutdown.
const ShutdownSaveTimeout = 5 * time.Second

// Shutdown stops the application. It waits for in-flight saves, then
// discards the session if the user confirmed quitting with unsaved
// changes. Any other shutdown with unsaved changes, such as one from a
// signal, saves them first. Safe to call more than once.
func (app *Application) Shutdown() error {
	if app.running.Load() {
		app.post(quitRequest{})
		app.loop.Wait()
	}

	var errs ErrorList
	app.shutdown.Do(func() {
		if app.watcher != nil {
			errs.Add(app.watcher.Close())
		}

		if app.session != nil {
			app.session.WaitSaves()
			switch {
			case !app.session.Modified():
				errs.Add(app.session.Close())
			case app.ui.discard:
				app.log.Warn("discarding unsaved changes to note %s", app.note.ID)
				errs.Add(app.session.Cancel())
			default:
				app.log.Warn("saving unsaved changes to note %s before exit", app.note.ID)
				ctx, cancel := context.WithTimeout(context.Background(), ShutdownSaveTimeout)
				errs.Add(app.session.Save(ctx, app.store.Persister(app.note.ID)))
				cancel()
				errs.Add(app.session.Close())
			}
		}

		if app.plugins != nil {
			app.plugins.Close()
		}
		if app.subs != nil {
			app.subs.close()
		}

		s := app.metrics.Snapshot()
		app.log.Info("shutdown after %s: %d renders (avg %s), %d inputs, %d saves, %d failed saves, %d reloads",
			s.Uptime.Round(time.Millisecond), s.Renders, s.AvgRender, s.Inputs, s.Saves, s.SaveFailures, s.Reloads)
		errs.Add(app.log.Close())
	})
	return errs.AsError()
}

// IsRunning returns true while the event loop runs.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Config returns the active configuration.
func (app *Application) Config() *config.Config {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.config
}

// Session returns the editing session.
func (app *Application) Session() *session.Session {
	return app.session
}

// Note returns the note being edited, as it was when opened.
func (app *Application) Note() store.Note {
	return app.note
}

// Store returns the note store.
func (app *Application) Store() *store.Store {
	return app.store
}

// Keys returns the keymap registry.
func (app *Application) Keys() *keymap.Registry {
	return app.keys
}

// EventBus returns the event bus.
func (app *Application) EventBus() *event.Bus {
	return app.bus
}

// Plugins returns the plugin host, or nil when plugins are disabled.
func (app *Application) Plugins() *lua.Host {
	return app.plugins
}

// Renderer returns the renderer, or nil before Run.
func (app *Application) Renderer() *renderer.Renderer {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.renderer
}
