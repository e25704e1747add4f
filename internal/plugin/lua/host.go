package lua

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dshills/markpad/internal/engine/textrange"
	"github.com/dshills/markpad/internal/engine/transform"
	"github.com/dshills/markpad/internal/event"
	"github.com/dshills/markpad/internal/logging"
	"github.com/dshills/markpad/internal/session"
)

// Loaded is the payload of plugin.loaded events.
type Loaded struct {
	Name   string
	Path   string
	Action string
}

// Host owns the scripts found in a plugin directory.
type Host struct {
	mu         sync.Mutex
	dir        string
	scripts    map[string]*Script
	registered []string

	timeout   time.Duration
	log       *logging.Logger
	publisher event.Publisher
}

// HostOption configures a Host.
type HostOption func(*Host)

// WithHostLogger sets the logger for the host and its scripts.
func WithHostLogger(l *logging.Logger) HostOption {
	return func(h *Host) {
		if l != nil {
			h.log = l.WithComponent("plugin")
		}
	}
}

// WithPublisher sets where plugin.loaded events go.
func WithPublisher(p event.Publisher) HostOption {
	return func(h *Host) {
		if p != nil {
			h.publisher = p
		}
	}
}

// WithTimeout sets the per-call script timeout.
func WithTimeout(d time.Duration) HostOption {
	return func(h *Host) {
		if d > 0 {
			h.timeout = d
		}
	}
}

// NewHost creates a host for the scripts in dir.
func NewHost(dir string, opts ...HostOption) *Host {
	h := &Host{
		dir:       dir,
		scripts:   make(map[string]*Script),
		timeout:   DefaultExecutionTimeout,
		log:       logging.NullLogger,
		publisher: event.Nop{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ActionName returns the session action for a script name.
func ActionName(script string) string {
	return session.PluginPrefix + script
}

// LoadAll (re)loads every .lua file in the directory, replacing scripts
// loaded earlier. A missing directory loads nothing. Scripts that fail to
// load are skipped and their errors joined.
func (h *Host) LoadAll() error {
	entries, err := os.ReadDir(h.dir)
	if errors.Is(err, fs.ErrNotExist) {
		entries, err = nil, nil
	}
	if err != nil {
		return err
	}

	var paths []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".lua") {
			paths = append(paths, filepath.Join(h.dir, e.Name()))
		}
	}
	sort.Strings(paths)

	loaded := make(map[string]*Script, len(paths))
	var errs []error
	for _, path := range paths {
		sc, err := LoadScript(path, WithExecutionTimeout(h.timeout), WithLogger(h.log))
		if err != nil {
			h.log.Warn("%v", err)
			errs = append(errs, err)
			continue
		}
		loaded[sc.Name] = sc
	}

	h.mu.Lock()
	old := h.scripts
	h.scripts = loaded
	h.mu.Unlock()

	for _, sc := range old {
		sc.Close()
	}
	for _, name := range sortedNames(loaded) {
		sc := loaded[name]
		h.log.Info("loaded %s as %s", sc.Path, ActionName(name))
		if err := h.publisher.Publish(event.TopicPluginLoaded, "plugin", Loaded{
			Name:   name,
			Path:   sc.Path,
			Action: ActionName(name),
		}); err != nil {
			h.log.Warn("publish: %v", err)
		}
	}
	return errors.Join(errs...)
}

func sortedNames(m map[string]*Script) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Names returns the loaded script names in order.
func (h *Host) Names() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return sortedNames(h.scripts)
}

// Get returns a loaded script.
func (h *Host) Get(name string) (*Script, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	sc, ok := h.scripts[name]
	return sc, ok
}

// Register exposes every loaded script on s as plugin.<name>. Names
// registered by an earlier call are removed first, so Register after
// LoadAll reflects a reload.
func (h *Host) Register(s *session.Session) error {
	h.mu.Lock()
	prev := h.registered
	names := sortedNames(h.scripts)
	labels := make(map[string]string, len(names))
	for _, name := range names {
		labels[name] = h.scripts[name].Label
	}
	h.mu.Unlock()

	for _, action := range prev {
		s.UnregisterTransform(action)
	}

	var errs []error
	var registered []string
	for _, name := range names {
		action := ActionName(name)
		if err := s.RegisterTransform(action, labels[name], h.transformFor(name)); err != nil {
			errs = append(errs, err)
			continue
		}
		registered = append(registered, action)
	}

	h.mu.Lock()
	h.registered = registered
	h.mu.Unlock()
	return errors.Join(errs...)
}

// transformFor resolves the script at call time so a reload takes effect
// for registered actions.
func (h *Host) transformFor(name string) session.TransformFunc {
	return func(content string, sel textrange.Selection) (transform.Result, error) {
		sc, ok := h.Get(name)
		if !ok {
			return transform.Result{}, fmt.Errorf("plugin %s is not loaded", name)
		}
		return sc.Transform(content, sel)
	}
}

// Close releases all scripts.
func (h *Host) Close() {
	h.mu.Lock()
	scripts := h.scripts
	h.scripts = make(map[string]*Script)
	h.mu.Unlock()
	for _, sc := range scripts {
		sc.Close()
	}
}
