// Package watcher reports changes to configuration files and keymap
// directories so they can be reloaded while the editor runs.
//
// Files are watched through their parent directory because most editors
// save by writing a temporary file and renaming it over the original.
// Bursts of events are coalesced: the handler runs once the paths have
// been quiet for the debounce interval.
package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a change is reported.
const DefaultDebounce = 200 * time.Millisecond

// ErrClosed is returned when adding paths to a closed watcher.
var ErrClosed = errors.New("watcher closed")

// Handler receives the sorted set of changed paths.
type Handler func(paths []string)

// Watcher watches files and directories.
type Watcher struct {
	mu sync.Mutex

	fs       *fsnotify.Watcher
	files    map[string]bool // watched files
	dirs     map[string]bool // watched directories (every file inside counts)
	added    map[string]bool // directories registered with fsnotify
	handler  Handler
	onError  func(error)
	debounce time.Duration

	pending map[string]bool
	timer   *time.Timer
	closed  bool
	done    chan struct{}
	wg      sync.WaitGroup
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithErrorHandler receives fsnotify errors.
func WithErrorHandler(fn func(error)) Option {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// New starts a watcher that calls h on changes.
func New(h Handler, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fs:       fsw,
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
		added:    make(map[string]bool),
		handler:  h,
		debounce: DefaultDebounce,
		pending:  make(map[string]bool),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Add watches path. A directory reports changes to any file inside it; a
// file reports changes to itself and may not exist yet as long as its
// parent directory does.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}

	dir := filepath.Dir(abs)
	if info, err := os.Stat(abs); err == nil && info.IsDir() {
		dir = abs
		w.dirs[abs] = true
	} else {
		w.files[abs] = true
	}

	if w.added[dir] {
		return nil
	}
	if err := w.fs.Add(dir); err != nil {
		return err
	}
	w.added[dir] = true
	return nil
}

// Watched returns the watched paths, sorted.
func (w *Watcher) Watched() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.files)+len(w.dirs))
	for p := range w.files {
		out = append(out, p)
	}
	for p := range w.dirs {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Close stops watching. Pending changes are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	close(w.done)
	w.mu.Unlock()

	err := w.fs.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			if w.onError != nil {
				w.onError(err)
			}
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) &&
		!ev.Op.Has(fsnotify.Remove) && !ev.Op.Has(fsnotify.Rename) {
		return
	}
	path, err := filepath.Abs(ev.Name)
	if err != nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || !w.matchLocked(path) {
		return
	}
	w.pending[path] = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

func (w *Watcher) matchLocked(path string) bool {
	return w.files[path] || w.dirs[filepath.Dir(path)]
}

func (w *Watcher) flush() {
	w.mu.Lock()
	if w.closed || len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = make(map[string]bool)
	w.timer = nil
	h := w.handler
	w.mu.Unlock()

	sort.Strings(paths)
	if h != nil {
		h(paths)
	}
}
