package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/markpad/internal/engine/history"
	"github.com/dshills/markpad/internal/engine/textrange"
	"github.com/dshills/markpad/internal/engine/transform"
	"github.com/dshills/markpad/internal/event"
	"github.com/dshills/markpad/internal/input/keymap"
	"github.com/dshills/markpad/internal/layout/scrollsync"
	"github.com/dshills/markpad/internal/layout/split"
	"github.com/dshills/markpad/internal/logging"
)

// Session is the editing state of one open note.
// All methods are safe for concurrent use.
type Session struct {
	mu sync.Mutex

	id       string
	state    State
	content  string
	baseline string

	// anchor stays put while head follows shift-selection.
	anchor int
	head   int
	// goal is the column kept across vertical moves, -1 when unset.
	goal int

	history *history.History
	split   *split.Controller
	scroll  *scrollsync.Synchronizer
	keys    *keymap.Registry

	publisher event.Publisher
	log       *logging.Logger
	now       func() time.Time

	indentWidth int
	checkpoint  time.Duration
	typing      bool
	lastTyped   time.Time

	persist    PersistFunc
	transforms map[string]customTransform
	commands   map[string]CommandFunc
	saves      sync.WaitGroup
}

// pending collects events raised under the lock and published after it.
type pending []event.Event

func (p *pending) add(topic event.Topic, source string, payload any) {
	*p = append(*p, event.New(topic, source, payload))
}

// New creates a session in the Loading state. Call Load with the fetched
// content to make it editable.
func New(opts ...Option) *Session {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	s := &Session{
		id:          o.id,
		state:       StateLoading,
		goal:        -1,
		publisher:   o.publisher,
		now:         o.now,
		indentWidth: o.indentWidth,
		checkpoint:  o.typingCheckpoint,
		persist:     o.persist,
		keys:        o.keys,
		transforms:  make(map[string]customTransform),
		commands:    make(map[string]CommandFunc),
	}
	if s.id == "" {
		s.id = uuid.NewString()
	}
	s.log = o.logger.WithComponent("session").WithField("id", s.id)

	if s.keys == nil {
		s.keys = keymap.NewRegistry()
		// The built-in keymap always validates.
		_ = s.keys.Register(keymap.Default())
	}

	s.history = history.NewHistory(o.historyDepth, history.WithClock(o.now))

	splitOpts := append([]split.Option{}, o.splitOpts...)
	splitOpts = append(splitOpts, split.WithOnChange(s.layoutChanged))
	s.split = split.New(splitOpts...)

	scrollOpts := append([]scrollsync.Option{scrollsync.WithMaximized(s.split.Maximized)}, o.scrollOpts...)
	s.scroll = scrollsync.New(o.editorPane, o.previewPane, scrollOpts...)

	return s
}

// Open creates a Ready session holding initial.
func Open(initial string, opts ...Option) *Session {
	s := New(opts...)
	// A fresh session is always Loading.
	_ = s.Load(initial)
	return s
}

// Load supplies the initial content and moves the session to Ready.
func (s *Session) Load(content string) error {
	s.mu.Lock()
	switch s.state {
	case StateClosed:
		s.mu.Unlock()
		return ErrClosed
	case StateLoading:
	default:
		s.mu.Unlock()
		return ErrAlreadyLoaded
	}
	s.content = content
	s.baseline = content
	s.anchor, s.head = 0, 0
	s.state = StateReady
	s.mu.Unlock()

	s.log.Debug("loaded %d code units", textrange.Len(content))
	return nil
}

// ID returns the session ID.
func (s *Session) ID() string {
	return s.id
}

// State returns the lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// CurrentContent returns the note body.
func (s *Session) CurrentContent() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.content
}

// Selection returns the normalized selection.
func (s *Session) Selection() textrange.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectionLocked()
}

// Head returns the moving end of the selection, where the caret is drawn.
func (s *Session) Head() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.head
}

func (s *Session) selectionLocked() textrange.Selection {
	return textrange.Span(s.anchor, s.head)
}

// SetSelection replaces the selection. Out-of-range offsets are clamped.
// A selection change ends the current typing burst.
func (s *Session) SetSelection(sel textrange.Selection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sel = textrange.Clamp(s.content, sel)
	s.setSelectionLocked(sel)
	s.typing = false
	s.goal = -1
}

func (s *Session) setSelectionLocked(sel textrange.Selection) {
	s.anchor, s.head = sel.Start, sel.End
}

// Modified reports whether the content differs from the last load or save.
func (s *Session) Modified() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.content != s.baseline
}

// CanUndo reports whether undo has an entry.
func (s *Session) CanUndo() bool {
	return s.history.CanUndo()
}

// CanRedo reports whether redo has an entry.
func (s *Session) CanRedo() bool {
	return s.history.CanRedo()
}

// History returns descriptions of the undo entries, oldest first.
func (s *Session) History() []history.Info {
	return s.history.UndoInfo()
}

// Keys returns the key binding registry.
func (s *Session) Keys() *keymap.Registry {
	return s.keys
}

// isTyping reports whether kind continues a typing burst.
func isTyping(kind transform.Kind) bool {
	switch kind {
	case transform.KindInsert, transform.KindDeleteBackward, transform.KindDeleteForward:
		return true
	}
	return false
}

// apply runs op and records history. It returns false when the content and
// selection are unchanged.
func (s *Session) apply(op transform.Op) (bool, error) {
	if op.Kind == transform.KindIndent || op.Kind == transform.KindOutdent {
		if op.Width == 0 {
			op.Width = s.indentWidth
		}
	}

	var events pending
	s.mu.Lock()
	if !s.state.editable() {
		err := s.stateErrLocked()
		s.mu.Unlock()
		return false, err
	}

	sel := s.selectionLocked()
	res, err := transform.Apply(s.content, sel, op)
	if err != nil {
		s.mu.Unlock()
		return false, err
	}
	changed := s.commitLocked(res, op.Label(), isTyping(op.Kind), &events)
	s.mu.Unlock()

	s.publish(events)
	return changed, nil
}

// commitLocked installs res, snapshotting the previous content first.
// Typing edits snapshot only at the start of a burst.
func (s *Session) commitLocked(res transform.Result, label string, typing bool, events *pending) bool {
	sel := s.selectionLocked()
	if res.Content == s.content {
		if res.Selection != sel {
			s.setSelectionLocked(res.Selection)
			s.goal = -1
			s.typing = false
			return true
		}
		return false
	}

	now := s.now()
	burst := typing && s.typing && now.Sub(s.lastTyped) < s.checkpoint
	if !burst {
		s.history.Push(history.Entry{
			Content:   s.content,
			Selection: sel,
			Label:     label,
			Timestamp: now,
		})
	}
	s.typing = typing
	s.lastTyped = now

	s.content = res.Content
	s.setSelectionLocked(res.Selection)
	s.goal = -1

	events.add(event.TopicContentChanged, s.id, ContentChanged{
		SessionID: s.id,
		Label:     label,
		Length:    textrange.Len(s.content),
		Modified:  s.content != s.baseline,
	})
	return true
}

// Undo restores the previous snapshot. It returns false when there is
// nothing to undo.
func (s *Session) Undo() bool {
	return s.step(s.history.UndoEntry, "Undo")
}

// Redo reapplies the last undone snapshot. It returns false when there is
// nothing to redo.
func (s *Session) Redo() bool {
	return s.step(s.history.RedoEntry, "Redo")
}

func (s *Session) step(move func(history.Entry) (history.Entry, bool), label string) bool {
	var events pending
	s.mu.Lock()
	if !s.state.editable() {
		s.mu.Unlock()
		return false
	}
	e, ok := move(history.Entry{
		Content:   s.content,
		Selection: s.selectionLocked(),
		Label:     label,
	})
	if !ok {
		s.mu.Unlock()
		return false
	}
	s.content = e.Content
	s.setSelectionLocked(textrange.Clamp(e.Content, e.Selection))
	s.typing = false
	s.goal = -1
	events.add(event.TopicContentChanged, s.id, ContentChanged{
		SessionID: s.id,
		Label:     label,
		Length:    textrange.Len(s.content),
		Modified:  s.content != s.baseline,
	})
	s.mu.Unlock()

	s.publish(events)
	return true
}

func (s *Session) stateErrLocked() error {
	if s.state == StateClosed {
		return ErrClosed
	}
	return ErrNotReady
}

func (s *Session) publish(events pending) {
	for _, ev := range events {
		if err := s.publisher.Publish(ev.Topic, ev.Source, ev.Payload); err != nil {
			s.log.Warn("publish %s: %v", ev.Topic, err)
		}
	}
}

// Cancel discards the session without saving. History and content are
// dropped and the scroll cooldown is stopped.
func (s *Session) Cancel() error {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return ErrClosed
	}
	modified := s.content != s.baseline
	s.state = StateClosed
	s.content = ""
	s.baseline = ""
	s.anchor, s.head = 0, 0
	s.mu.Unlock()

	s.history.Clear()
	s.scroll.Close()
	s.log.Info("cancelled (modified=%t)", modified)
	s.publish(pending{event.New(event.TopicCancelled, s.id, Ended{SessionID: s.id, Modified: modified})})
	return nil
}

// Close ends the session, keeping the last content readable. It is safe to
// call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return nil
	}
	modified := s.content != s.baseline
	s.state = StateClosed
	s.mu.Unlock()

	s.history.Clear()
	s.scroll.Close()
	s.log.Debug("closed")
	s.publish(pending{event.New(event.TopicClosed, s.id, Ended{SessionID: s.id, Modified: modified})})
	return nil
}
