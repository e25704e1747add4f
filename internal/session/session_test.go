package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/dshills/markpad/internal/engine/textrange"
	"github.com/dshills/markpad/internal/engine/transform"
	"github.com/dshills/markpad/internal/event"
	"github.com/dshills/markpad/internal/input/key"
	"github.com/dshills/markpad/internal/input/keymap"
	"github.com/dshills/markpad/internal/layout/scrollsync"
	"github.com/dshills/markpad/internal/layout/split"
)

type recorder struct {
	mu     sync.Mutex
	events []event.Event
}

func (r *recorder) Publish(topic event.Topic, source string, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event.New(topic, source, payload))
	return nil
}

func (r *recorder) topics() []event.Topic {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]event.Topic, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Topic
	}
	return out
}

func (r *recorder) count(topic event.Topic) int {
	n := 0
	for _, t := range r.topics() {
		if t == topic {
			n++
		}
	}
	return n
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func TestBoldWrapsSelection(t *testing.T) {
	s := Open("hello world")
	s.SetSelection(textrange.Span(0, 5))

	if err := s.ApplyToolbarAction(ActionBold, nil); err != nil {
		t.Fatalf("ApplyToolbarAction() error = %v", err)
	}
	if got := s.CurrentContent(); got != "**hello** world" {
		t.Errorf("CurrentContent() = %q, want %q", got, "**hello** world")
	}
	if got := s.Selection(); got != textrange.Caret(9) {
		t.Errorf("Selection() = %v, want %v", got, textrange.Caret(9))
	}
	if !s.Modified() {
		t.Error("Modified() = false, want true")
	}
}

func TestToolbarActions(t *testing.T) {
	tests := []struct {
		name    string
		content string
		sel     textrange.Selection
		action  string
		args    map[string]any
		want    string
		wantSel textrange.Selection
	}{
		{"italic", "a b", textrange.Span(2, 3), ActionItalic, nil, "a *b*", textrange.Caret(5)},
		{"strike caret", "", textrange.Caret(0), ActionStrike, nil, "~~~~", textrange.Caret(2)},
		{"code", "x", textrange.Span(0, 1), ActionCode, nil, "`x`", textrange.Caret(3)},
		{"heading int", "title", textrange.Caret(0), ActionHeading, map[string]any{"level": 2}, "## title", textrange.Caret(3)},
		{"heading float", "title", textrange.Caret(0), ActionHeading, map[string]any{"level": 3.0}, "### title", textrange.Caret(4)},
		{"heading string", "title", textrange.Caret(0), ActionHeading, map[string]any{"level": "1"}, "# title", textrange.Caret(2)},
		{"link default", "go", textrange.Span(0, 2), ActionLink, nil, "[go](url)", textrange.Caret(9)},
		{"link url", "go", textrange.Span(0, 2), ActionLink, map[string]any{"url": "https://go.dev"}, "[go](https://go.dev)", textrange.Caret(20)},
		{"quote", "q", textrange.Caret(0), ActionQuote, nil, "> q", textrange.Caret(2)},
		{"bullet", "a\nb", textrange.Span(0, 3), ActionBulletList, nil, "- a\n- b", textrange.Span(0, 7)},
		{"indent", "ab", textrange.Caret(1), ActionIndent, nil, "a  b", textrange.Caret(3)},
		{"outdent", "  ab", textrange.Caret(3), ActionOutdent, nil, "ab", textrange.Caret(1)},
		{"insert", "ab", textrange.Caret(1), ActionInsert, map[string]any{"text": "X"}, "aXb", textrange.Caret(2)},
		{"newline", "ab", textrange.Caret(1), ActionNewline, nil, "a\nb", textrange.Caret(2)},
		{"delete backward", "ab", textrange.Caret(1), ActionDeleteBackward, nil, "b", textrange.Caret(0)},
		{"delete forward", "ab", textrange.Caret(1), ActionDeleteForward, nil, "a", textrange.Caret(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Open(tt.content)
			s.SetSelection(tt.sel)
			if err := s.ApplyToolbarAction(tt.action, tt.args); err != nil {
				t.Fatalf("ApplyToolbarAction(%s) error = %v", tt.action, err)
			}
			if got := s.CurrentContent(); got != tt.want {
				t.Errorf("CurrentContent() = %q, want %q", got, tt.want)
			}
			if got := s.Selection(); got != tt.wantSel {
				t.Errorf("Selection() = %v, want %v", got, tt.wantSel)
			}
		})
	}
}

func TestToolbarActionErrors(t *testing.T) {
	s := Open("x")

	err := s.ApplyToolbarAction("format.sparkle", nil)
	if !errors.Is(err, ErrUnknownAction) {
		t.Errorf("unknown action error = %v, want ErrUnknownAction", err)
	}
	var ae *ActionError
	if !errors.As(err, &ae) || ae.Action != "format.sparkle" {
		t.Errorf("error = %#v, want *ActionError for format.sparkle", err)
	}

	if err := s.ApplyToolbarAction(ActionHeading, map[string]any{"level": "two"}); err == nil {
		t.Error("heading with non-numeric level succeeded")
	}
	if err := s.ApplyToolbarAction(ActionHeading, map[string]any{"level": 1.5}); err == nil {
		t.Error("heading with fractional level succeeded")
	}
	if got := s.CurrentContent(); got != "x" {
		t.Errorf("content changed after failed actions: %q", got)
	}
}

func TestUndoRedo(t *testing.T) {
	s := Open("hello world")
	s.SetSelection(textrange.Span(0, 5))
	_ = s.ApplyToolbarAction(ActionBold, nil)

	if !s.Undo() {
		t.Fatal("Undo() = false, want true")
	}
	if got := s.CurrentContent(); got != "hello world" {
		t.Errorf("after undo content = %q", got)
	}
	if got := s.Selection(); got != textrange.Span(0, 5) {
		t.Errorf("after undo selection = %v, want [0:5)", got)
	}
	if s.Modified() {
		t.Error("Modified() = true after undoing the only edit")
	}

	if !s.Redo() {
		t.Fatal("Redo() = false, want true")
	}
	if got := s.CurrentContent(); got != "**hello** world" {
		t.Errorf("after redo content = %q", got)
	}
	if got := s.Selection(); got != textrange.Caret(9) {
		t.Errorf("after redo selection = %v, want caret 9", got)
	}

	if s.Redo() {
		t.Error("Redo() with empty stack = true")
	}

	s.Undo()
	if s.Undo() {
		t.Error("Undo() with empty stack = true")
	}
	if err := s.ApplyToolbarAction(ActionUndo, nil); err != nil {
		t.Errorf("history.undo on empty stack error = %v, want nil", err)
	}
}

func TestNewEditClearsRedo(t *testing.T) {
	s := Open("a")
	s.SetSelection(textrange.Span(0, 1))
	_ = s.ApplyToolbarAction(ActionBold, nil)
	s.Undo()
	if !s.CanRedo() {
		t.Fatal("CanRedo() = false after undo")
	}
	_ = s.ApplyToolbarAction(ActionItalic, nil)
	if s.CanRedo() {
		t.Error("CanRedo() = true after a new edit")
	}
}

func TestHistoryDepth(t *testing.T) {
	s := Open("", WithHistoryDepth(3))
	for i := 0; i < 5; i++ {
		_ = s.ApplyToolbarAction(ActionRule, nil)
	}
	if got := len(s.History()); got != 3 {
		t.Errorf("len(History()) = %d, want 3", got)
	}
}

func TestTypingBursts(t *testing.T) {
	clock := newClock()
	s := Open("", WithClock(clock.Now), WithTypingCheckpoint(time.Second))

	for _, r := range "abc" {
		if !s.ApplyKeyEvent(key.Rune(r, key.ModNone)) {
			t.Fatalf("ApplyKeyEvent(%q) not handled", r)
		}
		clock.advance(100 * time.Millisecond)
	}
	if got := len(s.History()); got != 1 {
		t.Fatalf("burst produced %d entries, want 1", got)
	}

	clock.advance(2 * time.Second)
	_ = s.Type("d")
	if got := len(s.History()); got != 2 {
		t.Fatalf("after pause %d entries, want 2", got)
	}

	s.SetSelection(textrange.Caret(0))
	_ = s.Type("z")
	if got := len(s.History()); got != 3 {
		t.Fatalf("after caret move %d entries, want 3", got)
	}

	_ = s.ApplyToolbarAction(ActionBold, nil)
	_ = s.Type("y")
	if got := len(s.History()); got != 5 {
		t.Fatalf("after format and typing %d entries, want 5", got)
	}

	if got := s.CurrentContent(); got != "z**y**abcd" {
		t.Fatalf("content = %q", got)
	}
	s.Undo()
	s.Undo()
	s.Undo()
	if got := s.CurrentContent(); got != "abcd" {
		t.Errorf("after three undos content = %q, want %q", got, "abcd")
	}
	s.Undo()
	if got := s.CurrentContent(); got != "abc" {
		t.Errorf("after four undos content = %q, want %q", got, "abc")
	}
	s.Undo()
	if got := s.CurrentContent(); got != "" {
		t.Errorf("after undoing the first burst content = %q, want empty", got)
	}
}

func TestZeroCheckpointSnapshotsEveryKey(t *testing.T) {
	s := Open("", WithTypingCheckpoint(0))
	_ = s.Type("a")
	_ = s.Type("b")
	if got := len(s.History()); got != 2 {
		t.Errorf("len(History()) = %d, want 2", got)
	}
}

func TestNoOpIsNotRecorded(t *testing.T) {
	s := Open("ab")
	s.SetSelection(textrange.Caret(0))
	_ = s.ApplyToolbarAction(ActionDeleteBackward, nil)
	_ = s.ApplyToolbarAction(ActionOutdent, nil)
	if s.CanUndo() {
		t.Error("no-op edits were recorded in history")
	}
}

func TestKeyDispatch(t *testing.T) {
	s := Open("hello")
	s.SetSelection(textrange.Span(0, 5))

	if !s.ApplyKeyEvent(key.MustParse("Ctrl+B")) {
		t.Fatal("Ctrl+B not handled")
	}
	if got := s.CurrentContent(); got != "**hello**" {
		t.Errorf("after Ctrl+B content = %q", got)
	}

	if !s.ApplyKeyEvent(key.MustParse("Ctrl+Z")) {
		t.Fatal("Ctrl+Z not handled")
	}
	if got := s.CurrentContent(); got != "hello" {
		t.Errorf("after Ctrl+Z content = %q", got)
	}

	if !s.ApplyKeyEvent(key.MustParse("Ctrl+Shift+Z")) {
		t.Fatal("Ctrl+Shift+Z not handled")
	}
	if got := s.CurrentContent(); got != "**hello**" {
		t.Errorf("after Ctrl+Shift+Z content = %q", got)
	}

	s.SetSelection(textrange.Caret(0))
	s.ApplyKeyEvent(key.MustParse("Alt+2"))
	if got := s.CurrentContent(); got != "## **hello**" {
		t.Errorf("after Alt+2 content = %q", got)
	}

	if s.ApplyKeyEvent(key.MustParse("F7")) {
		t.Error("unbound F7 reported as handled")
	}
}

func TestTabIndentsAtCaret(t *testing.T) {
	s := Open("item")
	s.SetSelection(textrange.Caret(0))
	if !s.ApplyKeyEvent(key.Special(key.KeyTab, key.ModNone)) {
		t.Fatal("Tab not handled")
	}
	if got := s.CurrentContent(); got != "  item" {
		t.Errorf("content = %q, want %q", got, "  item")
	}
	if got := s.Selection(); got != textrange.Caret(2) {
		t.Errorf("Selection() = %v, want caret 2", got)
	}
}

func TestTabFallbackWithoutBinding(t *testing.T) {
	r := keymap.NewRegistry()
	if err := r.Register(keymap.New("empty")); err != nil {
		t.Fatal(err)
	}
	s := Open("x", WithKeymap(r), WithIndentWidth(4))
	s.SetSelection(textrange.Caret(0))
	if !s.ApplyKeyEvent(key.Special(key.KeyTab, key.ModNone)) {
		t.Fatal("Tab not handled without a binding")
	}
	if got := s.CurrentContent(); got != "    x" {
		t.Errorf("content = %q, want four-space indent", got)
	}
}

func TestCursorMovement(t *testing.T) {
	s := Open("abc\nde\nfghij")

	steps := []struct {
		action string
		want   textrange.Selection
	}{
		{"cursor.right", textrange.Caret(1)},
		{"cursor.right", textrange.Caret(2)},
		{"cursor.down", textrange.Caret(6)},
		{"cursor.down", textrange.Caret(9)},
		{"cursor.up", textrange.Caret(6)},
		{"cursor.up", textrange.Caret(2)},
		{"cursor.up", textrange.Caret(0)},
		{"cursor.lineEnd", textrange.Caret(3)},
		{"select.down", textrange.Span(3, 6)},
		{"select.lineStart", textrange.Span(3, 4)},
		{"cursor.left", textrange.Caret(3)},
		{"cursor.docEnd", textrange.Caret(12)},
		{"cursor.right", textrange.Caret(12)},
		{"select.docStart", textrange.Span(0, 12)},
		{"cursor.right", textrange.Caret(12)},
	}
	for i, step := range steps {
		if err := s.ApplyToolbarAction(step.action, nil); err != nil {
			t.Fatalf("step %d %s error = %v", i, step.action, err)
		}
		if got := s.Selection(); got != step.want {
			t.Fatalf("step %d %s: Selection() = %v, want %v", i, step.action, got, step.want)
		}
	}
}

func TestCursorSurrogatePairs(t *testing.T) {
	s := Open("a😀b")
	_ = s.ApplyToolbarAction("cursor.right", nil)
	_ = s.ApplyToolbarAction("cursor.right", nil)
	if got := s.Selection(); got != textrange.Caret(3) {
		t.Errorf("Selection() = %v, want caret 3 after the emoji", got)
	}
	_ = s.ApplyToolbarAction("cursor.left", nil)
	if got := s.Selection(); got != textrange.Caret(1) {
		t.Errorf("Selection() = %v, want caret 1", got)
	}
}

func TestSelectAllAndSetSelectionClamps(t *testing.T) {
	s := Open("abc")
	_ = s.ApplyToolbarAction(ActionSelectAll, nil)
	if got := s.Selection(); got != textrange.Span(0, 3) {
		t.Errorf("Selection() = %v, want [0:3)", got)
	}
	s.SetSelection(textrange.Selection{Start: 10, End: -4})
	if got := s.Selection(); got != textrange.Span(0, 3) {
		t.Errorf("clamped Selection() = %v, want [0:3)", got)
	}
}

func TestLoadingState(t *testing.T) {
	s := New()
	if s.State() != StateLoading {
		t.Fatalf("State() = %v, want loading", s.State())
	}
	if err := s.ApplyToolbarAction(ActionBold, nil); !errors.Is(err, ErrNotReady) {
		t.Errorf("edit while loading error = %v, want ErrNotReady", err)
	}
	if err := s.ApplyToolbarAction(ActionUndo, nil); !errors.Is(err, ErrNotReady) {
		t.Errorf("undo while loading error = %v, want ErrNotReady", err)
	}
	if err := s.Save(context.Background(), func(context.Context, string) error { return nil }); !errors.Is(err, ErrNotReady) {
		t.Errorf("Save() while loading error = %v, want ErrNotReady", err)
	}

	if err := s.Load("body"); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.State() != StateReady {
		t.Errorf("State() = %v, want ready", s.State())
	}
	if err := s.Load("again"); !errors.Is(err, ErrAlreadyLoaded) {
		t.Errorf("second Load() error = %v, want ErrAlreadyLoaded", err)
	}
	if s.Modified() {
		t.Error("Modified() = true right after Load")
	}
}

func TestSaveSuccess(t *testing.T) {
	rec := &recorder{}
	s := Open("a", WithPublisher(rec))
	_ = s.Type("b")

	var got string
	err := s.Save(context.Background(), func(_ context.Context, content string) error {
		got = content
		return nil
	})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if got != "ba" {
		t.Errorf("persisted %q, want %q", got, "ba")
	}
	if s.Modified() {
		t.Error("Modified() = true after save")
	}
	if s.State() != StateReady {
		t.Errorf("State() = %v, want ready", s.State())
	}
	if rec.count(event.TopicSaved) != 1 {
		t.Errorf("topics = %v, want one %s", rec.topics(), event.TopicSaved)
	}
}

func TestSaveFailureKeepsEdits(t *testing.T) {
	rec := &recorder{}
	s := Open("", WithPublisher(rec))
	_ = s.Type("draft")

	boom := errors.New("network down")
	err := s.Save(context.Background(), func(context.Context, string) error { return boom })

	var se *SaveError
	if !errors.As(err, &se) {
		t.Fatalf("Save() error = %v, want *SaveError", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("Save() error does not wrap the cause: %v", err)
	}
	if s.State() != StateReady {
		t.Errorf("State() = %v, want ready", s.State())
	}
	if got := s.CurrentContent(); got != "draft" {
		t.Errorf("content = %q, want edits intact", got)
	}
	if !s.Modified() {
		t.Error("Modified() = false after failed save")
	}
	if rec.count(event.TopicSaveFailed) != 1 {
		t.Errorf("topics = %v, want one %s", rec.topics(), event.TopicSaveFailed)
	}
	if err := s.ApplyToolbarAction(ActionBold, nil); err != nil {
		t.Errorf("edit after failed save error = %v", err)
	}
}

func TestSaveInProgress(t *testing.T) {
	s := Open("a")
	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- s.Save(context.Background(), func(context.Context, string) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	if s.State() != StateSaving {
		t.Errorf("State() = %v, want saving", s.State())
	}
	if err := s.Save(context.Background(), func(context.Context, string) error { return nil }); !errors.Is(err, ErrSaveInProgress) {
		t.Errorf("second Save() error = %v, want ErrSaveInProgress", err)
	}

	// Edits stay available while saving.
	if err := s.Type("b"); err != nil {
		t.Errorf("Type() while saving error = %v", err)
	}
	if !s.Undo() {
		t.Error("Undo() while saving = false")
	}
	_ = s.Type("c")

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if !s.Modified() {
		t.Error("edit made during save should remain unsaved")
	}
}

func TestSaveDiscardedAfterClose(t *testing.T) {
	rec := &recorder{}
	s := Open("a", WithPublisher(rec))
	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- s.Save(context.Background(), func(context.Context, string) error {
			close(started)
			<-release
			return errors.New("late failure")
		})
	}()
	<-started
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	close(release)

	if err := <-done; !errors.Is(err, ErrClosed) {
		t.Errorf("Save() error = %v, want ErrClosed", err)
	}
	if rec.count(event.TopicSaveFailed) != 0 {
		t.Errorf("save.failed published after close: %v", rec.topics())
	}
	if s.State() != StateClosed {
		t.Errorf("State() = %v, want closed", s.State())
	}
}

func TestSaveAction(t *testing.T) {
	var mu sync.Mutex
	var saved []string
	rec := &recorder{}
	s := Open("note", WithPublisher(rec), WithPersist(func(_ context.Context, content string) error {
		mu.Lock()
		defer mu.Unlock()
		saved = append(saved, content)
		return nil
	}))

	if !s.ApplyKeyEvent(key.MustParse("Ctrl+S")) {
		t.Fatal("Ctrl+S not handled")
	}
	s.WaitSaves()

	mu.Lock()
	defer mu.Unlock()
	if len(saved) != 1 || saved[0] != "note" {
		t.Errorf("saved = %q, want [note]", saved)
	}
	if rec.count(event.TopicSaved) != 1 {
		t.Errorf("topics = %v, want session.saved", rec.topics())
	}
}

func TestSaveActionWithoutPersister(t *testing.T) {
	s := Open("x")
	if err := s.ApplyToolbarAction(ActionSave, nil); !errors.Is(err, ErrNoPersister) {
		t.Errorf("save action error = %v, want ErrNoPersister", err)
	}
	if err := s.Save(context.Background(), nil); !errors.Is(err, ErrNoPersister) {
		t.Errorf("Save(nil) error = %v, want ErrNoPersister", err)
	}
}

func TestCancel(t *testing.T) {
	rec := &recorder{}
	s := Open("keep", WithPublisher(rec))
	_ = s.Type("x")

	if err := s.Cancel(); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if s.State() != StateClosed {
		t.Errorf("State() = %v, want closed", s.State())
	}
	if s.CanUndo() {
		t.Error("history survived Cancel")
	}
	if s.CurrentContent() != "" {
		t.Errorf("content survived Cancel: %q", s.CurrentContent())
	}
	if err := s.Cancel(); !errors.Is(err, ErrClosed) {
		t.Errorf("second Cancel() error = %v, want ErrClosed", err)
	}
	if err := s.Type("y"); !errors.Is(err, ErrClosed) {
		t.Errorf("Type() after Cancel error = %v, want ErrClosed", err)
	}
	if rec.count(event.TopicCancelled) != 1 {
		t.Errorf("topics = %v, want one %s", rec.topics(), event.TopicCancelled)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	rec := &recorder{}
	s := Open("a", WithPublisher(rec))
	_ = s.Type("b")
	_ = s.Close()
	_ = s.Close()

	if s.CanUndo() {
		t.Error("history survived Close")
	}
	if rec.count(event.TopicClosed) != 1 {
		t.Errorf("topics = %v, want one %s", rec.topics(), event.TopicClosed)
	}
	if err := s.Save(context.Background(), func(context.Context, string) error { return nil }); !errors.Is(err, ErrClosed) {
		t.Errorf("Save() after Close error = %v, want ErrClosed", err)
	}
}

func TestContentChangedEvents(t *testing.T) {
	bus := event.NewBus()
	var got []ContentChanged
	bus.Subscribe("session.content.*", func(ev event.Event) {
		got = append(got, ev.Payload.(ContentChanged))
	})

	s := Open("x", WithPublisher(bus))
	s.SetSelection(textrange.Span(0, 1))
	_ = s.ApplyToolbarAction(ActionBold, nil)
	s.Undo()

	if len(got) != 2 {
		t.Fatalf("got %d events, want 2", len(got))
	}
	if got[0].Label != "Bold" || !got[0].Modified || got[0].Length != 5 {
		t.Errorf("first event = %+v", got[0])
	}
	if got[1].Label != "Undo" || got[1].Modified {
		t.Errorf("second event = %+v", got[1])
	}
}

func TestRegisterTransform(t *testing.T) {
	s := Open("shout")
	upper := func(content string, sel textrange.Selection) (transform.Result, error) {
		return transform.Result{Content: "SHOUT", Selection: textrange.Caret(99)}, nil
	}
	if err := s.RegisterTransform("plugin.upper", "Upper", upper); err != nil {
		t.Fatalf("RegisterTransform() error = %v", err)
	}
	if err := s.RegisterTransform("plugin.upper", "", upper); !errors.Is(err, ErrDuplicateAction) {
		t.Errorf("duplicate RegisterTransform() error = %v, want ErrDuplicateAction", err)
	}
	if err := s.RegisterTransform(ActionBold, "", upper); !errors.Is(err, ErrDuplicateAction) {
		t.Errorf("shadowing a built-in error = %v, want ErrDuplicateAction", err)
	}

	if err := s.ApplyToolbarAction("plugin.upper", nil); err != nil {
		t.Fatalf("ApplyToolbarAction() error = %v", err)
	}
	if got := s.CurrentContent(); got != "SHOUT" {
		t.Errorf("content = %q", got)
	}
	if got := s.Selection(); got != textrange.Caret(5) {
		t.Errorf("Selection() = %v, want clamped caret 5", got)
	}
	if info := s.History(); len(info) != 1 || info[0].Label != "Upper" {
		t.Errorf("History() = %+v, want one Upper entry", info)
	}

	failing := func(string, textrange.Selection) (transform.Result, error) {
		return transform.Result{}, errors.New("script error")
	}
	_ = s.RegisterTransform("plugin.fail", "", failing)
	if err := s.ApplyToolbarAction("plugin.fail", nil); err == nil {
		t.Error("failing transform returned nil")
	}
	if got := s.CurrentContent(); got != "SHOUT" {
		t.Errorf("failing transform changed content to %q", got)
	}

	if !s.UnregisterTransform("plugin.upper") {
		t.Error("UnregisterTransform() = false")
	}
	if err := s.ApplyToolbarAction("plugin.upper", nil); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("after unregister error = %v, want ErrUnknownAction", err)
	}
}

func TestInvalidUTF8Rejected(t *testing.T) {
	s := Open("text")
	garble := func(content string, sel textrange.Selection) (transform.Result, error) {
		return transform.Result{Content: content + "\xff"}, nil
	}
	if err := s.RegisterTransform("plugin.garble", "", garble); err != nil {
		t.Fatal(err)
	}

	if err := s.ApplyToolbarAction("plugin.garble", nil); !errors.Is(err, ErrInvalidText) {
		t.Errorf("transform error = %v, want ErrInvalidText", err)
	}
	if err := s.ApplyToolbarAction(ActionInsert, map[string]any{"text": "\xfe"}); !errors.Is(err, ErrInvalidText) {
		t.Errorf("insert error = %v, want ErrInvalidText", err)
	}
	if got := s.CurrentContent(); got != "text" || s.Modified() {
		t.Errorf("content = %q, modified = %t, want unchanged", got, s.Modified())
	}
}

func TestRegisterCommand(t *testing.T) {
	s := Open("")
	var gotArgs map[string]any
	err := s.RegisterCommand("app.quit", func(sess *Session, args map[string]any) error {
		gotArgs = args
		return sess.Type("bye")
	})
	if err != nil {
		t.Fatalf("RegisterCommand() error = %v", err)
	}
	if err := s.ApplyToolbarAction("app.quit", map[string]any{"force": true}); err != nil {
		t.Fatalf("ApplyToolbarAction() error = %v", err)
	}
	if gotArgs["force"] != true {
		t.Errorf("args = %v", gotArgs)
	}
	if s.CurrentContent() != "bye" {
		t.Errorf("content = %q, want command to reenter the session", s.CurrentContent())
	}
}

type pane struct {
	top, height, client float64
}

func (p *pane) ScrollTop() float64 { return p.top }
func (p *pane) ScrollHeight() float64 { return p.height }
func (p *pane) ClientHeight() float64 { return p.client }
func (p *pane) SetScrollTop(top float64) { p.top = top }

func TestLayoutAndScroll(t *testing.T) {
	rec := &recorder{}
	editor := &pane{top: 250, height: 1000, client: 500}
	preview := &pane{height: 2000, client: 400}
	s := Open("", WithPublisher(rec), WithPanes(editor, preview),
		WithScrollOptions(scrollsync.WithCooldown(time.Hour)))
	defer s.Close()

	if !s.OnScroll(scrollsync.Editor) {
		t.Fatal("OnScroll() = false")
	}
	if preview.top != 800 {
		t.Errorf("preview top = %v, want 800", preview.top)
	}

	if !s.BeginResize() {
		t.Fatal("BeginResize() = false")
	}
	pos, ok := s.UpdateResize(300, split.Rect{Left: 100, Width: 400})
	if !ok || pos != 50 {
		t.Errorf("UpdateResize() = %v, %v, want 50, true", pos, ok)
	}
	pos, _ = s.UpdateResize(0, split.Rect{Left: 100, Width: 400})
	if pos != split.MinPosition {
		t.Errorf("UpdateResize() clamped = %v, want %v", pos, split.MinPosition)
	}
	s.EndResize()

	_ = s.ApplyToolbarAction(ActionMaximizePreview, nil)
	if st := s.Layout(); !st.PreviewMaximized || st.EditorMaximized {
		t.Errorf("Layout() = %+v, want preview maximized", st)
	}
	_ = s.ApplyToolbarAction(ActionMaximizeEditor, nil)
	if st := s.Layout(); st.PreviewMaximized || !st.EditorMaximized {
		t.Errorf("Layout() = %+v, want editor maximized only", st)
	}
	_ = s.ApplyToolbarAction(ActionRestore, nil)
	if s.Layout().Maximized() {
		t.Error("Layout() still maximized after restore")
	}
	if rec.count(event.TopicLayoutChanged) == 0 {
		t.Errorf("no layout.changed events in %v", rec.topics())
	}
}

func TestScrollIgnoredWhileMaximized(t *testing.T) {
	editor := &pane{top: 500, height: 1000, client: 500}
	preview := &pane{height: 2000, client: 400}
	s := Open("", WithPanes(editor, preview))
	defer s.Close()

	_ = s.ApplyToolbarAction(ActionMaximizeEditor, nil)
	if s.OnScroll(scrollsync.Editor) {
		t.Error("OnScroll() = true while maximized")
	}
	if preview.top != 0 {
		t.Errorf("preview moved to %v", preview.top)
	}
}

func TestUndoRedoRoundTrip_Properties(t *testing.T) {
	actions := []string{
		ActionBold, ActionItalic, ActionCode, ActionQuote, ActionLink,
		ActionBulletList, ActionOrderedList, ActionIndent, ActionOutdent,
	}
	rapid.Check(t, func(t *rapid.T) {
		initial := rapid.StringMatching(`[a-z \n]{0,20}`).Draw(t, "initial")
		s := Open(initial)
		n := textrange.Len(initial)
		a := rapid.IntRange(0, n).Draw(t, "a")
		b := rapid.IntRange(0, n).Draw(t, "b")
		s.SetSelection(textrange.Span(a, b))

		steps := rapid.SliceOfN(rapid.SampledFrom(actions), 1, 6).Draw(t, "actions")
		var seen []string
		for _, action := range steps {
			before := s.CurrentContent()
			if err := s.ApplyToolbarAction(action, nil); err != nil {
				t.Fatalf("%s: %v", action, err)
			}
			if s.CurrentContent() != before {
				seen = append(seen, before)
			}
		}
		final := s.CurrentContent()

		for i := len(seen) - 1; i >= 0; i-- {
			if !s.Undo() {
				t.Fatalf("Undo() = false with %d entries left", i+1)
			}
			if got := s.CurrentContent(); got != seen[i] {
				t.Fatalf("undo %d: content = %q, want %q", i, got, seen[i])
			}
		}
		if s.Undo() {
			t.Fatal("Undo() = true past the first edit")
		}
		for range seen {
			s.Redo()
		}
		if got := s.CurrentContent(); got != final {
			t.Fatalf("after redo content = %q, want %q", got, final)
		}
	})
}
