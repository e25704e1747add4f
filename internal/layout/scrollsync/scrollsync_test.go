package scrollsync

import (
	"sync"
	"testing"
	"time"
)

// fakePane is an in-memory Pane. When onSet is non-nil it is called from
// SetScrollTop, simulating a view that emits a scroll event when moved.
type fakePane struct {
	top, height, client float64
	sets                int
	onSet               func()
}

func (p *fakePane) ScrollTop() float64    { return p.top }
func (p *fakePane) ScrollHeight() float64 { return p.height }
func (p *fakePane) ClientHeight() float64 { return p.client }
func (p *fakePane) SetScrollTop(top float64) {
	p.top = top
	p.sets++
	if p.onSet != nil {
		p.onSet()
	}
}

// manualClock fires timers only when told to.
type manualClock struct {
	mu     sync.Mutex
	timers []*manualTimer
}

type manualTimer struct {
	d       time.Duration
	f       func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{d: d, f: f}
	c.timers = append(c.timers, t)
	return t
}

// fire runs every timer that has not been stopped.
func (c *manualClock) fire() int {
	c.mu.Lock()
	timers := c.timers
	c.timers = nil
	c.mu.Unlock()

	n := 0
	for _, t := range timers {
		if !t.stopped {
			t.stopped = true
			t.f()
			n++
		}
	}
	return n
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name string
		src  Metrics
		dst  Metrics
		want float64
	}{
		{"half", Metrics{250, 1000, 500}, Metrics{0, 2000, 400}, 800},
		{"top", Metrics{0, 1000, 500}, Metrics{300, 2000, 400}, 0},
		{"bottom", Metrics{500, 1000, 500}, Metrics{0, 2000, 400}, 1600},
		{"source cannot scroll", Metrics{0, 300, 500}, Metrics{0, 2000, 400}, 0},
		{"destination cannot scroll", Metrics{250, 1000, 500}, Metrics{0, 100, 400}, 0},
		{"overscroll clamps", Metrics{900, 1000, 500}, Metrics{0, 2000, 400}, 1600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compute(tt.src, tt.dst); got != tt.want {
				t.Errorf("Compute() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOnScrollAppliesToCompanion(t *testing.T) {
	editor := &fakePane{top: 250, height: 1000, client: 500}
	preview := &fakePane{height: 2000, client: 400}
	clock := &manualClock{}
	s := New(editor, preview, WithClock(clock))

	if !s.OnScroll(Editor) {
		t.Fatal("OnScroll() = false, want true")
	}
	if preview.top != 800 {
		t.Errorf("preview top = %v, want 800", preview.top)
	}
	if !s.IsSyncing() {
		t.Error("guard should be set during cooldown")
	}
}

func TestOnScrollBreaksFeedbackLoop(t *testing.T) {
	clock := &manualClock{}
	editor := &fakePane{height: 1000, client: 500}
	preview := &fakePane{height: 2000, client: 400}
	s := New(editor, preview, WithClock(clock))

	// Moving either pane re-enters the synchronizer synchronously.
	editor.onSet = func() { s.OnScroll(Editor) }
	preview.onSet = func() { s.OnScroll(Preview) }

	editor.top = 100
	s.OnScroll(Editor)

	if preview.sets != 1 {
		t.Errorf("preview set %d times, want 1", preview.sets)
	}
	if editor.sets != 0 {
		t.Errorf("editor set %d times, want 0", editor.sets)
	}

	// Events during the cooldown are dropped.
	if s.OnScroll(Preview) {
		t.Error("OnScroll() during cooldown should be ignored")
	}

	if n := clock.fire(); n != 1 {
		t.Fatalf("fired %d timers, want 1", n)
	}
	if s.IsSyncing() {
		t.Error("guard should clear after cooldown")
	}

	preview.onSet = nil
	editor.onSet = nil
	if !s.OnScroll(Preview) {
		t.Error("OnScroll() after cooldown should apply")
	}
}

func TestOnScrollIgnoredWhenMaximized(t *testing.T) {
	maximized := true
	editor := &fakePane{top: 250, height: 1000, client: 500}
	preview := &fakePane{height: 2000, client: 400}
	s := New(editor, preview, WithClock(&manualClock{}), WithMaximized(func() bool { return maximized }))

	if s.OnScroll(Editor) {
		t.Error("OnScroll() should no-op while maximized")
	}
	if preview.sets != 0 {
		t.Error("preview should not move while maximized")
	}

	maximized = false
	if !s.OnScroll(Editor) {
		t.Error("OnScroll() should apply after restore")
	}
}

func TestOnScrollDisabledOrMissingPane(t *testing.T) {
	editor := &fakePane{top: 10, height: 100, client: 50}
	s := New(editor, nil, WithClock(&manualClock{}))
	if s.OnScroll(Editor) {
		t.Error("missing companion should no-op")
	}

	preview := &fakePane{height: 100, client: 50}
	s.SetPanes(editor, preview)
	s.SetEnabled(false)
	if s.Enabled() || s.OnScroll(Editor) {
		t.Error("disabled synchronizer should no-op")
	}

	s.SetEnabled(true)
	if s.OnScroll(PaneID(7)) {
		t.Error("unknown pane should no-op")
	}
}

func TestCloseStopsCooldownTimer(t *testing.T) {
	clock := &manualClock{}
	editor := &fakePane{top: 10, height: 100, client: 50}
	preview := &fakePane{height: 100, client: 50}
	s := New(editor, preview, WithClock(clock), WithCooldown(time.Second))

	s.OnScroll(Editor)
	if len(clock.timers) != 1 || clock.timers[0].d != time.Second {
		t.Fatalf("expected one 1s timer, got %+v", clock.timers)
	}

	s.Close()
	if n := clock.fire(); n != 0 {
		t.Errorf("%d timers fired after Close, want 0", n)
	}
	if s.OnScroll(Editor) {
		t.Error("OnScroll() after Close should no-op")
	}
	s.Close()
}

func TestRealClockCooldown(t *testing.T) {
	editor := &fakePane{top: 10, height: 100, client: 50}
	preview := &fakePane{height: 100, client: 50}
	s := New(editor, preview, WithCooldown(5*time.Millisecond))
	defer s.Close()

	s.OnScroll(Editor)
	deadline := time.Now().Add(2 * time.Second)
	for s.IsSyncing() {
		if time.Now().After(deadline) {
			t.Fatal("guard never cleared")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestPaneID(t *testing.T) {
	if Editor.Other() != Preview || Preview.Other() != Editor {
		t.Error("Other() mismatch")
	}
	if Editor.String() != "editor" || Preview.String() != "preview" || PaneID(9).String() != "unknown" {
		t.Error("String() mismatch")
	}
}
