// Package scrollsync keeps two scrollable panes at the same relative scroll
// position.
//
// A scroll event on one pane is translated into a normalized fraction
//
//	fraction = scrollTop / max(scrollHeight - clientHeight, ε)
//
// and applied to the companion pane as fraction * (its scrollable range).
// Applying a scroll position usually makes the companion emit its own scroll
// event, so after every sync further events from either pane are ignored for
// a short cooldown. The cooldown timer is owned by the Synchronizer and is
// stopped by Close.
package scrollsync

import (
	"math"
	"sync"
	"time"
)

// DefaultCooldown is how long inbound scroll events are ignored after a sync.
const DefaultCooldown = 100 * time.Millisecond

// epsilon guards the fraction denominator for panes that cannot scroll.
const epsilon = 1.0

// PaneID identifies one of the two panes.
type PaneID uint8

const (
	// Editor is the text editing pane.
	Editor PaneID = iota
	// Preview is the rendered preview pane.
	Preview
)

// String returns the pane name.
func (p PaneID) String() string {
	switch p {
	case Editor:
		return "editor"
	case Preview:
		return "preview"
	default:
		return "unknown"
	}
}

// Other returns the companion pane.
func (p PaneID) Other() PaneID {
	if p == Editor {
		return Preview
	}
	return Editor
}

// Pane is a handle to a scrollable view.
type Pane interface {
	ScrollTop() float64
	ScrollHeight() float64
	ClientHeight() float64
	SetScrollTop(top float64)
}

// Metrics is a snapshot of a pane's scroll geometry.
type Metrics struct {
	ScrollTop    float64
	ScrollHeight float64
	ClientHeight float64
}

// MetricsOf reads the current metrics of p.
func MetricsOf(p Pane) Metrics {
	return Metrics{
		ScrollTop:    p.ScrollTop(),
		ScrollHeight: p.ScrollHeight(),
		ClientHeight: p.ClientHeight(),
	}
}

// Range returns the scrollable distance, never negative.
func (m Metrics) Range() float64 {
	return math.Max(m.ScrollHeight-m.ClientHeight, 0)
}

// Fraction returns the normalized scroll position in [0, 1].
func (m Metrics) Fraction() float64 {
	f := m.ScrollTop / math.Max(m.ScrollHeight-m.ClientHeight, epsilon)
	return math.Max(0, math.Min(1, f))
}

// TopFor returns the scrollTop that puts this pane at fraction.
func (m Metrics) TopFor(fraction float64) float64 {
	return fraction * m.Range()
}

// Compute returns the scrollTop for dst that matches the scroll fraction
// of src.
func Compute(src, dst Metrics) float64 {
	return dst.TopFor(src.Fraction())
}

// Synchronizer couples the scroll positions of an editor and a preview pane.
// All methods are safe for concurrent use.
type Synchronizer struct {
	mu sync.Mutex

	panes [2]Pane

	enabled   bool
	syncing   bool
	closed    bool
	maximized func() bool

	clock    Clock
	cooldown time.Duration
	timer    Timer
	seq      uint64 // invalidates stale cooldown callbacks
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithCooldown sets the re-entrancy cooldown.
func WithCooldown(d time.Duration) Option {
	return func(s *Synchronizer) {
		if d >= 0 {
			s.cooldown = d
		}
	}
}

// WithClock sets the clock used for the cooldown timer.
func WithClock(c Clock) Option {
	return func(s *Synchronizer) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithMaximized sets the predicate reporting whether either pane is
// maximized. Synchronization is suspended while it returns true.
func WithMaximized(fn func() bool) Option {
	return func(s *Synchronizer) {
		s.maximized = fn
	}
}

// WithEnabled sets the initial enabled state.
func WithEnabled(enabled bool) Option {
	return func(s *Synchronizer) {
		s.enabled = enabled
	}
}

// New creates a Synchronizer for the given panes.
// Either pane may be nil until SetPanes is called.
func New(editor, preview Pane, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		panes:    [2]Pane{editor, preview},
		enabled:  true,
		clock:    RealClock(),
		cooldown: DefaultCooldown,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetPanes replaces the pane handles.
func (s *Synchronizer) SetPanes(editor, preview Pane) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.panes = [2]Pane{editor, preview}
}

// SetEnabled turns synchronization on or off.
func (s *Synchronizer) SetEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = enabled
}

// Enabled returns true if synchronization is on.
func (s *Synchronizer) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// IsSyncing returns true while the cooldown guard is active.
func (s *Synchronizer) IsSyncing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.syncing
}

// OnScroll handles a scroll event from source and aligns the companion
// pane. Returns true if the companion was moved.
//
// Events are ignored while the cooldown guard is active, while a pane is
// maximized, when disabled, after Close, or when a pane handle is missing.
func (s *Synchronizer) OnScroll(source PaneID) bool {
	if source != Editor && source != Preview {
		return false
	}

	s.mu.Lock()
	if s.closed || !s.enabled || s.syncing {
		s.mu.Unlock()
		return false
	}
	if s.maximized != nil && s.maximized() {
		s.mu.Unlock()
		return false
	}
	src, dst := s.panes[source], s.panes[source.Other()]
	if src == nil || dst == nil {
		s.mu.Unlock()
		return false
	}
	s.syncing = true
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	// Applied without the lock: the companion may re-enter OnScroll
	// synchronously and must find the guard set.
	dst.SetScrollTop(Compute(MetricsOf(src), MetricsOf(dst)))

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.seq != seq {
		return true
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = s.clock.AfterFunc(s.cooldown, func() {
		s.release(seq)
	})
	return true
}

// release clears the guard if seq is still the latest sync.
func (s *Synchronizer) release(seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seq == seq {
		s.syncing = false
		s.timer = nil
	}
}

// Close stops any pending cooldown timer and disables the synchronizer.
// Safe to call more than once.
func (s *Synchronizer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.seq++
	s.syncing = false
	s.closed = true
	s.panes = [2]Pane{}
}
