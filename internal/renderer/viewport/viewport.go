// Package viewport tracks the visible rows of a scrollable pane.
//
// A Viewport implements scrollsync.Pane with rows as the unit: ScrollTop is
// the first visible row, ScrollHeight the number of content rows and
// ClientHeight the number of screen rows.
package viewport

import (
	"math"
	"sync"
)

// Viewport is the scroll state of one pane.
// All methods are safe for concurrent use.
type Viewport struct {
	mu sync.RWMutex

	top    int
	width  int
	height int
	lines  int

	// margin keeps the cursor this many rows away from the edges.
	margin int
}

// New creates a viewport with the given size.
// Width and height are clamped to a minimum of 1.
func New(width, height int) *Viewport {
	return &Viewport{
		width:  max(width, 1),
		height: max(height, 1),
		margin: 2,
	}
}

// Width returns the viewport width.
func (v *Viewport) Width() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.width
}

// Height returns the viewport height.
func (v *Viewport) Height() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.height
}

// TopLine returns the first visible row.
func (v *Viewport) TopLine() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.top
}

// Lines returns the number of content rows.
func (v *Viewport) Lines() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.lines
}

// Resize changes the visible area and re-clamps the scroll position.
func (v *Viewport) Resize(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.width = max(width, 1)
	v.height = max(height, 1)
	v.top = v.clamp(v.top)
}

// SetLineCount sets the number of content rows and re-clamps the scroll
// position.
func (v *Viewport) SetLineCount(n int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.lines = max(n, 0)
	v.top = v.clamp(v.top)
}

// SetMargin sets how close to an edge a revealed row may be.
func (v *Viewport) SetMargin(rows int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.margin = max(rows, 0)
}

// clamp limits top so the last page is full when content exceeds the
// viewport.
func (v *Viewport) clamp(top int) int {
	return max(0, min(top, v.lines-v.height))
}

// ScrollTo puts row at the top. Returns true if the position changed.
func (v *Viewport) ScrollTo(row int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	top := v.clamp(row)
	changed := top != v.top
	v.top = top
	return changed
}

// ScrollBy scrolls by delta rows. Returns true if the position changed.
func (v *Viewport) ScrollBy(delta int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	top := v.clamp(v.top + delta)
	changed := top != v.top
	v.top = top
	return changed
}

// PageDown scrolls forward by one screen less one row of context.
func (v *Viewport) PageDown() bool {
	return v.ScrollBy(max(v.Height()-1, 1))
}

// PageUp scrolls back by one screen less one row of context.
func (v *Viewport) PageUp() bool {
	return v.ScrollBy(-max(v.Height()-1, 1))
}

// Reveal scrolls minimally so row is visible, keeping the margin where
// the content allows. Returns true if scrolling occurred.
func (v *Viewport) Reveal(row int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	margin := min(v.margin, (v.height-1)/2)
	top := v.top
	switch {
	case row < top+margin:
		top = row - margin
	case row > top+v.height-1-margin:
		top = row - v.height + 1 + margin
	}
	top = max(0, min(top, max(v.lines, row+1)-v.height))
	changed := top != v.top
	v.top = top
	return changed
}

// IsVisible reports whether row is on screen.
func (v *Viewport) IsVisible(row int) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return row >= v.top && row < v.top+v.height
}

// ScreenRow converts a content row to a screen row relative to the pane,
// or -1 when it is not visible.
func (v *Viewport) ScreenRow(row int) int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if row < v.top || row >= v.top+v.height {
		return -1
	}
	return row - v.top
}

// ContentRow converts a pane-relative screen row to a content row.
func (v *Viewport) ContentRow(screenRow int) int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.top + screenRow
}

// ScrollPercent returns how far through the content the viewport is, 0 to
// 100.
func (v *Viewport) ScrollPercent() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	scrollable := v.lines - v.height
	if scrollable <= 0 {
		return 0
	}
	return int(math.Round(float64(v.top) * 100 / float64(scrollable)))
}

// ScrollTop implements scrollsync.Pane.
func (v *Viewport) ScrollTop() float64 {
	return float64(v.TopLine())
}

// ScrollHeight implements scrollsync.Pane.
func (v *Viewport) ScrollHeight() float64 {
	return float64(v.Lines())
}

// ClientHeight implements scrollsync.Pane.
func (v *Viewport) ClientHeight() float64 {
	return float64(v.Height())
}

// SetScrollTop implements scrollsync.Pane. The position is rounded to the
// nearest row.
func (v *Viewport) SetScrollTop(top float64) {
	v.ScrollTo(int(math.Round(top)))
}
