package renderer

import (
	"github.com/dshills/markpad/internal/layout/scrollsync"
	"github.com/dshills/markpad/internal/layout/split"
)

// Rect is a screen rectangle in cells.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Empty reports whether r has no cells.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Layout places the panes on a screen of a given size.
type Layout struct {
	Editor  Rect
	Divider Rect
	Preview Rect
	Status  Rect

	width int
}

// ComputeLayout splits a width x height screen according to st. The
// divider is shown only while neither pane is maximized.
func ComputeLayout(st split.State, width, height int) Layout {
	l := Layout{width: width}
	if width <= 0 || height <= 0 {
		return l
	}

	paneHeight := max(height-1, 0)
	l.Status = Rect{X: 0, Y: height - 1, Width: width, Height: 1}

	if st.Maximized() || width < 3 {
		ed, pv := st.Widths(width)
		if !st.Maximized() {
			ed, pv = width, 0
		}
		l.Editor = Rect{X: 0, Y: 0, Width: ed, Height: paneHeight}
		l.Preview = Rect{X: ed, Y: 0, Width: pv, Height: paneHeight}
		return l
	}

	ed, pv := st.Widths(width - 1)
	l.Editor = Rect{X: 0, Y: 0, Width: ed, Height: paneHeight}
	l.Divider = Rect{X: ed, Y: 0, Width: 1, Height: paneHeight}
	l.Preview = Rect{X: ed + 1, Y: 0, Width: pv, Height: paneHeight}
	return l
}

// Container returns the horizontal extent used to turn a pointer column
// into a split position. Dragging the divider to column x makes the editor
// pane x columns wide.
func (l Layout) Container() split.Rect {
	return split.Rect{Left: 0, Width: float64(max(l.width-1, 0))}
}

// OnDivider reports whether (x, y) is on the divider.
func (l Layout) OnDivider(x, y int) bool {
	return !l.Divider.Empty() && l.Divider.Contains(x, y)
}

// PaneAt returns the pane under (x, y).
func (l Layout) PaneAt(x, y int) (scrollsync.PaneID, bool) {
	switch {
	case !l.Editor.Empty() && l.Editor.Contains(x, y):
		return scrollsync.Editor, true
	case !l.Preview.Empty() && l.Preview.Contains(x, y):
		return scrollsync.Preview, true
	default:
		return 0, false
	}
}
