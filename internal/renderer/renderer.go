package renderer

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/markpad/internal/engine/textrange"
	"github.com/dshills/markpad/internal/layout/split"
	"github.com/dshills/markpad/internal/renderer/backend"
	"github.com/dshills/markpad/internal/renderer/statusline"
	"github.com/dshills/markpad/internal/renderer/viewport"
)

// DefaultTabWidth is the tab stop interval in the editor pane.
const DefaultTabWidth = 4

// Styles holds the colors used to draw a frame.
type Styles struct {
	Text      tcell.Style
	Selection tcell.Style
	Divider   tcell.Style
	Dragging  tcell.Style
	Preview   tcell.Style
	Filler    tcell.Style
}

// DefaultStyles returns the built-in styles.
func DefaultStyles() Styles {
	return Styles{
		Text:      tcell.StyleDefault,
		Selection: tcell.StyleDefault.Reverse(true),
		Divider:   tcell.StyleDefault.Foreground(tcell.ColorGray),
		Dragging:  tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true),
		Preview:   tcell.StyleDefault,
		Filler:    tcell.StyleDefault.Foreground(tcell.ColorDarkGray),
	}
}

// Frame is everything needed to draw one screen.
type Frame struct {
	// Content is the editor text and Selection the selection in code
	// units, with the caret at Head.
	Content   string
	Selection textrange.Selection
	Head      int

	// Preview holds the rendered preview, one display line per entry.
	Preview []string

	Split    split.State
	Resizing bool

	// FollowCaret scrolls the editor so the caret row is visible.
	FollowCaret bool

	// ShowCaret places the terminal cursor at the caret.
	ShowCaret bool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTabWidth sets the tab stop interval.
func WithTabWidth(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.tabWidth = n
		}
	}
}

// WithStyles replaces the default styles.
func WithStyles(s Styles) Option {
	return func(r *Renderer) {
		r.styles = s
	}
}

// Renderer draws frames on a backend.
type Renderer struct {
	mu sync.Mutex

	backend  backend.Backend
	editor   *viewport.Viewport
	preview  *viewport.Viewport
	status   *statusline.StatusLine
	styles   Styles
	tabWidth int

	// left is the editor's horizontal scroll in columns.
	left   int
	layout Layout
}

// New creates a renderer for b.
func New(b backend.Backend, opts ...Option) *Renderer {
	w, h := b.Size()
	r := &Renderer{
		backend:  b,
		editor:   viewport.New(w/2, h-1),
		preview:  viewport.New(w/2, h-1),
		status:   statusline.New(),
		styles:   DefaultStyles(),
		tabWidth: DefaultTabWidth,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// EditorView returns the editor pane's viewport.
func (r *Renderer) EditorView() *viewport.Viewport {
	return r.editor
}

// PreviewView returns the preview pane's viewport.
func (r *Renderer) PreviewView() *viewport.Viewport {
	return r.preview
}

// Status returns the status line.
func (r *Renderer) Status() *statusline.StatusLine {
	return r.status
}

// Layout computes the layout for st at the current screen size and resizes
// the pane viewports to match.
func (r *Renderer) Layout(st split.State) Layout {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.layoutLocked(st)
}

func (r *Renderer) layoutLocked(st split.State) Layout {
	w, h := r.backend.Size()
	l := ComputeLayout(st, w, h)
	r.editor.Resize(l.Editor.Width, l.Editor.Height)
	r.preview.Resize(l.Preview.Width, l.Preview.Height)
	r.layout = l
	return l
}

// LastLayout returns the layout used by the most recent Render.
func (r *Renderer) LastLayout() Layout {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.layout
}

// EditorOffsetAt maps a screen cell in the editor pane to a code-unit
// offset in content.
func (r *Renderer) EditorOffsetAt(content string, x, y int) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ed := r.layout.Editor
	if ed.Empty() || !ed.Contains(x, y) {
		return 0, false
	}
	row := r.editor.ContentRow(y - ed.Y)
	return OffsetAt(content, row, x-ed.X+r.left, r.tabWidth), true
}

// Render draws f and flushes it to the screen. It reports whether the
// editor pane scrolled to keep the caret visible.
func (r *Renderer) Render(f Frame) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	b := r.backend
	l := r.layoutLocked(f.Split)
	b.Clear()

	spans := lineSpans(f.Content)
	r.editor.SetLineCount(len(spans))
	r.preview.SetLineCount(len(f.Preview))

	row, col := Locate(f.Content, f.Head, r.tabWidth)
	revealed := f.FollowCaret && r.editor.Reveal(row)
	r.scrollHorizontally(col, l.Editor.Width)

	r.drawEditor(l.Editor, f, spans)
	r.drawDivider(l.Divider, f.Resizing)
	r.drawPreview(l.Preview, f.Preview)

	r.status.SetPosition(row+1, col+1)
	r.status.SetScrollPercent(r.editor.ScrollPercent())
	r.status.Render(b, l.Status.Y, l.Status.Width)

	screenRow := r.editor.ScreenRow(row)
	if f.ShowCaret && !l.Editor.Empty() && screenRow >= 0 && col-r.left < l.Editor.Width {
		b.ShowCursor(l.Editor.X+col-r.left, l.Editor.Y+screenRow)
	} else {
		b.HideCursor()
	}
	b.Show()
	return revealed
}

// scrollHorizontally keeps the caret column inside the editor pane.
func (r *Renderer) scrollHorizontally(col, width int) {
	if width <= 0 {
		return
	}
	switch {
	case col < r.left:
		r.left = col
	case col >= r.left+width:
		r.left = col - width + 1
	}
}

func (r *Renderer) drawEditor(area Rect, f Frame, spans [][2]int) {
	if area.Empty() {
		return
	}
	sel := f.Selection.Normalize()
	selStart, selEnd := -1, -1
	if !sel.IsCaret() {
		selStart = textrange.ByteOffset(f.Content, sel.Start)
		selEnd = textrange.ByteOffset(f.Content, sel.End)
	}

	top := r.editor.TopLine()
	for i := 0; i < area.Height; i++ {
		idx := top + i
		if idx >= len(spans) {
			backend.DrawText(r.backend, area.X, area.Y+i, area.Width, "~", r.styles.Filler, r.tabWidth)
			continue
		}
		segs := lineSegments(f.Content, spans[idx], selStart, selEnd, r.styles)
		backend.DrawScrolled(r.backend, area.X, area.Y+i, area.Width, r.left, segs, r.tabWidth)
	}
}

// lineSegments splits a line into unselected and selected runs. A
// selection crossing the line break is shown as one trailing blank.
func lineSegments(content string, span [2]int, selStart, selEnd int, st Styles) []backend.Segment {
	start, end := span[0], span[1]
	if selStart < 0 || selEnd <= start || selStart > end {
		return []backend.Segment{{Text: content[start:end], Style: st.Text}}
	}
	a := max(selStart, start)
	z := min(selEnd, end)
	segs := []backend.Segment{
		{Text: content[start:a], Style: st.Text},
		{Text: content[a:z], Style: st.Selection},
		{Text: content[z:end], Style: st.Text},
	}
	if selEnd > end {
		segs = append(segs, backend.Segment{Text: " ", Style: st.Selection})
	}
	return segs
}

func (r *Renderer) drawDivider(area Rect, resizing bool) {
	if area.Empty() {
		return
	}
	style := r.styles.Divider
	if resizing {
		style = r.styles.Dragging
	}
	backend.Fill(r.backend, area.X, area.Y, area.Width, area.Height, '│', style)
}

func (r *Renderer) drawPreview(area Rect, lines []string) {
	if area.Empty() {
		return
	}
	top := r.preview.TopLine()
	for i := 0; i < area.Height && top+i < len(lines); i++ {
		backend.DrawText(r.backend, area.X, area.Y+i, area.Width, lines[top+i], r.styles.Preview, r.tabWidth)
	}
}
