package preview

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/ansi"
)

// Style names accepted by WithStyle.
const (
	StyleDark  = "dark"
	StyleLight = "light"
	StyleNoTTY = "notty"
	StyleASCII = "ascii"
)

// DefaultStyle is the glamour style used when none is configured.
const DefaultStyle = StyleDark

// glamour pads each rendered line with a two-column gutter.
const gutter = 2

// minWrap is the narrowest wrap width passed to glamour.
const minWrap = 10

// Renderer turns markdown into display lines.
// All methods are safe for concurrent use.
type Renderer struct {
	mu       sync.Mutex
	style    string
	wordWrap bool

	term  *glamour.TermRenderer
	width int

	// last render, reused while content and width are unchanged
	lastIn    string
	lastWidth int
	lastOut   []string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithStyle sets the glamour standard style.
func WithStyle(style string) Option {
	return func(r *Renderer) {
		if style != "" {
			r.style = style
		}
	}
}

// WithWordWrap enables wrapping to the pane width.
func WithWordWrap(enabled bool) Option {
	return func(r *Renderer) {
		r.wordWrap = enabled
	}
}

// NewRenderer creates a renderer.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{style: DefaultStyle, wordWrap: true, lastWidth: -1}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Style returns the configured style name.
func (r *Renderer) Style() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.style
}

// SetStyle changes the style. The next Render rebuilds the renderer.
func (r *Renderer) SetStyle(style string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if style == "" || style == r.style {
		return
	}
	r.style = style
	r.term = nil
	r.lastWidth = -1
}

func (r *Renderer) termFor(width int) (*glamour.TermRenderer, error) {
	if r.term != nil && r.width == width {
		return r.term, nil
	}
	opts := []glamour.TermRendererOption{glamour.WithStandardStyle(r.style)}
	if r.wordWrap {
		opts = append(opts, glamour.WithWordWrap(max(width-gutter, minWrap)))
	} else {
		opts = append(opts, glamour.WithWordWrap(0))
	}
	term, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, err
	}
	r.term, r.width = term, width
	return term, nil
}

// Render returns the display lines for content at width columns. On a
// renderer error the raw markdown lines are returned with the error.
func (r *Renderer) Render(content string, width int) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if content == r.lastIn && width == r.lastWidth {
		return r.lastOut, nil
	}

	term, err := r.termFor(width)
	if err != nil {
		return Plain(content), err
	}
	out, err := term.Render(content)
	if err != nil {
		return Plain(content), err
	}

	lines := strings.Split(strings.TrimRight(ansi.Strip(out), "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}

	r.lastIn, r.lastWidth, r.lastOut = content, width, lines
	return lines, nil
}

// Plain splits content into lines without rendering.
func Plain(content string) []string {
	return strings.Split(content, "\n")
}

// Width returns the display width of s in terminal columns.
func Width(s string) int {
	return ansi.StringWidth(s)
}
