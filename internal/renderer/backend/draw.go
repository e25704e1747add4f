package backend

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Segment is a run of text drawn in one style.
type Segment struct {
	Text  string
	Style tcell.Style
}

// DrawText draws s at (x, y), clipped to width columns, one grapheme
// cluster per cell. Wide clusters take two columns and are dropped rather
// than split at the clip edge. Tabs advance to the next multiple of
// tabWidth. Returns the number of columns used.
func DrawText(b Backend, x, y, width int, s string, style tcell.Style, tabWidth int) int {
	return DrawSegments(b, x, y, width, []Segment{{Text: s, Style: style}}, tabWidth)
}

// DrawSegments draws consecutive segments as one line, so tab stops are
// measured from x across segment boundaries.
func DrawSegments(b Backend, x, y, width int, segs []Segment, tabWidth int) int {
	return DrawScrolled(b, x, y, width, 0, segs, tabWidth)
}

// DrawScrolled is DrawSegments for a line scrolled left by skip columns.
// A wide cluster cut by the left edge shows as a blank. Returns the
// number of columns used on screen.
func DrawScrolled(b Backend, x, y, width, skip int, segs []Segment, tabWidth int) int {
	col := 0
	end := skip + width
	put := func(c int, mainc rune, combc []rune, style tcell.Style) {
		if c >= skip && c < end {
			b.SetContent(x+c-skip, y, mainc, combc, style)
		}
	}

	for _, seg := range segs {
		state := -1
		rest := seg.Text
		for len(rest) > 0 && col < end {
			var cluster string
			cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
			if cluster == "\t" {
				for next := TabStop(col, tabWidth); col < next && col < end; col++ {
					put(col, ' ', nil, seg.Style)
				}
				continue
			}

			w := runewidth.StringWidth(cluster)
			if w == 0 {
				continue
			}
			if col+w > end {
				return max(col-skip, 0)
			}
			if col < skip {
				for c := col; c < col+w; c++ {
					put(c, ' ', nil, seg.Style)
				}
			} else {
				runes := []rune(cluster)
				put(col, runes[0], runes[1:], seg.Style)
			}
			col += w
		}
	}
	return max(col-skip, 0)
}

// Fill sets every cell of the rectangle to r.
func Fill(b Backend, x, y, width, height int, r rune, style tcell.Style) {
	for row := y; row < y+height; row++ {
		for col := x; col < x+width; col++ {
			b.SetContent(col, row, r, nil, style)
		}
	}
}

// TextWidth returns the display width of s with tabs expanded.
func TextWidth(s string, tabWidth int) int {
	col := 0
	state := -1
	rest := s
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if cluster == "\t" {
			col = TabStop(col, tabWidth)
			continue
		}
		col += runewidth.StringWidth(cluster)
	}
	return col
}

// TabStop returns the column after a tab typed at col.
func TabStop(col, tabWidth int) int {
	if tabWidth < 1 {
		tabWidth = 1
	}
	return (col/tabWidth + 1) * tabWidth
}
