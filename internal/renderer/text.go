package renderer

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/dshills/markpad/internal/engine/textrange"
	"github.com/dshills/markpad/internal/renderer/backend"
)

// Locate returns the row and display column of the code-unit offset unit
// in content.
func Locate(content string, unit, tabWidth int) (row, col int) {
	b := textrange.ByteOffset(content, unit)
	before := content[:b]
	row = strings.Count(before, "\n")
	start := strings.LastIndexByte(before, '\n') + 1
	return row, backend.TextWidth(before[start:], tabWidth)
}

// OffsetAt returns the code-unit offset of the grapheme boundary at or
// before display column col on row. Rows past the end map to the last
// row and columns past a line's end to the line's end.
func OffsetAt(content string, row, col, tabWidth int) int {
	start := 0
	for i := 0; i < row; i++ {
		n := strings.IndexByte(content[start:], '\n')
		if n < 0 {
			break
		}
		start += n + 1
	}
	line := content[start:]
	if n := strings.IndexByte(line, '\n'); n >= 0 {
		line = line[:n]
	}

	cur, pos := 0, 0
	state := -1
	rest := line
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		next := cur + runewidth.StringWidth(cluster)
		if cluster == "\t" {
			next = backend.TabStop(cur, tabWidth)
		}
		if next > col {
			break
		}
		cur = next
		pos += len(cluster)
	}
	return textrange.UnitOffset(content, start+pos)
}

// lineSpans returns the byte range of every line in content, excluding
// the line breaks.
func lineSpans(content string) [][2]int {
	spans := make([][2]int, 0, strings.Count(content, "\n")+1)
	start := 0
	for {
		n := strings.IndexByte(content[start:], '\n')
		if n < 0 {
			return append(spans, [2]int{start, len(content)})
		}
		spans = append(spans, [2]int{start, start + n})
		start += n + 1
	}
}
