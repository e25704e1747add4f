package transform

import (
	"strings"

	"github.com/dshills/markpad/internal/engine/textrange"
)

// DefaultIndentWidth is the number of spaces inserted by Indent.
const DefaultIndentWidth = 2

// Indent replaces the selection with width spaces and puts the caret after
// them. A non-positive width uses DefaultIndentWidth.
func Indent(content string, sel textrange.Selection, width int) Result {
	if width <= 0 {
		width = DefaultIndentWidth
	}
	return InsertText(content, sel, strings.Repeat(" ", width))
}

// Outdent removes up to width leading spaces from the line holding the
// selection start. The selection is shifted with the removed text.
func Outdent(content string, sel textrange.Selection, width int) Result {
	if width <= 0 {
		width = DefaultIndentWidth
	}
	sel = textrange.Clamp(content, sel)

	start := textrange.LineStart(content, sel.Start)
	end := textrange.LineEnd(content, sel.Start)
	line := textrange.Slice(content, start, end)

	n := 0
	for n < width && n < len(line) && line[n] == ' ' {
		n++
	}
	if n == 0 {
		return Result{Content: content, Selection: sel}
	}

	return Result{
		Content:   textrange.Splice(content, start, start+n, ""),
		Selection: textrange.Restore(sel, start, n, 0),
	}
}
