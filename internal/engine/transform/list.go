package transform

import (
	"strconv"
	"strings"

	"github.com/dshills/markpad/internal/engine/textrange"
)

// ListKind selects the line prefix used by FormatMultiLineList.
type ListKind uint8

const (
	// BulletList prefixes lines with "- ".
	BulletList ListKind = iota
	// OrderedList prefixes lines with "1. ", "2. ", ...
	OrderedList
)

// String returns the list kind name.
func (k ListKind) String() string {
	switch k {
	case BulletList:
		return "bullet"
	case OrderedList:
		return "ordered"
	default:
		return "unknown"
	}
}

// prefix returns the marker for the line at zero-based index i.
func (k ListKind) prefix(i int) string {
	if k == OrderedList {
		return strconv.Itoa(i+1) + ". "
	}
	return "- "
}

// FormatMultiLineList turns the selected lines into a list.
//
// A caret degrades to inserting the first marker at the caret. Otherwise each
// selected line whose trimmed text is non-empty is prefixed; blank lines are
// kept as they are. Ordered markers use the line's 1-based index within the
// selection and restart at 1 on every call. The returned selection spans
// exactly the rewritten text.
func FormatMultiLineList(content string, sel textrange.Selection, kind ListKind) Result {
	sel = textrange.Clamp(content, sel)
	if sel.IsCaret() {
		return InsertText(content, sel, kind.prefix(0))
	}

	lines := strings.Split(textrange.Slice(content, sel.Start, sel.End), "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines[i] = kind.prefix(i) + line
	}
	joined := strings.Join(lines, "\n")

	return Result{
		Content:   textrange.Splice(content, sel.Start, sel.End, joined),
		Selection: textrange.Selection{Start: sel.Start, End: sel.Start + textrange.Len(joined)},
	}
}
