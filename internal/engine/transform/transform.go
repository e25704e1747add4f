package transform

import (
	"github.com/dshills/markpad/internal/engine/textrange"
)

// Result is the outcome of a transform.
type Result struct {
	Content   string
	Selection textrange.Selection
}

// Changed reports whether the transform altered the content.
func (r Result) Changed(before string) bool {
	return r.Content != before
}

// InsertAround wraps the selected text with before and after.
//
// With a non-empty selection the caret is placed immediately after the
// inserted after. With a caret both delimiters are inserted and the caret
// is placed between them.
func InsertAround(content string, sel textrange.Selection, before, after string) Result {
	sel = textrange.Clamp(content, sel)
	selected := textrange.Slice(content, sel.Start, sel.End)
	repl := before + selected + after

	caret := sel.Start + textrange.Len(repl)
	if sel.IsCaret() {
		caret = sel.Start + textrange.Len(before)
	}

	return Result{
		Content:   textrange.Splice(content, sel.Start, sel.End, repl),
		Selection: textrange.Caret(caret),
	}
}

// InsertText replaces the selection with text and places the caret after it.
func InsertText(content string, sel textrange.Selection, text string) Result {
	sel = textrange.Clamp(content, sel)
	return Result{
		Content:   textrange.Splice(content, sel.Start, sel.End, text),
		Selection: textrange.Caret(sel.Start + textrange.Len(text)),
	}
}

// DeleteBackward removes the selection, or the code point before the caret.
// Deleting at offset zero is a no-op.
func DeleteBackward(content string, sel textrange.Selection) Result {
	sel = textrange.Clamp(content, sel)
	if sel.IsCaret() {
		if sel.Start == 0 {
			return Result{Content: content, Selection: sel}
		}
		sel.Start = textrange.Clamp(content, textrange.Caret(sel.Start-1)).Start
	}
	return Result{
		Content:   textrange.Splice(content, sel.Start, sel.End, ""),
		Selection: textrange.Caret(sel.Start),
	}
}

// DeleteForward removes the selection, or the code point after the caret.
// Deleting at the end of the content is a no-op.
func DeleteForward(content string, sel textrange.Selection) Result {
	sel = textrange.Clamp(content, sel)
	if sel.IsCaret() {
		if sel.End >= textrange.Len(content) {
			return Result{Content: content, Selection: sel}
		}
		b := textrange.ByteOffset(content, sel.End)
		for _, r := range content[b:] {
			sel.End += textrange.Len(string(r))
			break
		}
	}
	return Result{
		Content:   textrange.Splice(content, sel.Start, sel.End, ""),
		Selection: textrange.Caret(sel.Start),
	}
}
