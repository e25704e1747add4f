// Package textrange provides caret and selection arithmetic for note content.
//
// Content is held as an ordinary Go string, but every offset exposed by this
// package is a UTF-16 code-unit offset. That is the unit the view layer
// reports caret positions in, so a selection computed here can be handed
// back to it without conversion.
//
// Selection Model:
//
// A Selection is an ordered pair (Start, End) with 0 <= Start <= End <= Len.
// When Start == End the selection is a caret. Selections arriving from
// outside the engine are passed through Clamp before use; an out-of-range or
// reversed pair is never an error.
//
// Basic usage:
//
//	sel := textrange.Clamp(content, textrange.Selection{Start: 3, End: 99})
//	word := textrange.Slice(content, sel.Start, sel.End)
//	content = textrange.Splice(content, sel.Start, sel.End, "**"+word+"**")
//
// Surrogate Pairs:
//
// Offsets that would split a surrogate pair are snapped to the start of the
// pair, so Slice and Splice always operate on whole code points.
package textrange
