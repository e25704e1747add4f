package textrange

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Selection is a caret or highlighted span in UTF-16 code units.
// Start is inclusive, End is exclusive: [Start, End).
type Selection struct {
	Start int
	End   int
}

// Caret returns a collapsed selection at offset.
func Caret(offset int) Selection {
	return Selection{Start: offset, End: offset}
}

// Span returns a selection from start to end, swapping reversed bounds.
func Span(start, end int) Selection {
	return Selection{Start: start, End: end}.Normalize()
}

// String returns a human-readable representation of the selection.
func (s Selection) String() string {
	return fmt.Sprintf("[%d:%d)", s.Start, s.End)
}

// IsCaret returns true if the selection has no extent.
func (s Selection) IsCaret() bool {
	return s.Start == s.End
}

// Len returns the length of the selection in code units.
func (s Selection) Len() int {
	if s.End < s.Start {
		return s.Start - s.End
	}
	return s.End - s.Start
}

// Normalize returns the selection with Start <= End.
func (s Selection) Normalize() Selection {
	if s.Start > s.End {
		return Selection{Start: s.End, End: s.Start}
	}
	return s
}

// Contains returns true if offset lies within [Start, End].
// A caret contains its own offset.
func (s Selection) Contains(offset int) bool {
	return offset >= s.Start && offset <= s.End
}

// unitLen returns the number of UTF-16 code units needed to encode r.
func unitLen(r rune) int {
	if r >= 0x10000 && r <= utf8.MaxRune {
		return 2
	}
	return 1
}

// Len returns the length of s in UTF-16 code units.
func Len(s string) int {
	n := 0
	for _, r := range s {
		n += unitLen(r)
	}
	return n
}

// UnitOffset converts a byte offset in s to a code-unit offset.
// Byte offsets past the end map to Len(s).
func UnitOffset(s string, byteOff int) int {
	if byteOff <= 0 {
		return 0
	}
	if byteOff > len(s) {
		byteOff = len(s)
	}
	n := 0
	for i, r := range s {
		if i >= byteOff {
			break
		}
		n += unitLen(r)
	}
	return n
}

// ByteOffset converts a code-unit offset to a byte offset in s.
// An offset inside a surrogate pair maps to the start of that code point;
// offsets past the end map to len(s).
func ByteOffset(s string, unit int) int {
	if unit <= 0 {
		return 0
	}
	n := 0
	for i, r := range s {
		w := unitLen(r)
		if n+w > unit {
			return i
		}
		n += w
	}
	return len(s)
}

// snap moves unit to the nearest code-point boundary at or before it.
func snap(s string, unit int) int {
	return UnitOffset(s, ByteOffset(s, unit))
}

// Clamp forces sel into the valid range for s.
// Bounds are limited to [0, Len(s)], reversed bounds are swapped, and
// offsets splitting a surrogate pair are snapped to the pair's start.
func Clamp(s string, sel Selection) Selection {
	n := Len(s)
	sel = sel.Normalize()
	if sel.Start < 0 {
		sel.Start = 0
	}
	if sel.End < 0 {
		sel.End = 0
	}
	if sel.Start > n {
		sel.Start = n
	}
	if sel.End > n {
		sel.End = n
	}
	sel.Start = snap(s, sel.Start)
	sel.End = snap(s, sel.End)
	return sel
}

// Slice returns the text between two code-unit offsets.
func Slice(s string, start, end int) string {
	b0 := ByteOffset(s, start)
	b1 := ByteOffset(s, end)
	if b1 < b0 {
		b0, b1 = b1, b0
	}
	return s[b0:b1]
}

// Splice replaces the text between two code-unit offsets with repl.
func Splice(s string, start, end int, repl string) string {
	b0 := ByteOffset(s, start)
	b1 := ByteOffset(s, end)
	if b1 < b0 {
		b0, b1 = b1, b0
	}
	var sb strings.Builder
	sb.Grow(len(s) - (b1 - b0) + len(repl))
	sb.WriteString(s[:b0])
	sb.WriteString(repl)
	sb.WriteString(s[b1:])
	return sb.String()
}

// Restore remaps sel across an edit that replaced removed code units at
// editStart with inserted code units.
//
// Offsets before the edit are unchanged, offsets after it shift by the size
// difference, and offsets inside the replaced region move to the end of the
// inserted text.
func Restore(sel Selection, editStart, removed, inserted int) Selection {
	return Selection{
		Start: remap(sel.Start, editStart, removed, inserted),
		End:   remap(sel.End, editStart, removed, inserted),
	}
}

func remap(offset, editStart, removed, inserted int) int {
	switch {
	case offset <= editStart:
		return offset
	case offset >= editStart+removed:
		return offset + inserted - removed
	default:
		return editStart + inserted
	}
}

// LineStart returns the code-unit offset of the start of the line
// containing unit.
func LineStart(s string, unit int) int {
	b := ByteOffset(s, unit)
	i := strings.LastIndexByte(s[:b], '\n')
	if i < 0 {
		return 0
	}
	return UnitOffset(s, i+1)
}

// LineEnd returns the code-unit offset of the line break ending the line
// containing unit, or Len(s) for the last line.
func LineEnd(s string, unit int) int {
	b := ByteOffset(s, unit)
	i := strings.IndexByte(s[b:], '\n')
	if i < 0 {
		return Len(s)
	}
	return UnitOffset(s, b+i)
}

// Next returns the offset of the code point after the one at unit, or
// Len(s) at the end.
func Next(s string, unit int) int {
	b := ByteOffset(s, unit)
	if b >= len(s) {
		return Len(s)
	}
	_, size := utf8.DecodeRuneInString(s[b:])
	return UnitOffset(s, b+size)
}

// Prev returns the offset of the code point before unit, or 0.
func Prev(s string, unit int) int {
	b := ByteOffset(s, unit)
	if b <= 0 {
		return 0
	}
	_, size := utf8.DecodeLastRuneInString(s[:b])
	return UnitOffset(s, b-size)
}
