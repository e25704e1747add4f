package session

import (
	"github.com/dshills/markpad/internal/engine/textrange"
)

type motion uint8

const (
	moveLeft motion = iota
	moveRight
	moveUp
	moveDown
	moveLineStart
	moveLineEnd
	moveDocStart
	moveDocEnd
)

type cursorAction struct {
	motion motion
	extend bool
}

var cursorActions = map[string]cursorAction{
	"cursor.left":      {moveLeft, false},
	"cursor.right":     {moveRight, false},
	"cursor.up":        {moveUp, false},
	"cursor.down":      {moveDown, false},
	"cursor.lineStart": {moveLineStart, false},
	"cursor.lineEnd":   {moveLineEnd, false},
	"cursor.docStart":  {moveDocStart, false},
	"cursor.docEnd":    {moveDocEnd, false},
	"select.left":      {moveLeft, true},
	"select.right":     {moveRight, true},
	"select.up":        {moveUp, true},
	"select.down":      {moveDown, true},
	"select.lineStart": {moveLineStart, true},
	"select.lineEnd":   {moveLineEnd, true},
	"select.docStart":  {moveDocStart, true},
	"select.docEnd":    {moveDocEnd, true},
}

// move applies a caret motion. Without extend, left and right on a
// selection collapse it to the matching edge.
func (s *Session) move(a cursorAction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.editable() {
		return s.stateErrLocked()
	}
	s.typing = false

	if !a.extend && s.anchor != s.head {
		sel := s.selectionLocked()
		switch a.motion {
		case moveLeft:
			s.anchor, s.head = sel.Start, sel.Start
			s.goal = -1
			return nil
		case moveRight:
			s.anchor, s.head = sel.End, sel.End
			s.goal = -1
			return nil
		}
	}

	head := s.target(a.motion)
	s.head = head
	if !a.extend {
		s.anchor = head
	}
	return nil
}

// target computes the new head offset and updates the goal column.
func (s *Session) target(m motion) int {
	c, h := s.content, s.head
	switch m {
	case moveLeft:
		s.goal = -1
		return textrange.Prev(c, h)
	case moveRight:
		s.goal = -1
		return textrange.Next(c, h)
	case moveLineStart:
		s.goal = -1
		return textrange.LineStart(c, h)
	case moveLineEnd:
		s.goal = -1
		return textrange.LineEnd(c, h)
	case moveDocStart:
		s.goal = -1
		return 0
	case moveDocEnd:
		s.goal = -1
		return textrange.Len(c)
	}

	start := textrange.LineStart(c, h)
	if s.goal < 0 {
		s.goal = h - start
	}
	var line int
	if m == moveUp {
		if start == 0 {
			return 0
		}
		line = textrange.LineStart(c, start-1)
	} else {
		end := textrange.LineEnd(c, h)
		if end >= textrange.Len(c) {
			return textrange.Len(c)
		}
		line = end + 1
	}
	end := textrange.LineEnd(c, line)
	col := min(s.goal, end-line)
	// Snap to a code-point boundary.
	return textrange.Clamp(c, textrange.Caret(line+col)).Start
}
