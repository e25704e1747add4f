// Package statusline draws the bottom status row: session state, note
// title, modified flag, caret position and transient messages.
package statusline

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/markpad/internal/renderer/backend"
)

// MessageType indicates the type of status message.
type MessageType int

const (
	MessageNone MessageType = iota
	MessageInfo
	MessageWarning
	MessageError
)

// DefaultMessageTTL is how long a message stays up.
const DefaultMessageTTL = 4 * time.Second

// StatusLine holds what the status row shows. It is used from the UI
// goroutine only.
type StatusLine struct {
	state    string
	title    string
	modified bool
	line     int
	col      int
	layout   string
	percent  int

	message     string
	messageType MessageType
	expires     time.Time
	ttl         time.Duration
	now         func() time.Time

	stateStyles map[string]tcell.Style
}

// New creates a status line.
func New() *StatusLine {
	return &StatusLine{
		state:       "LOADING",
		ttl:         DefaultMessageTTL,
		now:         time.Now,
		stateStyles: defaultStateStyles(),
	}
}

// SetClock replaces the time source used for message expiry.
func (s *StatusLine) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

func defaultStateStyles() map[string]tcell.Style {
	base := tcell.StyleDefault.Bold(true)
	return map[string]tcell.Style{
		"LOADING": base.Background(tcell.ColorGray).Foreground(tcell.ColorWhite),
		"READY":   base.Background(tcell.ColorBlue).Foreground(tcell.ColorWhite),
		"SAVING":  base.Background(tcell.ColorYellow).Foreground(tcell.ColorBlack),
		"CLOSED":  base.Background(tcell.ColorRed).Foreground(tcell.ColorWhite),
	}
}

// SetState updates the session state indicator.
func (s *StatusLine) SetState(state string) {
	s.state = strings.ToUpper(state)
}

// SetTitle updates the note title.
func (s *StatusLine) SetTitle(title string) {
	s.title = title
}

// SetModified updates the modified indicator.
func (s *StatusLine) SetModified(modified bool) {
	s.modified = modified
}

// SetPosition updates the caret position (1-indexed).
func (s *StatusLine) SetPosition(line, col int) {
	s.line = line
	s.col = col
}

// SetLayout sets the short layout description, like "50%" or "editor".
func (s *StatusLine) SetLayout(layout string) {
	s.layout = layout
}

// SetScrollPercent updates the scroll percentage.
func (s *StatusLine) SetScrollPercent(percent int) {
	s.percent = percent
}

// SetMessage displays a message until it expires.
func (s *StatusLine) SetMessage(msg string, msgType MessageType) {
	s.message = msg
	s.messageType = msgType
	s.expires = s.now().Add(s.ttl)
}

// ClearMessage clears the status message.
func (s *StatusLine) ClearMessage() {
	s.message = ""
	s.messageType = MessageNone
}

// Message returns the current message, or "" once it has expired.
func (s *StatusLine) Message() (string, MessageType) {
	if s.message != "" && !s.now().Before(s.expires) {
		s.ClearMessage()
	}
	return s.message, s.messageType
}

// Render draws the status row at row across width columns.
func (s *StatusLine) Render(b backend.Backend, row, width int) {
	barStyle := tcell.StyleDefault.Background(tcell.ColorGray).Foreground(tcell.ColorWhite)
	backend.Fill(b, 0, row, width, 1, ' ', barStyle)

	stateStyle, ok := s.stateStyles[s.state]
	if !ok {
		stateStyle = barStyle.Bold(true)
	}
	col := backend.DrawText(b, 0, row, width, " "+s.state+" ", stateStyle, 1)
	col++

	right := s.formatPosition()
	rightWidth := backend.TextWidth(right, 1)
	avail := width - col - rightWidth - 1

	if msg, typ := s.Message(); msg != "" {
		backend.DrawText(b, col, row, avail, msg, messageStyle(barStyle, typ), 1)
	} else {
		title := s.title
		if title == "" {
			title = "[Untitled]"
		}
		if s.modified {
			title += " [+]"
		}
		backend.DrawText(b, col, row, avail, title, barStyle, 1)
	}

	if start := width - rightWidth - 1; start > col {
		backend.DrawText(b, start, row, rightWidth, right, barStyle, 1)
	}
}

func messageStyle(bar tcell.Style, typ MessageType) tcell.Style {
	switch typ {
	case MessageError:
		return bar.Foreground(tcell.ColorRed).Bold(true)
	case MessageWarning:
		return bar.Foreground(tcell.ColorYellow)
	default:
		return bar
	}
}

// formatPosition formats the right side: "Ln 3, Col 7 | 50% | split 40%".
func (s *StatusLine) formatPosition() string {
	line := max(s.line, 1)
	col := max(s.col, 1)
	out := fmt.Sprintf("Ln %d, Col %d | %d%%", line, col, s.percent)
	if s.layout != "" {
		out += " | " + s.layout
	}
	return out
}
