package backend

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/markpad/internal/input/key"
)

func newSim(t *testing.T, w, h int) (*Terminal, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	term := NewScreenTerminal(sim)
	if err := term.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	sim.SetSize(w, h)
	t.Cleanup(term.Shutdown)
	return term, sim
}

func row(sim tcell.SimulationScreen, y int) string {
	cells, w, _ := sim.GetContents()
	var out []rune
	for x := 0; x < w; x++ {
		c := cells[y*w+x]
		if len(c.Runes) == 0 {
			out = append(out, ' ')
			continue
		}
		out = append(out, c.Runes...)
	}
	return string(out)
}

func TestDrawText(t *testing.T) {
	term, sim := newSim(t, 10, 3)

	if n := DrawText(term, 0, 0, 10, "# Title", tcell.StyleDefault, 4); n != 7 {
		t.Errorf("DrawText() = %d columns, want 7", n)
	}
	if n := DrawText(term, 0, 1, 5, "abcdefgh", tcell.StyleDefault, 4); n != 5 {
		t.Errorf("DrawText() clipped = %d, want 5", n)
	}
	// The wide character does not fit in the last column.
	if n := DrawText(term, 0, 2, 4, "abc世", tcell.StyleDefault, 4); n != 3 {
		t.Errorf("DrawText() wide = %d, want 3", n)
	}
	term.Show()

	if got := row(sim, 0); got != "# Title   " {
		t.Errorf("row 0 = %q", got)
	}
	if got := row(sim, 1); got != "abcde     " {
		t.Errorf("row 1 = %q", got)
	}
}

func TestTextWidth(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"abc", 3},
		{"世界", 4},
		{"\tx", 5},
		{"ab\tx", 5},
		{"é", 1},
	}
	for _, tt := range tests {
		if got := TextWidth(tt.in, 4); got != tt.want {
			t.Errorf("TextWidth(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestConvertKeyEvent(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want key.Event
	}{
		{"rune", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), key.Rune('x', key.ModNone)},
		{"ctrl letter", tcell.NewEventKey(tcell.KeyCtrlB, 'b', tcell.ModCtrl), key.Rune('b', key.ModCtrl)},
		{"ctrl from rune", tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModCtrl), key.Rune('z', key.ModCtrl)},
		{"alt digit", tcell.NewEventKey(tcell.KeyRune, '2', tcell.ModAlt), key.Rune('2', key.ModAlt)},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), key.Special(key.KeyEnter, key.ModNone)},
		{"tab", tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone), key.Special(key.KeyTab, key.ModNone)},
		{"backtab", tcell.NewEventKey(tcell.KeyBacktab, 0, tcell.ModNone), key.Special(key.KeyTab, key.ModShift)},
		{"backspace2", tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone), key.Special(key.KeyBackspace, key.ModNone)},
		{"shift up", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModShift), key.Special(key.KeyUp, key.ModShift)},
		{"f7", tcell.NewEventKey(tcell.KeyF7, 0, tcell.ModNone), key.Special(key.KeyF7, key.ModNone)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := convertKeyEvent(tt.ev); got != tt.want {
				t.Errorf("convertKeyEvent() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestConvertMouseButton(t *testing.T) {
	tests := []struct {
		in   tcell.ButtonMask
		want MouseButton
	}{
		{tcell.ButtonNone, MouseNone},
		{tcell.Button1, MouseLeft},
		{tcell.Button3, MouseRight},
		{tcell.WheelUp, MouseWheelUp},
		{tcell.WheelDown, MouseWheelDown},
	}
	for _, tt := range tests {
		if got := convertMouseButton(tt.in); got != tt.want {
			t.Errorf("convertMouseButton(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if !MouseWheelDown.IsWheel() || MouseLeft.IsWheel() {
		t.Error("IsWheel() misclassifies buttons")
	}
}

// next returns the next event of type typ, skipping others.
func next(term *Terminal, typ EventType) Event {
	for {
		if ev := term.PollEvent(); ev.Type == typ || ev.Type == EventClosed {
			return ev
		}
	}
}

func TestPollEvent(t *testing.T) {
	term, sim := newSim(t, 20, 5)

	sim.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	ev := next(term, EventKey)
	if ev.Type != EventKey || ev.Key != key.Rune('q', key.ModNone) {
		t.Errorf("PollEvent() = %+v, want key q", ev)
	}

	sim.InjectMouse(7, 2, tcell.Button1, tcell.ModNone)
	ev = next(term, EventMouse)
	if ev.Type != EventMouse || ev.MouseX != 7 || ev.MouseY != 2 || ev.MouseButton != MouseLeft {
		t.Errorf("PollEvent() = %+v, want left press at 7,2", ev)
	}

	if err := term.PostInterrupt("saved"); err != nil {
		t.Fatalf("PostInterrupt() error = %v", err)
	}
	ev = next(term, EventInterrupt)
	if ev.Type != EventInterrupt || ev.Data != "saved" {
		t.Errorf("PollEvent() = %+v, want interrupt", ev)
	}
}

func TestConvertNilEvent(t *testing.T) {
	if ev := convertEvent(nil); ev.Type != EventClosed {
		t.Errorf("convertEvent(nil).Type = %v, want EventClosed", ev.Type)
	}
}

func TestDrawScrolled(t *testing.T) {
	term, sim := newSim(t, 6, 2)
	segs := []Segment{
		{Text: "ab", Style: tcell.StyleDefault},
		{Text: "cdefgh", Style: tcell.StyleDefault.Reverse(true)},
	}
	if n := DrawScrolled(term, 0, 0, 4, 3, segs, 4); n != 4 {
		t.Errorf("DrawScrolled() = %d, want 4", n)
	}
	// The wide character straddles the left edge and is blanked.
	if n := DrawScrolled(term, 0, 1, 6, 1, []Segment{{Text: "世z"}}, 4); n != 2 {
		t.Errorf("DrawScrolled() wide = %d, want 2", n)
	}
	term.Show()

	if got := row(sim, 0); got != "defg  " {
		t.Errorf("row 0 = %q", got)
	}
	if got := row(sim, 1); got != " z    " {
		t.Errorf("row 1 = %q", got)
	}
	cells, _, _ := sim.GetContents()
	if _, _, attrs := cells[0].Style.Decompose(); attrs&tcell.AttrReverse == 0 {
		t.Error("selected segment lost its style")
	}
}
