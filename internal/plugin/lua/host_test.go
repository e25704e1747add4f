package lua

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dshills/markpad/internal/engine/textrange"
	"github.com/dshills/markpad/internal/event"
	"github.com/dshills/markpad/internal/session"
)

const upperScript = `
label = "Upper-case"

function transform(content, start, finish)
  local sel = content:sub(start + 1, finish)
  return content:sub(1, start) .. sel:upper() .. content:sub(finish + 1), start, finish
end
`

func writeScript(t *testing.T, dir, name, code string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(code), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestScriptTransform(t *testing.T) {
	path := writeScript(t, t.TempDir(), "upper.lua", upperScript)
	sc, err := LoadScript(path)
	if err != nil {
		t.Fatalf("LoadScript() error = %v", err)
	}
	defer sc.Close()

	if sc.Name != "upper" || sc.Label != "Upper-case" {
		t.Errorf("Name, Label = %q, %q", sc.Name, sc.Label)
	}

	// "→" is three bytes but one code unit.
	res, err := sc.Transform("a→bcd world", textrange.Span(0, 5))
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	if res.Content != "A→BCD world" {
		t.Errorf("Content = %q", res.Content)
	}
	if res.Selection != textrange.Span(0, 5) {
		t.Errorf("Selection = %v, want [0:5)", res.Selection)
	}
}

func TestScriptResultSelection(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		code string
		want textrange.Selection
	}{
		{"content only", `function transform(c) return c .. "!" end`, textrange.Caret(2)},
		{"caret", `function transform(c) return c, 1 end`, textrange.Caret(1)},
		{"out of range", `function transform(c) return c, -5, 500 end`, textrange.Span(0, 3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, err := LoadScript(writeScript(t, dir, "s.lua", tt.code))
			if err != nil {
				t.Fatal(err)
			}
			defer sc.Close()
			res, err := sc.Transform("abc", textrange.Span(1, 2))
			if err != nil {
				t.Fatalf("Transform() error = %v", err)
			}
			if res.Selection != tt.want {
				t.Errorf("Selection = %v, want %v", res.Selection, tt.want)
			}
		})
	}
}

func TestScriptErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadScript(writeScript(t, dir, "none.lua", `x = 1`))
	if !errors.Is(err, ErrNoTransform) {
		t.Errorf("no transform error = %v, want ErrNoTransform", err)
	}

	_, err = LoadScript(writeScript(t, dir, "syntax.lua", `function (`))
	var se *ScriptError
	if !errors.As(err, &se) || se.Op != "load" || se.Script != "syntax" {
		t.Errorf("syntax error = %v, want load *ScriptError", err)
	}

	sc, err := LoadScript(writeScript(t, dir, "num.lua", `function transform() return 42 end`))
	if err != nil {
		t.Fatal(err)
	}
	defer sc.Close()
	if _, err := sc.Transform("x", textrange.Caret(0)); !errors.Is(err, ErrBadResult) {
		t.Errorf("numeric result error = %v, want ErrBadResult", err)
	}
}

type collect struct {
	loaded []Loaded
}

func (c *collect) Publish(topic event.Topic, _ string, payload any) error {
	if topic == event.TopicPluginLoaded {
		c.loaded = append(c.loaded, payload.(Loaded))
	}
	return nil
}

func TestHostLoadAndRegister(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "upper.lua", upperScript)
	writeScript(t, dir, "broken.lua", `function transform(`)
	writeScript(t, dir, "notes.txt", `ignored`)

	pub := &collect{}
	h := NewHost(dir, WithPublisher(pub))
	defer h.Close()

	err := h.LoadAll()
	if err == nil {
		t.Error("LoadAll() did not report the broken script")
	}
	if got := h.Names(); len(got) != 1 || got[0] != "upper" {
		t.Fatalf("Names() = %v, want [upper]", got)
	}
	if len(pub.loaded) != 1 || pub.loaded[0].Action != "plugin.upper" {
		t.Errorf("plugin.loaded events = %+v", pub.loaded)
	}

	s := session.Open("make me loud")
	defer s.Close()
	if err := h.Register(s); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	s.SetSelection(textrange.Span(0, 4))
	if err := s.ApplyToolbarAction("plugin.upper", nil); err != nil {
		t.Fatalf("ApplyToolbarAction() error = %v", err)
	}
	if got := s.CurrentContent(); got != "MAKE me loud" {
		t.Errorf("content = %q", got)
	}
	if info := s.History(); len(info) != 1 || info[0].Label != "Upper-case" {
		t.Errorf("History() = %+v", info)
	}

	// Reload with a changed script and a new one.
	writeScript(t, dir, "upper.lua", `function transform(c) return c .. "?" end`)
	writeScript(t, dir, "broken.lua", `function transform(c) return "" end`)
	if err := h.LoadAll(); err != nil {
		t.Fatalf("reload error = %v", err)
	}
	if err := h.Register(s); err != nil {
		t.Fatalf("re-Register() error = %v", err)
	}
	_ = s.ApplyToolbarAction("plugin.upper", nil)
	if got := s.CurrentContent(); got != "MAKE me loud?" {
		t.Errorf("after reload content = %q", got)
	}
	if err := s.ApplyToolbarAction("plugin.broken", nil); err != nil {
		t.Errorf("new script not registered: %v", err)
	}
}

func TestHostCallTimeout(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "spin.lua", `function transform(c, s, f) while true do end end`)

	h := NewHost(dir, WithTimeout(50*time.Millisecond))
	defer h.Close()
	if err := h.LoadAll(); err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	s := session.Open("still here")
	defer s.Close()
	if err := h.Register(s); err != nil {
		t.Fatal(err)
	}

	start := time.Now()
	err := s.ApplyToolbarAction("plugin.spin", nil)
	if !errors.Is(err, ErrExecutionTimeout) {
		t.Fatalf("ApplyToolbarAction() error = %v, want ErrExecutionTimeout", err)
	}
	if d := time.Since(start); d > time.Second {
		t.Errorf("call took %v, want it cut off near the timeout", d)
	}
	if got := s.CurrentContent(); got != "still here" {
		t.Errorf("content = %q, want unchanged", got)
	}
}

func TestHostMissingDir(t *testing.T) {
	h := NewHost(filepath.Join(t.TempDir(), "absent"))
	if err := h.LoadAll(); err != nil {
		t.Errorf("LoadAll() error = %v, want nil", err)
	}
	if len(h.Names()) != 0 {
		t.Errorf("Names() = %v", h.Names())
	}
}
