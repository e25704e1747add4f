package lua

import (
	"path/filepath"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/markpad/internal/engine/textrange"
	"github.com/dshills/markpad/internal/engine/transform"
)

// Script is a loaded transform script.
type Script struct {
	// Name is the file name without extension.
	Name string
	// Path is the file the script was loaded from.
	Path string
	// Label names history entries. Scripts may set a global label string;
	// it defaults to Name.
	Label string

	state *State
}

// LoadScript runs the file at path in a fresh state and checks that it
// defines transform.
func LoadScript(path string, opts ...StateOption) (*Script, error) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	st := NewState(opts...)
	if err := st.DoFile(path); err != nil {
		st.Close()
		return nil, &ScriptError{Script: name, Op: "load", Err: err}
	}
	if !st.HasFunc("transform") {
		st.Close()
		return nil, &ScriptError{Script: name, Op: "load", Err: ErrNoTransform}
	}

	label := name
	if v, ok := st.Global("label").(lua.LString); ok && v != "" {
		label = string(v)
	}
	return &Script{Name: name, Path: path, Label: label, state: st}, nil
}

// Transform calls the script's transform function. Offsets cross the
// boundary as 0-based byte offsets; the returned selection is clamped.
func (s *Script) Transform(content string, sel textrange.Selection) (transform.Result, error) {
	sel = textrange.Clamp(content, sel)
	start := textrange.ByteOffset(content, sel.Start)
	finish := textrange.ByteOffset(content, sel.End)

	ret, err := s.state.Call("transform",
		lua.LString(content), lua.LNumber(start), lua.LNumber(finish))
	if err != nil {
		return transform.Result{}, &ScriptError{Script: s.Name, Op: "run", Err: err}
	}
	if len(ret) == 0 || ret[0].Type() != lua.LTString {
		return transform.Result{}, &ScriptError{Script: s.Name, Op: "run", Err: ErrBadResult}
	}
	out := string(ret[0].(lua.LString))

	res := transform.Result{Content: out}
	switch {
	case len(ret) >= 2 && ret[1].Type() == lua.LTNumber:
		a := unitAt(out, ret[1])
		b := a
		if len(ret) >= 3 && ret[2].Type() == lua.LTNumber {
			b = unitAt(out, ret[2])
		}
		res.Selection = textrange.Span(a, b)
	default:
		res.Selection = textrange.Caret(sel.End)
	}
	res.Selection = textrange.Clamp(out, res.Selection)
	return res, nil
}

// unitAt converts a byte offset returned by a script into code units.
func unitAt(s string, v lua.LValue) int {
	b := int(v.(lua.LNumber))
	if b < 0 {
		b = 0
	}
	return textrange.UnitOffset(s, b)
}

// Close releases the script's state.
func (s *Script) Close() error {
	return s.state.Close()
}
