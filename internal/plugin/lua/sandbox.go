package lua

import (
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/markpad/internal/logging"
)

// removedGlobals can load code from disk or strings and escape the sandbox.
var removedGlobals = []string{
	"dofile",
	"loadfile",
	"load",
	"loadstring",
	"require",
	"module",
	"collectgarbage",
}

// Sandbox restricts a Lua state to pure text processing.
type Sandbox struct {
	L   *lua.LState
	log *logging.Logger
}

// NewSandbox creates a sandbox for L. Script output goes to log.
func NewSandbox(L *lua.LState, log *logging.Logger) *Sandbox {
	if log == nil {
		log = logging.NullLogger
	}
	return &Sandbox{L: L, log: log}
}

// Install removes unsafe globals and installs the markpad helper module.
func (s *Sandbox) Install() {
	for _, name := range removedGlobals {
		s.L.SetGlobal(name, lua.LNil)
	}
	s.L.SetGlobal("print", s.L.NewFunction(s.print))

	mod := s.L.SetFuncs(s.L.NewTable(), map[string]lua.LGFunction{
		"lines": luaLines,
		"trim":  luaTrim,
	})
	s.L.SetGlobal("markpad", mod)
}

// print writes its arguments to the log at debug level.
func (s *Sandbox) print(L *lua.LState) int {
	n := L.GetTop()
	parts := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	s.log.Debug("%s", strings.Join(parts, "\t"))
	return 0
}

// luaLines returns the lines of a string as a table. A trailing newline
// does not produce an empty last element.
func luaLines(L *lua.LState) int {
	str := L.CheckString(1)
	t := L.NewTable()
	for _, line := range splitLines(str) {
		t.Append(lua.LString(line))
	}
	L.Push(t)
	return 1
}

func luaTrim(L *lua.LState) int {
	L.Push(lua.LString(strings.TrimSpace(L.CheckString(1))))
	return 1
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
