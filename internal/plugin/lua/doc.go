// Package lua runs user transform scripts in a sandboxed gopher-lua state.
//
// A script is a .lua file that defines a global transform function:
//
//	-- upper.lua: upper-case the selection
//	function transform(content, start, finish)
//	  local sel = content:sub(start + 1, finish)
//	  local out = content:sub(1, start) .. sel:upper() .. content:sub(finish + 1)
//	  return out, start, finish
//	end
//
// start and finish are 0-based byte offsets of the selection, so
// content:sub(start + 1, finish) is the selected text. The function returns
// the new content and, optionally, the new selection. A missing selection
// keeps the caret at the end of the old selection.
//
// Each script gets its own state with only the base, table, string and
// math libraries. dofile, loadfile, load, loadstring and require are
// removed, print goes to the log, and every call runs under a timeout.
//
// A Host loads every script in a directory and registers each one with a
// session as the action plugin.<basename>.
package lua
