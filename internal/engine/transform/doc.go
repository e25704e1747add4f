// Package transform implements the markdown formatting operations of the
// editor as pure functions over (content, selection).
//
// Every function takes the current content and a selection in UTF-16 code
// units and returns a Result holding the new content and the selection the
// editor should show afterwards. Nothing here touches history, persistence
// or the view; callers snapshot before applying a Result.
//
// # Wrapping
//
// InsertAround replaces the selected text S with before+S+after. With a
// selection the caret lands after the closing delimiter; with a caret the
// delimiters are inserted together and the caret sits between them:
//
//	r := transform.InsertAround("hello world", textrange.Span(0, 5), "**", "**")
//	// r.Content == "**hello** world", r.Selection == textrange.Caret(9)
//
// # Lists
//
// FormatMultiLineList prefixes every non-blank selected line with "- " or
// "N. ". Ordered numbering always restarts at 1 and counts every line of the
// selection, blank ones included. The result selection covers the rewritten
// block so the same lines can be formatted again.
//
// # Operations
//
// Op describes an operation by Kind so key bindings, toolbar buttons and
// scripts can share Apply as one entry point.
package transform
