// Package history provides snapshot-based undo/redo for note content.
//
// Every undoable edit pushes a full copy of the content as it was before the
// edit. Entries are cheap to reason about and independent of how the edit
// was computed, which keeps the transform layer free of inverse logic.
//
// # History Stack
//
// The History type manages undo/redo stacks with a bounded depth:
//
//	h := history.NewHistory(history.DefaultMaxEntries)
//
//	// Before a formatting action mutates the content
//	h.Snapshot(content)
//
//	// Undo/redo hand back the content to restore
//	if prev, ok := h.Undo(content); ok {
//	    content = prev
//	}
//
// # Invariants
//
//   - The undo stack never holds more than MaxEntries entries; the oldest
//     entry is evicted first.
//   - Any new snapshot clears the redo stack.
//   - Undo and redo on an empty stack are no-ops, never errors.
//
// # Selection Restoration
//
// Entries may also carry the selection that was active when they were
// taken. UndoEntry and RedoEntry return it so callers can put the caret
// back where it was.
package history
