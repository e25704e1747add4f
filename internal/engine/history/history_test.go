package history

import (
	"fmt"
	"testing"
	"time"

	"github.com/dshills/markpad/internal/engine/textrange"
	"pgregory.net/rapid"
)

func TestHistorySnapshotAndUndo(t *testing.T) {
	h := NewHistory(DefaultMaxEntries)

	h.Snapshot("hello")
	got, ok := h.Undo("**hello**")
	if !ok {
		t.Fatal("Undo() reported nothing to undo")
	}
	if got != "hello" {
		t.Errorf("Undo() = %q, want %q", got, "hello")
	}
	if h.CanUndo() {
		t.Error("undo stack should be empty")
	}
	if !h.CanRedo() {
		t.Error("redo should be available after undo")
	}
}

func TestHistoryUndoRedoRestoresExactly(t *testing.T) {
	h := NewHistory(DefaultMaxEntries)
	h.Snapshot("a")
	current := "a b"

	prev, _ := h.Undo(current)
	next, ok := h.Redo(prev)
	if !ok {
		t.Fatal("Redo() reported nothing to redo")
	}
	if next != current {
		t.Errorf("Redo() = %q, want %q", next, current)
	}
	if h.UndoCount() != 1 || h.RedoCount() != 0 {
		t.Errorf("counts = (%d, %d), want (1, 0)", h.UndoCount(), h.RedoCount())
	}
}

func TestHistoryRedoClearedOnSnapshot(t *testing.T) {
	h := NewHistory(DefaultMaxEntries)

	h.Snapshot("A")
	prev, _ := h.Undo("A!")
	h.Snapshot(prev) // a fresh edit

	if h.CanRedo() {
		t.Error("redo should be cleared by a new snapshot")
	}
	if _, ok := h.Redo("whatever"); ok {
		t.Error("Redo() should be a no-op after a fresh edit")
	}
}

func TestHistoryEmptyStacksAreNoOps(t *testing.T) {
	h := NewHistory(DefaultMaxEntries)

	if got, ok := h.Undo("x"); ok || got != "" {
		t.Errorf("Undo() on empty = (%q, %v), want (\"\", false)", got, ok)
	}
	if got, ok := h.Redo("x"); ok || got != "" {
		t.Errorf("Redo() on empty = (%q, %v), want (\"\", false)", got, ok)
	}
	if h.RedoCount() != 0 {
		t.Error("a no-op undo must not push onto the redo stack")
	}
}

func TestHistoryMaxEntries(t *testing.T) {
	h := NewHistory(DefaultMaxEntries)

	for i := 0; i < 60; i++ {
		h.Snapshot(fmt.Sprintf("v%d", i))
	}
	if h.UndoCount() != 50 {
		t.Fatalf("UndoCount() = %d, want 50", h.UndoCount())
	}

	current := "v60"
	for i := 59; i >= 10; i-- {
		prev, ok := h.Undo(current)
		if !ok {
			t.Fatalf("Undo() ran out at v%d", i)
		}
		if want := fmt.Sprintf("v%d", i); prev != want {
			t.Fatalf("Undo() = %q, want %q", prev, want)
		}
		current = prev
	}
	if _, ok := h.Undo(current); ok {
		t.Error("oldest 10 snapshots should have been evicted")
	}
}

func TestHistoryRedoRespectsMaxEntries(t *testing.T) {
	h := NewHistory(3)
	h.Snapshot("a")
	h.Snapshot("b")
	h.Snapshot("c")

	prev, _ := h.Undo("d")
	h.mu.Lock()
	h.undoStack = append(h.undoStack, Entry{Content: "extra"})
	h.mu.Unlock()

	if _, ok := h.Redo(prev); !ok {
		t.Fatal("Redo() failed")
	}
	if h.UndoCount() != 3 {
		t.Errorf("UndoCount() = %d, want 3", h.UndoCount())
	}
}

func TestHistoryEntrySelection(t *testing.T) {
	h := NewHistory(DefaultMaxEntries)
	h.Push(Entry{Content: "hello", Selection: textrange.Span(0, 5), Label: "Bold"})

	e, ok := h.UndoEntry(Entry{Content: "**hello**", Selection: textrange.Caret(9)})
	if !ok {
		t.Fatal("UndoEntry() failed")
	}
	if e.Selection != textrange.Span(0, 5) {
		t.Errorf("Selection = %v, want [0:5)", e.Selection)
	}

	r, _ := h.RedoEntry(e)
	if r.Selection != textrange.Caret(9) {
		t.Errorf("redo Selection = %v, want [9:9)", r.Selection)
	}
}

func TestHistoryInfo(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	h := NewHistory(DefaultMaxEntries, WithClock(func() time.Time { return fixed }))

	h.Push(Entry{Content: "abc", Label: "Italic"})
	info, ok := h.PeekUndo()
	if !ok {
		t.Fatal("PeekUndo() found nothing")
	}
	if info.Label != "Italic" || info.Size != 3 || !info.Timestamp.Equal(fixed) {
		t.Errorf("PeekUndo() = %+v", info)
	}
	if len(h.UndoInfo()) != 1 {
		t.Errorf("UndoInfo() len = %d, want 1", len(h.UndoInfo()))
	}
	if _, ok := h.PeekRedo(); ok {
		t.Error("PeekRedo() should be empty")
	}
	h.Undo("abcd")
	if got := h.RedoInfo(); len(got) != 1 || got[0].Size != 4 {
		t.Errorf("RedoInfo() = %+v", got)
	}
}

func TestHistoryClear(t *testing.T) {
	h := NewHistory(DefaultMaxEntries)
	h.Snapshot("a")
	h.Undo("b")
	h.Snapshot("c")
	h.Clear()

	if h.CanUndo() || h.CanRedo() {
		t.Error("Clear() should empty both stacks")
	}
}

func TestHistorySetMaxEntries(t *testing.T) {
	h := NewHistory(0)
	if h.MaxEntries() != DefaultMaxEntries {
		t.Errorf("MaxEntries() = %d, want %d", h.MaxEntries(), DefaultMaxEntries)
	}
	for i := 0; i < 10; i++ {
		h.Snapshot(fmt.Sprint(i))
	}
	h.SetMaxEntries(4)
	if h.UndoCount() != 4 {
		t.Errorf("UndoCount() = %d, want 4", h.UndoCount())
	}
	if prev, _ := h.Undo("x"); prev != "9" {
		t.Errorf("Undo() = %q, want %q", prev, "9")
	}
}

func testUndoRedoRoundTrip(t *rapid.T) {
	h := NewHistory(DefaultMaxEntries)
	edits := rapid.SliceOfN(rapid.String(), 1, 80).Draw(t, "edits")

	current := ""
	for _, next := range edits {
		h.Snapshot(current)
		current = next
	}
	if h.UndoCount() > DefaultMaxEntries {
		t.Fatalf("UndoCount() = %d exceeds %d", h.UndoCount(), DefaultMaxEntries)
	}

	steps := rapid.IntRange(1, h.UndoCount()).Draw(t, "steps")
	state := current
	for i := 0; i < steps; i++ {
		state, _ = h.Undo(state)
	}
	for i := 0; i < steps; i++ {
		state, _ = h.Redo(state)
	}
	if state != current {
		t.Fatalf("after %d undo/redo pairs content = %q, want %q", steps, state, current)
	}
}

func TestUndoRedoRoundTrip_Properties(t *testing.T) {
	rapid.Check(t, testUndoRedoRoundTrip)
}
