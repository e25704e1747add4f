package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func waitChange(t *testing.T, ch <-chan []string) []string {
	t.Helper()
	select {
	case paths := <-ch:
		return paths
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change")
		return nil
	}
}

func TestWatcherReportsFileChange(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.toml")
	other := filepath.Join(dir, "other.txt")
	if err := os.WriteFile(cfg, []byte("a = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ch := make(chan []string, 4)
	w, err := New(func(p []string) { ch <- p }, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	if err := w.Add(cfg); err != nil {
		t.Fatal(err)
	}

	_ = os.WriteFile(other, []byte("x"), 0o644)
	_ = os.WriteFile(cfg, []byte("a = 2\n"), 0o644)
	_ = os.WriteFile(cfg, []byte("a = 3\n"), 0o644)

	paths := waitChange(t, ch)
	want, _ := filepath.Abs(cfg)
	if len(paths) != 1 || paths[0] != want {
		t.Errorf("paths = %v, want [%s]", paths, want)
	}
}

func TestWatcherDirectory(t *testing.T) {
	dir := t.TempDir()
	ch := make(chan []string, 4)
	w, err := New(func(p []string) { ch <- p }, WithDebounce(10*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		t.Fatal(err)
	}

	_ = os.WriteFile(filepath.Join(dir, "keys.yaml"), []byte("bindings: []\n"), 0o644)

	paths := waitChange(t, ch)
	if len(paths) != 1 || filepath.Base(paths[0]) != "keys.yaml" {
		t.Errorf("paths = %v", paths)
	}
	if got := w.Watched(); len(got) != 1 {
		t.Errorf("Watched() = %v", got)
	}
}

func TestWatcherClose(t *testing.T) {
	w, err := New(nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close() = %v", err)
	}
	if err := w.Add(t.TempDir()); !errors.Is(err, ErrClosed) {
		t.Errorf("Add() after Close = %v, want ErrClosed", err)
	}
}
