package app

import (
	"errors"
	"io/fs"
	"testing"
)

func TestOperationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *OperationError
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "op only",
			err:      &OperationError{Op: "reload"},
			expected: "reload",
		},
		{
			name:     "op and target",
			err:      &OperationError{Op: "reload", Target: "config.toml"},
			expected: "reload config.toml",
		},
		{
			name:     "full error chain",
			err:      &OperationError{Op: "copy", Target: "code block 3", Err: errors.New("no clipboard")},
			expected: "copy code block 3: no clipboard",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestOperationError_Is(t *testing.T) {
	err := NewOperationError("reload", "config.toml", fs.ErrPermission)

	if !errors.Is(err, fs.ErrPermission) {
		t.Error("errors.Is() did not match the wrapped error")
	}
	if !errors.Is(err, err) {
		t.Error("errors.Is() did not match the wrapper itself")
	}
	if errors.Is(err, NewOperationError("reload", "config.toml", fs.ErrPermission)) {
		t.Error("errors.Is() matched a different wrapper")
	}

	var nilErr *OperationError
	if nilErr.Unwrap() != nil || nilErr.Is(fs.ErrPermission) {
		t.Error("nil receiver should unwrap to nil and match nothing")
	}
}

func TestInitError(t *testing.T) {
	inner := errors.New("bad toml")
	err := error(&InitError{Component: "config", Err: inner})

	if got, want := err.Error(), "init config: bad toml"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	var ie *InitError
	if !errors.As(err, &ie) || ie.Component != "config" {
		t.Errorf("errors.As() = %v", ie)
	}
	if !errors.Is(err, inner) {
		t.Error("errors.Is() did not reach the cause")
	}
}

func TestErrorList(t *testing.T) {
	var list ErrorList
	list.Add(nil)
	if list.AsError() != nil {
		t.Fatal("AsError() of an empty list should be nil")
	}

	first := errors.New("first")
	list.Add(first)
	if got := list.AsError().Error(); got != "first" {
		t.Errorf("Error() = %q, want %q", got, "first")
	}

	list.Add(fs.ErrNotExist)
	if list.Len() != 2 {
		t.Errorf("Len() = %d, want 2", list.Len())
	}
	err := list.AsError()
	if got, want := err.Error(), "2 errors: first: first"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, fs.ErrNotExist) || !errors.Is(err, first) {
		t.Error("errors.Is() did not reach the collected errors")
	}
}

func TestRecoveredPanicError(t *testing.T) {
	err := &RecoveredPanicError{Value: "boom"}
	if got := err.Error(); got != "panic: boom" {
		t.Errorf("Error() = %q", got)
	}
	err.Stack = "stack"
	if got := err.Error(); got != "panic: boom\nstack" {
		t.Errorf("Error() = %q", got)
	}
}
