package store

import (
	"errors"
	"fmt"
)

// Store errors.
var (
	// ErrNotFound indicates no note has the requested ID.
	ErrNotFound = errors.New("note not found")

	// ErrInvalidID indicates an ID that is not a UUID.
	ErrInvalidID = errors.New("invalid note id")

	// ErrInvalidDocument indicates a note file that is not valid JSON or
	// lacks an id.
	ErrInvalidDocument = errors.New("invalid note document")

	// ErrInvalidContent indicates content that is not valid UTF-8 and so
	// cannot be stored as a JSON string unchanged.
	ErrInvalidContent = errors.New("note content is not valid UTF-8")
)

// OperationError records the operation and note that failed.
type OperationError struct {
	Op  string // "create", "get", "list", "save", "delete"
	ID  string
	Err error
}

func (e *OperationError) Error() string {
	if e == nil {
		return ""
	}
	if e.ID != "" {
		return fmt.Sprintf("store: %s %s: %v", e.Op, e.ID, e.Err)
	}
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func opErr(op, id string, err error) error {
	return &OperationError{Op: op, ID: id, Err: err}
}
