package session

import (
	"errors"
	"fmt"
)

// Session errors.
var (
	// ErrClosed is returned by operations on a closed or cancelled session.
	ErrClosed = errors.New("session closed")

	// ErrNotReady is returned when editing or saving before content is loaded.
	ErrNotReady = errors.New("session not ready")

	// ErrAlreadyLoaded is returned by Load outside the Loading state.
	ErrAlreadyLoaded = errors.New("session already loaded")

	// ErrSaveInProgress is returned when a save is requested while one runs.
	ErrSaveInProgress = errors.New("save already in progress")

	// ErrNoPersister is returned by the save action without WithPersist.
	ErrNoPersister = errors.New("no persistence configured")

	// ErrUnknownAction is returned for action names with no handler.
	ErrUnknownAction = errors.New("unknown action")

	// ErrDuplicateAction is returned when registering a name twice.
	ErrDuplicateAction = errors.New("action already registered")

	// ErrInvalidText is returned when an action would leave content that
	// is not valid UTF-8.
	ErrInvalidText = errors.New("text is not valid UTF-8")
)

// SaveError reports a failed save. The session stays editable with its
// unsaved edits intact.
type SaveError struct {
	Op  string
	Err error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *SaveError) Unwrap() error {
	return e.Err
}

// ActionError reports a failed action.
type ActionError struct {
	Action string
	Err    error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("action %s: %v", e.Action, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}
