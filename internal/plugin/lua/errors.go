package lua

import (
	"errors"
	"fmt"
)

// Errors for Lua state operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when a call runs past its timeout.
	ErrExecutionTimeout = errors.New("lua execution timeout")

	// ErrNoTransform is returned for scripts without a transform function.
	ErrNoTransform = errors.New("script does not define transform")

	// ErrBadResult is returned when transform does not return a string.
	ErrBadResult = errors.New("transform must return a string")
)

// ScriptError reports a failure loading or running a script.
type ScriptError struct {
	Script string
	Op     string // "load" or "run"
	Err    error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("plugin %s: %s: %v", e.Script, e.Op, e.Err)
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}
