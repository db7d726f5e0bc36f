package action

import "errors"

// Errors returned by action operations.
var (
	// ErrUnknownAction indicates a binding action with no handler.
	ErrUnknownAction = errors.New("unknown action")

	// ErrEngineClosed is returned when running a script after Close.
	ErrEngineClosed = errors.New("lua engine is closed")

	// ErrNoScript indicates a lua action with an empty script.
	ErrNoScript = errors.New("lua action has no script")
)
