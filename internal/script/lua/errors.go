package lua

import "errors"

// Errors for interpreter operations.
var (
	// ErrClosed is returned when evaluating on a closed interpreter.
	ErrClosed = errors.New("lua interpreter is closed")

	// ErrTimeout is returned when a chunk runs past the evaluation timeout.
	ErrTimeout = errors.New("lua evaluation timeout")
)
