package dispatch

import "errors"

// Sentinel errors for the dispatch package.
var (
	// ErrUnknownHandler is returned when deleting a handler id that is not
	// registered.
	ErrUnknownHandler = errors.New("unknown event handler")

	// ErrNilHandler is returned when registering a nil callback.
	ErrNilHandler = errors.New("nil event handler")
)
