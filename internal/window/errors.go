package window

import "errors"

// Sentinel errors for the window package.
var (
	// ErrBadName is returned for an empty window name or one containing a dot.
	ErrBadName = errors.New("bad window name")

	// ErrExists is returned when a sibling already uses the name.
	ErrExists = errors.New("window already exists")

	// ErrDestroyed is returned when operating on a destroyed window.
	ErrDestroyed = errors.New("window has been destroyed")
)
