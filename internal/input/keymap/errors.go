package keymap

import (
	"errors"
	"fmt"
)

// Sentinel errors for sequence parsing.
var (
	// ErrNoEvents is returned for a sequence with no events in it.
	ErrNoEvents = errors.New("no events specified in binding")

	// ErrUnknownEvent is returned for an unrecognized event name.
	ErrUnknownEvent = errors.New("bad event type or keysym")

	// ErrUnknownKeysym is returned for an unrecognized keysym or button.
	ErrUnknownKeysym = errors.New("bad keysym")

	// ErrMissingBracket is returned when an angle specification is not closed.
	ErrMissingBracket = errors.New("missing \">\" in binding")

	// ErrDetailNotAllowed is returned when a detail follows an event that
	// takes none.
	ErrDetailNotAllowed = errors.New("specified keysym for non-key event")

	// ErrBadControl is returned when a Control pattern does not name a
	// control character.
	ErrBadControl = errors.New("invalid control character")
)

// ParseError describes a malformed sequence specification.
type ParseError struct {
	// Spec is the full specification being parsed.
	Spec string
	// Pos is the byte offset of the offending item.
	Pos int
	// Msg adds detail, typically the offending name.
	Msg string
	// Err is one of the sentinel errors above.
	Err error
}

func (e *ParseError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("%s %q in %q at %d", e.Err, e.Msg, e.Spec, e.Pos)
	}
	return fmt.Sprintf("%s in %q at %d", e.Err, e.Spec, e.Pos)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
