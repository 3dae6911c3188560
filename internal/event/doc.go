// Package event defines the normalized input and structure events that flow
// through the toolkit.
//
// Backends produce raw terminal input; the input package turns it into the
// values defined here. Every event names the window it is aimed at by
// WindowID, so an event can outlive its window without dangling: the
// dispatcher simply drops events for windows that no longer exist.
//
// # Event Kinds
//
//	Key            - a key press, Code is the key code (ASCII or curses key)
//	ButtonPress    - a mouse button went down
//	ButtonRelease  - a mouse button went up
//	Barcode        - a complete barcode-reader packet
//	Expose         - a window needs redrawing
//	Configure      - a window was moved or resized
//	Map / Unmap    - a window became visible / hidden
//	FocusIn/Out    - keyboard focus arrived / left
//	Destroy        - a window is being destroyed
//
// # Masks
//
// Native handlers select events with a Mask built from Type.Mask:
//
//	mask := event.TypeKey.Mask() | event.MaskStructure
package event
