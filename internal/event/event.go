package event

import "time"

// WindowID identifies a window. The zero value names no window.
type WindowID uint64

// Event is a normalized toolkit event. The set of implementations is closed;
// switch on the concrete type to reach kind-specific fields.
type Event interface {
	// Type returns the event kind.
	Type() Type

	// Target returns the window the event is aimed at.
	Target() WindowID

	isEvent()
}

// Key is a key press.
type Key struct {
	Window WindowID
	// Code is the key code: ASCII for characters and control characters,
	// curses key codes for function and cursor keys.
	Code int
	Time time.Time
}

// ButtonPress is a mouse button going down. X and Y are relative to the
// target window; RootX and RootY to the screen.
type ButtonPress struct {
	Window       WindowID
	Button       int
	X, Y         int
	RootX, RootY int
}

// ButtonRelease is a mouse button going up.
type ButtonRelease struct {
	Window       WindowID
	Button       int
	X, Y         int
	RootX, RootY int
}

// Barcode is a complete packet read from a barcode reader.
type Barcode struct {
	Window WindowID
	Data   string
}

// Expose asks a window to redraw itself.
type Expose struct {
	Window WindowID
}

// Configure reports a window's new position (relative to its parent) and size.
type Configure struct {
	Window        WindowID
	X, Y          int
	Width, Height int
}

// Map reports that a window became mapped.
type Map struct {
	Window WindowID
}

// Unmap reports that a window became unmapped.
type Unmap struct {
	Window WindowID
}

// FocusIn reports that a window received the keyboard focus.
type FocusIn struct {
	Window WindowID
}

// FocusOut reports that a window lost the keyboard focus.
type FocusOut struct {
	Window WindowID
}

// Destroy reports that a window is being destroyed. It is delivered while
// the window is still registered.
type Destroy struct {
	Window WindowID
}

func (e Key) Type() Type           { return TypeKey }
func (e ButtonPress) Type() Type   { return TypeButtonPress }
func (e ButtonRelease) Type() Type { return TypeButtonRelease }
func (e Barcode) Type() Type       { return TypeBarcode }
func (e Expose) Type() Type        { return TypeExpose }
func (e Configure) Type() Type     { return TypeConfigure }
func (e Map) Type() Type           { return TypeMap }
func (e Unmap) Type() Type         { return TypeUnmap }
func (e FocusIn) Type() Type       { return TypeFocusIn }
func (e FocusOut) Type() Type      { return TypeFocusOut }
func (e Destroy) Type() Type       { return TypeDestroy }

func (e Key) Target() WindowID           { return e.Window }
func (e ButtonPress) Target() WindowID   { return e.Window }
func (e ButtonRelease) Target() WindowID { return e.Window }
func (e Barcode) Target() WindowID       { return e.Window }
func (e Expose) Target() WindowID        { return e.Window }
func (e Configure) Target() WindowID     { return e.Window }
func (e Map) Target() WindowID           { return e.Window }
func (e Unmap) Target() WindowID         { return e.Window }
func (e FocusIn) Target() WindowID       { return e.Window }
func (e FocusOut) Target() WindowID      { return e.Window }
func (e Destroy) Target() WindowID       { return e.Window }

func (Key) isEvent()           {}
func (ButtonPress) isEvent()   {}
func (ButtonRelease) isEvent() {}
func (Barcode) isEvent()       {}
func (Expose) isEvent()        {}
func (Configure) isEvent()     {}
func (Map) isEvent()           {}
func (Unmap) isEvent()         {}
func (FocusIn) isEvent()       {}
func (FocusOut) isEvent()      {}
func (Destroy) isEvent()       {}

// DetailOf returns the value binding patterns compare against: the key code
// for key events, the button number for button events, 0 otherwise.
func DetailOf(ev Event) int {
	switch e := ev.(type) {
	case Key:
		return e.Code
	case ButtonPress:
		return e.Button
	case ButtonRelease:
		return e.Button
	default:
		return 0
	}
}

// Retarget returns a copy of ev aimed at window w.
func Retarget(ev Event, w WindowID) Event {
	switch e := ev.(type) {
	case Key:
		e.Window = w
		return e
	case ButtonPress:
		e.Window = w
		return e
	case ButtonRelease:
		e.Window = w
		return e
	case Barcode:
		e.Window = w
		return e
	case Expose:
		e.Window = w
		return e
	case Configure:
		e.Window = w
		return e
	case Map:
		e.Window = w
		return e
	case Unmap:
		e.Window = w
		return e
	case FocusIn:
		e.Window = w
		return e
	case FocusOut:
		e.Window = w
		return e
	case Destroy:
		e.Window = w
		return e
	default:
		return ev
	}
}
