package mouse

import "github.com/dshills/termtk/internal/renderer/backend"

// Button is a mouse button number as used in bindings: 1 left, 2 middle,
// 3 right, 4 and 5 the wheel.
type Button int

const (
	ButtonNone   Button = 0
	ButtonLeft   Button = 1
	ButtonMiddle Button = 2
	ButtonRight  Button = 3
	WheelUp      Button = 4
	WheelDown    Button = 5
)

// String returns a string representation of the button.
func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonMiddle:
		return "middle"
	case ButtonRight:
		return "right"
	case WheelUp:
		return "wheel-up"
	case WheelDown:
		return "wheel-down"
	default:
		return "none"
	}
}

// IsWheel reports whether b is a wheel button.
func (b Button) IsWheel() bool {
	return b == WheelUp || b == WheelDown
}

// Action is the direction of a transition.
type Action uint8

const (
	ActionPress Action = iota + 1
	ActionRelease
)

// String returns a string representation of the action.
func (a Action) String() string {
	switch a {
	case ActionPress:
		return "press"
	case ActionRelease:
		return "release"
	default:
		return "none"
	}
}

// Transition is one button going down or up.
type Transition struct {
	Button Button
	Action Action
}

var held = []struct {
	mask   backend.ButtonMask
	button Button
}{
	{backend.Button1, ButtonLeft},
	{backend.Button2, ButtonMiddle},
	{backend.Button3, ButtonRight},
}

// Tracker remembers which buttons are down. The zero value has no buttons
// down.
type Tracker struct {
	state backend.ButtonMask
}

// Update records a new button state and returns the transitions from the
// previous one. Presses come before releases when both happen in one
// report.
func (t *Tracker) Update(state backend.ButtonMask) []Transition {
	var out []Transition
	for _, h := range held {
		if state.Has(h.mask) && !t.state.Has(h.mask) {
			out = append(out, Transition{h.button, ActionPress})
		}
	}
	for _, h := range held {
		if !state.Has(h.mask) && t.state.Has(h.mask) {
			out = append(out, Transition{h.button, ActionRelease})
		}
	}
	if state.Has(backend.WheelUp) {
		out = append(out, Transition{WheelUp, ActionPress}, Transition{WheelUp, ActionRelease})
	}
	if state.Has(backend.WheelDown) {
		out = append(out, Transition{WheelDown, ActionPress}, Transition{WheelDown, ActionRelease})
	}
	t.state = state &^ (backend.WheelUp | backend.WheelDown)
	return out
}

// Pressed reports whether any button is held down.
func (t *Tracker) Pressed() bool {
	return t.state != backend.ButtonNone
}

// Reset forgets the held buttons.
func (t *Tracker) Reset() {
	t.state = backend.ButtonNone
}
