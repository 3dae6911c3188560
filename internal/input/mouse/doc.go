// Package mouse turns reported mouse button state into button transitions.
//
// Terminals report the full set of pressed buttons with every mouse event.
// A Tracker remembers the previous set and returns the presses and releases
// that took the state from one report to the next, in button order:
//
//	var tr mouse.Tracker
//	tr.Update(backend.Button1)                   // press 1
//	tr.Update(backend.Button1 | backend.Button3) // press 3
//	tr.Update(backend.ButtonNone)                // release 1, release 3
//
// Wheel notches are not held down; each one becomes a press immediately
// followed by a release of button 4 (up) or 5 (down).
package mouse
