// Package key provides the keysym registry for the input system.
//
// A keysym is a symbolic key name ("a", "Return", "F5", "bracketleft") that
// maps to the numeric key code carried by key events. Printable ASCII
// characters map to their own code, control characters to 0x00-0x1f, and
// function/cursor keys to the curses key codes (0x101 and up).
//
// The registry is constructed once and shared read-only afterwards:
//
//	keys := key.NewRegistry()
//	code, ok := keys.Lookup("Escape") // 0x1b, true
//	name, ok := keys.Name(0x102)      // "Down", true
//
// Names are case-sensitive: "a" and "A" are different keysyms.
package key
