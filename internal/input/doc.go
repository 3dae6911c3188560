// Package input turns backend input into toolkit events.
//
// A Normalizer receives backend events on the loop goroutine and delivers
// event.Event values to a sink, normally the dispatcher.
//
// # Keys
//
// Keys become event.Key with an integer code: the character for printable
// and control keys, a curses-style code from package key for cursor,
// editing and function keys. Alt held with a key is delivered as Escape
// followed by the key, the way terminals send meta. Key events target the
// window holding the focus.
//
// # Mouse
//
// Terminals report which buttons are down; the normalizer turns changes in
// that state into ButtonPress and ButtonRelease events. The first press
// grabs the window under the pointer and every later button event goes to
// it until all buttons are up. Events carry window-relative and screen
// coordinates.
//
// # Barcode readers
//
// A reader in keyboard-wedge mode types its packet between a lead-in and a
// trailer code. With barcode recognition on, the lead-in starts collecting,
// the trailer delivers event.Barcode with the collected text, and a gap
// longer than the timeout replays everything collected as ordinary keys.
//
// # Hooks
//
// Hooks see raw backend events before normalization and can consume them.
package input
