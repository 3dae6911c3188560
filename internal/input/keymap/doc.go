// Package keymap implements the binding table: the store of event-sequence
// bindings and the matcher that turns a stream of events into commands.
//
// A binding associates an object (a window path, a class name, "all", or any
// other tag) and a sequence of event patterns with a command string. When an
// event arrives it is appended to the table's event ring, and for every object
// the caller associates with the event's window, the best matching sequence
// contributes one command. The commands then run through an Interpreter.
//
// # Sequence Syntax
//
//	a             - key press of the character 'a'
//	<Key-Return>  - key press of the Return keysym
//	<Return>      - same, the event name may be omitted
//	<Key>         - any key press
//	<Control-x>   - the control character Ctrl-X (0x18)
//	<Control>     - any control character
//	<1>           - button 1 press
//	<ButtonRelease-2>
//	<Expose> <Configure> <Map> <Unmap> <FocusIn> <FocusOut> <Destroy>
//	<Barcode>
//
// Items concatenate: "<Escape>q" is Escape followed by q.
//
// # Precedence
//
// When several sequences match, the longest wins. Among equal lengths the
// first pattern that differs in detail decides: an exact detail beats "any
// control key", which beats "anything". A true tie goes to the sequence
// registered last.
//
// # Percent Substitution
//
// Commands may contain % escapes expanded against the triggering event:
//
//	%k  key code          %A  character or barcode data
//	%K  keysym name       %N  keysym number
//	%W  window path       %b  button number
//	%x  %y  window coordinates
//	%X  %Y  screen coordinates
//	%%  a literal percent
//
// Strings are quoted by the Interpreter so every substitution is one token.
package keymap
