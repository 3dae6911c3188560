package key

// Key codes for keys that do not produce a character. The values follow the
// curses numbering so codes read from a curses-style backend need no mapping.
const (
	Break      = 0x101
	Down       = 0x102
	Up         = 0x103
	Left       = 0x104
	Right      = 0x105
	Home       = 0x106
	Backspace  = 0x107
	F0         = 0x108 // F(n) is F0+n
	DeleteLine = 0x148
	InsertLine = 0x149
	DeleteChar = 0x14a
	InsertChar = 0x14b
	Clear      = 0x14d
	NextPage   = 0x152
	PrevPage   = 0x153
	KPEnter    = 0x157
	Print      = 0x15a
	BackTab    = 0x161
	Begin      = 0x162
	End        = 0x168
	Help       = 0x16b
	Select     = 0x181
)

// Frequently used ASCII codes.
const (
	Tab      = 0x09
	Linefeed = 0x0a
	Return   = 0x0d
	Escape   = 0x1b
	Space    = 0x20
	Delete   = 0x7f
)

// MaxFunctionKey is the highest function key number with a keysym.
const MaxFunctionKey = 20

// F returns the key code of function key n (1..MaxFunctionKey).
func F(n int) int {
	return F0 + n
}

// IsControl reports whether code is an ASCII control character.
func IsControl(code int) bool {
	return code >= 0 && code < 0x20
}

// IsPrintable reports whether code is a printable ASCII character.
func IsPrintable(code int) bool {
	return code >= 0x20 && code < 0x7f
}

// IsFunctionKey reports whether code is one of the F1..F20 keys.
func IsFunctionKey(code int) bool {
	return code > F0 && code <= F0+MaxFunctionKey
}

// ControlCode folds a keysym code into the control character produced by
// holding Control: 0x40 is subtracted, then 0x20 more when the result is
// still outside the control range. The second return is false when the
// result is not a usable control character.
func ControlCode(code int) (int, bool) {
	c := code - 0x40
	if c >= 0x20 {
		c -= 0x20
	}
	if c <= 0 || c >= 0x20 {
		return 0, false
	}
	return c, true
}

// ControlBase returns the lowercase keysym code that ControlCode folds into
// c. It is the inverse used when a control character is written back out.
func ControlBase(c int) int {
	if c >= 1 && c <= 26 {
		return c + 0x60
	}
	return c + 0x40
}
