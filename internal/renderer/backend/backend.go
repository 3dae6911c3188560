// Package backend provides the terminal abstraction the toolkit draws on
// and reads input from.
package backend

import "github.com/dshills/termtk/internal/renderer/core"

// EventType identifies the type of terminal event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventMouse
	EventResize
	EventInterrupt
)

// Event is a terminal event.
type Event struct {
	Type EventType

	// Key event fields. For KeyRune and KeyControl, Rune holds the
	// character or the control code.
	Key  Key
	Rune rune
	Mod  ModMask

	// Mouse event fields. Buttons is the full button state after the
	// event, not the change.
	MouseX, MouseY int
	Buttons        ButtonMask

	// Resize event fields
	Width, Height int
}

// Key identifies a keyboard key.
type Key int

const (
	KeyNone Key = iota
	KeyRune
	KeyControl
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyInsert
	KeyDelete
	KeyBacktab
	KeyHelp
	KeyPrint
	KeyClear
	KeyF1
)

// MaxFunctionKey is the highest function key a backend reports.
const MaxFunctionKey = 20

// KeyF returns the key for function key n, 1 through MaxFunctionKey.
func KeyF(n int) Key {
	return KeyF1 + Key(n-1)
}

// FunctionKey returns n for the function key Fn, or 0.
func (k Key) FunctionKey() int {
	if k >= KeyF1 && k < KeyF1+MaxFunctionKey {
		return int(k-KeyF1) + 1
	}
	return 0
}

// ModMask represents modifier key state.
type ModMask int

const (
	ModNone  ModMask = 0
	ModShift ModMask = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has returns true if the mask contains the given modifier.
func (m ModMask) Has(mod ModMask) bool {
	return m&mod != 0
}

// ButtonMask is a set of pressed mouse buttons.
type ButtonMask uint8

const (
	ButtonNone ButtonMask = 0
	Button1    ButtonMask = 1 << (iota - 1)
	Button2
	Button3
	WheelUp
	WheelDown
)

// Has reports whether button b is in the mask.
func (m ButtonMask) Has(b ButtonMask) bool {
	return m&b != 0
}

// Backend is a display surface and input source.
type Backend interface {
	// Init prepares the terminal. It must be called before anything else.
	Init() error

	// Shutdown restores the terminal.
	Shutdown()

	// Size returns the screen size in cells.
	Size() (width, height int)

	// SetCell sets one cell. Positions outside the screen are ignored.
	SetCell(x, y int, cell core.Cell)

	// Fill sets every cell in rect.
	Fill(rect core.Rect, cell core.Cell)

	// Clear blanks the screen.
	Clear()

	// Show flushes pending changes to the display.
	Show()

	// PollEvent blocks until the next event. It returns an
	// EventInterrupt event after Shutdown.
	PollEvent() Event

	// PostEvent queues a synthetic event.
	PostEvent(ev Event)

	EnableMouse()
	DisableMouse()
	Beep()
}

// NullBackend is an in-memory backend for tests.
type NullBackend struct {
	width, height int
	cells         [][]core.Cell
	events        chan Event
	mouse         bool
	shows         int
	beeps         int
}

// NewNullBackend creates a null backend with the given dimensions.
func NewNullBackend(width, height int) *NullBackend {
	b := &NullBackend{events: make(chan Event, 100)}
	b.resize(width, height)
	return b
}

func (b *NullBackend) resize(width, height int) {
	b.width, b.height = width, height
	b.cells = make([][]core.Cell, height)
	for y := range b.cells {
		b.cells[y] = make([]core.Cell, width)
		for x := range b.cells[y] {
			b.cells[y][x] = core.EmptyCell()
		}
	}
}

func (b *NullBackend) Init() error { return nil }

func (b *NullBackend) Shutdown() {
	b.PostEvent(Event{Type: EventInterrupt})
}

func (b *NullBackend) Size() (int, int) {
	return b.width, b.height
}

func (b *NullBackend) SetCell(x, y int, cell core.Cell) {
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		b.cells[y][x] = cell
	}
}

// Cell returns the cell at (x, y), or an empty cell off screen.
func (b *NullBackend) Cell(x, y int) core.Cell {
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		return b.cells[y][x]
	}
	return core.EmptyCell()
}

// Line returns the runes of row y.
func (b *NullBackend) Line(y int) string {
	if y < 0 || y >= b.height {
		return ""
	}
	rs := make([]rune, b.width)
	for x, c := range b.cells[y] {
		rs[x] = c.Rune
	}
	return string(rs)
}

func (b *NullBackend) Fill(rect core.Rect, cell core.Cell) {
	rect = rect.Intersect(core.RectFromSize(0, 0, b.width, b.height))
	for y := rect.Top; y < rect.Bottom; y++ {
		for x := rect.Left; x < rect.Right; x++ {
			b.cells[y][x] = cell
		}
	}
}

func (b *NullBackend) Clear() {
	b.Fill(core.RectFromSize(0, 0, b.width, b.height), core.EmptyCell())
}

func (b *NullBackend) Show() { b.shows++ }

// Shows returns how many times Show was called.
func (b *NullBackend) Shows() int { return b.shows }

func (b *NullBackend) PollEvent() Event {
	return <-b.events
}

func (b *NullBackend) PostEvent(ev Event) {
	select {
	case b.events <- ev:
	default:
		// Dropped when the queue is full.
	}
}

func (b *NullBackend) EnableMouse()  { b.mouse = true }
func (b *NullBackend) DisableMouse() { b.mouse = false }
func (b *NullBackend) Beep()         { b.beeps++ }

// MouseEnabled reports whether mouse reporting is on.
func (b *NullBackend) MouseEnabled() bool { return b.mouse }

// Beeps returns how many times Beep was called.
func (b *NullBackend) Beeps() int { return b.beeps }

// Resize simulates a terminal resize and queues the resize event.
func (b *NullBackend) Resize(width, height int) {
	b.resize(width, height)
	b.PostEvent(Event{Type: EventResize, Width: width, Height: height})
}
