package backend

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/termtk/internal/renderer/core"
)

// Terminal implements Backend on a tcell screen.
type Terminal struct {
	screen tcell.Screen
	mu     sync.Mutex
}

// NewTerminal creates a terminal backend for the controlling terminal.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Terminal{screen: screen}, nil
}

func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Init()
}

func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Fini()
}

func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Size()
}

func (t *Terminal) SetCell(x, y int, cell core.Cell) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.SetContent(x, y, cell.Rune, nil, convertStyle(cell.Style))
}

func (t *Terminal) Fill(rect core.Rect, cell core.Cell) {
	t.mu.Lock()
	defer t.mu.Unlock()

	w, h := t.screen.Size()
	rect = rect.Intersect(core.RectFromSize(0, 0, w, h))
	style := convertStyle(cell.Style)
	for y := rect.Top; y < rect.Bottom; y++ {
		for x := rect.Left; x < rect.Right; x++ {
			t.screen.SetContent(x, y, cell.Rune, nil, style)
		}
	}
}

func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Clear()
}

func (t *Terminal) Show() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Show()
}

// PollEvent waits for the next terminal event. Events the toolkit has no
// use for are skipped.
func (t *Terminal) PollEvent() Event {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return Event{Type: EventInterrupt}
		}
		if out := convertEvent(ev); out.Type != EventNone {
			return out
		}
	}
}

func (t *Terminal) PostEvent(ev Event) {
	var tev tcell.Event
	switch ev.Type {
	case EventKey:
		tev = tcell.NewEventKey(convertToTcellKey(ev.Key, ev.Rune), ev.Rune, convertToTcellMod(ev.Mod))
	case EventInterrupt:
		tev = tcell.NewEventInterrupt(nil)
	default:
		return
	}
	_ = t.screen.PostEvent(tev) // best-effort; the queue may be full
}

func (t *Terminal) EnableMouse() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.EnableMouse()
}

func (t *Terminal) DisableMouse() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.DisableMouse()
}

func (t *Terminal) Beep() {
	t.mu.Lock()
	defer t.mu.Unlock()

	_ = t.screen.Beep() // best-effort; the terminal may not support it
}

func convertStyle(s core.Style) tcell.Style {
	style := tcell.StyleDefault
	if !s.Foreground.IsDefault() {
		style = style.Foreground(convertColor(s.Foreground))
	}
	if !s.Background.IsDefault() {
		style = style.Background(convertColor(s.Background))
	}
	a := s.Attributes
	if a.Has(core.AttrBold) {
		style = style.Bold(true)
	}
	if a.Has(core.AttrDim) {
		style = style.Dim(true)
	}
	if a.Has(core.AttrItalic) {
		style = style.Italic(true)
	}
	if a.Has(core.AttrUnderline) {
		style = style.Underline(true)
	}
	if a.Has(core.AttrReverse) {
		style = style.Reverse(true)
	}
	return style
}

func convertColor(c core.Color) tcell.Color {
	if c.Indexed {
		return tcell.PaletteColor(int(c.R))
	}
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func convertEvent(ev tcell.Event) Event {
	switch e := ev.(type) {
	case *tcell.EventKey:
		k, r := convertKey(e.Key(), e.Rune())
		return Event{Type: EventKey, Key: k, Rune: r, Mod: convertMod(e.Modifiers())}

	case *tcell.EventMouse:
		x, y := e.Position()
		return Event{
			Type:    EventMouse,
			MouseX:  x,
			MouseY:  y,
			Buttons: convertButtons(e.Buttons()),
			Mod:     convertMod(e.Modifiers()),
		}

	case *tcell.EventResize:
		w, h := e.Size()
		return Event{Type: EventResize, Width: w, Height: h}

	case *tcell.EventInterrupt:
		return Event{Type: EventInterrupt}

	default:
		return Event{Type: EventNone}
	}
}

var tcellKeys = map[tcell.Key]Key{
	tcell.KeyUp:      KeyUp,
	tcell.KeyDown:    KeyDown,
	tcell.KeyLeft:    KeyLeft,
	tcell.KeyRight:   KeyRight,
	tcell.KeyHome:    KeyHome,
	tcell.KeyEnd:     KeyEnd,
	tcell.KeyPgUp:    KeyPageUp,
	tcell.KeyPgDn:    KeyPageDown,
	tcell.KeyInsert:  KeyInsert,
	tcell.KeyDelete:  KeyDelete,
	tcell.KeyBacktab: KeyBacktab,
	tcell.KeyHelp:    KeyHelp,
	tcell.KeyPrint:   KeyPrint,
	tcell.KeyClear:   KeyClear,
}

// convertKey maps a tcell key. ASCII control keys, tcell's keys below
// 0x80, come back as KeyControl with the code in the rune.
func convertKey(k tcell.Key, r rune) (Key, rune) {
	switch {
	case k == tcell.KeyRune:
		return KeyRune, r
	case k < 0x80:
		return KeyControl, rune(k)
	case k >= tcell.KeyF1 && k < tcell.KeyF1+MaxFunctionKey:
		return KeyF(int(k-tcell.KeyF1) + 1), 0
	}
	if key, ok := tcellKeys[k]; ok {
		return key, 0
	}
	return KeyNone, 0
}

func convertToTcellKey(k Key, r rune) tcell.Key {
	switch k {
	case KeyRune:
		return tcell.KeyRune
	case KeyControl:
		return tcell.Key(r)
	}
	if n := k.FunctionKey(); n > 0 {
		return tcell.KeyF1 + tcell.Key(n-1)
	}
	for tk, key := range tcellKeys {
		if key == k {
			return tk
		}
	}
	return tcell.KeyRune
}

func convertMod(m tcell.ModMask) ModMask {
	var result ModMask
	if m&tcell.ModShift != 0 {
		result |= ModShift
	}
	if m&tcell.ModCtrl != 0 {
		result |= ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		result |= ModAlt
	}
	if m&tcell.ModMeta != 0 {
		result |= ModMeta
	}
	return result
}

func convertToTcellMod(m ModMask) tcell.ModMask {
	var result tcell.ModMask
	if m.Has(ModShift) {
		result |= tcell.ModShift
	}
	if m.Has(ModCtrl) {
		result |= tcell.ModCtrl
	}
	if m.Has(ModAlt) {
		result |= tcell.ModAlt
	}
	if m.Has(ModMeta) {
		result |= tcell.ModMeta
	}
	return result
}

// convertButtons numbers buttons left, middle, right; tcell's Button2 is
// the right button.
func convertButtons(b tcell.ButtonMask) ButtonMask {
	var out ButtonMask
	if b&tcell.Button1 != 0 {
		out |= Button1
	}
	if b&tcell.Button3 != 0 {
		out |= Button2
	}
	if b&tcell.Button2 != 0 {
		out |= Button3
	}
	if b&tcell.WheelUp != 0 {
		out |= WheelUp
	}
	if b&tcell.WheelDown != 0 {
		out |= WheelDown
	}
	return out
}
