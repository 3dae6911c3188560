package keymap

import (
	"strconv"
	"strings"

	"github.com/dshills/termtk/internal/event"
)

// unknownField is substituted for escapes that do not apply to the event.
const unknownField = "??"

// expand substitutes the % escapes of command against ev.
func (t *Table) expand(command string, ev event.Event) string {
	if !strings.ContainsRune(command, '%') {
		return command
	}
	var sb strings.Builder
	sb.Grow(len(command) + 16)
	for i := 0; i < len(command); i++ {
		c := command[i]
		if c != '%' || i+1 == len(command) {
			sb.WriteByte(c)
			continue
		}
		i++
		sb.WriteString(t.field(command[i], ev))
	}
	return sb.String()
}

// field returns the substitution for escape c.
func (t *Table) field(c byte, ev event.Event) string {
	switch c {
	case 'k':
		if k, ok := ev.(event.Key); ok {
			return strconv.Itoa(k.Code)
		}
	case 'N':
		if k, ok := ev.(event.Key); ok {
			return strconv.Itoa(k.Code)
		}
	case 'K':
		if k, ok := ev.(event.Key); ok {
			if name, ok := t.keys.Name(k.Code); ok {
				return t.quote(name)
			}
		}
	case 'A':
		switch e := ev.(type) {
		case event.Key:
			if e.Code < 0x100 {
				return t.quote(string(rune(e.Code)))
			}
			return t.quote("")
		case event.Barcode:
			return t.quote(e.Data)
		}
	case 'W':
		if t.path != nil {
			if p, ok := t.path(ev.Target()); ok {
				return t.quote(p)
			}
		}
	case 'b':
		if b, ok := button(ev); ok {
			return strconv.Itoa(b)
		}
	case 'x', 'y', 'X', 'Y':
		if x, y, rx, ry, ok := coords(ev); ok {
			switch c {
			case 'x':
				return strconv.Itoa(x)
			case 'y':
				return strconv.Itoa(y)
			case 'X':
				return strconv.Itoa(rx)
			default:
				return strconv.Itoa(ry)
			}
		}
	default:
		return string(c)
	}
	return t.quote(unknownField)
}

func (t *Table) quote(s string) string {
	if t.interp == nil {
		return s
	}
	return t.interp.Quote(s)
}

func button(ev event.Event) (int, bool) {
	switch e := ev.(type) {
	case event.ButtonPress:
		return e.Button, true
	case event.ButtonRelease:
		return e.Button, true
	}
	return 0, false
}

func coords(ev event.Event) (x, y, rx, ry int, ok bool) {
	switch e := ev.(type) {
	case event.ButtonPress:
		return e.X, e.Y, e.RootX, e.RootY, true
	case event.ButtonRelease:
		return e.X, e.Y, e.RootX, e.RootY, true
	}
	return 0, 0, 0, 0, false
}
