package keymap

import (
	"strconv"
	"strings"

	"github.com/dshills/termtk/internal/event"
	"github.com/dshills/termtk/internal/input/key"
)

// Pattern details with special meaning.
const (
	// DetailAny matches any detail.
	DetailAny = 0
	// DetailControl matches any control character below 0x20.
	DetailControl = -1
)

// Pattern matches a single event.
type Pattern struct {
	Type   event.Type
	Detail int
}

// matches reports whether an event of the pattern's type with the given
// detail satisfies the pattern.
func (p Pattern) matches(detail int) bool {
	switch p.Detail {
	case DetailAny:
		return true
	case DetailControl:
		return detail > 0 && detail < 0x20
	default:
		return p.Detail == detail
	}
}

// specificity ranks details: exact beats control beats any.
func (p Pattern) specificity() int {
	switch p.Detail {
	case DetailAny:
		return 0
	case DetailControl:
		return 1
	default:
		return 2
	}
}

// Parser turns sequence specifications into pattern arrays.
type Parser struct {
	keys *key.Registry
}

// NewParser creates a parser resolving keysyms through keys.
func NewParser(keys *key.Registry) *Parser {
	return &Parser{keys: keys}
}

// Parse parses spec into patterns ordered most recent event first:
// patterns[0] is the last event the sequence names.
func (p *Parser) Parse(spec string) ([]Pattern, error) {
	var pats []Pattern
	i := 0
	for i < len(spec) {
		c := spec[i]
		switch {
		case isSpace(c):
			i++
		case c == '<':
			end := strings.IndexByte(spec[i:], '>')
			if end < 0 {
				return nil, &ParseError{Spec: spec, Pos: i, Err: ErrMissingBracket}
			}
			pat, err := p.parseAngle(spec, i, spec[i+1:i+end])
			if err != nil {
				return nil, err
			}
			pats = append(pats, pat)
			i += end + 1
		case c > 0x20 && c < 0x7f:
			pats = append(pats, Pattern{Type: event.TypeKey, Detail: int(c)})
			i++
		default:
			return nil, &ParseError{Spec: spec, Pos: i, Msg: string(rune(c)), Err: ErrUnknownKeysym}
		}
	}
	if len(pats) == 0 {
		return nil, &ParseError{Spec: spec, Err: ErrNoEvents}
	}
	for l, r := 0, len(pats)-1; l < r; l, r = l+1, r-1 {
		pats[l], pats[r] = pats[r], pats[l]
	}
	return pats, nil
}

// parseAngle parses the body of one <...> item starting at pos.
func (p *Parser) parseAngle(spec string, pos int, body string) (Pattern, error) {
	body = strings.TrimSpace(body)
	name, detail, hasDetail := splitField(body)

	perr := func(err error, msg string) (Pattern, error) {
		return Pattern{}, &ParseError{Spec: spec, Pos: pos, Msg: msg, Err: err}
	}

	if !hasDetail && len(name) == 1 && name[0] >= '1' && name[0] <= '9' {
		return Pattern{Type: event.TypeButtonPress, Detail: int(name[0] - '0')}, nil
	}

	if name == "Control" {
		if !hasDetail {
			return Pattern{Type: event.TypeKey, Detail: DetailControl}, nil
		}
		code, ok := p.keys.Lookup(detail)
		if !ok {
			return perr(ErrUnknownKeysym, detail)
		}
		ctl, ok := key.ControlCode(code)
		if !ok {
			return perr(ErrBadControl, detail)
		}
		return Pattern{Type: event.TypeKey, Detail: ctl}, nil
	}

	typ, ok := event.TypeFromName(name)
	if !ok {
		if hasDetail {
			return perr(ErrUnknownEvent, name)
		}
		code, ok := p.keys.Lookup(name)
		if !ok {
			return perr(ErrUnknownEvent, name)
		}
		if code == 0 {
			return perr(ErrBadControl, name)
		}
		return Pattern{Type: event.TypeKey, Detail: code}, nil
	}

	if !hasDetail {
		return Pattern{Type: typ}, nil
	}
	switch typ {
	case event.TypeKey:
		code, ok := p.keys.Lookup(detail)
		if !ok {
			return perr(ErrUnknownKeysym, detail)
		}
		if code == 0 {
			return perr(ErrBadControl, detail)
		}
		return Pattern{Type: typ, Detail: code}, nil
	case event.TypeButtonPress, event.TypeButtonRelease:
		n, err := strconv.Atoi(detail)
		if err != nil || n <= 0 {
			return perr(ErrUnknownKeysym, detail)
		}
		return Pattern{Type: typ, Detail: n}, nil
	default:
		return perr(ErrDetailNotAllowed, detail)
	}
}

// splitField splits "Name-detail" or "Name detail" at the first separator.
func splitField(body string) (name, detail string, hasDetail bool) {
	i := strings.IndexAny(body, "- ")
	if i < 0 {
		return body, "", false
	}
	detail = strings.TrimSpace(body[i+1:])
	return body[:i], detail, detail != ""
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// Format renders patterns (most recent first) as a canonical specification
// that parses back to the same patterns.
func (p *Parser) Format(pats []Pattern) string {
	var sb strings.Builder
	for i := len(pats) - 1; i >= 0; i-- {
		p.formatOne(&sb, pats[i])
	}
	return sb.String()
}

func (p *Parser) formatOne(sb *strings.Builder, pat Pattern) {
	switch pat.Type {
	case event.TypeKey:
		switch d := pat.Detail; {
		case d == DetailAny:
			sb.WriteString("<Key>")
		case d == DetailControl:
			sb.WriteString("<Control>")
		case key.IsControl(d):
			name, _ := p.keys.Name(key.ControlBase(d))
			sb.WriteString("<Control-" + name + ">")
		case d > 0x20 && d < 0x7f && d != '<':
			sb.WriteByte(byte(d))
		default:
			name, ok := p.keys.Name(d)
			if !ok {
				name = strconv.Itoa(d)
			}
			sb.WriteString("<Key-" + name + ">")
		}
	case event.TypeButtonPress, event.TypeButtonRelease:
		sb.WriteString("<" + pat.Type.String())
		if pat.Detail != DetailAny {
			sb.WriteString("-" + strconv.Itoa(pat.Detail))
		}
		sb.WriteByte('>')
	default:
		sb.WriteString("<" + pat.Type.String() + ">")
	}
}
