package keymap

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/termtk/internal/event"
	"github.com/dshills/termtk/internal/input/key"
)

func newTestParser() *Parser {
	return NewParser(key.NewRegistry())
}

func TestParse(t *testing.T) {
	tests := []struct {
		spec string
		want []Pattern
	}{
		{"a", []Pattern{{event.TypeKey, 'a'}}},
		{"ab", []Pattern{{event.TypeKey, 'b'}, {event.TypeKey, 'a'}}},
		{"a b", []Pattern{{event.TypeKey, 'b'}, {event.TypeKey, 'a'}}},
		{"<Key>", []Pattern{{event.TypeKey, DetailAny}}},
		{"<KeyPress-x>", []Pattern{{event.TypeKey, 'x'}}},
		{"<Key-Return>", []Pattern{{event.TypeKey, key.Return}}},
		{"<Key Return>", []Pattern{{event.TypeKey, key.Return}}},
		{"<Return>", []Pattern{{event.TypeKey, key.Return}}},
		{"<space>", []Pattern{{event.TypeKey, ' '}}},
		{"<Key-less>", []Pattern{{event.TypeKey, '<'}}},
		{"<F5>", []Pattern{{event.TypeKey, key.F(5)}}},
		{"<Next>", []Pattern{{event.TypeKey, key.NextPage}}},
		{"<Control-a>", []Pattern{{event.TypeKey, 0x01}}},
		{"<Control-A>", []Pattern{{event.TypeKey, 0x01}}},
		{"<Control-bracketleft>", []Pattern{{event.TypeKey, 0x1b}}},
		{"<Control-underscore>", []Pattern{{event.TypeKey, 0x1f}}},
		{"<Control>", []Pattern{{event.TypeKey, DetailControl}}},
		{"<1>", []Pattern{{event.TypeButtonPress, 1}}},
		{"<Button>", []Pattern{{event.TypeButtonPress, DetailAny}}},
		{"<ButtonPress-3>", []Pattern{{event.TypeButtonPress, 3}}},
		{"<ButtonRelease-2>", []Pattern{{event.TypeButtonRelease, 2}}},
		{"<Expose>", []Pattern{{event.TypeExpose, 0}}},
		{"<Configure>", []Pattern{{event.TypeConfigure, 0}}},
		{"<Barcode>", []Pattern{{event.TypeBarcode, 0}}},
		{"<Escape>q", []Pattern{{event.TypeKey, 'q'}, {event.TypeKey, key.Escape}}},
		{"<1><1>", []Pattern{{event.TypeButtonPress, 1}, {event.TypeButtonPress, 1}}},
		{"<FocusIn><Key-Tab>", []Pattern{{event.TypeKey, key.Tab}, {event.TypeFocusIn, 0}}},
	}

	p := newTestParser()
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := p.Parse(tt.spec)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.spec, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.spec, diff)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		spec string
		want error
	}{
		{"", ErrNoEvents},
		{"   ", ErrNoEvents},
		{"<Key-a", ErrMissingBracket},
		{"a<", ErrMissingBracket},
		{"<Bogus>", ErrUnknownEvent},
		{"<Bogus-a>", ErrUnknownEvent},
		{"<Key-nosuchkey>", ErrUnknownKeysym},
		{"<ButtonPress-x>", ErrUnknownKeysym},
		{"<Expose-a>", ErrDetailNotAllowed},
		{"<Destroy-1>", ErrDetailNotAllowed},
		{"<Control-at>", ErrBadControl},
		{"<Control-F1>", ErrBadControl},
		{"<Control-space>", ErrBadControl},
		{"\x01", ErrUnknownKeysym},
	}

	p := newTestParser()
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			_, err := p.Parse(tt.spec)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Parse(%q) error = %v, want %v", tt.spec, err, tt.want)
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("Parse(%q) error type = %T, want *ParseError", tt.spec, err)
			}
			if perr.Spec != tt.spec {
				t.Errorf("ParseError.Spec = %q, want %q", perr.Spec, tt.spec)
			}
		})
	}
}

func TestFormatRoundTrip(t *testing.T) {
	specs := []string{
		"a",
		"hello",
		"<Key>",
		"<Key-Return>",
		"<space>x<space>",
		"<Key-less>",
		"<Key-greater>",
		"<Control-a>",
		"<Control-z>",
		"<Control-bracketleft>",
		"<Control-backslash>",
		"<Control-bracketright>",
		"<Control-asciicircum>",
		"<Control-underscore>",
		"<Control>",
		"<Tab>",
		"<BackSpace>",
		"<Delete>",
		"<F1><F20>",
		"<Prior><Next>",
		"<Key-Erase>",
		"<1>",
		"<Button>",
		"<ButtonRelease>",
		"<ButtonRelease-3>",
		"<Expose><Map><Unmap><Configure>",
		"<FocusIn><FocusOut><Destroy><Barcode>",
		"<Escape>:wq<Return>",
	}

	p := newTestParser()
	for _, spec := range specs {
		t.Run(spec, func(t *testing.T) {
			first, err := p.Parse(spec)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", spec, err)
			}
			canon := p.Format(first)
			second, err := p.Parse(canon)
			if err != nil {
				t.Fatalf("Parse(Format(%q) = %q) error = %v", spec, canon, err)
			}
			if diff := cmp.Diff(first, second); diff != "" {
				t.Errorf("round trip %q -> %q mismatch (-first +second):\n%s", spec, canon, diff)
			}
			if again := p.Format(second); again != canon {
				t.Errorf("Format not stable: %q then %q", canon, again)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		spec string
		want string
	}{
		{"<Key-a>", "a"},
		{"<Key-Tab>", "<Control-i>"},
		{"<Return>", "<Control-m>"},
		{"<space>", "<Key-space>"},
		{"<1>", "<ButtonPress-1>"},
		{"<Key-Up>", "<Key-Up>"},
		{"<Key-Insert>", "<Key-InsertChar>"},
	}

	p := newTestParser()
	for _, tt := range tests {
		pats, err := p.Parse(tt.spec)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", tt.spec, err)
		}
		if got := p.Format(pats); got != tt.want {
			t.Errorf("Format(Parse(%q)) = %q, want %q", tt.spec, got, tt.want)
		}
	}
}

func TestRing(t *testing.T) {
	r := NewRing(3)
	if _, _, ok := r.At(0); ok {
		t.Fatal("At(0) on empty ring should fail")
	}

	for i := 1; i <= 5; i++ {
		r.Append(event.Key{Window: 1, Code: '0' + i})
	}
	if r.Len() != 3 {
		t.Errorf("Len() = %d, want 3", r.Len())
	}
	for back, want := range []int{'5', '4', '3'} {
		_, detail, ok := r.At(back)
		if !ok || detail != want {
			t.Errorf("At(%d) = %q, %v, want %q", back, detail, ok, want)
		}
	}
	if _, _, ok := r.At(3); ok {
		t.Error("At(3) should be past the remembered history")
	}

	r.Clear()
	if r.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", r.Len())
	}
}
