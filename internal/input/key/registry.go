package key

import (
	"fmt"
	"sort"
)

// Registry maps keysym names to key codes and back.
//
// A code may have several names (aliases); Name returns the primary one,
// which is the first registered.
type Registry struct {
	byName map[string]int
	byCode map[int]string
}

// NewRegistry creates a registry holding the standard keysym table.
func NewRegistry() *Registry {
	r := &Registry{
		byName: make(map[string]int, 256),
		byCode: make(map[int]string, 160),
	}
	for _, e := range standardKeysyms {
		r.add(e.name, e.code)
	}
	for c := 0; c < 0x20; c++ {
		r.add("Control-"+controlSuffix(c), c)
	}
	for n := 1; n <= MaxFunctionKey; n++ {
		r.add(fmt.Sprintf("F%d", n), F(n))
	}
	return r
}

func (r *Registry) add(name string, code int) {
	if _, ok := r.byName[name]; !ok {
		r.byName[name] = code
	}
	if _, ok := r.byCode[code]; !ok {
		r.byCode[code] = name
	}
}

// Lookup returns the key code for a keysym name.
func (r *Registry) Lookup(name string) (int, bool) {
	code, ok := r.byName[name]
	return code, ok
}

// Name returns the primary keysym name for a key code.
func (r *Registry) Name(code int) (string, bool) {
	name, ok := r.byCode[code]
	return name, ok
}

// Names returns every registered keysym name, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered names, aliases included.
func (r *Registry) Len() int {
	return len(r.byName)
}

// controlSuffix names the key that produces control character c when
// combined with Control: "a" for 0x01, "bracketleft" for 0x1b.
func controlSuffix(c int) string {
	base := ControlBase(c)
	for _, e := range standardKeysyms {
		if e.code == base {
			return e.name
		}
	}
	return string(rune(base))
}

type keysym struct {
	name string
	code int
}

// standardKeysyms lists primary names before aliases.
var standardKeysyms = []keysym{
	{"BackSpace", 0x08},
	{"Tab", Tab},
	{"Linefeed", Linefeed},
	{"Return", Return},
	{"Escape", Escape},
	{"space", 0x20},
	{"exclam", '!'},
	{"quotedbl", '"'},
	{"numbersign", '#'},
	{"dollar", '$'},
	{"percent", '%'},
	{"ampersand", '&'},
	{"apostrophe", '\''},
	{"quoteright", '\''},
	{"parenleft", '('},
	{"parenright", ')'},
	{"asterisk", '*'},
	{"plus", '+'},
	{"comma", ','},
	{"minus", '-'},
	{"period", '.'},
	{"slash", '/'},
	{"0", '0'}, {"1", '1'}, {"2", '2'}, {"3", '3'}, {"4", '4'},
	{"5", '5'}, {"6", '6'}, {"7", '7'}, {"8", '8'}, {"9", '9'},
	{"colon", ':'},
	{"semicolon", ';'},
	{"less", '<'},
	{"equal", '='},
	{"greater", '>'},
	{"question", '?'},
	{"at", '@'},
	{"A", 'A'}, {"B", 'B'}, {"C", 'C'}, {"D", 'D'}, {"E", 'E'}, {"F", 'F'},
	{"G", 'G'}, {"H", 'H'}, {"I", 'I'}, {"J", 'J'}, {"K", 'K'}, {"L", 'L'},
	{"M", 'M'}, {"N", 'N'}, {"O", 'O'}, {"P", 'P'}, {"Q", 'Q'}, {"R", 'R'},
	{"S", 'S'}, {"T", 'T'}, {"U", 'U'}, {"V", 'V'}, {"W", 'W'}, {"X", 'X'},
	{"Y", 'Y'}, {"Z", 'Z'},
	{"bracketleft", '['},
	{"backslash", '\\'},
	{"bracketright", ']'},
	{"asciicircum", '^'},
	{"underscore", '_'},
	{"grave", '`'},
	{"quoteleft", '`'},
	{"a", 'a'}, {"b", 'b'}, {"c", 'c'}, {"d", 'd'}, {"e", 'e'}, {"f", 'f'},
	{"g", 'g'}, {"h", 'h'}, {"i", 'i'}, {"j", 'j'}, {"k", 'k'}, {"l", 'l'},
	{"m", 'm'}, {"n", 'n'}, {"o", 'o'}, {"p", 'p'}, {"q", 'q'}, {"r", 'r'},
	{"s", 's'}, {"t", 't'}, {"u", 'u'}, {"v", 'v'}, {"w", 'w'}, {"x", 'x'},
	{"y", 'y'}, {"z", 'z'},
	{"braceleft", '{'},
	{"bar", '|'},
	{"braceright", '}'},
	{"asciitilde", '~'},
	{"Delete", Delete},

	{"Break", Break},
	{"Down", Down},
	{"Up", Up},
	{"Left", Left},
	{"Right", Right},
	{"Home", Home},
	{"DeleteLine", DeleteLine},
	{"InsertLine", InsertLine},
	{"DeleteChar", DeleteChar},
	{"InsertChar", InsertChar},
	{"Insert", InsertChar},
	{"Clear", Clear},
	{"Next", NextPage},
	{"Page_Down", NextPage},
	{"Prior", PrevPage},
	{"Page_Up", PrevPage},
	{"KP_Enter", KPEnter},
	{"Print", Print},
	{"BackTab", BackTab},
	{"Begin", Begin},
	{"End", End},
	{"Help", Help},
	{"Select", Select},
	{"Erase", Backspace},
}
