package keymap

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/termtk/internal/event"
	"github.com/dshills/termtk/internal/input/key"
)

// recorder is an Interpreter that records every script it evaluates.
type recorder struct {
	scripts []string
	codes   map[string]Code
	result  string
}

func (r *recorder) Eval(script string) (Code, error) {
	r.scripts = append(r.scripts, script)
	r.result = "result of " + script
	code := r.codes[script]
	if code == CodeError {
		return code, errors.New("failed: " + script)
	}
	return code, nil
}

func (r *recorder) Quote(s string) string { return strconv.Quote(s) }
func (r *recorder) Result() string        { return r.result }
func (r *recorder) SetResult(s string)    { r.result = s }

func (r *recorder) take() []string {
	s := r.scripts
	r.scripts = nil
	return s
}

func newTestTable(opts ...Option) (*Table, *recorder) {
	rec := &recorder{}
	return NewTable(key.NewRegistry(), rec, opts...), rec
}

func mustBind(t *testing.T, tbl *Table, object, spec, command string) {
	t.Helper()
	if err := tbl.Bind(object, spec, command); err != nil {
		t.Fatalf("Bind(%q, %q) error = %v", object, spec, err)
	}
}

func keyEv(code int) event.Event {
	return event.Key{Window: 1, Code: code}
}

func TestBindEventLongestMatch(t *testing.T) {
	tbl, rec := newTestTable()
	mustBind(t, tbl, "w", "a", "single")
	mustBind(t, tbl, "w", "aa", "double")

	tbl.BindEvent(keyEv('a'), []string{"w"})
	if diff := cmp.Diff([]string{"single"}, rec.take()); diff != "" {
		t.Errorf("first a (-want +got):\n%s", diff)
	}

	tbl.BindEvent(keyEv('a'), []string{"w"})
	if diff := cmp.Diff([]string{"double"}, rec.take()); diff != "" {
		t.Errorf("second a (-want +got):\n%s", diff)
	}
}

func TestBindEventSpecificity(t *testing.T) {
	tbl, rec := newTestTable()
	mustBind(t, tbl, "w", "<Key>", "any")
	mustBind(t, tbl, "w", "<Key-x>", "exact")

	tbl.BindEvent(keyEv('x'), []string{"w"})
	if diff := cmp.Diff([]string{"exact"}, rec.take()); diff != "" {
		t.Errorf("x (-want +got):\n%s", diff)
	}

	tbl.BindEvent(keyEv('y'), []string{"w"})
	if diff := cmp.Diff([]string{"any"}, rec.take()); diff != "" {
		t.Errorf("y (-want +got):\n%s", diff)
	}
}

func TestBindEventPairwiseSpecificity(t *testing.T) {
	tbl, rec := newTestTable()
	mustBind(t, tbl, "w", "ax", "exact-exact")
	mustBind(t, tbl, "w", "<Key>x", "any-exact")
	mustBind(t, tbl, "w", "<Control>x", "control-exact")

	tbl.BindEvent(keyEv('a'), []string{"w"})
	tbl.BindEvent(keyEv('x'), []string{"w"})
	if diff := cmp.Diff([]string{"exact-exact"}, rec.take()); diff != "" {
		t.Errorf("a x (-want +got):\n%s", diff)
	}

	tbl.BindEvent(keyEv(0x02), []string{"w"})
	tbl.BindEvent(keyEv('x'), []string{"w"})
	if diff := cmp.Diff([]string{"control-exact"}, rec.take()); diff != "" {
		t.Errorf("^B x (-want +got):\n%s", diff)
	}

	tbl.BindEvent(keyEv('q'), []string{"w"})
	tbl.BindEvent(keyEv('x'), []string{"w"})
	if diff := cmp.Diff([]string{"any-exact"}, rec.take()); diff != "" {
		t.Errorf("q x (-want +got):\n%s", diff)
	}
}

func TestBindEventTieGoesToNewest(t *testing.T) {
	tbl, rec := newTestTable()
	mustBind(t, tbl, "w", "<Expose>x", "expose")
	mustBind(t, tbl, "w", "<Map>x", "map")

	tbl.BindEvent(event.Map{Window: 1}, nil)
	tbl.BindEvent(event.Expose{Window: 1}, nil)
	tbl.BindEvent(keyEv('x'), []string{"w"})
	if diff := cmp.Diff([]string{"map"}, rec.take()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestBindEventControlFolding(t *testing.T) {
	tbl, rec := newTestTable()
	mustBind(t, tbl, "w", "<Control-a>", "ctrl-a")

	tbl.BindEvent(keyEv('a'), []string{"w"})
	if got := rec.take(); len(got) != 0 {
		t.Errorf("plain a ran %v", got)
	}

	tbl.BindEvent(keyEv(0x01), []string{"w"})
	if diff := cmp.Diff([]string{"ctrl-a"}, rec.take()); diff != "" {
		t.Errorf("0x01 (-want +got):\n%s", diff)
	}
}

func TestBindEventControlWildcard(t *testing.T) {
	tbl, rec := newTestTable()
	mustBind(t, tbl, "w", "<Control>", "control")
	mustBind(t, tbl, "w", "<Key>", "any")

	tbl.BindEvent(keyEv(0x05), []string{"w"})
	tbl.BindEvent(keyEv('e'), []string{"w"})
	if diff := cmp.Diff([]string{"control", "any"}, rec.take()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestBindEventFallbackOnlyWithoutMatch(t *testing.T) {
	tbl, rec := newTestTable()
	mustBind(t, tbl, "w", "ax", "ax")
	mustBind(t, tbl, "w", "<Key>", "any")

	tbl.BindEvent(keyEv('x'), []string{"w"})
	if diff := cmp.Diff([]string{"any"}, rec.take()); diff != "" {
		t.Errorf("lone x (-want +got):\n%s", diff)
	}

	tbl.BindEvent(keyEv('a'), []string{"w"})
	tbl.BindEvent(keyEv('x'), []string{"w"})
	if diff := cmp.Diff([]string{"any", "ax"}, rec.take()); diff != "" {
		t.Errorf("a x (-want +got):\n%s", diff)
	}
}

func TestBindEventRingCapacity(t *testing.T) {
	tests := []struct {
		ring int
		want []string
	}{
		{ring: 3, want: nil},
		{ring: 4, want: []string{"four"}},
	}
	for _, tt := range tests {
		tbl, rec := newTestTable(WithRingSize(tt.ring))
		mustBind(t, tbl, "w", "abcd", "four")

		for _, c := range "abcd" {
			tbl.BindEvent(keyEv(int(c)), []string{"w"})
		}
		if diff := cmp.Diff(tt.want, rec.take()); diff != "" {
			t.Errorf("ring %d (-want +got):\n%s", tt.ring, diff)
		}
	}
}

func TestBindEventSkipsNoise(t *testing.T) {
	tbl, rec := newTestTable()
	mustBind(t, tbl, "w", "<1><1>", "double-click")
	mustBind(t, tbl, "w", "ab", "ab")

	press := event.ButtonPress{Window: 1, Button: 1}
	tbl.BindEvent(press, []string{"w"})
	tbl.BindEvent(event.ButtonRelease{Window: 1, Button: 1}, []string{"w"})
	tbl.BindEvent(press, []string{"w"})
	if diff := cmp.Diff([]string{"double-click"}, rec.take()); diff != "" {
		t.Errorf("click click (-want +got):\n%s", diff)
	}

	tbl.BindEvent(keyEv('a'), []string{"w"})
	tbl.BindEvent(event.Expose{Window: 1}, []string{"w"})
	tbl.BindEvent(event.FocusOut{Window: 2}, []string{"w"})
	tbl.BindEvent(keyEv('b'), []string{"w"})
	if diff := cmp.Diff([]string{"ab"}, rec.take()); diff != "" {
		t.Errorf("a <noise> b (-want +got):\n%s", diff)
	}

	tbl.BindEvent(keyEv('a'), []string{"w"})
	tbl.BindEvent(press, []string{"w"})
	tbl.BindEvent(keyEv('b'), []string{"w"})
	if got := rec.take(); len(got) != 0 {
		t.Errorf("a <press> b ran %v", got)
	}
}

func TestBindEventWindowMustMatch(t *testing.T) {
	tbl, rec := newTestTable()
	mustBind(t, tbl, "all", "ab", "ab")

	tbl.BindEvent(event.Key{Window: 1, Code: 'a'}, []string{"all"})
	tbl.BindEvent(event.Key{Window: 2, Code: 'b'}, []string{"all"})
	if got := rec.take(); len(got) != 0 {
		t.Errorf("ran %v across windows", got)
	}
}

func TestBindEventObjectOrderAndOutcomes(t *testing.T) {
	tests := []struct {
		name      string
		codes     map[string]Code
		wantRun   []string
		wantError bool
	}{
		{
			name:    "all ok",
			wantRun: []string{"one", "two", "three"},
		},
		{
			name:    "continue proceeds",
			codes:   map[string]Code{"one": CodeContinue},
			wantRun: []string{"one", "two", "three"},
		},
		{
			name:    "break stops",
			codes:   map[string]Code{"two": CodeBreak},
			wantRun: []string{"one", "two"},
		},
		{
			name:      "error stops and reports",
			codes:     map[string]Code{"one": CodeError},
			wantRun:   []string{"one"},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var reported []error
			tbl, rec := newTestTable(WithErrorHandler(func(err error) {
				reported = append(reported, err)
			}))
			rec.codes = tt.codes
			rec.result = "before"
			mustBind(t, tbl, ".a", "x", "one")
			mustBind(t, tbl, "Label", "x", "two")
			mustBind(t, tbl, "all", "<Key>", "three")

			n := tbl.BindEvent(keyEv('x'), []string{".a", "Label", "all"})
			if n != 3 {
				t.Errorf("BindEvent queued %d, want 3", n)
			}
			if diff := cmp.Diff(tt.wantRun, rec.scripts); diff != "" {
				t.Errorf("scripts (-want +got):\n%s", diff)
			}
			if got := len(reported) == 1; got != tt.wantError {
				t.Errorf("errors reported = %v, want error %v", reported, tt.wantError)
			}
			if rec.result != "before" {
				t.Errorf("result = %q, want it restored to %q", rec.result, "before")
			}
		})
	}
}

func TestBindEventCommandMutatesTable(t *testing.T) {
	tbl, rec := newTestTable()
	mustBind(t, tbl, "a", "x", "first")
	mustBind(t, tbl, "b", "x", "second")

	// Unbinding inside a command must not disturb the queued scripts.
	tbl.interp = interpFunc(func(s string) (Code, error) {
		if s == "first" {
			tbl.DeleteAll("b")
		}
		return rec.Eval(s)
	}, rec)

	tbl.BindEvent(keyEv('x'), []string{"a", "b"})
	if diff := cmp.Diff([]string{"first", "second"}, rec.take()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if got := tbl.Sequences("b"); len(got) != 0 {
		t.Errorf("Sequences(b) = %v after DeleteAll", got)
	}
}

type wrapped struct {
	eval func(string) (Code, error)
	*recorder
}

func (w wrapped) Eval(s string) (Code, error) { return w.eval(s) }

func interpFunc(fn func(string) (Code, error), r *recorder) Interpreter {
	return wrapped{eval: fn, recorder: r}
}

func TestExpand(t *testing.T) {
	paths := map[event.WindowID]string{1: ".top.b"}
	tbl, _ := newTestTable(WithPathFunc(func(id event.WindowID) (string, bool) {
		p, ok := paths[id]
		return p, ok
	}))

	tests := []struct {
		name    string
		command string
		ev      event.Event
		want    string
	}{
		{
			name:    "no escapes",
			command: "plain()",
			ev:      keyEv('a'),
			want:    "plain()",
		},
		{
			name:    "key fields",
			command: "k=%k K=%K A=%A N=%N W=%W",
			ev:      keyEv('a'),
			want:    `k=97 K="a" A="a" N=97 W=".top.b"`,
		},
		{
			name:    "special key",
			command: "%K %A",
			ev:      keyEv(key.Up),
			want:    `"Up" ""`,
		},
		{
			name:    "inapplicable on key",
			command: "%x %y %X %Y %b",
			ev:      keyEv('a'),
			want:    `"??" "??" "??" "??" "??"`,
		},
		{
			name:    "button fields",
			command: "%b %x,%y %X,%Y %k",
			ev:      event.ButtonPress{Window: 1, Button: 2, X: 3, Y: 4, RootX: 13, RootY: 14},
			want:    `2 3,4 13,14 "??"`,
		},
		{
			name:    "barcode",
			command: "scan(%A)",
			ev:      event.Barcode{Window: 1, Data: `12"34`},
			want:    `scan("12\"34")`,
		},
		{
			name:    "unknown window",
			command: "%W",
			ev:      event.Key{Window: 9, Code: 'a'},
			want:    `"??"`,
		},
		{
			name:    "literal escapes",
			command: "100%% %q %",
			ev:      keyEv('a'),
			want:    "100% q %",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tbl.expand(tt.command, tt.ev); got != tt.want {
				t.Errorf("expand(%q) = %q, want %q", tt.command, got, tt.want)
			}
		})
	}
}

func TestBindReuseAndAppend(t *testing.T) {
	tbl, _ := newTestTable()
	mustBind(t, tbl, "w", "<Key-a>", "one")
	mustBind(t, tbl, "w", "a", "two")

	if tbl.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 (identical sequences share one entry)", tbl.Len())
	}
	if cmd, _ := tbl.Command("w", "a"); cmd != "two" {
		t.Errorf("Command = %q, want %q", cmd, "two")
	}

	if err := tbl.AppendBinding("w", "a", "three"); err != nil {
		t.Fatal(err)
	}
	if cmd, _ := tbl.Command("w", "a"); cmd != "two\nthree" {
		t.Errorf("Command after append = %q", cmd)
	}

	if err := tbl.AppendBinding("w", "b", "fresh"); err != nil {
		t.Fatal(err)
	}
	if cmd, _ := tbl.Command("w", "b"); cmd != "fresh" {
		t.Errorf("Command(b) = %q, want %q", cmd, "fresh")
	}
}

func TestBindParseErrorLeavesNoState(t *testing.T) {
	tbl, _ := newTestTable()
	err := tbl.Bind("w", "a<Bogus>", "cmd")
	if !errors.Is(err, ErrUnknownEvent) {
		t.Fatalf("Bind error = %v, want ErrUnknownEvent", err)
	}
	if tbl.Len() != 0 || len(tbl.Objects()) != 0 {
		t.Errorf("table not empty after failed bind: %d sequences", tbl.Len())
	}
}

func TestUnbind(t *testing.T) {
	tbl, _ := newTestTable()
	mustBind(t, tbl, "w", "a", "one")
	mustBind(t, tbl, "w", "ba", "two")

	ok, err := tbl.Unbind("w", "a")
	if err != nil || !ok {
		t.Fatalf("Unbind(a) = %v, %v", ok, err)
	}
	if _, ok := tbl.Command("w", "a"); ok {
		t.Error("a still bound")
	}
	if _, ok := tbl.Command("w", "ba"); !ok {
		t.Error("ba lost when a was unbound")
	}

	ok, err = tbl.Unbind("w", "a")
	if err != nil || ok {
		t.Errorf("second Unbind(a) = %v, %v, want false, nil", ok, err)
	}
	if _, err := tbl.Unbind("w", "<"); !errors.Is(err, ErrMissingBracket) {
		t.Errorf("Unbind(<) error = %v", err)
	}

	mustBind(t, tbl, "w", "ba", "")
	if tbl.Len() != 0 {
		t.Errorf("Len() = %d after binding empty command, want 0", tbl.Len())
	}
	if len(tbl.patterns) != 0 || len(tbl.objects) != 0 {
		t.Errorf("empty buckets left behind: %v %v", tbl.patterns, tbl.objects)
	}
}

func TestSequencesAndDeleteAll(t *testing.T) {
	tbl, _ := newTestTable()
	mustBind(t, tbl, ".a", "<Key-Return>", "r")
	mustBind(t, tbl, ".a", "<1>", "b")
	mustBind(t, tbl, ".b", "x", "x")

	want := []string{"<ButtonPress-1>", "<Control-m>"}
	if diff := cmp.Diff(want, tbl.Sequences(".a")); diff != "" {
		t.Errorf("Sequences(.a) (-want +got):\n%s", diff)
	}
	if got := tbl.Sequences(".missing"); len(got) != 0 {
		t.Errorf("Sequences(.missing) = %v", got)
	}
	for _, s := range tbl.Sequences(".a") {
		if _, ok := tbl.Command(".a", s); !ok {
			t.Errorf("Command(.a, %q) not found from canonical form", s)
		}
	}

	tbl.DeleteAll(".a")
	if diff := cmp.Diff([]string{".b"}, tbl.Objects()); diff != "" {
		t.Errorf("Objects() (-want +got):\n%s", diff)
	}

	tbl.BindEvent(keyEv('x'), nil)
	tbl.Reset()
	if tbl.Len() != 0 || tbl.Ring().Len() != 0 {
		t.Errorf("Reset left %d sequences, %d events", tbl.Len(), tbl.Ring().Len())
	}
}

func TestLoaderFormats(t *testing.T) {
	yamlDoc := `
bindings:
  - object: all
    sequence: "<Control-q>"
    command: quit()
  - object: .main
    sequence: ab
    command: second()
    append: true
`
	tomlDoc := `
[[bind]]
object = "all"
sequence = "<Control-q>"
command = "quit()"

[[bind]]
object = ".main"
sequence = "ab"
command = "second()"
append = true
`
	want := []Binding{
		{Object: "all", Sequence: "<Control-q>", Command: "quit()"},
		{Object: ".main", Sequence: "ab", Command: "second()", Append: true},
	}

	l := NewLoader()
	for _, tc := range []struct {
		format Format
		doc    string
	}{{FormatYAML, yamlDoc}, {FormatTOML, tomlDoc}} {
		got, err := l.LoadReader(strings.NewReader(tc.doc), tc.format)
		if err != nil {
			t.Fatalf("LoadReader(%s) error = %v", tc.format, err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("LoadReader(%s) (-want +got):\n%s", tc.format, diff)
		}
	}

	if _, err := l.LoadReader(strings.NewReader("bindings:\n  - command: x\n"), FormatYAML); err == nil {
		t.Error("missing object and sequence should fail")
	}
	if got, err := l.LoadReader(strings.NewReader(""), FormatYAML); err != nil || len(got) != 0 {
		t.Errorf("empty YAML = %v, %v", got, err)
	}
}

func TestApply(t *testing.T) {
	tbl, _ := newTestTable()
	err := Apply(tbl, []Binding{
		{Object: "all", Sequence: "a", Command: "one"},
		{Object: "all", Sequence: "<Nope>", Command: "bad"},
		{Object: "all", Sequence: "a", Command: "two", Append: true},
	})
	if !errors.Is(err, ErrUnknownEvent) {
		t.Errorf("Apply error = %v, want ErrUnknownEvent", err)
	}
	if cmd, _ := tbl.Command("all", "a"); cmd != "one\ntwo" {
		t.Errorf("Command = %q", cmd)
	}

	if err := Apply(tbl, Defaults()); err != nil {
		t.Errorf("Apply(Defaults()) error = %v", err)
	}
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path string
		want Format
		ok   bool
	}{
		{"keys.yaml", FormatYAML, true},
		{"keys.YML", FormatYAML, true},
		{"/etc/termtk/keys.toml", FormatTOML, true},
		{"keys.json", "", false},
	}
	for _, tt := range tests {
		got, ok := FormatOf(tt.path)
		if got != tt.want || ok != tt.ok {
			t.Errorf("FormatOf(%q) = %q, %v, want %q, %v", tt.path, got, ok, tt.want, tt.ok)
		}
	}
}
