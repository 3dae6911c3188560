package input

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/dshills/termtk/internal/event"
	"github.com/dshills/termtk/internal/input/key"
	"github.com/dshills/termtk/internal/loop"
	"github.com/dshills/termtk/internal/renderer/backend"
	"github.com/dshills/termtk/internal/window"
)

type sink struct {
	events []event.Event
}

func (s *sink) Dispatch(ev event.Event) { s.events = append(s.events, ev) }

func (s *sink) take() []event.Event {
	evs := s.events
	s.events = nil
	return evs
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

type fixture struct {
	tree  *window.Tree
	sink  *sink
	clock *fakeClock
	loop  *loop.Loop
	n     *Normalizer
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		tree:  window.NewTree(20, 10),
		sink:  &sink{},
		clock: &fakeClock{t: time.Unix(1000, 0)},
	}
	f.loop = loop.New(loop.WithClock(f.clock.now))
	opts = append([]Option{WithClock(f.clock.now)}, opts...)
	f.n = New(f.tree, f.sink, f.loop, opts...)
	return f
}

func (f *fixture) window(t *testing.T, parent *window.Window, name string, x, y, w, h int) *window.Window {
	t.Helper()
	win, err := f.tree.Create(parent, name, "Frame")
	if err != nil {
		t.Fatal(err)
	}
	win.MoveResize(x, y, w, h)
	win.Map()
	return win
}

func keyEv(k backend.Key, r rune) backend.Event {
	return backend.Event{Type: backend.EventKey, Key: k, Rune: r}
}

func mouseEv(x, y int, b backend.ButtonMask) backend.Event {
	return backend.Event{Type: backend.EventMouse, MouseX: x, MouseY: y, Buttons: b}
}

var ignoreTime = cmpopts.IgnoreFields(event.Key{}, "Time")

func keys(w event.WindowID, codes ...int) []event.Event {
	out := make([]event.Event, len(codes))
	for i, c := range codes {
		out[i] = event.Key{Window: w, Code: c}
	}
	return out
}

func TestKeyCode(t *testing.T) {
	tests := []struct {
		name string
		key  backend.Key
		r    rune
		want int
		ok   bool
	}{
		{"letter", backend.KeyRune, 'a', 'a', true},
		{"non-ascii", backend.KeyRune, 'é', 'é', true},
		{"control", backend.KeyControl, 0x01, 0x01, true},
		{"escape", backend.KeyControl, 0x1b, key.Escape, true},
		{"up", backend.KeyUp, 0, key.Up, true},
		{"page down", backend.KeyPageDown, 0, key.NextPage, true},
		{"page up", backend.KeyPageUp, 0, key.PrevPage, true},
		{"insert", backend.KeyInsert, 0, key.InsertChar, true},
		{"delete", backend.KeyDelete, 0, key.DeleteChar, true},
		{"backtab", backend.KeyBacktab, 0, key.BackTab, true},
		{"f1", backend.KeyF(1), 0, key.F(1), true},
		{"f20", backend.KeyF(20), 0, key.F(20), true},
		{"none", backend.KeyNone, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := KeyCode(tt.key, tt.r)
			if got != tt.want || ok != tt.ok {
				t.Errorf("KeyCode() = %#x, %v, want %#x, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestKeysGoToFocus(t *testing.T) {
	f := newFixture(t)
	root := f.tree.Root().ID()
	f.n.Handle(keyEv(backend.KeyRune, 'x'))

	w := f.window(t, f.tree.Root(), "e", 0, 0, 5, 1)
	f.tree.SetFocus(w)
	f.n.Handle(keyEv(backend.KeyUp, 0))
	f.n.Handle(backend.Event{Type: backend.EventKey, Key: backend.KeyRune, Rune: 'f', Mod: backend.ModAlt})
	f.n.Handle(keyEv(backend.KeyNone, 0))

	want := []event.Event{
		event.Key{Window: root, Code: 'x'},
		event.Key{Window: w.ID(), Code: key.Up},
		event.Key{Window: w.ID(), Code: key.Escape},
		event.Key{Window: w.ID(), Code: 'f'},
	}
	if diff := cmp.Diff(want, f.sink.take(), ignoreTime); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
	if got := f.n.Metrics().Snapshot().Dropped; got != 1 {
		t.Errorf("Dropped = %d, want 1", got)
	}
}

func TestKeyTimestamp(t *testing.T) {
	f := newFixture(t)
	f.n.Handle(keyEv(backend.KeyRune, 'a'))
	evs := f.sink.take()
	if len(evs) != 1 {
		t.Fatalf("got %d events", len(evs))
	}
	if got := evs[0].(event.Key).Time; !got.Equal(f.clock.t) {
		t.Errorf("Time = %v, want %v", got, f.clock.t)
	}
}

func TestMouseGrab(t *testing.T) {
	f := newFixture(t)
	a := f.window(t, f.tree.Root(), "a", 2, 1, 5, 3)
	b := f.window(t, f.tree.Root(), "b", 10, 1, 5, 3)

	f.n.Handle(mouseEv(3, 2, backend.Button1))
	f.n.Handle(mouseEv(11, 2, backend.Button1))
	f.n.Handle(mouseEv(12, 3, backend.ButtonNone))
	f.n.Handle(mouseEv(12, 3, backend.Button3))
	f.n.Handle(mouseEv(12, 3, backend.ButtonNone))

	want := []event.Event{
		event.ButtonPress{Window: a.ID(), Button: 1, X: 1, Y: 1, RootX: 3, RootY: 2},
		event.ButtonRelease{Window: a.ID(), Button: 1, X: 10, Y: 2, RootX: 12, RootY: 3},
		event.ButtonPress{Window: b.ID(), Button: 3, X: 2, Y: 2, RootX: 12, RootY: 3},
		event.ButtonRelease{Window: b.ID(), Button: 3, X: 2, Y: 2, RootX: 12, RootY: 3},
	}
	if diff := cmp.Diff(want, f.sink.take()); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestMouseGrabWindowDestroyed(t *testing.T) {
	f := newFixture(t)
	a := f.window(t, f.tree.Root(), "a", 0, 0, 5, 5)

	f.n.Handle(mouseEv(1, 1, backend.Button1))
	f.tree.Destroy(a)
	f.n.Handle(mouseEv(1, 1, backend.ButtonNone))

	root := f.tree.Root().ID()
	want := []event.Event{
		event.ButtonPress{Window: a.ID(), Button: 1, X: 1, Y: 1, RootX: 1, RootY: 1},
		event.ButtonRelease{Window: root, Button: 1, X: 1, Y: 1, RootX: 1, RootY: 1},
	}
	if diff := cmp.Diff(want, f.sink.take()); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestMouseWheel(t *testing.T) {
	f := newFixture(t)
	root := f.tree.Root().ID()
	f.n.Handle(mouseEv(4, 4, backend.WheelUp))

	want := []event.Event{
		event.ButtonPress{Window: root, Button: 4, X: 4, Y: 4, RootX: 4, RootY: 4},
		event.ButtonRelease{Window: root, Button: 4, X: 4, Y: 4, RootX: 4, RootY: 4},
	}
	if diff := cmp.Diff(want, f.sink.take()); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestResize(t *testing.T) {
	f := newFixture(t)
	f.n.Handle(backend.Event{Type: backend.EventResize, Width: 40, Height: 12})
	root := f.tree.Root()
	if root.Width() != 40 || root.Height() != 12 {
		t.Errorf("root = %dx%d, want 40x12", root.Width(), root.Height())
	}
}

func barcodeConfig() Config {
	cfg := DefaultConfig()
	cfg.Barcode.Enabled = true
	cfg.Barcode.MaxLength = 4
	return cfg
}

func typeCodes(f *fixture, codes ...int) {
	for _, c := range codes {
		if c < 0x20 {
			f.n.Handle(keyEv(backend.KeyControl, rune(c)))
		} else {
			f.n.Handle(keyEv(backend.KeyRune, rune(c)))
		}
	}
}

func TestBarcode(t *testing.T) {
	f := newFixture(t, WithConfig(barcodeConfig()))
	root := f.tree.Root().ID()

	typeCodes(f, 0x02, '1', '2', '3', key.Return, 'z')

	want := []event.Event{
		event.Barcode{Window: root, Data: "123"},
		event.Key{Window: root, Code: 'z'},
	}
	if diff := cmp.Diff(want, f.sink.take(), ignoreTime); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
	if got := f.n.Metrics().Snapshot().Barcodes; got != 1 {
		t.Errorf("Barcodes = %d, want 1", got)
	}
}

func TestBarcodeTimeout(t *testing.T) {
	f := newFixture(t, WithConfig(barcodeConfig()))
	root := f.tree.Root().ID()

	typeCodes(f, 0x02, 'a')
	f.clock.advance(60 * time.Millisecond)
	f.loop.RunTimers()
	typeCodes(f, 'b')
	f.clock.advance(60 * time.Millisecond)
	f.loop.RunTimers()
	if evs := f.sink.take(); len(evs) != 0 {
		t.Fatalf("packet abandoned early: %v", evs)
	}

	f.clock.advance(50 * time.Millisecond)
	f.loop.RunTimers()
	want := keys(root, 0x02, 'a', 'b')
	if diff := cmp.Diff(want, f.sink.take(), ignoreTime); diff != "" {
		t.Errorf("replay mismatch (-want +got):\n%s", diff)
	}

	typeCodes(f, key.Return)
	if diff := cmp.Diff(keys(root, key.Return), f.sink.take(), ignoreTime); diff != "" {
		t.Errorf("trailer after replay (-want +got):\n%s", diff)
	}
}

func TestBarcodeOverflow(t *testing.T) {
	f := newFixture(t, WithConfig(barcodeConfig()))
	root := f.tree.Root().ID()

	typeCodes(f, 0x02, '1', '2', '3', '4', '5')
	want := keys(root, 0x02, '1', '2', '3', '4', '5')
	if diff := cmp.Diff(want, f.sink.take(), ignoreTime); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
	if f.loop.RunTimers() != 0 {
		t.Error("timer still pending after overflow")
	}
}

func TestBarcodeDisabled(t *testing.T) {
	f := newFixture(t)
	root := f.tree.Root().ID()
	typeCodes(f, 0x02, '1', key.Return)
	want := keys(root, 0x02, '1', key.Return)
	if diff := cmp.Diff(want, f.sink.take(), ignoreTime); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestSetConfigReplaysPacket(t *testing.T) {
	f := newFixture(t, WithConfig(barcodeConfig()))
	root := f.tree.Root().ID()
	typeCodes(f, 0x02, 'q')
	f.n.SetConfig(DefaultConfig())
	want := keys(root, 0x02, 'q')
	if diff := cmp.Diff(want, f.sink.take(), ignoreTime); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestHooks(t *testing.T) {
	f := newFixture(t)
	var order []string
	f.n.Hooks().Register("second", func(ev backend.Event) bool {
		order = append(order, "second")
		return ev.Rune == 'q'
	})
	id := f.n.Hooks().RegisterWithPriority("first", func(backend.Event) bool {
		order = append(order, "first")
		return false
	}, HookPriorityHigh)

	if diff := cmp.Diff([]string{"first", "second"}, f.n.Hooks().Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}

	f.n.Handle(keyEv(backend.KeyRune, 'q'))
	f.n.Handle(keyEv(backend.KeyRune, 'w'))
	if got := len(f.sink.take()); got != 1 {
		t.Errorf("delivered %d events, want 1", got)
	}
	if diff := cmp.Diff([]string{"first", "second", "first", "second"}, order); diff != "" {
		t.Errorf("hook order mismatch (-want +got):\n%s", diff)
	}

	if !f.n.Hooks().Unregister(id) || f.n.Hooks().Unregister(id) {
		t.Error("Unregister() should succeed once")
	}
	f.n.Hooks().SetEnabled(false)
	f.n.Handle(keyEv(backend.KeyRune, 'q'))
	if got := len(f.sink.take()); got != 1 {
		t.Errorf("disabled hooks consumed the event")
	}
	if got := f.n.Metrics().Snapshot().HookConsumed; got != 1 {
		t.Errorf("HookConsumed = %d, want 1", got)
	}
}
