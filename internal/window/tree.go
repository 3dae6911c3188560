package window

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dshills/termtk/internal/event"
)

// RootClass is the class of the root window.
const RootClass = "Termtk"

// EventSink receives the events windows generate.
type EventSink interface {
	Dispatch(ev event.Event)
	WindowDestroyed(id event.WindowID)
}

// Tree is the window hierarchy. It is not safe for concurrent use.
type Tree struct {
	sink   EventSink
	root   *Window
	byID   map[event.WindowID]*Window
	byPath map[string]*Window
	nextID event.WindowID
	focus  *Window

	destroyHooks []func(*Window)
}

// NewTree creates a tree whose mapped root window covers a screen of the
// given size.
func NewTree(width, height int) *Tree {
	t := &Tree{
		byID:   make(map[event.WindowID]*Window),
		byPath: make(map[string]*Window),
	}
	t.nextID++
	t.root = &Window{
		tree:      t,
		id:        t.nextID,
		name:      ".",
		path:      ".",
		class:     RootClass,
		toplevel:  true,
		width:     max(width, 1),
		height:    max(height, 1),
		reqWidth:  max(width, 1),
		reqHeight: max(height, 1),
		mapped:    true,
	}
	t.byID[t.root.id] = t.root
	t.byPath["."] = t.root
	return t
}

// SetSink sets the receiver of window events.
func (t *Tree) SetSink(sink EventSink) {
	t.sink = sink
}

func (t *Tree) dispatch(ev event.Event) {
	if t.sink != nil {
		t.sink.Dispatch(ev)
	}
}

// Root returns the root window.
func (t *Tree) Root() *Window { return t.root }

// Create makes an unmapped child of parent.
func (t *Tree) Create(parent *Window, name, class string) (*Window, error) {
	return t.create(parent, name, class, false)
}

// CreateToplevel makes an unmapped toplevel child of parent. A toplevel
// window is positioned relative to the screen, anchors its descendants'
// default bind tags, and cannot be packed.
func (t *Tree) CreateToplevel(parent *Window, name, class string) (*Window, error) {
	return t.create(parent, name, class, true)
}

func (t *Tree) create(parent *Window, name, class string, toplevel bool) (*Window, error) {
	if parent == nil || parent.destroyed {
		return nil, ErrDestroyed
	}
	if name == "" || strings.ContainsRune(name, '.') {
		return nil, fmt.Errorf("%w %q", ErrBadName, name)
	}
	path := parent.path + "." + name
	if parent == t.root {
		path = "." + name
	}
	if _, ok := t.byPath[path]; ok {
		return nil, fmt.Errorf("%w: %s", ErrExists, path)
	}

	t.nextID++
	w := &Window{
		tree:      t,
		id:        t.nextID,
		name:      name,
		path:      path,
		class:     class,
		parent:    parent,
		toplevel:  toplevel,
		width:     1,
		height:    1,
		reqWidth:  1,
		reqHeight: 1,
	}
	parent.children = append(parent.children, w)
	t.byID[w.id] = w
	t.byPath[path] = w
	return w, nil
}

// Get returns the window with the given id.
func (t *Tree) Get(id event.WindowID) (*Window, bool) {
	w, ok := t.byID[id]
	return w, ok
}

// Lookup returns the window with the given path.
func (t *Tree) Lookup(path string) (*Window, bool) {
	w, ok := t.byPath[path]
	return w, ok
}

// Exists reports whether a window with the given id is alive.
func (t *Tree) Exists(id event.WindowID) bool {
	_, ok := t.byID[id]
	return ok
}

// PathOf returns the path of the window with the given id.
func (t *Tree) PathOf(id event.WindowID) (string, bool) {
	w, ok := t.byID[id]
	if !ok {
		return "", false
	}
	return w.path, true
}

// Len returns the number of live windows, the root included.
func (t *Tree) Len() int {
	return len(t.byID)
}

// OnDestroy registers fn to run for every destroyed window, after its
// Destroy event and before it is unlinked.
func (t *Tree) OnDestroy(fn func(*Window)) {
	t.destroyHooks = append(t.destroyHooks, fn)
}

// Destroy destroys w and its descendants, children first.
func (t *Tree) Destroy(w *Window) {
	if w == nil || w.destroyed {
		return
	}
	w.destroyed = true

	for _, c := range slices.Clone(w.children) {
		t.Destroy(c)
	}

	t.dispatch(event.Destroy{Window: w.id})
	if t.sink != nil {
		t.sink.WindowDestroyed(w.id)
	}
	for _, fn := range t.destroyHooks {
		fn(w)
	}

	if t.focus == w {
		t.focus = nil
	}
	if p := w.parent; p != nil {
		if i := slices.Index(p.children, w); i >= 0 {
			p.children = slices.Delete(p.children, i, i+1)
		}
		if w.mapped && p.IsViewable() {
			t.dispatch(event.Expose{Window: p.id})
		}
	}
	w.mapped = false
	w.manager = nil
	delete(t.byID, w.id)
	delete(t.byPath, w.path)
}

// Focus returns the window holding the keyboard focus, or the root.
func (t *Tree) Focus() *Window {
	if t.focus == nil {
		return t.root
	}
	return t.focus
}

// SetFocus moves the keyboard focus to w.
func (t *Tree) SetFocus(w *Window) {
	if w == nil || w.destroyed || w == t.focus {
		return
	}
	old := t.focus
	t.focus = w
	if old != nil {
		t.dispatch(event.FocusOut{Window: old.id})
	}
	t.dispatch(event.FocusIn{Window: w.id})
}

// WindowAt returns the topmost viewable window containing the screen
// position (x, y), or nil when the position is off screen.
func (t *Tree) WindowAt(x, y int) *Window {
	if !t.root.Contains(x, y) {
		return nil
	}
	w := t.root
	for {
		next := (*Window)(nil)
		for i := len(w.children) - 1; i >= 0; i-- {
			c := w.children[i]
			if c.mapped && c.Contains(x, y) {
				next = c
				break
			}
		}
		if next == nil {
			return w
		}
		w = next
	}
}

// Resize changes the screen size, resizing the root window.
func (t *Tree) Resize(width, height int) {
	t.root.reqWidth, t.root.reqHeight = max(width, 1), max(height, 1)
	t.root.MoveResize(0, 0, width, height)
}

// Walk calls fn for every viewable window in drawing order: parents before
// children, siblings bottom to top.
func (t *Tree) Walk(fn func(*Window)) {
	var walk func(w *Window)
	walk = func(w *Window) {
		if !w.mapped {
			return
		}
		fn(w)
		for _, c := range slices.Clone(w.children) {
			walk(c)
		}
	}
	walk(t.root)
}

// Traverse returns the viewable windows in depth-first order, the root
// excluded. It is the focus traversal order.
func (t *Tree) Traverse() []*Window {
	var out []*Window
	t.Walk(func(w *Window) {
		if w != t.root {
			out = append(out, w)
		}
	})
	return out
}
