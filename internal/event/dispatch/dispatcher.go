package dispatch

import (
	"slices"

	"github.com/google/uuid"

	"github.com/dshills/termtk/internal/event"
)

// HandlerFunc handles an event delivered to a window.
type HandlerFunc func(ev event.Event)

// GenericFunc sees every event before window routing. Returning true claims
// the event: no further generic, window, or binding processing happens.
type GenericFunc func(ev event.Event) bool

// HandlerID identifies a registered handler.
type HandlerID = uuid.UUID

// Registry reports which windows exist.
type Registry interface {
	Exists(id event.WindowID) bool
}

// Binder receives each event after the window's handlers have run.
type Binder interface {
	BindEvent(ev event.Event)
}

// BinderFunc adapts a function to Binder.
type BinderFunc func(ev event.Event)

// BindEvent calls f(ev).
func (f BinderFunc) BindEvent(ev event.Event) { f(ev) }

// handler is one node of a window's handler list.
type handler struct {
	id     HandlerID
	window event.WindowID
	mask   event.Mask
	fn     HandlerFunc
	next   *handler
}

type generic struct {
	id      HandlerID
	fn      GenericFunc
	deleted bool
}

// frame records one Dispatch call in progress.
type frame struct {
	ev     event.Event
	window event.WindowID
	alive  bool
	next   *handler
	outer  *frame
}

// Stats counts dispatcher activity.
type Stats struct {
	Dispatched uint64
	Dropped    uint64
	Claimed    uint64
	Bound      uint64
	Panicked   uint64
}

// Dispatcher delivers events to generic handlers, window handlers, and the
// binder. It is not safe for concurrent use.
type Dispatcher struct {
	registry Registry
	binder   Binder
	onPanic  PanicHandler

	generics      []*generic
	genericActive int

	heads map[event.WindowID]*handler
	byID  map[HandlerID]*handler

	pending *frame

	stats struct {
		dispatched, dropped, claimed, bound, panicked uint64
	}
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithPanicHandler sets the handler notified of recovered handler panics.
func WithPanicHandler(h PanicHandler) Option {
	return func(d *Dispatcher) {
		if h != nil {
			d.onPanic = h
		}
	}
}

// New creates a dispatcher. A nil registry accepts every window; a nil
// binder skips the binding stage.
func New(registry Registry, binder Binder, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry: registry,
		binder:   binder,
		onPanic:  defaultPanicHandler,
		heads:    make(map[event.WindowID]*handler),
		byID:     make(map[HandlerID]*handler),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SetBinder replaces the binder.
func (d *Dispatcher) SetBinder(b Binder) {
	d.binder = b
}

// Dispatch delivers ev. Generic handlers run first; unless one claims the
// event, the target window's handlers run in registration order, then the
// binder, provided the window survived its handlers.
func (d *Dispatcher) Dispatch(ev event.Event) {
	d.stats.dispatched++

	if d.dispatchGeneric(ev) {
		d.stats.claimed++
		return
	}

	win := ev.Target()
	if d.registry != nil && !d.registry.Exists(win) {
		d.stats.dropped++
		return
	}

	f := &frame{
		ev:     ev,
		window: win,
		alive:  true,
		next:   d.heads[win],
		outer:  d.pending,
	}
	d.pending = f
	defer func() { d.pending = f.outer }()

	typ := ev.Type()
	for f.alive && f.next != nil {
		h := f.next
		f.next = h.next
		if h.mask.Has(typ) {
			d.call(h.fn, ev)
		}
	}

	if f.alive && d.binder != nil {
		d.stats.bound++
		d.binder.BindEvent(ev)
	}
}

// dispatchGeneric walks the generic handlers and reports whether one claimed
// ev. Entries marked deleted are skipped, and unlinked once no generic walk
// is active.
func (d *Dispatcher) dispatchGeneric(ev event.Event) bool {
	handled := false
	for i := 0; i < len(d.generics) && !handled; i++ {
		g := d.generics[i]
		if g.deleted {
			continue
		}
		d.genericActive++
		handled = d.callGeneric(g.fn, ev)
		d.genericActive--
	}
	if d.genericActive == 0 {
		d.generics = slices.DeleteFunc(d.generics, func(g *generic) bool { return g.deleted })
	}
	return handled
}

// WindowDestroyed forgets every handler of window id and marks pending
// dispatches to it dead.
func (d *Dispatcher) WindowDestroyed(id event.WindowID) {
	for f := d.pending; f != nil; f = f.outer {
		if f.window == id {
			f.alive = false
			f.next = nil
		}
	}
	for h := d.heads[id]; h != nil; h = h.next {
		delete(d.byID, h.id)
	}
	delete(d.heads, id)
}

// Depth returns the number of Dispatch calls in progress.
func (d *Dispatcher) Depth() int {
	n := 0
	for f := d.pending; f != nil; f = f.outer {
		n++
	}
	return n
}

// Stats returns dispatch counters.
func (d *Dispatcher) Stats() Stats {
	return Stats{
		Dispatched: d.stats.dispatched,
		Dropped:    d.stats.dropped,
		Claimed:    d.stats.claimed,
		Bound:      d.stats.bound,
		Panicked:   d.stats.panicked,
	}
}
