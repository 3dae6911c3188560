package dispatch

import (
	"slices"

	"github.com/google/uuid"

	"github.com/dshills/termtk/internal/event"
)

// CreateHandler registers fn for events of the types in mask aimed at
// window win. Handlers run in registration order.
func (d *Dispatcher) CreateHandler(win event.WindowID, mask event.Mask, fn HandlerFunc) (HandlerID, error) {
	if fn == nil {
		return uuid.Nil, ErrNilHandler
	}
	h := &handler{
		id:     uuid.New(),
		window: win,
		mask:   mask,
		fn:     fn,
	}
	d.byID[h.id] = h

	head := d.heads[win]
	if head == nil {
		d.heads[win] = h
		return h.id, nil
	}
	tail := head
	for tail.next != nil {
		tail = tail.next
	}
	tail.next = h
	return h.id, nil
}

// DeleteHandler removes a window handler. Pending dispatches that would
// visit it next move on to its successor.
func (d *Dispatcher) DeleteHandler(id HandlerID) error {
	h, ok := d.byID[id]
	if !ok {
		return ErrUnknownHandler
	}

	for f := d.pending; f != nil; f = f.outer {
		if f.next == h {
			f.next = h.next
		}
	}

	var prev *handler
	cur := d.heads[h.window]
	for cur != nil && cur != h {
		prev, cur = cur, cur.next
	}
	if cur == nil {
		panic("dispatch: handler missing from its window's list")
	}
	if prev == nil {
		if h.next == nil {
			delete(d.heads, h.window)
		} else {
			d.heads[h.window] = h.next
		}
	} else {
		prev.next = h.next
	}
	delete(d.byID, id)
	return nil
}

// Handlers returns the number of handlers registered on win.
func (d *Dispatcher) Handlers(win event.WindowID) int {
	n := 0
	for h := d.heads[win]; h != nil; h = h.next {
		n++
	}
	return n
}

// CreateGenericHandler registers fn to see every event before window
// routing. Generic handlers run in registration order.
func (d *Dispatcher) CreateGenericHandler(fn GenericFunc) (HandlerID, error) {
	if fn == nil {
		return uuid.Nil, ErrNilHandler
	}
	g := &generic{id: uuid.New(), fn: fn}
	d.generics = append(d.generics, g)
	return g.id, nil
}

// DeleteGenericHandler removes a generic handler. While generic handlers are
// running the entry is only marked, and the outermost walk unlinks it.
func (d *Dispatcher) DeleteGenericHandler(id HandlerID) error {
	i := slices.IndexFunc(d.generics, func(g *generic) bool {
		return g.id == id && !g.deleted
	})
	if i < 0 {
		return ErrUnknownHandler
	}
	if d.genericActive > 0 {
		d.generics[i].deleted = true
		return nil
	}
	d.generics = slices.Delete(d.generics, i, i+1)
	return nil
}

// GenericHandlers returns the number of generic handlers, including those
// marked for deletion but not yet unlinked.
func (d *Dispatcher) GenericHandlers() int {
	return len(d.generics)
}
