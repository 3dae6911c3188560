package keymap

import "github.com/dshills/termtk/internal/event"

// DefaultRingSize is the number of past events a table remembers.
const DefaultRingSize = 30

type ringSlot struct {
	ev     event.Event
	detail int
}

// Ring is a fixed-capacity history of events. Appending to a full ring
// overwrites the oldest entry.
type Ring struct {
	slots  []ringSlot
	cursor int // index of the most recent event
	count  int
}

// NewRing creates a ring holding up to capacity events.
// A non-positive capacity selects DefaultRingSize.
func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = DefaultRingSize
	}
	return &Ring{
		slots:  make([]ringSlot, capacity),
		cursor: capacity - 1,
	}
}

// Append records ev as the most recent event.
func (r *Ring) Append(ev event.Event) {
	r.cursor = (r.cursor + 1) % len(r.slots)
	r.slots[r.cursor] = ringSlot{ev: ev, detail: event.DetailOf(ev)}
	if r.count < len(r.slots) {
		r.count++
	}
}

// At returns the event back steps before the most recent one (0 is the most
// recent) and its detail. ok is false past the remembered history.
func (r *Ring) At(back int) (ev event.Event, detail int, ok bool) {
	if back < 0 || back >= r.count {
		return nil, 0, false
	}
	i := (r.cursor - back) % len(r.slots)
	if i < 0 {
		i += len(r.slots)
	}
	s := r.slots[i]
	return s.ev, s.detail, true
}

// Len returns the number of remembered events.
func (r *Ring) Len() int { return r.count }

// Cap returns the ring capacity.
func (r *Ring) Cap() int { return len(r.slots) }

// Clear forgets all events.
func (r *Ring) Clear() {
	clear(r.slots)
	r.count = 0
	r.cursor = len(r.slots) - 1
}
