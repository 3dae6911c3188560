// Package pack implements the packer geometry manager.
//
// Each master keeps an ordered list of slaves. Layout runs at idle time and
// carves the master's free space, the cavity, one slave at a time: a slave
// packed against a side takes a parcel spanning the cavity along that side,
// and the cavity shrinks by the parcel. Slaves marked Expand share whatever
// space is left over once every slave has its requested size.
//
// Layout is coalesced: any number of changes to a master between two idle
// points produce one arrangement.
package pack

import (
	"errors"
	"fmt"
	"slices"

	"github.com/dshills/termtk/internal/event"
	"github.com/dshills/termtk/internal/geometry"
	"github.com/dshills/termtk/internal/loop"
	"github.com/dshills/termtk/internal/window"
)

// Sentinel errors returned by Pack.
var (
	ErrBadMaster = errors.New("pack: bad master")
	ErrSelfPack  = errors.New("pack: can't pack a window inside itself")
	ErrToplevel  = errors.New("pack: can't pack a toplevel window")
	ErrNotPacked = errors.New("pack: window isn't packed")
	ErrBadPad    = errors.New("pack: bad pad value")
)

// Options configures how a window is packed.
type Options struct {
	Side   geometry.Side
	Anchor geometry.Anchor
	Expand bool
	Fill   geometry.Fill

	// PadX and PadY are external padding on each side of the window.
	PadX, PadY int

	// IPadX and IPadY are added on each side to the window's requested size.
	IPadX, IPadY int

	// In is the master. It defaults to the window's parent, or to the
	// master of Before or After when one of those is given.
	In *window.Window

	// Before and After position the window relative to a packed sibling.
	Before *window.Window
	After  *window.Window
}

// node is the packer's record for one window, whether it acts as a master,
// a slave, or both.
type node struct {
	win    *window.Window
	master *node
	slaves []*node

	side         geometry.Side
	anchor       geometry.Anchor
	expand       bool
	fill         geometry.Fill
	padX, padY   int
	ipadX, ipadY int

	noPropagate bool
	pending     bool
	idle        loop.IdleID

	// abort points at the running arrangement's flag; setting it stops that
	// arrangement after the current slave.
	abort *bool

	pins int
	dead bool
}

func (n *node) stopArrange() {
	if n.abort != nil {
		*n.abort = true
	}
}

// Packer lays out windows with the packer algorithm.
type Packer struct {
	sched  geometry.Scheduler
	events geometry.Events
	nodes  map[*window.Window]*node
}

// New creates a packer that defers layout to sched and follows window
// structure changes through events.
func New(sched geometry.Scheduler, events geometry.Events) *Packer {
	return &Packer{
		sched:  sched,
		events: events,
		nodes:  make(map[*window.Window]*node),
	}
}

// Name implements window.GeometryManager.
func (p *Packer) Name() string { return "pack" }

// RequestGeometry implements window.GeometryManager.
func (p *Packer) RequestGeometry(w *window.Window) {
	if n := p.nodes[w]; n != nil && n.master != nil {
		p.schedule(n.master)
	}
}

// LostSlave implements window.GeometryManager.
func (p *Packer) LostSlave(w *window.Window) {
	n := p.nodes[w]
	if n == nil || n.master == nil {
		return
	}
	if w.Parent() != n.master.win {
		w.Unmap()
	}
	p.unlink(n)
}

// get returns the node for w, creating it and hooking its structure events
// on first use.
func (p *Packer) get(w *window.Window) *node {
	if n := p.nodes[w]; n != nil {
		return n
	}
	n := &node{win: w, anchor: geometry.AnchorCenter}
	p.nodes[w] = n
	if p.events != nil {
		// The handler list goes away with the window.
		_, _ = p.events.CreateHandler(w.ID(), event.MaskStructure, func(ev event.Event) {
			p.structure(n, ev)
		})
	}
	return n
}

// Pack places w under the packer's control, or reconfigures it when it is
// already packed. On error nothing changes.
func (p *Packer) Pack(w *window.Window, opts Options) error {
	if w.IsToplevel() {
		return fmt.Errorf("%w: %s", ErrToplevel, w.Path())
	}
	if opts.PadX < 0 || opts.PadY < 0 || opts.IPadX < 0 || opts.IPadY < 0 {
		return ErrBadPad
	}

	var sibling *node
	before := false
	switch {
	case opts.Before != nil && opts.After != nil:
		return fmt.Errorf("%w: both Before and After given", ErrBadMaster)
	case opts.Before != nil:
		sibling, before = p.nodes[opts.Before], true
		if opts.Before == w {
			return ErrSelfPack
		}
		if sibling == nil || sibling.master == nil {
			return fmt.Errorf("%w: %s", ErrNotPacked, opts.Before.Path())
		}
	case opts.After != nil:
		sibling = p.nodes[opts.After]
		if opts.After == w {
			return ErrSelfPack
		}
		if sibling == nil || sibling.master == nil {
			return fmt.Errorf("%w: %s", ErrNotPacked, opts.After.Path())
		}
	}

	master := opts.In
	if sibling != nil {
		if master != nil && master != sibling.master.win {
			return fmt.Errorf("%w: %s is not packed in %s", ErrBadMaster, sibling.win.Path(), master.Path())
		}
		master = sibling.master.win
	}
	if master == nil {
		master = w.Parent()
	}
	if master == w {
		return ErrSelfPack
	}
	if master == nil || master.IsDestroyed() || !geometry.CanManage(w, master) {
		return fmt.Errorf("%w: can't pack %s inside %s", ErrBadMaster, w.Path(), pathOf(master))
	}

	n := p.get(w)
	m := p.get(master)

	if w.Manager() != p {
		w.ManageGeometry(p)
	}
	if n.master != m || sibling != nil {
		if n.master != nil {
			p.unlink(n)
		}
		at := len(m.slaves)
		if sibling != nil {
			at = slices.Index(m.slaves, sibling)
			if !before {
				at++
			}
		}
		m.slaves = slices.Insert(m.slaves, at, n)
		n.master = m
		m.stopArrange()
	}

	n.side = opts.Side
	n.anchor = opts.Anchor
	n.expand = opts.Expand
	n.fill = opts.Fill
	n.padX, n.padY = opts.PadX, opts.PadY
	n.ipadX, n.ipadY = opts.IPadX, opts.IPadY

	p.schedule(m)
	return nil
}

func pathOf(w *window.Window) string {
	if w == nil {
		return "<nil>"
	}
	return w.Path()
}

// Forget removes w from the packer and unmaps it. It reports whether w was
// packed.
func (p *Packer) Forget(w *window.Window) bool {
	n := p.nodes[w]
	if n == nil || n.master == nil {
		return false
	}
	w.ManageGeometry(nil)
	p.unlink(n)
	w.Unmap()
	return true
}

// Info returns the options w is packed with. In is always set.
func (p *Packer) Info(w *window.Window) (Options, bool) {
	n := p.nodes[w]
	if n == nil || n.master == nil {
		return Options{}, false
	}
	return Options{
		Side:   n.side,
		Anchor: n.anchor,
		Expand: n.expand,
		Fill:   n.fill,
		PadX:   n.padX,
		PadY:   n.padY,
		IPadX:  n.ipadX,
		IPadY:  n.ipadY,
		In:     n.master.win,
	}, true
}

// Slaves returns the windows packed in master, in packing order.
func (p *Packer) Slaves(master *window.Window) []*window.Window {
	m := p.nodes[master]
	if m == nil {
		return nil
	}
	out := make([]*window.Window, len(m.slaves))
	for i, s := range m.slaves {
		out[i] = s.win
	}
	return out
}

// Propagate sets whether master requests the size its slaves need.
// Propagation is on by default.
func (p *Packer) Propagate(master *window.Window, on bool) {
	m := p.get(master)
	if m.noPropagate == !on {
		return
	}
	m.noPropagate = !on
	if on && len(m.slaves) > 0 {
		p.schedule(m)
	}
}

// Propagation reports whether master propagates its slaves' size.
func (p *Packer) Propagation(master *window.Window) bool {
	m := p.nodes[master]
	return m == nil || !m.noPropagate
}

// unlink removes n from its master's slave list. An emptied master drops
// its pending arrangement; otherwise one is scheduled.
func (p *Packer) unlink(n *node) {
	m := n.master
	if m == nil {
		return
	}
	i := slices.Index(m.slaves, n)
	if i < 0 {
		panic("pack: slave missing from its master's list")
	}
	m.slaves = slices.Delete(m.slaves, i, i+1)
	n.master = nil
	m.stopArrange()

	if len(m.slaves) == 0 {
		p.cancel(m)
		return
	}
	p.schedule(m)
}

func (p *Packer) schedule(m *node) {
	if m.pending || m.dead {
		return
	}
	m.pending = true
	m.idle = p.sched.DoWhenIdle(func() { p.arrange(m) })
}

func (p *Packer) cancel(m *node) {
	if m.pending {
		p.sched.CancelIdle(m.idle)
		m.pending = false
	}
}

func (p *Packer) pin(n *node) { n.pins++ }

func (p *Packer) unpin(n *node) {
	n.pins--
	if n.pins == 0 && n.dead {
		delete(p.nodes, n.win)
	}
}

// release forgets n once no arrangement is using it.
func (p *Packer) release(n *node) {
	n.dead = true
	if n.pins == 0 {
		delete(p.nodes, n.win)
	}
}

// structure follows Configure, Map, Unmap and Destroy of a packer window.
func (p *Packer) structure(n *node, ev event.Event) {
	switch ev.Type() {
	case event.TypeConfigure, event.TypeMap:
		if len(n.slaves) > 0 {
			p.schedule(n)
		}
	case event.TypeUnmap:
		// Children vanish with their parent; slaves elsewhere must be hidden.
		for _, s := range n.slaves {
			if s.win.Parent() != n.win {
				s.win.Unmap()
			}
		}
	case event.TypeDestroy:
		if n.master != nil {
			p.unlink(n)
		}
		for _, s := range n.slaves {
			s.master = nil
			s.win.ManageGeometry(nil)
			if s.win.Parent() != n.win {
				s.win.Unmap()
			}
		}
		n.slaves = nil
		p.cancel(n)
		n.stopArrange()
		p.release(n)
	}
}
