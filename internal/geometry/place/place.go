// Package place implements the placer geometry manager, which puts each
// window at a fixed or proportional position and size within its master.
package place

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/dshills/termtk/internal/event"
	"github.com/dshills/termtk/internal/geometry"
	"github.com/dshills/termtk/internal/loop"
	"github.com/dshills/termtk/internal/window"
)

var (
	ErrBadMaster = errors.New("place: bad master")
	ErrToplevel  = errors.New("place: can't place a toplevel window")
)

// Options says where a window goes. Positions and sizes are the sum of an
// absolute part and a part relative to the master's size. A window with
// neither Width nor RelWidth set gets its requested width, and likewise for
// the height.
type Options struct {
	X, Y       int
	RelX, RelY float64

	Width, Height       int
	RelWidth, RelHeight float64

	// Anchor is the point of the window that lands on the computed
	// position. The zero value is the center.
	Anchor geometry.Anchor

	// In is the master; it defaults to the window's parent.
	In *window.Window
}

type node struct {
	win    *window.Window
	opts   Options
	master *node
	slaves []*node

	pending bool
	idle    loop.IdleID
	dead    bool
}

// Placer lays out windows by explicit placement.
type Placer struct {
	sched  geometry.Scheduler
	events geometry.Events
	nodes  map[*window.Window]*node
}

func New(sched geometry.Scheduler, events geometry.Events) *Placer {
	return &Placer{
		sched:  sched,
		events: events,
		nodes:  make(map[*window.Window]*node),
	}
}

func (p *Placer) Name() string { return "place" }

func (p *Placer) RequestGeometry(w *window.Window) {
	if n := p.nodes[w]; n != nil && n.master != nil {
		p.schedule(n.master)
	}
}

func (p *Placer) LostSlave(w *window.Window) {
	n := p.nodes[w]
	if n == nil || n.master == nil {
		return
	}
	if w.Parent() != n.master.win {
		w.Unmap()
	}
	p.unlink(n)
}

func (p *Placer) get(w *window.Window) *node {
	if n := p.nodes[w]; n != nil {
		return n
	}
	n := &node{win: w}
	p.nodes[w] = n
	if p.events != nil {
		_, _ = p.events.CreateHandler(w.ID(), event.MaskStructure, func(ev event.Event) {
			p.structure(n, ev)
		})
	}
	return n
}

// Place puts w under the placer's control with the given options,
// replacing any earlier placement. On error nothing changes.
func (p *Placer) Place(w *window.Window, opts Options) error {
	if w.IsToplevel() {
		return fmt.Errorf("%w: %s", ErrToplevel, w.Path())
	}
	master := opts.In
	if master == nil {
		master = w.Parent()
	}
	if master == nil || master.IsDestroyed() || !geometry.CanManage(w, master) {
		return fmt.Errorf("%w: can't place %s relative to %s", ErrBadMaster, w.Path(), pathOf(master))
	}

	n := p.get(w)
	m := p.get(master)
	if w.Manager() != p {
		w.ManageGeometry(p)
	}
	if n.master != m {
		if n.master != nil {
			p.unlink(n)
		}
		m.slaves = append(m.slaves, n)
		n.master = m
	}
	n.opts = opts
	n.opts.In = master
	p.schedule(m)
	return nil
}

func pathOf(w *window.Window) string {
	if w == nil {
		return "<nil>"
	}
	return w.Path()
}

// Forget removes w from the placer and unmaps it. It reports whether w was
// placed.
func (p *Placer) Forget(w *window.Window) bool {
	n := p.nodes[w]
	if n == nil || n.master == nil {
		return false
	}
	w.ManageGeometry(nil)
	p.unlink(n)
	w.Unmap()
	return true
}

// Info returns the options w was placed with; In is always set.
func (p *Placer) Info(w *window.Window) (Options, bool) {
	n := p.nodes[w]
	if n == nil || n.master == nil {
		return Options{}, false
	}
	return n.opts, true
}

// Slaves returns the windows placed in master, in placement order.
func (p *Placer) Slaves(master *window.Window) []*window.Window {
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

func (p *Placer) unlink(n *node) {
	m := n.master
	i := slices.Index(m.slaves, n)
	if i < 0 {
		panic("place: slave missing from its master's list")
	}
	m.slaves = slices.Delete(m.slaves, i, i+1)
	n.master = nil
	if len(m.slaves) == 0 && m.pending {
		p.sched.CancelIdle(m.idle)
		m.pending = false
	}
}

func (p *Placer) schedule(m *node) {
	if m.pending || m.dead {
		return
	}
	m.pending = true
	m.idle = p.sched.DoWhenIdle(func() { p.recompute(m) })
}

// recompute places every slave of m.
func (p *Placer) recompute(m *node) {
	m.pending = false
	mw, mh := m.win.Width(), m.win.Height()
	for _, s := range slices.Clone(m.slaves) {
		if s.master != m {
			continue
		}
		o := s.opts
		x := o.X + round(o.RelX*float64(mw))
		y := o.Y + round(o.RelY*float64(mh))

		w := o.Width + round(o.RelWidth*float64(mw))
		if o.Width == 0 && o.RelWidth == 0 {
			w = s.win.ReqWidth()
		}
		h := o.Height + round(o.RelHeight*float64(mh))
		if o.Height == 0 && o.RelHeight == 0 {
			h = s.win.ReqHeight()
		}
		x, y = anchorOffset(o.Anchor, x, y, w, h)

		if w <= 0 || h <= 0 {
			s.win.Unmap()
			continue
		}
		ox, oy := geometry.MasterOffset(s.win, m.win)
		s.win.MoveResize(x+ox, y+oy, w, h)
		if s.master == m && m.win.IsMapped() {
			s.win.Map()
		}
	}
}

func round(f float64) int {
	return int(math.Round(f))
}

// anchorOffset moves the point (x, y) so that the anchor point of a w×h box
// lands on it, and returns the box's top-left corner.
func anchorOffset(a geometry.Anchor, x, y, w, h int) (int, int) {
	switch a {
	case geometry.AnchorN, geometry.AnchorCenter, geometry.AnchorS:
		x -= w / 2
	case geometry.AnchorNE, geometry.AnchorE, geometry.AnchorSE:
		x -= w
	}
	switch a {
	case geometry.AnchorW, geometry.AnchorCenter, geometry.AnchorE:
		y -= h / 2
	case geometry.AnchorSW, geometry.AnchorS, geometry.AnchorSE:
		y -= h
	}
	return x, y
}

func (p *Placer) structure(n *node, ev event.Event) {
	switch ev.Type() {
	case event.TypeConfigure, event.TypeMap:
		if len(n.slaves) > 0 {
			p.schedule(n)
		}
	case event.TypeUnmap:
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
		if n.pending {
			p.sched.CancelIdle(n.idle)
			n.pending = false
		}
		n.dead = true
		delete(p.nodes, n.win)
	}
}
