// Package renderer composes the window tree onto a backend.
//
// Windows that draw themselves register a Painter. A redraw clears the
// screen, then walks the viewable windows parents first, siblings bottom to
// top, and gives each painter a Canvas clipped to its window. Redraws are
// requested with Schedule and coalesced at idle time, so any number of
// Expose events between two idle points produce one frame.
package renderer

import (
	"github.com/dshills/termtk/internal/loop"
	"github.com/dshills/termtk/internal/renderer/backend"
	"github.com/dshills/termtk/internal/renderer/core"
	"github.com/dshills/termtk/internal/window"
)

// Painter draws a window's contents.
type Painter interface {
	Paint(c *Canvas)
}

// PainterFunc adapts a function to Painter.
type PainterFunc func(c *Canvas)

func (f PainterFunc) Paint(c *Canvas) { f(c) }

// Scheduler defers work to the next idle point.
type Scheduler interface {
	DoWhenIdle(fn func()) loop.IdleID
}

// Renderer draws a window tree.
type Renderer struct {
	backend  backend.Backend
	tree     *window.Tree
	sched    Scheduler
	painters map[*window.Window]Painter
	pending  bool
	frames   int
}

// New creates a renderer drawing tree onto b.
func New(b backend.Backend, tree *window.Tree, sched Scheduler) *Renderer {
	return &Renderer{
		backend:  b,
		tree:     tree,
		sched:    sched,
		painters: make(map[*window.Window]Painter),
	}
}

// Register sets the painter for w.
func (r *Renderer) Register(w *window.Window, p Painter) {
	r.painters[w] = p
}

// Unregister removes w's painter.
func (r *Renderer) Unregister(w *window.Window) {
	delete(r.painters, w)
}

// Schedule requests a redraw at the next idle point.
func (r *Renderer) Schedule() {
	if r.pending {
		return
	}
	r.pending = true
	r.sched.DoWhenIdle(func() {
		r.pending = false
		r.Redraw()
	})
}

// Redraw draws a frame now.
func (r *Renderer) Redraw() {
	r.backend.Clear()
	r.tree.Walk(func(w *window.Window) {
		p, ok := r.painters[w]
		if !ok {
			return
		}
		c := r.canvas(w)
		if c.clip.IsEmpty() {
			return
		}
		p.Paint(c)
	})
	r.backend.Show()
	r.frames++
}

// Frames returns the number of frames drawn.
func (r *Renderer) Frames() int {
	return r.frames
}

// canvas returns a canvas for w clipped by its ancestors up to the nearest
// toplevel, and by the screen.
func (r *Renderer) canvas(w *window.Window) *Canvas {
	x, y := w.RootPosition()
	clip := core.RectFromSize(x, y, w.Width(), w.Height())
	for a := w; !a.IsToplevel() && a.Parent() != nil; {
		a = a.Parent()
		ax, ay := a.RootPosition()
		clip = clip.Intersect(core.RectFromSize(ax, ay, a.Width(), a.Height()))
	}
	sw, sh := r.backend.Size()
	clip = clip.Intersect(core.RectFromSize(0, 0, sw, sh))
	return &Canvas{backend: r.backend, x: x, y: y, width: w.Width(), height: w.Height(), clip: clip}
}
