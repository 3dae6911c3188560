package window

import (
	"slices"

	"github.com/dshills/termtk/internal/event"
)

// GeometryManager lays out the windows it manages. The manager value itself
// carries its state; one manager serves many windows.
type GeometryManager interface {
	// Name identifies the manager, e.g. "pack".
	Name() string

	// RequestGeometry is called after w changed its requested size.
	RequestGeometry(w *Window)

	// LostSlave is called when another manager takes w over.
	LostSlave(w *Window)
}

// Window is a rectangular region of the screen.
type Window struct {
	tree   *Tree
	id     event.WindowID
	name   string
	path   string
	class  string
	parent *Window

	// children in stacking order, bottom first.
	children []*Window
	toplevel bool

	x, y          int
	width, height int
	reqWidth      int
	reqHeight     int
	mapped        bool
	destroyed     bool

	manager  GeometryManager
	bindTags []string
	hasTags  bool
}

func (w *Window) ID() event.WindowID { return w.id }
func (w *Window) Name() string       { return w.name }
func (w *Window) Path() string       { return w.path }
func (w *Window) Class() string      { return w.class }
func (w *Window) Parent() *Window    { return w.parent }
func (w *Window) Tree() *Tree        { return w.tree }
func (w *Window) IsToplevel() bool   { return w.toplevel }
func (w *Window) IsMapped() bool     { return w.mapped }
func (w *Window) IsDestroyed() bool  { return w.destroyed }

// X returns the window's column relative to its parent.
func (w *Window) X() int { return w.x }

// Y returns the window's row relative to its parent.
func (w *Window) Y() int { return w.y }

func (w *Window) Width() int  { return w.width }
func (w *Window) Height() int { return w.height }

// ReqWidth returns the width the window asked for.
func (w *Window) ReqWidth() int { return w.reqWidth }

// ReqHeight returns the height the window asked for.
func (w *Window) ReqHeight() int { return w.reqHeight }

// Children returns the children in stacking order, bottom first.
func (w *Window) Children() []*Window {
	return slices.Clone(w.children)
}

// Toplevel returns the nearest toplevel window containing w, w included.
func (w *Window) Toplevel() *Window {
	t := w
	for !t.toplevel && t.parent != nil {
		t = t.parent
	}
	return t
}

// RootPosition returns the window's position on the screen. A toplevel's
// position is already screen relative.
func (w *Window) RootPosition() (int, int) {
	x, y := 0, 0
	for t := w; t != nil; t = t.parent {
		x += t.x
		y += t.y
		if t.toplevel {
			break
		}
	}
	return x, y
}

// IsViewable reports whether the window and its ancestors up to the nearest
// toplevel are mapped.
func (w *Window) IsViewable() bool {
	for t := w; t != nil; t = t.parent {
		if !t.mapped {
			return false
		}
		if t.toplevel {
			break
		}
	}
	return true
}

// Contains reports whether the screen position (x, y) lies inside the window.
func (w *Window) Contains(x, y int) bool {
	rx, ry := w.RootPosition()
	return x >= rx && y >= ry && x < rx+w.width && y < ry+w.height
}

// BindTags returns the binding objects consulted for events on w: the
// explicit list when one is set, otherwise the window path, its class, its
// toplevel's path when that differs, and "all".
func (w *Window) BindTags() []string {
	if w.hasTags {
		return slices.Clone(w.bindTags)
	}
	tags := []string{w.path, w.class}
	if top := w.Toplevel(); top != w {
		tags = append(tags, top.path)
	}
	return append(tags, "all")
}

// SetBindTags replaces the binding objects of w. A nil list restores the
// default set.
func (w *Window) SetBindTags(tags []string) {
	if tags == nil {
		w.bindTags = nil
		w.hasTags = false
		return
	}
	w.bindTags = slices.Clone(tags)
	w.hasTags = true
}

// Raise moves w to the top of its siblings' stacking order.
func (w *Window) Raise() {
	p := w.parent
	if p == nil {
		return
	}
	i := slices.Index(p.children, w)
	p.children = append(slices.Delete(p.children, i, i+1), w)
	w.expose()
}

// Lower moves w to the bottom of its siblings' stacking order.
func (w *Window) Lower() {
	p := w.parent
	if p == nil {
		return
	}
	i := slices.Index(p.children, w)
	p.children = slices.Insert(slices.Delete(p.children, i, i+1), 0, w)
	if p.IsViewable() {
		p.tree.dispatch(event.Expose{Window: p.id})
	}
}

// Map makes the window visible.
func (w *Window) Map() {
	if w.mapped || w.destroyed {
		return
	}
	w.mapped = true
	w.tree.dispatch(event.Map{Window: w.id})
	w.expose()
}

// Unmap hides the window.
func (w *Window) Unmap() {
	if !w.mapped || w.destroyed {
		return
	}
	w.mapped = false
	w.tree.dispatch(event.Unmap{Window: w.id})
	if p := w.parent; p != nil && p.IsViewable() {
		p.tree.dispatch(event.Expose{Window: p.id})
	}
}

// MoveResize sets the window's position relative to its parent and its
// size. Sizes below one are raised to one.
func (w *Window) MoveResize(x, y, width, height int) {
	width, height = max(width, 1), max(height, 1)
	if w.destroyed || (w.x == x && w.y == y && w.width == width && w.height == height) {
		return
	}
	w.x, w.y, w.width, w.height = x, y, width, height
	w.tree.dispatch(event.Configure{Window: w.id, X: x, Y: y, Width: width, Height: height})
	w.expose()
}

func (w *Window) expose() {
	if w.IsViewable() {
		w.tree.dispatch(event.Expose{Window: w.id})
	}
}

// Manager returns the window's geometry manager, or nil.
func (w *Window) Manager() GeometryManager {
	return w.manager
}

// ManageGeometry makes m the window's geometry manager. A different previous
// manager is told it lost the window first. A nil m releases the window
// without notifying anyone.
func (w *Window) ManageGeometry(m GeometryManager) {
	if w.manager != nil && m != nil && w.manager != m {
		w.manager.LostSlave(w)
	}
	w.manager = m
}

// GeometryRequest records the size the window would like, at least 1×1.
// The manager, if any, is told when the request changes.
func (w *Window) GeometryRequest(width, height int) {
	width, height = max(width, 1), max(height, 1)
	if w.reqWidth == width && w.reqHeight == height {
		return
	}
	w.reqWidth, w.reqHeight = width, height
	if w.manager != nil {
		w.manager.RequestGeometry(w)
	}
}
