// Package widget provides the frame and label widgets used by the demo
// application.
//
// A widget owns one window. It states its preferred size with a geometry
// request, paints through the renderer, and schedules a redraw whenever its
// window is exposed or hidden.
package widget

import (
	"github.com/dshills/termtk/internal/event"
	"github.com/dshills/termtk/internal/geometry"
	"github.com/dshills/termtk/internal/renderer"
	"github.com/dshills/termtk/internal/window"
)

// Env is the part of the application a widget talks to.
type Env struct {
	Events   geometry.Events
	Renderer *renderer.Renderer
}

// base is the window plumbing shared by all widgets.
type base struct {
	win *window.Window
	env Env
}

func newBase(parent *window.Window, name, class string, env Env, p renderer.Painter) (base, error) {
	w, err := parent.Tree().Create(parent, name, class)
	if err != nil {
		return base{}, err
	}
	b := base{win: w, env: env}
	env.Renderer.Register(w, p)
	_, err = env.Events.CreateHandler(w.ID(), event.MaskExpose|event.MaskStructure, b.handle)
	if err != nil {
		w.Tree().Destroy(w)
		env.Renderer.Unregister(w)
		return base{}, err
	}
	return b, nil
}

func (b base) handle(ev event.Event) {
	switch ev.(type) {
	case event.Expose, event.Unmap:
		b.env.Renderer.Schedule()
	case event.Destroy:
		b.env.Renderer.Unregister(b.win)
		b.env.Renderer.Schedule()
	}
}

// Window returns the widget's window.
func (b base) Window() *window.Window {
	return b.win
}

// Destroy destroys the widget's window and its descendants.
func (b base) Destroy() {
	b.win.Tree().Destroy(b.win)
}

func (b base) redraw() {
	if b.win.IsViewable() {
		b.env.Renderer.Schedule()
	}
}
