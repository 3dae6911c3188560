package widget

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/termtk/internal/renderer"
	"github.com/dshills/termtk/internal/renderer/core"
	"github.com/dshills/termtk/internal/window"
)

// Frame is a container, optionally drawn with a single-line border and a
// title in its top edge. Children packed inside a bordered frame should use
// a padding of one to stay clear of the border.
type Frame struct {
	base
	title  string
	border bool
	style  core.Style
}

// FrameOptions configures a frame.
type FrameOptions struct {
	Title  string
	Border bool
	Style  core.Style
}

// NewFrame creates a frame window named name under parent.
func NewFrame(parent *window.Window, name string, env Env, opts FrameOptions) (*Frame, error) {
	f := &Frame{title: opts.Title, border: opts.Border, style: opts.Style}
	b, err := newBase(parent, name, "Frame", env, renderer.PainterFunc(f.paint))
	if err != nil {
		return nil, err
	}
	f.base = b
	f.request()
	return f, nil
}

// Title returns the frame's title.
func (f *Frame) Title() string {
	return f.title
}

// SetTitle replaces the title.
func (f *Frame) SetTitle(title string) {
	f.title = title
	f.request()
	f.redraw()
}

// request asks for room for the border and title. A packer propagating its
// slaves' sizes overrides this.
func (f *Frame) request() {
	if !f.border {
		return
	}
	w := 2
	if f.title != "" {
		w = core.StringWidth(f.title) + 4
	}
	f.win.GeometryRequest(w, 2)
}

func (f *Frame) paint(c *renderer.Canvas) {
	c.Fill(core.NewCell(' ', f.style))
	if !f.border {
		return
	}
	w, h := c.Size()
	cell := func(r rune) core.Cell { return core.NewCell(r, f.style) }
	for x := 1; x < w-1; x++ {
		c.SetCell(x, 0, cell(tcell.RuneHLine))
		c.SetCell(x, h-1, cell(tcell.RuneHLine))
	}
	for y := 1; y < h-1; y++ {
		c.SetCell(0, y, cell(tcell.RuneVLine))
		c.SetCell(w-1, y, cell(tcell.RuneVLine))
	}
	if f.title != "" && w > 4 {
		c.Text(2, 0, f.title, f.style.With(core.AttrBold))
	}
	// Corners go last so a long title never covers them.
	c.SetCell(0, 0, cell(tcell.RuneULCorner))
	c.SetCell(w-1, 0, cell(tcell.RuneURCorner))
	c.SetCell(0, h-1, cell(tcell.RuneLLCorner))
	c.SetCell(w-1, h-1, cell(tcell.RuneLRCorner))
}
