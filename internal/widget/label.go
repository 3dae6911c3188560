package widget

import (
	"strings"

	"github.com/dshills/termtk/internal/geometry"
	"github.com/dshills/termtk/internal/renderer"
	"github.com/dshills/termtk/internal/renderer/core"
	"github.com/dshills/termtk/internal/window"
)

// Label displays one or more lines of text.
type Label struct {
	base
	text   string
	lines  []string
	style  core.Style
	anchor geometry.Anchor
	padX   int
}

// LabelOptions configures a label.
type LabelOptions struct {
	Style core.Style
	// Anchor positions the text when the window is larger than it.
	Anchor geometry.Anchor
	// PadX is blank columns requested on each side of the text.
	PadX int
}

// NewLabel creates a label window named name under parent.
func NewLabel(parent *window.Window, name, text string, env Env, opts LabelOptions) (*Label, error) {
	l := &Label{style: opts.Style, anchor: opts.Anchor, padX: max(opts.PadX, 0)}
	b, err := newBase(parent, name, "Label", env, renderer.PainterFunc(l.paint))
	if err != nil {
		return nil, err
	}
	l.base = b
	l.SetText(text)
	return l, nil
}

// Text returns the label's text.
func (l *Label) Text() string {
	return l.text
}

// SetText replaces the text and requests a size that fits it.
func (l *Label) SetText(text string) {
	l.text = text
	l.lines = strings.Split(text, "\n")
	width := 0
	for _, line := range l.lines {
		width = max(width, core.StringWidth(line))
	}
	l.win.GeometryRequest(width+2*l.padX, len(l.lines))
	l.redraw()
}

// SetStyle changes the text style.
func (l *Label) SetStyle(style core.Style) {
	l.style = style
	l.redraw()
}

func (l *Label) paint(c *renderer.Canvas) {
	c.Fill(core.NewCell(' ', l.style))
	w, h := c.Size()
	textW := l.win.ReqWidth() - 2*l.padX
	x, y := l.anchor.Position(0, 0, w, h, textW, len(l.lines))
	for i, line := range l.lines {
		c.Text(x, y+i, line, l.style)
	}
}
