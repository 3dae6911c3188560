package renderer

import (
	"github.com/dshills/termtk/internal/renderer/backend"
	"github.com/dshills/termtk/internal/renderer/core"
)

// Canvas is a window's drawing surface. Coordinates are relative to the
// window; anything outside the clip rectangle is dropped.
type Canvas struct {
	backend       backend.Backend
	x, y          int
	width, height int
	clip          core.Rect
}

// Size returns the window's size.
func (c *Canvas) Size() (int, int) {
	return c.width, c.height
}

// SetCell sets the cell at window position (x, y).
func (c *Canvas) SetCell(x, y int, cell core.Cell) {
	sx, sy := c.x+x, c.y+y
	if c.clip.Contains(sx, sy) {
		c.backend.SetCell(sx, sy, cell)
	}
}

// Fill sets every cell of the window.
func (c *Canvas) Fill(cell core.Cell) {
	c.backend.Fill(c.clip, cell)
}

// Text draws s starting at (x, y) on one row and returns the number of
// columns it advanced. Wide runes take two columns.
func (c *Canvas) Text(x, y int, s string, style core.Style) int {
	col := x
	for _, r := range s {
		w := core.RuneWidth(r)
		if w == 0 {
			continue
		}
		c.SetCell(col, y, core.NewCell(r, style))
		col += w
	}
	return col - x
}
