package pack

import (
	"github.com/dshills/termtk/internal/geometry"
)

// reqWidth is the space n needs horizontally, padding included.
func (n *node) reqWidth() int {
	return n.win.ReqWidth() + 2*n.ipadX + 2*n.padX
}

func (n *node) reqHeight() int {
	return n.win.ReqHeight() + 2*n.ipadY + 2*n.padY
}

// arrange lays out the slaves of m. The first pass computes the size m
// needs and, when that differs from its request, asks for it and runs again
// later. The second pass carves the cavity.
func (p *Packer) arrange(m *node) {
	m.pending = false
	m.stopArrange()
	if len(m.slaves) == 0 || m.dead {
		return
	}

	abort := false
	m.abort = &abort
	p.pin(m)
	defer func() {
		m.abort = nil
		p.unpin(m)
	}()

	width, height := 0, 0
	maxWidth, maxHeight := 0, 0
	for _, s := range m.slaves {
		if s.side.Horizontal() {
			maxHeight = max(maxHeight, s.reqHeight()+height)
			width += s.reqWidth()
		} else {
			maxWidth = max(maxWidth, s.reqWidth()+width)
			height += s.reqHeight()
		}
	}
	maxWidth = max(maxWidth, width)
	maxHeight = max(maxHeight, height)

	if !m.noPropagate && (maxWidth != m.win.ReqWidth() || maxHeight != m.win.ReqHeight()) {
		m.win.GeometryRequest(maxWidth, maxHeight)
		p.schedule(m)
		return
	}

	cavityX, cavityY := 0, 0
	cavityWidth, cavityHeight := m.win.Width(), m.win.Height()

	for i := 0; i < len(m.slaves); i++ {
		s := m.slaves[i]
		var frameX, frameY, frameWidth, frameHeight int

		if s.side.Horizontal() {
			frameHeight = cavityHeight
			frameWidth = s.win.ReqWidth() + 2*s.ipadX + 2*s.padX
			if s.expand {
				frameWidth += xExpansion(m.slaves[i:], cavityWidth)
			}
			cavityWidth -= frameWidth
			if cavityWidth < 0 {
				frameWidth += cavityWidth
				cavityWidth = 0
			}
			frameY = cavityY
			if s.side == geometry.SideLeft {
				frameX = cavityX
				cavityX += frameWidth
			} else {
				frameX = cavityX + cavityWidth
			}
		} else {
			frameWidth = cavityWidth
			frameHeight = s.win.ReqHeight() + 2*s.ipadY + 2*s.padY
			if s.expand {
				frameHeight += yExpansion(m.slaves[i:], cavityHeight)
			}
			cavityHeight -= frameHeight
			if cavityHeight < 0 {
				frameHeight += cavityHeight
				cavityHeight = 0
			}
			frameX = cavityX
			if s.side == geometry.SideTop {
				frameY = cavityY
				cavityY += frameHeight
			} else {
				frameY = cavityY + cavityHeight
			}
		}

		w := s.win.ReqWidth() + 2*s.ipadX
		if s.fill&geometry.FillX != 0 || w > frameWidth-2*s.padX {
			w = frameWidth - 2*s.padX
		}
		h := s.win.ReqHeight() + 2*s.ipadY
		if s.fill&geometry.FillY != 0 || h > frameHeight-2*s.padY {
			h = frameHeight - 2*s.padY
		}
		x, y := s.anchor.Position(frameX+s.padX, frameY+s.padY,
			frameWidth-2*s.padX, frameHeight-2*s.padY, w, h)

		p.place(s, m, x, y, w, h)
		if abort {
			return
		}
	}
}

// place moves s to (x, y) in m's coordinates, or hides it when it has no
// room.
func (p *Packer) place(s, m *node, x, y, w, h int) {
	if w <= 0 || h <= 0 {
		s.win.Unmap()
		return
	}
	ox, oy := geometry.MasterOffset(s.win, m.win)
	s.win.MoveResize(x+ox, y+oy, w, h)
	if s.master == m && m.win.IsMapped() {
		s.win.Map()
	}
}

// xExpansion returns how much extra width the first of slaves, which
// expands, may take from a cavity of the given width. The cavity is shared
// evenly among the expanding slaves that pack along the same axis, and no
// later left or right slave may be squeezed below its request.
func xExpansion(slaves []*node, cavityWidth int) int {
	minExpand := cavityWidth
	numExpand := 0
	for _, s := range slaves {
		childWidth := s.reqWidth()
		if s.side.Horizontal() {
			cavityWidth -= childWidth
			if s.expand {
				numExpand++
			}
		} else if numExpand > 0 {
			minExpand = min(minExpand, (cavityWidth-childWidth)/numExpand)
		}
	}
	if numExpand > 0 {
		minExpand = min(minExpand, cavityWidth/numExpand)
	}
	return max(minExpand, 0)
}

// yExpansion is xExpansion along the vertical axis.
func yExpansion(slaves []*node, cavityHeight int) int {
	minExpand := cavityHeight
	numExpand := 0
	for _, s := range slaves {
		childHeight := s.reqHeight()
		if !s.side.Horizontal() {
			cavityHeight -= childHeight
			if s.expand {
				numExpand++
			}
		} else if numExpand > 0 {
			minExpand = min(minExpand, (cavityHeight-childHeight)/numExpand)
		}
	}
	if numExpand > 0 {
		minExpand = min(minExpand, cavityHeight/numExpand)
	}
	return max(minExpand, 0)
}
