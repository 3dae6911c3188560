// Package geometry holds the vocabulary shared by geometry managers:
// anchors, sides, fill modes, and the idle scheduler they defer layout to.
package geometry

import (
	"errors"
	"fmt"

	"github.com/dshills/termtk/internal/event"
	"github.com/dshills/termtk/internal/event/dispatch"
	"github.com/dshills/termtk/internal/loop"
	"github.com/dshills/termtk/internal/window"
)

// Sentinel errors for option parsing.
var (
	ErrBadAnchor = errors.New("bad anchor")
	ErrBadSide   = errors.New("bad side")
	ErrBadFill   = errors.New("bad fill style")
)

// Scheduler defers work to the next idle point.
type Scheduler interface {
	DoWhenIdle(fn func()) loop.IdleID
	CancelIdle(id loop.IdleID) bool
}

// Events registers the native window handlers through which a manager
// follows structure changes of the windows it lays out.
type Events interface {
	CreateHandler(win event.WindowID, mask event.Mask, fn dispatch.HandlerFunc) (dispatch.HandlerID, error)
}

// Anchor is where a window sits within a larger area.
type Anchor uint8

const (
	AnchorCenter Anchor = iota
	AnchorN
	AnchorNE
	AnchorE
	AnchorSE
	AnchorS
	AnchorSW
	AnchorW
	AnchorNW
)

var anchorNames = [...]string{"center", "n", "ne", "e", "se", "s", "sw", "w", "nw"}

func (a Anchor) String() string {
	if int(a) < len(anchorNames) {
		return anchorNames[a]
	}
	return fmt.Sprintf("Anchor(%d)", a)
}

// ParseAnchor parses an anchor name such as "nw" or "center".
func ParseAnchor(s string) (Anchor, error) {
	for i, name := range anchorNames {
		if s == name {
			return Anchor(i), nil
		}
	}
	return 0, fmt.Errorf("%w %q: must be n, ne, e, se, s, sw, w, nw, or center", ErrBadAnchor, s)
}

// Position places a box of size w×h inside the area (x, y, areaW, areaH)
// according to a. Boxes larger than the area are placed at its origin along
// the overflowing axis.
func (a Anchor) Position(x, y, areaW, areaH, w, h int) (int, int) {
	dx, dy := 0, 0
	switch a {
	case AnchorN, AnchorCenter, AnchorS:
		dx = (areaW - w) / 2
	case AnchorNE, AnchorE, AnchorSE:
		dx = areaW - w
	}
	switch a {
	case AnchorW, AnchorCenter, AnchorE:
		dy = (areaH - h) / 2
	case AnchorSW, AnchorS, AnchorSE:
		dy = areaH - h
	}
	return x + max(dx, 0), y + max(dy, 0)
}

// Side is the cavity edge a packed window is placed against.
type Side uint8

const (
	SideTop Side = iota
	SideBottom
	SideLeft
	SideRight
)

var sideNames = [...]string{"top", "bottom", "left", "right"}

func (s Side) String() string {
	if int(s) < len(sideNames) {
		return sideNames[s]
	}
	return fmt.Sprintf("Side(%d)", s)
}

// Horizontal reports whether the side is left or right, so that the window
// takes a vertical strip of the cavity.
func (s Side) Horizontal() bool {
	return s == SideLeft || s == SideRight
}

// ParseSide parses a side name.
func ParseSide(s string) (Side, error) {
	for i, name := range sideNames {
		if s == name {
			return Side(i), nil
		}
	}
	return 0, fmt.Errorf("%w %q: must be top, bottom, left, or right", ErrBadSide, s)
}

// Fill selects the axes along which a window stretches to its parcel.
type Fill uint8

const (
	FillNone Fill = 0
	FillX    Fill = 1 << 0
	FillY    Fill = 1 << 1
	FillBoth      = FillX | FillY
)

func (f Fill) String() string {
	switch f {
	case FillNone:
		return "none"
	case FillX:
		return "x"
	case FillY:
		return "y"
	case FillBoth:
		return "both"
	default:
		return fmt.Sprintf("Fill(%d)", f)
	}
}

// ParseFill parses a fill style.
func ParseFill(s string) (Fill, error) {
	switch s {
	case "none":
		return FillNone, nil
	case "x":
		return FillX, nil
	case "y":
		return FillY, nil
	case "both":
		return FillBoth, nil
	}
	return 0, fmt.Errorf("%w %q: must be none, x, y, or both", ErrBadFill, s)
}

// MasterOffset returns the position of master's origin in the coordinate
// space of slave's parent. It is (0, 0) when master is the parent.
func MasterOffset(slave, master *window.Window) (int, int) {
	parent := slave.Parent()
	if parent == nil || parent == master {
		return 0, 0
	}
	mx, my := master.RootPosition()
	px, py := parent.RootPosition()
	return mx - px, my - py
}

// CanManage reports whether master may lay out slave: master must be the
// slave's parent or one of the parent's ancestors, and slave must not be a
// toplevel.
func CanManage(slave, master *window.Window) bool {
	if slave == master || slave.IsToplevel() {
		return false
	}
	for w := slave.Parent(); w != nil; w = w.Parent() {
		if w == master {
			return true
		}
		if w.IsToplevel() {
			return false
		}
	}
	return false
}
