package app

import (
	"github.com/dshills/termtk/internal/event"
	"github.com/dshills/termtk/internal/geometry"
	"github.com/dshills/termtk/internal/geometry/pack"
	"github.com/dshills/termtk/internal/geometry/place"
	"github.com/dshills/termtk/internal/input/keymap"
	"github.com/dshills/termtk/internal/renderer/core"
	"github.com/dshills/termtk/internal/widget"
	"github.com/dshills/termtk/internal/window"
)

// DemoTag is the binding object shared by the demo windows.
const DemoTag = "Demo"

// demoBindings echo input into the demo's status labels.
var demoBindings = []keymap.Binding{
	{Object: DemoTag, Sequence: "<Key>", Command: `set_text(".main.last", "key " .. %K)`},
	{Object: DemoTag, Sequence: "<Barcode>", Command: `set_text(".main.last", "barcode " .. %A)`},
	{Object: DemoTag, Sequence: "<FocusIn>", Command: `set_text(".main.focus", "focus " .. %W)`},
	{Object: DemoTag, Sequence: "<ButtonRelease>", Command: `set_text(".main.last", "button " .. %b .. " at " .. %x .. "," .. %y)`},
}

// BuildDemo creates the demo interface: a bordered frame of labels laid
// out by the packer, and a badge in the top right corner laid out by the
// placer.
func (app *Application) BuildDemo() error {
	env := app.WidgetEnv()
	root := app.tree.Root()

	frame, err := widget.NewFrame(root, "main", env, widget.FrameOptions{Title: "termtk", Border: true})
	if err != nil {
		return err
	}
	if err := app.packer.Pack(frame.Window(), pack.Options{Expand: true, Fill: geometry.FillBoth}); err != nil {
		return err
	}

	labels := []struct {
		name, text string
		anchor     geometry.Anchor
	}{
		{"hello", "A character-terminal widget toolkit", geometry.AnchorCenter},
		{"help", "Tab: next  Shift-Tab: previous  Ctrl-Q: quit", geometry.AnchorCenter},
		{"focus", "focus .", geometry.AnchorW},
		{"last", "press a key", geometry.AnchorW},
	}
	for _, spec := range labels {
		l, err := app.NewLabel(frame.Window(), spec.name, spec.text, widget.LabelOptions{Anchor: spec.anchor, PadX: 1})
		if err != nil {
			return err
		}
		opts := pack.Options{Fill: geometry.FillX, PadX: 1}
		if spec.name == "hello" {
			opts.PadY = 1
		}
		if err := app.packer.Pack(l.Window(), opts); err != nil {
			return err
		}
		app.demoWindow(l)
	}

	badge, err := app.NewLabel(root, "badge", "v"+Version, widget.LabelOptions{
		Style: core.DefaultStyle().With(core.AttrReverse),
	})
	if err != nil {
		return err
	}
	err = app.placer.Place(badge.Window(), place.Options{RelX: 1, X: -2, Anchor: geometry.AnchorNE})
	if err != nil {
		return err
	}

	root.SetBindTags([]string{root.Path(), DemoTag, "all"})
	frame.Window().SetBindTags([]string{frame.Window().Path(), "Frame", DemoTag, "all"})
	return keymap.Apply(app.table, demoBindings)
}

// NewLabel creates a label whose text scripts can change with set_text.
func (app *Application) NewLabel(parent *window.Window, name, text string, opts widget.LabelOptions) (*widget.Label, error) {
	l, err := widget.NewLabel(parent, name, text, app.WidgetEnv(), opts)
	if err != nil {
		return nil, err
	}
	app.labels[l.Window().Path()] = l
	return l, nil
}

// demoWindow tags a demo label and highlights it while it has the focus.
func (app *Application) demoWindow(l *widget.Label) {
	w := l.Window()
	w.SetBindTags([]string{w.Path(), w.Class(), DemoTag, "all"})
	normal := core.DefaultStyle()
	focused := normal.With(core.AttrReverse)
	_, err := app.events.CreateHandler(w.ID(), event.MaskFocus, func(ev event.Event) {
		if _, in := ev.(event.FocusIn); in {
			l.SetStyle(focused)
		} else {
			l.SetStyle(normal)
		}
	})
	app.logComponentError("demo", err)
}
