package app

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dshills/termtk/internal/event"
	"github.com/dshills/termtk/internal/window"
)

// Command errors.
var (
	ErrBadWindow = errors.New("bad window path")
	ErrArgs      = errors.New("wrong number of arguments")
)

// bindEvent passes an event that its window's handlers did not consume to
// the binding table.
func (app *Application) bindEvent(ev event.Event) {
	if app.table == nil {
		return
	}
	w, ok := app.tree.Get(ev.Target())
	if !ok {
		return
	}
	app.table.BindEvent(ev, w.BindTags())
}

// registerCommands makes the application's commands callable from bound
// scripts.
func (app *Application) registerCommands() {
	cmds := map[string]func(args []string) (string, error){
		"quit":       app.cmdQuit,
		"focus":      app.cmdFocus,
		"focus_next": func([]string) (string, error) { return app.focusStep(1) },
		"focus_prev": func([]string) (string, error) { return app.focusStep(-1) },
		"redraw":     app.cmdRedraw,
		"bell":       app.cmdBell,
		"log":        app.cmdLog,
		"bind":       app.cmdBind,
		"unbind":     app.cmdUnbind,
		"set_text":   app.cmdSetText,
	}
	for name, fn := range cmds {
		app.interp.Register(name, fn)
	}
}

func (app *Application) cmdQuit([]string) (string, error) {
	app.Quit()
	return "", nil
}

// cmdFocus moves the focus to the named window, or returns the focused
// window's path when called without arguments.
func (app *Application) cmdFocus(args []string) (string, error) {
	if len(args) == 0 {
		return app.tree.Focus().Path(), nil
	}
	w, err := app.lookupWindow(args[0])
	if err != nil {
		return "", err
	}
	app.tree.SetFocus(w)
	return "", nil
}

// focusStep moves the focus dir steps through the traversal order,
// wrapping at either end.
func (app *Application) focusStep(dir int) (string, error) {
	order := app.tree.Traverse()
	if len(order) == 0 {
		return "", nil
	}
	i := slices.Index(order, app.tree.Focus())
	switch {
	case i < 0 && dir > 0:
		i = 0
	case i < 0:
		i = len(order) - 1
	default:
		i = (i + dir + len(order)) % len(order)
	}
	app.tree.SetFocus(order[i])
	return order[i].Path(), nil
}

func (app *Application) cmdRedraw([]string) (string, error) {
	app.renderer.Schedule()
	return "", nil
}

func (app *Application) cmdBell([]string) (string, error) {
	app.backend.Beep()
	return "", nil
}

func (app *Application) cmdLog(args []string) (string, error) {
	app.logger.WithComponent("script").Info("%s", strings.Join(args, " "))
	return "", nil
}

// cmdBind binds a command: bind(object, sequence, command). A command
// starting with "+" is appended to the existing one. With two arguments it
// returns the bound command.
func (app *Application) cmdBind(args []string) (string, error) {
	switch len(args) {
	case 2:
		cmd, _ := app.table.Command(args[0], args[1])
		return cmd, nil
	case 3:
		if cmd, ok := strings.CutPrefix(args[2], "+"); ok {
			return "", app.table.AppendBinding(args[0], args[1], cmd)
		}
		return "", app.table.Bind(args[0], args[1], args[2])
	}
	return "", fmt.Errorf("%w: bind(object, sequence[, command])", ErrArgs)
}

func (app *Application) cmdUnbind(args []string) (string, error) {
	if len(args) != 2 {
		return "", fmt.Errorf("%w: unbind(object, sequence)", ErrArgs)
	}
	_, err := app.table.Unbind(args[0], args[1])
	return "", err
}

func (app *Application) cmdSetText(args []string) (string, error) {
	if len(args) != 2 {
		return "", fmt.Errorf("%w: set_text(path, text)", ErrArgs)
	}
	l, ok := app.labels[args[0]]
	if !ok {
		return "", fmt.Errorf("%w: %s is not a label", ErrBadWindow, args[0])
	}
	l.SetText(args[1])
	return "", nil
}

func (app *Application) lookupWindow(path string) (*window.Window, error) {
	w, ok := app.tree.Lookup(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBadWindow, path)
	}
	return w, nil
}
