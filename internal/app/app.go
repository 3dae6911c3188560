// Package app wires the toolkit together: the terminal backend, the input
// normalizer, the event dispatcher, the binding table and its Lua
// interpreter, the window tree with its geometry managers, and the
// renderer, all driven by one event loop.
package app

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"github.com/dshills/termtk/internal/config"
	"github.com/dshills/termtk/internal/config/watcher"
	"github.com/dshills/termtk/internal/event/dispatch"
	"github.com/dshills/termtk/internal/geometry/pack"
	"github.com/dshills/termtk/internal/geometry/place"
	"github.com/dshills/termtk/internal/input"
	"github.com/dshills/termtk/internal/input/key"
	"github.com/dshills/termtk/internal/input/keymap"
	"github.com/dshills/termtk/internal/loop"
	"github.com/dshills/termtk/internal/renderer"
	"github.com/dshills/termtk/internal/renderer/backend"
	"github.com/dshills/termtk/internal/script/lua"
	"github.com/dshills/termtk/internal/widget"
	"github.com/dshills/termtk/internal/window"
)

// Version is the toolkit version, set with -ldflags at build time.
var Version = "0.1.0"

// Application owns every toolkit component. Apart from Run, Shutdown and
// IsRunning its methods must be called from the loop goroutine.
type Application struct {
	opts    Options
	config  *config.Config
	logger  *Logger
	logFile io.Closer
	metrics *Metrics

	backend  backend.Backend
	keys     *key.Registry
	loop     *loop.Loop
	tree     *window.Tree
	events   *dispatch.Dispatcher
	table    *keymap.Table
	interp   *lua.Interp
	input    *input.Normalizer
	packer   *pack.Packer
	placer   *place.Placer
	renderer *renderer.Renderer
	watcher  *watcher.Watcher

	labels map[string]*widget.Label

	running atomic.Bool
	closed  atomic.Bool
}

// Options configures the application.
type Options struct {
	// ConfigPath is the configuration file. Empty means the default
	// location, which may be absent.
	ConfigPath string

	// BindingsPath overrides the binding file named in the configuration.
	BindingsPath string

	// LogLevel overrides the configured log level when not empty.
	LogLevel string

	// Backend is the terminal to run on.
	Backend backend.Backend

	// Environ supplies the TERMTK_* overrides. Defaults to os.Environ.
	Environ func() []string

	// LogOutput receives the log when no log file is configured. Nil
	// means standard error.
	LogOutput io.Writer

	// Logger replaces the logger built from the configuration.
	Logger *Logger
}

// New creates an application with the given options.
func New(opts Options) (*Application, error) {
	if opts.Backend == nil {
		return nil, &InitError{Component: "backend", Err: ErrNoBackend}
	}
	app := &Application{
		opts:    opts,
		metrics: NewMetrics(),
		labels:  make(map[string]*widget.Label),
	}
	if err := newBootstrapper(app, opts).bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

// Run initializes the terminal and processes events until ctx is done or
// a command calls quit(). Quitting is not an error.
func (app *Application) Run(ctx context.Context) error {
	if app.closed.Load() {
		return ErrClosed
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if err := app.backend.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	defer app.backend.Shutdown()

	w, h := app.backend.Size()
	app.tree.Resize(max(w, 1), max(h, 1))
	if app.config.Input.Mouse {
		app.backend.EnableMouse()
	}
	app.renderer.Schedule()

	go app.readInput()

	app.logger.Info("running on a %dx%d screen", w, h)
	err := app.loop.Run(ctx)
	if err != nil && ctx.Err() != nil {
		app.logger.Info("stopped: %v", err)
		return nil
	}
	return err
}

// readInput forwards backend events to the loop until the backend shuts
// down.
func (app *Application) readInput() {
	for {
		ev := app.backend.PollEvent()
		if ev.Type == backend.EventInterrupt {
			return
		}
		app.loop.Post(func() {
			t := StartTimer()
			app.input.Handle(ev)
			app.metrics.RecordEvent(t.Elapsed())
		})
	}
}

// Quit stops the event loop. Run returns once the current event is done.
func (app *Application) Quit() {
	app.logger.Debug("quit requested")
	app.loop.Stop()
}

// Shutdown releases the interpreter, the file watcher and the log file.
// The application can't be run afterwards.
func (app *Application) Shutdown() {
	if !app.closed.CompareAndSwap(false, true) {
		return
	}
	if app.watcher != nil {
		app.logComponentError("watcher", app.watcher.Close())
	}
	app.logComponentError("interpreter", app.interp.Close())

	m, in := app.metrics.Snapshot(), app.input.Metrics().Snapshot()
	app.logger.WithFields(map[string]any{
		"events":        m.Events,
		"event_max":     m.EventMax,
		"keys":          in.Keys,
		"barcodes":      in.Barcodes,
		"script_errors": m.ScriptErrors,
		"panics":        m.Panics,
	}).Info("shut down after %v", m.Uptime.Round(time.Second))
	if app.logFile != nil {
		_ = app.logFile.Close()
	}
}

// IsRunning reports whether Run is in progress.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Config returns the loaded configuration.
func (app *Application) Config() *config.Config { return app.config }

// Loop returns the event loop.
func (app *Application) Loop() *loop.Loop { return app.loop }

// Tree returns the window tree.
func (app *Application) Tree() *window.Tree { return app.tree }

// Dispatcher returns the event dispatcher.
func (app *Application) Dispatcher() *dispatch.Dispatcher { return app.events }

// Bindings returns the binding table.
func (app *Application) Bindings() *keymap.Table { return app.table }

// Interp returns the command interpreter.
func (app *Application) Interp() *lua.Interp { return app.interp }

// Input returns the input normalizer.
func (app *Application) Input() *input.Normalizer { return app.input }

// Packer returns the packer geometry manager.
func (app *Application) Packer() *pack.Packer { return app.packer }

// Placer returns the placer geometry manager.
func (app *Application) Placer() *place.Placer { return app.placer }

// Renderer returns the renderer.
func (app *Application) Renderer() *renderer.Renderer { return app.renderer }

// Keys returns the keysym registry.
func (app *Application) Keys() *key.Registry { return app.keys }

// WidgetEnv returns what widgets need to attach to this application.
func (app *Application) WidgetEnv() widget.Env {
	return widget.Env{Events: app.events, Renderer: app.renderer}
}
