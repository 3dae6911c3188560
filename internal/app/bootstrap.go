package app

import (
	"errors"
	"fmt"
	"os"

	"github.com/dshills/termtk/internal/config"
	"github.com/dshills/termtk/internal/config/watcher"
	"github.com/dshills/termtk/internal/event"
	"github.com/dshills/termtk/internal/event/dispatch"
	"github.com/dshills/termtk/internal/geometry/pack"
	"github.com/dshills/termtk/internal/geometry/place"
	"github.com/dshills/termtk/internal/input"
	"github.com/dshills/termtk/internal/input/key"
	"github.com/dshills/termtk/internal/input/keymap"
	"github.com/dshills/termtk/internal/loop"
	"github.com/dshills/termtk/internal/renderer"
	"github.com/dshills/termtk/internal/script/lua"
	"github.com/dshills/termtk/internal/window"
)

// bootstrapper handles component initialization with proper cleanup on failure.
type bootstrapper struct {
	app       *Application
	opts      Options
	initOrder []string
}

// newBootstrapper creates a new bootstrapper for the application.
func newBootstrapper(app *Application, opts Options) *bootstrapper {
	return &bootstrapper{
		app:       app,
		opts:      opts,
		initOrder: make([]string, 0, 8),
	}
}

// bootstrap initializes all components in dependency order.
// On failure, it cleans up already-initialized components.
func (b *bootstrapper) bootstrap() error {
	steps := []func() error{
		b.initConfig,
		b.initLogger,
		b.initCore,
		b.initInterp,
		b.initBindings,
		b.initInput,
		b.initWatcher,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			b.cleanup()
			return err
		}
	}
	return nil
}

// initConfig loads the configuration file and environment overrides.
func (b *bootstrapper) initConfig() error {
	path := b.opts.ConfigPath
	if path == "" {
		if def := config.DefaultPath(); def != "" {
			if _, err := os.Stat(def); err == nil {
				path = def
			}
		}
	}

	cfg, err := config.Load(path, config.WithEnviron(b.opts.Environ))
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	if b.opts.LogLevel != "" {
		cfg.Log.Level = b.opts.LogLevel
	}
	if b.opts.BindingsPath != "" {
		cfg.Bindings.File = b.opts.BindingsPath
		if _, ok := keymap.FormatOf(cfg.Bindings.File); !ok {
			return &InitError{Component: "config", Err: &config.ValidationError{
				Path:    "bindings.file",
				Message: "must end in .yaml, .yml or .toml",
				Value:   cfg.Bindings.File,
			}}
		}
	}
	b.app.config = cfg
	return nil
}

// initLogger builds the logger from the log settings.
func (b *bootstrapper) initLogger() error {
	if b.opts.Logger != nil {
		b.app.logger = b.opts.Logger
		return nil
	}
	logger, closer, err := OpenLogger(b.app.config.Log, b.opts.LogOutput)
	if err != nil {
		return &InitError{Component: "logger", Err: err}
	}
	b.app.logger = logger
	b.app.logFile = closer
	b.initOrder = append(b.initOrder, "logger")

	if path := b.app.config.Path(); path != "" {
		logger.Info("loaded configuration from %s", path)
	}
	return nil
}

// initCore creates the loop, the window tree, the dispatcher, the geometry
// managers and the renderer.
func (b *bootstrapper) initCore() error {
	app := b.app
	app.backend = b.opts.Backend
	app.keys = key.NewRegistry()
	app.loop = loop.New()

	w, h := app.backend.Size()
	app.tree = window.NewTree(max(w, 1), max(h, 1))

	log := app.logger.WithComponent("dispatch")
	app.events = dispatch.New(app.tree, dispatch.BinderFunc(app.bindEvent),
		dispatch.WithPanicHandler(func(ev event.Event, v any, stack []byte) {
			app.metrics.RecordPanic()
			log.Error("handler for %s: %v", ev.Type(), NewRecoveredPanicError(v, string(stack)))
		}))
	app.tree.SetSink(app.events)

	app.packer = pack.New(app.loop, app.events)
	app.placer = place.New(app.loop, app.events)
	app.renderer = renderer.New(app.backend, app.tree, app.loop)
	return nil
}

// initInterp creates the Lua interpreter and registers the commands.
func (b *bootstrapper) initInterp() error {
	log := b.app.logger.WithComponent("lua")
	b.app.interp = lua.New(
		lua.WithTimeout(b.app.config.Script.Timeout.Duration),
		lua.WithOutput(func(s string) { log.Info("%s", s) }),
	)
	b.initOrder = append(b.initOrder, "interp")
	b.app.registerCommands()
	return nil
}

// initBindings creates the binding table and installs the configured
// bindings.
func (b *bootstrapper) initBindings() error {
	app := b.app
	log := app.logger.WithComponent("bindings")
	app.table = keymap.NewTable(app.keys, app.interp,
		keymap.WithRingSize(app.config.Input.RingSize),
		keymap.WithPathFunc(app.tree.PathOf),
		keymap.WithErrorHandler(func(err error) {
			app.metrics.RecordScriptError()
			log.Error("%v", err)
		}),
	)
	app.tree.OnDestroy(func(w *window.Window) {
		app.table.DeleteAll(w.Path())
		delete(app.labels, w.Path())
	})

	if err := app.loadBindings(); err != nil {
		return &InitError{Component: "bindings", Err: err}
	}
	return nil
}

// initInput creates the input normalizer.
func (b *bootstrapper) initInput() error {
	cfg, err := inputConfig(b.app.config, b.app.keys)
	if err != nil {
		return &InitError{Component: "input", Err: err}
	}
	b.app.input = input.New(b.app.tree, b.app.events, b.app.loop, input.WithConfig(cfg))
	return nil
}

// initWatcher starts watching the binding file when asked to.
func (b *bootstrapper) initWatcher() error {
	app := b.app
	path := app.config.BindingsPath()
	if !app.config.Bindings.Watch || path == "" {
		return nil
	}
	log := app.logger.WithComponent("watcher")
	w, err := watcher.New(watcher.WithErrorHandler(func(err error) {
		log.Warn("%v", err)
	}))
	if err != nil {
		// Live reload is a convenience; run without it.
		log.Warn("binding file won't be reloaded: %v", err)
		return nil
	}
	if err := w.Watch(path); err != nil {
		log.Warn("binding file won't be reloaded: %v", err)
		_ = w.Close()
		return nil
	}
	w.OnChange(func(ev watcher.Event) {
		app.loop.Post(func() {
			log.Debug("%s %s", ev.Path, ev.Op)
			app.ReloadBindings()
		})
	})
	app.watcher = w
	b.initOrder = append(b.initOrder, "watcher")
	return nil
}

// inputConfig converts the barcode settings into normalizer settings.
func inputConfig(cfg *config.Config, keys *key.Registry) (input.Config, error) {
	out := input.DefaultConfig()
	bc := cfg.Barcode
	out.Barcode.Enabled = bc.Enabled
	out.Barcode.Timeout = bc.Timeout.Duration
	out.Barcode.MaxLength = bc.MaxLength
	if !bc.Enabled {
		return out, nil
	}
	lead, trail, err := bc.Codes(keys)
	if err != nil {
		return input.Config{}, err
	}
	out.Barcode.LeadIn = lead
	out.Barcode.Trailer = trail
	return out, nil
}

// cleanup performs cleanup in reverse initialization order.
// Called when bootstrap fails partway through.
func (b *bootstrapper) cleanup() {
	for i := len(b.initOrder) - 1; i >= 0; i-- {
		b.cleanupComponent(b.initOrder[i])
	}
}

// cleanupComponent cleans up a single component.
func (b *bootstrapper) cleanupComponent(component string) {
	switch component {
	case "watcher":
		if b.app.watcher != nil {
			_ = b.app.watcher.Close()
			b.app.watcher = nil
		}
	case "interp":
		if b.app.interp != nil {
			_ = b.app.interp.Close()
			b.app.interp = nil
		}
	case "logger":
		if b.app.logFile != nil {
			_ = b.app.logFile.Close()
			b.app.logFile = nil
		}
	}
}

// ErrBindings marks a failure to read or install bindings.
var ErrBindings = errors.New("bindings")

// loadBindings installs the default, inline and file bindings, in that
// order, into an empty table. Every source is attempted.
func (app *Application) loadBindings() error {
	app.table.Reset()

	errs := NewErrorList()
	if app.config.Bindings.Defaults {
		errs.Add(keymap.Apply(app.table, keymap.Defaults()))
	}
	errs.Add(keymap.Apply(app.table, app.config.Bind))

	if path := app.config.BindingsPath(); path != "" {
		bindings, err := keymap.NewLoader().LoadFile(path)
		if err != nil {
			errs.Add(err)
		} else {
			errs.Add(keymap.Apply(app.table, bindings))
		}
	}

	if errs.HasErrors() {
		return fmt.Errorf("%w: %w", ErrBindings, errors.Join(errs.Errors()...))
	}
	app.logger.WithComponent("bindings").Debug("%d sequences bound", app.table.Len())
	return nil
}

// ReloadBindings reinstalls every binding, picking up changes to the
// binding file. Bindings made by commands since the last load are lost.
// Failures are logged; the entries that did parse stay installed.
func (app *Application) ReloadBindings() {
	app.metrics.RecordReload()
	if err := app.loadBindings(); err != nil {
		app.metrics.RecordReloadError()
		app.logComponentError("bindings", NewComponentError("bindings", "reload", err))
		return
	}
	app.logger.WithComponent("bindings").Info("reloaded")
}
