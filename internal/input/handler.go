package input

import (
	"time"

	"github.com/dshills/termtk/internal/event"
	"github.com/dshills/termtk/internal/input/key"
	"github.com/dshills/termtk/internal/input/mouse"
	"github.com/dshills/termtk/internal/loop"
	"github.com/dshills/termtk/internal/renderer/backend"
	"github.com/dshills/termtk/internal/window"
)

// BarcodeConfig configures barcode packet recognition.
type BarcodeConfig struct {
	// Enabled turns packet recognition on.
	Enabled bool

	// LeadIn is the key code that starts a packet (default: Ctrl-B).
	LeadIn int

	// Trailer is the key code that ends a packet (default: Return).
	Trailer int

	// Timeout is the longest gap allowed between two codes of a packet.
	// Default: 100ms
	Timeout time.Duration

	// MaxLength is the longest payload accepted (default: 256).
	MaxLength int
}

// Config configures the normalizer.
type Config struct {
	Barcode BarcodeConfig
}

// DefaultConfig returns a configuration with barcode recognition off.
func DefaultConfig() Config {
	return Config{
		Barcode: BarcodeConfig{
			LeadIn:    0x02,
			Trailer:   key.Return,
			Timeout:   100 * time.Millisecond,
			MaxLength: 256,
		},
	}
}

// Sink receives normalized events.
type Sink interface {
	Dispatch(ev event.Event)
}

// Timers schedules one-shot callbacks.
type Timers interface {
	After(d time.Duration, fn func()) loop.TimerID
	CancelTimer(id loop.TimerID) bool
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithClock sets the time source used to stamp key events.
func WithClock(now func() time.Time) Option {
	return func(n *Normalizer) {
		if now != nil {
			n.now = now
		}
	}
}

// WithConfig sets the normalizer configuration.
func WithConfig(cfg Config) Option {
	return func(n *Normalizer) {
		n.SetConfig(cfg)
	}
}

// Normalizer converts backend events into toolkit events. It must be used
// from the loop goroutine.
type Normalizer struct {
	tree   *window.Tree
	sink   Sink
	timers Timers
	config Config
	now    func() time.Time
	hooks  *HookManager
	stats  *Metrics

	buttons mouse.Tracker
	grab    event.WindowID

	collecting bool
	packet     []int
	timer      loop.TimerID
}

// New creates a normalizer delivering events for tree to sink.
func New(tree *window.Tree, sink Sink, timers Timers, opts ...Option) *Normalizer {
	n := &Normalizer{
		tree:   tree,
		sink:   sink,
		timers: timers,
		config: DefaultConfig(),
		now:    time.Now,
		hooks:  NewHookManager(),
		stats:  NewMetrics(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// SetConfig replaces the configuration. A packet being collected is
// replayed as keys.
func (n *Normalizer) SetConfig(cfg Config) {
	if n.collecting {
		n.abandon()
	}
	def := DefaultConfig().Barcode
	if cfg.Barcode.Timeout <= 0 {
		cfg.Barcode.Timeout = def.Timeout
	}
	if cfg.Barcode.MaxLength <= 0 {
		cfg.Barcode.MaxLength = def.MaxLength
	}
	n.config = cfg
}

// Config returns the current configuration.
func (n *Normalizer) Config() Config {
	return n.config
}

// Hooks returns the hook manager consulted before each backend event.
func (n *Normalizer) Hooks() *HookManager {
	return n.hooks
}

// Metrics returns the normalizer's counters.
func (n *Normalizer) Metrics() *Metrics {
	return n.stats
}

// Handle processes one backend event.
func (n *Normalizer) Handle(ev backend.Event) {
	if n.hooks.Run(ev) {
		n.stats.hookConsumed.Add(1)
		return
	}
	switch ev.Type {
	case backend.EventKey:
		n.handleKey(ev)
	case backend.EventMouse:
		n.handleMouse(ev)
	case backend.EventResize:
		n.tree.Resize(ev.Width, ev.Height)
	}
}

func (n *Normalizer) handleKey(ev backend.Event) {
	code, ok := KeyCode(ev.Key, ev.Rune)
	if !ok {
		n.stats.dropped.Add(1)
		return
	}
	if ev.Mod.Has(backend.ModAlt) {
		n.code(key.Escape)
	}
	n.code(code)
}

// code runs one key code through barcode recognition.
func (n *Normalizer) code(c int) {
	bc := n.config.Barcode
	switch {
	case n.collecting && c == bc.Trailer:
		n.timers.CancelTimer(n.timer)
		data := make([]rune, len(n.packet))
		for i, p := range n.packet {
			data[i] = rune(p)
		}
		n.collecting = false
		n.packet = nil
		n.stats.barcodes.Add(1)
		n.sink.Dispatch(event.Barcode{Window: n.tree.Focus().ID(), Data: string(data)})

	case n.collecting:
		n.timers.CancelTimer(n.timer)
		n.packet = append(n.packet, c)
		if len(n.packet) > bc.MaxLength {
			n.abandon()
			return
		}
		n.timer = n.timers.After(bc.Timeout, n.abandon)

	case bc.Enabled && c == bc.LeadIn:
		n.collecting = true
		n.packet = n.packet[:0]
		n.timer = n.timers.After(bc.Timeout, n.abandon)

	default:
		n.key(c)
	}
}

// abandon gives up on the current packet and delivers its codes as keys.
func (n *Normalizer) abandon() {
	if !n.collecting {
		return
	}
	n.timers.CancelTimer(n.timer)
	codes := append([]int{n.config.Barcode.LeadIn}, n.packet...)
	n.collecting = false
	n.packet = nil
	n.stats.replayed.Add(1)
	for _, c := range codes {
		n.key(c)
	}
}

func (n *Normalizer) key(c int) {
	n.stats.keys.Add(1)
	n.sink.Dispatch(event.Key{Window: n.tree.Focus().ID(), Code: c, Time: n.now()})
}

func (n *Normalizer) handleMouse(ev backend.Event) {
	for _, tr := range n.buttons.Update(ev.Buttons) {
		target := n.target(ev.MouseX, ev.MouseY)
		if target == nil {
			n.stats.dropped.Add(1)
			continue
		}
		if tr.Action == mouse.ActionPress && !tr.Button.IsWheel() && n.grab == 0 {
			n.grab = target.ID()
		}
		wx, wy := target.RootPosition()
		x, y := ev.MouseX-wx, ev.MouseY-wy
		n.stats.buttons.Add(1)
		if tr.Action == mouse.ActionPress {
			n.sink.Dispatch(event.ButtonPress{
				Window: target.ID(),
				Button: int(tr.Button),
				X:      x,
				Y:      y,
				RootX:  ev.MouseX,
				RootY:  ev.MouseY,
			})
		} else {
			n.sink.Dispatch(event.ButtonRelease{
				Window: target.ID(),
				Button: int(tr.Button),
				X:      x,
				Y:      y,
				RootX:  ev.MouseX,
				RootY:  ev.MouseY,
			})
		}
	}
	if !n.buttons.Pressed() {
		n.grab = 0
	}
}

// target returns the grab window while one is held, otherwise the window
// under the pointer.
func (n *Normalizer) target(x, y int) *window.Window {
	if n.grab != 0 {
		if w, ok := n.tree.Get(n.grab); ok {
			return w
		}
		n.grab = 0
	}
	return n.tree.WindowAt(x, y)
}

// KeyCode returns the toolkit key code for a backend key.
func KeyCode(k backend.Key, r rune) (int, bool) {
	switch k {
	case backend.KeyRune, backend.KeyControl:
		return int(r), true
	}
	if fn := k.FunctionKey(); fn > 0 && fn <= key.MaxFunctionKey {
		return key.F(fn), true
	}
	c, ok := specialKeys[k]
	return c, ok
}

var specialKeys = map[backend.Key]int{
	backend.KeyUp:       key.Up,
	backend.KeyDown:     key.Down,
	backend.KeyLeft:     key.Left,
	backend.KeyRight:    key.Right,
	backend.KeyHome:     key.Home,
	backend.KeyEnd:      key.End,
	backend.KeyPageUp:   key.PrevPage,
	backend.KeyPageDown: key.NextPage,
	backend.KeyInsert:   key.InsertChar,
	backend.KeyDelete:   key.DeleteChar,
	backend.KeyBacktab:  key.BackTab,
	backend.KeyHelp:     key.Help,
	backend.KeyPrint:    key.Print,
	backend.KeyClear:    key.Clear,
}
