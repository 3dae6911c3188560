package lua

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/termtk/internal/input/keymap"
)

// DefaultTimeout bounds a single evaluation.
const DefaultTimeout = time.Second

// signalMessage is the error raised by skip() and stop().
const signalMessage = "termtk: command signal"

// Interp evaluates commands in a sandboxed Lua state. It implements
// keymap.Interpreter. It is not safe for concurrent use; like the rest of
// the toolkit it belongs to the loop goroutine.
type Interp struct {
	L *lua.LState

	depth   int
	timeout time.Duration
	output  func(string)
	result  string
	signal  keymap.Code
	closed  bool
}

// Option configures an Interp.
type Option func(*Interp)

// WithTimeout sets the evaluation timeout. Zero or less disables it.
func WithTimeout(d time.Duration) Option {
	return func(i *Interp) {
		i.timeout = d
	}
}

// WithOutput sets where print writes. The default discards output.
func WithOutput(fn func(string)) Option {
	return func(i *Interp) {
		if fn != nil {
			i.output = fn
		}
	}
}

// New creates an interpreter.
func New(opts ...Option) *Interp {
	i := &Interp{
		timeout: DefaultTimeout,
		output:  func(string) {},
	}
	for _, opt := range opts {
		opt(i)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openLibraries(L)
	install(L, func(s string) { i.output(s) })
	L.SetGlobal("skip", L.NewFunction(i.raise(keymap.CodeContinue)))
	L.SetGlobal("stop", L.NewFunction(i.raise(keymap.CodeBreak)))
	i.L = L
	return i
}

func (i *Interp) raise(code keymap.Code) lua.LGFunction {
	return func(L *lua.LState) int {
		i.signal = code
		L.RaiseError(signalMessage)
		return 0
	}
}

// Eval compiles and runs script. A value returned by the chunk becomes the
// result.
func (i *Interp) Eval(script string) (code keymap.Code, err error) {
	if i.closed {
		return keymap.CodeError, ErrClosed
	}

	fn, err := i.L.LoadString(script)
	if err != nil {
		return keymap.CodeError, fmt.Errorf("lua: %w", err)
	}

	// A command may trigger bindings whose commands run inside it. The
	// outermost evaluation owns the deadline.
	ctx := i.L.Context()
	if i.depth == 0 {
		ctx = context.Background()
		if i.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, i.timeout)
			defer cancel()
		}
		i.L.SetContext(ctx)
		defer i.L.RemoveContext()
	}
	i.depth++
	defer func() { i.depth-- }()

	i.signal = keymap.CodeOK
	top := i.L.GetTop()
	defer func() {
		if r := recover(); r != nil {
			i.L.SetTop(top)
			i.signal = keymap.CodeOK
			code, err = keymap.CodeError, fmt.Errorf("lua panic: %v", r)
		}
	}()

	i.L.Push(fn)
	callErr := i.L.PCall(0, lua.MultRet, nil)
	if sig := i.signal; sig != keymap.CodeOK {
		i.signal = keymap.CodeOK
		i.L.SetTop(top)
		return sig, nil
	}
	if callErr != nil {
		i.L.SetTop(top)
		if ctx != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return keymap.CodeError, ErrTimeout
		}
		return keymap.CodeError, luaError(callErr)
	}

	if i.L.GetTop() > top {
		if v := i.L.Get(top + 1); v != lua.LNil {
			i.result = i.L.ToStringMeta(v).String()
		} else {
			i.result = ""
		}
	} else {
		i.result = ""
	}
	i.L.SetTop(top)
	return keymap.CodeOK, nil
}

// luaError strips the traceback from a runtime error.
func luaError(err error) error {
	var apiErr *lua.ApiError
	if errors.As(err, &apiErr) && apiErr.Object != nil {
		return fmt.Errorf("lua: %s", apiErr.Object.String())
	}
	return fmt.Errorf("lua: %w", err)
}

// Quote renders s as a Lua string literal.
func (i *Interp) Quote(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for j := 0; j < len(s); j++ {
		c := s[j]
		switch c {
		case '"', '\\':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if c < 0x20 || c == 0x7f {
				// Three digits so a following digit is not absorbed.
				fmt.Fprintf(&sb, `\%03d`, c)
			} else {
				sb.WriteByte(c)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// Result returns the value of the last successful evaluation.
func (i *Interp) Result() string {
	return i.result
}

// SetResult replaces the current result.
func (i *Interp) SetResult(s string) {
	i.result = s
}

// RegisterFunc registers a Go function as a global Lua function.
func (i *Interp) RegisterFunc(name string, fn lua.LGFunction) {
	if i.closed {
		return
	}
	i.L.SetGlobal(name, i.L.NewFunction(fn))
}

// Register registers a global function taking its arguments as strings.
// A non-empty return value is returned to Lua; an error is raised as a Lua
// error.
func (i *Interp) Register(name string, fn func(args []string) (string, error)) {
	i.RegisterFunc(name, func(L *lua.LState) int {
		n := L.GetTop()
		args := make([]string, n)
		for j := 1; j <= n; j++ {
			args[j-1] = L.ToStringMeta(L.Get(j)).String()
		}
		out, err := fn(args)
		if err != nil {
			L.RaiseError("%s: %s", name, err.Error())
			return 0
		}
		if out == "" {
			return 0
		}
		L.Push(lua.LString(out))
		return 1
	})
}

// RegisterModule registers a table of functions under name.
func (i *Interp) RegisterModule(name string, funcs map[string]lua.LGFunction) {
	if i.closed {
		return
	}
	i.L.SetGlobal(name, i.L.SetFuncs(i.L.NewTable(), funcs))
}

// SetGlobal sets a global variable to a string value.
func (i *Interp) SetGlobal(name, value string) {
	if i.closed {
		return
	}
	i.L.SetGlobal(name, lua.LString(value))
}

// Global returns a global variable as a string, or "" when it is nil.
func (i *Interp) Global(name string) string {
	if i.closed {
		return ""
	}
	v := i.L.GetGlobal(name)
	if v == lua.LNil {
		return ""
	}
	return i.L.ToStringMeta(v).String()
}

// Close releases the Lua state.
func (i *Interp) Close() error {
	if i.closed {
		return nil
	}
	i.L.Close()
	i.closed = true
	return nil
}

var _ keymap.Interpreter = (*Interp)(nil)
