package dispatch

import (
	"runtime/debug"

	"github.com/dshills/termtk/internal/event"
)

// PanicHandler is called when a handler panics during dispatch.
// It receives the event being processed, the panic value, and the stack trace.
type PanicHandler func(ev event.Event, panicValue any, stack []byte)

// defaultPanicHandler is a no-op panic handler.
func defaultPanicHandler(event.Event, any, []byte) {}

// call runs fn with panic recovery.
func (d *Dispatcher) call(fn HandlerFunc, ev event.Event) {
	defer d.recoverPanic(ev)
	fn(ev)
}

// callGeneric runs fn with panic recovery. A panicking generic handler does
// not claim the event.
func (d *Dispatcher) callGeneric(fn GenericFunc, ev event.Event) (handled bool) {
	defer d.recoverPanic(ev)
	return fn(ev)
}

func (d *Dispatcher) recoverPanic(ev event.Event) {
	r := recover()
	if r == nil {
		return
	}
	d.stats.panicked++
	stack := debug.Stack()

	// Protect the panic handler call - don't let it crash the process
	func() {
		defer func() {
			_ = recover()
		}()
		d.onPanic(ev, r, stack)
	}()
}
