// Package dispatch routes normalized events to native handlers and then to
// the binding table.
//
// Every event passes through three stages, in order:
//
//	event ──▶ generic handlers ──▶ window handlers ──▶ binder
//	            (any window;         (target window,     (command bindings,
//	             may claim it)        registration order)  only if the window
//	                                                       still exists)
//
// Handlers may do anything while they run, including creating and deleting
// other handlers, dispatching further events, and destroying the window being
// dispatched to. The dispatcher keeps a stack of pending frames, one per
// active Dispatch call, so such changes are safe at every nesting level:
//
//   - deleting a handler that a pending frame would visit next moves the
//     frame on to the handler's successor;
//   - destroying a window marks every frame targeting it dead, which ends
//     handler iteration and suppresses the binder for that event;
//   - deleting a generic handler while generic handlers are running only
//     marks it, and it is unlinked when the outermost generic walk ends.
//
// # Panic Recovery
//
// A handler panic is recovered and reported through the PanicHandler, and
// dispatch continues with the next handler.
//
// # Usage
//
//	d := dispatch.New(tree, binder,
//	    dispatch.WithPanicHandler(func(ev event.Event, v any, stack []byte) {
//	        logger.Error("handler panic: %v\n%s", v, stack)
//	    }),
//	)
//	id := d.CreateHandler(win, event.MaskStructure, func(ev event.Event) {
//	    // react to Configure, Map, Unmap, Destroy
//	})
//	d.Dispatch(event.Key{Window: win, Code: 'q'})
//	d.DeleteHandler(id)
package dispatch
