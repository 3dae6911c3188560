// Package loop provides the single-goroutine event loop that owns all
// toolkit state.
//
// Work reaches the loop three ways:
//
//   - Post queues a closure from any goroutine. It is the only goroutine-safe
//     entry point; backend readers and file watchers use it.
//   - After schedules a one-shot timer.
//   - DoWhenIdle queues work to run once nothing else is pending. Work queued
//     while an idle pass runs waits for the next pass, so a callback that
//     re-queues itself cannot starve the loop.
//
// Everything else in the toolkit assumes it is called on the loop goroutine.
package loop
