package loop

import (
	"container/heap"
	"context"
	"slices"
	"sync"
	"time"
)

// IdleID identifies queued idle work.
type IdleID uint64

// TimerID identifies a pending timer.
type TimerID uint64

type idleEntry struct {
	id        IdleID
	fn        func()
	cancelled bool
}

// Loop runs posted closures, timers, and idle work on one goroutine.
type Loop struct {
	mu     sync.Mutex
	posted []func()
	wake   chan struct{}

	idle     []*idleEntry
	idleByID map[IdleID]*idleEntry
	nextIdle IdleID

	timers    timerHeap
	timerByID map[TimerID]*timer
	nextTimer TimerID

	now     func() time.Time
	stopped bool
}

// Option configures a Loop.
type Option func(*Loop)

// WithClock sets the time source used for timers.
func WithClock(now func() time.Time) Option {
	return func(l *Loop) {
		if now != nil {
			l.now = now
		}
	}
}

// New creates an idle loop.
func New(opts ...Option) *Loop {
	l := &Loop{
		wake:      make(chan struct{}, 1),
		idleByID:  make(map[IdleID]*idleEntry),
		timerByID: make(map[TimerID]*timer),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Post queues fn to run on the loop goroutine. It is safe to call from any
// goroutine.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.posted = append(l.posted, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// DoWhenIdle queues fn to run at the next idle pass.
func (l *Loop) DoWhenIdle(fn func()) IdleID {
	l.nextIdle++
	e := &idleEntry{id: l.nextIdle, fn: fn}
	l.idle = append(l.idle, e)
	l.idleByID[e.id] = e
	return e.id
}

// CancelIdle removes queued idle work. It reports whether the work was
// still pending.
func (l *Loop) CancelIdle(id IdleID) bool {
	e, ok := l.idleByID[id]
	if !ok {
		return false
	}
	e.cancelled = true
	delete(l.idleByID, id)
	return true
}

// IdlePending returns the number of queued idle callbacks.
func (l *Loop) IdlePending() int {
	return len(l.idleByID)
}

// RunIdle runs the idle work queued before the call, in FIFO order.
// It reports whether any callback ran.
func (l *Loop) RunIdle() bool {
	batch := l.idle
	l.idle = nil
	next := 0
	defer func() {
		// A panicking callback leaves the rest of the batch queued.
		if next < len(batch) {
			l.idle = append(slices.Clip(batch[next:]), l.idle...)
		}
	}()
	ran := false
	for next < len(batch) {
		e := batch[next]
		next++
		if e.cancelled {
			continue
		}
		delete(l.idleByID, e.id)
		e.fn()
		ran = true
	}
	return ran
}

// DrainIdle runs idle passes until no idle work remains. It returns the
// number of passes that ran.
func (l *Loop) DrainIdle() int {
	passes := 0
	for l.IdlePending() > 0 {
		l.RunIdle()
		passes++
	}
	return passes
}

// After schedules fn to run once d has elapsed.
func (l *Loop) After(d time.Duration, fn func()) TimerID {
	l.nextTimer++
	t := &timer{
		id:       l.nextTimer,
		deadline: l.now().Add(d),
		fn:       fn,
	}
	heap.Push(&l.timers, t)
	l.timerByID[t.id] = t
	return t.id
}

// CancelTimer stops a pending timer. It reports whether the timer had not
// yet fired.
func (l *Loop) CancelTimer(id TimerID) bool {
	t, ok := l.timerByID[id]
	if !ok {
		return false
	}
	heap.Remove(&l.timers, t.index)
	delete(l.timerByID, id)
	return true
}

// RunTimers fires every timer due at the current time and returns how many
// fired.
func (l *Loop) RunTimers() int {
	now := l.now()
	fired := 0
	for len(l.timers) > 0 && !l.timers[0].deadline.After(now) {
		t := heap.Pop(&l.timers).(*timer)
		delete(l.timerByID, t.id)
		t.fn()
		fired++
	}
	return fired
}

// RunPosted runs the closures posted so far and returns how many ran.
func (l *Loop) RunPosted() int {
	l.mu.Lock()
	batch := l.posted
	l.posted = nil
	l.mu.Unlock()

	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

// Step processes posted work and due timers, then one idle pass when nothing
// else ran. It reports whether anything ran.
func (l *Loop) Step() bool {
	busy := l.RunPosted() > 0
	if l.RunTimers() > 0 {
		busy = true
	}
	if !busy {
		busy = l.RunIdle()
	}
	return busy
}

// Stop makes Run return after the current step. Call it on the loop
// goroutine, or through Post.
func (l *Loop) Stop() {
	l.stopped = true
}

// Run processes work until ctx is done or Stop is called.
func (l *Loop) Run(ctx context.Context) error {
	l.stopped = false

	var wait *time.Timer
	defer func() {
		if wait != nil {
			wait.Stop()
		}
	}()

	for {
		for l.Step() {
			if l.stopped {
				return nil
			}
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if l.stopped {
			return nil
		}

		var timeout <-chan time.Time
		if len(l.timers) > 0 {
			d := l.timers[0].deadline.Sub(l.now())
			if wait == nil {
				wait = time.NewTimer(d)
			} else {
				wait.Reset(d)
			}
			timeout = wait.C
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		case <-timeout:
		}
	}
}
