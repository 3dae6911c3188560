package app

import (
	"sync/atomic"
	"time"
)

// Metrics counts what the application has handled. The counters are
// atomic so a snapshot can be taken from any goroutine.
type Metrics struct {
	eventCount   atomic.Uint64
	eventTotalNs atomic.Int64
	eventMaxNs   atomic.Int64

	panics       atomic.Uint64
	scriptErrors atomic.Uint64
	reloads      atomic.Uint64
	reloadErrors atomic.Uint64

	startNs atomic.Int64
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	m := &Metrics{}
	m.startNs.Store(time.Now().UnixNano())
	return m
}

// RecordEvent records the time spent handling one backend event.
func (m *Metrics) RecordEvent(d time.Duration) {
	ns := d.Nanoseconds()
	m.eventCount.Add(1)
	m.eventTotalNs.Add(ns)
	for {
		old := m.eventMaxNs.Load()
		if ns <= old || m.eventMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordPanic records a panic recovered from an event handler.
func (m *Metrics) RecordPanic() { m.panics.Add(1) }

// RecordScriptError records a bound command that failed.
func (m *Metrics) RecordScriptError() { m.scriptErrors.Add(1) }

// RecordReload records a binding reload.
func (m *Metrics) RecordReload() { m.reloads.Add(1) }

// RecordReloadError records a binding reload that failed.
func (m *Metrics) RecordReloadError() { m.reloadErrors.Add(1) }

// MetricsSnapshot is a point-in-time copy of the metrics.
type MetricsSnapshot struct {
	Events       uint64
	EventAvg     time.Duration
	EventMax     time.Duration
	Panics       uint64
	ScriptErrors uint64
	Reloads      uint64
	ReloadErrors uint64
	Uptime       time.Duration
}

// Snapshot returns a copy of the current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	s := MetricsSnapshot{
		Events:       m.eventCount.Load(),
		EventMax:     time.Duration(m.eventMaxNs.Load()),
		Panics:       m.panics.Load(),
		ScriptErrors: m.scriptErrors.Load(),
		Reloads:      m.reloads.Load(),
		ReloadErrors: m.reloadErrors.Load(),
		Uptime:       time.Since(time.Unix(0, m.startNs.Load())),
	}
	if s.Events > 0 {
		s.EventAvg = time.Duration(m.eventTotalNs.Load() / int64(s.Events))
	}
	return s
}

// Reset zeroes every counter and restarts the uptime clock.
func (m *Metrics) Reset() {
	m.eventCount.Store(0)
	m.eventTotalNs.Store(0)
	m.eventMaxNs.Store(0)
	m.panics.Store(0)
	m.scriptErrors.Store(0)
	m.reloads.Store(0)
	m.reloadErrors.Store(0)
	m.startNs.Store(time.Now().UnixNano())
}

// Timer measures the duration of one operation.
type Timer struct {
	start time.Time
}

// StartTimer starts a timer.
func StartTimer() Timer {
	return Timer{start: time.Now()}
}

// Elapsed returns the time since the timer started.
func (t Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// Metrics returns the application's metrics.
func (app *Application) Metrics() *Metrics {
	return app.metrics
}
