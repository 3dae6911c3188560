package input

import "sync/atomic"

// Metrics counts normalizer activity. Counters may be read from any
// goroutine.
type Metrics struct {
	keys         atomic.Uint64
	buttons      atomic.Uint64
	barcodes     atomic.Uint64
	replayed     atomic.Uint64
	dropped      atomic.Uint64
	hookConsumed atomic.Uint64
}

// NewMetrics creates zeroed counters.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// MetricsSnapshot is a point-in-time copy of the counters.
type MetricsSnapshot struct {
	// Keys is the number of key events delivered, replayed packets included.
	Keys uint64
	// Buttons is the number of button press and release events delivered.
	Buttons uint64
	// Barcodes is the number of complete packets delivered.
	Barcodes uint64
	// Replayed is the number of packets abandoned and replayed as keys.
	Replayed uint64
	// Dropped is the number of backend events with no toolkit equivalent.
	Dropped      uint64
	HookConsumed uint64
}

// Snapshot returns the current counter values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Keys:         m.keys.Load(),
		Buttons:      m.buttons.Load(),
		Barcodes:     m.barcodes.Load(),
		Replayed:     m.replayed.Load(),
		Dropped:      m.dropped.Load(),
		HookConsumed: m.hookConsumed.Load(),
	}
}

// Reset zeroes the counters.
func (m *Metrics) Reset() {
	m.keys.Store(0)
	m.buttons.Store(0)
	m.barcodes.Store(0)
	m.replayed.Store(0)
	m.dropped.Store(0)
	m.hookConsumed.Store(0)
}
