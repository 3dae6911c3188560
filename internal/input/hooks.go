package input

import (
	"sort"

	"github.com/dshills/termtk/internal/renderer/backend"
)

// HookPriority defines the execution order for hooks.
// Lower values execute first.
type HookPriority int

const (
	// HookPriorityHighest runs before all other hooks.
	HookPriorityHighest HookPriority = -1000
	// HookPriorityHigh runs early in the hook chain.
	HookPriorityHigh HookPriority = -100
	// HookPriorityNormal is the default priority.
	HookPriorityNormal HookPriority = 0
	// HookPriorityLow runs late in the hook chain.
	HookPriorityLow HookPriority = 100
)

// Hook sees a backend event before it is normalized. Returning true
// consumes the event.
type Hook func(ev backend.Event) bool

// HookID uniquely identifies a registered hook.
type HookID uint64

type hookEntry struct {
	id       HookID
	name     string
	priority HookPriority
	hook     Hook
}

// HookManager runs hooks in priority order. Hooks of equal priority run in
// registration order.
type HookManager struct {
	hooks   []hookEntry
	nextID  HookID
	enabled bool
}

// NewHookManager creates a new hook manager.
func NewHookManager() *HookManager {
	return &HookManager{enabled: true}
}

// Register adds a hook with default priority.
func (m *HookManager) Register(name string, hook Hook) HookID {
	return m.RegisterWithPriority(name, hook, HookPriorityNormal)
}

// RegisterWithPriority adds a hook with the given priority.
func (m *HookManager) RegisterWithPriority(name string, hook Hook, priority HookPriority) HookID {
	m.nextID++
	m.hooks = append(m.hooks, hookEntry{id: m.nextID, name: name, priority: priority, hook: hook})
	sort.SliceStable(m.hooks, func(i, j int) bool {
		return m.hooks[i].priority < m.hooks[j].priority
	})
	return m.nextID
}

// Unregister removes a hook. It reports whether the hook was registered.
func (m *HookManager) Unregister(id HookID) bool {
	for i, h := range m.hooks {
		if h.id == id {
			m.hooks = append(m.hooks[:i:i], m.hooks[i+1:]...)
			return true
		}
	}
	return false
}

// Names returns the hook names in execution order.
func (m *HookManager) Names() []string {
	names := make([]string, len(m.hooks))
	for i, h := range m.hooks {
		names[i] = h.name
	}
	return names
}

// SetEnabled turns the whole chain on or off.
func (m *HookManager) SetEnabled(enabled bool) {
	m.enabled = enabled
}

// Run passes ev through the hooks and reports whether one consumed it.
func (m *HookManager) Run(ev backend.Event) bool {
	if !m.enabled {
		return false
	}
	for _, h := range append([]hookEntry(nil), m.hooks...) {
		if h.hook(ev) {
			return true
		}
	}
	return false
}
