// Package config loads the toolkit's settings.
//
// Settings come from three layers, later layers overriding earlier ones:
//
//	┌──────────────────────────────┐
//	│  3. Environment (TERMTK_*)   │  ← Highest priority
//	├──────────────────────────────┤
//	│  2. Config file (TOML)       │
//	├──────────────────────────────┤
//	│  1. Built-in defaults        │  ← Lowest priority
//	└──────────────────────────────┘
//
// An environment variable TERMTK_SECTION_NAME overrides setting "name" of
// section "section", so TERMTK_LOG_LEVEL=debug sets log.level.
//
// A config file looks like:
//
//	[log]
//	level = "info"
//	file = "/tmp/termtk.log"
//
//	[input]
//	ring_size = 30
//	mouse = true
//
//	[barcode]
//	enabled = true
//	lead_in = "Control-b"
//	trailer = "Return"
//	timeout = "100ms"
//
//	[script]
//	timeout = "1s"
//
//	[bindings]
//	file = "bindings.yaml"
//
//	[[bind]]
//	object = "all"
//	sequence = "<Control-x><Control-c>"
//	command = "quit()"
//
// # Sub-packages
//
//   - loader: TOML and environment sources and map merging
//   - watcher: fsnotify-based change notification for live reload
package config
