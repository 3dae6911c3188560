package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/termtk/internal/config/loader"
	"github.com/dshills/termtk/internal/input/key"
	"github.com/dshills/termtk/internal/input/keymap"
)

// EnvPrefix prefixes environment overrides.
const EnvPrefix = "TERMTK_"

// Duration is a time.Duration written as a string such as "250ms".
type Duration struct {
	time.Duration
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`
	// File receives log lines. Empty means standard error.
	File string `toml:"file"`
}

// InputConfig configures input handling.
type InputConfig struct {
	// RingSize is the number of past events kept for sequence matching.
	RingSize int `toml:"ring_size"`
	// Mouse turns on mouse reporting.
	Mouse bool `toml:"mouse"`
}

// BarcodeConfig configures barcode packet recognition. Lead-in and trailer
// are keysym names.
type BarcodeConfig struct {
	Enabled   bool     `toml:"enabled"`
	LeadIn    string   `toml:"lead_in"`
	Trailer   string   `toml:"trailer"`
	Timeout   Duration `toml:"timeout"`
	MaxLength int      `toml:"max_length"`
}

// Codes resolves the lead-in and trailer names to key codes.
func (b BarcodeConfig) Codes(keys *key.Registry) (leadIn, trailer int, err error) {
	leadIn, ok := keys.Lookup(b.LeadIn)
	if !ok {
		return 0, 0, &ValidationError{Path: "barcode.lead_in", Message: "unknown keysym", Value: b.LeadIn}
	}
	trailer, ok = keys.Lookup(b.Trailer)
	if !ok {
		return 0, 0, &ValidationError{Path: "barcode.trailer", Message: "unknown keysym", Value: b.Trailer}
	}
	return leadIn, trailer, nil
}

// ScriptConfig configures the command interpreter.
type ScriptConfig struct {
	// Timeout bounds one command. Zero disables the limit.
	Timeout Duration `toml:"timeout"`
}

// BindingsConfig names the binding file.
type BindingsConfig struct {
	// File is a YAML or TOML binding file, relative to the config file.
	File string `toml:"file"`
	// Defaults installs the built-in bindings before the file's.
	Defaults bool `toml:"defaults"`
	// Watch reloads the file when it changes.
	Watch bool `toml:"watch"`
}

// Config holds every setting.
type Config struct {
	Log      LogConfig        `toml:"log"`
	Input    InputConfig      `toml:"input"`
	Barcode  BarcodeConfig    `toml:"barcode"`
	Script   ScriptConfig     `toml:"script"`
	Bindings BindingsConfig   `toml:"bindings"`
	Bind     []keymap.Binding `toml:"bind"`

	path string
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info"},
		Input: InputConfig{
			RingSize: keymap.DefaultRingSize,
			Mouse:    true,
		},
		Barcode: BarcodeConfig{
			LeadIn:    "Control-b",
			Trailer:   "Return",
			Timeout:   Duration{100 * time.Millisecond},
			MaxLength: 256,
		},
		Script:   ScriptConfig{Timeout: Duration{time.Second}},
		Bindings: BindingsConfig{Defaults: true, Watch: true},
	}
}

type options struct {
	fs      loader.FileSystem
	environ func() []string
}

// Option configures Load.
type Option func(*options)

// WithFS sets the file system the config file is read from.
func WithFS(fs loader.FileSystem) Option {
	return func(o *options) {
		o.fs = fs
	}
}

// WithEnviron sets the environment consulted for overrides.
func WithEnviron(environ func() []string) Option {
	return func(o *options) {
		o.environ = environ
	}
}

// Load builds the configuration from the defaults, the TOML file at path
// and the environment. An empty path skips the file; a named file must
// exist.
func Load(path string, opts ...Option) (*Config, error) {
	o := options{fs: loader.DefaultFS()}
	for _, opt := range opts {
		opt(&o)
	}

	var merged map[string]any
	if path != "" {
		l := loader.NewTOMLLoaderWithFS(o.fs, path).WithSchema(func() any { return new(Config) })
		file, err := l.Load()
		if err != nil {
			return nil, err
		}
		if file == nil {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		merged = file
	}

	env, err := loader.NewEnvLoader(EnvPrefix).WithEnviron(o.environ).Load()
	if err != nil {
		return nil, err
	}
	merged = loader.DeepMerge(merged, env)

	cfg := Default()
	if len(merged) > 0 {
		data, err := toml.Marshal(merged)
		if err != nil {
			return nil, fmt.Errorf("encoding settings: %w", err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			source := path
			if len(env) > 0 {
				source = EnvPrefix + "* environment"
			}
			return nil, loader.NewParseError(source, err)
		}
	}
	cfg.path = path

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultPath returns termtk/termtk.toml under the user's configuration
// directory, or "" when that directory is unknown.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "termtk", "termtk.toml")
}

// Path returns the file the configuration was loaded from, or "".
func (c *Config) Path() string {
	return c.path
}

// BindingsPath returns the binding file path, resolved against the config
// file's directory.
func (c *Config) BindingsPath() string {
	f := c.Bindings.File
	if f == "" || filepath.IsAbs(f) || c.path == "" {
		return f
	}
	return filepath.Join(filepath.Dir(c.path), f)
}

var logLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "warning": true, "error": true,
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	if !logLevels[strings.ToLower(c.Log.Level)] {
		return &ValidationError{Path: "log.level", Message: "must be debug, info, warn or error", Value: c.Log.Level}
	}
	if c.Input.RingSize < 1 {
		return &ValidationError{Path: "input.ring_size", Message: "must be at least 1", Value: c.Input.RingSize}
	}
	if c.Barcode.Enabled {
		leadIn, trailer, err := c.Barcode.Codes(key.NewRegistry())
		if err != nil {
			return err
		}
		if leadIn == trailer {
			return &ValidationError{Path: "barcode.trailer", Message: "must differ from lead_in", Value: c.Barcode.Trailer}
		}
		if c.Barcode.Timeout.Duration <= 0 {
			return &ValidationError{Path: "barcode.timeout", Message: "must be positive", Value: c.Barcode.Timeout.String()}
		}
		if c.Barcode.MaxLength < 1 {
			return &ValidationError{Path: "barcode.max_length", Message: "must be at least 1", Value: c.Barcode.MaxLength}
		}
	}
	if c.Script.Timeout.Duration < 0 {
		return &ValidationError{Path: "script.timeout", Message: "must not be negative", Value: c.Script.Timeout.String()}
	}
	if f := c.Bindings.File; f != "" {
		if _, ok := keymap.FormatOf(f); !ok {
			return &ValidationError{Path: "bindings.file", Message: "must end in .yaml, .yml or .toml", Value: f}
		}
	}
	for i, b := range c.Bind {
		if b.Object == "" || b.Sequence == "" {
			return &ValidationError{Path: fmt.Sprintf("bind[%d]", i), Message: "needs object and sequence", Value: b}
		}
	}
	return nil
}
