package keymap

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Binding is one entry of a binding file.
type Binding struct {
	Object   string `yaml:"object" toml:"object"`
	Sequence string `yaml:"sequence" toml:"sequence"`
	Command  string `yaml:"command" toml:"command"`
	// Append adds Command after an existing command instead of replacing it.
	Append bool `yaml:"append,omitempty" toml:"append,omitempty"`
}

// Format is the encoding of a binding file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatOf returns the binding file format implied by path's extension.
func FormatOf(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".toml":
		return FormatTOML, true
	default:
		return "", false
	}
}

// bindingFile is the document layout of a binding file.
type bindingFile struct {
	Bindings []Binding `yaml:"bindings" toml:"bind"`
}

// Loader reads binding files.
type Loader struct {
	searchPaths []string
}

// NewLoader creates a binding file loader.
func NewLoader() *Loader {
	return &Loader{}
}

// AddSearchPath adds a directory scanned by LoadAll.
func (l *Loader) AddSearchPath(path string) {
	l.searchPaths = append(l.searchPaths, path)
}

// LoadFile reads the bindings of a YAML or TOML file.
func (l *Loader) LoadFile(path string) ([]Binding, error) {
	format, ok := FormatOf(path)
	if !ok {
		return nil, fmt.Errorf("binding file %s: unknown format", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening binding file: %w", err)
	}
	defer f.Close()

	bindings, err := l.LoadReader(f, format)
	if err != nil {
		return nil, fmt.Errorf("binding file %s: %w", path, err)
	}
	return bindings, nil
}

// LoadReader decodes bindings in the given format.
func (l *Loader) LoadReader(r io.Reader, format Format) ([]Binding, error) {
	var doc bindingFile
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decoding bindings: %w", err)
		}
	case FormatTOML:
		if err := toml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("decoding bindings: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown binding format %q", format)
	}
	for i, b := range doc.Bindings {
		if b.Object == "" || b.Sequence == "" {
			return nil, fmt.Errorf("binding %d: object and sequence are required", i)
		}
	}
	return doc.Bindings, nil
}

// LoadAll reads every binding file in the search paths, in path order.
// Unreadable files are reported together after the rest are loaded.
func (l *Loader) LoadAll() ([]Binding, error) {
	var (
		all  []Binding
		errs []error
	)
	for _, dir := range l.searchPaths {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if _, ok := FormatOf(e.Name()); !ok {
				continue
			}
			bindings, err := l.LoadFile(filepath.Join(dir, e.Name()))
			if err != nil {
				errs = append(errs, err)
				continue
			}
			all = append(all, bindings...)
		}
	}
	return all, errors.Join(errs...)
}

// Apply installs bindings into t. Every entry is attempted; the failures
// are returned joined.
func Apply(t *Table, bindings []Binding) error {
	var errs []error
	for _, b := range bindings {
		var err error
		if b.Append {
			err = t.AppendBinding(b.Object, b.Sequence, b.Command)
		} else {
			err = t.Bind(b.Object, b.Sequence, b.Command)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("binding %s %s: %w", b.Object, b.Sequence, err))
		}
	}
	return errors.Join(errs...)
}
