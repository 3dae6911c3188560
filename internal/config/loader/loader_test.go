package loader

import (
	"errors"
	"io/fs"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type mapFS map[string]string

func (m mapFS) ReadFile(path string) ([]byte, error) {
	data, ok := m[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: os.ErrNotExist}
	}
	return []byte(data), nil
}

func TestEnvLoader(t *testing.T) {
	environ := func() []string {
		return []string{
			"TERMTK_LOG_LEVEL=debug",
			"TERMTK_BARCODE_LEAD_IN=Control-b",
			"TERMTK_INPUT_RING_SIZE=12",
			"TERMTK_INPUT_MOUSE=off",
			"TERMTK_SCRIPT_TIMEOUT=250ms",
			"TERMTK_RATIO_X=0.5",
			"TERMTK_LIST_X=[1,2]",
			"TERMTK_NOSECTION=1",
			"OTHER_LOG_LEVEL=error",
			"TERMTK_ALIAS=yes",
		}
	}
	l := NewEnvLoader("TERMTK_").WithEnviron(environ)
	l.AddMapping("TERMTK_ALIAS", "bindings.watch")

	got, err := l.Load()
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{
		"log":      map[string]any{"level": "debug"},
		"barcode":  map[string]any{"lead_in": "Control-b"},
		"input":    map[string]any{"ring_size": int64(12), "mouse": false},
		"script":   map[string]any{"timeout": "250ms"},
		"ratio":    map[string]any{"x": 0.5},
		"list":     map[string]any{"x": []any{float64(1), float64(2)}},
		"bindings": map[string]any{"watch": true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"log":   map[string]any{"level": "info", "file": "a.log"},
		"input": map[string]any{"mouse": true},
	}
	src := map[string]any{
		"log":     map[string]any{"level": "debug"},
		"input":   "replaced",
		"barcode": map[string]any{"enabled": true},
	}
	want := map[string]any{
		"log":     map[string]any{"level": "debug", "file": "a.log"},
		"input":   "replaced",
		"barcode": map[string]any{"enabled": true},
	}
	if diff := cmp.Diff(want, DeepMerge(dst, src)); diff != "" {
		t.Errorf("DeepMerge() mismatch (-want +got):\n%s", diff)
	}
	if got := DeepMerge(nil, nil); got == nil || len(got) != 0 {
		t.Errorf("DeepMerge(nil, nil) = %v, want empty map", got)
	}
}

func TestTOMLLoader(t *testing.T) {
	type schema struct {
		Log struct {
			Level string `toml:"level"`
		} `toml:"log"`
	}
	files := mapFS{
		"ok.toml":      "[log]\nlevel = \"warn\"\n",
		"empty.toml":   "",
		"bad.toml":     "[log\n",
		"unknown.toml": "[log]\nlevel = \"warn\"\ncolour = true\n",
	}
	newSchema := func() any { return new(schema) }

	tests := []struct {
		path    string
		want    map[string]any
		wantErr bool
		line    int
	}{
		{path: "ok.toml", want: map[string]any{"log": map[string]any{"level": "warn"}}},
		{path: "empty.toml", want: map[string]any{}},
		{path: "missing.toml", want: nil},
		{path: "bad.toml", wantErr: true, line: 1},
		{path: "unknown.toml", wantErr: true, line: 3},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := NewTOMLLoaderWithFS(files, tt.path).WithSchema(newSchema).Load()
			if tt.wantErr {
				var pe *ParseError
				if !errors.As(err, &pe) {
					t.Fatalf("Load() error = %v, want *ParseError", err)
				}
				if pe.Path != tt.path || pe.Line != tt.line {
					t.Errorf("ParseError at %s:%d, want %s:%d", pe.Path, pe.Line, tt.path, tt.line)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Load() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
