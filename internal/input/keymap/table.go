package keymap

import (
	"slices"

	"github.com/dshills/termtk/internal/event"
	"github.com/dshills/termtk/internal/input/key"
)

// Sequence is one binding: a pattern array bound to a command on an object.
type Sequence struct {
	// Patterns are ordered most recent event first.
	Patterns []Pattern
	Command  string
	Object   string

	serial uint64
}

type patternKey struct {
	object string
	typ    event.Type
	detail int
}

func keyOf(object string, p Pattern) patternKey {
	return patternKey{object: object, typ: p.Type, detail: p.Detail}
}

// PathFunc resolves a window id to its path for %W substitution.
type PathFunc func(event.WindowID) (string, bool)

// Table stores bindings and matches incoming events against them.
//
// A Table is not safe for concurrent use; it belongs to the goroutine that
// runs the event loop.
type Table struct {
	parser *Parser
	keys   *key.Registry
	ring   *Ring
	interp Interpreter

	// patterns indexes sequences by object and first pattern.
	patterns map[patternKey][]*Sequence
	// objects holds every sequence of an object, most recent first.
	objects map[string][]*Sequence

	serial  uint64
	path    PathFunc
	onError func(error)
}

// Option configures a Table.
type Option func(*Table)

// WithRingSize sets the number of remembered events.
func WithRingSize(n int) Option {
	return func(t *Table) {
		t.ring = NewRing(n)
	}
}

// WithErrorHandler sets the handler receiving command failures.
func WithErrorHandler(fn func(error)) Option {
	return func(t *Table) {
		t.onError = fn
	}
}

// WithPathFunc sets the resolver used for %W.
func WithPathFunc(fn PathFunc) Option {
	return func(t *Table) {
		t.path = fn
	}
}

// NewTable creates an empty binding table.
func NewTable(keys *key.Registry, interp Interpreter, opts ...Option) *Table {
	t := &Table{
		parser:   NewParser(keys),
		keys:     keys,
		ring:     NewRing(DefaultRingSize),
		interp:   interp,
		patterns: make(map[patternKey][]*Sequence),
		objects:  make(map[string][]*Sequence),
		onError:  func(error) {},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Parser returns the table's sequence parser.
func (t *Table) Parser() *Parser { return t.parser }

// Ring returns the table's event history.
func (t *Table) Ring() *Ring { return t.ring }

// Bind binds command to the sequence spec on object, replacing any command
// already bound to an identical sequence. An empty command removes the
// binding.
func (t *Table) Bind(object, spec, command string) error {
	if command == "" {
		_, err := t.Unbind(object, spec)
		return err
	}
	return t.bind(object, spec, command, false)
}

// AppendBinding adds command to the sequence spec on object. An existing
// command is kept and the new one follows it on a new line.
func (t *Table) AppendBinding(object, spec, command string) error {
	return t.bind(object, spec, command, true)
}

func (t *Table) bind(object, spec, command string, appendCmd bool) error {
	pats, err := t.parser.Parse(spec)
	if err != nil {
		return err
	}
	if seq := t.find(object, pats); seq != nil {
		if appendCmd && seq.Command != "" {
			seq.Command += "\n" + command
		} else {
			seq.Command = command
		}
		return nil
	}

	t.serial++
	seq := &Sequence{
		Patterns: pats,
		Command:  command,
		Object:   object,
		serial:   t.serial,
	}
	k := keyOf(object, pats[0])
	t.patterns[k] = append([]*Sequence{seq}, t.patterns[k]...)
	t.objects[object] = append([]*Sequence{seq}, t.objects[object]...)
	return nil
}

// find returns the sequence on object with exactly these patterns.
func (t *Table) find(object string, pats []Pattern) *Sequence {
	for _, seq := range t.patterns[keyOf(object, pats[0])] {
		if slices.Equal(seq.Patterns, pats) {
			return seq
		}
	}
	return nil
}

// Unbind removes the binding for spec on object. It reports whether a
// binding existed; only a malformed spec is an error.
func (t *Table) Unbind(object, spec string) (bool, error) {
	pats, err := t.parser.Parse(spec)
	if err != nil {
		return false, err
	}
	seq := t.find(object, pats)
	if seq == nil {
		return false, nil
	}
	t.unlink(seq)
	return true, nil
}

// unlink removes seq from both indices and drops empty buckets.
func (t *Table) unlink(seq *Sequence) {
	k := keyOf(seq.Object, seq.Patterns[0])
	bucket, ok := removeSeq(t.patterns[k], seq)
	if !ok {
		panic("keymap: sequence missing from pattern index")
	}
	if len(bucket) == 0 {
		delete(t.patterns, k)
	} else {
		t.patterns[k] = bucket
	}

	chain, ok := removeSeq(t.objects[seq.Object], seq)
	if !ok {
		panic("keymap: sequence missing from object index")
	}
	if len(chain) == 0 {
		delete(t.objects, seq.Object)
	} else {
		t.objects[seq.Object] = chain
	}
}

func removeSeq(list []*Sequence, seq *Sequence) ([]*Sequence, bool) {
	i := slices.Index(list, seq)
	if i < 0 {
		return list, false
	}
	return slices.Delete(list, i, i+1), true
}

// Command returns the command bound to spec on object.
// A malformed spec reports no binding.
func (t *Table) Command(object, spec string) (string, bool) {
	pats, err := t.parser.Parse(spec)
	if err != nil {
		return "", false
	}
	seq := t.find(object, pats)
	if seq == nil {
		return "", false
	}
	return seq.Command, true
}

// Sequences returns the canonical specification of every sequence bound on
// object, most recently created first.
func (t *Table) Sequences(object string) []string {
	chain := t.objects[object]
	out := make([]string, 0, len(chain))
	for _, seq := range chain {
		out = append(out, t.parser.Format(seq.Patterns))
	}
	return out
}

// Objects returns every object with at least one binding.
func (t *Table) Objects() []string {
	out := make([]string, 0, len(t.objects))
	for obj := range t.objects {
		out = append(out, obj)
	}
	slices.Sort(out)
	return out
}

// DeleteAll removes every binding on object.
func (t *Table) DeleteAll(object string) {
	for _, seq := range slices.Clone(t.objects[object]) {
		t.unlink(seq)
	}
}

// Reset removes every binding and forgets the event history.
func (t *Table) Reset() {
	clear(t.patterns)
	clear(t.objects)
	t.ring.Clear()
}

// Len returns the number of bound sequences.
func (t *Table) Len() int {
	n := 0
	for _, bucket := range t.patterns {
		n += len(bucket)
	}
	return n
}
