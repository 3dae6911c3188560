package keymap

import (
	"github.com/dshills/termtk/internal/event"
	"github.com/dshills/termtk/internal/input/key"
)

// Code is the outcome of evaluating one command.
type Code int

const (
	// CodeOK means the command completed normally.
	CodeOK Code = iota
	// CodeContinue means the command asked to skip the rest of itself;
	// the next command still runs.
	CodeContinue
	// CodeBreak means no further commands run for this event.
	CodeBreak
	// CodeError means the command failed.
	CodeError
)

func (c Code) String() string {
	switch c {
	case CodeOK:
		return "ok"
	case CodeContinue:
		return "continue"
	case CodeBreak:
		return "break"
	case CodeError:
		return "error"
	default:
		return "unknown"
	}
}

// Interpreter evaluates bound commands.
type Interpreter interface {
	// Eval runs script. The error is set when the code is CodeError.
	Eval(script string) (Code, error)

	// Quote renders s as a single literal token of the command language.
	Quote(s string) string

	// Result returns the interpreter's current result.
	Result() string

	// SetResult replaces the interpreter's current result.
	SetResult(s string)
}

// BindEvent records ev in the event history and runs the best matching
// command of each object, in order. It returns the number of commands that
// were queued.
func (t *Table) BindEvent(ev event.Event, objects []string) int {
	t.ring.Append(ev)
	detail := event.DetailOf(ev)

	var scripts []string
	for _, obj := range objects {
		seq := t.lookup(ev, obj, detail)
		if seq == nil {
			continue
		}
		scripts = append(scripts, t.expand(seq.Command, ev))
	}
	if len(scripts) == 0 || t.interp == nil {
		return len(scripts)
	}

	saved := t.interp.Result()
	defer t.interp.SetResult(saved)

	for _, script := range scripts {
		code, err := t.interp.Eval(script)
		switch code {
		case CodeOK, CodeContinue:
			continue
		case CodeBreak:
			return len(scripts)
		default:
			t.onError(err)
			return len(scripts)
		}
	}
	return len(scripts)
}

// lookup finds the best sequence for obj, falling back from the exact detail
// to the control wildcard and then to the any wildcard while nothing matches.
func (t *Table) lookup(ev event.Event, obj string, detail int) *Sequence {
	typ := ev.Type()
	if best := t.match(t.patterns[patternKey{obj, typ, detail}], ev); best != nil {
		return best
	}
	if typ == event.TypeKey && detail != 0 && key.IsControl(detail) {
		if best := t.match(t.patterns[patternKey{obj, typ, DetailControl}], ev); best != nil {
			return best
		}
	}
	if detail != 0 {
		return t.match(t.patterns[patternKey{obj, typ, DetailAny}], ev)
	}
	return nil
}

// match returns the best sequence of chain that matches the event history.
func (t *Table) match(chain []*Sequence, ev event.Event) *Sequence {
	var best *Sequence
	for _, seq := range chain {
		if !t.matchSequence(seq, ev.Target()) {
			continue
		}
		if best == nil || better(seq, best) {
			best = seq
		}
	}
	return best
}

// matchSequence walks the patterns forward while walking the ring backward.
// Ring events of another type are skipped unless they are key or button
// presses, so releases and structure noise do not break a chord.
func (t *Table) matchSequence(seq *Sequence, win event.WindowID) bool {
	back := 0
	for _, pat := range seq.Patterns {
		for {
			ev, detail, ok := t.ring.At(back)
			if !ok {
				return false
			}
			back++
			if ev.Type() != pat.Type {
				if ev.Type() == event.TypeKey || ev.Type() == event.TypeButtonPress {
					return false
				}
				continue
			}
			if ev.Target() != win || !pat.matches(detail) {
				return false
			}
			break
		}
	}
	return true
}

// better reports whether a beats b: longer wins, then the first pattern whose
// detail is more specific, then the more recently registered.
func better(a, b *Sequence) bool {
	if len(a.Patterns) != len(b.Patterns) {
		return len(a.Patterns) > len(b.Patterns)
	}
	for i := range a.Patterns {
		sa, sb := a.Patterns[i].specificity(), b.Patterns[i].specificity()
		if sa != sb {
			return sa > sb
		}
	}
	return a.serial > b.serial
}
