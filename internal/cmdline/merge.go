package cmdline

import (
	"slices"

	"github.com/example/kernel-cmdline/internal/fragment"
)

// Action describes the effect a directive had on the command line.
type Action string

const (
	ActionSkipped   Action = "skipped"
	ActionAdded     Action = "added"
	ActionDuplicate Action = "duplicate"
	ActionRemoved   Action = "removed"
	ActionNoMatch   Action = "no-match"
)

// Event records one applied directive and where it came from.
type Event struct {
	Source    string
	Line      int
	Directive Directive
	Action    Action
	// Removed counts the options dropped by a removal.
	Removed int
}

// Observer receives an Event for every line applied by a Merger.
type Observer func(Event)

// Merger applies fragments to a command line. The zero value merges with
// the default rules and reports nothing.
type Merger struct {
	// TrimRemovals trims whitespace after the leading '-' of a removal.
	TrimRemovals bool
	// Observer, when set, is called once per line in application order.
	Observer Observer
}

// Merge folds fragments in order starting from an empty command line.
func (m *Merger) Merge(fragments ...fragment.Fragment) Cmdline {
	out := Cmdline{}
	for _, f := range fragments {
		out = m.ApplyFragment(out, f)
	}
	return out
}

// ApplyFragment returns c with every line of f applied. c is left untouched.
func (m *Merger) ApplyFragment(c Cmdline, f fragment.Fragment) Cmdline {
	out := slices.Clone(c)
	if out == nil {
		out = Cmdline{}
	}
	var opts []ParseOption
	if m.TrimRemovals {
		opts = append(opts, TrimRemovals())
	}
	for i, line := range f.Lines {
		d := ParseDirective(line, opts...)
		ev := Event{Source: f.Source, Line: i + 1, Directive: d}
		switch d.Kind {
		case Skip:
			ev.Action = ActionSkipped
		case Remove:
			before := len(out)
			out = slices.DeleteFunc(out, func(opt string) bool { return opt == d.Option })
			ev.Removed = before - len(out)
			if ev.Removed > 0 {
				ev.Action = ActionRemoved
			} else {
				ev.Action = ActionNoMatch
			}
		case Add:
			if out.Contains(d.Option) {
				ev.Action = ActionDuplicate
			} else {
				out = append(out, d.Option)
				ev.Action = ActionAdded
			}
		}
		if m.Observer != nil {
			m.Observer(ev)
		}
	}
	return out
}
