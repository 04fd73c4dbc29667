// directive.go classifies a single fragment line as a skip, add, or remove directive.
package cmdline

import "strings"

// Kind identifies what a fragment line does to the accumulated command line.
type Kind int

const (
	// Skip is a blank line or a whole-line '#' comment.
	Skip Kind = iota
	// Add appends the option unless it is already present.
	Add
	// Remove drops every option equal to the text after the leading '-'.
	Remove
)

func (k Kind) String() string {
	switch k {
	case Skip:
		return "skip"
	case Add:
		return "add"
	case Remove:
		return "remove"
	default:
		return "unknown"
	}
}

// MarshalText renders the kind by name for json/yaml output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Directive is the parsed form of one fragment line.
type Directive struct {
	Kind   Kind
	Option string
	Raw    string
}

// Suspicious reports whether a removal target carries surrounding whitespace
// or is empty. Such a removal can never match an added option, since additions
// are always trimmed.
func (d Directive) Suspicious() bool {
	if d.Kind != Remove {
		return false
	}
	return d.Option == "" || strings.TrimSpace(d.Option) != d.Option
}

type parseConfig struct {
	trimRemovals bool
}

// ParseOption tweaks how ParseDirective interprets a line.
type ParseOption func(*parseConfig)

// TrimRemovals trims whitespace from the text following a leading '-'.
func TrimRemovals() ParseOption {
	return func(c *parseConfig) {
		c.trimRemovals = true
	}
}

// ParseDirective classifies line verbatim. Callers are expected to have
// trimmed it already; no further normalization happens here except the
// optional removal trimming.
func ParseDirective(line string, opts ...ParseOption) Directive {
	var cfg parseConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	switch {
	case line == "" || strings.HasPrefix(line, "#"):
		return Directive{Kind: Skip, Raw: line}
	case strings.HasPrefix(line, "-"):
		target := line[1:]
		if cfg.trimRemovals {
			target = strings.TrimSpace(target)
		}
		return Directive{Kind: Remove, Option: target, Raw: line}
	default:
		return Directive{Kind: Add, Option: line, Raw: line}
	}
}
