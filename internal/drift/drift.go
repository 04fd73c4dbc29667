// Package drift compares a merged command line with a reference one, usually
// the running kernel's /proc/cmdline.
package drift

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-shellwords"
	"github.com/pmezard/go-difflib/difflib"
)

// DefaultReference is the command line of the running kernel.
const DefaultReference = "/proc/cmdline"

// ErrDrift signals that the merged and reference command lines differ.
var ErrDrift = errors.New("kernel command line differs from reference")

// Tokenize splits a command line into options using shell quoting, so
// dyndbg="file a.c +p" stays a single option. Input the shell parser stops
// on (an unquoted ';', '|', '&', '<' or '>') falls back to whitespace splitting.
func Tokenize(line string) ([]string, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, nil
	}
	p := shellwords.NewParser()
	words, err := p.Parse(line)
	if err != nil {
		return nil, fmt.Errorf("tokenize %q: %w", line, err)
	}
	if p.Position >= 0 {
		return strings.Fields(line), nil
	}
	return words, nil
}

// Normalize rewrites each option the way Tokenize would read it, so options
// from drop-ins compare equal to the same option read from a reference line.
func Normalize(opts []string) []string {
	out := make([]string, 0, len(opts))
	for _, opt := range opts {
		words, err := Tokenize(opt)
		if err != nil || len(words) == 0 {
			out = append(out, opt)
			continue
		}
		out = append(out, strings.Join(words, " "))
	}
	return out
}

// Result describes how merged differs from reference.
type Result struct {
	// Added are options in merged that the reference lacks.
	Added []string
	// Removed are options in the reference that merged lacks.
	Removed []string
	// Unified is a unified diff, one option per line. Empty when identical.
	Unified string
}

// Differs reports whether the two command lines differ in content or order.
func (r Result) Differs() bool {
	return r.Unified != ""
}

// Compare diffs merged against reference after normalizing both.
func Compare(merged, reference []string, referenceName string) (Result, error) {
	a := Normalize(reference)
	b := Normalize(merged)
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        asLines(a),
		B:        asLines(b),
		FromFile: referenceName,
		ToFile:   "merged",
		Context:  2,
	})
	if err != nil {
		return Result{}, err
	}
	return Result{
		Added:   missingFrom(a, b),
		Removed: missingFrom(b, a),
		Unified: text,
	}, nil
}

// Colorize highlights a unified diff. enabled=nil follows fatih/color's
// terminal and NO_COLOR detection.
func Colorize(unified string, enabled *bool) string {
	add := color.New(color.FgGreen)
	del := color.New(color.FgRed)
	hunk := color.New(color.FgCyan)
	if enabled != nil {
		for _, c := range []*color.Color{add, del, hunk} {
			if *enabled {
				c.EnableColor()
			} else {
				c.DisableColor()
			}
		}
	}
	if unified == "" {
		return ""
	}
	var b strings.Builder
	for _, line := range strings.Split(strings.TrimSuffix(unified, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			b.WriteString(line)
		case strings.HasPrefix(line, "@@"):
			b.WriteString(hunk.Sprint(line))
		case strings.HasPrefix(line, "+"):
			b.WriteString(add.Sprint(line))
		case strings.HasPrefix(line, "-"):
			b.WriteString(del.Sprint(line))
		default:
			b.WriteString(line)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func asLines(opts []string) []string {
	lines := make([]string, 0, len(opts))
	for _, opt := range opts {
		lines = append(lines, opt+"\n")
	}
	return lines
}

// missingFrom returns the elements of want absent from have, in want's order.
func missingFrom(have, want []string) []string {
	present := make(map[string]struct{}, len(have))
	for _, opt := range have {
		present[opt] = struct{}{}
	}
	var out []string
	for _, opt := range want {
		if _, ok := present[opt]; !ok {
			out = append(out, opt)
		}
	}
	return out
}
