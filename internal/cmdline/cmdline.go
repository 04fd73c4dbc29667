// Package cmdline folds kernel command-line fragments into one ordered,
// duplicate-free list of options.
//
// Fragments are applied strictly in the order given. Within a fragment every
// line is a directive:
//
//	# comment        ignored, as are blank lines
//	quiet            appended unless already present
//	-quiet           removes every option equal to "quiet"
//
// A removed option that is added again later lands at the end of the list.
package cmdline

import (
	"slices"
	"strings"

	"github.com/example/kernel-cmdline/internal/fragment"
)

// Cmdline is the accumulated, ordered set of kernel options.
type Cmdline []string

// Contains reports whether opt is present, compared byte for byte.
func (c Cmdline) Contains(opt string) bool {
	return slices.Contains(c, opt)
}

// String joins the options with single spaces. An empty Cmdline yields "".
func (c Cmdline) String() string {
	return strings.Join(c, " ")
}

// Apply returns the result of applying lines to c. The receiver is not modified.
func (c Cmdline) Apply(lines []string) Cmdline {
	var m Merger
	return m.ApplyFragment(c, fragment.Fragment{Lines: lines})
}

// Merge folds fragments in order starting from an empty command line.
func Merge(fragments ...fragment.Fragment) Cmdline {
	var m Merger
	return m.Merge(fragments...)
}
