// Package fragment reads kernel command-line drop-in files into trimmed lines.
package fragment

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// MaxLineLength bounds a single line. Longer lines fail to read.
const MaxLineLength = 1024 * 1024

// Fragment is the ordered content of one configuration file.
type Fragment struct {
	// Source identifies the file in diagnostics.
	Source string
	Lines  []string
}

// LineReadError reports a line that could not be decoded as text.
type LineReadError struct {
	Line int
	Err  error
}

func (e *LineReadError) Error() string {
	return fmt.Sprintf("unable to parse line number %d: %v", e.Line, e.Err)
}

func (e *LineReadError) Unwrap() error { return e.Err }

// ErrInvalidUTF8 is wrapped by LineReadError when a line is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("stream did not contain valid UTF-8")

// Read consumes r and returns its lines with surrounding whitespace removed,
// in file order.
func Read(source string, r io.Reader) (Fragment, error) {
	frag := Fragment{Source: source}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineLength)
	lineno := 1
	for scanner.Scan() {
		raw := scanner.Bytes()
		if !utf8.Valid(raw) {
			return Fragment{}, &LineReadError{Line: lineno, Err: ErrInvalidUTF8}
		}
		frag.Lines = append(frag.Lines, strings.TrimSpace(string(raw)))
		lineno++
	}
	if err := scanner.Err(); err != nil {
		return Fragment{}, &LineReadError{Line: lineno, Err: err}
	}
	return frag, nil
}
