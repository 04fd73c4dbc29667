package fragment

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadTrimsAndKeepsOrder(t *testing.T) {
	frag, err := Read("/etc/kernel-cmdline/a.conf", strings.NewReader("  quiet\t\n\n# note\r\nroot=/dev/sda1   \n"))
	require.NoError(t, err)
	assert.Equal(t, "/etc/kernel-cmdline/a.conf", frag.Source)
	assert.Equal(t, []string{"quiet", "", "# note", "root=/dev/sda1"}, frag.Lines)
}

func TestReadWithoutTrailingNewline(t *testing.T) {
	frag, err := Read("x", strings.NewReader("a\nb"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, frag.Lines)
}

func TestReadEmpty(t *testing.T) {
	frag, err := Read("x", strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, frag.Lines)
}

func TestReadInvalidUTF8ReportsLineNumber(t *testing.T) {
	_, err := Read("x", strings.NewReader("ok\nalso ok\nbad \xff\xfe\n"))
	var lineErr *LineReadError
	require.ErrorAs(t, err, &lineErr)
	assert.Equal(t, 3, lineErr.Line)
	assert.ErrorIs(t, err, ErrInvalidUTF8)
	assert.Contains(t, err.Error(), "line number 3")
}

func TestReadUnderlyingFailure(t *testing.T) {
	boom := errors.New("boom")
	_, err := Read("x", iotest.ErrReader(boom))
	var lineErr *LineReadError
	require.ErrorAs(t, err, &lineErr)
	assert.Equal(t, 1, lineErr.Line)
	assert.ErrorIs(t, err, boom)
}

func TestReadLineTooLong(t *testing.T) {
	long := strings.Repeat("x", MaxLineLength+1)
	_, err := Read("x", strings.NewReader("first\n"+long+"\n"))
	var lineErr *LineReadError
	require.ErrorAs(t, err, &lineErr)
	assert.Equal(t, 2, lineErr.Line)
}
