package drift

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeKeepsQuotedValuesTogether(t *testing.T) {
	got, err := Tokenize(`BOOT_IMAGE=/vmlinuz root=UUID=1234 ro dyndbg="file a.c +p"` + "\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"BOOT_IMAGE=/vmlinuz", "root=UUID=1234", "ro", "dyndbg=file a.c +p"}, got)
}

func TestTokenizeEmpty(t *testing.T) {
	got, err := Tokenize("  \n")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTokenizeShellOperatorFallsBackToFields(t *testing.T) {
	got, err := Tokenize("a;b c")
	require.NoError(t, err)
	assert.Equal(t, []string{"a;b", "c"}, got)
}

func TestTokenizeUnterminatedQuote(t *testing.T) {
	_, err := Tokenize(`quiet dyndbg="oops`)
	require.Error(t, err)
}

func TestNormalizeMatchesTokenize(t *testing.T) {
	assert.Equal(t, []string{"dyndbg=file a.c +p", "quiet"}, Normalize([]string{`dyndbg="file a.c +p"`, "quiet"}))
}

func TestCompareIdentical(t *testing.T) {
	res, err := Compare([]string{"quiet", `dyndbg="x y"`}, []string{"quiet", "dyndbg=x y"}, DefaultReference)
	require.NoError(t, err)
	assert.False(t, res.Differs())
	assert.Empty(t, res.Added)
	assert.Empty(t, res.Removed)
}

func TestCompareReportsChanges(t *testing.T) {
	res, err := Compare([]string{"splash", "debug"}, []string{"quiet", "splash"}, DefaultReference)
	require.NoError(t, err)
	require.True(t, res.Differs())
	assert.Equal(t, []string{"debug"}, res.Added)
	assert.Equal(t, []string{"quiet"}, res.Removed)
	assert.Contains(t, res.Unified, "--- /proc/cmdline\n")
	assert.Contains(t, res.Unified, "+++ merged\n")
	assert.Contains(t, res.Unified, "-quiet\n")
	assert.Contains(t, res.Unified, "+debug\n")
	assert.Contains(t, res.Unified, " splash\n")
}

func TestCompareOrderOnly(t *testing.T) {
	res, err := Compare([]string{"b", "a"}, []string{"a", "b"}, "ref")
	require.NoError(t, err)
	assert.True(t, res.Differs())
	assert.Empty(t, res.Added)
	assert.Empty(t, res.Removed)
}

func TestColorize(t *testing.T) {
	res, err := Compare([]string{"debug"}, []string{"quiet"}, "ref")
	require.NoError(t, err)

	off := false
	plain := Colorize(res.Unified, &off)
	assert.Equal(t, res.Unified, plain)

	on := true
	colored := Colorize(res.Unified, &on)
	assert.Contains(t, colored, "\x1b[")
	assert.True(t, strings.HasPrefix(colored, "--- ref\n+++ merged\n"))

	assert.Equal(t, "", Colorize("", &on))
}
