package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/kernel-cmdline/internal/drift"
)

func TestDiffAgainstArguments(t *testing.T) {
	isolateEnv(t)
	root := makeRoot(t, layeredFiles)

	stdout, _, err := execute(t, "--root", root, "-q", "diff", "splash", "root=/dev/sda1", "quiet")
	require.NoError(t, err)
	assert.Contains(t, stdout, "--- arguments")
	assert.Contains(t, stdout, "+++ merged")
	assert.Contains(t, stdout, "-quiet")
	assert.Contains(t, stdout, "+debug")
	assert.NotContains(t, stdout, "\x1b[")
}

func TestDiffIdenticalPrintsNothing(t *testing.T) {
	isolateEnv(t)
	root := makeRoot(t, layeredFiles)
	ref := filepath.Join(t.TempDir(), "cmdline")
	require.NoError(t, os.WriteFile(ref, []byte("splash root=/dev/sda1 debug\n"), 0o600))

	stdout, _, err := execute(t, "--root", root, "-q", "diff", "--against", ref, "--exit-code")
	require.NoError(t, err)
	assert.Empty(t, stdout)
}

func TestDiffExitCodeReportsDrift(t *testing.T) {
	isolateEnv(t)
	root := makeRoot(t, layeredFiles)
	ref := filepath.Join(t.TempDir(), "cmdline")
	require.NoError(t, os.WriteFile(ref, []byte("BOOT_IMAGE=/vmlinuz splash\n"), 0o600))

	stdout, _, err := execute(t, "--root", root, "-q", "diff", "--against", ref, "--exit-code")
	require.ErrorIs(t, err, drift.ErrDrift)
	assert.Contains(t, stdout, "--- "+ref)
	assert.Contains(t, stdout, "-BOOT_IMAGE=/vmlinuz")
}

func TestDiffColorAlways(t *testing.T) {
	isolateEnv(t)
	root := makeRoot(t, map[string]string{"etc/kernel-cmdline/a.conf": "quiet\n"})

	stdout, _, err := execute(t, "--root", root, "-q", "--color", "always", "diff", "splash")
	require.NoError(t, err)
	assert.Contains(t, stdout, "\x1b[")
}

func TestDiffMissingReference(t *testing.T) {
	isolateEnv(t)
	root := makeRoot(t, nil)

	_, _, err := execute(t, "--root", root, "diff", "--against", filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadReference(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/proc/cmdline", []byte("quiet splash\n"), 0o444))

	name, raw, err := loadReference(fs, "/proc/cmdline", nil)
	require.NoError(t, err)
	assert.Equal(t, "/proc/cmdline", name)
	assert.Equal(t, "quiet splash\n", raw)

	name, raw, err = loadReference(fs, "/proc/cmdline", []string{"a", "b=c"})
	require.NoError(t, err)
	assert.Equal(t, "arguments", name)
	assert.Equal(t, "a b=c", raw)
}

func TestColorSetting(t *testing.T) {
	assert.Nil(t, colorSetting("auto"))
	require.NotNil(t, colorSetting("always"))
	assert.True(t, *colorSetting("always"))
	require.NotNil(t, colorSetting("never"))
	assert.False(t, *colorSetting("never"))
}
