// File: internal/config/config_test.go
// Brief: Defaults, flag binding, and validation for kernel-cmdline options.

package config

import (
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/pflag"
)

func TestNewOptionsDefaults(t *testing.T) {
	opts := NewOptions()
	if opts.Root != "/" {
		t.Fatalf("root should default to /, got %q", opts.Root)
	}
	if opts.Project != "kernel-cmdline" || opts.Suffix != ".conf" {
		t.Fatalf("unexpected project/suffix: %q %q", opts.Project, opts.Suffix)
	}
	if len(opts.SearchDirs) != 2 || opts.SearchDirs[0] != "/usr/lib" || opts.SearchDirs[1] != "/etc" {
		t.Fatalf("unexpected search dirs: %v", opts.SearchDirs)
	}
}

func TestBindFlagsParsesValues(t *testing.T) {
	opts := NewOptions()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	names := opts.BindFlags(fs)
	if len(names) != 6 {
		t.Fatalf("expected 6 flag names, got %v", names)
	}
	if err := fs.Parse([]string{"--root", "/srv/image", "--search-dir", "/usr/lib,/run", "--search-dir", "/etc", "-q"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if opts.Root != "/srv/image" || !opts.Quiet {
		t.Fatalf("flags not applied: %+v", opts)
	}
	if len(opts.SearchDirs) != 3 || opts.SearchDirs[1] != "/run" {
		t.Fatalf("unexpected search dirs: %v", opts.SearchDirs)
	}
}

func TestValidateEmptyRootMeansSlash(t *testing.T) {
	opts := NewOptions()
	opts.Root = "  "
	if err := opts.Validate(); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if opts.Root != "/" {
		t.Fatalf("expected /, got %q", opts.Root)
	}
}

func TestValidateExpandsHome(t *testing.T) {
	home, err := homedir.Dir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	opts := NewOptions()
	opts.Root = "~/images/root"
	if err := opts.Validate(); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if want := filepath.Join(home, "images", "root"); opts.Root != want {
		t.Fatalf("expected %q, got %q", want, opts.Root)
	}
}

func TestValidateRejectsBadProject(t *testing.T) {
	for _, project := range []string{"", "a/b", "..", `x\y`} {
		opts := NewOptions()
		opts.Project = project
		if err := opts.Validate(); err == nil {
			t.Fatalf("expected error for project %q", project)
		}
	}
}

func TestValidateRequiresSearchDirs(t *testing.T) {
	opts := NewOptions()
	opts.SearchDirs = []string{" ", ""}
	if err := opts.Validate(); err == nil {
		t.Fatalf("expected error when no search dirs remain")
	}
}

func TestValidateColorMode(t *testing.T) {
	opts := NewOptions()
	opts.ColorMode = "ALWAYS"
	if err := opts.Validate(); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if opts.ColorMode != "always" {
		t.Fatalf("expected normalized color mode, got %q", opts.ColorMode)
	}
	opts.ColorMode = "rainbow"
	if err := opts.Validate(); err == nil {
		t.Fatalf("expected error for invalid color mode")
	}
}
