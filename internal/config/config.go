// File: internal/config/config.go
// Brief: Flag plumbing and runtime options for kernel-cmdline.

// Package config defines the flags shared by every kernel-cmdline command and
// turns them, after Cobra/Viper have filled them in, into validated Options
// the discovery and merge steps consume.
package config

import (
	"fmt"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/example/kernel-cmdline/internal/discovery"
)

// RootEnvVar selects the configuration root when --root is not given.
const RootEnvVar = "CONFIG_ROOT"

// Options holds the CLI configuration for locating and merging drop-ins.
type Options struct {
	Root       string
	Project    string
	Suffix     string
	SearchDirs []string
	Quiet      bool
	ColorMode  string
}

// NewOptions returns Options with defaults applied.
func NewOptions() *Options {
	return &Options{
		Root:       "/",
		Project:    discovery.DefaultProject,
		Suffix:     discovery.DefaultSuffix,
		SearchDirs: discovery.ClassicSystem(),
		ColorMode:  "auto",
	}
}

// AddFlags binds configuration flags to the provided Cobra command as persistent flags.
func (o *Options) AddFlags(cmd *cobra.Command) {
	o.BindFlags(cmd.PersistentFlags())
}

// BindFlags attaches the flags to fs and returns their names.
func (o *Options) BindFlags(fs *pflag.FlagSet) []string {
	fs.StringVar(&o.Root, "root", o.Root, "Configuration root to search beneath (env "+RootEnvVar+")")
	fs.StringVar(&o.Project, "project", o.Project, "Project directory name looked up in every search directory")
	fs.StringVar(&o.Suffix, "suffix", o.Suffix, "File suffix that marks a drop-in fragment")
	fs.StringSliceVar(&o.SearchDirs, "search-dir", o.SearchDirs, "Search directories from lowest to highest precedence (repeat or comma-separate)")
	fs.BoolVarP(&o.Quiet, "quiet", "q", o.Quiet, "Do not print a 'Parsing <path>' line per fragment")
	fs.StringVar(&o.ColorMode, "color", o.ColorMode, "Colorize output: auto, always, never")
	return []string{"root", "project", "suffix", "search-dir", "quiet", "color"}
}

// Validate normalizes the options and reports invalid combinations.
func (o *Options) Validate() error {
	o.Root = strings.TrimSpace(o.Root)
	if o.Root == "" {
		o.Root = "/"
	}
	expanded, err := homedir.Expand(o.Root)
	if err != nil {
		return fmt.Errorf("expand --root %q: %w", o.Root, err)
	}
	o.Root = expanded

	o.Project = strings.TrimSpace(o.Project)
	if o.Project == "" {
		return fmt.Errorf("--project cannot be empty")
	}
	if strings.ContainsAny(o.Project, `/\`) || o.Project == "." || o.Project == ".." {
		return fmt.Errorf("invalid --project %q (must be a single directory name)", o.Project)
	}
	if strings.TrimSpace(o.Suffix) == "" {
		return fmt.Errorf("--suffix cannot be empty")
	}

	var dirs []string
	for _, dir := range o.SearchDirs {
		if dir = strings.TrimSpace(dir); dir != "" {
			dirs = append(dirs, dir)
		}
	}
	if len(dirs) == 0 {
		return fmt.Errorf("at least one --search-dir is required")
	}
	o.SearchDirs = dirs

	switch strings.ToLower(strings.TrimSpace(o.ColorMode)) {
	case "", "auto":
		o.ColorMode = "auto"
	case "always":
		o.ColorMode = "always"
	case "never":
		o.ColorMode = "never"
	default:
		return fmt.Errorf("invalid --color value %q (allowed: auto, always, never)", o.ColorMode)
	}
	return nil
}
