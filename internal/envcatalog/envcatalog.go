// Package envcatalog lists the environment variables kernel-cmdline reads.
package envcatalog

import "github.com/example/kernel-cmdline/internal/featureflags"

type VarInfo struct {
	Category    string
	Name        string
	Description string
	// Dynamic marks a name pattern rather than a single variable.
	Dynamic bool
}

// Catalog returns the known variables. Feature variables are generated from
// the feature flag registry.
func Catalog() []VarInfo {
	vars := []VarInfo{
		{
			Category:    "Discovery",
			Name:        "CONFIG_ROOT",
			Description: "Root directory searched for drop-ins (default /). Symlinks are resolved before use.",
		},
		{
			Category:    "Config",
			Name:        "KERNEL_CMDLINE_CONFIG",
			Description: "Path to the kernel-cmdline config file.",
		},
		{
			Category:    "Config",
			Name:        "KERNEL_CMDLINE_<FLAG>",
			Dynamic:     true,
			Description: "Set any kernel-cmdline flag via environment (hyphens become underscores). Example: KERNEL_CMDLINE_LOG_LEVEL=debug.",
		},
		{
			Category:    "Config",
			Name:        "XDG_CONFIG_HOME",
			Description: "Base directory searched for kernel-cmdline/config.yaml.",
		},
		{
			Category:    "Output",
			Name:        "NO_COLOR",
			Description: "Disable ANSI color output (any non-empty value).",
		},
		{
			Category:    "Features",
			Name:        featureflags.EnvPrefix + "<FLAG>",
			Dynamic:     true,
			Description: "Enable a feature flag. Example: " + featureflags.EnvPrefix + "NAME_ORDER=1.",
		},
	}
	for _, def := range featureflags.Definitions() {
		vars = append(vars, VarInfo{
			Category:    "Features",
			Name:        def.EnvVar(),
			Description: def.Description + " (" + string(def.Stage) + ")",
		})
	}
	return vars
}
