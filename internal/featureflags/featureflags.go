// Package featureflags gates merge behaviors that differ from the default
// drop-in rules. Flags come from --feature and KERNEL_CMDLINE_FEATURE_* variables.
package featureflags

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Stage indicates how settled a flag's behavior is.
type Stage string

const (
	StageExperimental Stage = "experimental"
	StageBeta         Stage = "beta"
)

// Name is the kebab-case identifier of a flag.
type Name string

const (
	// FeatureTrimRemovals trims whitespace after the '-' of a removal line.
	FeatureTrimRemovals Name = "trim-removals"
	// FeatureNameOrder applies drop-ins sorted by file name with masking.
	FeatureNameOrder Name = "name-order"
)

// EnvPrefix marks environment variables that switch a feature on.
const EnvPrefix = "KERNEL_CMDLINE_FEATURE_"

// Definition describes a registered flag.
type Definition struct {
	Name        Name
	Description string
	Stage       Stage
}

var registry = map[Name]Definition{
	FeatureTrimRemovals: {
		Name:        FeatureTrimRemovals,
		Description: "Treat '- quiet' like '-quiet' by trimming the removal target.",
		Stage:       StageExperimental,
	},
	FeatureNameOrder: {
		Name:        FeatureNameOrder,
		Description: "Order fragments by file name across directories; /etc masks /usr/lib files of the same name.",
		Stage:       StageBeta,
	},
}

// ErrUnknownFeature is returned for names missing from the registry.
var ErrUnknownFeature = errors.New("unknown feature flag")

// Definitions returns every registered flag sorted by name.
func Definitions() []Definition {
	defs := make([]Definition, 0, len(registry))
	for _, def := range registry {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

// EnvVar is the variable that enables d, e.g. KERNEL_CMDLINE_FEATURE_NAME_ORDER.
func (d Definition) EnvVar() string {
	return EnvPrefix + strings.ReplaceAll(strings.ToUpper(string(d.Name)), "-", "_")
}

// Flags is the resolved set of enabled features.
type Flags struct {
	on map[Name]bool
}

// Enabled reports whether name is switched on.
func (f Flags) Enabled(name Name) bool {
	return f.on[name]
}

// EnabledNames lists the enabled flags alphabetically.
func (f Flags) EnabledNames() []Name {
	names := make([]Name, 0, len(f.on))
	for name, on := range f.on {
		if on {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Resolve enables every flag named in sources. Values may be comma separated
// and use either '-' or '_'.
func Resolve(sources ...[]string) (Flags, error) {
	on := make(map[Name]bool)
	for _, source := range sources {
		for _, value := range source {
			for _, token := range strings.Split(value, ",") {
				token = strings.TrimSpace(token)
				if token == "" {
					continue
				}
				name := Name(strings.ReplaceAll(strings.ToLower(token), "_", "-"))
				if _, ok := registry[name]; !ok {
					return Flags{}, fmt.Errorf("%w: %s", ErrUnknownFeature, token)
				}
				on[name] = true
			}
		}
	}
	return Flags{on: on}, nil
}

// EnabledFromEnv returns the flag names switched on by truthy
// KERNEL_CMDLINE_FEATURE_* entries in environ, or in the process environment
// when environ is nil.
func EnabledFromEnv(environ []string) []string {
	if environ == nil {
		environ = os.Environ()
	}
	var enabled []string
	for _, entry := range environ {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || !strings.HasPrefix(key, EnvPrefix) || !isTruthy(value) {
			continue
		}
		name := strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
		enabled = append(enabled, strings.ReplaceAll(name, "_", "-"))
	}
	return enabled
}

type ctxKey struct{}

// ContextWithFlags stores flags on ctx.
func ContextWithFlags(ctx context.Context, flags Flags) context.Context {
	return context.WithValue(ctx, ctxKey{}, flags)
}

// FromContext returns the flags stored on ctx, or an empty set.
func FromContext(ctx context.Context) Flags {
	if ctx == nil {
		return Flags{}
	}
	flags, _ := ctx.Value(ctxKey{}).(Flags)
	return flags
}

func isTruthy(val string) bool {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "1", "t", "true", "y", "yes", "on":
		return true
	default:
		return false
	}
}
