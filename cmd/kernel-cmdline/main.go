// main.go bootstraps kernel-cmdline: it builds the root Cobra command, binds
// flags to the environment and config file, and maps errors to an exit status.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/example/kernel-cmdline/internal/config"
	"github.com/example/kernel-cmdline/internal/drift"
	"github.com/example/kernel-cmdline/internal/featureflags"
	"github.com/example/kernel-cmdline/internal/logging"
)

const (
	envPrefix     = "KERNEL_CMDLINE"
	configEnvVar  = "KERNEL_CMDLINE_CONFIG"
	configDirName = "kernel-cmdline"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rootCmd := newRootCommand()
	err := rootCmd.ExecuteContext(ctx)
	handleError(rootCmd.ErrOrStderr(), err)
	if err != nil {
		cancel()
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := config.NewOptions()
	logLevel := "info"
	var featureValues []string
	cmd := &cobra.Command{
		Use:   "kernel-cmdline",
		Short: "Merge kernel command-line drop-ins into a single line",
		Long: `kernel-cmdline merges option fragments from <root>/usr/lib/kernel-cmdline/*.conf
and <root>/etc/kernel-cmdline/*.conf, in that order, and prints the resulting
kernel command line.

Each line of a fragment is one directive:
  # comment    ignored, as are blank lines
  quiet        add the option unless it is already present
  -quiet       remove the option wherever it appears`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := applyViper(cmd); err != nil {
				return err
			}
			if err := opts.Validate(); err != nil {
				return err
			}
			logger, err := logging.New(logLevel, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			flags, err := featureflags.Resolve(featureValues, featureflags.EnabledFromEnv(nil))
			if err != nil {
				return err
			}
			if names := flags.EnabledNames(); len(names) > 0 {
				logger.V(1).Info("feature flags enabled", "features", names)
			}
			ctx := featureflags.ContextWithFlags(cmd.Context(), flags)
			ctx = logr.NewContext(ctx, logger)
			cmd.SetContext(ctx)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts)
		},
	}
	opts.AddFlags(cmd)
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", logLevel, "Log level for diagnostics on stderr ("+strings.Join(logging.Levels, ", ")+")")
	cmd.PersistentFlags().StringSliceVar(&featureValues, "feature", nil, "Enable optional merge behaviors (repeat or pass comma-separated names)")
	cmd.AddCommand(
		newExplainCommand(opts),
		newDiffCommand(opts),
		newEnvCommand(),
		newVersionCommand(),
	)
	cmd.Example = `  # Print the merged command line for the running system
  kernel-cmdline

  # Merge the drop-ins of an image root
  CONFIG_ROOT=/mnt/image kernel-cmdline

  # Show which file added or removed each option
  kernel-cmdline explain --root /mnt/image

  # Compare with the running kernel
  kernel-cmdline diff --exit-code`
	return cmd
}

// applyViper fills flags the user did not set from KERNEL_CMDLINE_* variables,
// CONFIG_ROOT, and the optional config file.
func applyViper(cmd *cobra.Command) error {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	if err := v.BindEnv("root", envPrefix+"_ROOT", config.RootEnvVar); err != nil {
		return err
	}
	configFile := os.Getenv(configEnvVar)
	configureConfigFile(v, configFile)

	fs := cmd.Flags()
	if err := v.BindPFlags(fs); err != nil {
		return err
	}
	if err := readConfigFile(v, configFile != ""); err != nil {
		return err
	}
	var setErr error
	fs.VisitAll(func(f *pflag.Flag) {
		if setErr != nil || f.Changed || !v.IsSet(f.Name) {
			return
		}
		val := fmt.Sprintf("%v", v.Get(f.Name))
		if f.Value.Type() == "stringSlice" {
			val = strings.Join(v.GetStringSlice(f.Name), ",")
		}
		if val == "" {
			return
		}
		if err := f.Value.Set(val); err != nil {
			setErr = fmt.Errorf("invalid value %q for --%s: %w", val, f.Name, err)
		}
	})
	return setErr
}

func configureConfigFile(v *viper.Viper, explicitPath string) {
	if explicitPath != "" {
		v.SetConfigFile(explicitPath)
		return
	}
	v.SetConfigName("config")
	for _, dir := range configSearchDirs() {
		v.AddConfigPath(dir)
	}
}

func readConfigFile(v *viper.Viper, strict bool) error {
	if err := v.ReadInConfig(); err != nil {
		var cfgErr viper.ConfigFileNotFoundError
		if errors.As(err, &cfgErr) && !strict {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}
	return nil
}

func configSearchDirs() []string {
	added := make(map[string]struct{})
	var dirs []string
	add := func(path string) {
		if path == "" {
			return
		}
		if _, ok := added[path]; ok {
			return
		}
		added[path] = struct{}{}
		dirs = append(dirs, path)
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		add(filepath.Join(xdg, configDirName))
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		add(filepath.Join(home, ".config", configDirName))
	}
	return dirs
}

func handleError(w io.Writer, err error) {
	if err == nil || errors.Is(err, pflag.ErrHelp) || errors.Is(err, drift.ErrDrift) {
		return
	}
	fmt.Fprintf(w, "Error: %s\n", err)
}
