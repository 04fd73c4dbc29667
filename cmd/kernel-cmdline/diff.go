package main

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/example/kernel-cmdline/internal/config"
	"github.com/example/kernel-cmdline/internal/drift"
)

func newDiffCommand(opts *config.Options) *cobra.Command {
	var against string
	var exitCode bool

	cmd := &cobra.Command{
		Use:   "diff [CMDLINE...]",
		Short: "Compare the merged command line with a reference",
		Args:  cobra.ArbitraryArgs,
		Long: `Compare the merged command line with a reference command line, one option per
line. The reference is read from --against (default /proc/cmdline) unless it
is passed as arguments. --against is read from the host filesystem, not from
beneath --root.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, raw, err := loadReference(afero.NewOsFs(), against, args)
			if err != nil {
				return err
			}
			reference, err := drift.Tokenize(raw)
			if err != nil {
				return fmt.Errorf("parse reference %s: %w", name, err)
			}

			p, err := newPipeline(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			merged, err := p.run()
			if err != nil {
				return err
			}

			res, err := drift.Compare(merged, reference, name)
			if err != nil {
				return err
			}
			if !res.Differs() {
				return nil
			}
			if _, err := fmt.Fprint(cmd.OutOrStdout(), drift.Colorize(res.Unified, colorSetting(opts.ColorMode))); err != nil {
				return err
			}
			if exitCode {
				return drift.ErrDrift
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&against, "against", drift.DefaultReference, "File holding the reference command line")
	cmd.Flags().BoolVar(&exitCode, "exit-code", false, "Exit with status 1 when the command lines differ")
	return cmd
}

func loadReference(fs afero.Fs, path string, args []string) (string, string, error) {
	if len(args) > 0 {
		return "arguments", strings.Join(args, " "), nil
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", "", fmt.Errorf("read reference command line: %w", err)
	}
	return path, string(data), nil
}

func colorSetting(mode string) *bool {
	switch mode {
	case "always":
		on := true
		return &on
	case "never":
		off := false
		return &off
	default:
		return nil
	}
}
