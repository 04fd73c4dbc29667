package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/example/kernel-cmdline/internal/cmdline"
	"github.com/example/kernel-cmdline/internal/config"
)

type explainRow struct {
	Source    string `json:"source" yaml:"source"`
	Line      int    `json:"line" yaml:"line"`
	Directive string `json:"directive" yaml:"directive"`
	Option    string `json:"option,omitempty" yaml:"option,omitempty"`
	Result    string `json:"result" yaml:"result"`
}

type explainReport struct {
	Steps   []explainRow `json:"steps" yaml:"steps"`
	Cmdline string       `json:"cmdline" yaml:"cmdline"`
}

func newExplainCommand(opts *config.Options) *cobra.Command {
	var format string
	var showSkipped bool

	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Show which fragment added or removed each option",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := newPipeline(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			var report explainReport
			p.observe(func(ev cmdline.Event) {
				if ev.Action == cmdline.ActionSkipped && !showSkipped {
					return
				}
				report.Steps = append(report.Steps, explainRow{
					Source:    ev.Source,
					Line:      ev.Line,
					Directive: ev.Directive.Kind.String(),
					Option:    ev.Directive.Option,
					Result:    string(ev.Action),
				})
			})
			merged, err := p.run()
			if err != nil {
				return err
			}
			report.Cmdline = merged.String()
			if report.Steps == nil {
				report.Steps = []explainRow{}
			}

			out := cmd.OutOrStdout()
			switch strings.ToLower(strings.TrimSpace(format)) {
			case "", "table":
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "SOURCE\tLINE\tDIRECTIVE\tOPTION\tRESULT")
				for _, row := range report.Steps {
					fmt.Fprintf(tw, "%s\t%d\t%s\t%q\t%s\n", row.Source, row.Line, row.Directive, row.Option, row.Result)
				}
				if err := tw.Flush(); err != nil {
					return err
				}
				_, err := fmt.Fprintf(out, "\nResult: %s\n", report.Cmdline)
				return err
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			case "yaml", "yml":
				b, err := yaml.Marshal(report)
				if err != nil {
					return err
				}
				_, err = out.Write(b)
				return err
			default:
				return fmt.Errorf("unsupported --format %q (expected table, json, or yaml)", format)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table, json, yaml")
	cmd.Flags().BoolVar(&showSkipped, "all", false, "Include blank and comment lines")
	return cmd
}
