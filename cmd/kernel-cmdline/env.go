package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/example/kernel-cmdline/internal/envcatalog"
)

type envRow struct {
	Category    string `json:"category" yaml:"category"`
	Variable    string `json:"variable" yaml:"variable"`
	Value       string `json:"value,omitempty" yaml:"value,omitempty"`
	Description string `json:"description" yaml:"description"`
}

func envRows() []envRow {
	vars := envcatalog.Catalog()
	out := make([]envRow, 0, len(vars))
	for _, v := range vars {
		value := ""
		if !v.Dynamic {
			value = strings.TrimSpace(os.Getenv(v.Name))
		}
		out = append(out, envRow{
			Category:    v.Category,
			Variable:    v.Name,
			Value:       value,
			Description: v.Description,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Variable < out[j].Variable
	})
	return out
}

func newEnvCommand() *cobra.Command {
	var format string
	var onlySet bool

	cmd := &cobra.Command{
		Use:   "env",
		Short: "Show environment variables used by kernel-cmdline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := envRows()
			if onlySet {
				kept := rows[:0]
				for _, row := range rows {
					if row.Value != "" {
						kept = append(kept, row)
					}
				}
				rows = kept
			}

			switch strings.ToLower(strings.TrimSpace(format)) {
			case "", "table":
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "CATEGORY\tVARIABLE\tVALUE\tDESCRIPTION")
				for _, row := range rows {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", row.Category, row.Variable, row.Value, row.Description)
				}
				return tw.Flush()
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			case "yaml", "yml":
				b, err := yaml.Marshal(rows)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(b)
				return err
			default:
				return fmt.Errorf("unsupported --format %q (expected table, json, or yaml)", format)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table, json, yaml")
	cmd.Flags().BoolVar(&onlySet, "set", false, "Show only variables with a non-empty value")
	return cmd
}
