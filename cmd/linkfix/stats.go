package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/linkfix-dev/linkfix/internal/core"
)

func newStatsCommand(opts *rootOptions) *cobra.Command {
	var fields string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show statistics from the last scan",
		RunE: func(cmd *cobra.Command, args []string) error {
			fieldList := parseFields(fields)
			result, err := core.Stats(opts.Root, core.StatsOptions{Fields: fieldList})
			if err != nil {
				return err
			}
			switch opts.Format {
			case "json":
				return printStatsJSON(os.Stdout, result, fieldList)
			default:
				printStatsText(os.Stdout, result, fieldList)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&fields, "fields", "", "comma-separated fields to output")
	return cmd
}

// parseFields splits a comma-separated field string into a slice.
// Returns nil for empty input.
func parseFields(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
