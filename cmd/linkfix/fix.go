package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/linkfix-dev/linkfix/internal/core"
	"github.com/linkfix-dev/linkfix/internal/report"
)

func newFixCommand(opts *rootOptions) *cobra.Command {
	var reportPath string
	var dryRun bool
	var jobs int

	cmd := &cobra.Command{
		Use:   "fix",
		Short: "Analyze and rewrite broken references with confident fixes",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := core.Fix(opts.Root, core.FixOptions{DryRun: dryRun, Concurrency: jobs})
			if err != nil {
				return err
			}

			if reportPath != "" {
				mode := report.ModeApply
				if dryRun {
					mode = report.ModeDryRun
				}
				c := report.Campaign{
					Result:  result.Check,
					Applied: result.Applied,
					Manual:  result.Manual,
					Failed:  result.Failed,
					Mode:    mode,
				}
				if err := writeReport(reportPath, c); err != nil {
					return err
				}
			}

			switch opts.Format {
			case "json":
				if err := printJSON(os.Stdout, result); err != nil {
					return err
				}
			default:
				printFixText(os.Stdout, result, dryRun)
			}

			if len(result.Manual) > 0 || len(result.Failed) > 0 {
				return errUnresolved
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be rewritten without changing files")
	cmd.Flags().StringVar(&reportPath, "report", "", "write a markdown campaign report to this path")
	cmd.Flags().IntVar(&jobs, "jobs", 0, "parse workers (0 = number of CPUs)")
	return cmd
}
