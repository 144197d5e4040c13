package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/linkfix-dev/linkfix/internal/core"
	"github.com/linkfix-dev/linkfix/internal/report"
)

func newCheckCommand(opts *rootOptions) *cobra.Command {
	var reportPath string
	var jobs int

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Analyze the corpus for broken references (read-only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := core.Check(opts.Root, core.CheckOptions{Concurrency: jobs})
			if err != nil {
				return err
			}

			if reportPath != "" {
				if err := writeReport(reportPath, report.Campaign{Result: result, Mode: report.ModeAnalyze}); err != nil {
					return err
				}
			}

			switch opts.Format {
			case "json":
				if err := printJSON(os.Stdout, result); err != nil {
					return err
				}
			default:
				printCheckText(os.Stdout, result)
			}

			if len(result.Broken) > 0 {
				return errUnresolved
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&reportPath, "report", "", "write a markdown campaign report to this path")
	cmd.Flags().IntVar(&jobs, "jobs", 0, "parse workers (0 = number of CPUs)")
	return cmd
}
