package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/linkfix-dev/linkfix/internal/core"
)

var validDiagnoseFieldsCLI = map[string]bool{
	"basename_conflicts": true,
	"unresolved":         true,
}

func newDiagnoseCommand(opts *rootOptions) *cobra.Command {
	var fields string

	cmd := &cobra.Command{
		Use:   "diagnose",
		Short: "Show ambiguity sources and unresolved targets from the last scan",
		RunE: func(cmd *cobra.Command, args []string) error {
			fieldList := parseFields(fields)
			for _, f := range fieldList {
				if !validDiagnoseFieldsCLI[f] {
					return fmt.Errorf("unknown diagnose field: %s", f)
				}
			}
			result, err := core.Diagnose(opts.Root, core.DiagnoseOptions{Fields: fieldList})
			if err != nil {
				return err
			}
			switch opts.Format {
			case "json":
				return printDiagnoseJSON(os.Stdout, result, fieldList)
			default:
				printDiagnoseText(os.Stdout, result, fieldList)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&fields, "fields", "", "comma-separated fields to output")
	return cmd
}
