package main

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
)

var version = "dev"

// errUnresolved signals a clean run that left references needing manual
// review. It maps to exit code 1 without an error message.
var errUnresolved = errors.New("unresolved references remain")

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		if !errors.Is(err, errUnresolved) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

// rootOptions holds flags shared by all subcommands.
type rootOptions struct {
	Root   string
	Format string // "text" | "json"
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:     "linkfix",
		Short:   "Find and repair broken references in markdown documentation",
		Version: resolveVersion(),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return validateFormat(opts.Format)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Root, "root", ".", "corpus root directory")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text or json)")

	cmd.AddCommand(newCheckCommand(opts))
	cmd.AddCommand(newFixCommand(opts))
	cmd.AddCommand(newStatsCommand(opts))
	cmd.AddCommand(newDiagnoseCommand(opts))

	return cmd
}

func resolveVersion() string {
	v := version
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			v = info.Main.Version
		}
	}
	return v
}
