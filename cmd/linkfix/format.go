package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/linkfix-dev/linkfix/internal/core"
	"github.com/linkfix-dev/linkfix/internal/report"
)

// validateFormat checks that format is "json" or "text".
func validateFormat(format string) error {
	if format != "json" && format != "text" {
		return fmt.Errorf("invalid format: %q (must be json or text)", format)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printCheckText(w io.Writer, r *core.CheckResult) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	printWarnings(r.Warnings)

	fmt.Fprintf(w, "documents: %d\n", r.Documents)
	fmt.Fprintf(w, "references: %d (external %d, anchor-only %d)\n", r.References, r.External, r.AnchorOnly)
	fmt.Fprintf(w, "valid: %s\n", green(r.Valid))

	if len(r.Broken) == 0 {
		fmt.Fprintf(w, "%s no broken references\n", green("✓"))
		return
	}

	fixed, noCandidate, ambiguous := r.StatusCounts()
	fmt.Fprintf(w, "broken: %s (fixable %d, no candidate %d, ambiguous %d)\n",
		yellow(len(r.Broken)), fixed, noCandidate, ambiguous)
	fmt.Fprintln(w)

	for _, b := range r.Broken {
		fmt.Fprintf(w, "%s:%d %s\n", cyan(b.Source), b.Line, b.RawLink())
		switch b.Resolution.Status {
		case core.StatusFixed:
			fmt.Fprintf(w, "  %s %s (%s)\n", green("→"), b.Resolution.Suggested, b.Resolution.Source)
		case core.StatusAmbiguous:
			fmt.Fprintf(w, "  %s candidates: %v\n", yellow("?"), b.Resolution.Candidates)
		default:
			fmt.Fprintf(w, "  %s no candidate\n", yellow("✗"))
		}
	}
}

func printFixText(w io.Writer, r *core.FixResult, dryRun bool) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	printWarnings(r.Check.Warnings)

	if dryRun {
		fmt.Fprintf(w, "%s\n", color.YellowString("DRY RUN - no files will be changed"))
	}

	for _, a := range r.Applied {
		fmt.Fprintf(w, "%s: %s %s %s\n", cyan(a.Source), red(a.OldLink), "→", green(a.NewLink))
	}
	for _, m := range r.Manual {
		fmt.Fprintf(w, "%s:%d %s %s\n", cyan(m.Source), m.Line, m.RawLink(), yellow("(manual review)"))
	}
	for _, f := range r.Failed {
		fmt.Fprintf(w, "%s: %s\n", cyan(f.Source), red("write failed: "+f.Err))
	}

	fmt.Fprintln(w)
	verb := "applied"
	if dryRun {
		verb = "planned"
	}
	fmt.Fprintf(w, "fixes %s: %d, manual review: %d, failed files: %d\n",
		verb, len(r.Applied), len(r.Manual), len(r.Failed))
}

func printStatsText(w io.Writer, r *core.StatsResult, fields []string) {
	rows := []struct {
		field string
		value int
	}{
		{"documents", r.Documents},
		{"references", r.References},
		{"external", r.External},
		{"anchor_only", r.AnchorOnly},
		{"valid", r.Valid},
		{"fixable", r.Fixable},
		{"applied", r.Applied},
		{"no_candidate", r.NoCandidate},
		{"ambiguous", r.Ambiguous},
	}
	for _, row := range rows {
		if fieldRequested(row.field, fields) {
			fmt.Fprintf(w, "%s: %d\n", row.field, row.value)
		}
	}
}

func printStatsJSON(w io.Writer, r *core.StatsResult, fields []string) error {
	m := make(map[string]any)
	rows := map[string]int{
		"documents":    r.Documents,
		"references":   r.References,
		"external":     r.External,
		"anchor_only":  r.AnchorOnly,
		"valid":        r.Valid,
		"fixable":      r.Fixable,
		"applied":      r.Applied,
		"no_candidate": r.NoCandidate,
		"ambiguous":    r.Ambiguous,
	}
	for field, value := range rows {
		if fieldRequested(field, fields) {
			m[field] = value
		}
	}
	return printJSON(w, m)
}

func printDiagnoseText(w io.Writer, r *core.DiagnoseResult, fields []string) {
	if fieldRequested("basename_conflicts", fields) {
		fmt.Fprintf(w, "basename conflicts: %d\n", len(r.BasenameConflicts))
		for _, c := range r.BasenameConflicts {
			fmt.Fprintf(w, "  %s:\n", c.Name)
			for _, p := range c.Paths {
				fmt.Fprintf(w, "    %s\n", p)
			}
		}
	}
	if fieldRequested("unresolved", fields) {
		fmt.Fprintf(w, "unresolved targets: %d\n", len(r.Unresolved))
		for _, u := range r.Unresolved {
			fmt.Fprintf(w, "  %s (%s) referenced from %d file(s)\n", u.Target, u.Status, len(u.Sources))
		}
	}
}

func printDiagnoseJSON(w io.Writer, r *core.DiagnoseResult, fields []string) error {
	m := make(map[string]any)
	if fieldRequested("basename_conflicts", fields) {
		m["basename_conflicts"] = r.BasenameConflicts
	}
	if fieldRequested("unresolved", fields) {
		m["unresolved"] = r.Unresolved
	}
	return printJSON(w, m)
}

// fieldRequested reports whether a field should be shown (empty fields
// means all).
func fieldRequested(field string, fields []string) bool {
	if len(fields) == 0 {
		return true
	}
	for _, f := range fields {
		if f == field {
			return true
		}
	}
	return false
}

func printWarnings(warnings []string) {
	for _, warn := range warnings {
		fmt.Fprintf(os.Stderr, "%s %s\n", color.YellowString("warning:"), warn)
	}
}

func writeReport(path string, c report.Campaign) error {
	c.GeneratedAt = time.Now().Format("2006-01-02 15:04:05")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	defer f.Close()
	if err := report.Render(f, c); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return f.Close()
}
