// Package report renders the engine's result payload into a
// human-readable campaign report. It is a pure sink: nothing in here
// feeds back into resolution.
package report

import (
	"fmt"
	"io"

	"github.com/linkfix-dev/linkfix/internal/core"
)

// Mode describes which pass produced the payload.
type Mode string

const (
	ModeAnalyze Mode = "Analyze (read-only)"
	ModeDryRun  Mode = "Dry run"
	ModeApply   Mode = "Applied fixes"
)

// Campaign is the full payload handed to the renderer.
type Campaign struct {
	Result      *core.CheckResult
	Applied     []core.AppliedFix
	Manual      []core.BrokenReference
	Failed      []core.FileFailure
	Mode        Mode
	GeneratedAt string // omitted from the report when empty
}

// Render writes the markdown campaign report.
func Render(w io.Writer, c Campaign) error {
	bw := &errWriter{w: w}

	bw.printf("# Link Campaign Report\n\n")
	if c.GeneratedAt != "" {
		bw.printf("*Generated: %s*\n\n", c.GeneratedAt)
	}

	fixed, noCandidate, ambiguous := c.Result.StatusCounts()

	bw.printf("## Summary\n\n")
	bw.printf("- **Documents scanned**: %d\n", c.Result.Documents)
	bw.printf("- **References found**: %d\n", c.Result.References)
	bw.printf("- **Valid references**: %d\n", c.Result.Valid)
	bw.printf("- **Broken references**: %d\n", len(c.Result.Broken))
	bw.printf("- **Confident fixes**: %d\n", fixed)
	bw.printf("- **No candidate**: %d\n", noCandidate)
	bw.printf("- **Ambiguous**: %d\n", ambiguous)
	bw.printf("- **Mode**: %s\n\n", c.Mode)

	if len(c.Applied) > 0 {
		bw.printf("## Automatically Fixed Links\n\n")
		bw.printf("| Source File | Old Link | New Link |\n")
		bw.printf("|-------------|----------|----------|\n")
		for _, a := range c.Applied {
			bw.printf("| %s | `%s` | `%s` |\n", a.Source, a.OldLink, a.NewLink)
		}
		bw.printf("\n")
	}

	manual := c.Manual
	if manual == nil {
		// Analyze mode: every non-confident broken reference needs review.
		for _, b := range c.Result.Broken {
			if b.Resolution.Status != core.StatusFixed {
				manual = append(manual, b)
			}
		}
	}
	if len(manual) > 0 {
		bw.printf("## Links Requiring Manual Review\n\n")
		bw.printf("| Source File | Line | Broken Target | Suggestion |\n")
		bw.printf("|-------------|------|---------------|------------|\n")
		for _, m := range manual {
			bw.printf("| %s | %d | `%s` | %s |\n", m.Source, m.Line, m.RawTarget, suggestion(m))
		}
		bw.printf("\n")
	}

	if len(c.Failed) > 0 {
		bw.printf("## Failed Writes\n\n")
		for _, f := range c.Failed {
			bw.printf("- %s: %s\n", f.Source, f.Err)
		}
		bw.printf("\n")
	}

	bw.printf("## Next Steps\n\n")
	bw.printf("1. Review this report for any incorrectly fixed links\n")
	bw.printf("2. Manually update links in the 'Manual Review' section\n")
	bw.printf("3. Run `linkfix check` again to verify all issues are resolved\n")
	bw.printf("4. Add override mappings for targets the heuristics cannot place\n")

	return bw.err
}

func suggestion(b core.BrokenReference) string {
	switch b.Resolution.Status {
	case core.StatusAmbiguous:
		out := "ambiguous:"
		for _, c := range b.Resolution.Candidates {
			out += " `" + c + "`"
		}
		return out
	case core.StatusFixed:
		return "`" + b.Resolution.Suggested + "`"
	default:
		return "No suggestion"
	}
}

// errWriter latches the first write error so Render stays readable.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
