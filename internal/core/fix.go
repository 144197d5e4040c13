package core

import (
	"fmt"
	"path/filepath"
)

// FixOptions controls the apply pass.
type FixOptions struct {
	DryRun      bool // analyze and plan, but leave disk untouched
	Concurrency int
}

// FixResult is the outcome of one apply pass.
type FixResult struct {
	Check   *CheckResult      `json:"check"`
	Applied []AppliedFix      `json:"applied"`
	Manual  []BrokenReference `json:"manual_review"`
	Failed  []FileFailure     `json:"failed,omitempty"`
}

// Fix runs the full pipeline in apply mode: everything Check does, then
// rewrites each document that has confident fixes and merges the applied
// fixes back into the override table. Documents are rewritten one at a
// time, so no path ever has concurrent writers; a write failure fails
// that document only. In dry-run mode the plan is returned and nothing
// on disk changes.
func Fix(root string, opts FixOptions) (*FixResult, error) {
	a, err := analyze(root, CheckOptions{Concurrency: opts.Concurrency})
	if err != nil {
		return nil, err
	}

	result := &FixResult{Check: a.result}

	// Group confident fixes by source document; everything else goes to
	// manual review. Documents keep the deterministic scan order.
	// Repeated occurrences of the same literal link in one document fold
	// into a single plan: strings.ReplaceAll repairs them all at once.
	plans := make(map[string][]plannedFix)
	planIdx := make(map[string]int)
	var order []string
	for i, broken := range a.result.Broken {
		if broken.Resolution.Status != StatusFixed {
			result.Manual = append(result.Manual, broken)
			continue
		}
		if _, ok := plans[broken.Source]; !ok {
			order = append(order, broken.Source)
		}
		key := broken.Source + "\x00" + broken.RawLink()
		if j, ok := planIdx[key]; ok {
			plans[broken.Source][j].srefs = append(plans[broken.Source][j].srefs, a.brokenRef[i])
			continue
		}
		planIdx[key] = len(plans[broken.Source])
		plans[broken.Source] = append(plans[broken.Source], plannedFix{
			ref:     broken,
			srefs:   []*scannedRef{a.brokenRef[i]},
			newLink: "[" + broken.Text + "](" + broken.Resolution.Suggested + ")",
		})
	}

	if opts.DryRun {
		for _, source := range order {
			for _, fix := range plans[source] {
				result.Applied = append(result.Applied, AppliedFix{
					Source:  source,
					OldLink: fix.ref.RawLink(),
					NewLink: fix.newLink,
				})
			}
		}
		persistScan(root, a)
		return result, nil
	}

	for _, source := range order {
		applied, stale, err := rewriteDocument(filepath.Join(root, source), plans[source])
		if err != nil {
			result.Failed = append(result.Failed, FileFailure{Source: source, Err: err.Error()})
			continue
		}
		for _, fix := range stale {
			// The literal syntax was not found at rewrite time; demote to
			// manual review rather than guess.
			result.Manual = append(result.Manual, fix.ref)
		}
		for _, fix := range applied {
			result.Applied = append(result.Applied, AppliedFix{
				Source:  source,
				OldLink: fix.ref.RawLink(),
				NewLink: fix.newLink,
			})
			for _, sref := range fix.srefs {
				sref.Status = "applied"
			}
			// Confirmed fixes become overrides for future runs.
			// Override-sourced fixes are already in the table.
			if fix.ref.Resolution.Source != SourceOverride {
				a.overrides.Set(fix.ref.RawTarget, fix.ref.Resolution.Suggested)
			}
		}
	}

	if a.overrides.Dirty() {
		if err := a.overrides.Save(root); err != nil {
			result.Check.Warnings = append(result.Check.Warnings, fmt.Sprintf("could not save override table: %v", err))
		}
	}
	persistScan(root, a)
	return result, nil
}

// persistScan writes the scan index DB, degrading to a warning on failure.
func persistScan(root string, a *analysis) {
	if err := saveScan(root, a.docs); err != nil {
		a.result.Warnings = append(a.result.Warnings, fmt.Sprintf("could not persist scan index: %v", err))
	}
}
