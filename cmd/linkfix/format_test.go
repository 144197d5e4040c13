package main

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkfix-dev/linkfix/internal/core"
)

func disableColor(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func TestValidateFormat(t *testing.T) {
	require.NoError(t, validateFormat("text"))
	require.NoError(t, validateFormat("json"))
	require.Error(t, validateFormat("yaml"))
	require.Error(t, validateFormat(""))
}

func TestParseFields(t *testing.T) {
	assert.Nil(t, parseFields(""))
	assert.Nil(t, parseFields("  "))
	assert.Nil(t, parseFields(","))
	assert.Equal(t, []string{"documents"}, parseFields("documents"))
	assert.Equal(t, []string{"valid", "fixable"}, parseFields("valid, fixable"))
	assert.Equal(t, []string{"valid"}, parseFields(",valid,"))
}

func TestPrintCheckTextClean(t *testing.T) {
	disableColor(t)
	result := &core.CheckResult{Documents: 3, References: 6, External: 2, AnchorOnly: 1, Valid: 3}

	var buf bytes.Buffer
	printCheckText(&buf, result)

	want := "documents: 3\n" +
		"references: 6 (external 2, anchor-only 1)\n" +
		"valid: 3\n" +
		"✓ no broken references\n"
	assert.Equal(t, want, buf.String())
}

func TestPrintCheckTextBroken(t *testing.T) {
	disableColor(t)
	result := &core.CheckResult{
		Documents:  2,
		References: 3,
		External:   1,
		Valid:      1,
		Broken: []core.BrokenReference{
			{
				Source:    "a.md",
				Text:      "old",
				RawTarget: "old.md",
				Line:      3,
				Resolution: core.Resolution{
					Status:    core.StatusFixed,
					Suggested: "new.md",
					Source:    core.SourceExactFilename,
				},
			},
		},
	}

	var buf bytes.Buffer
	printCheckText(&buf, result)

	out := buf.String()
	assert.Contains(t, out, "broken: 1 (fixable 1, no candidate 0, ambiguous 0)\n")
	assert.Contains(t, out, "a.md:3 [old](old.md)\n")
	assert.Contains(t, out, "  → new.md (exact_filename)\n")
}

func TestPrintFixTextDryRun(t *testing.T) {
	disableColor(t)
	result := &core.FixResult{
		Check: &core.CheckResult{},
		Applied: []core.AppliedFix{
			{Source: "a.md", OldLink: "[old](old.md)", NewLink: "[old](new.md)"},
		},
	}

	var buf bytes.Buffer
	printFixText(&buf, result, true)

	out := buf.String()
	assert.Contains(t, out, "DRY RUN - no files will be changed\n")
	assert.Contains(t, out, "a.md: [old](old.md) → [old](new.md)\n")
	assert.Contains(t, out, "fixes planned: 1, manual review: 0, failed files: 0\n")
}

func TestPrintFixTextApply(t *testing.T) {
	disableColor(t)
	result := &core.FixResult{
		Check: &core.CheckResult{},
		Manual: []core.BrokenReference{
			{Source: "b.md", Text: "gone", RawTarget: "gone.md", Line: 2},
		},
		Failed: []core.FileFailure{
			{Source: "c.md", Err: "permission denied"},
		},
	}

	var buf bytes.Buffer
	printFixText(&buf, result, false)

	out := buf.String()
	assert.NotContains(t, out, "DRY RUN")
	assert.Contains(t, out, "b.md:2 [gone](gone.md) (manual review)\n")
	assert.Contains(t, out, "c.md: write failed: permission denied\n")
	assert.Contains(t, out, "fixes applied: 0, manual review: 1, failed files: 1\n")
}

func TestPrintStatsTextFieldFilter(t *testing.T) {
	result := &core.StatsResult{Documents: 10, References: 5, Fixable: 3}

	var buf bytes.Buffer
	printStatsText(&buf, result, []string{"documents", "fixable"})

	want := "documents: 10\nfixable: 3\n"
	assert.Equal(t, want, buf.String())
}

func TestPrintStatsTextAllFields(t *testing.T) {
	result := &core.StatsResult{Documents: 1}

	var buf bytes.Buffer
	printStatsText(&buf, result, nil)

	want := "documents: 1\n" +
		"references: 0\n" +
		"external: 0\n" +
		"anchor_only: 0\n" +
		"valid: 0\n" +
		"fixable: 0\n" +
		"applied: 0\n" +
		"no_candidate: 0\n" +
		"ambiguous: 0\n"
	assert.Equal(t, want, buf.String())
}

func TestPrintDiagnoseText(t *testing.T) {
	result := &core.DiagnoseResult{
		BasenameConflicts: []core.BasenameConflict{
			{Name: "config.md", Paths: []string{"alpha/config.md", "beta/config.md"}},
		},
		Unresolved: []core.UnresolvedTarget{
			{Target: "nowhere/gone.md", Status: "no_candidate", Sources: []string{"b.md"}},
		},
	}

	var buf bytes.Buffer
	printDiagnoseText(&buf, result, nil)

	out := buf.String()
	assert.Contains(t, out, "basename conflicts: 1\n")
	assert.Contains(t, out, "  config.md:\n    alpha/config.md\n    beta/config.md\n")
	assert.Contains(t, out, "unresolved targets: 1\n")
	assert.Contains(t, out, "  nowhere/gone.md (no_candidate) referenced from 1 file(s)\n")
}
