package core

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func readCorpusFile(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("read %s: %v", rel, err)
	}
	return string(data)
}

func TestFixAppliesConfidentFixes(t *testing.T) {
	root := copyCorpus(t, "corpus_broken")

	result, err := Fix(root, FixOptions{})
	if err != nil {
		t.Fatalf("fix: %v", err)
	}

	if len(result.Applied) != 3 {
		t.Fatalf("Applied = %d, want 3: %+v", len(result.Applied), result.Applied)
	}
	if len(result.Manual) != 2 {
		t.Errorf("Manual = %d, want 2", len(result.Manual))
	}
	if len(result.Failed) != 0 {
		t.Errorf("Failed = %v, want none", result.Failed)
	}

	byOld := make(map[string]AppliedFix)
	for _, a := range result.Applied {
		byOld[a.OldLink] = a
	}
	wantApplied := map[string]string{
		"[old doc](old.md#install)": "[old doc](new.md#install)",
		"[setup](./setup.md)":       "[setup](install/setup.md)",
		"[api](API.md)":             "[api](docs/api.md)",
	}
	for old, want := range wantApplied {
		got, ok := byOld[old]
		if !ok || got.NewLink != want {
			t.Errorf("fix for %s = %+v, want NewLink %s", old, got, want)
		}
	}

	if got := readCorpusFile(t, root, "a.md"); !strings.Contains(got, "[old doc](new.md#install)") {
		t.Errorf("a.md not rewritten:\n%s", got)
	}
	if got := readCorpusFile(t, root, "docs/guide.md"); !strings.Contains(got, "[setup](install/setup.md)") {
		t.Errorf("docs/guide.md not rewritten:\n%s", got)
	}
	// Unresolved references stay untouched.
	if got := readCorpusFile(t, root, "b.md"); !strings.Contains(got, "[gone](nowhere/gone.md)") {
		t.Errorf("b.md should be untouched:\n%s", got)
	}
}

func TestFixMergesOverrides(t *testing.T) {
	root := copyCorpus(t, "corpus_broken")

	if _, err := Fix(root, FixOptions{}); err != nil {
		t.Fatalf("fix: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(root, ".linkfix", "link_mappings.json"))
	if err != nil {
		t.Fatalf("read overrides: %v", err)
	}
	var entries map[string]string
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	want := map[string]string{
		"old.md":     "new.md",           // pre-existing, untouched
		"./setup.md": "install/setup.md", // merged heuristic fix
		"API.md":     "docs/api.md",      // merged heuristic fix
	}
	if !reflect.DeepEqual(entries, want) {
		t.Errorf("overrides = %v, want %v", entries, want)
	}
}

func TestFixIdempotent(t *testing.T) {
	root := copyCorpus(t, "corpus_broken")

	if _, err := Fix(root, FixOptions{}); err != nil {
		t.Fatalf("first fix: %v", err)
	}

	check, err := Check(root, CheckOptions{})
	if err != nil {
		t.Fatalf("re-check: %v", err)
	}
	if check.Valid != 3 {
		t.Errorf("Valid after fix = %d, want 3", check.Valid)
	}
	if len(check.Broken) != 2 {
		t.Errorf("Broken after fix = %d, want 2", len(check.Broken))
	}

	second, err := Fix(root, FixOptions{})
	if err != nil {
		t.Fatalf("second fix: %v", err)
	}
	if len(second.Applied) != 0 {
		t.Errorf("second Applied = %+v, want none", second.Applied)
	}
	if len(second.Manual) != 2 {
		t.Errorf("second Manual = %d, want 2", len(second.Manual))
	}
}

func TestFixDryRunLeavesDiskUntouched(t *testing.T) {
	root := copyCorpus(t, "corpus_broken")

	before := readCorpusFile(t, root, "a.md")
	overridesBefore := readCorpusFile(t, root, ".linkfix/link_mappings.json")

	result, err := Fix(root, FixOptions{DryRun: true})
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if len(result.Applied) != 3 {
		t.Errorf("planned Applied = %d, want 3", len(result.Applied))
	}
	if len(result.Manual) != 2 {
		t.Errorf("Manual = %d, want 2", len(result.Manual))
	}

	if got := readCorpusFile(t, root, "a.md"); got != before {
		t.Error("dry run modified a document")
	}
	if got := readCorpusFile(t, root, ".linkfix/link_mappings.json"); got != overridesBefore {
		t.Error("dry run modified the override table")
	}
}

func TestFixPreservesPermissions(t *testing.T) {
	root := copyCorpus(t, "corpus_broken")
	path := filepath.Join(root, "c.md")
	if err := os.Chmod(path, 0o600); err != nil {
		t.Fatalf("chmod: %v", err)
	}

	if _, err := Fix(root, FixOptions{}); err != nil {
		t.Fatalf("fix: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("perm = %o, want 600", info.Mode().Perm())
	}
	if got := readCorpusFile(t, root, "c.md"); !strings.Contains(got, "[api](docs/api.md)") {
		t.Errorf("c.md not rewritten:\n%s", got)
	}
}

func TestFixRepeatedLinkCountedOnce(t *testing.T) {
	// The same broken link appearing twice in one document is repaired by
	// a single replacement pass; the second occurrence must not surface
	// as a manual-review item.
	root := t.TempDir()
	writeDoc(t, root, "doc.md", "[setup](setup.md)\n\nsee [setup](setup.md) again\n")
	writeDoc(t, root, "docs/setup.md", "# Setup\n")

	result, err := Fix(root, FixOptions{})
	if err != nil {
		t.Fatalf("fix: %v", err)
	}
	if len(result.Applied) != 1 {
		t.Errorf("Applied = %+v, want one entry", result.Applied)
	}
	if len(result.Manual) != 0 {
		t.Errorf("Manual = %+v, want none", result.Manual)
	}

	want := "[setup](docs/setup.md)\n\nsee [setup](docs/setup.md) again\n"
	if got := readCorpusFile(t, root, "doc.md"); got != want {
		t.Errorf("content = %q, want %q", got, want)
	}

	check, err := Check(root, CheckOptions{})
	if err != nil {
		t.Fatalf("re-check: %v", err)
	}
	if len(check.Broken) != 0 {
		t.Errorf("Broken after fix = %+v, want none", check.Broken)
	}
}

func TestRewriteDocumentStaleLink(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "doc.md", "# Doc\n\n[present](here.md)\n")

	fixes := []plannedFix{
		{
			ref: BrokenReference{
				Source:    "doc.md",
				Text:      "present",
				RawTarget: "here.md",
			},
			srefs:   []*scannedRef{{}},
			newLink: "[present](docs/here.md)",
		},
		{
			ref: BrokenReference{
				Source:    "doc.md",
				Text:      "vanished",
				RawTarget: "edited-away.md",
			},
			srefs:   []*scannedRef{{}},
			newLink: "[vanished](x.md)",
		},
	}

	applied, stale, err := rewriteDocument(filepath.Join(root, "doc.md"), fixes)
	if err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if len(applied) != 1 || applied[0].ref.Text != "present" {
		t.Errorf("applied = %+v", applied)
	}
	if len(stale) != 1 || stale[0].ref.Text != "vanished" {
		t.Errorf("stale = %+v", stale)
	}
	if got := readCorpusFile(t, root, "doc.md"); !strings.Contains(got, "[present](docs/here.md)") {
		t.Errorf("content = %s", got)
	}
}

func TestRewriteDocumentLongestFirst(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "doc.md", "[a](x.md) and [a](x.md#section)\n")

	fixes := []plannedFix{
		{
			ref:     BrokenReference{Text: "a", RawTarget: "x.md"},
			srefs:   []*scannedRef{{}},
			newLink: "[a](docs/x.md)",
		},
		{
			ref:     BrokenReference{Text: "a", RawTarget: "x.md#section"},
			srefs:   []*scannedRef{{}},
			newLink: "[a](docs/x.md#section)",
		},
	}

	applied, stale, err := rewriteDocument(filepath.Join(root, "doc.md"), fixes)
	if err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if len(applied) != 2 || len(stale) != 0 {
		t.Fatalf("applied = %d, stale = %d", len(applied), len(stale))
	}
	want := "[a](docs/x.md) and [a](docs/x.md#section)\n"
	if got := readCorpusFile(t, root, "doc.md"); got != want {
		t.Errorf("content = %q, want %q", got, want)
	}
}
