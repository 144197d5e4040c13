package core

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// CheckOptions controls the analyze pass.
type CheckOptions struct {
	Concurrency int // parse workers; 0 means GOMAXPROCS
}

// BrokenReference is one internal reference whose target does not exist,
// together with its resolution outcome.
type BrokenReference struct {
	Source     string     `json:"source"`
	Text       string     `json:"text"`
	RawTarget  string     `json:"raw_target"`
	Line       int        `json:"line"`
	Resolution Resolution `json:"resolution"`
}

// RawLink reconstructs the literal reference syntax for rewriting.
func (b BrokenReference) RawLink() string {
	return "[" + b.Text + "](" + b.RawTarget + ")"
}

// CheckResult is the report payload of one analyze pass.
type CheckResult struct {
	Root       string            `json:"root"`
	Documents  int               `json:"documents"`
	References int               `json:"references"`
	External   int               `json:"external"`
	AnchorOnly int               `json:"anchor_only"`
	Valid      int               `json:"valid"`
	Broken     []BrokenReference `json:"broken"`
	Warnings   []string          `json:"warnings,omitempty"`
}

// StatusCounts tallies broken references by resolution status.
func (r *CheckResult) StatusCounts() (fixed, noCandidate, ambiguous int) {
	for _, b := range r.Broken {
		switch b.Resolution.Status {
		case StatusFixed:
			fixed++
		case StatusNoCandidate:
			noCandidate++
		case StatusAmbiguous:
			ambiguous++
		}
	}
	return
}

// Unresolved returns the number of broken references with no confident fix.
func (r *CheckResult) Unresolved() int {
	_, noCandidate, ambiguous := r.StatusCounts()
	return noCandidate + ambiguous
}

// scannedRef is a parsed reference annotated with its resolution, kept
// for scan-index persistence.
type scannedRef struct {
	Reference
	Status     string // "" for external/anchor refs
	Suggestion string
	Source     string
}

// scannedDoc is one parsed document.
type scannedDoc struct {
	path string
	refs []scannedRef
}

// analysis carries everything the analyze pass produced, for reuse by Fix.
type analysis struct {
	idx       *Index
	overrides *OverrideStore
	docs      []*scannedDoc
	result    *CheckResult
	brokenRef []*scannedRef // parallel to result.Broken
}

// Check runs the read-only analyze pass: index the corpus, extract every
// reference, classify it, and resolve the broken ones. The scan is also
// persisted to the corpus data directory for stats/diagnose; failure to
// persist degrades to a warning.
func Check(root string, opts CheckOptions) (*CheckResult, error) {
	a, err := analyze(root, opts)
	if err != nil {
		return nil, err
	}
	persistScan(root, a)
	return a.result, nil
}

func analyze(root string, opts CheckOptions) (*analysis, error) {
	cfg, err := LoadConfig(root)
	if err != nil {
		return nil, err
	}
	idx, err := BuildIndex(root, cfg)
	if err != nil {
		return nil, err
	}
	overrides, warnings := LoadOverrides(root)
	warnings = append(idx.Warnings(), warnings...)

	docs, parseWarnings := parseDocuments(root, idx.Paths(), opts.Concurrency)
	warnings = append(warnings, parseWarnings...)

	result := &CheckResult{Root: root, Documents: len(docs)}
	resolver := NewResolver(idx, overrides)
	a := &analysis{idx: idx, overrides: overrides, docs: docs, result: result}

	for _, doc := range docs {
		for i := range doc.refs {
			ref := &doc.refs[i]
			result.References++
			switch ref.Kind {
			case RefExternal:
				result.External++
			case RefAnchor:
				result.AnchorOnly++
			default:
				if idx.Contains(ref.Resolved) {
					result.Valid++
					ref.Status = "valid"
					continue
				}
				res := resolver.Resolve(doc.path, ref.Reference)
				ref.Status = string(res.Status)
				ref.Suggestion = res.Suggested
				ref.Source = string(res.Source)
				result.Broken = append(result.Broken, BrokenReference{
					Source:     doc.path,
					Text:       ref.Text,
					RawTarget:  ref.RawTarget,
					Line:       ref.Line,
					Resolution: res,
				})
				a.brokenRef = append(a.brokenRef, ref)
			}
		}
	}
	result.Warnings = append(warnings, resolver.Warnings()...)

	return a, nil
}

// parseDocuments reads and tokenizes every indexed document. Parsing is
// pure and the index is immutable, so files fan out across a bounded
// worker group; each worker writes only its own slot. An unreadable
// document is skipped with a warning.
func parseDocuments(root string, paths []string, concurrency int) ([]*scannedDoc, []string) {
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}

	docs := make([]*scannedDoc, len(paths))
	readErrs := make([]error, len(paths))

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			content, err := os.ReadFile(filepath.Join(root, p))
			if err != nil {
				readErrs[i] = err
				return nil
			}
			doc := &scannedDoc{path: p}
			for _, ref := range extractReferences(p, string(content)) {
				doc.refs = append(doc.refs, scannedRef{Reference: ref})
			}
			docs[i] = doc
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; failures land in readErrs

	var warnings []string
	out := make([]*scannedDoc, 0, len(docs))
	for i, doc := range docs {
		if readErrs[i] != nil {
			warnings = append(warnings, fmt.Sprintf("skipping unreadable document %s: %v", paths[i], readErrs[i]))
			continue
		}
		out = append(out, doc)
	}
	return out, warnings
}
