package core

import (
	"fmt"
	"path/filepath"
	"sort"
)

// ResolveStatus is the terminal state of resolving one broken reference.
type ResolveStatus string

const (
	StatusFixed       ResolveStatus = "fixed"
	StatusNoCandidate ResolveStatus = "no_candidate"
	StatusAmbiguous   ResolveStatus = "ambiguous"
)

// MatchSource records which step produced a suggestion.
type MatchSource string

const (
	SourceOverride      MatchSource = "override"
	SourceExactFilename MatchSource = "exact_filename"
	SourceFoldFilename  MatchSource = "case_insensitive_filename"
)

// Resolution is the outcome for a single broken reference.
type Resolution struct {
	Status     ResolveStatus `json:"status"`
	Suggested  string        `json:"suggested,omitempty"`  // replacement target to write, fragment re-appended
	Target     string        `json:"target,omitempty"`     // corpus-relative path of the chosen candidate
	Source     MatchSource   `json:"source,omitempty"`     // set when Status is Fixed
	Candidates []string      `json:"candidates,omitempty"` // tied minimal-distance candidates, sorted (ambiguous only)
}

// Resolver computes replacement targets for broken internal references.
type Resolver struct {
	idx       *Index
	overrides *OverrideStore
	warnings  []string
}

// NewResolver builds a resolver over an immutable index and a loaded
// override table.
func NewResolver(idx *Index, overrides *OverrideStore) *Resolver {
	return &Resolver{idx: idx, overrides: overrides}
}

// Warnings returns non-fatal problems hit while resolving.
func (rv *Resolver) Warnings() []string { return rv.warnings }

// Resolve computes the best replacement for a broken internal reference
// in the document at sourcePath. Overrides are authoritative: when one
// matches, heuristic search is bypassed entirely, even if the override
// target has gone stale. Otherwise candidates are documents whose
// basename matches the broken target's basename (exact first, then
// case-insensitive), ranked by directory distance from the source
// document. A tie at the minimal distance is reported as ambiguous
// with a deterministic, sorted candidate list.
func (rv *Resolver) Resolve(sourcePath string, ref Reference) Resolution {
	if res, ok := rv.fromOverride(sourcePath, ref); ok {
		return res
	}

	base := filepath.Base(ref.Path)
	candidates := rv.idx.CandidatesExact(base)
	source := SourceExactFilename
	if len(candidates) == 0 {
		candidates = rv.idx.CandidatesFold(base)
		source = SourceFoldFilename
	}
	if len(candidates) == 0 {
		return Resolution{Status: StatusNoCandidate}
	}

	srcDir := docDir(sourcePath)
	best := []string{}
	bestDist := -1
	for _, cand := range candidates {
		d := dirDistance(srcDir, docDir(cand))
		switch {
		case bestDist == -1 || d < bestDist:
			bestDist = d
			best = []string{cand}
		case d == bestDist:
			best = append(best, cand)
		}
	}
	sort.Strings(best)

	if len(best) > 1 {
		return Resolution{Status: StatusAmbiguous, Candidates: best}
	}

	target := best[0]
	return Resolution{
		Status:    StatusFixed,
		Suggested: relTarget(sourcePath, target) + ref.Fragment,
		Target:    target,
		Source:    source,
	}
}

// fromOverride consults the override table: first the raw target as
// written (fragment included), then the bare path with the fragment
// carried over to the corrected target. A matching entry whose target
// no longer exists in the index yields NoCandidate with a warning;
// the override still suppresses heuristic search.
func (rv *Resolver) fromOverride(sourcePath string, ref Reference) (Resolution, bool) {
	mapped, ok := rv.overrides.Lookup(ref.RawTarget)
	frag := ""
	if !ok && ref.Fragment != "" {
		if mapped, ok = rv.overrides.Lookup(ref.Path); ok {
			frag = ref.Fragment
		}
	}
	if !ok {
		return Resolution{}, false
	}

	mappedPath, mappedFrag := splitFragment(mapped)
	if mappedFrag != "" {
		// The corrected target carries its own fragment; keep it.
		frag = ""
	}
	actual, found := rv.idx.Lookup(resolveTarget(sourcePath, mappedPath))
	if !found {
		rv.warnings = append(rv.warnings,
			fmt.Sprintf("stale override %q -> %q: target not in index", ref.RawTarget, mapped))
		return Resolution{Status: StatusNoCandidate}, true
	}
	return Resolution{
		Status:    StatusFixed,
		Suggested: mapped + frag,
		Target:    actual,
		Source:    SourceOverride,
	}, true
}
