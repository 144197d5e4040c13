package core

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// skipDirNames are directory names never scanned for documents: build
// artifacts and dependency caches carried over from the corpora this tool
// is pointed at.
var skipDirNames = map[string]bool{
	"node_modules": true,
	"__pycache__":  true,
	"target":       true,
	"build":        true,
	"dist":         true,
	"vendor":       true,
}

// Index is the immutable set of addressable documents under a corpus root.
// It is built once per run; concurrent readers need no locking.
type Index struct {
	root     string
	paths    []string            // sorted corpus-relative paths
	exact    map[string]bool     // exact paths, for existence checks
	byPath   map[string]string   // lowercase path → actual path; on case collisions the later sorted path wins
	byBase   map[string][]string // exact basename → sorted paths
	byFold   map[string][]string // lowercase basename → sorted paths
	warnings []string
}

// BuildIndex enumerates addressable documents under root. Hidden
// directories, known build-artifact directories, and config-excluded
// paths are skipped. An unreadable subdirectory is skipped with a
// warning; an unenumerable root is fatal.
func BuildIndex(root string, cfg Config) (*Index, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("enumerate root %s: %w", root, err)
	}

	idx := &Index{
		root:   root,
		exact:  make(map[string]bool),
		byPath: make(map[string]string),
		byBase: make(map[string][]string),
		byFold: make(map[string][]string),
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			idx.warnings = append(idx.warnings, fmt.Sprintf("skipping unreadable path: %s (%v)", path, err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, ".") || skipDirNames[name]) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			files = append(files, NormalizePath(rel))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("enumerate root %s: %w", root, err)
	}

	files = filterExcludes(files, cfg.Scan.ExcludePaths)
	sort.Strings(files)
	idx.paths = files

	for _, p := range files {
		idx.exact[p] = true
		idx.byPath[strings.ToLower(p)] = p
		base := filepath.Base(p)
		idx.byBase[base] = append(idx.byBase[base], p)
		idx.byFold[strings.ToLower(base)] = append(idx.byFold[strings.ToLower(base)], p)
	}
	return idx, nil
}

// Root returns the corpus root the index was built from.
func (idx *Index) Root() string { return idx.root }

// Paths returns the sorted corpus-relative document paths.
func (idx *Index) Paths() []string { return idx.paths }

// Len returns the number of indexed documents.
func (idx *Index) Len() int { return len(idx.paths) }

// Contains reports whether path is an indexed document (exact match).
// Paths differing only by case are distinct documents, so this cannot go
// through the case-folded map.
func (idx *Index) Contains(path string) bool {
	return idx.exact[path]
}

// Lookup finds the indexed document for path, falling back to a
// case-insensitive comparison. Returns the actual stored path.
func (idx *Index) Lookup(path string) (string, bool) {
	p, ok := idx.byPath[strings.ToLower(path)]
	return p, ok
}

// CandidatesExact returns indexed documents whose basename matches base
// exactly.
func (idx *Index) CandidatesExact(base string) []string {
	return idx.byBase[base]
}

// CandidatesFold returns indexed documents whose basename matches base
// ignoring case.
func (idx *Index) CandidatesFold(base string) []string {
	return idx.byFold[strings.ToLower(base)]
}

// Warnings returns non-fatal problems hit while enumerating.
func (idx *Index) Warnings() []string { return idx.warnings }
