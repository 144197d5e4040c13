package core

import (
	"path/filepath"
	"strings"
)

// NormalizePath cleans a corpus-relative path: forward slashes, no leading "./".
func NormalizePath(path string) string {
	clean := filepath.ToSlash(filepath.Clean(path))
	return strings.TrimPrefix(clean, "./")
}

// resolveTarget resolves a link target written in sourcePath to a
// corpus-relative path. A leading "/" resolves from the corpus root,
// anything else from the source document's directory. The result may
// start with ".." when the target climbs out of the corpus.
func resolveTarget(sourcePath, target string) string {
	if strings.HasPrefix(target, "/") {
		return NormalizePath(strings.TrimPrefix(target, "/"))
	}
	return NormalizePath(filepath.Join(filepath.Dir(sourcePath), target))
}

// relTarget computes the path to write into a document at sourcePath so
// that it points at the corpus-relative targetPath.
func relTarget(sourcePath, targetPath string) string {
	rel, err := filepath.Rel(filepath.Dir(sourcePath), targetPath)
	if err != nil {
		// Fall back to an absolute-from-root target.
		return "/" + targetPath
	}
	return filepath.ToSlash(rel)
}

// splitSegments splits a directory path into its segments.
// "" and "." are the corpus root and have no segments.
func splitSegments(dir string) []string {
	if dir == "" || dir == "." {
		return nil
	}
	return strings.Split(dir, "/")
}

// dirDistance scores how far apart two directories are: the number of
// traversal steps ("..") plus descents between them, derived from their
// shared leading segments. More shared segments means a lower score.
func dirDistance(fromDir, toDir string) int {
	a := splitSegments(fromDir)
	b := splitSegments(toDir)
	shared := 0
	for shared < len(a) && shared < len(b) && a[shared] == b[shared] {
		shared++
	}
	return (len(a) - shared) + (len(b) - shared)
}

// docDir returns the corpus-relative directory of a document path.
// Root-level documents yield "".
func docDir(path string) string {
	dir := filepath.ToSlash(filepath.Dir(path))
	if dir == "." {
		return ""
	}
	return dir
}
