package core

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// plannedFix pairs a broken reference with the replacement link to write.
// srefs carries every scanned occurrence of the literal link in the
// document; one replacement pass repairs them all.
type plannedFix struct {
	ref     BrokenReference
	srefs   []*scannedRef
	newLink string
}

// AppliedFix reports one rewritten reference.
type AppliedFix struct {
	Source  string `json:"source"`
	OldLink string `json:"old_link"`
	NewLink string `json:"new_link"`
}

// FileFailure reports a document whose fixes could not be persisted.
type FileFailure struct {
	Source string `json:"source"`
	Err    string `json:"error"`
}

// rewriteDocument applies planned fixes to one document on disk.
// A replacement happens only when the literal original syntax still
// occurs verbatim in the current content; anything else is returned as
// stale and routed to manual review. The updated content is persisted in
// one atomic write, so a failure leaves the document untouched.
func rewriteDocument(fullPath string, fixes []plannedFix) (applied []plannedFix, stale []plannedFix, err error) {
	info, err := os.Stat(fullPath)
	if err != nil {
		return nil, nil, err
	}
	raw, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, nil, err
	}
	content := string(raw)

	// Longest raw link first, so a shorter link that is a substring of a
	// longer one cannot clobber it (conflict-avoidance order).
	sort.SliceStable(fixes, func(i, j int) bool {
		return len(fixes[i].ref.RawLink()) > len(fixes[j].ref.RawLink())
	})

	for _, fix := range fixes {
		if !strings.Contains(content, fix.ref.RawLink()) {
			stale = append(stale, fix)
			continue
		}
		content = strings.ReplaceAll(content, fix.ref.RawLink(), fix.newLink)
		applied = append(applied, fix)
	}

	if len(applied) == 0 {
		return applied, stale, nil
	}
	if err := writeFileAtomic(fullPath, []byte(content), info.Mode().Perm()); err != nil {
		return nil, stale, fmt.Errorf("write %s: %w", fullPath, err)
	}
	return applied, stale, nil
}

// writeFileAtomic writes data to path via a temporary file in the same
// directory and a rename, so readers never observe a partial write.
// os.WriteFile applies umask on creation, so the permission bits are
// chmodded explicitly before the rename.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, perm); err != nil {
		return err
	}
	if err := os.Chmod(tmp, perm); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
