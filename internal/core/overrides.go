package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

const overridesFileName = "link_mappings.json"

// OverrideStore is the persisted table of confirmed broken-target →
// corrected-target mappings. Entries are keyed by the raw target string
// as it appears inside a reference and always win over heuristic search.
// It is loaded once at run start and, in apply mode, flushed at run end.
type OverrideStore struct {
	entries map[string]string
	dirty   bool
}

func overridesPath(root string) string {
	return filepath.Join(root, dataDirName, overridesFileName)
}

// LoadOverrides reads the override table from the corpus data directory.
// A missing file yields an empty table; an unreadable or malformed file
// yields an empty table plus a warning, never a hard failure.
func LoadOverrides(root string) (*OverrideStore, []string) {
	st := &OverrideStore{entries: make(map[string]string)}

	data, err := os.ReadFile(overridesPath(root))
	if err != nil {
		if os.IsNotExist(err) {
			return st, nil
		}
		return st, []string{fmt.Sprintf("could not read override table: %v", err)}
	}
	if err := json.Unmarshal(data, &st.entries); err != nil {
		st.entries = make(map[string]string)
		return st, []string{fmt.Sprintf("malformed override table %s: %v", overridesFileName, err)}
	}
	return st, nil
}

// Lookup returns the corrected target for a raw broken target.
func (st *OverrideStore) Lookup(rawTarget string) (string, bool) {
	v, ok := st.entries[rawTarget]
	return v, ok
}

// Set records a confirmed mapping. No-op if the entry already holds target.
func (st *OverrideStore) Set(rawTarget, target string) {
	if st.entries[rawTarget] == target {
		return
	}
	st.entries[rawTarget] = target
	st.dirty = true
}

// Len returns the number of entries.
func (st *OverrideStore) Len() int { return len(st.entries) }

// Dirty reports whether entries were added since load.
func (st *OverrideStore) Dirty() bool { return st.dirty }

// Keys returns the entry keys in sorted order.
func (st *OverrideStore) Keys() []string {
	keys := make([]string, 0, len(st.entries))
	for k := range st.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Save persists the full table, overwriting prior content. encoding/json
// sorts map keys, which keeps diffs across runs minimal.
func (st *OverrideStore) Save(root string) error {
	if _, err := ensureDataDir(root); err != nil {
		return err
	}
	data, err := json.MarshalIndent(st.entries, "", "  ")
	if err != nil {
		return err
	}
	if err := writeFileAtomic(overridesPath(root), append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("save override table: %w", err)
	}
	st.dirty = false
	return nil
}
