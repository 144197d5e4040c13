package core

import (
	"path/filepath"
	"sort"
	"strings"
)

// DiagnoseOptions controls which fields to return.
type DiagnoseOptions struct {
	Fields []string // nil/empty = all
}

// BasenameConflict is a group of documents sharing a case-insensitive
// basename. These are the corpus's ambiguity sources: a broken reference
// to that basename cannot be repaired automatically.
type BasenameConflict struct {
	Name  string   // basename from the first path in sorted order
	Paths []string // corpus-relative paths, sorted
}

// UnresolvedTarget is a broken raw target with no confident fix.
type UnresolvedTarget struct {
	Target  string
	Status  string // no_candidate or ambiguous
	Sources []string
}

// DiagnoseResult contains diagnostic information from the last persisted scan.
type DiagnoseResult struct {
	BasenameConflicts []BasenameConflict // sorted by name
	Unresolved        []UnresolvedTarget // sorted by target
}

// Diagnose reads conflict and unresolved-target information from the
// persisted scan index.
func Diagnose(root string, opts DiagnoseOptions) (*DiagnoseResult, error) {
	db, err := openScanDB(root)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	result := &DiagnoseResult{}

	if isFieldActive("basename_conflicts", opts.Fields) {
		rows, err := db.Query(`SELECT path FROM documents ORDER BY path`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		groups := make(map[string][]string)
		for rows.Next() {
			var path string
			if err := rows.Scan(&path); err != nil {
				return nil, err
			}
			key := strings.ToLower(filepath.Base(path))
			groups[key] = append(groups[key], path)
		}
		if err := rows.Err(); err != nil {
			return nil, err
		}

		keys := make([]string, 0, len(groups))
		for k := range groups {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			paths := groups[k]
			if len(paths) < 2 {
				continue
			}
			result.BasenameConflicts = append(result.BasenameConflicts, BasenameConflict{
				Name:  filepath.Base(paths[0]),
				Paths: paths,
			})
		}
	}

	if isFieldActive("unresolved", opts.Fields) {
		rows, err := db.Query(`
			SELECT r.raw_target, r.status, d.path
			FROM refs r JOIN documents d ON d.id = r.doc_id
			WHERE r.status IN ('no_candidate', 'ambiguous')
			ORDER BY r.raw_target, d.path`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		byTarget := make(map[string]*UnresolvedTarget)
		var order []string
		for rows.Next() {
			var target, status, source string
			if err := rows.Scan(&target, &status, &source); err != nil {
				return nil, err
			}
			u, ok := byTarget[target]
			if !ok {
				u = &UnresolvedTarget{Target: target, Status: status}
				byTarget[target] = u
				order = append(order, target)
			}
			u.Sources = append(u.Sources, source)
		}
		if err := rows.Err(); err != nil {
			return nil, err
		}
		for _, t := range order {
			result.Unresolved = append(result.Unresolved, *byTarget[t])
		}
	}

	return result, nil
}
