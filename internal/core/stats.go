package core

import "fmt"

// StatsOptions controls which fields to return.
type StatsOptions struct {
	Fields []string // nil/empty = all
}

// StatsResult contains aggregate statistics for the last persisted scan.
type StatsResult struct {
	Documents   int
	References  int
	External    int
	AnchorOnly  int
	Valid       int
	Fixable     int
	Applied     int
	NoCandidate int
	Ambiguous   int
}

var validStatsFields = map[string]bool{
	"documents":    true,
	"references":   true,
	"external":     true,
	"anchor_only":  true,
	"valid":        true,
	"fixable":      true,
	"applied":      true,
	"no_candidate": true,
	"ambiguous":    true,
}

func validateStatsFields(fields []string) error {
	for _, f := range fields {
		if !validStatsFields[f] {
			return fmt.Errorf("unknown stats field: %s", f)
		}
	}
	return nil
}

// isFieldActive returns true if the field is requested (or if fields is empty, meaning all).
func isFieldActive(field string, fields []string) bool {
	if len(fields) == 0 {
		return true
	}
	for _, f := range fields {
		if f == field {
			return true
		}
	}
	return false
}

// Stats reads aggregate counts from the persisted scan index.
func Stats(root string, opts StatsOptions) (*StatsResult, error) {
	if err := validateStatsFields(opts.Fields); err != nil {
		return nil, err
	}

	db, err := openScanDB(root)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	result := &StatsResult{}

	counts := []struct {
		field string
		query string
		dst   *int
	}{
		{"documents", `SELECT COUNT(*) FROM documents`, &result.Documents},
		{"references", `SELECT COUNT(*) FROM refs`, &result.References},
		{"external", `SELECT COUNT(*) FROM refs WHERE kind='external'`, &result.External},
		{"anchor_only", `SELECT COUNT(*) FROM refs WHERE kind='anchor'`, &result.AnchorOnly},
		{"valid", `SELECT COUNT(*) FROM refs WHERE status='valid'`, &result.Valid},
		{"fixable", `SELECT COUNT(*) FROM refs WHERE status='fixed'`, &result.Fixable},
		{"applied", `SELECT COUNT(*) FROM refs WHERE status='applied'`, &result.Applied},
		{"no_candidate", `SELECT COUNT(*) FROM refs WHERE status='no_candidate'`, &result.NoCandidate},
		{"ambiguous", `SELECT COUNT(*) FROM refs WHERE status='ambiguous'`, &result.Ambiguous},
	}
	for _, c := range counts {
		if !isFieldActive(c.field, opts.Fields) {
			continue
		}
		if err := db.QueryRow(c.query).Scan(c.dst); err != nil {
			return nil, err
		}
	}
	return result, nil
}
