package core

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const (
	dataDirName = ".linkfix"
	dbFileName  = "index.sqlite"
)

func dbPath(root string) string {
	return filepath.Join(root, dataDirName, dbFileName)
}

func ensureDataDir(root string) (string, error) {
	dir := filepath.Join(root, dataDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

func openDBAt(path string) (*sql.DB, error) {
	return sql.Open("sqlite", fmt.Sprintf("file:%s", path))
}

func openScanDB(root string) (*sql.DB, error) {
	dbp := dbPath(root)
	if _, err := os.Stat(dbp); os.IsNotExist(err) {
		return nil, fmt.Errorf("scan index not found: run 'linkfix check' first")
	}
	return openDBAt(dbp)
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id         INTEGER PRIMARY KEY,
			path       TEXT NOT NULL UNIQUE,
			refs_total INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE INDEX IF NOT EXISTS idx_documents_path ON documents(path);`,
		`CREATE TABLE IF NOT EXISTS refs (
			id         INTEGER PRIMARY KEY,
			doc_id     INTEGER NOT NULL,
			text       TEXT NOT NULL,
			raw_target TEXT NOT NULL,
			kind       TEXT NOT NULL,
			line       INTEGER,
			status     TEXT NOT NULL DEFAULT '',
			suggestion TEXT,
			source     TEXT,
			FOREIGN KEY(doc_id) REFERENCES documents(id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_refs_doc ON refs(doc_id);`,
		`CREATE INDEX IF NOT EXISTS idx_refs_status ON refs(status);`,
		`CREATE INDEX IF NOT EXISTS idx_refs_target ON refs(raw_target);`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// saveScan persists one full scan to the data directory. The DB is built
// at a temporary path and renamed into place, so readers never see a
// half-written index.
func saveScan(root string, docs []*scannedDoc) error {
	if _, err := ensureDataDir(root); err != nil {
		return err
	}

	tmpPath := dbPath(root) + ".tmp"
	_ = os.Remove(tmpPath)
	defer os.Remove(tmpPath)

	db, err := openDBAt(tmpPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := initSchema(db); err != nil {
		return err
	}

	for _, doc := range docs {
		res, err := db.Exec(
			`INSERT INTO documents (path, refs_total) VALUES (?, ?)`,
			doc.path, len(doc.refs),
		)
		if err != nil {
			return err
		}
		docID, err := res.LastInsertId()
		if err != nil {
			return err
		}
		for _, ref := range doc.refs {
			_, err := db.Exec(
				`INSERT INTO refs (doc_id, text, raw_target, kind, line, status, suggestion, source)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				docID, ref.Text, ref.RawTarget, string(ref.Kind), ref.Line, ref.Status, ref.Suggestion, ref.Source,
			)
			if err != nil {
				return err
			}
		}
	}

	if err := db.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, dbPath(root))
}
