// Package storage persists the working state of a documentation run in a
// SQLite database: per-file parse state for change detection, and the
// extracted topics so an incremental run can rebuild the symbol table
// without reparsing unchanged files.
package storage

import (
	"database/sql"
	"fmt"
	"time"
)

const schemaVersion = "1"

const createFilesTable = `
CREATE TABLE IF NOT EXISTS files (
    file_path   TEXT PRIMARY KEY,
    language    TEXT NOT NULL,
    mtime       INTEGER NOT NULL,
    file_hash   TEXT NOT NULL,
    parsed_at   TEXT NOT NULL
)`

const createTopicsTable = `
CREATE TABLE IF NOT EXISTS topics (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    file_path   TEXT NOT NULL REFERENCES files(file_path) ON DELETE CASCADE,
    seq         INTEGER NOT NULL,
    kind        INTEGER NOT NULL,
    title       TEXT NOT NULL,
    package     TEXT NOT NULL,
    usings      TEXT NOT NULL,
    prototype   TEXT NOT NULL,
    summary     TEXT NOT NULL,
    body        TEXT NOT NULL,
    line_number INTEGER NOT NULL,
    exported    INTEGER NOT NULL,
    list_syms   TEXT NOT NULL
)`

const createMetadataTable = `
CREATE TABLE IF NOT EXISTS metadata (
    key        TEXT PRIMARY KEY,
    value      TEXT NOT NULL,
    updated_at TEXT NOT NULL
)`

func allIndexes() []string {
	return []string{
		"CREATE INDEX IF NOT EXISTS idx_topics_file_path ON topics(file_path)",
		"CREATE INDEX IF NOT EXISTS idx_topics_title ON topics(title)",
	}
}

// createSchema creates all tables and indexes. Uses a transaction for
// atomicity so schema creation succeeds or fails together.
func createSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	tables := []struct {
		name string
		ddl  string
	}{
		{"files", createFilesTable},
		{"topics", createTopicsTable},
		{"metadata", createMetadataTable},
	}
	for _, table := range tables {
		if _, err := tx.Exec(table.ddl); err != nil {
			return fmt.Errorf("failed to create %s table: %w", table.name, err)
		}
	}

	for i, idx := range allIndexes() {
		if _, err := tx.Exec(idx); err != nil {
			return fmt.Errorf("failed to create index %d: %w", i+1, err)
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.Exec(`
		INSERT OR IGNORE INTO metadata (key, value, updated_at)
		VALUES ('schema_version', ?, ?)
	`, schemaVersion, now); err != nil {
		return fmt.Errorf("failed to bootstrap metadata: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema transaction: %w", err)
	}
	return nil
}

// SchemaVersion retrieves the schema version from metadata. Returns "0"
// for a database created before the metadata table existed.
func SchemaVersion(db *sql.DB) (string, error) {
	var tableExists int
	err := db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='metadata'",
	).Scan(&tableExists)
	if err != nil {
		return "", fmt.Errorf("failed to check metadata existence: %w", err)
	}
	if tableExists == 0 {
		return "0", nil
	}

	var version string
	err = db.QueryRow("SELECT value FROM metadata WHERE key = 'schema_version'").Scan(&version)
	if err == sql.ErrNoRows {
		return "0", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query schema version: %w", err)
	}
	return version, nil
}
