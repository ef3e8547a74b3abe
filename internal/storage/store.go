package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/scribedocs/scribe/internal/topic"
)

// listSep joins the Using and ListSymbols slices into a single column.
// It cannot appear in a symbol because the tokenizer never emits it.
const listSep = "\x1f"

// FileState is the per-file record used for change detection between runs.
type FileState struct {
	Path     string
	Language string
	ModTime  int64
	Hash     string
}

// Store is the working database for a documentation project. A Store owns
// its *sql.DB connection; callers must not share it across processes.
type Store struct {
	db        *sql.DB
	sessionID string
}

// Open opens (creating if needed) the working database at path and ensures
// the schema exists. Each Open starts a new build session with a fresh ID.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := createSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{db: db, sessionID: uuid.NewString()}
	if err := s.SetMeta("last_session", s.sessionID); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// SessionID returns the unique ID assigned to this build session.
func (s *Store) SessionID() string {
	return s.sessionID
}

// SetMeta stores a key/value pair in the metadata table.
func (s *Store) SetMeta(key, value string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(`
		INSERT INTO metadata (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, key, value, now)
	if err != nil {
		return fmt.Errorf("failed to set metadata %q: %w", key, err)
	}
	return nil
}

// Meta returns the value for key, or "" if the key is not set.
func (s *Store) Meta(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM metadata WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read metadata %q: %w", key, err)
	}
	return value, nil
}

// FileStates returns the recorded state of every file keyed by path.
func (s *Store) FileStates() (map[string]FileState, error) {
	rows, err := s.db.Query("SELECT file_path, language, mtime, file_hash FROM files")
	if err != nil {
		return nil, fmt.Errorf("failed to query file states: %w", err)
	}
	defer rows.Close()

	states := make(map[string]FileState)
	for rows.Next() {
		var st FileState
		if err := rows.Scan(&st.Path, &st.Language, &st.ModTime, &st.Hash); err != nil {
			return nil, fmt.Errorf("failed to scan file state: %w", err)
		}
		states[st.Path] = st
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate file states: %w", err)
	}
	return states, nil
}

// SaveFile records the file's state and replaces its stored topics in one
// transaction. Topic order within the file is preserved by the seq column.
func (s *Store) SaveFile(state FileState, topics []*topic.Topic) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin save transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.Exec(`
		INSERT OR REPLACE INTO files (file_path, language, mtime, file_hash, parsed_at)
		VALUES (?, ?, ?, ?, ?)
	`, state.Path, state.Language, state.ModTime, state.Hash, now); err != nil {
		return fmt.Errorf("failed to upsert file %s: %w", state.Path, err)
	}

	if _, err := tx.Exec("DELETE FROM topics WHERE file_path = ?", state.Path); err != nil {
		return fmt.Errorf("failed to clear topics for %s: %w", state.Path, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO topics
			(file_path, seq, kind, title, package, usings, prototype,
			 summary, body, line_number, exported, list_syms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare topic insert: %w", err)
	}
	defer stmt.Close()

	for i, tp := range topics {
		exported := 0
		if tp.Exported {
			exported = 1
		}
		if _, err := stmt.Exec(
			state.Path, i, int(tp.Kind), tp.Title, tp.Package,
			strings.Join(tp.Using, listSep), tp.Prototype,
			tp.Summary, tp.Body, tp.LineNumber, exported,
			strings.Join(tp.ListSymbols, listSep),
		); err != nil {
			return fmt.Errorf("failed to insert topic %q: %w", tp.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit save for %s: %w", state.Path, err)
	}
	return nil
}

// DeleteFile removes the file record; its topics go with it via cascade.
func (s *Store) DeleteFile(path string) error {
	if _, err := s.db.Exec("DELETE FROM files WHERE file_path = ?", path); err != nil {
		return fmt.Errorf("failed to delete file %s: %w", path, err)
	}
	return nil
}

// TopicsForFile returns the stored topics for one file in original order.
func (s *Store) TopicsForFile(path string) ([]*topic.Topic, error) {
	rows, err := s.db.Query(`
		SELECT kind, title, package, usings, prototype, summary, body,
		       line_number, exported, list_syms
		FROM topics WHERE file_path = ? ORDER BY seq
	`, path)
	if err != nil {
		return nil, fmt.Errorf("failed to query topics for %s: %w", path, err)
	}
	defer rows.Close()
	return scanTopics(rows)
}

// AllTopics returns every stored topic keyed by file path, each file's
// topics in original order. Used to rebuild the symbol table on startup
// without reparsing unchanged files.
func (s *Store) AllTopics() (map[string][]*topic.Topic, error) {
	rows, err := s.db.Query(`
		SELECT file_path, kind, title, package, usings, prototype, summary,
		       body, line_number, exported, list_syms
		FROM topics ORDER BY file_path, seq
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query topics: %w", err)
	}
	defer rows.Close()

	byFile := make(map[string][]*topic.Topic)
	for rows.Next() {
		var path string
		var kind, line, exported int
		var usings, listSyms string
		tp := &topic.Topic{}
		if err := rows.Scan(
			&path, &kind, &tp.Title, &tp.Package, &usings, &tp.Prototype,
			&tp.Summary, &tp.Body, &line, &exported, &listSyms,
		); err != nil {
			return nil, fmt.Errorf("failed to scan topic: %w", err)
		}
		tp.Kind = topic.Kind(kind)
		tp.LineNumber = line
		tp.Exported = exported != 0
		tp.Using = splitList(usings)
		tp.ListSymbols = splitList(listSyms)
		byFile[path] = append(byFile[path], tp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate topics: %w", err)
	}
	return byFile, nil
}

// Clear drops all file and topic rows, keeping metadata. Used by the clean
// command to force a full rebuild without discarding the database file.
func (s *Store) Clear() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin clear transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM topics"); err != nil {
		return fmt.Errorf("failed to clear topics: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM files"); err != nil {
		return fmt.Errorf("failed to clear files: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit clear: %w", err)
	}
	return nil
}

func scanTopics(rows *sql.Rows) ([]*topic.Topic, error) {
	var topics []*topic.Topic
	for rows.Next() {
		var kind, line, exported int
		var usings, listSyms string
		tp := &topic.Topic{}
		if err := rows.Scan(
			&kind, &tp.Title, &tp.Package, &usings, &tp.Prototype,
			&tp.Summary, &tp.Body, &line, &exported, &listSyms,
		); err != nil {
			return nil, fmt.Errorf("failed to scan topic: %w", err)
		}
		tp.Kind = topic.Kind(kind)
		tp.LineNumber = line
		tp.Exported = exported != 0
		tp.Using = splitList(usings)
		tp.ListSymbols = splitList(listSyms)
		topics = append(topics, tp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate topics: %w", err)
	}
	return topics, nil
}

func splitList(joined string) []string {
	if joined == "" {
		return nil
	}
	return strings.Split(joined, listSep)
}
