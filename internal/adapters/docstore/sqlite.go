package docstore

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/rvail/filechat-go/internal/domain/entities"
)

// SQLiteStore implements ports.DocumentStore on a SQLite table, one row
// per fingerprint. Lookups are served from an in-memory mirror loaded at
// startup; mutations upsert the affected row so each insert/update is
// durable on its own. Persistence failures keep the in-memory mutation.
type SQLiteStore struct {
	mu      sync.RWMutex
	db      *sql.DB
	path    string
	records map[entities.Fingerprint]entities.DocumentRecord
}

// NewSQLiteStore opens (creating if needed) the cache database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	store := &SQLiteStore{
		db:      db,
		path:    path,
		records: make(map[entities.Fingerprint]entities.DocumentRecord),
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return store, nil
}

// initSchema creates the documents table.
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		fingerprint TEXT PRIMARY KEY,
		content TEXT NOT NULL,
		summary TEXT NOT NULL,
		filename TEXT NOT NULL,
		cached_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Get looks up a record by fingerprint.
func (s *SQLiteStore) Get(fp entities.Fingerprint) (*entities.DocumentRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[fp]
	if !ok {
		return nil, false
	}
	return &rec, true
}

// Put inserts or replaces a record and persists its row.
func (s *SQLiteStore) Put(rec entities.DocumentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[rec.Fingerprint] = rec

	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO documents (fingerprint, content, summary, filename, cached_at)
		VALUES (?, ?, ?, ?, ?)
	`, rec.Fingerprint.String(), rec.Content, rec.Summary, rec.Filename, rec.CachedAt.Format(time.RFC3339Nano))
	if err != nil {
		return &entities.CacheIOError{Path: s.path, Op: "save", Err: err}
	}
	return nil
}

// UpdateSummary replaces the summary of an existing record and persists.
func (s *SQLiteStore) UpdateSummary(fp entities.Fingerprint, summary string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[fp]
	if !ok {
		return &entities.NotFoundError{Fingerprint: fp}
	}
	rec.Summary = summary
	s.records[fp] = rec

	_, err := s.db.Exec(`UPDATE documents SET summary = ? WHERE fingerprint = ?`,
		summary, fp.String())
	if err != nil {
		return &entities.CacheIOError{Path: s.path, Op: "save", Err: err}
	}
	return nil
}

// Load reads all rows into the in-memory mirror, once at startup. Corrupt
// rows surface as *entities.CacheIOError with the store left empty.
func (s *SQLiteStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[entities.Fingerprint]entities.DocumentRecord)

	rows, err := s.db.Query(`SELECT fingerprint, content, summary, filename, cached_at FROM documents`)
	if err != nil {
		return &entities.CacheIOError{Path: s.path, Op: "load", Err: err}
	}
	defer rows.Close()

	loaded := make(map[entities.Fingerprint]entities.DocumentRecord)
	for rows.Next() {
		var key, content, summary, filename, cachedAt string
		if err := rows.Scan(&key, &content, &summary, &filename, &cachedAt); err != nil {
			return &entities.CacheIOError{Path: s.path, Op: "load", Err: err}
		}

		fp, err := entities.ParseFingerprint(key)
		if err != nil {
			return &entities.CacheIOError{Path: s.path, Op: "load", Err: err}
		}

		ts, err := time.Parse(time.RFC3339Nano, cachedAt)
		if err != nil {
			return &entities.CacheIOError{Path: s.path, Op: "load", Err: err}
		}

		loaded[fp] = entities.DocumentRecord{
			Fingerprint: fp,
			Content:     content,
			Summary:     summary,
			Filename:    filename,
			CachedAt:    ts,
		}
	}
	if err := rows.Err(); err != nil {
		return &entities.CacheIOError{Path: s.path, Op: "load", Err: err}
	}

	s.records = loaded
	return nil
}

// Save rewrites every row from the in-memory mirror in one transaction.
func (s *SQLiteStore) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, err := s.db.Begin()
	if err != nil {
		return &entities.CacheIOError{Path: s.path, Op: "save", Err: err}
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM documents`); err != nil {
		return &entities.CacheIOError{Path: s.path, Op: "save", Err: err}
	}

	stmt, err := tx.Prepare(`
		INSERT INTO documents (fingerprint, content, summary, filename, cached_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return &entities.CacheIOError{Path: s.path, Op: "save", Err: err}
	}
	defer stmt.Close()

	for fp, rec := range s.records {
		_, err := stmt.Exec(fp.String(), rec.Content, rec.Summary, rec.Filename,
			rec.CachedAt.Format(time.RFC3339Nano))
		if err != nil {
			return &entities.CacheIOError{Path: s.path, Op: "save", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &entities.CacheIOError{Path: s.path, Op: "save", Err: err}
	}
	return nil
}

// Records returns a snapshot of all cached records, newest first.
func (s *SQLiteStore) Records() []entities.DocumentRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return snapshot(s.records)
}

// Len returns the number of cached documents.
func (s *SQLiteStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
