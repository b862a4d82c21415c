package docstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rvail/filechat-go/internal/domain/entities"
)

// FileStore keeps the document cache in memory and mirrors it to a single
// JSON file after every mutation. The persisted form maps fingerprint to
// {content, summary, timestamp, filename}; each write replaces the whole
// file. A failed write is returned as *entities.CacheIOError but the
// in-memory mutation stands: memory stays authoritative for the session.
type FileStore struct {
	mu      sync.RWMutex
	path    string
	records map[entities.Fingerprint]entities.DocumentRecord
}

// persistedRecord is the on-disk value shape. The fingerprint is the key,
// not repeated inside the value.
type persistedRecord struct {
	Content   string    `json:"content"`
	Summary   string    `json:"summary"`
	Timestamp time.Time `json:"timestamp"`
	Filename  string    `json:"filename"`
}

// NewFileStore creates a file-backed document store persisting to path.
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path:    path,
		records: make(map[entities.Fingerprint]entities.DocumentRecord),
	}
}

// Get looks up a record by fingerprint.
func (s *FileStore) Get(fp entities.Fingerprint) (*entities.DocumentRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[fp]
	if !ok {
		return nil, false
	}
	return &rec, true
}

// Put inserts or replaces a record and persists the whole store.
func (s *FileStore) Put(rec entities.DocumentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[rec.Fingerprint] = rec
	return s.save()
}

// UpdateSummary replaces the summary of an existing record and persists.
func (s *FileStore) UpdateSummary(fp entities.Fingerprint, summary string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[fp]
	if !ok {
		return &entities.NotFoundError{Fingerprint: fp}
	}
	rec.Summary = summary
	s.records[fp] = rec
	return s.save()
}

// Load reads the persisted cache, once at startup. A missing file yields
// an empty store and nil error; an unreadable or corrupt one yields an
// empty store and a *entities.CacheIOError so startup can proceed.
func (s *FileStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[entities.Fingerprint]entities.DocumentRecord)

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return &entities.CacheIOError{Path: s.path, Op: "load", Err: err}
	}

	var persisted map[string]persistedRecord
	if err := json.Unmarshal(data, &persisted); err != nil {
		return &entities.CacheIOError{Path: s.path, Op: "load", Err: err}
	}

	loaded := make(map[entities.Fingerprint]entities.DocumentRecord, len(persisted))
	for key, pr := range persisted {
		fp, err := entities.ParseFingerprint(key)
		if err != nil {
			return &entities.CacheIOError{Path: s.path, Op: "load", Err: err}
		}
		loaded[fp] = entities.DocumentRecord{
			Fingerprint: fp,
			Content:     pr.Content,
			Summary:     pr.Summary,
			Filename:    pr.Filename,
			CachedAt:    pr.Timestamp,
		}
	}

	s.records = loaded
	return nil
}

// Save serializes the entire mapping, replacing the persisted file.
func (s *FileStore) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.save()
}

// save writes the whole store; callers hold the lock.
func (s *FileStore) save() error {
	persisted := make(map[string]persistedRecord, len(s.records))
	for fp, rec := range s.records {
		persisted[fp.String()] = persistedRecord{
			Content:   rec.Content,
			Summary:   rec.Summary,
			Timestamp: rec.CachedAt,
			Filename:  rec.Filename,
		}
	}

	data, err := json.MarshalIndent(persisted, "", "  ")
	if err != nil {
		return &entities.CacheIOError{Path: s.path, Op: "save", Err: err}
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return &entities.CacheIOError{Path: s.path, Op: "save", Err: err}
		}
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return &entities.CacheIOError{Path: s.path, Op: "save", Err: err}
	}
	return nil
}

// Records returns a snapshot of all cached records, newest first.
func (s *FileStore) Records() []entities.DocumentRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return snapshot(s.records)
}

// Len returns the number of cached documents.
func (s *FileStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records)
}
