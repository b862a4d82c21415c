package docstore

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/rvail/filechat-go/internal/domain/entities"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_PutGetRoundTrip(t *testing.T) {
	store := newTestSQLiteStore(t)

	rec := testRecord("sqlite body", "a.txt")
	if err := store.Put(rec); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	got, ok := store.Get(rec.Fingerprint)
	if !ok {
		t.Fatal("record not found after put")
	}
	if got.Content != rec.Content || got.Summary != rec.Summary {
		t.Errorf("round-trip mismatch: %+v", got)
	}
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")

	first, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	rec := testRecord("durable body", "a.txt")
	if err := first.Put(rec); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	first.Close()

	second, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopening store: %v", err)
	}
	defer second.Close()
	if err := second.Load(); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	got, ok := second.Get(rec.Fingerprint)
	if !ok {
		t.Fatal("record lost across reopen")
	}
	if got.Content != rec.Content || got.Filename != rec.Filename {
		t.Errorf("reloaded record mismatch: %+v", got)
	}
	if !got.CachedAt.Equal(rec.CachedAt) {
		t.Errorf("timestamp changed: %v vs %v", got.CachedAt, rec.CachedAt)
	}
}

func TestSQLiteStore_PutReplacesExistingRow(t *testing.T) {
	store := newTestSQLiteStore(t)

	rec := testRecord("body", "first.txt")
	store.Put(rec)
	rec.Filename = "second.txt"
	store.Put(rec)

	if store.Len() != 1 {
		t.Errorf("same fingerprint should stay a single entry, got %d", store.Len())
	}
	got, _ := store.Get(rec.Fingerprint)
	if got.Filename != "second.txt" {
		t.Errorf("replace did not take: %q", got.Filename)
	}
}

func TestSQLiteStore_UpdateSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}

	rec := testRecord("body", "a.txt")
	rec.Summary = entities.PendingSummary
	store.Put(rec)

	if err := store.UpdateSummary(rec.Fingerprint, "Final."); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	store.Close()

	reopened, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopening store: %v", err)
	}
	defer reopened.Close()
	reopened.Load()

	got, ok := reopened.Get(rec.Fingerprint)
	if !ok || got.Summary != "Final." {
		t.Errorf("summary update not durable: %+v", got)
	}

	err = store.UpdateSummary(entities.ComputeFingerprint([]byte("absent")), "x")
	var nfErr *entities.NotFoundError
	if !errors.As(err, &nfErr) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
}

func TestSQLiteStore_SaveRewritesAllRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}

	for _, content := range []string{"one", "two", "three"} {
		store.Put(testRecord(content, content+".txt"))
	}
	if err := store.Save(); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	store.Close()

	reopened, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopening store: %v", err)
	}
	defer reopened.Close()
	if err := reopened.Load(); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if reopened.Len() != 3 {
		t.Errorf("expected 3 rows, got %d", reopened.Len())
	}
}
