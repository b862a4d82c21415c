package docstore

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rvail/filechat-go/internal/domain/entities"
)

func testRecord(content, filename string) entities.DocumentRecord {
	return entities.DocumentRecord{
		Fingerprint: entities.ComputeFingerprint([]byte(content)),
		Content:     content,
		Summary:     "A summary.",
		Filename:    filename,
		CachedAt:    time.Now().UTC().Truncate(time.Second),
	}
}

func TestFileStore_PutGetRoundTrip(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "cache.json"))

	rec := testRecord("document body", "a.txt")
	if err := store.Put(rec); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	got, ok := store.Get(rec.Fingerprint)
	if !ok {
		t.Fatal("record not found after put")
	}
	if got.Content != rec.Content || got.Summary != rec.Summary || got.Filename != rec.Filename {
		t.Errorf("round-trip mismatch: %+v", got)
	}
}

func TestFileStore_SurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	first := NewFileStore(path)
	rec := testRecord("persisted body", "a.txt")
	if err := first.Put(rec); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	second := NewFileStore(path)
	if err := second.Load(); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	got, ok := second.Get(rec.Fingerprint)
	if !ok {
		t.Fatal("record lost across restart")
	}
	if got.Content != rec.Content || got.Filename != rec.Filename {
		t.Errorf("reloaded record mismatch: %+v", got)
	}
	if !got.CachedAt.Equal(rec.CachedAt) {
		t.Errorf("timestamp changed across restart: %v vs %v", got.CachedAt, rec.CachedAt)
	}
}

func TestFileStore_MissingFileIsEmptyStore(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "nope", "cache.json"))

	if err := store.Load(); err != nil {
		t.Fatalf("missing file must not be an error: %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("expected empty store, got %d records", store.Len())
	}
}

func TestFileStore_CorruptFileYieldsEmptyStoreAndError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	store := NewFileStore(path)
	err := store.Load()

	var ioErr *entities.CacheIOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("expected CacheIOError, got %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("corrupt file should leave the store empty, got %d records", store.Len())
	}
}

func TestFileStore_UpdateSummaryUnknownFingerprint(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "cache.json"))

	err := store.UpdateSummary(entities.ComputeFingerprint([]byte("absent")), "s")

	var nfErr *entities.NotFoundError
	if !errors.As(err, &nfErr) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestFileStore_UpdateSummaryPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	store := NewFileStore(path)

	rec := testRecord("body", "a.txt")
	rec.Summary = entities.PendingSummary
	store.Put(rec)

	if err := store.UpdateSummary(rec.Fingerprint, "Final summary."); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	reloaded := NewFileStore(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	got, ok := reloaded.Get(rec.Fingerprint)
	if !ok || got.Summary != "Final summary." {
		t.Errorf("updated summary not persisted: %+v", got)
	}
}

func TestFileStore_PersistedShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	store := NewFileStore(path)

	rec := testRecord("shaped body", "shape.txt")
	store.Put(rec)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var raw map[string]map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("persisted file is not a JSON object: %v", err)
	}

	value, ok := raw[rec.Fingerprint.String()]
	if !ok {
		t.Fatalf("fingerprint key missing, keys: %v", keysOf(raw))
	}
	for _, field := range []string{"content", "summary", "timestamp", "filename"} {
		if _, ok := value[field]; !ok {
			t.Errorf("persisted value missing %q field", field)
		}
	}
	if _, ok := value["fingerprint"]; ok {
		t.Error("fingerprint must be the key, not repeated in the value")
	}
}

func keysOf(m map[string]map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
