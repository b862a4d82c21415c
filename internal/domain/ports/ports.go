// Package ports defines interfaces for external dependencies.
// Clean Architecture: These are the boundaries - usecases depend on these abstractions,
// not concrete implementations. Adapters implement these interfaces.
package ports

import (
	"context"

	"github.com/rvail/filechat-go/internal/domain/entities"
)

// ChatProvider is the chat completion boundary. The core treats it as an
// opaque capability; all three operations are fallible and never fatal.
type ChatProvider interface {
	// ListModels returns the identifiers of installed models. An error or
	// an empty result means "no model available", not a hard failure.
	ListModels(ctx context.Context) ([]string, error)

	// Complete issues one non-streaming completion. Used for summarization.
	Complete(ctx context.Context, model string, messages []entities.ChatMessage) (string, error)

	// Stream issues a streaming completion for a chat turn. Fragment
	// boundaries carry no meaning; in-order concatenation reconstructs
	// the full response.
	Stream(ctx context.Context, model string, messages []entities.ChatMessage) (<-chan StreamToken, error)
}

// StreamToken is a single fragment of a streaming chat response.
type StreamToken struct {
	Content string
	Done    bool
	Error   error
}

// DocumentStore is the system of record for cached documents: an in-memory
// mapping from fingerprint to record, mirrored to durable storage after
// every mutation. A persistence failure is returned to the caller but the
// in-memory mutation is retained.
type DocumentStore interface {
	// Get looks up a record by fingerprint. O(1), no side effects.
	Get(fp entities.Fingerprint) (*entities.DocumentRecord, bool)

	// Put inserts or replaces a record, then persists the whole store.
	Put(rec entities.DocumentRecord) error

	// UpdateSummary replaces the summary of an existing record and
	// persists. Returns *entities.NotFoundError if the fingerprint is
	// absent.
	UpdateSummary(fp entities.Fingerprint, summary string) error

	// Load reads the durable representation, once at startup. Missing
	// storage yields an empty store and nil error; corrupt storage yields
	// an empty store and a *entities.CacheIOError. Never crashes startup.
	Load() error

	// Save serializes the entire mapping, replacing the persisted
	// representation wholesale.
	Save() error

	// Records returns a snapshot of all cached records, newest first.
	Records() []entities.DocumentRecord

	// Len returns the number of cached documents.
	Len() int
}

// DocumentDecoder turns raw upload bytes into text. Bytes that are not
// valid text under any supported encoding yield *entities.DecodeError.
type DocumentDecoder interface {
	Decode(filename string, data []byte) (string, error)
}

// FileEvent represents a file system change in the drop directory.
type FileEvent struct {
	Path      string
	Operation FileOperation
}

// FileOperation is the type of file change.
type FileOperation int

const (
	FileCreated FileOperation = iota
	FileModified
	FileDeleted
)

// FileWatcher monitors a drop directory for documents to upload.
type FileWatcher interface {
	// Watch starts monitoring the directory and emits events.
	Watch(ctx context.Context, dir string) (<-chan FileEvent, error)

	// Stop stops the watcher.
	Stop() error
}
