package entities

import "fmt"

// DecodeError means upload bytes are not valid text under any supported
// encoding. The upload is rejected and no state is mutated.
type DecodeError struct {
	Filename string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error: %s: %v", e.Filename, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ProviderError means a model listing, completion or streaming call failed.
// Reported as a warning; the session degrades rather than aborts.
type ProviderError struct {
	Op  string // "list_models", "complete", "stream"
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error [%s]: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// CacheIOError means a persistence read or write failed. The in-memory
// store remains authoritative for the rest of the session.
type CacheIOError struct {
	Path string
	Op   string // "load", "save"
	Err  error
}

func (e *CacheIOError) Error() string {
	return fmt.Sprintf("cache %s error: %s: %v", e.Op, e.Path, e.Err)
}

func (e *CacheIOError) Unwrap() error {
	return e.Err
}

// NotFoundError means a fingerprint has no record in the store.
type NotFoundError struct {
	Fingerprint Fingerprint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no cached document for fingerprint %s", e.Fingerprint.Short())
}

// PreconditionError means a user action was rejected before any provider
// call: submitting a prompt with no model or no document selected.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return e.Reason
}
