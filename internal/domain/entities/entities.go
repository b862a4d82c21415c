// Package entities contains core business entities.
// These are the enterprise business rules - pure domain objects with no external dependencies.
package entities

import (
	"strings"
	"time"
)

// Message roles used across the chat provider boundary.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// NoModelSentinel is the model-picker placeholder meaning "nothing chosen".
// Selecting it clears the session's model instead of setting one.
const NoModelSentinel = "none selected"

// SummaryPendingPrefix marks a summary that was skipped because no model
// was selected at upload time. Consumers must treat it as non-final.
const SummaryPendingPrefix = "Summary pending:"

// SummaryFailedPrefix marks a summary whose provider call failed.
// Also non-final; the composer never presents it as a real summary.
const SummaryFailedPrefix = "Summary unavailable:"

// PendingSummary is the sentinel stored when summarization is deferred.
const PendingSummary = SummaryPendingPrefix + " no model selected"

// DocumentRecord is a cached document keyed by its fingerprint.
// Content, Filename and CachedAt are write-once; Summary transitions
// exactly once from the pending sentinel to a final value.
type DocumentRecord struct {
	Fingerprint Fingerprint `json:"fingerprint" yaml:"fingerprint"`
	Content     string      `json:"content" yaml:"content"`
	Summary     string      `json:"summary" yaml:"summary"`
	Filename    string      `json:"filename" yaml:"filename"`
	CachedAt    time.Time   `json:"timestamp" yaml:"timestamp"`
}

// HasFinalSummary reports whether the record carries a real summary,
// not a pending or failure sentinel.
func (r *DocumentRecord) HasFinalSummary() bool {
	return r.Summary != "" && !IsSummaryPending(r.Summary) && !IsSummaryFailed(r.Summary)
}

// IsSummaryPending reports whether s is the deferred-summary sentinel.
func IsSummaryPending(s string) bool {
	return strings.HasPrefix(s, SummaryPendingPrefix)
}

// IsSummaryFailed reports whether s is a summarization-failure sentinel.
func IsSummaryFailed(s string) bool {
	return strings.HasPrefix(s, SummaryFailedPrefix)
}

// ChatMessage represents a conversation turn.
type ChatMessage struct {
	Role    string `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
}

// Transcript is an exportable view of a chat session: which document was
// active, which model answered, and the ordered conversation history.
type Transcript struct {
	SessionID string        `json:"session_id" yaml:"session_id"`
	Model     string        `json:"model,omitempty" yaml:"model,omitempty"`
	Document  string        `json:"document,omitempty" yaml:"document,omitempty"`
	Messages  []ChatMessage `json:"messages" yaml:"messages"`
}
