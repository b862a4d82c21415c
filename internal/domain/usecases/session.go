// Package usecases - session.go orchestrates uploads, model selection and chat turns.
package usecases

import (
	"context"
	"strings"
	"time"

	"github.com/rvail/filechat-go/internal/domain/entities"
	"github.com/rvail/filechat-go/internal/domain/ports"
)

// Session is the controller for one interactive chat session. It owns the
// conversation history, the active document fingerprint and the selected
// model, and drives the document store and chat provider in response to
// user actions.
//
// Calls are run-to-completion and must not be interleaved; the hosting
// surface (REPL loop or HTTP server) serializes them. No locking here.
type Session struct {
	id         string
	store      ports.DocumentStore
	provider   ports.ChatProvider
	decoder    ports.DocumentDecoder
	summarizer *Summarizer

	model   string
	active  entities.Fingerprint
	history []entities.ChatMessage
}

// NewSession creates a session controller with injected dependencies.
// The id identifies the session in logs and exports.
func NewSession(id string, store ports.DocumentStore, provider ports.ChatProvider, decoder ports.DocumentDecoder) *Session {
	return &Session{
		id:         id,
		store:      store,
		provider:   provider,
		decoder:    decoder,
		summarizer: NewSummarizer(provider),
	}
}

// UploadResult describes the outcome of a document upload.
type UploadResult struct {
	Record   entities.DocumentRecord
	CacheHit bool
	// Warning carries a non-fatal persistence failure: the record is
	// cached in memory but could not be written to disk.
	Warning error
}

// Upload fingerprints raw bytes and makes the matching document active.
// A cache hit reuses the stored record untouched; a miss decodes the
// bytes, summarizes them with the currently selected model and caches the
// new record. History is cleared whenever the active document changes.
// A decode failure leaves all state exactly as it was.
func (s *Session) Upload(ctx context.Context, filename string, data []byte) (*UploadResult, error) {
	fp := entities.ComputeFingerprint(data)

	if rec, ok := s.store.Get(fp); ok {
		if s.active != fp {
			s.history = nil
		}
		s.active = fp
		return &UploadResult{Record: *rec, CacheHit: true}, nil
	}

	content, err := s.decoder.Decode(filename, data)
	if err != nil {
		return nil, err
	}

	rec := entities.DocumentRecord{
		Fingerprint: fp,
		Content:     content,
		Summary:     s.summarizer.Summarize(ctx, content, s.model),
		Filename:    filename,
		CachedAt:    time.Now().UTC(),
	}

	warning := s.store.Put(rec)

	s.active = fp
	s.history = nil
	return &UploadResult{Record: rec, Warning: warning}, nil
}

// RemoveDocument clears the active document and the conversation history.
// Idempotent.
func (s *Session) RemoveDocument() {
	s.active = ""
	s.history = nil
}

// SelectModel sets the session's model. The placeholder sentinel (or an
// empty id) clears the selection instead. When the active document's
// summary is still pending, it is recomputed with the new model and the
// store updated. The returned error is a non-fatal warning (a summary
// persistence failure); the in-memory state is already updated.
func (s *Session) SelectModel(ctx context.Context, id string) error {
	if id == "" || id == entities.NoModelSentinel {
		s.model = ""
		return nil
	}
	s.model = id

	if s.active == "" {
		return nil
	}
	rec, ok := s.store.Get(s.active)
	if !ok || !entities.IsSummaryPending(rec.Summary) {
		return nil
	}

	summary := s.summarizer.Summarize(ctx, rec.Content, id)
	return s.store.UpdateSummary(s.active, summary)
}

// SubmitPrompt runs one chat turn: append the user message, compose the
// context, stream the model's answer (fanning fragments to onFragment when
// non-nil) and append the assistant message. On any streaming failure the
// user message is rolled back so history never holds an unanswered
// question.
func (s *Session) SubmitPrompt(ctx context.Context, text string, onFragment func(string)) (string, error) {
	if s.model == "" {
		return "", &entities.PreconditionError{Reason: "no model selected: pick a model before chatting"}
	}
	rec, ok := s.activeRecord()
	if !ok {
		return "", &entities.PreconditionError{Reason: "no document loaded: upload a document before chatting"}
	}

	s.history = append(s.history, entities.ChatMessage{Role: entities.RoleUser, Content: text})

	tokens, err := s.provider.Stream(ctx, s.model, ComposeContext(s.history, rec))
	if err != nil {
		s.rollbackLastUserMessage()
		return "", &entities.ProviderError{Op: "stream", Err: err}
	}

	var sb strings.Builder
	for tok := range tokens {
		if tok.Error != nil {
			s.rollbackLastUserMessage()
			return "", &entities.ProviderError{Op: "stream", Err: tok.Error}
		}
		if tok.Content != "" {
			sb.WriteString(tok.Content)
			if onFragment != nil {
				onFragment(tok.Content)
			}
		}
		if tok.Done {
			break
		}
	}

	answer := sb.String()
	s.history = append(s.history, entities.ChatMessage{Role: entities.RoleAssistant, Content: answer})
	return answer, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Model returns the selected model identifier, or "" when none is chosen.
func (s *Session) Model() string { return s.model }

// History returns a copy of the conversation history, oldest first.
func (s *Session) History() []entities.ChatMessage {
	out := make([]entities.ChatMessage, len(s.history))
	copy(out, s.history)
	return out
}

// ActiveDocument returns the record backing the current chat context.
func (s *Session) ActiveDocument() (*entities.DocumentRecord, bool) {
	return s.activeRecord()
}

// Transcript snapshots the session for export.
func (s *Session) Transcript() entities.Transcript {
	t := entities.Transcript{
		SessionID: s.id,
		Model:     s.model,
		Messages:  s.History(),
	}
	if rec, ok := s.activeRecord(); ok {
		t.Document = rec.Filename
	}
	return t
}

func (s *Session) activeRecord() (*entities.DocumentRecord, bool) {
	if s.active == "" {
		return nil, false
	}
	return s.store.Get(s.active)
}

func (s *Session) rollbackLastUserMessage() {
	if n := len(s.history); n > 0 && s.history[n-1].Role == entities.RoleUser {
		s.history = s.history[:n-1]
	}
}
