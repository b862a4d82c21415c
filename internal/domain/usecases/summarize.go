// Package usecases contains application business rules.
// Clean Architecture: Usecases orchestrate entities and depend on port interfaces.
// They contain NO framework code, NO external dependencies - just pure business logic.
package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/rvail/filechat-go/internal/domain/entities"
	"github.com/rvail/filechat-go/internal/domain/ports"
)

// summaryInputLimit bounds how much of a document is sent to the provider,
// in runes. Keeps summarization requests within model input limits.
const summaryInputLimit = 2000

const summaryInstruction = "Produce a 2-3 sentence summary of the following document."

// Summarizer produces a short synopsis of a document via the chat provider.
// It never mutates the store and never returns an error: with no model it
// yields the pending sentinel, and on provider failure a failure sentinel,
// so summarization can never abort document loading.
type Summarizer struct {
	provider ports.ChatProvider
}

// NewSummarizer creates a Summarizer with the injected provider.
func NewSummarizer(provider ports.ChatProvider) *Summarizer {
	return &Summarizer{provider: provider}
}

// Summarize returns a summary of content using the given model, or a
// sentinel when no model is selected or the provider call fails.
func (s *Summarizer) Summarize(ctx context.Context, content, model string) string {
	if model == "" {
		return entities.PendingSummary
	}

	messages := []entities.ChatMessage{
		{Role: entities.RoleSystem, Content: summaryInstruction},
		{Role: entities.RoleUser, Content: truncateRunes(content, summaryInputLimit)},
	}

	resp, err := s.provider.Complete(ctx, model, messages)
	if err != nil {
		return fmt.Sprintf("%s %v", entities.SummaryFailedPrefix, err)
	}

	resp = strings.TrimSpace(resp)
	if resp == "" {
		return entities.SummaryFailedPrefix + " model returned an empty response"
	}
	return resp
}

// truncateRunes bounds s to at most limit runes without splitting one.
func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
