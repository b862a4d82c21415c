package usecases

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/rvail/filechat-go/internal/domain/entities"
)

func TestSummarizer_NoModelYieldsPendingSentinel(t *testing.T) {
	provider := &mockProvider{completeResponse: "should never be asked"}
	s := NewSummarizer(provider)

	summary := s.Summarize(context.Background(), "content", "")

	if summary != entities.PendingSummary {
		t.Errorf("expected pending sentinel, got %q", summary)
	}
	if provider.completeCalls != 0 {
		t.Errorf("provider must not be called without a model, got %d calls", provider.completeCalls)
	}
}

func TestSummarizer_SuccessTrimsResponse(t *testing.T) {
	provider := &mockProvider{completeResponse: "  A tidy summary.\n"}
	s := NewSummarizer(provider)

	summary := s.Summarize(context.Background(), "content", "m1")

	if summary != "A tidy summary." {
		t.Errorf("expected trimmed response, got %q", summary)
	}
	if provider.lastModel != "m1" {
		t.Errorf("wrong model used: %q", provider.lastModel)
	}
	if len(provider.lastMessages) != 2 {
		t.Fatalf("expected instruction + content messages, got %d", len(provider.lastMessages))
	}
	if provider.lastMessages[1].Content != "content" {
		t.Errorf("document content not forwarded: %q", provider.lastMessages[1].Content)
	}
}

func TestSummarizer_ProviderFailureYieldsFailureSentinel(t *testing.T) {
	provider := &mockProvider{completeErr: errors.New("connection refused")}
	s := NewSummarizer(provider)

	summary := s.Summarize(context.Background(), "content", "m1")

	if !entities.IsSummaryFailed(summary) {
		t.Errorf("expected failure sentinel, got %q", summary)
	}
	if !strings.Contains(summary, "connection refused") {
		t.Errorf("failure sentinel should carry the cause, got %q", summary)
	}
}

func TestSummarizer_EmptyResponseYieldsFailureSentinel(t *testing.T) {
	provider := &mockProvider{completeResponse: "   \n"}
	s := NewSummarizer(provider)

	summary := s.Summarize(context.Background(), "content", "m1")

	if !entities.IsSummaryFailed(summary) {
		t.Errorf("blank response should count as failure, got %q", summary)
	}
}

func TestSummarizer_TruncatesLongContent(t *testing.T) {
	provider := &mockProvider{completeResponse: "ok"}
	s := NewSummarizer(provider)

	long := strings.Repeat("é", summaryInputLimit+500)
	s.Summarize(context.Background(), long, "m1")

	sent := provider.lastMessages[1].Content
	if got := utf8.RuneCountInString(sent); got != summaryInputLimit {
		t.Errorf("expected %d runes sent, got %d", summaryInputLimit, got)
	}
	if !utf8.ValidString(sent) {
		t.Error("truncation split a rune")
	}
}
