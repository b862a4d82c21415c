package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rvail/filechat-go/internal/domain/entities"
)

func sampleRecords() []entities.DocumentRecord {
	return []entities.DocumentRecord{
		{
			Fingerprint: entities.ComputeFingerprint([]byte("first")),
			Content:     "first document",
			Summary:     "Summary of first.",
			Filename:    "first.txt",
			CachedAt:    time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		},
		{
			Fingerprint: entities.ComputeFingerprint([]byte("second")),
			Content:     "second document",
			Summary:     entities.PendingSummary,
			Filename:    "second.txt",
			CachedAt:    time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC),
		},
	}
}

func sampleTranscript() entities.Transcript {
	return entities.Transcript{
		SessionID: "abc-123",
		Model:     "llama3.2",
		Document:  "first.txt",
		Messages: []entities.ChatMessage{
			{Role: entities.RoleUser, Content: "what is this?"},
			{Role: entities.RoleAssistant, Content: "A document."},
		},
	}
}

func TestNewExporter(t *testing.T) {
	cases := []struct {
		format string
		ext    string
	}{
		{"json", "json"},
		{"yaml", "yaml"},
		{"yml", "yaml"},
		{"md", "md"},
		{"markdown", "md"},
	}
	for _, tc := range cases {
		exp, err := NewExporter(tc.format)
		if err != nil {
			t.Errorf("format %q: %v", tc.format, err)
			continue
		}
		if exp.Extension() != tc.ext {
			t.Errorf("format %q: extension %q, want %q", tc.format, exp.Extension(), tc.ext)
		}
	}

	if _, err := NewExporter("xml"); err == nil {
		t.Error("unsupported format should be rejected")
	}
}

func TestJSONExporter_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	exp := &JSONExporter{}

	if err := exp.ExportCache(sampleRecords(), &buf); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var decoded []entities.DocumentRecord
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 2 || decoded[0].Filename != "first.txt" {
		t.Errorf("round-trip mismatch: %+v", decoded)
	}
}

func TestYAMLExporter_Transcript(t *testing.T) {
	var buf bytes.Buffer
	exp := &YAMLExporter{}

	if err := exp.ExportTranscript(sampleTranscript(), &buf); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var decoded entities.Transcript
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if decoded.SessionID != "abc-123" || len(decoded.Messages) != 2 {
		t.Errorf("round-trip mismatch: %+v", decoded)
	}
}

func TestMarkdownExporter_Cache(t *testing.T) {
	var buf bytes.Buffer
	exp := &MarkdownExporter{}

	if err := exp.ExportCache(sampleRecords(), &buf); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "# Document Cache") {
		t.Error("missing report title")
	}
	for _, want := range []string{"## first.txt", "## second.txt", "Summary of first."} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in output", want)
		}
	}
	// Pending summary rendered as a note, not as final prose.
	if !strings.Contains(out, "_"+entities.PendingSummary+"_") {
		t.Error("pending summary should be italicized")
	}
	if strings.Contains(out, "first document") {
		t.Error("full content must not appear in the report")
	}
}

func TestMarkdownExporter_Transcript(t *testing.T) {
	var buf bytes.Buffer
	exp := &MarkdownExporter{}

	if err := exp.ExportTranscript(sampleTranscript(), &buf); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{"# Session abc-123", "**User:**", "**Assistant:**", "what is this?", "A document."} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in output", want)
		}
	}
}
