package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/rvail/filechat-go/internal/domain/entities"
)

// MarkdownExporter exports in Markdown format.
type MarkdownExporter struct{}

// ExportCache writes the cached document records as a Markdown report,
// one section per document. Full content is omitted; the cache file is
// the place for that.
func (e *MarkdownExporter) ExportCache(records []entities.DocumentRecord, w io.Writer) error {
	_, _ = fmt.Fprintf(w, "# Document Cache\n\n")
	_, _ = fmt.Fprintf(w, "**Documents:** %d\n\n", len(records))

	for i, rec := range records {
		_, _ = fmt.Fprintf(w, "## %s\n\n", rec.Filename)
		_, _ = fmt.Fprintf(w, "**Fingerprint:** `%s`  \n", rec.Fingerprint)
		_, _ = fmt.Fprintf(w, "**Cached:** %s  \n", rec.CachedAt.Format("2006-01-02 15:04:05 MST"))
		_, _ = fmt.Fprintf(w, "**Size:** %d bytes\n\n", len(rec.Content))

		if rec.HasFinalSummary() {
			_, _ = fmt.Fprintf(w, "%s\n\n", rec.Summary)
		} else {
			_, _ = fmt.Fprintf(w, "_%s_\n\n", rec.Summary)
		}

		if i < len(records)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	return nil
}

// ExportTranscript writes a session transcript as a Markdown conversation.
func (e *MarkdownExporter) ExportTranscript(t entities.Transcript, w io.Writer) error {
	_, _ = fmt.Fprintf(w, "# Session %s\n\n", t.SessionID)

	if t.Document != "" {
		_, _ = fmt.Fprintf(w, "**Document:** %s  \n", t.Document)
	}
	if t.Model != "" {
		_, _ = fmt.Fprintf(w, "**Model:** %s  \n", t.Model)
	}
	_, _ = fmt.Fprintf(w, "**Messages:** %d\n\n", len(t.Messages))
	_, _ = fmt.Fprintf(w, "---\n\n")

	for i, msg := range t.Messages {
		_, _ = fmt.Fprintf(w, "**%s:**\n\n%s\n\n", capitalize(msg.Role), msg.Content)
		if i < len(t.Messages)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	return nil
}

// capitalize upcases the first letter of a role name.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Extension returns the file extension for this format.
func (e *MarkdownExporter) Extension() string {
	return "md"
}
