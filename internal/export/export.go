// Package export writes cached documents and session transcripts in
// user-facing formats.
package export

import (
	"fmt"
	"io"

	"github.com/rvail/filechat-go/internal/domain/entities"
)

// Exporter defines the interface for all export formats.
type Exporter interface {
	// ExportCache writes the cached document records.
	ExportCache(records []entities.DocumentRecord, w io.Writer) error

	// ExportTranscript writes a session transcript.
	ExportTranscript(t entities.Transcript, w io.Writer) error

	// Extension returns the file extension for this format.
	Extension() string
}

// NewExporter creates a new exporter based on format.
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "json":
		return &JSONExporter{}, nil
	case "yaml", "yml":
		return &YAMLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: json, yaml, md)", format)
	}
}
