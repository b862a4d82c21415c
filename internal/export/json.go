package export

import (
	"encoding/json"
	"io"

	"github.com/rvail/filechat-go/internal/domain/entities"
)

// JSONExporter exports in indented JSON.
type JSONExporter struct{}

// ExportCache writes the cached document records as a JSON array.
func (e *JSONExporter) ExportCache(records []entities.DocumentRecord, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// ExportTranscript writes a session transcript as a JSON object.
func (e *JSONExporter) ExportTranscript(t entities.Transcript, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(t)
}

// Extension returns the file extension for this format.
func (e *JSONExporter) Extension() string {
	return "json"
}
