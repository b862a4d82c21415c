package export

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/rvail/filechat-go/internal/domain/entities"
)

// YAMLExporter exports in YAML format.
type YAMLExporter struct{}

// ExportCache writes the cached document records as a YAML sequence.
func (e *YAMLExporter) ExportCache(records []entities.DocumentRecord, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()

	return enc.Encode(records)
}

// ExportTranscript writes a session transcript as a YAML document.
func (e *YAMLExporter) ExportTranscript(t entities.Transcript, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()

	return enc.Encode(t)
}

// Extension returns the file extension for this format.
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
