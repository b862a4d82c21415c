// Package textdecode turns raw upload bytes into text.
// Clean Architecture: Adapter implementing ports.DocumentDecoder.
package textdecode

import (
	"bytes"
	"errors"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/rvail/filechat-go/internal/domain/entities"
)

// Decoder decodes uploads as UTF-8, falling back to Latin-1. Latin-1
// assigns a code point to every byte, so the real rejection criterion is
// binary content: anything containing a NUL byte is not treated as text.
type Decoder struct{}

// NewDecoder creates a document text decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode converts raw bytes to a string, or returns *entities.DecodeError
// when the bytes are not text under any supported encoding. No state is
// touched on failure.
func (d *Decoder) Decode(filename string, data []byte) (string, error) {
	if bytes.IndexByte(data, 0) >= 0 {
		return "", &entities.DecodeError{
			Filename: filename,
			Err:      errors.New("binary content, not valid UTF-8 or Latin-1 text"),
		}
	}

	if utf8.Valid(data) {
		return string(data), nil
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", &entities.DecodeError{Filename: filename, Err: err}
	}
	return string(decoded), nil
}
