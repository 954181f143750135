// internal/resume/document/text.go
package document

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// TextBackend decodes plain text as UTF-8, falling back to Latin-1.
type TextBackend struct{}

func (TextBackend) Name() string { return "text" }

func (TextBackend) Handles(t FileType) bool { return t == TypeTXT }

func (TextBackend) Extract(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode text file: %w", err)
	}
	return string(decoded), nil
}
