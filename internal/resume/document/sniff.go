// internal/resume/document/sniff.go
package document

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// FileType is the document format an extractor handles.
type FileType string

const (
	TypeUnknown FileType = ""
	TypePDF     FileType = "pdf"
	TypeDOCX    FileType = "docx"
	TypeDOC     FileType = "doc"
	TypeTXT     FileType = "txt"
)

// Supported reports whether files of type t can be extracted directly.
func (t FileType) Supported() bool {
	switch t {
	case TypePDF, TypeDOCX, TypeDOC, TypeTXT:
		return true
	}
	return false
}

// extractAs maps doc onto the docx backends; legacy Word files are read with
// the same reader.
func (t FileType) extractAs() FileType {
	if t == TypeDOC {
		return TypeDOCX
	}
	return t
}

// ExtensionOf returns the lowercased text after the last '.' of filename, or
// "" when there is none.
func ExtensionOf(filename string) string {
	i := strings.LastIndex(filename, ".")
	if i < 0 {
		return ""
	}
	return strings.ToLower(filename[i+1:])
}

// Sniff trusts a supported filename extension and otherwise inspects data.
func Sniff(filename string, data []byte) FileType {
	if ft := FileType(ExtensionOf(filename)); ft.Supported() {
		return ft
	}
	return DetectType(data)
}

// DetectType recognises pdf, docx and plain ASCII text from leading bytes.
func DetectType(data []byte) FileType {
	if len(data) < 4 {
		return TypeUnknown
	}
	if bytes.HasPrefix(data, []byte("%PDF")) {
		return TypePDF
	}
	if bytes.HasPrefix(data, []byte("PK")) {
		if bytes.Contains(head(data, 1000), []byte("word/")) ||
			bytes.Contains(head(data, 2000), []byte("[Content_Types].xml")) {
			return TypeDOCX
		}
	}
	if looksASCII(head(data, 100), 50) {
		return TypeTXT
	}
	return TypeUnknown
}

// looksASCII decodes sample as UTF-8, dropping invalid sequences, and reports
// whether the first n runes are all below 128.
func looksASCII(sample []byte, n int) bool {
	seen := 0
	for len(sample) > 0 && seen < n {
		r, size := utf8.DecodeRune(sample)
		sample = sample[size:]
		if r == utf8.RuneError && size <= 1 {
			continue
		}
		if r >= 128 {
			return false
		}
		seen++
	}
	return true
}

func head(data []byte, n int) []byte {
	if len(data) < n {
		return data
	}
	return data[:n]
}
