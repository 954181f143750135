// internal/resume/document/pdf.go
package document

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// LedongthucPDF reads the text layer page by page.
type LedongthucPDF struct{}

func (LedongthucPDF) Name() string { return "ledongthuc-pdf" }

func (LedongthucPDF) Handles(t FileType) bool { return t == TypePDF }

func (LedongthucPDF) Extract(data []byte) (text string, err error) {
	// The reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

var (
	streamPattern  = regexp.MustCompile(`(?s)stream\r?\n(.*?)\r?\nendstream`)
	textOpPattern  = regexp.MustCompile(`(?s)\((.*?[^\\])\)\s*Tj|\[(.*?)\]\s*TJ|(T\*|ET)`)
	arrayStrings   = regexp.MustCompile(`\((.*?[^\\]|)\)`)
	pdfEscapeChars = strings.NewReplacer(`\(`, "(", `\)`, ")", `\\`, `\`, `\n`, "\n", `\r`, "", `\t`, "\t")
)

// ContentStreamPDF scans raw content streams for Tj and TJ operators. It
// recovers text from files whose object tables the page reader rejects.
type ContentStreamPDF struct{}

func (ContentStreamPDF) Name() string { return "content-stream-pdf" }

func (ContentStreamPDF) Handles(t FileType) bool { return t == TypePDF }

func (ContentStreamPDF) Extract(data []byte) (string, error) {
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		return "", fmt.Errorf("not a pdf file")
	}

	var sb strings.Builder
	for _, m := range streamPattern.FindAllSubmatch(data, -1) {
		content := m[1]
		if inflated, err := inflate(content); err == nil {
			content = inflated
		}
		writeTextOperators(&sb, content)
	}
	return sb.String(), nil
}

func inflate(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(io.LimitReader(zr, 16<<20))
}

func writeTextOperators(sb *strings.Builder, content []byte) {
	for _, op := range textOpPattern.FindAllSubmatch(content, -1) {
		switch {
		case len(op[1]) > 0:
			sb.WriteString(pdfEscapeChars.Replace(string(op[1])))
		case len(op[2]) > 0:
			for _, s := range arrayStrings.FindAllSubmatch(op[2], -1) {
				sb.WriteString(pdfEscapeChars.Replace(string(s[1])))
			}
		case len(op[3]) > 0:
			sb.WriteString("\n")
		}
	}
}
