// internal/resume/document/extract.go
package document

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"resume-screening-workers/internal/common/logger"
)

// DefaultMinChars is the trimmed length extracted text must reach to count as
// a successful extraction.
const DefaultMinChars = 10

// Backend extracts text from one or more file types. Backends are tried in
// registration order.
type Backend interface {
	Name() string
	Handles(t FileType) bool
	Extract(data []byte) (string, error)
}

// DefaultBackends returns the built-in chain: two PDF readers, DOCX and text.
func DefaultBackends() []Backend {
	return []Backend{LedongthucPDF{}, ContentStreamPDF{}, DocxBackend{}, TextBackend{}}
}

// Result is the text extracted from one file.
type Result struct {
	Text     string   `json:"text"`
	FileType FileType `json:"fileType"`
	Backend  string   `json:"backend,omitempty"`
	// Short is set when a file of known type produced less text than the
	// minimum and was returned anyway.
	Short bool `json:"short,omitempty"`
}

// ExtractionFailure is returned when no backend yields enough text.
type ExtractionFailure struct {
	Filename    string
	Size        int
	Missing     []string
	Diagnostics []string
}

func (e *ExtractionFailure) Error() string {
	name := e.Filename
	if name == "" {
		name = "unknown"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Could not extract text from the uploaded CV file (%s).\n\nDiagnostics:\n", name)
	for _, d := range e.Diagnostics {
		sb.WriteString("  " + d + "\n")
	}
	sb.WriteString("\nPlease ensure:\n")
	for i, item := range checklist {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, item)
	}
	return strings.TrimRight(sb.String(), "\n")
}

var checklist = []string{
	"The file is a valid PDF, DOCX, or TXT file",
	"The file is not password protected",
	"The file is not corrupted",
	"The file contains readable text (not just images/scans)",
}

// Checklist returns the remediation steps included in every ExtractionFailure.
func Checklist() []string {
	return append([]string(nil), checklist...)
}

// Extractor runs the backend chain over uploaded CV files.
type Extractor struct {
	backends []Backend
	minChars int
	log      logger.Logger
}

type Option func(*Extractor)

func WithBackends(backends ...Backend) Option {
	return func(e *Extractor) { e.backends = backends }
}

func WithMinChars(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.minChars = n
		}
	}
}

func WithLogger(l logger.Logger) Option {
	return func(e *Extractor) { e.log = logger.OrNop(l) }
}

func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		backends: DefaultBackends(),
		minChars: DefaultMinChars,
		log:      logger.NewNoOpLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract sniffs the file type and extracts its text. Files of a known type
// that yield short text are returned with Short set; the caller decides
// whether that is enough. Unknown files try pdf, docx and txt in turn.
func (e *Extractor) Extract(data []byte, filename string) (*Result, error) {
	if len(data) == 0 {
		return nil, e.failure(data, filename)
	}

	ft := Sniff(filename, data)
	log := e.log.WithFields(map[string]interface{}{
		"filename": filename,
		"size":     len(data),
		"fileType": string(ft),
	})

	if ft == TypeUnknown {
		log.Warn("Could not determine file type from filename or content", nil)
		for _, candidate := range []FileType{TypePDF, TypeDOCX, TypeTXT} {
			text, backend := e.run(candidate, data)
			if trimmedLen(text) >= e.minChars {
				log.Info("Extracted text by trial", map[string]interface{}{"as": string(candidate), "backend": backend})
				return &Result{Text: text, FileType: candidate, Backend: backend}, nil
			}
		}
		log.Error("Failed to extract text from file using any method", nil)
		return nil, e.failure(data, filename)
	}

	text, backend := e.run(ft.extractAs(), data)
	res := &Result{Text: text, FileType: ft, Backend: backend}
	if trimmedLen(text) < e.minChars {
		res.Short = true
		log.Warn("Extraction returned empty or very short text", map[string]interface{}{"chars": len(text)})
		return res, nil
	}

	log.Info("Extracted text", map[string]interface{}{"chars": len(text), "backend": backend})
	return res, nil
}

// ExtractText is Extract followed by the minimum-length check: short results
// become an ExtractionFailure.
func (e *Extractor) ExtractText(data []byte, filename string) (*Result, error) {
	res, err := e.Extract(data, filename)
	if err != nil {
		return nil, err
	}
	if trimmedLen(res.Text) < e.minChars {
		return nil, e.failure(data, filename)
	}
	return res, nil
}

// run returns the first non-blank output among backends handling ft, or the
// last (possibly blank) output when none produces text.
func (e *Extractor) run(ft FileType, data []byte) (string, string) {
	var (
		best     string
		bestName string
	)
	for _, b := range e.backends {
		if !b.Handles(ft) {
			continue
		}
		text, err := b.Extract(data)
		if err != nil {
			e.log.Debug("Extraction backend failed", map[string]interface{}{
				"backend": b.Name(),
				"error":   err.Error(),
			})
			continue
		}
		if trimmedLen(text) >= e.minChars {
			return text, b.Name()
		}
		if trimmedLen(text) >= trimmedLen(best) {
			best, bestName = text, b.Name()
		}
	}
	return best, bestName
}

// MissingBackends lists the supported file types with no registered backend.
func (e *Extractor) MissingBackends() []string {
	var missing []string
	for _, ft := range []FileType{TypePDF, TypeDOCX, TypeTXT} {
		found := false
		for _, b := range e.backends {
			if b.Handles(ft) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, string(ft))
		}
	}
	sort.Strings(missing)
	return missing
}

func (e *Extractor) failure(data []byte, filename string) *ExtractionFailure {
	f := &ExtractionFailure{Filename: filename, Size: len(data), Missing: e.MissingBackends()}

	if len(data) == 0 {
		f.Diagnostics = append(f.Diagnostics, "No CV file uploaded")
		return f
	}
	f.Diagnostics = append(f.Diagnostics, "CV file is present")
	if filename != "" {
		f.Diagnostics = append(f.Diagnostics, "Filename: "+filename)
	} else {
		f.Diagnostics = append(f.Diagnostics, "Filename not set")
	}
	f.Diagnostics = append(f.Diagnostics, fmt.Sprintf("File size: %d bytes", len(data)))
	if len(f.Missing) > 0 {
		f.Diagnostics = append(f.Diagnostics, "Missing extraction backends: "+strings.Join(f.Missing, ", "))
	} else {
		f.Diagnostics = append(f.Diagnostics, "Required extraction backends are available")
	}
	return f
}

func trimmedLen(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}
