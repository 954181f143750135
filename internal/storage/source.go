// internal/storage/source.go
package storage

import (
	"context"
	"encoding/base64"
	"path"
	"strings"

	apperrors "resume-screening-workers/internal/common/errors"
	commonhttp "resume-screening-workers/internal/common/http"
	"resume-screening-workers/internal/common/validation"
)

// DefaultMaxBytes caps a single CV download.
const DefaultMaxBytes = 10 << 20

// ObjectStore reads and writes objects by key.
type ObjectStore interface {
	Download(ctx context.Context, key string, maxBytes int64) ([]byte, error)
	Upload(ctx context.Context, key, contentType string, data []byte) error
}

// Downloader fetches a URL.
type Downloader interface {
	Download(ctx context.Context, url string, maxBytes int64) ([]byte, error)
}

// Ref names where a document comes from. Exactly one of ObjectKey, URL or
// ContentBase64 is used, in that order of preference.
type Ref struct {
	ObjectKey     string `json:"objectKey,omitempty"`
	URL           string `json:"url,omitempty"`
	ContentBase64 string `json:"contentBase64,omitempty"`
	Filename      string `json:"filename,omitempty"`
}

func (r Ref) Empty() bool {
	return r.ObjectKey == "" && r.URL == "" && r.ContentBase64 == ""
}

// Name is the filename, or the last path segment of the key or URL.
func (r Ref) Name() string {
	if r.Filename != "" {
		return r.Filename
	}
	switch {
	case r.ObjectKey != "":
		return path.Base(r.ObjectKey)
	case r.URL != "":
		u := r.URL
		if i := strings.IndexAny(u, "?#"); i >= 0 {
			u = u[:i]
		}
		return path.Base(u)
	}
	return ""
}

func (r Ref) origin() string {
	switch {
	case r.ObjectKey != "":
		return "s3:" + r.ObjectKey
	case r.URL != "":
		return r.URL
	}
	return "inline"
}

// Source resolves Refs to bytes. Either backend may be nil; a Ref that needs
// a missing backend fails with DOCUMENT_FETCH_FAILED.
type Source struct {
	objects  ObjectStore
	http     Downloader
	maxBytes int64
}

func NewSource(objects ObjectStore, http Downloader, maxBytes int64) *Source {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Source{objects: objects, http: http, maxBytes: maxBytes}
}

// NewHTTPDownloader adapts the shared HTTP client.
func NewHTTPDownloader(c *commonhttp.Client) Downloader {
	return c
}

func (s *Source) Fetch(ctx context.Context, ref Ref) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch {
	case ref.ObjectKey != "":
		if s.objects == nil {
			return nil, apperrors.NewDocumentFetchFailedError(ref.origin(), errNoBackend("object storage"))
		}
		data, err = s.objects.Download(ctx, ref.ObjectKey, s.maxBytes)
	case ref.URL != "":
		if !validation.ValidateURL(ref.URL) {
			return nil, apperrors.NewValidationFailedError("url must be an http or https address")
		}
		if s.http == nil {
			return nil, apperrors.NewDocumentFetchFailedError(ref.origin(), errNoBackend("http"))
		}
		data, err = s.http.Download(ctx, ref.URL, s.maxBytes)
	case ref.ContentBase64 != "":
		data, err = base64.StdEncoding.DecodeString(ref.ContentBase64)
		if err == nil && int64(len(data)) > s.maxBytes {
			return nil, apperrors.NewDocumentTooLargeError(len(data), int(s.maxBytes))
		}
	default:
		return nil, apperrors.NewValidationFailedError("one of objectKey, url or contentBase64 is required")
	}
	if err != nil {
		return nil, apperrors.NewDocumentFetchFailedError(ref.origin(), err)
	}
	return data, nil
}

type errNoBackend string

func (e errNoBackend) Error() string {
	return string(e) + " is not configured"
}
