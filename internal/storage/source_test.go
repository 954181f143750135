package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "resume-screening-workers/internal/common/errors"
	commonhttp "resume-screening-workers/internal/common/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ==========================
// Mock Object Store
// ==========================

type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) Download(ctx context.Context, key string, maxBytes int64) ([]byte, error) {
	args := m.Called(ctx, key, maxBytes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockObjectStore) Upload(ctx context.Context, key, contentType string, data []byte) error {
	return m.Called(ctx, key, contentType, data).Error(0)
}

// ==========================
// Ref Tests
// ==========================

func TestRef_Name(t *testing.T) {
	tests := []struct {
		name string
		ref  Ref
		want string
	}{
		{name: "explicit filename", ref: Ref{ObjectKey: "cvs/a.pdf", Filename: "jane.pdf"}, want: "jane.pdf"},
		{name: "object key", ref: Ref{ObjectKey: "uploads/2026/john_doe.docx"}, want: "john_doe.docx"},
		{name: "url with query", ref: Ref{URL: "https://files.example.com/cv/ann.pdf?sig=abc"}, want: "ann.pdf"},
		{name: "inline", ref: Ref{ContentBase64: "aGk="}, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ref.Name())
		})
	}
}

// ==========================
// Fetch Tests
// ==========================

func TestSource_Fetch_ObjectKey(t *testing.T) {
	store := new(MockObjectStore)
	store.On("Download", mock.Anything, "cvs/jane.pdf", int64(1024)).Return([]byte("%PDF-1.4"), nil)

	src := NewSource(store, nil, 1024)
	data, err := src.Fetch(context.Background(), Ref{ObjectKey: "cvs/jane.pdf"})

	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), data)
	store.AssertExpectations(t)
}

func TestSource_Fetch_ObjectKeyError(t *testing.T) {
	store := new(MockObjectStore)
	store.On("Download", mock.Anything, "missing.pdf", int64(DefaultMaxBytes)).Return(nil, errors.New("NoSuchKey"))

	_, err := NewSource(store, nil, 0).Fetch(context.Background(), Ref{ObjectKey: "missing.pdf"})

	require.Error(t, err)
	assert.Equal(t, string(apperrors.ErrCodeDocumentFetchFailed), apperrors.Code(err))
	assert.Contains(t, apperrors.AsStandardError(err).Details, "s3:missing.pdf")
}

func TestSource_Fetch_URL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cv.txt" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte("John Doe\nExperience"))
	}))
	defer srv.Close()

	src := NewSource(nil, NewHTTPDownloader(commonhttp.NewClient(5*time.Second)), 0)

	data, err := src.Fetch(context.Background(), Ref{URL: srv.URL + "/cv.txt"})
	require.NoError(t, err)
	assert.Equal(t, "John Doe\nExperience", string(data))

	_, err = src.Fetch(context.Background(), Ref{URL: srv.URL + "/gone.txt"})
	require.Error(t, err)
	assert.Equal(t, string(apperrors.ErrCodeDocumentFetchFailed), apperrors.Code(err))
}

func TestSource_Fetch_Inline(t *testing.T) {
	src := NewSource(nil, nil, 8)

	data, err := src.Fetch(context.Background(), Ref{ContentBase64: base64.StdEncoding.EncodeToString([]byte("hello"))})
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	_, err = src.Fetch(context.Background(), Ref{ContentBase64: base64.StdEncoding.EncodeToString([]byte("far too long"))})
	require.Error(t, err)
	assert.Equal(t, string(apperrors.ErrCodeDocumentTooLarge), apperrors.Code(err))

	_, err = src.Fetch(context.Background(), Ref{ContentBase64: "!!not base64"})
	require.Error(t, err)
	assert.Equal(t, string(apperrors.ErrCodeDocumentFetchFailed), apperrors.Code(err))
}

func TestSource_Fetch_MissingBackendOrRef(t *testing.T) {
	src := NewSource(nil, nil, 0)

	_, err := src.Fetch(context.Background(), Ref{ObjectKey: "a.pdf"})
	assert.Equal(t, string(apperrors.ErrCodeDocumentFetchFailed), apperrors.Code(err))

	_, err = src.Fetch(context.Background(), Ref{URL: "https://example.com/a.pdf"})
	assert.Equal(t, string(apperrors.ErrCodeDocumentFetchFailed), apperrors.Code(err))

	_, err = src.Fetch(context.Background(), Ref{})
	assert.Equal(t, string(apperrors.ErrCodeValidationFailed), apperrors.Code(err))
}

func TestSource_Fetch_RejectsNonHTTPURL(t *testing.T) {
	src := NewSource(nil, nil, 0)

	for _, u := range []string{"ftp://files.example.com/cv.pdf", "file:///etc/passwd", "cv.pdf"} {
		_, err := src.Fetch(context.Background(), Ref{URL: u})
		assert.Equal(t, string(apperrors.ErrCodeValidationFailed), apperrors.Code(err), u)
	}
}
