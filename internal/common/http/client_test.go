package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Download(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/cv.txt":
			w.Write([]byte("Jane Smith"))
		case "/big.txt":
			w.Write([]byte(strings.Repeat("x", 64)))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(5 * time.Second)

	data, err := c.Download(context.Background(), srv.URL+"/cv.txt", 1024)
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", string(data))

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{"not found", "/missing.txt", "unexpected status 404"},
		{"over limit", "/big.txt", "body exceeds 32 bytes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Download(context.Background(), srv.URL+tt.path, 32)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestClient_Download_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	_, err := NewClient(20*time.Millisecond).Download(context.Background(), srv.URL, 1024)
	assert.Error(t, err)
}
