package s3upload

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUploadsFile(t *testing.T) {
	var receivedBody []byte
	var receivedContentType string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		receivedContentType = r.Header.Get("Content-Type")
		receivedBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "payload.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"ok":true}`), 0o644))

	fn := New(context.Background(), srv.Client())
	result, err := fn(map[string]any{"source_path": path, "upload_url": srv.URL})
	require.NoError(t, err)

	m := result.(map[string]any)
	assert.Equal(t, true, m["success"])
	assert.Equal(t, `{"ok":true}`, string(receivedBody))
	assert.Equal(t, "application/json", receivedContentType)
}

func TestNewRejectsMissingInput(t *testing.T) {
	fn := New(context.Background(), http.DefaultClient)
	_, err := fn(map[string]any{"source_path": "/does/not/matter"})
	require.Error(t, err)
}

func TestNewReportsNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "payload.bin")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	fn := New(context.Background(), srv.Client())
	_, err := fn(map[string]any{"source_path": path, "upload_url": srv.URL})
	require.Error(t, err)
}
