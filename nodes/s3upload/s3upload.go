// Package s3upload adapts the teacher's s3 module into a flowgraph node
// function uploading a local file to a pre-signed URL over a shared
// *http.Client.
package s3upload

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/vk/flowgraph/internal/ctxlog"
	"github.com/vk/flowgraph/internal/registry"
)

// New returns a node function that reads "source_path" and "upload_url" from
// its input map and PUTs the file at source_path to upload_url.
func New(ctx context.Context, client *http.Client) registry.Func {
	logger := ctxlog.FromContext(ctx)

	return func(in any) (any, error) {
		m, _ := in.(map[string]any)

		sourcePath, _ := m["source_path"].(string)
		uploadURL, _ := m["upload_url"].(string)
		if sourcePath == "" || uploadURL == "" {
			return nil, fmt.Errorf("s3upload: input requires non-empty \"source_path\" and \"upload_url\"")
		}

		file, err := os.Open(sourcePath)
		if err != nil {
			return nil, fmt.Errorf("s3upload: opening %q: %w", sourcePath, err)
		}
		defer file.Close()

		stat, err := file.Stat()
		if err != nil {
			return nil, fmt.Errorf("s3upload: stat %q: %w", sourcePath, err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, file)
		if err != nil {
			return nil, fmt.Errorf("s3upload: building request: %w", err)
		}

		contentType := mime.TypeByExtension(filepath.Ext(sourcePath))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		req.Header.Set("Content-Type", contentType)
		req.ContentLength = stat.Size()

		logger.Info("uploading file", "source", sourcePath, "size", stat.Size(), "content_type", contentType)

		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("s3upload: executing request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("s3upload: upload failed with status %s", resp.Status)
		}

		return map[string]any{"success": true, "status": resp.Status}, nil
	}
}

type module struct {
	ctx    context.Context
	client *http.Client
}

// NewModule returns a registry.Module registering this package's node
// function under the name "s3_upload".
func NewModule(ctx context.Context, client *http.Client) registry.Module {
	return module{ctx: ctx, client: client}
}

func (m module) Register(r *registry.Registry) {
	r.Register("s3_upload", New(m.ctx, m.client))
}
