// Package httpclient adapts the teacher's http_client and http_request
// modules into a flowgraph node function performing one HTTP request per
// invocation over a shared, pooled *http.Client.
package httpclient

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vk/flowgraph/internal/registry"
)

// NewClient builds the pooled *http.Client the teacher's CreateHttpClient
// asset handler produced, now owned directly by the node function closure
// instead of the (removed) asset lifecycle.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// New returns a node function that reads "url" and "method" (default "GET")
// from its input map, performs the request over client, and returns a
// map[string]any with "status_code" and "body".
func New(client *http.Client) registry.Func {
	return func(in any) (any, error) {
		m, _ := in.(map[string]any)

		url, _ := m["url"].(string)
		if url == "" {
			return nil, fmt.Errorf("httpclient: input map has no non-empty \"url\" key")
		}
		method, _ := m["method"].(string)
		if method == "" {
			method = http.MethodGet
		}

		req, err := http.NewRequest(method, url, nil)
		if err != nil {
			return nil, fmt.Errorf("httpclient: building request: %w", err)
		}

		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("httpclient: executing request: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("httpclient: reading response body: %w", err)
		}

		return map[string]any{
			"status_code": resp.StatusCode,
			"body":        string(body),
		}, nil
	}
}

type module struct{ client *http.Client }

// NewModule returns a registry.Module registering this package's node
// function under the name "http_request", sharing one pooled client.
func NewModule(timeout time.Duration) registry.Module {
	return module{client: NewClient(timeout)}
}

func (m module) Register(r *registry.Registry) {
	r.Register("http_request", New(m.client))
}
