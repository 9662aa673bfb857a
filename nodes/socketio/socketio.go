// Package socketio adapts the teacher's socketio, socketio_client, and
// socketio_request modules into a single flowgraph node function: connect to
// a socket.io server, optionally emit one event, and await exactly one
// reply event.
package socketio

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/vk/flowgraph/internal/ctxlog"
	"github.com/vk/flowgraph/internal/registry"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

type opResult struct {
	value any
	err   error
}

// New returns a node function reading "url", "namespace", "on_event",
// "emit_event", "emit_data", "timeout", and "insecure_skip_verify" from its
// input map. It connects, optionally emits, and returns a
// map[string]any{"response_data": ...} once on_event fires; a timeout or a
// connect_error is returned as an error instead.
func New(ctx context.Context) registry.Func {
	logger := ctxlog.FromContext(ctx)

	return func(in any) (any, error) {
		m, _ := in.(map[string]any)

		rawURL, _ := m["url"].(string)
		namespace, _ := m["namespace"].(string)
		onEvent, _ := m["on_event"].(string)
		emitEvent, _ := m["emit_event"].(string)
		emitData := m["emit_data"]
		insecure, _ := m["insecure_skip_verify"].(bool)

		timeout := 10 * time.Second
		if s, ok := m["timeout"].(string); ok && s != "" {
			d, err := time.ParseDuration(s)
			if err != nil {
				return nil, fmt.Errorf("socketio: parsing timeout %q: %w", s, err)
			}
			timeout = d
		}

		parsedURL, err := url.Parse(rawURL)
		if err != nil {
			return nil, fmt.Errorf("socketio: parsing url: %w", err)
		}

		opts := socket.DefaultOptions()
		opts.SetPath(parsedURL.Path)
		if insecure {
			logger.Warn("socketio: skipping TLS certificate verification")
			opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
		}
		opts.SetTransports(types.NewSet(transports.WebSocket))

		baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
		manager := socket.NewManager(baseURL, opts)
		io := manager.Socket(namespace, opts)
		defer io.Disconnect()

		var connected atomic.Bool
		done := make(chan opResult, 1)
		opCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		io.On(types.EventName("connect"), func(...any) {
			connected.Store(true)
			logger.Info("socketio: connected", "namespace", namespace, "sid", io.Id())
			if emitEvent != "" {
				io.Emit(emitEvent, emitData)
			}
		})
		io.On(types.EventName("connect_error"), func(errs ...any) {
			if len(errs) > 0 {
				if err, ok := errs[0].(error); ok {
					done <- opResult{err: err}
					return
				}
			}
			done <- opResult{err: fmt.Errorf("socketio: connect_error")}
		})
		io.On(types.EventName(onEvent), func(data ...any) {
			var responseData any
			if len(data) > 0 {
				responseData = data[0]
			}
			done <- opResult{value: responseData}
		})

		io.Connect()

		select {
		case <-opCtx.Done():
			if connected.Load() {
				return nil, fmt.Errorf("socketio: timed out waiting for event %q", onEvent)
			}
			return nil, fmt.Errorf("socketio: timed out waiting for initial connection")
		case res := <-done:
			if res.err != nil {
				return nil, res.err
			}
			return map[string]any{"response_data": res.value}, nil
		}
	}
}

type module struct{ ctx context.Context }

// NewModule returns a registry.Module registering this package's node
// function under the name "socketio".
func NewModule(ctx context.Context) registry.Module {
	return module{ctx: ctx}
}

func (m module) Register(r *registry.Registry) {
	r.Register("socketio", New(m.ctx))
}
