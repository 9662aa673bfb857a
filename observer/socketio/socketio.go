// Package socketio implements a flowgraph.Observer that relays every
// per-node ExecutionRecord to a socket.io dashboard as a JSON event, reusing
// the teacher's socket.io client plumbing (github.com/zishang520/socket.io-client-go)
// server-side-conceptually: this package is the thing emitting, a dashboard
// elsewhere is the thing listening.
package socketio

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"golang.org/x/sync/errgroup"

	"github.com/vk/flowgraph"
	"github.com/vk/flowgraph/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// queueDepth bounds how many ExecutionRecords Relay buffers before it starts
// dropping newly observed ones; a dashboard that can't keep up must never slow
// down the run emitting records to it.
const queueDepth = 256

// Relay connects once to a socket.io endpoint and relays ExecutionRecords to
// it as "execution_record" events on a detached goroutine. Its Observer
// method never blocks: a full queue drops the new record and logs a Warn.
type Relay struct {
	io     *socket.Socket
	queue  chan flowgraph.ExecutionRecord
	logger interface {
		Warn(msg string, args ...any)
	}
}

// Connect dials rawURL/namespace and returns a ready Relay. The background
// relay goroutine is supervised by an errgroup tied to ctx: cancelling ctx
// stops the relay and disconnects the client.
func Connect(ctx context.Context, rawURL, namespace string) (*Relay, error) {
	logger := ctxlog.FromContext(ctx)

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("observer/socketio: parsing url: %w", err)
	}

	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	opts.SetTransports(types.NewSet(transports.WebSocket))

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(namespace, opts)
	io.Connect()

	r := &Relay{
		io:     io,
		queue:  make(chan flowgraph.ExecutionRecord, queueDepth),
		logger: logger,
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		r.run(egCtx)
		return nil
	})

	return r, nil
}

func (r *Relay) run(ctx context.Context) {
	defer r.io.Disconnect()
	for {
		select {
		case <-ctx.Done():
			return
		case rec := <-r.queue:
			payload, err := json.Marshal(rec)
			if err != nil {
				r.logger.Warn("observer/socketio: marshaling execution record", "error", err)
				continue
			}
			r.io.Emit("execution_record", payload)
		}
	}
}

// Observer satisfies flowgraph.Observer. It never blocks: when the internal
// queue is full, the record is dropped and a Warn is logged rather than
// stalling the run that produced it.
func (r *Relay) Observer(rec flowgraph.ExecutionRecord) {
	select {
	case r.queue <- rec:
	default:
		r.logger.Warn("observer/socketio: queue full, dropping execution record", "node", rec.Node, "run_id", rec.RunID)
	}
}
