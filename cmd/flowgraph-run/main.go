// Command flowgraph-run loads a graph from a directory of HCL graph
// definitions, executes it once against a JSON payload, and prints the
// result.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/vk/flowgraph"
	"github.com/vk/flowgraph/internal/ctxlog"
	"github.com/vk/flowgraph/internal/hclgraph"
	"github.com/vk/flowgraph/internal/registry"
	"github.com/vk/flowgraph/nodes/envvars"
	"github.com/vk/flowgraph/nodes/httpclient"
	"github.com/vk/flowgraph/nodes/printer"
	"github.com/vk/flowgraph/nodes/s3upload"
	"github.com/vk/flowgraph/nodes/socketio"
	observersocketio "github.com/vk/flowgraph/observer/socketio"
)

// ExitError carries the process exit code main should use, mirroring the
// teacher's cli.ExitError.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string { return e.Message }

// defaultHTTPClient backs the s3_upload node; it is separate from
// http_request's own pooled client since the two nodes have independent
// connection-reuse needs.
var defaultHTTPClient = http.Client{}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(outW io.Writer, args []string) error {
	fs := flag.NewFlagSet("flowgraph-run", flag.ContinueOnError)
	graphDir := fs.String("graph-dir", "", "directory of .hcl graph definition files")
	payloadJSON := fs.String("payload", "null", "JSON value passed to the graph's start node")
	observerURL := fs.String("observer-url", "", "socket.io URL to relay execution records to (optional)")
	observerNamespace := fs.String("observer-namespace", "/", "socket.io namespace for -observer-url")
	httpTimeout := fs.Duration("http-timeout", 0, "timeout for the http_request node's client")
	fs.SetOutput(outW)
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return &ExitError{Code: 2, Message: err.Error()}
	}
	if *graphDir == "" {
		return &ExitError{Code: 2, Message: "flowgraph-run: -graph-dir is required"}
	}

	var payload any
	if err := json.Unmarshal([]byte(*payloadJSON), &payload); err != nil {
		return &ExitError{Code: 2, Message: fmt.Sprintf("flowgraph-run: decoding -payload: %v", err)}
	}

	ctx := ctxlog.WithLogger(context.Background(), slog.Default())

	reg := registry.New()
	reg.RegisterModule(printer.Module)
	reg.RegisterModule(envvars.Module)
	reg.RegisterModule(httpclient.NewModule(*httpTimeout))
	reg.RegisterModule(s3upload.NewModule(ctx, &defaultHTTPClient))
	reg.RegisterModule(socketio.NewModule(ctx))

	graph, err := hclgraph.LoadDir(ctx, reg, *graphDir)
	if err != nil {
		return &ExitError{Code: 1, Message: fmt.Sprintf("flowgraph-run: %v", err)}
	}

	opts := &flowgraph.Options{}
	if *observerURL != "" {
		relay, err := observersocketio.Connect(ctx, *observerURL, *observerNamespace)
		if err != nil {
			return &ExitError{Code: 1, Message: fmt.Sprintf("flowgraph-run: connecting observer: %v", err)}
		}
		opts.Observer = relay.Observer
	}

	result, err := flowgraph.RunSync(graph, opts, payload)
	if err != nil {
		return &ExitError{Code: 1, Message: fmt.Sprintf("flowgraph-run: %v", err)}
	}

	encoded, err := json.Marshal(result)
	if err != nil {
		return &ExitError{Code: 1, Message: fmt.Sprintf("flowgraph-run: encoding result: %v", err)}
	}
	fmt.Fprintln(outW, string(encoded))
	return nil
}
