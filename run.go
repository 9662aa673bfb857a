package flowgraph

import (
	"github.com/vk/flowgraph/internal/flowdag"
)

// StructuralError reports a malformed graph detected before any node runs:
// a cycle, a start node with inbound edges, or an end node unreachable from
// the start node.
type StructuralError = flowdag.StructuralError

// RunContext is the metadata value threaded through every message of one
// run. All time fields are Unix milliseconds.
type RunContext = flowdag.RunContext

// Status classifies how a node's single execution attempt concluded.
type Status = flowdag.Status

const (
	StatusDone    = flowdag.StatusDone
	StatusFailed  = flowdag.StatusFailed
	StatusSkipped = flowdag.StatusSkipped
)

// ExecutionRecord is the per-node record an Observer receives.
type ExecutionRecord = flowdag.ExecutionRecord

// Observer receives one ExecutionRecord per node per run, on a detached
// goroutine. It must not rely on the run still being in progress by the
// time it is called, and any panic it raises is recovered and swallowed.
type Observer = flowdag.Observer

// Options configures one Run/RunSync call. The zero Options is valid and
// runs without an observer.
type Options struct {
	// Observer, if set, is notified of every node's ExecutionRecord.
	Observer Observer
}

// Handle is returned by Run; it yields exactly one (RunContext, result)
// pair once the graph's end node has emitted.
type Handle struct {
	done   chan struct{}
	ctx    RunContext
	result any
}

// Wait blocks until the run completes and returns its context and result.
// Calling Wait more than once returns the same values.
func (h *Handle) Wait() (RunContext, any) {
	<-h.done
	return h.ctx, h.result
}

// Run plans and executes graph asynchronously. Structural errors (a cycle,
// a start node with inbound edges, an unreachable end node) are detected
// before any node runs and returned directly; any other outcome, including
// a node failure, is reported through the returned Handle once it resolves
// (control=abort will be set on its RunContext; Run itself never returns
// an error for a node failure).
func Run(graph *Graph, opts *Options, payload any) (*Handle, error) {
	if err := graph.Validate(); err != nil {
		return nil, err
	}
	fg := graph.toFlowdag()
	if _, err := flowdag.Plan(fg); err != nil {
		return nil, err
	}

	var observer Observer
	if opts != nil {
		observer = opts.Observer
	}

	h := &Handle{done: make(chan struct{})}
	go func() {
		ctx, result, err := flowdag.Execute(fg, observer, payload)
		if err != nil {
			// Execute only returns an error for structural problems, which
			// the Plan call above has already ruled out; surface it as an
			// aborted run rather than losing it.
			ctx.Ex = err
			ctx.Control = flowdag.ControlAbort
		}
		h.ctx = ctx
		h.result = result
		close(h.done)
	}()
	return h, nil
}

// AbortError is raised by RunSync when a run aborts. Ex carries the
// original failure value that triggered the abort.
type AbortError struct {
	Ex any
}

func (e *AbortError) Error() string {
	return "Execution aborted due to exception"
}

// RunSync executes graph and blocks until it completes. It returns the bare
// result on success (dropping the run context), or an *AbortError wrapping
// the original failure if the run aborted.
func RunSync(graph *Graph, opts *Options, payload any) (any, error) {
	h, err := Run(graph, opts, payload)
	if err != nil {
		return nil, err
	}
	ctx, result := h.Wait()
	if ctx.Aborted() {
		return nil, &AbortError{Ex: ctx.Ex}
	}
	return result, nil
}
