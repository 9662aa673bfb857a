package flowdag

import (
	"fmt"
	"time"
)

func nowMs() int64 {
	return time.Now().UnixMilli()
}

// safeCall invokes fn, converting any panic into the same (nil, error)
// shape a thrown failure would take. Node functions are external black
// boxes; flowdag never lets one of them take down a run's other goroutines.
func safeCall(fn Func, payload any) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("flowdag: node function panicked: %v", r)
		}
	}()
	return fn(payload)
}

// runSource executes the start node: it receives exactly one message on in,
// invokes fn once, and emits exactly one message on out.
func runSource(id NodeID, fn Func, in <-chan message, out chan<- message, emit func(ExecutionRecord)) {
	defer close(out)

	m := <-in
	startRequest := nowMs()
	startExecution := startRequest

	rc := m.Ctx
	value, callErr := safeCall(fn, m.Value)

	var status Status
	var ret any
	if callErr != nil {
		status = StatusFailed
		ret = callErr
		rc = rc.withAbort(callErr)
	} else {
		status = StatusDone
		ret = value
	}
	endExecution := nowMs()

	out <- message{From: id, Ctx: rc, Value: ret}

	emitRecord(emit, rc.RunID, id, startRequest, startExecution, endExecution, m.Value, status, ret)
}

// runDependent executes a node with one or more inbound edges. It collects
// exactly one message per inbound edge from merged before deciding whether
// to invoke fn or skip.
func runDependent(id NodeID, fn Func, inbound []Edge, merged <-chan message, out chan<- message, emit func(ExecutionRecord)) {
	defer close(out)

	startRequest := nowMs()

	edgeByFrom := make(map[NodeID]Edge, len(inbound))
	for _, e := range inbound {
		edgeByFrom[e.From] = e
	}

	input := make(map[string]any, len(inbound))
	var rc RunContext
	aborted := false
	var abortEx any

	for i := 0; i < len(inbound); i++ {
		m := <-merged
		rc = m.Ctx
		if m.Ctx.Aborted() && !aborted {
			aborted = true
			abortEx = m.Ctx.Ex
		}
		e := edgeByFrom[m.From]
		key, value, omit := applyEdge(e.Options, m.From, m.Value)
		if !omit {
			input[key] = value
		}
	}

	if aborted {
		rc.Control = ControlAbort
		rc.Ex = abortEx
	}

	startExecution := nowMs()

	var status Status
	var ret any
	if aborted {
		status = StatusSkipped
	} else {
		value, callErr := safeCall(fn, input)
		if callErr != nil {
			status = StatusFailed
			ret = callErr
			rc = rc.withAbort(callErr)
		} else {
			status = StatusDone
			ret = value
		}
	}
	endExecution := nowMs()

	out <- message{From: id, Ctx: rc, Value: ret}

	emitRecord(emit, rc.RunID, id, startRequest, startExecution, endExecution, input, status, ret)
}

func emitRecord(emit func(ExecutionRecord), runID string, id NodeID, startRequest, startExecution, endExecution int64, input any, status Status, ret any) {
	if emit == nil {
		return
	}
	emit(ExecutionRecord{
		RunID:              runID,
		Node:               id,
		StartRequest:       startRequest,
		WaitingMs:          startExecution - startRequest,
		StartExecution:     startExecution,
		EndExecution:       endExecution,
		ElapsedExecutionMs: endExecution - startExecution,
		ElapsedTotalMs:     endExecution - startRequest,
		Input:              input,
		Status:             status,
		Return:             ret,
	})
}
