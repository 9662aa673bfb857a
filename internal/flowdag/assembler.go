package flowdag

// edgeKey identifies one deduplicated edge for tap-channel lookup.
type edgeKey struct {
	From, To NodeID
}

// Execute plans g, wires a channel topology across all of its nodes, runs
// every node concurrently, feeds payload to the start node, and returns once
// the end node has emitted. Dangling nodes (reachable from the start node
// but not ancestors of the end node) may still be running when Execute
// returns; Execute never waits on them.
//
// observer, if non-nil, is called once per node with that node's
// ExecutionRecord, on a detached goroutine that cannot block or delay the
// run and whose panics are recovered and swallowed.
func Execute(g *Graph, observer Observer, payload any) (RunContext, any, error) {
	requestTime := nowMs()

	nodes, err := plan(g)
	if err != nil {
		return RunContext{}, nil, err
	}

	runID := newRunID()

	// successors[id] is the set of deduplicated edges whose From is id,
	// ordered by each consumer's position in the plan.
	successors := make(map[NodeID][]Edge, len(g.Nodes))
	for _, pn := range nodes {
		for _, e := range pn.Inbound {
			successors[e.From] = append(successors[e.From], e)
		}
	}

	out := make(map[NodeID]chan message, len(nodes))
	for _, pn := range nodes {
		out[pn.ID] = make(chan message, 1)
	}

	taps := make(map[edgeKey]chan message, len(g.Edges))
	merged := make(map[NodeID]chan message, len(nodes))
	for _, pn := range nodes {
		if len(pn.Inbound) == 0 {
			continue
		}
		merged[pn.ID] = make(chan message, len(pn.Inbound))
		for _, e := range pn.Inbound {
			taps[edgeKey{e.From, e.To}] = make(chan message, 1)
		}
	}

	startIn := make(chan message, 1)

	resultTap := make(chan message, 1)

	var emit func(ExecutionRecord)
	if observer != nil {
		emit = func(rec ExecutionRecord) {
			go dispatchObserver(observer, rec)
		}
	}

	// Broadcast every node's single outbound message to each of its
	// successor taps (and, for the end node, to resultTap as well). All
	// taps and resultTap are allocated above, before any goroutine starts,
	// so a fast producer can never race a not-yet-created tap.
	for _, pn := range nodes {
		producerOut := out[pn.ID]
		var producerTaps []chan message
		for _, e := range successors[pn.ID] {
			producerTaps = append(producerTaps, taps[edgeKey{e.From, e.To}])
		}
		if pn.ID == g.EndNode {
			producerTaps = append(producerTaps, resultTap)
		}
		go broadcast(producerOut, producerTaps)
	}

	// Fan each inbound edge's tap into its consumer's merged channel.
	for _, pn := range nodes {
		for _, e := range pn.Inbound {
			go forward(taps[edgeKey{e.From, e.To}], merged[pn.ID])
		}
	}

	// Launch every node's runtime.
	for _, pn := range nodes {
		fn := g.Nodes[pn.ID]
		if len(pn.Inbound) == 0 {
			go runSource(pn.ID, fn, startIn, out[pn.ID], emit)
		} else {
			go runDependent(pn.ID, fn, pn.Inbound, merged[pn.ID], out[pn.ID], emit)
		}
	}

	startExecution := nowMs()
	rootCtx := RunContext{
		RunID:          runID,
		StartRequest:   requestTime,
		StartExecution: startExecution,
	}
	startIn <- message{Ctx: rootCtx, Value: payload}

	result := <-resultTap
	endExecution := nowMs()

	finalCtx := result.Ctx
	finalCtx.RunID = runID
	finalCtx.StartRequest = requestTime
	finalCtx.StartExecution = startExecution
	finalCtx.EndExecution = endExecution
	finalCtx.GraphOverheadMs = startExecution - requestTime
	finalCtx.ElapsedExecutionMs = endExecution - startExecution
	finalCtx.ElapsedTotalMs = endExecution - requestTime

	return finalCtx, result.Value, nil
}

// broadcast delivers the single message out produces (if any) to every tap,
// then closes each tap. If out is closed without a message (should not
// happen in normal operation but is handled defensively), every tap is
// simply closed with nothing sent.
func broadcast(out <-chan message, taps []chan message) {
	m, ok := <-out
	for _, t := range taps {
		if ok {
			t <- m
		}
		close(t)
	}
}

// forward relays the single message a tap carries into a consumer's merged
// inbound channel.
func forward(tap <-chan message, merged chan<- message) {
	if m, ok := <-tap; ok {
		merged <- m
	}
}

// dispatchObserver invokes observer with rec, recovering and swallowing any
// panic so a misbehaving sink can never perturb a run.
func dispatchObserver(observer Observer, rec ExecutionRecord) {
	defer func() {
		_ = recover()
	}()
	observer(rec)
}
