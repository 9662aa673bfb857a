package flowdag

import (
	"fmt"
	"sort"
)

// plannedNode pairs a node with the (deduplicated) edges that feed it.
type plannedNode struct {
	ID      NodeID
	Inbound []Edge
}

// PlannedNode is plannedNode, exported for diagnostic callers (such as a
// dot/graphviz export) that want the planner's topological order without
// running the graph.
type PlannedNode = plannedNode

// Plan exposes plan to callers outside this package.
func Plan(g *Graph) ([]PlannedNode, error) {
	return plan(g)
}

// plan converts a graph into a topologically ordered sequence of
// (node, inbound-edges) pairs. Ties are broken by sorting the ready set on
// NodeID, so the order is deterministic within one call given the same
// graph. Duplicate edges between the same ordered pair collapse to the
// first occurrence in g.Edges; later ones are dropped (see DESIGN.md for
// why "first wins" was chosen over alternatives).
//
// plan returns a *StructuralError if the graph contains a cycle, if
// StartNode has inbound edges, or if EndNode is unreachable from
// StartNode.
func plan(g *Graph) ([]plannedNode, error) {
	dedup := make([]Edge, 0, len(g.Edges))
	seenPair := make(map[[2]NodeID]bool, len(g.Edges))
	for _, e := range g.Edges {
		pair := [2]NodeID{e.From, e.To}
		if seenPair[pair] {
			continue
		}
		seenPair[pair] = true
		dedup = append(dedup, e)
	}

	inbound := make(map[NodeID][]Edge, len(g.Nodes))
	outDegree := make(map[NodeID]int, len(g.Nodes))
	for id := range g.Nodes {
		inbound[id] = nil
	}
	for _, e := range dedup {
		inbound[e.To] = append(inbound[e.To], e)
		outDegree[e.From]++
	}

	if len(inbound[g.StartNode]) > 0 {
		return nil, &StructuralError{Reason: fmt.Sprintf("start node %q has inbound edges", g.StartNode)}
	}

	inDegree := make(map[NodeID]int, len(g.Nodes))
	for id, edges := range inbound {
		inDegree[id] = len(edges)
	}

	var ready []NodeID
	for id, d := range inDegree {
		if d == 0 {
			ready = append(ready, id)
		}
	}

	adj := make(map[NodeID][]NodeID, len(g.Nodes))
	for _, e := range dedup {
		adj[e.From] = append(adj[e.From], e.To)
	}

	ordered := make([]plannedNode, 0, len(g.Nodes))
	for len(ready) > 0 {
		sort.Slice(ready, func(i, j int) bool { return ready[i] < ready[j] })
		id := ready[0]
		ready = ready[1:]

		ordered = append(ordered, plannedNode{ID: id, Inbound: inbound[id]})

		for _, to := range adj[id] {
			inDegree[to]--
			if inDegree[to] == 0 {
				ready = append(ready, to)
			}
		}
	}

	if len(ordered) != len(g.Nodes) {
		return nil, &StructuralError{Reason: "cycle detected"}
	}

	reachable := map[NodeID]bool{g.StartNode: true}
	queue := []NodeID{g.StartNode}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, to := range adj[id] {
			if !reachable[to] {
				reachable[to] = true
				queue = append(queue, to)
			}
		}
	}
	if !reachable[g.EndNode] {
		return nil, &StructuralError{Reason: fmt.Sprintf("end node %q is unreachable from start node %q", g.EndNode, g.StartNode)}
	}

	return ordered, nil
}
