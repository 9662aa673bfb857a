package flowgraph

import (
	"fmt"

	"github.com/vk/flowgraph/internal/flowdag"
)

// NodeID identifies a vertex in a Graph. It is an opaque, comparable token.
type NodeID = flowdag.NodeID

// Func is the shape every node function takes. A source node (the graph's
// StartNode) is called with the run's initial payload; any other node is
// called with the map[string]any assembled from its inbound edges.
type Func = flowdag.Func

// EdgeOptions shapes one edge's contribution to its consumer's input. All
// fields are optional; the zero value passes the upstream value through
// unchanged, keyed by the producer's NodeID.
type EdgeOptions = flowdag.EdgeOptions

// Graph is a caller-built DAG of nodes and edges, plus the two node
// identifiers that bound one run. Build one with NewGraph, then AddNode and
// AddEdge; a Graph is read-only once passed to Run or RunSync.
type Graph struct {
	nodes     map[NodeID]Func
	edges     []flowdag.Edge
	startNode NodeID
	endNode   NodeID
}

// NewGraph returns an empty Graph.
func NewGraph() *Graph {
	return &Graph{nodes: make(map[NodeID]Func)}
}

// AddNode registers fn under id. If id is already registered, AddNode
// overwrites the previous function (mirroring the teacher's AddNode
// idempotency for re-declared node IDs, generalized from "no-op" to
// "last write wins" since a node's function, unlike a bare graph vertex,
// carries caller-meaningful identity).
func (g *Graph) AddNode(id NodeID, fn Func) {
	g.nodes[id] = fn
}

// AddEdge appends a directed edge from "from" to "to", optionally shaped by
// opts. Multiple edges between the same ordered pair are permitted; only the
// first one's options are honored when the graph is run (see DESIGN.md).
func (g *Graph) AddEdge(from, to NodeID, opts *EdgeOptions) {
	g.edges = append(g.edges, flowdag.Edge{From: from, To: to, Options: opts})
}

// SetStart designates id as the graph's start node. id need not already be
// registered via AddNode.
func (g *Graph) SetStart(id NodeID) { g.startNode = id }

// SetEnd designates id as the graph's end node.
func (g *Graph) SetEnd(id NodeID) { g.endNode = id }

// Validate reports an error if start/end are unset or reference
// unregistered nodes, or if an edge references an unregistered node; these
// are plain errors, not *StructuralError. Run and RunSync call this implicitly; it is
// exported so HCL-loaded graphs can be checked before any node runs.
func (g *Graph) Validate() error {
	if g.startNode == "" {
		return fmt.Errorf("flowgraph: start node not set")
	}
	if g.endNode == "" {
		return fmt.Errorf("flowgraph: end node not set")
	}
	if _, ok := g.nodes[g.startNode]; !ok {
		return fmt.Errorf("flowgraph: start node %q has no registered function", g.startNode)
	}
	if _, ok := g.nodes[g.endNode]; !ok {
		return fmt.Errorf("flowgraph: end node %q has no registered function", g.endNode)
	}
	for _, e := range g.edges {
		if _, ok := g.nodes[e.From]; !ok {
			return fmt.Errorf("flowgraph: edge references unregistered node %q", e.From)
		}
		if _, ok := g.nodes[e.To]; !ok {
			return fmt.Errorf("flowgraph: edge references unregistered node %q", e.To)
		}
	}
	return nil
}

func (g *Graph) toFlowdag() *flowdag.Graph {
	return &flowdag.Graph{
		Nodes:     g.nodes,
		Edges:     g.edges,
		StartNode: g.startNode,
		EndNode:   g.endNode,
	}
}
