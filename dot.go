package flowgraph

import (
	"fmt"
	"strings"

	"github.com/vk/flowgraph/internal/flowdag"
)

// ExportDOT renders graph's planned topology as Graphviz DOT source, for
// debugging and documentation; it is not part of the core's execution path
// and never runs a node. It returns a *StructuralError under the same
// conditions Run and RunSync would (a cycle, a start node with inbound
// edges, an unreachable end node).
func ExportDOT(graph *Graph) (string, error) {
	fg := graph.toFlowdag()
	planned, err := flowdag.Plan(fg)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("digraph flowgraph {\n")
	for _, n := range planned {
		shape := "box"
		if n.ID == graph.startNode {
			shape = "doublecircle"
		} else if n.ID == graph.endNode {
			shape = "doubleoctagon"
		}
		fmt.Fprintf(&b, "  %q [shape=%s];\n", n.ID, shape)
		for _, e := range n.Inbound {
			label := string(e.From)
			if e.Options != nil && e.Options.Name != "" {
				label = e.Options.Name
			}
			fmt.Fprintf(&b, "  %q -> %q [label=%q];\n", e.From, e.To, label)
		}
	}
	b.WriteString("}\n")
	return b.String(), nil
}
