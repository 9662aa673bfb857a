package flowgraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/flowgraph"
)

func TestExportDOT(t *testing.T) {
	dot, err := flowgraph.ExportDOT(buildDiamond())
	require.NoError(t, err)
	assert.Contains(t, dot, "digraph flowgraph {")
	assert.Contains(t, dot, `"a" -> "b"`)
	assert.Contains(t, dot, `"a" -> "c"`)
	assert.Contains(t, dot, `"b" -> "d"`)
}

func TestExportDOTRejectsCycle(t *testing.T) {
	g := flowgraph.NewGraph()
	g.AddNode("a", identity)
	g.AddNode("b", identity)
	g.AddEdge("a", "b", nil)
	g.AddEdge("b", "a", nil)
	g.SetStart("a")
	g.SetEnd("b")

	_, err := flowgraph.ExportDOT(g)
	require.Error(t, err)
}
