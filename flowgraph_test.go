package flowgraph_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/flowgraph"
)

func identity(v any) (any, error) { return v, nil }

func buildDiamond() *flowgraph.Graph {
	g := flowgraph.NewGraph()
	g.AddNode("a", identity)
	g.AddNode("b", func(in any) (any, error) {
		m := in.(map[string]any)
		return m["a"].(int) + 1, nil
	})
	g.AddNode("c", func(in any) (any, error) {
		m := in.(map[string]any)
		return m["a"].(int) - 1, nil
	})
	g.AddNode("d", func(in any) (any, error) {
		m := in.(map[string]any)
		return m["b"].(int) * m["c"].(int), nil
	})
	g.AddEdge("a", "b", nil)
	g.AddEdge("a", "c", nil)
	g.AddEdge("b", "d", nil)
	g.AddEdge("c", "d", nil)
	g.SetStart("a")
	g.SetEnd("d")
	return g
}

func TestRunSyncHappyPath(t *testing.T) {
	result, err := flowgraph.RunSync(buildDiamond(), nil, 3)
	require.NoError(t, err)
	assert.Equal(t, 8, result)
}

func TestRunAsyncHandle(t *testing.T) {
	h, err := flowgraph.Run(buildDiamond(), nil, 4)
	require.NoError(t, err)
	ctx, result := h.Wait()
	assert.False(t, ctx.Aborted())
	assert.Equal(t, 15, result)
}

func TestRunSyncRaisesOnAbort(t *testing.T) {
	g := flowgraph.NewGraph()
	g.AddNode("a", func(any) (any, error) {
		return nil, &testError{"foobar"}
	})
	g.AddNode("b", identity)
	g.AddEdge("a", "b", nil)
	g.SetStart("a")
	g.SetEnd("b")

	_, err := flowgraph.RunSync(g, nil, 1)
	require.Error(t, err)
	assert.Equal(t, "Execution aborted due to exception", err.Error())

	var abortErr *flowgraph.AbortError
	require.ErrorAs(t, err, &abortErr)
	assert.Equal(t, "foobar", abortErr.Ex.(error).Error())
}

func TestRunRejectsMalformedGraphImmediately(t *testing.T) {
	g := flowgraph.NewGraph()
	g.AddNode("a", identity)
	// End node never registered.
	g.SetStart("a")
	g.SetEnd("missing")

	_, err := flowgraph.Run(g, nil, 1)
	require.Error(t, err)
}

func TestOptionsObserverIsNotified(t *testing.T) {
	var mu sync.Mutex
	var records []flowgraph.ExecutionRecord
	done := make(chan struct{})
	count := 0

	opts := &flowgraph.Options{
		Observer: func(rec flowgraph.ExecutionRecord) {
			mu.Lock()
			defer mu.Unlock()
			records = append(records, rec)
			count++
			if count == 4 {
				close(done)
			}
		},
	}

	result, err := flowgraph.RunSync(buildDiamond(), opts, 3)
	require.NoError(t, err)
	assert.Equal(t, 8, result)
	<-done
	assert.Len(t, records, 4)
}

type testError struct{ msg string }

func (e *testError) Error() string { return e.msg }
