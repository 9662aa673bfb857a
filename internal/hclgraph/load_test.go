package hclgraph

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/flowgraph"
	"github.com/vk/flowgraph/internal/registry"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadDirMergesFilesAndRuns(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "nodes.hcl", `
node "a" {
  func = "source"
}
node "b" {
  func = "double"
}
start = "a"
end   = "b"
`)
	writeFile(t, dir, "edges.hcl", `
edge {
  from = "a"
  to   = "b"
}
`)

	reg := registry.New()
	reg.Register("source", func(in any) (any, error) { return 21, nil })
	reg.Register("double", func(in any) (any, error) {
		m := in.(map[string]any)
		return m["a"].(int) * 2, nil
	})

	graph, err := LoadDir(context.Background(), reg, dir)
	require.NoError(t, err)

	result, err := flowgraph.RunSync(graph, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 42, result)
}

func TestLoadDirReportsUnresolvedFuncName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "nodes.hcl", `
node "a" {
  func = "does_not_exist"
}
start = "a"
end   = "a"
`)

	_, err := LoadDir(context.Background(), registry.New(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does_not_exist")
}

func TestLoadDirRequiresStartAndEnd(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "nodes.hcl", `
node "a" {
  func = "source"
}
`)

	reg := registry.New()
	reg.Register("source", func(in any) (any, error) { return in, nil })

	_, err := LoadDir(context.Background(), reg, dir)
	require.Error(t, err)
}

func TestLoadDirErrorsOnEmptyDir(t *testing.T) {
	_, err := LoadDir(context.Background(), registry.New(), t.TempDir())
	require.Error(t, err)
}

func TestLoadDirMergesWithStaticConfigUnderInboundEdges(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "nodes.hcl", `
node "a" {
  func = "source"
}
node "b" {
  func = "echo"
  with = {
    greeting = "hello"
    loud     = false
  }
}
start = "a"
end   = "b"
`)
	writeFile(t, dir, "edges.hcl", `
edge {
  from = "a"
  to   = "b"
  name = "loud"
}
`)

	reg := registry.New()
	reg.Register("source", func(in any) (any, error) { return true, nil })
	reg.Register("echo", func(in any) (any, error) { return in, nil })

	graph, err := LoadDir(context.Background(), reg, dir)
	require.NoError(t, err)

	result, err := flowgraph.RunSync(graph, nil, nil)
	require.NoError(t, err)
	m := result.(map[string]any)
	assert.Equal(t, "hello", m["greeting"])
	assert.Equal(t, true, m["loud"], "the inbound edge's value for a key must win over the \"with\" default")
}
