package hclgraph

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"golang.org/x/sync/errgroup"

	"github.com/vk/flowgraph"
	"github.com/vk/flowgraph/internal/ctxlog"
	"github.com/vk/flowgraph/internal/fsutil"
	"github.com/vk/flowgraph/internal/registry"
)

func parseFile(path string) (*fileSchema, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("hclgraph: parsing %s: %w", path, diags)
	}

	var schema fileSchema
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &schema); diags.HasErrors() {
		return nil, fmt.Errorf("hclgraph: decoding %s: %w", path, diags)
	}
	return &schema, nil
}

// LoadDir parses every ".hcl" file under dir concurrently, merges their node
// and edge declarations, resolves each node's func name against reg, and
// returns the assembled, as-yet-unvalidated *flowgraph.Graph.
//
// A func name with no matching registry entry is reported as one combined
// error naming every unresolved name, before Graph.Validate ever runs -
// the registry check is a structural error in the same sense cycles and
// unreachable end nodes are (see internal/registry.Registry.Validate).
func LoadDir(ctx context.Context, reg *registry.Registry, dir string) (*flowgraph.Graph, error) {
	logger := ctxlog.FromContext(ctx)

	paths, err := fsutil.FindFilesByExtension(dir, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("hclgraph: walking %s: %w", dir, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("hclgraph: no .hcl files found under %s", dir)
	}
	logger.Debug("hclgraph: loading graph definition files", "count", len(paths))

	schemas := make([]*fileSchema, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			schema, err := parseFile(path)
			if err != nil {
				return err
			}
			schemas[i] = schema
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	graph := flowgraph.NewGraph()
	funcNames := make([]string, 0)
	var start, end string

	for _, schema := range schemas {
		for _, n := range schema.Nodes {
			fn, ok := reg.Lookup(n.Func)
			funcNames = append(funcNames, n.Func)
			if !ok {
				// Skip adding this node; reg.Validate below still collects
				// every unresolved name across the whole directory into one
				// combined error, instead of failing on the first miss.
				continue
			}
			if n.With != nil {
				wrapped, err := withStaticConfig(fn, n.With)
				if err != nil {
					return nil, fmt.Errorf("hclgraph: node %q: %w", n.Name, err)
				}
				fn = wrapped
			}
			graph.AddNode(flowgraph.NodeID(n.Name), fn)
		}
		for _, e := range schema.Edges {
			opts := &flowgraph.EdgeOptions{Name: e.Name}
			if e.FilterIfNil {
				opts.Filter = func(v any) bool { return v != nil }
			}
			graph.AddEdge(flowgraph.NodeID(e.From), flowgraph.NodeID(e.To), opts)
		}
		if schema.Start != nil {
			start = *schema.Start
		}
		if schema.End != nil {
			end = *schema.End
		}
	}

	if err := reg.Validate(funcNames); err != nil {
		return nil, fmt.Errorf("hclgraph: %w", err)
	}
	if start == "" || end == "" {
		return nil, fmt.Errorf("hclgraph: graph definition under %s never declares both start and end", dir)
	}
	graph.SetStart(flowgraph.NodeID(start))
	graph.SetEnd(flowgraph.NodeID(end))

	return graph, nil
}
