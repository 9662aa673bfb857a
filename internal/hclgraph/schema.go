package hclgraph

import "github.com/hashicorp/hcl/v2"

// nodeBlock declares one graph vertex: `node "a" { func = "env_vars" }`.
// Name is the label of the block, func is the name looked up in a
// registry.Registry. With, if present, is a static HCL object literal
// (evaluated with no variables) whose entries are merged into every input
// map the node function is called with, under the same keys an inbound edge
// would use - letting a declarative graph pin static configuration (a URL,
// a timeout) without wiring a dedicated upstream node for it.
type nodeBlock struct {
	Name string         `hcl:"name,label"`
	Func string         `hcl:"func"`
	With hcl.Expression `hcl:"with,optional"`
}

// edgeBlock declares one directed edge. Name renames the producer's value in
// the consumer's input map (defaulting to the producer's node name, as
// flowdag does); FilterIfNil, when true, omits the contribution entirely
// when the producer's value is nil.
//
// Arbitrary Transform/Filter closures (flowgraph.EdgeOptions' full
// expressiveness) are a programmatic-graph-only feature: HCL can declare
// data, not Go closures, so a declarative file only gets the two shapes
// above. See DESIGN.md.
type edgeBlock struct {
	From        string `hcl:"from"`
	To          string `hcl:"to"`
	Name        string `hcl:"name,optional"`
	FilterIfNil bool   `hcl:"filter_if_nil,optional"`
}

// fileSchema is the root of one .hcl graph-definition file. Start and End are
// pointers so a file that contributes only nodes/edges (no boundary) can be
// merged with the file that declares them.
type fileSchema struct {
	Nodes []nodeBlock `hcl:"node,block"`
	Edges []edgeBlock `hcl:"edge,block"`
	Start *string     `hcl:"start,optional"`
	End   *string     `hcl:"end,optional"`
}
