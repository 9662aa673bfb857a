// Package registry provides the central lookup used to build a Graph from a
// declarative (HCL) description: a mapping from the string names used in a
// graph definition to the compiled Go flowgraph.Func values that implement
// them.
//
// A Registry is populated at program startup by each node package's Register
// function, then handed to internal/hclgraph to resolve node names into
// callable functions. Keeping resolution name-based (rather than reflecting
// over struct tags) lets graph definitions move between programmatic and
// declarative construction without the handler code caring which one built
// the graph.
package registry
