// Package hclgraph loads a flowgraph.Graph from a directory of declarative
// HCL graph-definition files.
//
// Each file contributes zero or more node and edge blocks, plus optionally
// the graph's start and end node; a directory's files are merged into one
// graph. Concurrently parsing multiple files (via golang.org/x/sync/errgroup)
// is safe because each file produces an independent partial result that is
// only merged into shared state after every parse has succeeded.
package hclgraph
