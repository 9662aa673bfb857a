// Package flowgraph executes a caller-supplied directed acyclic graph of
// functions with maximum permitted parallelism, dependency-respecting data
// flow, per-edge input shaping, and failure-driven abortion of downstream
// work. Build a Graph, then call Run or RunSync with an initial payload.
//
// The interesting engine lives in internal/flowdag; this package is the thin
// wrapper the teacher's own design notes describe: graph authoring,
// configuration formats, and the synchronous/asynchronous calling
// conventions, nothing more.
package flowgraph
