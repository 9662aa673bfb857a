// Package flowdag is the execution core of flowgraph. It is responsible for
// topologically ordering a caller-supplied graph of nodes, wiring a per-node
// fan-in/fan-out of channels so independent nodes run concurrently, shaping
// each edge's contribution to a consumer's input, and propagating an in-band
// abort signal to downstream nodes when a node fails.
//
// Everything outside this package (how node functions are authored, any
// configuration format, the public API) is a thin wrapper around Execute.
package flowdag
