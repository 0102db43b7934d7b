// Package types defines the shared data model of the pipeline engine:
// the Processor contract every node implements, the built-in Input and
// Leaf node kinds, and the graph-level Node/Edge representation the
// builder and executor operate on.
//
// Processors are supplied by callers; this package never implements a
// concrete processor itself beyond Input and Leaf, which are structural
// rather than domain nodes.
package types
