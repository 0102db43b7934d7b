// Package graph holds the multi-edge directed graph that backs a
// pipeline: nodes indexed by opaque id, and edges carrying one variable
// each between a producing and a consuming node.
//
// Two orderings are exposed. TopologicalSort orders nodes and doubles as
// the builder's cycle check. LineGraphOrder orders edges instead of
// nodes: it is the order the executor walks at run time, guaranteeing
// that every edge entering a node has already been visited by the time
// any edge leaving that node is visited.
package graph
