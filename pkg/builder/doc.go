// Package builder turns a declarative pipeline Declaration into a
// validated graph.Graph plus the bookkeeping the executor needs: the
// ordered positional and keyword Input lists and the variable
// dependency table.
//
// Build runs in four phases — register variables, create nodes, draw
// edges, attach leaves: every variable must be known before any edge is
// drawn, and only nodes with no outgoing edge after phase 3 acquire a
// leaf in phase 4.
package builder
