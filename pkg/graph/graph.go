package graph

import (
	"github.com/flowkit/pipeline/pkg/types"
)

// Graph is a multi-edge directed graph: nodes indexed by opaque id, and
// a flat edge list. Between any two nodes there may be several parallel
// edges, one per variable carried.
type Graph struct {
	nodes    []types.Node
	edges    []types.Edge
	byID     map[string]int // node ID -> index into nodes
	nextEdge int
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{byID: make(map[string]int)}
}

// AddNode appends a node to the graph, assigning it Seq in insertion
// order, and returns a pointer usable until the next AddNode call.
func (g *Graph) AddNode(n types.Node) *types.Node {
	n.Seq = len(g.nodes)
	g.nodes = append(g.nodes, n)
	g.byID[n.ID] = len(g.nodes) - 1
	return &g.nodes[len(g.nodes)-1]
}

// AddEdge appends an edge to the graph, assigning it Seq in insertion order.
func (g *Graph) AddEdge(e types.Edge) *types.Edge {
	e.ID = g.nextEdge
	e.Seq = g.nextEdge
	g.nextEdge++
	g.edges = append(g.edges, e)
	return &g.edges[len(g.edges)-1]
}

// GetNode retrieves a node by its ID, or nil if absent.
func (g *Graph) GetNode(id string) *types.Node {
	idx, ok := g.byID[id]
	if !ok {
		return nil
	}
	return &g.nodes[idx]
}

// Nodes returns every node in insertion order. The caller must not
// retain pointers into the backing array across further AddNode calls.
func (g *Graph) Nodes() []types.Node { return g.nodes }

// Edges returns every edge in insertion order.
func (g *Graph) Edges() []types.Edge { return g.edges }

// Edge returns a pointer to the edge with the given ID, for mutating its
// Data slot during a run.
func (g *Graph) Edge(id int) *types.Edge {
	for i := range g.edges {
		if g.edges[i].ID == id {
			return &g.edges[i]
		}
	}
	return nil
}

// InEdges returns all edges terminating at nodeID.
func (g *Graph) InEdges(nodeID string) []*types.Edge {
	var result []*types.Edge
	for i := range g.edges {
		if g.edges[i].To == nodeID {
			result = append(result, &g.edges[i])
		}
	}
	return result
}

// OutEdges returns all edges originating at nodeID.
func (g *Graph) OutEdges(nodeID string) []*types.Edge {
	var result []*types.Edge
	for i := range g.edges {
		if g.edges[i].From == nodeID {
			result = append(result, &g.edges[i])
		}
	}
	return result
}

// InDegree returns the number of edges terminating at nodeID.
func (g *Graph) InDegree(nodeID string) int {
	n := 0
	for i := range g.edges {
		if g.edges[i].To == nodeID {
			n++
		}
	}
	return n
}

// OutDegree returns the number of edges originating at nodeID.
func (g *Graph) OutDegree(nodeID string) int {
	n := 0
	for i := range g.edges {
		if g.edges[i].From == nodeID {
			n++
		}
	}
	return n
}

// TopologicalSort orders node IDs using Kahn's algorithm, breaking ties
// by insertion sequence. It is used by the builder as the acyclicity
// check; the executor itself walks edges via
// LineGraphOrder, not this node order.
func (g *Graph) TopologicalSort() ([]string, error) {
	numNodes := len(g.nodes)
	if numNodes == 0 {
		return []string{}, nil
	}

	inDegree := make(map[string]int, numNodes)
	adjacency := make(map[string][]string, numNodes)
	for i := range g.nodes {
		inDegree[g.nodes[i].ID] = 0
	}
	for i := range g.edges {
		edge := &g.edges[i]
		adjacency[edge.From] = append(adjacency[edge.From], edge.To)
		inDegree[edge.To]++
	}

	var orphans []string
	for i := range g.nodes {
		if inDegree[g.nodes[i].ID] == 0 {
			orphans = append(orphans, g.nodes[i].ID)
		}
	}
	sortBySeq(orphans, g.byID, g.nodes)

	queue := make([]string, 0, numNodes)
	queue = append(queue, orphans...)
	order := make([]string, 0, numNodes)

	for qi := 0; qi < len(queue); qi++ {
		current := queue[qi]
		order = append(order, current)

		var ready []string
		for _, neighbor := range adjacency[current] {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				ready = append(ready, neighbor)
			}
		}
		sortBySeq(ready, g.byID, g.nodes)
		queue = append(queue, ready...)
	}

	if len(order) != numNodes {
		return nil, ErrCycleDetected
	}
	return order, nil
}

// LineGraphOrder returns edge IDs in an order consistent with the line
// graph of the DAG: an edge (A,B) is only emitted once every edge
// entering A has already been emitted. This is the order the executor
// drives.
func (g *Graph) LineGraphOrder() ([]int, error) {
	numEdges := len(g.edges)
	if numEdges == 0 {
		return []int{}, nil
	}

	inDegree := make(map[string]int, len(g.nodes))
	for i := range g.nodes {
		inDegree[g.nodes[i].ID] = 0
	}
	for i := range g.edges {
		inDegree[g.edges[i].To]++
	}

	ready := make(map[string]bool, len(g.nodes))
	visitedIn := make(map[string]int, len(g.nodes))

	queue := make([]*types.Edge, 0, numEdges)
	enqueued := make(map[int]bool, numEdges)

	enqueueOutEdges := func(nodeID string) {
		out := g.OutEdges(nodeID)
		sortEdgesBySeq(out)
		for _, e := range out {
			if !enqueued[e.ID] {
				enqueued[e.ID] = true
				queue = append(queue, e)
			}
		}
	}

	var roots []string
	for i := range g.nodes {
		id := g.nodes[i].ID
		if inDegree[id] == 0 {
			roots = append(roots, id)
		}
	}
	sortBySeq(roots, g.byID, g.nodes)
	for _, id := range roots {
		ready[id] = true
		enqueueOutEdges(id)
	}

	order := make([]int, 0, numEdges)
	for qi := 0; qi < len(queue); qi++ {
		e := queue[qi]
		order = append(order, e.ID)

		visitedIn[e.To]++
		if !ready[e.To] && visitedIn[e.To] == inDegree[e.To] {
			ready[e.To] = true
			enqueueOutEdges(e.To)
		}
	}

	if len(order) != numEdges {
		return nil, ErrCycleDetected
	}
	return order, nil
}

// sortBySeq sorts node IDs by their Seq field using insertion sort,
// fast enough for the small tie-sets that occur in practice.
func sortBySeq(ids []string, byID map[string]int, nodes []types.Node) {
	seqOf := func(id string) int {
		return nodes[byID[id]].Seq
	}
	for i := 1; i < len(ids); i++ {
		key := ids[i]
		keySeq := seqOf(key)
		j := i - 1
		for j >= 0 && seqOf(ids[j]) > keySeq {
			ids[j+1] = ids[j]
			j--
		}
		ids[j+1] = key
	}
}

// sortEdgesBySeq sorts edges by their Seq field using insertion sort.
func sortEdgesBySeq(edges []*types.Edge) {
	for i := 1; i < len(edges); i++ {
		key := edges[i]
		j := i - 1
		for j >= 0 && edges[j].Seq > key.Seq {
			edges[j+1] = edges[j]
			j--
		}
		edges[j+1] = key
	}
}
