package builder

import (
	"fmt"
	"sort"

	"golang.org/x/text/unicode/norm"

	"github.com/flowkit/pipeline/pkg/config"
	"github.com/flowkit/pipeline/pkg/graph"
	"github.com/flowkit/pipeline/pkg/types"
)

// Result is everything the executor needs from a built pipeline: the
// frozen graph, the ordered Input lists for binding runtime arguments,
// and the per-variable dependency sets each variable's producer exposes.
type Result struct {
	Graph            *graph.Graph
	PositionalInputs []types.InputProcessor
	KeywordInputs    []types.InputProcessor
	Dependencies     map[string][]string
}

type varEntry struct {
	producingNode string
	deps          map[string]bool
}

// Build validates a Declaration and constructs its graph in four
// phases, exactly as specified: register variables, create nodes, draw
// edges, attach leaves, then finalize (sort input orders, check
// acyclicity). It applies no structural size limits; callers that want
// those should use BuildWithConfig.
func Build(decl Declaration) (*Result, error) {
	return build(decl, nil)
}

// BuildWithConfig is Build with cfg's MaxNodes/MaxEdges limits checked
// against the declaration's task/upstream-reference counts before any
// graph construction work begins — a coarse, cheap bound that rejects
// pathological declarations up front. The final node/edge count (after
// leaf attachment) is always >= these counts, so a declaration that
// passes this check may still be rejected by a tighter downstream limit
// in principle, but never the reverse.
func BuildWithConfig(decl Declaration, cfg *config.Config) (*Result, error) {
	if cfg != nil {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		if len(decl) > cfg.MaxNodes {
			return nil, types.NewInvalidDeclarationError(
				fmt.Sprintf("declaration has %d tasks, exceeding MaxNodes %d", len(decl), cfg.MaxNodes))
		}
		edges := 0
		for _, task := range decl {
			edges += len(task.Inputs)
		}
		if edges > cfg.MaxEdges {
			return nil, types.NewInvalidDeclarationError(
				fmt.Sprintf("declaration has %d upstream references, exceeding MaxEdges %d", edges, cfg.MaxEdges))
		}
	}
	return build(decl, cfg)
}

func build(decl Declaration, cfg *config.Config) (*Result, error) {
	vars := make(map[string]*varEntry)

	// Phase 1 — register variables.
	for _, task := range decl {
		if len(task.Outputs) == 0 {
			return nil, types.NewInvalidDeclarationError("task declares no output variables")
		}
		for _, raw := range task.Outputs {
			name := norm.NFC.String(raw)
			if name == "" {
				return nil, types.NewInvalidDeclarationError("empty variable name")
			}
			if _, exists := vars[name]; exists {
				return nil, types.NewDuplicateVariableError(name)
			}
			vars[name] = &varEntry{deps: make(map[string]bool)}
		}
	}

	g := graph.New()
	var positional []types.InputProcessor
	var keyword []types.InputProcessor

	// Phase 2 — create nodes.
	for taskIdx, task := range decl {
		outputs := normalizeNames(task.Outputs)
		nodeID := fmt.Sprintf("n%d", taskIdx)

		if task.Processor == nil {
			return nil, types.NewInvalidDeclarationError("task has no processor")
		}
		if task.Processor.ArityOut() != len(outputs) {
			return nil, types.NewInvalidDeclarationError(
				fmt.Sprintf("%s declares %d outputs but %d variables were assigned", task.Processor.Name(), task.Processor.ArityOut(), len(outputs)))
		}

		if input, ok := task.Processor.(types.InputProcessor); ok {
			if len(task.Inputs) > 0 {
				return nil, types.NewInputWithInputsError(outputs[0])
			}
			if input.Slot().Keyword {
				keyword = append(keyword, input)
			} else {
				positional = append(positional, input)
			}
			g.AddNode(types.Node{ID: nodeID, Processor: task.Processor, Outputs: outputs})
		} else if len(task.Inputs) == 0 {
			if task.Processor.ArityIn() != 0 {
				return nil, types.NewInvalidDeclarationError(
					fmt.Sprintf("%s declares %d inputs but was used as a bare zero-input producer", task.Processor.Name(), task.Processor.ArityIn()))
			}
			g.AddNode(types.Node{ID: nodeID, Processor: task.Processor, Outputs: outputs})
		} else {
			g.AddNode(types.Node{ID: nodeID, Processor: task.Processor, Inputs: normalizeNames(task.Inputs), Outputs: outputs})
		}

		for _, out := range outputs {
			vars[out].producingNode = nodeID
		}
	}

	// Phase 3 — draw edges.
	for i := range g.Nodes() {
		node := &g.Nodes()[i]
		for idx, upstream := range node.Inputs {
			entry, ok := vars[upstream]
			if !ok || entry.producingNode == "" {
				return nil, types.NewUndefinedReferenceError(upstream)
			}
			upstreamNode := g.GetNode(entry.producingNode)
			outputIdx := upstreamNode.OutputIndex(upstream)
			g.AddEdge(types.Edge{
				From:        upstreamNode.ID,
				To:          node.ID,
				VarName:     upstream,
				InputIndex:  idx,
				OutputIndex: outputIdx,
			})

			for _, produced := range node.Outputs {
				vars[produced].deps[upstream] = true
				for dep := range entry.deps {
					vars[produced].deps[dep] = true
				}
			}
		}
	}

	// Phase 4 — attach leaves, snapshotting terminal nodes before any
	// leaf is added (leaves themselves are never terminal sources).
	terminal := make([]string, 0)
	for i := range g.Nodes() {
		node := &g.Nodes()[i]
		if g.OutDegree(node.ID) == 0 {
			terminal = append(terminal, node.ID)
		}
	}
	for _, nodeID := range terminal {
		node := g.GetNode(nodeID)
		for i, v := range node.Outputs {
			leaf := types.NewLeaf(v)
			leafID := fmt.Sprintf("%s.leaf.%s", nodeID, v)
			g.AddNode(types.Node{ID: leafID, Processor: leaf, Inputs: []string{v}, Outputs: []string{v}})
			g.AddEdge(types.Edge{From: nodeID, To: leafID, VarName: v, InputIndex: 0, OutputIndex: i})
		}
	}

	// Finalization.
	sort.SliceStable(positional, func(i, j int) bool {
		return positional[i].Slot().Index < positional[j].Slot().Index
	})
	for i := 1; i < len(positional); i++ {
		if positional[i].Slot().Index == positional[i-1].Slot().Index {
			return nil, types.NewDuplicateInputIndexError(positional[i].Slot().Index)
		}
	}
	sort.SliceStable(keyword, func(i, j int) bool {
		return keyword[i].Name() < keyword[j].Name()
	})

	if _, err := g.TopologicalSort(); err != nil {
		return nil, types.NewCyclicGraphError()
	}

	deps := make(map[string][]string, len(vars))
	for name, entry := range vars {
		ordered := make([]string, 0, len(entry.deps))
		for dep := range entry.deps {
			ordered = append(ordered, dep)
		}
		sort.Strings(ordered)
		deps[name] = ordered
	}

	return &Result{
		Graph:            g,
		PositionalInputs: positional,
		KeywordInputs:    keyword,
		Dependencies:     deps,
	}, nil
}

func normalizeNames(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = norm.NFC.String(n)
	}
	return out
}
