package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/flowkit/pipeline/pkg/builder"
	"github.com/flowkit/pipeline/pkg/config"
	"github.com/flowkit/pipeline/pkg/graph"
	"github.com/flowkit/pipeline/pkg/logging"
	"github.com/flowkit/pipeline/pkg/observer"
	"github.com/flowkit/pipeline/pkg/telemetry"
	"github.com/flowkit/pipeline/pkg/types"
)

const idSuffixLen = 8

// Pipeline is a built, immutable graph ready to run. Structure never
// changes after New returns; only edge Data slots and Input load state
// change, and only during a Run.
type Pipeline struct {
	name string
	uuid uuid.UUID

	graph            *graph.Graph
	positionalInputs []types.InputProcessor
	keywordInputs    []types.InputProcessor
	inputByName      map[string]types.InputProcessor
	nameByInput      map[types.InputProcessor]string
	dependencies     map[string][]string
	declaration      builder.Declaration

	cfg       *config.Config
	logger    *logging.Logger
	observers *observer.Manager

	running atomic.Bool
}

// Option configures a Pipeline at construction time.
type Option func(*Pipeline)

// WithConfig sets the structural limits checked before the graph is built.
func WithConfig(cfg *config.Config) Option {
	return func(p *Pipeline) { p.cfg = cfg }
}

// WithLogger sets the structured logger the builder and executor log through.
func WithLogger(logger *logging.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// WithObserver registers an observer for build and run events.
func WithObserver(o observer.Observer) Option {
	return func(p *Pipeline) { p.observers.Register(o) }
}

// WithTelemetry attaches a telemetry provider by registering a
// telemetry.TelemetryObserver for it: every build/run/node event New and
// Run already emit through the observer bus is recorded as a metric (and,
// where tracing is enabled, a span) against provider, with no separate
// recording path to keep in sync.
func WithTelemetry(provider *telemetry.Provider) Option {
	return func(p *Pipeline) { p.observers.Register(telemetry.NewTelemetryObserver(provider)) }
}

// New builds a Pipeline from decl, applying opts. name defaults to
// "Pipeline" when empty, for unnamed pipelines.
func New(name string, decl builder.Declaration, opts ...Option) (*Pipeline, error) {
	if name == "" {
		name = "Pipeline"
	}

	p := &Pipeline{
		name:        name,
		uuid:        uuid.New(),
		observers:   observer.NewManager(),
		declaration: decl,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		logger, err := logging.New(logging.DefaultConfig())
		if err != nil {
			return nil, err
		}
		p.logger = logger
	}
	p.logger = p.logger.WithPipelineID(p.ID())

	p.observers.Notify(context.Background(), observer.Event{
		Type: observer.EventBuildStart, Status: observer.StatusStarted,
		Timestamp: time.Now(), PipelineID: p.ID(),
	})

	var result *builder.Result
	var err error
	if p.cfg != nil {
		result, err = builder.BuildWithConfig(decl, p.cfg)
	} else {
		result, err = builder.Build(decl)
	}

	if err != nil {
		p.logger.WithError(err).Error("pipeline build failed")
		p.observers.Notify(context.Background(), observer.Event{
			Type: observer.EventBuildEnd, Status: observer.StatusFailure,
			Timestamp: time.Now(), PipelineID: p.ID(), Error: err,
		})
		return nil, err
	}

	p.graph = result.Graph
	p.positionalInputs = result.PositionalInputs
	p.keywordInputs = result.KeywordInputs
	p.dependencies = result.Dependencies
	p.inputByName = make(map[string]types.InputProcessor)
	p.nameByInput = make(map[types.InputProcessor]string)
	for i := range p.graph.Nodes() {
		node := &p.graph.Nodes()[i]
		if input, ok := node.Processor.(types.InputProcessor); ok {
			varName := node.Outputs[0]
			p.inputByName[varName] = input
			p.nameByInput[input] = varName
		}
	}

	p.logger.Info("pipeline build succeeded")
	p.observers.Notify(context.Background(), observer.Event{
		Type: observer.EventBuildEnd, Status: observer.StatusSuccess,
		Timestamp: time.Now(), PipelineID: p.ID(),
	})

	return p, nil
}

// ID returns the pipeline's diagnostic identifier: "<name>.<last hex
// chars of uuid>", matching the original's id property.
func (p *Pipeline) ID() string {
	hex := p.uuid.String()
	hex = hex[len(hex)-idSuffixLen:]
	return fmt.Sprintf("%s.%s", p.name, hex)
}

// UUID returns the pipeline's 128-bit random identity, assigned at build time.
func (p *Pipeline) UUID() uuid.UUID { return p.uuid }

// Name returns the pipeline's display name.
func (p *Pipeline) Name() string { return p.name }

// Dependencies returns, for each defined variable, the set of variables
// it transitively depends on.
func (p *Pipeline) Dependencies() map[string][]string { return p.dependencies }

// clear resets every edge's data slot and unloads every Input at the
// start of every Run.
func (p *Pipeline) clear() {
	for i := range p.graph.Edges() {
		e := &p.graph.Edges()[i]
		e.Data = nil
		e.HasData = false
	}
	for _, input := range p.positionalInputs {
		input.Unload()
	}
	for _, input := range p.keywordInputs {
		input.Unload()
	}
}

// StaticTask is one entry of a StaticRepresentation: the processor name
// that produces a task's outputs and the upstream variables it reads.
type StaticTask struct {
	Processor string   `json:"processor"`
	Inputs    []string `json:"inputs,omitempty"`
}

// StaticRepresentation returns a reconstructable view of the original
// declaration, keyed by the comma-joined output-variable tuple and
// omitting the leaves the builder synthesizes — mirroring the original
// implementation's get_static_representation. Processor identity is
// recorded by name only; reconstructing a runnable declaration from this
// requires the caller to resolve processor names back to instances.
func (p *Pipeline) StaticRepresentation() map[string]StaticTask {
	out := make(map[string]StaticTask, len(p.declaration))
	for _, task := range p.declaration {
		key := strings.Join(task.Outputs, ",")
		out[key] = StaticTask{Processor: task.Processor.Name(), Inputs: task.Inputs}
	}
	return out
}

// Run clears prior run state, binds positional and keyword runtime
// values to the pipeline's Input nodes, drives the line-graph edge
// order, and returns every defined variable mapped to its computed
// value. Run is not safe to call concurrently on the same Pipeline
// instance; a concurrent call fails fast with ErrConcurrentRun
// instead of racing on shared edge/Input state.
func (p *Pipeline) Run(ctx context.Context, positional []any, keyword map[string]any) (map[string]any, error) {
	if !p.running.CompareAndSwap(false, true) {
		return nil, ErrConcurrentRun
	}
	defer p.running.Store(false)

	runID := uuid.NewString()
	logger := p.logger.WithRunID(runID)
	start := time.Now()

	p.observers.Notify(ctx, observer.Event{
		Type: observer.EventRunStart, Status: observer.StatusStarted,
		Timestamp: start, PipelineID: p.ID(), RunID: runID,
	})

	result, err := p.run(ctx, logger, runID, positional, keyword)

	status := observer.StatusSuccess
	if err != nil {
		status = observer.StatusFailure
		logger.WithError(err).Error("pipeline run failed")
	} else {
		logger.Info("pipeline run succeeded")
	}
	p.observers.Notify(ctx, observer.Event{
		Type: observer.EventRunEnd, Status: status,
		Timestamp: time.Now(), PipelineID: p.ID(), RunID: runID,
		ElapsedTime: time.Since(start), Error: err,
	})

	return result, err
}

func (p *Pipeline) run(ctx context.Context, logger *logging.Logger, runID string, positional []any, keyword map[string]any) (map[string]any, error) {
	p.clear()

	if err := p.bindPositional(positional); err != nil {
		return nil, err
	}
	if err := p.bindKeyword(keyword); err != nil {
		return nil, err
	}
	if err := p.checkAllLoaded(); err != nil {
		return nil, err
	}

	order, err := p.graph.LineGraphOrder()
	if err != nil {
		return nil, types.NewCyclicGraphError()
	}

	invoked := make(map[string]bool, len(p.graph.Nodes()))
	for _, edgeID := range order {
		e := p.graph.Edge(edgeID)
		if err := p.tryInvoke(ctx, logger, runID, e.From, invoked); err != nil {
			return nil, err
		}
		if err := p.tryInvoke(ctx, logger, runID, e.To, invoked); err != nil {
			return nil, err
		}
	}

	out := make(map[string]any, len(p.graph.Edges()))
	for i := range p.graph.Edges() {
		e := &p.graph.Edges()[i]
		if e.HasData {
			out[e.VarName] = e.Data
		}
	}
	return out, nil
}

// bindPositional loads positional[i] into positionalInputs[i] in slot
// order. Supplying more arguments than declared positional Inputs is an
// ArityMismatch; supplying fewer leaves the trailing Inputs unloaded,
// which checkAllLoaded reports as MissingInput with the specific variable
// name — only the excess case is an immediate arity error.
func (p *Pipeline) bindPositional(positional []any) error {
	if len(positional) > len(p.positionalInputs) {
		return types.NewArityMismatchError(len(p.positionalInputs), len(positional))
	}
	for i, value := range positional {
		if err := p.positionalInputs[i].Load(value); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) bindKeyword(keyword map[string]any) error {
	names := make([]string, 0, len(keyword))
	for name := range keyword {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		input, ok := p.inputByName[name]
		if !ok {
			return types.NewUnknownInputError(name)
		}
		if err := input.Load(keyword[name]); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) checkAllLoaded() error {
	var missing []string
	for _, input := range p.positionalInputs {
		if !input.Loaded() {
			missing = append(missing, p.nameByInput[input])
		}
	}
	for _, input := range p.keywordInputs {
		if !input.Loaded() {
			missing = append(missing, p.nameByInput[input])
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return types.NewMissingInputsError(missing)
	}
	return nil
}

// tryInvoke invokes nodeID's processor if it hasn't run yet this Run and
// all of its in-edges already carry data (vacuously true for in-degree
// 0 nodes), then distributes its outputs across its out-edges by
// OutputIndex — a single call covers both the "node has in-degree 0"
// and "every in-edge is now ready" cases.
func (p *Pipeline) tryInvoke(ctx context.Context, logger *logging.Logger, runID, nodeID string, invoked map[string]bool) error {
	if invoked[nodeID] {
		return nil
	}
	node := p.graph.GetNode(nodeID)
	inEdges := p.graph.InEdges(nodeID)

	args := make([]any, len(inEdges))
	if len(inEdges) > 0 {
		sort.Slice(inEdges, func(i, j int) bool { return inEdges[i].InputIndex < inEdges[j].InputIndex })
		for _, e := range inEdges {
			if !e.HasData {
				return nil
			}
		}
		for _, e := range inEdges {
			args[e.InputIndex] = e.Data
		}
	}

	start := time.Now()
	p.observers.Notify(ctx, observer.Event{
		Type: observer.EventNodeStart, Status: observer.StatusStarted,
		Timestamp: start, PipelineID: p.ID(), RunID: runID,
		NodeID: nodeID, ProcessorName: node.Processor.Name(),
	})

	outputs, err := node.Processor.Invoke(args...)
	if err != nil {
		wrapped := types.NewProcessorFailureError(node.Processor.Name(), node.Outputs, err)
		p.observers.Notify(ctx, observer.Event{
			Type: observer.EventNodeFailure, Status: observer.StatusFailure,
			Timestamp: time.Now(), PipelineID: p.ID(), RunID: runID,
			NodeID: nodeID, ProcessorName: node.Processor.Name(),
			ElapsedTime: time.Since(start), Error: wrapped,
		})
		return wrapped
	}
	if len(outputs) != node.Processor.ArityOut() {
		err := types.NewOutputArityMismatchError(node.Processor.Name(), node.Processor.ArityOut(), len(outputs))
		p.observers.Notify(ctx, observer.Event{
			Type: observer.EventNodeFailure, Status: observer.StatusFailure,
			Timestamp: time.Now(), PipelineID: p.ID(), RunID: runID,
			NodeID: nodeID, ProcessorName: node.Processor.Name(),
			ElapsedTime: time.Since(start), Error: err,
		})
		return err
	}

	for _, e := range p.graph.OutEdges(nodeID) {
		e.Data = outputs[e.OutputIndex]
		e.HasData = true
	}
	invoked[nodeID] = true

	logger.WithNodeID(nodeID).Debug(fmt.Sprintf("invoked %s", node.Processor.Name()))
	p.observers.Notify(ctx, observer.Event{
		Type: observer.EventNodeSuccess, Status: observer.StatusSuccess,
		Timestamp: time.Now(), PipelineID: p.ID(), RunID: runID,
		NodeID: nodeID, ProcessorName: node.Processor.Name(),
		ElapsedTime: time.Since(start),
	})

	return nil
}
