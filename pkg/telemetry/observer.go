package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/flowkit/pipeline/pkg/observer"
)

// TelemetryObserver implements observer.Observer and bridges pipeline
// build/run/node events into Provider metrics and trace spans. Events
// arrive from observer.Manager.Notify, which dispatches each one in its
// own goroutine, so every field below is guarded by mu.
type TelemetryObserver struct {
	provider *Provider

	mu             sync.Mutex
	runSpan        trace.Span
	nodeSpans      map[string]trace.Span
	runStartTime   time.Time
	nodeStartTimes map[string]time.Time
}

// NewTelemetryObserver creates an observer recording into provider.
func NewTelemetryObserver(provider *Provider) *TelemetryObserver {
	return &TelemetryObserver{
		provider:       provider,
		nodeSpans:      make(map[string]trace.Span),
		nodeStartTimes: make(map[string]time.Time),
	}
}

// OnEvent handles a build/run/node event and records telemetry for it.
func (o *TelemetryObserver) OnEvent(ctx context.Context, event observer.Event) {
	switch event.Type {
	case observer.EventBuildEnd:
		o.provider.RecordBuild(ctx, event.PipelineID, event.Error == nil)
	case observer.EventRunStart:
		o.handleRunStart(ctx, event)
	case observer.EventRunEnd:
		o.handleRunEnd(ctx, event)
	case observer.EventNodeStart:
		o.handleNodeStart(ctx, event)
	case observer.EventNodeSuccess:
		o.handleNodeEnd(ctx, event, true)
	case observer.EventNodeFailure:
		o.handleNodeEnd(ctx, event, false)
	}
}

func (o *TelemetryObserver) handleRunStart(ctx context.Context, event observer.Event) {
	tracer := o.provider.Tracer()
	var span trace.Span
	if tracer != nil {
		_, span = tracer.Start(ctx, "pipeline.run",
			trace.WithAttributes(
				attribute.String("pipeline.id", event.PipelineID),
				attribute.String("run.id", event.RunID),
			),
		)
	}

	o.mu.Lock()
	o.runSpan = span
	o.runStartTime = event.Timestamp
	o.mu.Unlock()
}

func (o *TelemetryObserver) handleRunEnd(ctx context.Context, event observer.Event) {
	o.mu.Lock()
	runSpan := o.runSpan
	duration := time.Since(o.runStartTime)
	o.runSpan = nil
	o.mu.Unlock()

	o.provider.RecordRun(ctx, event.PipelineID, duration, event.Status == observer.StatusSuccess)

	if runSpan != nil {
		if event.Error != nil {
			runSpan.RecordError(event.Error)
			runSpan.SetStatus(codes.Error, event.Error.Error())
		} else {
			runSpan.SetStatus(codes.Ok, "run completed")
		}
		runSpan.End()
	}
}

func (o *TelemetryObserver) handleNodeStart(ctx context.Context, event observer.Event) {
	o.mu.Lock()
	parentSpan := o.runSpan
	o.mu.Unlock()

	spanCtx := ctx
	if parentSpan != nil {
		spanCtx = trace.ContextWithSpan(ctx, parentSpan)
	}

	tracer := o.provider.Tracer()
	var span trace.Span
	if tracer != nil {
		_, span = tracer.Start(spanCtx, "pipeline.node.invoke",
			trace.WithAttributes(
				attribute.String("node.id", event.NodeID),
				attribute.String("processor.name", event.ProcessorName),
				attribute.String("run.id", event.RunID),
			),
		)
	}

	o.mu.Lock()
	o.nodeSpans[event.NodeID] = span
	o.nodeStartTimes[event.NodeID] = event.Timestamp
	o.mu.Unlock()
}

func (o *TelemetryObserver) handleNodeEnd(ctx context.Context, event observer.Event, success bool) {
	o.mu.Lock()
	var duration time.Duration
	if start, ok := o.nodeStartTimes[event.NodeID]; ok {
		duration = time.Since(start)
		delete(o.nodeStartTimes, event.NodeID)
	}
	span, hasSpan := o.nodeSpans[event.NodeID]
	delete(o.nodeSpans, event.NodeID)
	o.mu.Unlock()

	o.provider.RecordNodeInvocation(ctx, event.PipelineID, event.NodeID, event.ProcessorName, duration, success)

	if hasSpan && span != nil {
		if event.Error != nil {
			span.RecordError(event.Error)
			span.SetStatus(codes.Error, event.Error.Error())
		} else {
			span.SetStatus(codes.Ok, "node invocation completed")
		}
		span.End()
	}
}
