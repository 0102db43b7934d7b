package telemetry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	serviceName = "flowkit-pipeline-engine"

	metricBuilds          = "pipeline.builds.total"
	metricRuns            = "pipeline.runs.total"
	metricRunDuration     = "pipeline.run.duration"
	metricRunSuccess      = "pipeline.runs.success.total"
	metricRunFailure      = "pipeline.runs.failure.total"
	metricNodeInvocations = "pipeline.node.invocations.total"
	metricNodeDuration    = "pipeline.node.invocation.duration"
	metricNodeSuccess     = "pipeline.node.invocations.success.total"
	metricNodeFailure     = "pipeline.node.invocations.failure.total"
)

// Provider manages OpenTelemetry setup and provides access to tracers and
// meters for pipeline build/run/node-invocation metrics.
type Provider struct {
	meterProvider  *sdkmetric.MeterProvider
	tracerProvider trace.TracerProvider
	meter          metric.Meter
	tracer         trace.Tracer

	builds          metric.Int64Counter
	runs            metric.Int64Counter
	runDuration     metric.Float64Histogram
	runSuccess      metric.Int64Counter
	runFailure      metric.Int64Counter
	nodeInvocations metric.Int64Counter
	nodeDuration    metric.Float64Histogram
	nodeSuccess     metric.Int64Counter
	nodeFailure     metric.Int64Counter

	mu sync.RWMutex
}

// Config holds telemetry configuration.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	EnableTracing  bool
	EnableMetrics  bool
}

// DefaultConfig returns default telemetry configuration.
func DefaultConfig() Config {
	return Config{
		ServiceName:    serviceName,
		ServiceVersion: "0.1.0",
		Environment:    "development",
		EnableTracing:  true,
		EnableMetrics:  true,
	}
}

// NewProvider creates a telemetry provider with a Prometheus metrics
// exporter, initializing OpenTelemetry with the given configuration.
func NewProvider(ctx context.Context, cfg Config) (*Provider, error) {
	provider := &Provider{}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
			attribute.String("environment", cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	if cfg.EnableMetrics {
		if err := provider.initMetrics(res); err != nil {
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}
	}
	if cfg.EnableTracing {
		provider.initTracing()
	}

	return provider, nil
}

func (p *Provider) initMetrics(res *resource.Resource) error {
	exporter, err := prometheus.New()
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	p.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(p.meterProvider)
	p.meter = p.meterProvider.Meter(serviceName)

	return p.createMetricInstruments()
}

func (p *Provider) initTracing() {
	// Tracing is exported via whatever global TracerProvider the host
	// process configures (OTLP, Jaeger, ...); this package only consumes it.
	p.tracerProvider = otel.GetTracerProvider()
	p.tracer = p.tracerProvider.Tracer(serviceName)
}

func (p *Provider) createMetricInstruments() error {
	var err error

	if p.builds, err = p.meter.Int64Counter(metricBuilds,
		metric.WithDescription("Total number of pipeline builds")); err != nil {
		return err
	}
	if p.runs, err = p.meter.Int64Counter(metricRuns,
		metric.WithDescription("Total number of pipeline runs")); err != nil {
		return err
	}
	if p.runDuration, err = p.meter.Float64Histogram(metricRunDuration,
		metric.WithDescription("Pipeline run duration in milliseconds"), metric.WithUnit("ms")); err != nil {
		return err
	}
	if p.runSuccess, err = p.meter.Int64Counter(metricRunSuccess,
		metric.WithDescription("Total number of successful pipeline runs")); err != nil {
		return err
	}
	if p.runFailure, err = p.meter.Int64Counter(metricRunFailure,
		metric.WithDescription("Total number of failed pipeline runs")); err != nil {
		return err
	}
	if p.nodeInvocations, err = p.meter.Int64Counter(metricNodeInvocations,
		metric.WithDescription("Total number of node invocations")); err != nil {
		return err
	}
	if p.nodeDuration, err = p.meter.Float64Histogram(metricNodeDuration,
		metric.WithDescription("Node invocation duration in milliseconds"), metric.WithUnit("ms")); err != nil {
		return err
	}
	if p.nodeSuccess, err = p.meter.Int64Counter(metricNodeSuccess,
		metric.WithDescription("Total number of successful node invocations")); err != nil {
		return err
	}
	if p.nodeFailure, err = p.meter.Int64Counter(metricNodeFailure,
		metric.WithDescription("Total number of failed node invocations")); err != nil {
		return err
	}
	return nil
}

// Tracer returns the tracer for creating spans.
func (p *Provider) Tracer() trace.Tracer {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.tracer
}

// Meter returns the meter for recording metrics.
func (p *Provider) Meter() metric.Meter {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.meter
}

// RecordBuild records one pipeline build outcome.
func (p *Provider) RecordBuild(ctx context.Context, pipelineID string, success bool) {
	if p.meter == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("pipeline.id", pipelineID),
		attribute.Bool("success", success),
	}
	p.builds.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordRun records one pipeline run's outcome and duration.
func (p *Provider) RecordRun(ctx context.Context, pipelineID string, duration time.Duration, success bool) {
	if p.meter == nil {
		return
	}
	attrs := []attribute.KeyValue{attribute.String("pipeline.id", pipelineID)}
	p.runs.Add(ctx, 1, metric.WithAttributes(attrs...))
	p.runDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
	if success {
		p.runSuccess.Add(ctx, 1, metric.WithAttributes(attrs...))
	} else {
		p.runFailure.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordNodeInvocation records one node's invocation outcome and duration.
func (p *Provider) RecordNodeInvocation(ctx context.Context, pipelineID, nodeID, processorName string, duration time.Duration, success bool) {
	if p.meter == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("pipeline.id", pipelineID),
		attribute.String("node.id", nodeID),
		attribute.String("processor.name", processorName),
	}
	p.nodeInvocations.Add(ctx, 1, metric.WithAttributes(attrs...))
	p.nodeDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
	if success {
		p.nodeSuccess.Add(ctx, 1, metric.WithAttributes(attrs...))
	} else {
		p.nodeFailure.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// Shutdown gracefully shuts down the telemetry provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.meterProvider != nil {
		if err := p.meterProvider.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown meter provider: %w", err)
		}
	}
	return nil
}
