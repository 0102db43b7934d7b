package telemetry

import (
	"context"
	"testing"
	"time"
)

func TestNewProvider(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		config Config
	}{
		{name: "default config", config: DefaultConfig()},
		{
			name: "custom config",
			config: Config{
				ServiceName: "test-service", ServiceVersion: "1.0.0", Environment: "test",
				EnableTracing: true, EnableMetrics: true,
			},
		},
		{
			name: "metrics only",
			config: Config{
				ServiceName: "test-service", ServiceVersion: "1.0.0", Environment: "test",
				EnableTracing: false, EnableMetrics: true,
			},
		},
		{
			name: "tracing only",
			config: Config{
				ServiceName: "test-service", ServiceVersion: "1.0.0", Environment: "test",
				EnableTracing: true, EnableMetrics: false,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewProvider(ctx, tt.config)
			if err != nil {
				t.Fatalf("NewProvider() error = %v", err)
			}
			if tt.config.EnableTracing && provider.Tracer() == nil {
				t.Error("Tracer() returned nil when tracing is enabled")
			}
			if tt.config.EnableMetrics && provider.Meter() == nil {
				t.Error("Meter() returned nil when metrics are enabled")
			}
			if err := provider.Shutdown(ctx); err != nil {
				t.Errorf("Shutdown() error = %v", err)
			}
		})
	}
}

func TestRecordRun(t *testing.T) {
	ctx := context.Background()
	provider, err := NewProvider(ctx, DefaultConfig())
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	defer provider.Shutdown(ctx)

	tests := []struct {
		name       string
		pipelineID string
		duration   time.Duration
		success    bool
	}{
		{name: "successful run", pipelineID: "p-123", duration: 100 * time.Millisecond, success: true},
		{name: "failed run", pipelineID: "p-456", duration: 50 * time.Millisecond, success: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider.RecordRun(ctx, tt.pipelineID, tt.duration, tt.success)
		})
	}
}

func TestRecordNodeInvocation(t *testing.T) {
	ctx := context.Background()
	provider, err := NewProvider(ctx, DefaultConfig())
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	defer provider.Shutdown(ctx)

	tests := []struct {
		name     string
		nodeID   string
		proc     string
		duration time.Duration
		success  bool
	}{
		{name: "successful node", nodeID: "n1", proc: "AddOne", duration: 10 * time.Millisecond, success: true},
		{name: "failed node", nodeID: "n2", proc: "SplitHalf", duration: 5 * time.Millisecond, success: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider.RecordNodeInvocation(ctx, "p-1", tt.nodeID, tt.proc, tt.duration, tt.success)
		})
	}
}

func TestRecordBuild(t *testing.T) {
	ctx := context.Background()
	provider, err := NewProvider(ctx, DefaultConfig())
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	defer provider.Shutdown(ctx)

	provider.RecordBuild(ctx, "p-1", true)
	provider.RecordBuild(ctx, "p-2", false)
}

func TestShutdownTwice(t *testing.T) {
	ctx := context.Background()
	provider, err := NewProvider(ctx, DefaultConfig())
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	if err := provider.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
	_ = provider.Shutdown(ctx)
}

func TestProviderWithNilMetrics(t *testing.T) {
	ctx := context.Background()
	cfg := Config{ServiceName: "test", ServiceVersion: "1.0.0", Environment: "test", EnableTracing: true, EnableMetrics: false}

	provider, err := NewProvider(ctx, cfg)
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	defer provider.Shutdown(ctx)

	// Should not panic even with metrics disabled.
	provider.RecordRun(ctx, "p-1", time.Second, true)
	provider.RecordNodeInvocation(ctx, "p-1", "n1", "AddOne", time.Millisecond, true)
	provider.RecordBuild(ctx, "p-1", true)
}
