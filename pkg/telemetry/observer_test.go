package telemetry

import (
	"context"
	"sync"
	"testing"

	"github.com/flowkit/pipeline/pkg/observer"
)

func TestTelemetryObserverHandlesRunAndNodeEvents(t *testing.T) {
	provider, err := NewProvider(context.Background(), DefaultConfig())
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	defer provider.Shutdown(context.Background())

	o := NewTelemetryObserver(provider)
	ctx := context.Background()

	o.OnEvent(ctx, observer.Event{Type: observer.EventBuildEnd, Status: observer.StatusSuccess, PipelineID: "p-1"})
	o.OnEvent(ctx, observer.Event{Type: observer.EventRunStart, PipelineID: "p-1", RunID: "r-1"})
	o.OnEvent(ctx, observer.Event{Type: observer.EventNodeStart, PipelineID: "p-1", RunID: "r-1", NodeID: "n1", ProcessorName: "Inc"})
	o.OnEvent(ctx, observer.Event{Type: observer.EventNodeSuccess, PipelineID: "p-1", RunID: "r-1", NodeID: "n1", ProcessorName: "Inc"})
	o.OnEvent(ctx, observer.Event{Type: observer.EventRunEnd, Status: observer.StatusSuccess, PipelineID: "p-1", RunID: "r-1"})
}

// TestTelemetryObserverConcurrentNodeEvents fires many concurrent node
// start/success notifications at the same observer, the shape
// observer.Manager.Notify produces (each event dispatched in its own
// goroutine). Without synchronizing nodeSpans/nodeStartTimes this panics
// with a concurrent map write under the race detector.
func TestTelemetryObserverConcurrentNodeEvents(t *testing.T) {
	provider, err := NewProvider(context.Background(), DefaultConfig())
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	defer provider.Shutdown(context.Background())

	o := NewTelemetryObserver(provider)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		nodeID := "n" + string(rune('a'+i%26))
		wg.Add(2)
		go func() {
			defer wg.Done()
			o.OnEvent(ctx, observer.Event{Type: observer.EventNodeStart, PipelineID: "p-1", NodeID: nodeID, ProcessorName: "Inc"})
		}()
		go func() {
			defer wg.Done()
			o.OnEvent(ctx, observer.Event{Type: observer.EventNodeSuccess, PipelineID: "p-1", NodeID: nodeID, ProcessorName: "Inc"})
		}()
	}
	wg.Wait()
}
