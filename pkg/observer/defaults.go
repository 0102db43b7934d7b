package observer

import (
	"context"
	"fmt"
	"log"
	"os"
)

// NoOpObserver ignores every event. A Manager with no registered
// observers does not use it; it simply notifies no one.
type NoOpObserver struct{}

func (NoOpObserver) OnEvent(ctx context.Context, event Event) {}

// ConsoleObserver prints events through a Logger, defaulting to DefaultLogger.
type ConsoleObserver struct {
	logger Logger
}

func NewConsoleObserver() *ConsoleObserver {
	return &ConsoleObserver{logger: NewDefaultLogger()}
}

func NewConsoleObserverWithLogger(logger Logger) *ConsoleObserver {
	return &ConsoleObserver{logger: logger}
}

func (o *ConsoleObserver) OnEvent(ctx context.Context, event Event) {
	fields := map[string]any{
		"type":        event.Type,
		"status":      event.Status,
		"pipeline_id": event.PipelineID,
	}
	if event.RunID != "" {
		fields["run_id"] = event.RunID
	}
	if event.NodeID != "" {
		fields["node_id"] = event.NodeID
		fields["processor_name"] = event.ProcessorName
	}
	if event.ElapsedTime > 0 {
		fields["elapsed_time"] = event.ElapsedTime.String()
	}

	msg := fmt.Sprintf("[%s] %s", event.Type, event.Status)

	switch event.Type {
	case EventBuildStart, EventRunStart:
		o.logger.Info(msg, fields)
	case EventBuildEnd, EventRunEnd:
		if event.Error != nil {
			fields["error"] = event.Error.Error()
			o.logger.Error(msg, fields)
		} else {
			o.logger.Info(msg, fields)
		}
	case EventNodeFailure:
		if event.Error != nil {
			fields["error"] = event.Error.Error()
		}
		o.logger.Warn(msg, fields)
	default:
		o.logger.Debug(msg, fields)
	}
}

// NoOpLogger discards every message.
type NoOpLogger struct{}

func (NoOpLogger) Debug(string, map[string]any) {}
func (NoOpLogger) Info(string, map[string]any)  {}
func (NoOpLogger) Warn(string, map[string]any)  {}
func (NoOpLogger) Error(string, map[string]any) {}

// DefaultLogger writes to stdout/stderr via the standard library log package.
type DefaultLogger struct {
	info *log.Logger
	err  *log.Logger
}

func NewDefaultLogger() *DefaultLogger {
	return &DefaultLogger{
		info: log.New(os.Stdout, "[INFO] ", log.LstdFlags),
		err:  log.New(os.Stderr, "[ERROR] ", log.LstdFlags),
	}
}

func (l *DefaultLogger) Debug(msg string, fields map[string]any) {
	l.info.Printf("[DEBUG] %s %v", msg, fields)
}

func (l *DefaultLogger) Info(msg string, fields map[string]any) {
	l.info.Printf("%s %v", msg, fields)
}

func (l *DefaultLogger) Warn(msg string, fields map[string]any) {
	l.info.Printf("[WARN] %s %v", msg, fields)
}

func (l *DefaultLogger) Error(msg string, fields map[string]any) {
	l.err.Printf("%s %v", msg, fields)
}

// Manager fans an event out to every registered Observer asynchronously,
// recovering from any observer panic so one misbehaving observer cannot
// affect another or the pipeline itself.
type Manager struct {
	observers []Observer
}

func NewManager() *Manager {
	return &Manager{}
}

func NewManagerWithObservers(observers ...Observer) *Manager {
	return &Manager{observers: observers}
}

func (m *Manager) Register(o Observer) {
	if o != nil {
		m.observers = append(m.observers, o)
	}
}

func (m *Manager) Notify(ctx context.Context, event Event) {
	for _, o := range m.observers {
		obs := o
		go func() {
			defer func() {
				_ = recover()
			}()
			obs.OnEvent(ctx, event)
		}()
	}
}

func (m *Manager) HasObservers() bool { return len(m.observers) > 0 }
func (m *Manager) Count() int         { return len(m.observers) }
