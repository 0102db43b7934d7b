package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

type contextKey string

const ContextKeyLogger contextKey = "logger"

// Logger wraps slog.Logger with pipeline-specific context fields.
type Logger struct {
	logger *slog.Logger
}

// Config holds logging configuration.
type Config struct {
	Level         string
	Output        io.Writer
	Pretty        bool
	IncludeCaller bool
}

// DefaultConfig returns default logging configuration.
func DefaultConfig() Config {
	return Config{Level: "info", Output: os.Stdout}
}

// Validate checks that Level, if set, names a level parseLevel
// recognizes. An empty Level defaults to info and is valid.
func (c Config) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Level)
	}
}

// New creates a Logger from the given configuration, rejecting an
// unrecognized Level.
func New(cfg Config) (*Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level), AddSource: cfg.IncludeCaller}

	var handler slog.Handler
	if cfg.Pretty {
		handler = slog.NewTextHandler(output, opts)
	} else {
		handler = slog.NewJSONHandler(output, opts)
	}
	return &Logger{logger: slog.New(handler)}, nil
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithContext attaches the logger to a context.
func (l *Logger) WithContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, ContextKeyLogger, l)
}

// FromContext retrieves the logger from context, or a default logger if absent.
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(ContextKeyLogger).(*Logger); ok {
		return logger
	}
	logger, _ := New(DefaultConfig())
	return logger
}

// WithPipelineID adds pipeline_id to the logger context.
func (l *Logger) WithPipelineID(pipelineID string) *Logger {
	return &Logger{logger: l.logger.With(slog.String("pipeline_id", pipelineID))}
}

// WithRunID adds run_id to the logger context.
func (l *Logger) WithRunID(runID string) *Logger {
	return &Logger{logger: l.logger.With(slog.String("run_id", runID))}
}

// WithNodeID adds node_id to the logger context.
func (l *Logger) WithNodeID(nodeID string) *Logger {
	return &Logger{logger: l.logger.With(slog.String("node_id", nodeID))}
}

// WithField adds a custom field to the logger context.
func (l *Logger) WithField(key string, value any) *Logger {
	return &Logger{logger: l.logger.With(slog.Any(key, value))}
}

// WithError adds an error field to the logger context.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{logger: l.logger.With(slog.Any("error", err))}
}

func (l *Logger) Debug(msg string) { l.logger.Debug(msg) }
func (l *Logger) Info(msg string)  { l.logger.Info(msg) }
func (l *Logger) Warn(msg string)  { l.logger.Warn(msg) }
func (l *Logger) Error(msg string) { l.logger.Error(msg) }

func (l *Logger) Debugf(format string, args ...any) { l.logger.Debug(fmt.Sprintf(format, args...)) }
func (l *Logger) Infof(format string, args ...any)  { l.logger.Info(fmt.Sprintf(format, args...)) }
func (l *Logger) Warnf(format string, args ...any)  { l.logger.Warn(fmt.Sprintf(format, args...)) }
func (l *Logger) Errorf(format string, args ...any) { l.logger.Error(fmt.Sprintf(format, args...)) }

// GetSlogLogger exposes the underlying slog.Logger for advanced use cases.
func (l *Logger) GetSlogLogger() *slog.Logger {
	return l.logger
}
