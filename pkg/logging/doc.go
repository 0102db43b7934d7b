// Package logging provides structured logging with context propagation
// for the pipeline engine, built on the standard library's log/slog.
package logging
