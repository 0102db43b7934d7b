// Package telemetry provides OpenTelemetry integration for metrics and
// tracing around pipeline build and run. It records build, run, and
// per-node invocation counters and histograms, exported via Prometheus.
package telemetry
