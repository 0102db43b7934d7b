// Package config centralizes the pipeline engine's resource limits: the
// only protections the core concerns itself with, since cancellation,
// retries, and persistence are explicitly left to callers.
package config
