package pipeline

import "errors"

// ErrConcurrentRun is returned when Run is called on a Pipeline instance
// while another Run on the same instance is still in flight. Running one
// pipeline instance from two callers concurrently is not supported; this
// sentinel makes the violation observable instead of silently corrupting
// edge data.
var ErrConcurrentRun = errors.New("pipeline: concurrent run on the same instance is not supported")
