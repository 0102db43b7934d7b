package graph

import "errors"

// Sentinel errors for graph operations.
var ErrCycleDetected = errors.New("cycle detected in graph")
