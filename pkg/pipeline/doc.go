// Package pipeline ties the builder and graph packages together into
// the user-facing engine: New builds a Pipeline from a declaration,
// Run binds runtime arguments, drives the line-graph edge order, and
// collects every produced variable into a result map.
package pipeline
