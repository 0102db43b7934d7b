// Package declschema validates a JSON-encoded pipeline declaration
// against a fixed meta-schema before it is handed to the builder,
// catching malformed declarations arriving from an external source
// (e.g. a stored StaticRepresentation round-tripped through JSON) before
// Phase 1 of the build even starts.
package declschema
