package declschema

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// metaSchema describes the wire shape of a serialized declaration: an
// object keyed by the comma-joined output-variable tuple, each value
// naming the processor that produces it and the upstream variables it
// reads, exactly the shape pipeline.StaticRepresentation produces once
// marshaled to JSON.
const metaSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"additionalProperties": {
		"type": "object",
		"required": ["processor"],
		"properties": {
			"processor": {"type": "string", "minLength": 1},
			"inputs": {
				"type": "array",
				"items": {"type": "string", "minLength": 1}
			}
		},
		"additionalProperties": false
	}
}`

// ValidationError reports one schema violation found in a declaration document.
type ValidationError struct {
	Field       string
	Description string
}

func (e ValidationError) String() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Description)
}

// Validate checks declJSON (a serialized declaration, typically the
// JSON marshaling of pipeline.StaticRepresentation) against metaSchema.
// It returns the list of schema violations found; a nil/empty result
// means declJSON is well-formed enough to hand to the builder (semantic
// errors — undefined references, cycles — are still the builder's job).
func Validate(declJSON []byte) ([]ValidationError, error) {
	schemaLoader := gojsonschema.NewStringLoader(metaSchema)
	documentLoader := gojsonschema.NewBytesLoader(declJSON)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("declschema: validating document: %w", err)
	}
	if result.Valid() {
		return nil, nil
	}

	violations := make([]ValidationError, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		violations = append(violations, ValidationError{Field: e.Field(), Description: e.Description()})
	}
	return violations, nil
}

// ValidateValue marshals v to JSON and validates it, a convenience for
// callers holding a decoded declaration document rather than raw bytes.
func ValidateValue(v any) ([]ValidationError, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("declschema: marshaling document: %w", err)
	}
	return Validate(b)
}
