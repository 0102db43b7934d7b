package types

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the pipeline engine's error taxonomy.
// Use errors.Is against these to classify a failure; the constructor
// functions below wrap them with the context that produced them.
var (
	ErrInvalidDeclaration  = errors.New("invalid declaration")
	ErrDuplicateVariable   = errors.New("duplicate variable")
	ErrUndefinedReference  = errors.New("undefined reference")
	ErrInputWithInputs     = errors.New("input processor declared with upstream inputs")
	ErrCyclicGraph         = errors.New("cyclic graph")
	ErrDuplicateInputIndex = errors.New("duplicate input index")
	ErrArityMismatch       = errors.New("arity mismatch")
	ErrUnknownInput        = errors.New("unknown input")
	ErrDoubleLoad          = errors.New("double load")
	ErrMissingInput        = errors.New("missing input")
	ErrOutputArityMismatch = errors.New("output arity mismatch")
	ErrProcessorFailure    = errors.New("processor failure")
)

// NewInvalidDeclarationError wraps ErrInvalidDeclaration with the
// offending key/value context.
func NewInvalidDeclarationError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidDeclaration, reason)
}

// NewDuplicateVariableError wraps ErrDuplicateVariable with the variable name.
func NewDuplicateVariableError(varName string) error {
	return fmt.Errorf("%w: %q already defined", ErrDuplicateVariable, varName)
}

// NewUndefinedReferenceError wraps ErrUndefinedReference with the missing variable.
func NewUndefinedReferenceError(varName string) error {
	return fmt.Errorf("%w: %q is never produced", ErrUndefinedReference, varName)
}

// NewInputWithInputsError wraps ErrInputWithInputs with the Input's variable name.
func NewInputWithInputsError(varName string) error {
	return fmt.Errorf("%w: input %q cannot take upstream arguments", ErrInputWithInputs, varName)
}

// NewCyclicGraphError wraps ErrCyclicGraph.
func NewCyclicGraphError() error {
	return fmt.Errorf("%w: pipeline contains a cycle", ErrCyclicGraph)
}

// NewDuplicateInputIndexError wraps ErrDuplicateInputIndex with the index in conflict.
func NewDuplicateInputIndexError(index int) error {
	return fmt.Errorf("%w: positional index %d used by more than one input", ErrDuplicateInputIndex, index)
}

// NewArityMismatchError wraps ErrArityMismatch with the expected/actual counts.
func NewArityMismatchError(expected, actual int) error {
	return fmt.Errorf("%w: expected %d positional arguments, got %d", ErrArityMismatch, expected, actual)
}

// NewUnknownInputError wraps ErrUnknownInput with the offending keyword name.
func NewUnknownInputError(name string) error {
	return fmt.Errorf("%w: %q is not a declared input", ErrUnknownInput, name)
}

// NewDoubleLoadError wraps ErrDoubleLoad with the input's display name.
func NewDoubleLoadError(name string) error {
	return fmt.Errorf("%w: %s already loaded in this run", ErrDoubleLoad, name)
}

// NewMissingInputError wraps ErrMissingInput with the unloaded input's name.
func NewMissingInputError(name string) error {
	return fmt.Errorf("%w: %s was never loaded", ErrMissingInput, name)
}

// NewMissingInputsError wraps ErrMissingInput naming every Input left
// unloaded after binding.
func NewMissingInputsError(names []string) error {
	return fmt.Errorf("%w: %s were never loaded", ErrMissingInput, strings.Join(names, ", "))
}

// NewOutputArityMismatchError wraps ErrOutputArityMismatch with the
// processor name and expected/actual output counts.
func NewOutputArityMismatchError(processorName string, expected, actual int) error {
	return fmt.Errorf("%w: %s declared %d outputs, returned %d", ErrOutputArityMismatch, processorName, expected, actual)
}

// NewProcessorFailureError wraps ErrProcessorFailure with the processor
// name, the variables it produces, and the underlying cause.
func NewProcessorFailureError(processorName string, outputs []string, cause error) error {
	return fmt.Errorf("%w: %s (producing %v): %w", ErrProcessorFailure, processorName, outputs, cause)
}
