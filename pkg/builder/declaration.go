package builder

import "github.com/flowkit/pipeline/pkg/types"

// Declaration is the user-supplied pipeline description: an ordered list
// of tasks. Order matters — it is the insertion sequence the builder and
// graph use to break topological-sort ties deterministically, so a Go
// slice stands in for an unordered mapping whose keys may themselves be
// tuples of variable names, which cannot be Go map keys without losing
// that ordering guarantee.
type Declaration []Task

// Task is one entry of a Declaration: a left-hand side of one or more
// output variable names, and a right-hand side describing how they are
// produced.
type Task struct {
	// Outputs is the task's left-hand side: one variable name, or an
	// ordered tuple of names for a processor with ArityOut() > 1.
	Outputs []string
	// Processor is the right-hand side's processor, whether the task
	// was declared bare (Inputs == nil) or as a call tuple.
	Processor types.Processor
	// Inputs is the ordered tuple of upstream variable names the
	// processor consumes. Empty for a bare declaration and for Input
	// processors.
	Inputs []string
}

// Bare builds a Task with no upstream inputs: either an Input processor
// (registered as a pipeline input) or a zero-arity producer.
func Bare(output string, processor types.Processor) Task {
	return Task{Outputs: []string{output}, Processor: processor}
}

// Call builds a Task whose processor consumes the given upstream
// variables, producing one or more outputs.
func Call(outputs []string, processor types.Processor, inputs ...string) Task {
	return Task{Outputs: outputs, Processor: processor, Inputs: inputs}
}
