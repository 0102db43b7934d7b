package builder

import (
	"errors"
	"testing"

	"github.com/flowkit/pipeline/pkg/types"
)

type fn struct {
	name     string
	arityIn  int
	arityOut int
	call     func(args ...any) ([]any, error)
}

func (f *fn) Name() string  { return f.name }
func (f *fn) ArityIn() int  { return f.arityIn }
func (f *fn) ArityOut() int { return f.arityOut }
func (f *fn) Invoke(args ...any) ([]any, error) {
	return f.call(args...)
}

func addOne() *fn {
	return &fn{name: "AddOne", arityIn: 1, arityOut: 1, call: func(args ...any) ([]any, error) {
		return []any{args[0].(int) + 1}, nil
	}}
}

func TestBuildSingleStep(t *testing.T) {
	decl := Declaration{
		Bare("x", types.NewPositionalInput("x", 0)),
		Call([]string{"y"}, addOne(), "x"),
	}

	result, err := Build(decl)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.PositionalInputs) != 1 {
		t.Fatalf("expected 1 positional input, got %d", len(result.PositionalInputs))
	}
	// two task nodes plus one leaf for y (x is consumed, not terminal).
	if len(result.Graph.Nodes()) != 3 {
		t.Fatalf("expected 3 nodes (x, y, leaf(y)), got %d", len(result.Graph.Nodes()))
	}
}

func TestBuildDuplicateVariable(t *testing.T) {
	decl := Declaration{
		Bare("x", types.NewPositionalInput("x", 0)),
		Bare("x", types.NewPositionalInput("x", 1)),
	}
	_, err := Build(decl)
	if !errors.Is(err, types.ErrDuplicateVariable) {
		t.Fatalf("expected ErrDuplicateVariable, got %v", err)
	}
}

func TestBuildUndefinedReference(t *testing.T) {
	decl := Declaration{
		Call([]string{"y"}, addOne(), "x"),
	}
	_, err := Build(decl)
	if !errors.Is(err, types.ErrUndefinedReference) {
		t.Fatalf("expected ErrUndefinedReference, got %v", err)
	}
}

func TestBuildInputWithInputs(t *testing.T) {
	decl := Declaration{
		Bare("x", types.NewPositionalInput("x", 0)),
		Call([]string{"y"}, types.NewPositionalInput("y", 1), "x"),
	}
	_, err := Build(decl)
	if !errors.Is(err, types.ErrInputWithInputs) {
		t.Fatalf("expected ErrInputWithInputs, got %v", err)
	}
}

func TestBuildDuplicateInputIndex(t *testing.T) {
	decl := Declaration{
		Bare("x", types.NewPositionalInput("x", 0)),
		Bare("y", types.NewPositionalInput("y", 0)),
	}
	_, err := Build(decl)
	if !errors.Is(err, types.ErrDuplicateInputIndex) {
		t.Fatalf("expected ErrDuplicateInputIndex, got %v", err)
	}
}

func TestBuildCyclicGraph(t *testing.T) {
	decl := Declaration{
		Call([]string{"a"}, addOne(), "b"),
		Call([]string{"b"}, addOne(), "a"),
	}
	_, err := Build(decl)
	if !errors.Is(err, types.ErrCyclicGraph) {
		t.Fatalf("expected ErrCyclicGraph, got %v", err)
	}
}

func TestBuildDiamond(t *testing.T) {
	// x -> a -> c
	// x -> b -> c
	add := &fn{name: "Add", arityIn: 2, arityOut: 1, call: func(args ...any) ([]any, error) {
		return []any{args[0].(int) + args[1].(int)}, nil
	}}
	decl := Declaration{
		Bare("x", types.NewPositionalInput("x", 0)),
		Call([]string{"a"}, addOne(), "x"),
		Call([]string{"b"}, addOne(), "x"),
		Call([]string{"c"}, add, "a", "b"),
	}
	result, err := Build(decl)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deps := result.Dependencies["c"]; len(deps) != 3 {
		t.Fatalf("expected c to depend on a, b, x, got %v", deps)
	}
}
