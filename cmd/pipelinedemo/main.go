// Command pipelinedemo builds and runs a small diamond-shaped pipeline,
// then validates its static representation against the declaration
// schema before printing the run's output mapping.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/flowkit/pipeline/pkg/builder"
	"github.com/flowkit/pipeline/pkg/declschema"
	"github.com/flowkit/pipeline/pkg/pipeline"
	"github.com/flowkit/pipeline/pkg/types"
	"github.com/flowkit/pipeline/stdprocessors"
)

func main() {
	fmt.Println("=================================================")
	fmt.Println("Pipeline Graph Engine Demo")
	fmt.Println("=================================================")

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "demo failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	doubled, err := stdprocessors.NewExpr("Double", "arg0 * 2", 1)
	if err != nil {
		return fmt.Errorf("compiling expression: %w", err)
	}

	// x -> a (Inc), x -> b (Double); a, b -> c (Add). A diamond with one
	// arithmetic processor and one expr-lang processor feeding the merge.
	decl := builder.Declaration{
		builder.Bare("x", types.NewPositionalInput("x", 0)),
		builder.Call([]string{"a"}, stdprocessors.Inc{}, "x"),
		builder.Call([]string{"b"}, doubled, "x"),
		builder.Call([]string{"c"}, stdprocessors.Add{}, "a", "b"),
	}

	p, err := pipeline.New("Demo", decl)
	if err != nil {
		return fmt.Errorf("building pipeline: %w", err)
	}
	fmt.Printf("built pipeline %s\n", p.ID())

	repr := p.StaticRepresentation()
	reprJSON, err := json.Marshal(repr)
	if err != nil {
		return fmt.Errorf("marshaling static representation: %w", err)
	}
	violations, err := declschema.Validate(reprJSON)
	if err != nil {
		return fmt.Errorf("validating declaration schema: %w", err)
	}
	if len(violations) > 0 {
		return fmt.Errorf("declaration schema violations: %v", violations)
	}
	fmt.Println("static representation:", string(reprJSON))

	out, err := p.Run(context.Background(), []any{5}, nil)
	if err != nil {
		return fmt.Errorf("running pipeline: %w", err)
	}

	fmt.Println("run output:")
	for _, v := range []string{"x", "a", "b", "c"} {
		fmt.Printf("  %s = %v\n", v, out[v])
	}
	return nil
}
