package stdprocessors

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Expr is a types.Processor that evaluates an expr-lang expression
// against its positional inputs, bound in the expression environment as
// arg0, arg1, .... ArityOut is always 1; an expression producing a
// tuple-shaped result is outside this processor's scope.
//
// The program is compiled once at construction, mirroring the
// single-compile/reuse shape of the expression engine it is grounded
// on: compile cost is paid once, not per Invoke.
type Expr struct {
	name       string
	expression string
	arityIn    int
	program    *vm.Program
}

// NewExpr compiles expression and returns a processor taking arityIn
// positional inputs named arg0..argN-1 in the expression environment.
func NewExpr(name, expression string, arityIn int) (*Expr, error) {
	env := make(map[string]any, arityIn)
	for i := 0; i < arityIn; i++ {
		env[fmt.Sprintf("arg%d", i)] = 0
	}
	program, err := expr.Compile(expression, expr.Env(env))
	if err != nil {
		return nil, fmt.Errorf("stdprocessors: compiling expression %q: %w", expression, err)
	}
	return &Expr{name: name, expression: expression, arityIn: arityIn, program: program}, nil
}

func (e *Expr) Name() string  { return e.name }
func (e *Expr) ArityIn() int  { return e.arityIn }
func (e *Expr) ArityOut() int { return 1 }

// Invoke evaluates the compiled expression against args, bound as
// arg0, arg1, ... in the expression environment.
func (e *Expr) Invoke(args ...any) ([]any, error) {
	if len(args) != e.arityIn {
		return nil, fmt.Errorf("stdprocessors: %s expects %d arguments, got %d", e.name, e.arityIn, len(args))
	}
	env := make(map[string]any, len(args))
	for i, a := range args {
		env[fmt.Sprintf("arg%d", i)] = a
	}
	result, err := expr.Run(e.program, env)
	if err != nil {
		return nil, fmt.Errorf("stdprocessors: evaluating %q: %w", e.expression, err)
	}
	return []any{result}, nil
}
