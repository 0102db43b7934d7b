package stdprocessors

import "testing"

func TestExprInvoke(t *testing.T) {
	e, err := NewExpr("Double", "arg0 * 2", 1)
	if err != nil {
		t.Fatalf("NewExpr() error = %v", err)
	}
	out, err := e.Invoke(21)
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if out[0] != 42 {
		t.Fatalf("expected 42, got %v", out[0])
	}
}

func TestExprInvokeArityMismatch(t *testing.T) {
	e, err := NewExpr("Sum", "arg0 + arg1", 2)
	if err != nil {
		t.Fatalf("NewExpr() error = %v", err)
	}
	if _, err := e.Invoke(1); err == nil {
		t.Fatal("expected an error invoking with too few arguments")
	}
}

func TestNewExprCompileError(t *testing.T) {
	if _, err := NewExpr("Bad", "arg0 +", 1); err == nil {
		t.Fatal("expected a compile error for malformed expression")
	}
}
