package declschema

import "testing"

func TestValidateValidDeclaration(t *testing.T) {
	doc := []byte(`{
		"x": {"processor": "Input(x)"},
		"y": {"processor": "Inc", "inputs": ["x"]}
	}`)
	violations, err := Validate(doc)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if len(violations) != 0 {
		t.Fatalf("expected no violations, got %+v", violations)
	}
}

func TestValidateRejectsMissingProcessor(t *testing.T) {
	doc := []byte(`{"y": {"inputs": ["x"]}}`)
	violations, err := Validate(doc)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if len(violations) == 0 {
		t.Fatal("expected a violation for a task missing its processor field")
	}
}

func TestValidateRejectsNonStringInputs(t *testing.T) {
	doc := []byte(`{"y": {"processor": "Inc", "inputs": [1, 2]}}`)
	violations, err := Validate(doc)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if len(violations) == 0 {
		t.Fatal("expected a violation for non-string input names")
	}
}

func TestValidateValue(t *testing.T) {
	doc := map[string]any{
		"x": map[string]any{"processor": "Input(x)"},
	}
	violations, err := ValidateValue(doc)
	if err != nil {
		t.Fatalf("ValidateValue() error = %v", err)
	}
	if len(violations) != 0 {
		t.Fatalf("expected no violations, got %+v", violations)
	}
}
