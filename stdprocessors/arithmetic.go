package stdprocessors

import "fmt"

// Inc adds one to a single integer input. It's the canonical
// single-step producer used to exercise the executor.
type Inc struct{}

func (Inc) Name() string  { return "Inc" }
func (Inc) ArityIn() int  { return 1 }
func (Inc) ArityOut() int { return 1 }

func (Inc) Invoke(args ...any) ([]any, error) {
	v, err := toInt(args, 0)
	if err != nil {
		return nil, err
	}
	return []any{v + 1}, nil
}

// Add sums two integer inputs.
type Add struct{}

func (Add) Name() string  { return "Add" }
func (Add) ArityIn() int  { return 2 }
func (Add) ArityOut() int { return 1 }

func (Add) Invoke(args ...any) ([]any, error) {
	a, err := toInt(args, 0)
	if err != nil {
		return nil, err
	}
	b, err := toInt(args, 1)
	if err != nil {
		return nil, err
	}
	return []any{a + b}, nil
}

// SplitHalf splits an integer into (floor half, remainder half),
// always returning two outputs that sum back to the input.
type SplitHalf struct{}

func (SplitHalf) Name() string  { return "SplitHalf" }
func (SplitHalf) ArityIn() int  { return 1 }
func (SplitHalf) ArityOut() int { return 2 }

func (SplitHalf) Invoke(args ...any) ([]any, error) {
	v, err := toInt(args, 0)
	if err != nil {
		return nil, err
	}
	half := v / 2
	if v < 0 && v%2 != 0 {
		half-- // Go's / truncates toward zero; round down instead.
	}
	return []any{half, v - half}, nil
}

func toInt(args []any, i int) (int, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("missing argument %d", i)
	}
	switch v := args[i].(type) {
	case int:
		return v, nil
	case float64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("argument %d: expected int, got %T", i, args[i])
	}
}
