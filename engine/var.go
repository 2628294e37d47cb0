package engine

import (
	"errors"
	"fmt"
)

// ErrRagged is returned for a matrix whose rows differ in length.
var ErrRagged = errors.New("matrix rows differ in length")

// Var is an argument marshaled into evaluator form. Value holds an int64,
// a float64, a string, a []float64, a [][]float64 or a []any. Dims is
// nil for scalars and strings, [n] for vectors and lists and [rows, cols]
// for matrices.
type Var struct {
	Value any
	Dims  []int
}

func (v *Var) String() string {
	if v.Dims == nil {
		return fmt.Sprintf("var(%v)", v.Value)
	}
	return fmt.Sprintf("var(%v, dims=%v)", v.Value, v.Dims)
}

// Convert wraps numbers, strings, vectors, matrices and lists in a *Var.
// Any other value, including an existing *Var, is returned unchanged.
func Convert(v any) (any, error) {
	switch v := v.(type) {
	case int:
		return &Var{Value: int64(v)}, nil
	case int8:
		return &Var{Value: int64(v)}, nil
	case int16:
		return &Var{Value: int64(v)}, nil
	case int32:
		return &Var{Value: int64(v)}, nil
	case int64:
		return &Var{Value: v}, nil
	case uint8:
		return &Var{Value: int64(v)}, nil
	case uint16:
		return &Var{Value: int64(v)}, nil
	case uint32:
		return &Var{Value: int64(v)}, nil
	case float32:
		return &Var{Value: float64(v)}, nil
	case float64:
		return &Var{Value: v}, nil
	case string:
		return &Var{Value: v}, nil
	case []float64:
		return &Var{Value: v, Dims: []int{len(v)}}, nil
	case []int:
		vec := make([]float64, len(v))
		for i, x := range v {
			vec[i] = float64(x)
		}
		return &Var{Value: vec, Dims: []int{len(v)}}, nil
	case [][]float64:
		cols := 0
		if len(v) > 0 {
			cols = len(v[0])
		}
		for i, row := range v {
			if len(row) != cols {
				return nil, fmt.Errorf("row %d has %d columns, want %d: %w", i, len(row), cols, ErrRagged)
			}
		}
		return &Var{Value: v, Dims: []int{len(v), cols}}, nil
	case []any:
		return &Var{Value: v, Dims: []int{len(v)}}, nil
	}
	return v, nil
}
