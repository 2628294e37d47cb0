// Package engine binds compiled PhySL programs to an evaluator.
//
// The evaluator itself lives outside this module. It receives IR text
// and marshaled arguments and returns a result; this package only
// prepares both sides of that call.
package engine

import (
	"context"
	"fmt"

	"github.com/Yeahhhh/phylanx/compiler"
)

// Evaluator runs IR text with arguments.
type Evaluator interface {
	Eval(ctx context.Context, src string, args ...any) (any, error)
}

// Function is a compiled function bound to an evaluator.
type Function struct {
	Name   string
	Source string

	eval Evaluator
}

// Compile translates the source text of one decorated function and binds
// the result to ev.
func Compile(r *compiler.Recompiler, src string, ev Evaluator) (*Function, error) {
	compiled, err := r.Program(src)
	if err != nil {
		return nil, err
	}
	return &Function{Name: compiled.Name, Source: compiled.Source, eval: ev}, nil
}

// Call marshals args with Convert and evaluates the function body.
func (f *Function) Call(ctx context.Context, args ...any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	converted := make([]any, len(args))
	for i, arg := range args {
		v, err := Convert(arg)
		if err != nil {
			return nil, fmt.Errorf("%s: argument %d: %w", f.Name, i, err)
		}
		converted[i] = v
	}
	result, err := f.eval.Eval(ctx, f.Source, converted...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Name, err)
	}
	return result, nil
}
