package compiler

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Yeahhhh/phylanx/libs/pyparser"
)

// a leading @name decorator line
var decoratorPrefix = regexp.MustCompile(`^\s*@\w+\s*`)

// Compiled is a translated function ready for an evaluator.
type Compiled struct {
	// Name is the function name, empty when the unit is not a definition.
	Name string
	// Source is the IR wrapped as block(...) with a trailing newline.
	Source string
}

// Program translates the source text of one decorated function, the way
// a decorator hands it over: the leading @name line is dropped, the rest
// is parsed and recompiled as a single unit. Line numbers in errors refer
// to the text as given.
func (r *Recompiler) Program(src string) (*Compiled, error) {
	src = stripDecorator(src)
	module, err := pyparser.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	ir, err := r.Recompile(module)
	if err != nil {
		return nil, err
	}

	compiled := &Compiled{Source: "block(" + ir + ")\n"}
	if len(module.Body) == 1 {
		if fn, ok := module.Body[0].(*pyparser.FunctionDef); ok {
			compiled.Name = fn.Name
		}
	}
	return compiled, nil
}

// stripDecorator removes a leading decorator, keeping its newlines so
// that the remaining lines keep their numbers
func stripDecorator(src string) string {
	loc := decoratorPrefix.FindStringIndex(src)
	if loc == nil {
		return src
	}
	removed := src[loc[0]:loc[1]]
	return strings.Repeat("\n", strings.Count(removed, "\n")) + src[loc[1]:]
}
