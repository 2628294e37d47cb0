// syntax_checker.go provides a whole-tree pre-pass over Python input.
// It lists every node kind the recompiler has no rule for, so a user can
// see all offending constructs at once instead of one per run.
// Operator-level checks stay in the recompiler.
package compiler

import (
	"github.com/Yeahhhh/phylanx/libs/pyparser"
)

// node kinds with a translation rule, plus the kinds that only occur as
// parts of those (parameter lists, slice bounds)
var translatable = map[pyparser.Kind]struct{}{
	pyparser.KindModule:      {},
	pyparser.KindExpr:        {},
	pyparser.KindFunctionDef: {},
	pyparser.KindArguments:   {},
	pyparser.KindArg:         {},
	pyparser.KindReturn:      {},
	pyparser.KindAssign:      {},
	pyparser.KindAugAssign:   {},
	pyparser.KindWhile:       {},
	pyparser.KindIf:          {},
	pyparser.KindCompare:     {},
	pyparser.KindBinOp:       {},
	pyparser.KindUnaryOp:     {},
	pyparser.KindCall:        {},
	pyparser.KindSubscript:   {},
	pyparser.KindExtSlice:    {},
	pyparser.KindSlice:       {},
	pyparser.KindNum:         {},
	pyparser.KindStr:         {},
	pyparser.KindName:        {},
}

// hints explain the unsupported kinds users run into most
var hints = map[pyparser.Kind]string{
	pyparser.KindFor:          "For loops are not supported.\n  Rewrite the loop as a while loop with an explicit counter.",
	pyparser.KindListComp:     "List comprehensions are not supported.\n  Build the result with a while loop.",
	pyparser.KindBoolOp:       "Boolean operators (and/or) are not supported.\n  Nest if statements instead.",
	pyparser.KindIfExp:        "Conditional expressions are not supported.\n  Use an if statement with an assignment in each branch.",
	pyparser.KindAttribute:    "Attribute access is not supported.\n  Call primitives by their plain name.",
	pyparser.KindPass:         "pass has no translation.\n  Every block needs at least one statement that produces a value.",
	pyparser.KindBreak:        "break is not supported.\n  Fold the exit condition into the while test.",
	pyparser.KindContinue:     "continue is not supported.\n  Guard the rest of the loop body with an if statement.",
	pyparser.KindNameConstant: "True, False and None are not supported.\n  Use numeric values instead.",
	pyparser.KindList:         "List literals are not supported.\n  Pass arrays in as function arguments.",
	pyparser.KindTuple:        "Tuples are not supported.\n  Assign each value separately.",
	pyparser.KindIndex:        "Only two-axis slices a[lo:hi, lo:hi] are supported.",
	pyparser.KindKeyword:      "Keyword arguments are not supported.\n  Pass arguments by position.",
}

// Hint returns advice for rewriting an unsupported node kind, or the empty
// string if there is none.
func Hint(k pyparser.Kind) string {
	return hints[k]
}

// Check walks the whole tree and returns an *UnsupportedConstruct for every
// node whose kind has no translation rule. Children of a rejected node are
// not visited. A nil result does not guarantee that Recompile succeeds.
func Check(root pyparser.Node) []error {
	var errs []error
	var visit func(n pyparser.Node)
	visit = func(n pyparser.Node) {
		if _, ok := translatable[n.Kind()]; !ok {
			errs = append(errs, &UnsupportedConstruct{Kind: n.Kind(), Line: n.Line()})
			return
		}
		for _, child := range n.Children() {
			visit(child)
		}
	}
	if root != nil {
		visit(root)
	}
	return errs
}
