package compiler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Yeahhhh/phylanx/libs/pyparser"
	"github.com/Yeahhhh/phylanx/physl"
)

// Grouping decides when arithmetic results get parentheses.
type Grouping int

const (
	// GroupAlways parenthesizes every arithmetic operation and writes every
	// negation as -(x).
	GroupAlways Grouping = iota
	// GroupByPrecedence parenthesizes an operation only when it binds
	// looser than its enclosing operation.
	GroupByPrecedence
)

func (g Grouping) String() string {
	switch g {
	case GroupAlways:
		return "always"
	case GroupByPrecedence:
		return "precedence"
	}
	return fmt.Sprintf("Grouping(%d)", int(g))
}

// ParseGrouping parses the names returned by Grouping.String.
func ParseGrouping(s string) (Grouping, error) {
	switch s {
	case "always":
		return GroupAlways, nil
	case "precedence":
		return GroupByPrecedence, nil
	}
	return 0, fmt.Errorf("unknown grouping %q (want always or precedence)", s)
}

// Options configures a Recompiler. The zero value is the reference
// behavior.
type Options struct {
	Grouping Grouping
}

// Precedence levels of the enclosing context
const (
	precOuter          = 0
	precAdditive       = 1
	precMultiplicative = 2
	precPower          = 3
)

type arithmetic struct {
	symbol string
	prec   int
}

var arithmeticOps = map[pyparser.Operator]arithmetic{
	pyparser.Add:  {"+", precAdditive},
	pyparser.Sub:  {"-", precAdditive},
	pyparser.Mult: {"*", precMultiplicative},
	pyparser.Div:  {"/", precMultiplicative},
	pyparser.Mod:  {"%", precMultiplicative},
	pyparser.Pow:  {"**", precPower},
}

var comparisonOps = map[pyparser.Operator]string{
	pyparser.Lt:    "<",
	pyparser.Gt:    ">",
	pyparser.LtE:   "<=",
	pyparser.GtE:   ">=",
	pyparser.Eq:    "==",
	pyparser.NotEq: "!=",
}

// Recompiler translates Python trees to PhySL. It holds only its
// options, so one value can serve any number of translations, including
// concurrent ones; every call gets its own set of defined names.
type Recompiler struct {
	opts Options
}

// New returns a Recompiler with the given options.
func New(opts Options) *Recompiler {
	return &Recompiler{opts: opts}
}

// Recompile translates the tree rooted at root to PhySL text. Either the
// whole tree translates or an error is returned.
func (r *Recompiler) Recompile(root pyparser.Node) (string, error) {
	ir, err := r.Build(root)
	if err != nil {
		return "", err
	}
	return physl.Serialize(ir), nil
}

// Build translates the tree rooted at root to an IR value tree.
func (r *Recompiler) Build(root pyparser.Node) (physl.Node, error) {
	if root == nil {
		return nil, &StructuralViolation{Kind: pyparser.KindModule, Detail: "no tree to translate"}
	}
	u := &unit{opts: r.opts, defined: make(map[string]bool)}
	return u.translate(root, false, precOuter)
}

// unit is the state of one translation: the names assigned so far. The
// first assignment to a name binds it with define, later ones store,
// regardless of where they sit in the tree.
type unit struct {
	opts    Options
	defined map[string]bool
}

// translate dispatches on the node kind. tail reports whether a return
// statement is legal at this position; prec is the precedence of the
// enclosing arithmetic operation.
func (u *unit) translate(n pyparser.Node, tail bool, prec int) (physl.Node, error) {
	switch n := n.(type) {
	case *pyparser.Module:
		if len(n.Body) != 1 {
			return nil, malformed(n, nil, "expected exactly one top-level statement, found %d", len(n.Body))
		}
		return u.translate(n.Body[0], tail, prec)

	case *pyparser.ExprStmt:
		children := n.Children()
		if len(children) != 1 {
			return nil, malformed(n, nil, "expected exactly one expression, found %d", len(children))
		}
		return u.translate(children[0], false, prec)

	case *pyparser.FunctionDef:
		return u.functionDef(n)

	case *pyparser.Return:
		if !tail {
			return nil, &MisplacedReturn{Line: n.Line()}
		}
		if n.Value == nil {
			return nil, malformed(n, nil, "return needs a value")
		}
		value, err := u.translate(n.Value, false, precOuter)
		if err != nil {
			return nil, err
		}
		return &physl.Tail{Value: value}, nil

	case *pyparser.Assign:
		return u.assign(n)

	case *pyparser.AugAssign:
		return u.augAssign(n)

	case *pyparser.While:
		if len(n.Orelse) > 0 {
			return nil, unsupported(n, "else clause")
		}
		cond, err := u.translate(n.Test, false, precOuter)
		if err != nil {
			return nil, err
		}
		body, err := u.body(n.Body, false)
		if err != nil {
			return nil, err
		}
		return physl.NewCall("while", cond, body), nil

	case *pyparser.If:
		cond, err := u.translate(n.Test, false, precOuter)
		if err != nil {
			return nil, err
		}
		then, err := u.body(n.Body, tail)
		if err != nil {
			return nil, err
		}
		orelse, err := u.body(n.Orelse, tail)
		if err != nil {
			return nil, err
		}
		return physl.NewCall("if", cond, then, orelse), nil

	case *pyparser.Compare:
		return u.compare(n)

	case *pyparser.BinOp:
		return u.binOp(n, prec)

	case *pyparser.UnaryOp:
		if n.Op != pyparser.USub {
			return nil, unsupported(n, "operator %s", n.Op)
		}
		_, isBinOp := n.Operand.(*pyparser.BinOp)
		operand, err := u.translate(n.Operand, false, precOuter)
		if err != nil {
			return nil, err
		}
		return &physl.Negate{Operand: operand, Grouped: isBinOp || u.opts.Grouping == GroupAlways}, nil

	case *pyparser.Call:
		return u.call(n)

	case *pyparser.Subscript:
		return u.subscript(n)

	case *pyparser.Num:
		if n.IsFloat {
			return physl.Atom(formatFloat(n.Float)), nil
		}
		return physl.Atom(n.Int.String()), nil

	case *pyparser.Str:
		return physl.Atom(`"` + n.S + `"`), nil

	case *pyparser.Name:
		return physl.Atom(n.ID), nil

	case nil:
		return nil, &StructuralViolation{Kind: "<nil>", Detail: "missing node"}
	}
	return nil, unsupported(n, "")
}

// body translates a statement list. A single statement stands alone; more
// become block(...), and only the last one may be a tail return. An empty
// list is block().
func (u *unit) body(stmts []pyparser.Stmt, tail bool) (physl.Node, error) {
	if len(stmts) == 1 {
		return u.translate(stmts[0], tail, precOuter)
	}
	items := make([]physl.Node, 0, len(stmts))
	for i, stmt := range stmts {
		item, err := u.translate(stmt, tail && i == len(stmts)-1, precOuter)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return physl.Block(items...), nil
}

// functionDef emits define(name,params...,body),name
func (u *unit) functionDef(n *pyparser.FunctionDef) (physl.Node, error) {
	switch {
	case len(n.Decorators) > 0:
		return nil, unsupported(n, "decorators")
	case n.Args == nil:
		return nil, malformed(n, nil, "missing parameter list")
	case n.Args.Vararg != nil:
		return nil, unsupported(n, "variadic parameter *%s", n.Args.Vararg.Name)
	case n.Args.Kwarg != nil:
		return nil, unsupported(n, "keyword parameter **%s", n.Args.Kwarg.Name)
	case len(n.Args.Defaults) > 0:
		return nil, unsupported(n, "default parameter values")
	case len(n.Body) == 0:
		return nil, malformed(n, nil, "empty body")
	}

	args := []physl.Node{physl.Atom(n.Name)}
	for _, param := range n.Args.Args {
		args = append(args, physl.Atom(param.Name))
	}
	body, err := u.body(n.Body, true)
	if err != nil {
		return nil, err
	}
	args = append(args, body)
	return physl.Seq{physl.NewCall("define", args...), physl.Atom(n.Name)}, nil
}

// assign emits define(name,value) for the first assignment to name in the
// unit and store(name,value) for every later one
func (u *unit) assign(n *pyparser.Assign) (physl.Node, error) {
	if len(n.Targets) != 1 {
		return nil, malformed(n, nil, "expected one assignment target, found %d", len(n.Targets))
	}
	target, ok := n.Targets[0].(*pyparser.Name)
	if !ok {
		return nil, unsupported(n.Targets[0], "assignment target")
	}

	form := "store"
	if !u.defined[target.ID] {
		form = "define"
		u.defined[target.ID] = true
	}
	value, err := u.translate(n.Value, false, precOuter)
	if err != nil {
		return nil, err
	}
	return physl.NewCall(form, physl.Atom(target.ID), value), nil
}

// augAssign emits store(name,name+value); only += has a translation
func (u *unit) augAssign(n *pyparser.AugAssign) (physl.Node, error) {
	if n.Op != pyparser.Add {
		return nil, unsupported(n, "operator %s", n.Op)
	}
	target, ok := n.Target.(*pyparser.Name)
	if !ok {
		return nil, unsupported(n.Target, "augmented assignment target")
	}
	value, err := u.translate(n.Value, false, precAdditive)
	if err != nil {
		return nil, err
	}
	name := physl.Atom(target.ID)
	return physl.NewCall("store", name, &physl.Binary{Op: "+", Left: name, Right: value}), nil
}

func (u *unit) compare(n *pyparser.Compare) (physl.Node, error) {
	if len(n.Ops) != 1 || len(n.Comparators) != 1 {
		return nil, malformed(n, nil, "chained comparison")
	}
	symbol, ok := comparisonOps[n.Ops[0]]
	if !ok {
		return nil, unsupported(n, "operator %s", n.Ops[0])
	}
	left, err := u.translate(n.Left, false, precOuter)
	if err != nil {
		return nil, err
	}
	right, err := u.translate(n.Comparators[0], false, precOuter)
	if err != nil {
		return nil, err
	}
	return &physl.Binary{Op: symbol, Left: left, Right: right}, nil
}

// binOp translates both operands under the operator's own precedence and
// groups the result when it binds looser than prec
func (u *unit) binOp(n *pyparser.BinOp, prec int) (physl.Node, error) {
	op, ok := arithmeticOps[n.Op]
	if !ok {
		return nil, unsupported(n, "operator %s", n.Op)
	}
	left, err := u.translate(n.Left, false, op.prec)
	if err != nil {
		return nil, err
	}
	right, err := u.translate(n.Right, false, op.prec)
	if err != nil {
		return nil, err
	}
	return &physl.Binary{
		Op:      op.symbol,
		Left:    left,
		Right:   right,
		Spaced:  true,
		Grouped: op.prec < prec || u.opts.Grouping == GroupAlways,
	}, nil
}

// call emits callee(args...); print is spelled cout
func (u *unit) call(n *pyparser.Call) (physl.Node, error) {
	callee, ok := n.Func.(*pyparser.Name)
	if !ok {
		return nil, unsupported(n.Func, "callee")
	}
	if len(n.Keywords) > 0 {
		return nil, unsupported(n.Keywords[0], "keyword argument %s", n.Keywords[0].Arg)
	}
	name := callee.ID
	if name == "print" {
		name = "cout"
	}
	args := make([]physl.Node, 0, len(n.Args))
	for _, arg := range n.Args {
		a, err := u.translate(arg, false, precOuter)
		if err != nil {
			return nil, err
		}
		args = append(args, a)
	}
	return physl.NewCall(name, args...), nil
}

// subscript emits slice(name,xlo,xhi,ylo,yhi) for a[xlo:xhi, ylo:yhi].
// A missing lower bound is 0 and a missing upper bound is the extent of
// that axis.
func (u *unit) subscript(n *pyparser.Subscript) (physl.Node, error) {
	const shape = "subscript must be a two-axis slice a[lo:hi, lo:hi]"

	found, err := Locate(n, ByKind(pyparser.KindExtSlice))
	if err != nil {
		return nil, malformed(n, err, shape)
	}
	ext := found.(*pyparser.ExtSlice)
	if len(ext.Dims) != 2 {
		return nil, malformed(n, nil, "%s, found %d axes", shape, len(ext.Dims))
	}

	var axes [2]*pyparser.Slice
	for i := range axes {
		s, err := Locate(ext, ByKindAt(pyparser.KindSlice, i))
		if err != nil {
			return nil, malformed(n, err, shape)
		}
		axes[i] = s.(*pyparser.Slice)
		if axes[i].Step != nil {
			return nil, malformed(n, nil, "slice step on axis %d", i)
		}
	}

	value, err := Locate(n, At(0))
	if err != nil {
		return nil, malformed(n, err, shape)
	}
	name, err := u.translate(value, false, precOuter)
	if err != nil {
		return nil, err
	}

	args := []physl.Node{name}
	for axis, s := range axes {
		lower, err := u.bound(s.Lower, physl.Atom("0"))
		if err != nil {
			return nil, err
		}
		upper, err := u.bound(s.Upper, physl.NewCall("shape", name, physl.Atom(strconv.Itoa(axis))))
		if err != nil {
			return nil, err
		}
		args = append(args, lower, upper)
	}
	return physl.NewCall("slice", args...), nil
}

func (u *unit) bound(e pyparser.Expr, fallback physl.Node) (physl.Node, error) {
	if e == nil {
		return fallback, nil
	}
	return u.translate(e, false, precOuter)
}

// formatFloat renders f in plain decimal notation with at least one
// fractional digit
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
