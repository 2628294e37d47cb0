package pyparser

import "math/big"

// Kind is the node kind tag. Values match the class names of Python's ast
// module so diagnostics read the same as CPython's.
type Kind string

// Node kinds
const (
	KindModule        Kind = "Module"
	KindFunctionDef   Kind = "FunctionDef"
	KindArguments     Kind = "arguments"
	KindArg           Kind = "arg"
	KindReturn        Kind = "Return"
	KindAssign        Kind = "Assign"
	KindAugAssign     Kind = "AugAssign"
	KindWhile         Kind = "While"
	KindIf            Kind = "If"
	KindFor           Kind = "For"
	KindPass          Kind = "Pass"
	KindBreak         Kind = "Break"
	KindContinue      Kind = "Continue"
	KindExpr          Kind = "Expr"
	KindBinOp         Kind = "BinOp"
	KindUnaryOp       Kind = "UnaryOp"
	KindBoolOp        Kind = "BoolOp"
	KindCompare       Kind = "Compare"
	KindCall          Kind = "Call"
	KindKeyword       Kind = "keyword"
	KindIfExp         Kind = "IfExp"
	KindName          Kind = "Name"
	KindNum           Kind = "Num"
	KindStr           Kind = "Str"
	KindNameConstant  Kind = "NameConstant"
	KindAttribute     Kind = "Attribute"
	KindSubscript     Kind = "Subscript"
	KindIndex         Kind = "Index"
	KindSlice         Kind = "Slice"
	KindExtSlice      Kind = "ExtSlice"
	KindList          Kind = "List"
	KindTuple         Kind = "Tuple"
	KindListComp      Kind = "ListComp"
	KindComprehension Kind = "comprehension"
)

// Node represents an AST node. The set of implementations is closed:
// every node type lives in this file.
type Node interface {
	Kind() Kind
	// Line is the 1-based source line, 0 when unknown.
	Line() int
	// Children returns the immediate child nodes in source order, the
	// same order Python's ast.iter_child_nodes yields them. Operators are
	// fields, not children.
	Children() []Node
	node()
}

// Stmt is a statement node
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression node
type Expr interface {
	Node
	exprNode()
}

// Position records where a node starts
type Position struct {
	Lineno int
}

func (p Position) Line() int { return p.Lineno }

func (Position) node() {}

type (
	// Module is the root of a parsed source text
	Module struct {
		Position
		Body []Stmt
	}

	// FunctionDef is a def statement
	FunctionDef struct {
		Position
		Name       string
		Args       *Arguments
		Body       []Stmt
		Decorators []Expr
	}

	// Arguments is the parameter list of a FunctionDef
	Arguments struct {
		Position
		Args     []*Arg
		Vararg   *Arg
		Kwarg    *Arg
		Defaults []Expr
	}

	// Arg is one named parameter
	Arg struct {
		Position
		Name string
	}

	// Return is a return statement; Value is nil for a bare return
	Return struct {
		Position
		Value Expr
	}

	// Assign is `t1 = t2 = ... = value`
	Assign struct {
		Position
		Targets []Expr
		Value   Expr
	}

	// AugAssign is `target op= value`
	AugAssign struct {
		Position
		Target Expr
		Op     Operator
		Value  Expr
	}

	While struct {
		Position
		Test   Expr
		Body   []Stmt
		Orelse []Stmt
	}

	// If holds elif chains as a nested If in Orelse, as Python does
	If struct {
		Position
		Test   Expr
		Body   []Stmt
		Orelse []Stmt
	}

	For struct {
		Position
		Target Expr
		Iter   Expr
		Body   []Stmt
		Orelse []Stmt
	}

	Pass struct {
		Position
	}

	Break struct {
		Position
	}

	Continue struct {
		Position
	}

	// ExprStmt is an expression used as a statement (kind "Expr")
	ExprStmt struct {
		Position
		Value Expr
	}
)

type (
	BinOp struct {
		Position
		Left  Expr
		Op    Operator
		Right Expr
	}

	UnaryOp struct {
		Position
		Op      Operator
		Operand Expr
	}

	BoolOp struct {
		Position
		Op     Operator
		Values []Expr
	}

	// Compare is `left op1 c1 op2 c2 ...`; len(Ops) == len(Comparators)
	Compare struct {
		Position
		Left        Expr
		Ops         []Operator
		Comparators []Expr
	}

	Call struct {
		Position
		Func     Expr
		Args     []Expr
		Keywords []*Keyword
	}

	// Keyword is a `name=value` call argument
	Keyword struct {
		Position
		Arg   string
		Value Expr
	}

	// IfExp is `body if test else orelse`
	IfExp struct {
		Position
		Test   Expr
		Body   Expr
		Orelse Expr
	}

	Name struct {
		Position
		ID string
	}

	// Num is a numeric literal. Int is set for integer literals, Float
	// otherwise.
	Num struct {
		Position
		Int     *big.Int
		Float   float64
		IsFloat bool
	}

	// Str holds the decoded string value
	Str struct {
		Position
		S string
	}

	// NameConstant is True, False or None
	NameConstant struct {
		Position
		Value string
	}

	Attribute struct {
		Position
		Value Expr
		Attr  string
	}

	// Subscript is `value[slice]`. Slice is an *Index, *Slice or *ExtSlice.
	Subscript struct {
		Position
		Value Expr
		Slice Node
	}

	Index struct {
		Position
		Value Expr
	}

	// Slice is `lower:upper:step`; missing bounds are nil
	Slice struct {
		Position
		Lower Expr
		Upper Expr
		Step  Expr
	}

	// ExtSlice is a multi-axis subscript with at least one Slice.
	// Dims holds *Slice and *Index nodes.
	ExtSlice struct {
		Position
		Dims []Node
	}

	List struct {
		Position
		Elts []Expr
	}

	Tuple struct {
		Position
		Elts []Expr
	}

	ListComp struct {
		Position
		Elt        Expr
		Generators []*Comprehension
	}

	Comprehension struct {
		Position
		Target Expr
		Iter   Expr
		Ifs    []Expr
	}
)

func (*Module) Kind() Kind        { return KindModule }
func (*FunctionDef) Kind() Kind   { return KindFunctionDef }
func (*Arguments) Kind() Kind     { return KindArguments }
func (*Arg) Kind() Kind           { return KindArg }
func (*Return) Kind() Kind        { return KindReturn }
func (*Assign) Kind() Kind        { return KindAssign }
func (*AugAssign) Kind() Kind     { return KindAugAssign }
func (*While) Kind() Kind         { return KindWhile }
func (*If) Kind() Kind            { return KindIf }
func (*For) Kind() Kind           { return KindFor }
func (*Pass) Kind() Kind          { return KindPass }
func (*Break) Kind() Kind         { return KindBreak }
func (*Continue) Kind() Kind      { return KindContinue }
func (*ExprStmt) Kind() Kind      { return KindExpr }
func (*BinOp) Kind() Kind         { return KindBinOp }
func (*UnaryOp) Kind() Kind       { return KindUnaryOp }
func (*BoolOp) Kind() Kind        { return KindBoolOp }
func (*Compare) Kind() Kind       { return KindCompare }
func (*Call) Kind() Kind          { return KindCall }
func (*Keyword) Kind() Kind       { return KindKeyword }
func (*IfExp) Kind() Kind         { return KindIfExp }
func (*Name) Kind() Kind          { return KindName }
func (*Num) Kind() Kind           { return KindNum }
func (*Str) Kind() Kind           { return KindStr }
func (*NameConstant) Kind() Kind  { return KindNameConstant }
func (*Attribute) Kind() Kind     { return KindAttribute }
func (*Subscript) Kind() Kind     { return KindSubscript }
func (*Index) Kind() Kind         { return KindIndex }
func (*Slice) Kind() Kind         { return KindSlice }
func (*ExtSlice) Kind() Kind      { return KindExtSlice }
func (*List) Kind() Kind          { return KindList }
func (*Tuple) Kind() Kind         { return KindTuple }
func (*ListComp) Kind() Kind      { return KindListComp }
func (*Comprehension) Kind() Kind { return KindComprehension }

func (*FunctionDef) stmtNode() {}
func (*Return) stmtNode()      {}
func (*Assign) stmtNode()      {}
func (*AugAssign) stmtNode()   {}
func (*While) stmtNode()       {}
func (*If) stmtNode()          {}
func (*For) stmtNode()         {}
func (*Pass) stmtNode()        {}
func (*Break) stmtNode()       {}
func (*Continue) stmtNode()    {}
func (*ExprStmt) stmtNode()    {}

func (*BinOp) exprNode()        {}
func (*UnaryOp) exprNode()      {}
func (*BoolOp) exprNode()       {}
func (*Compare) exprNode()      {}
func (*Call) exprNode()         {}
func (*IfExp) exprNode()        {}
func (*Name) exprNode()         {}
func (*Num) exprNode()          {}
func (*Str) exprNode()          {}
func (*NameConstant) exprNode() {}
func (*Attribute) exprNode()    {}
func (*Subscript) exprNode()    {}
func (*List) exprNode()         {}
func (*Tuple) exprNode()        {}
func (*ListComp) exprNode()     {}

// nodes collects the non-nil entries of its arguments in order
func nodes[T Node](list ...T) []Node {
	out := make([]Node, 0, len(list))
	for _, n := range list {
		if !isNil(n) {
			out = append(out, n)
		}
	}
	return out
}

func isNil(n Node) bool {
	if n == nil {
		return true
	}
	switch v := n.(type) {
	case *Arg:
		return v == nil
	case *Keyword:
		return v == nil
	case *Comprehension:
		return v == nil
	case *Arguments:
		return v == nil
	}
	return false
}

func join(groups ...[]Node) []Node {
	var out []Node
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func (m *Module) Children() []Node { return nodes(m.Body...) }

func (f *FunctionDef) Children() []Node {
	return join(nodes[Node](f.Args), nodes(f.Body...), nodes(f.Decorators...))
}

func (a *Arguments) Children() []Node {
	return join(nodes(a.Args...), nodes(a.Vararg, a.Kwarg), nodes(a.Defaults...))
}

func (*Arg) Children() []Node { return nil }

func (r *Return) Children() []Node { return nodes(r.Value) }

func (a *Assign) Children() []Node {
	return join(nodes(a.Targets...), nodes(a.Value))
}

func (a *AugAssign) Children() []Node { return nodes(a.Target, a.Value) }

func (w *While) Children() []Node {
	return join(nodes(w.Test), nodes(w.Body...), nodes(w.Orelse...))
}

func (i *If) Children() []Node {
	return join(nodes(i.Test), nodes(i.Body...), nodes(i.Orelse...))
}

func (f *For) Children() []Node {
	return join(nodes(f.Target, f.Iter), nodes(f.Body...), nodes(f.Orelse...))
}

func (*Pass) Children() []Node     { return nil }
func (*Break) Children() []Node    { return nil }
func (*Continue) Children() []Node { return nil }

func (e *ExprStmt) Children() []Node { return nodes(e.Value) }

func (b *BinOp) Children() []Node { return nodes(b.Left, b.Right) }

func (u *UnaryOp) Children() []Node { return nodes(u.Operand) }

func (b *BoolOp) Children() []Node { return nodes(b.Values...) }

func (c *Compare) Children() []Node {
	return join(nodes(c.Left), nodes(c.Comparators...))
}

func (c *Call) Children() []Node {
	return join(nodes(c.Func), nodes(c.Args...), nodes(c.Keywords...))
}

func (k *Keyword) Children() []Node { return nodes(k.Value) }

func (i *IfExp) Children() []Node { return nodes(i.Test, i.Body, i.Orelse) }

func (*Name) Children() []Node         { return nil }
func (*Num) Children() []Node          { return nil }
func (*Str) Children() []Node          { return nil }
func (*NameConstant) Children() []Node { return nil }

func (a *Attribute) Children() []Node { return nodes(a.Value) }

func (s *Subscript) Children() []Node { return nodes[Node](s.Value, s.Slice) }

func (i *Index) Children() []Node { return nodes(i.Value) }

func (s *Slice) Children() []Node { return nodes(s.Lower, s.Upper, s.Step) }

func (e *ExtSlice) Children() []Node { return nodes(e.Dims...) }

func (l *List) Children() []Node { return nodes(l.Elts...) }

func (t *Tuple) Children() []Node { return nodes(t.Elts...) }

func (l *ListComp) Children() []Node {
	return join(nodes(l.Elt), nodes(l.Generators...))
}

func (c *Comprehension) Children() []Node {
	return join(nodes(c.Target, c.Iter), nodes(c.Ifs...))
}
