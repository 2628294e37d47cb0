// Package physl holds the PhySL target IR as a small value tree and its
// text serialization.
//
// The tree only records what the text needs: call forms with ordered
// arguments, infix arithmetic and comparisons, negation, the tail-return
// marker and bare comma sequences. Serialize is the only producer of IR
// text; nodes never carry pre-rendered fragments except Atom.
package physl

import "strings"

// Node is one value of the IR tree.
type Node interface {
	// String returns the serialized IR text of the subtree.
	String() string
	write(b *strings.Builder)
}

// Atom is a literal or identifier emitted verbatim.
type Atom string

// Call is a prefix call form: Name(arg1,arg2,...).
type Call struct {
	Name string
	Args []Node
}

// Binary is an infix expression. Spaced puts one space on each side of
// the operator; Grouped wraps the whole expression in parentheses.
type Binary struct {
	Op      string
	Left    Node
	Right   Node
	Spaced  bool
	Grouped bool
}

// Negate is a unary minus, written -(x) when Grouped and -x otherwise.
type Negate struct {
	Operand Node
	Grouped bool
}

// Tail is a value returned from the last statement of a function body.
// It serializes as the value prefixed with one space.
type Tail struct {
	Value Node
}

// Seq is a comma-separated run of nodes with no surrounding call.
type Seq []Node

// NewCall returns the call form name(args...).
func NewCall(name string, args ...Node) *Call {
	return &Call{Name: name, Args: args}
}

// Block returns block(stmts...). An empty block serializes as block().
func Block(stmts ...Node) *Call {
	return NewCall("block", stmts...)
}

// Serialize renders n as IR text. A nil node renders as the empty string.
func Serialize(n Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (a Atom) String() string    { return string(a) }
func (c *Call) String() string   { return Serialize(c) }
func (x *Binary) String() string { return Serialize(x) }
func (x *Negate) String() string { return Serialize(x) }
func (t *Tail) String() string   { return Serialize(t) }
func (s Seq) String() string     { return Serialize(s) }

func (a Atom) write(b *strings.Builder) {
	b.WriteString(string(a))
}

func (c *Call) write(b *strings.Builder) {
	b.WriteString(c.Name)
	b.WriteByte('(')
	writeList(b, c.Args)
	b.WriteByte(')')
}

func (x *Binary) write(b *strings.Builder) {
	if x.Grouped {
		b.WriteByte('(')
	}
	x.Left.write(b)
	if x.Spaced {
		b.WriteByte(' ')
		b.WriteString(x.Op)
		b.WriteByte(' ')
	} else {
		b.WriteString(x.Op)
	}
	x.Right.write(b)
	if x.Grouped {
		b.WriteByte(')')
	}
}

func (x *Negate) write(b *strings.Builder) {
	b.WriteByte('-')
	if x.Grouped {
		b.WriteByte('(')
	}
	x.Operand.write(b)
	if x.Grouped {
		b.WriteByte(')')
	}
}

func (t *Tail) write(b *strings.Builder) {
	b.WriteByte(' ')
	t.Value.write(b)
}

func (s Seq) write(b *strings.Builder) {
	writeList(b, s)
}

func writeList(b *strings.Builder, nodes []Node) {
	for i, n := range nodes {
		if i > 0 {
			b.WriteByte(',')
		}
		n.write(b)
	}
}
