package pyparser

// Operator identifies the operator of BinOp, UnaryOp, BoolOp, Compare and
// AugAssign nodes.
type Operator int

const (
	OpInvalid Operator = iota

	// binary
	Add
	Sub
	Mult
	MatMult
	Div
	FloorDiv
	Mod
	Pow
	LShift
	RShift
	BitOr
	BitXor
	BitAnd

	// unary
	UAdd
	USub
	Not
	Invert

	// boolean
	And
	Or

	// comparison
	Eq
	NotEq
	Lt
	LtE
	Gt
	GtE
	Is
	IsNot
	In
	NotIn
)

var operatorNames = [...]string{
	OpInvalid: "Invalid",
	Add:       "Add",
	Sub:       "Sub",
	Mult:      "Mult",
	MatMult:   "MatMult",
	Div:       "Div",
	FloorDiv:  "FloorDiv",
	Mod:       "Mod",
	Pow:       "Pow",
	LShift:    "LShift",
	RShift:    "RShift",
	BitOr:     "BitOr",
	BitXor:    "BitXor",
	BitAnd:    "BitAnd",
	UAdd:      "UAdd",
	USub:      "USub",
	Not:       "Not",
	Invert:    "Invert",
	And:       "And",
	Or:        "Or",
	Eq:        "Eq",
	NotEq:     "NotEq",
	Lt:        "Lt",
	LtE:       "LtE",
	Gt:        "Gt",
	GtE:       "GtE",
	Is:        "Is",
	IsNot:     "IsNot",
	In:        "In",
	NotIn:     "NotIn",
}

// String returns the Python ast class name of the operator
func (op Operator) String() string {
	if op < 0 || int(op) >= len(operatorNames) {
		return "Invalid"
	}
	return operatorNames[op]
}

// binary operator spellings, including the augmented-assignment forms
var binaryOperators = map[string]Operator{
	"+":  Add,
	"-":  Sub,
	"*":  Mult,
	"@":  MatMult,
	"/":  Div,
	"//": FloorDiv,
	"%":  Mod,
	"**": Pow,
	"<<": LShift,
	">>": RShift,
	"|":  BitOr,
	"^":  BitXor,
	"&":  BitAnd,
}

var comparisonOperators = map[string]Operator{
	"==": Eq,
	"!=": NotEq,
	"<":  Lt,
	"<=": LtE,
	">":  Gt,
	">=": GtE,
}
