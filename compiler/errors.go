package compiler

import (
	"errors"
	"fmt"

	"github.com/Yeahhhh/phylanx/libs/pyparser"
)

// Sentinel errors. Every error returned by Locate and the Recompiler
// matches exactly one of these with errors.Is.
var (
	ErrUnsupported     = errors.New("unsupported construct")
	ErrStructure       = errors.New("structural violation")
	ErrMisplacedReturn = errors.New("return outside tail position")
	ErrLookupMiss      = errors.New("no matching child")
	ErrEmptySelector   = errors.New("selector names neither a kind nor an index")
)

func atLine(line int) string {
	if line <= 0 {
		return ""
	}
	return fmt.Sprintf(" at line %d", line)
}

// UnsupportedConstruct reports a node kind with no translation rule, or
// an operator variant a rule does not accept.
type UnsupportedConstruct struct {
	Kind   pyparser.Kind
	Detail string
	Line   int
}

func (e *UnsupportedConstruct) Error() string {
	msg := fmt.Sprintf("unsupported construct %s", e.Kind)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg + atLine(e.Line)
}

func (e *UnsupportedConstruct) Unwrap() error { return ErrUnsupported }

// StructuralViolation reports a node whose shape breaks an arity
// precondition, such as a module with several statements. Err is the
// failed lookup behind it, if any.
type StructuralViolation struct {
	Kind   pyparser.Kind
	Detail string
	Line   int
	Err    error
}

func (e *StructuralViolation) Error() string {
	msg := fmt.Sprintf("malformed %s: %s", e.Kind, e.Detail)
	msg += atLine(e.Line)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *StructuralViolation) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrStructure}
	}
	return []error{ErrStructure, e.Err}
}

// MisplacedReturn reports a return statement that is not in tail position.
type MisplacedReturn struct {
	Line int
}

func (e *MisplacedReturn) Error() string {
	return "return is only allowed at the end of a function" + atLine(e.Line)
}

func (e *MisplacedReturn) Unwrap() error { return ErrMisplacedReturn }

// LookupMiss reports a Locate call that found no child.
type LookupMiss struct {
	Parent   pyparser.Kind
	Line     int
	Selector Selector
}

func (e *LookupMiss) Error() string {
	return fmt.Sprintf("%s has no child %s", e.Parent, e.Selector)
}

func (e *LookupMiss) Unwrap() error { return ErrLookupMiss }

func unsupported(n pyparser.Node, format string, args ...any) error {
	return &UnsupportedConstruct{Kind: n.Kind(), Detail: fmt.Sprintf(format, args...), Line: n.Line()}
}

func malformed(n pyparser.Node, cause error, format string, args ...any) error {
	return &StructuralViolation{Kind: n.Kind(), Detail: fmt.Sprintf(format, args...), Line: n.Line(), Err: cause}
}

// SourcePosition returns the line and column an error points at, or zeros
// when it carries none. Columns are only known for parse errors.
func SourcePosition(err error) (line, col int) {
	var (
		parseErr  *pyparser.ParseError
		unsup     *UnsupportedConstruct
		structure *StructuralViolation
		misplaced *MisplacedReturn
		miss      *LookupMiss
	)
	switch {
	case errors.As(err, &parseErr):
		return parseErr.Line, parseErr.Col
	case errors.As(err, &unsup):
		return unsup.Line, 0
	case errors.As(err, &structure):
		return structure.Line, 0
	case errors.As(err, &misplaced):
		return misplaced.Line, 0
	case errors.As(err, &miss):
		return miss.Line, 0
	}
	return 0, 0
}
