package pyparser

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// Parse parses Python source code and returns the AST.
//
// The accepted language is the statement and expression subset the
// recompiler deals with plus the common constructs around it (for loops,
// boolean operators, list literals and comprehensions, attributes,
// conditional expressions), so that unsupported code reaches the
// recompiler as a tree and is rejected there with its node kind. Statements
// that have no node in this package (class, import, try, with, ...) are
// parse errors.
func Parse(input string) (*Module, error) {
	tokens, err := Tokenize(input)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	return p.parseModule()
}

type parser struct {
	tokens []Token
	pos    int
}

// Helper functions for token access

func (p *parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return NewToken(TokenEOF, "", 0, 0)
	}
	return p.tokens[p.pos]
}

func (p *parser) peekType() TokenType {
	return p.peek().Type
}

func (p *parser) next() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *parser) atKeyword(value string) bool {
	tok := p.peek()
	return tok.Type == TokenKeyword && tok.Value == value
}

func (p *parser) atOperator(value string) bool {
	tok := p.peek()
	switch tok.Type {
	case TokenOperator, TokenStar, TokenAt, TokenDoubleStar:
		return tok.Value == value
	}
	return false
}

func (p *parser) errorf(tok Token, format string, args ...any) error {
	return &ParseError{Line: tok.Line, Col: tok.Col, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) expect(tokenType TokenType, what string) (Token, error) {
	tok := p.peek()
	if tok.Type != tokenType {
		return tok, p.errorf(tok, "expected %s, found %s", what, describe(tok))
	}
	p.pos++
	return tok, nil
}

func (p *parser) expectKeyword(value string) (Token, error) {
	tok := p.peek()
	if !p.atKeyword(value) {
		return tok, p.errorf(tok, "expected %q, found %s", value, describe(tok))
	}
	p.pos++
	return tok, nil
}

func describe(tok Token) string {
	switch tok.Type {
	case TokenEOF:
		return "end of input"
	case TokenNewline:
		return "end of line"
	case TokenIndent:
		return "unexpected indent"
	case TokenDedent:
		return "unindent"
	}
	return strconv.Quote(tok.Value)
}

// parseModule parses the top-level module
func (p *parser) parseModule() (*Module, error) {
	module := &Module{Position: Position{Lineno: 1}}
	for p.peekType() != TokenEOF {
		if p.peekType() == TokenNewline {
			p.pos++
			continue
		}
		if p.peekType() == TokenIndent {
			return nil, p.errorf(p.peek(), "unexpected indent")
		}
		stmts, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		module.Body = append(module.Body, stmts...)
	}
	return module, nil
}

// parseStatement parses one statement. A line of semicolon-separated
// simple statements yields several.
func (p *parser) parseStatement() ([]Stmt, error) {
	tok := p.peek()

	if tok.Type == TokenAt {
		stmt, err := p.parseDecorated()
		return []Stmt{stmt}, err
	}

	if tok.Type == TokenKeyword {
		var stmt Stmt
		var err error
		switch tok.Value {
		case "def":
			stmt, err = p.parseFunctionDef(nil, tok.Line)
		case "if":
			stmt, err = p.parseIf()
		case "while":
			stmt, err = p.parseWhile()
		case "for":
			stmt, err = p.parseFor()
		default:
			return p.parseSimpleStatements()
		}
		if err != nil {
			return nil, err
		}
		return []Stmt{stmt}, nil
	}

	return p.parseSimpleStatements()
}

// parseSimpleStatements parses `stmt (';' stmt)* [';'] NEWLINE`
func (p *parser) parseSimpleStatements() ([]Stmt, error) {
	var stmts []Stmt
	for {
		stmt, err := p.parseSimpleStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		if p.peekType() != TokenSemicolon {
			break
		}
		p.pos++
		if p.peekType() == TokenNewline || p.peekType() == TokenEOF {
			break
		}
	}
	if p.peekType() == TokenEOF {
		return stmts, nil
	}
	if _, err := p.expect(TokenNewline, "end of line"); err != nil {
		return nil, err
	}
	return stmts, nil
}

func (p *parser) parseSimpleStatement() (Stmt, error) {
	tok := p.peek()
	pos := Position{Lineno: tok.Line}

	if tok.Type == TokenKeyword {
		switch tok.Value {
		case "return":
			p.pos++
			node := &Return{Position: pos}
			if p.canStartExpression() {
				value, err := p.parseExprList()
				if err != nil {
					return nil, err
				}
				node.Value = value
			}
			return node, nil
		case "pass":
			p.pos++
			return &Pass{Position: pos}, nil
		case "break":
			p.pos++
			return &Break{Position: pos}, nil
		case "continue":
			p.pos++
			return &Continue{Position: pos}, nil
		case "not", "lambda", "None", "True", "False", "await":
			// expression keywords fall through to the expression statement
		default:
			return nil, p.errorf(tok, "unsupported statement %q", tok.Value)
		}
	}

	first, err := p.parseExprList()
	if err != nil {
		return nil, err
	}

	switch p.peekType() {
	case TokenAssign:
		return p.parseAssignment(pos, first)
	case TokenAugAssign:
		return p.parseAugmentedAssignment(pos, first)
	case TokenColon:
		return nil, p.errorf(p.peek(), "annotated assignments are not supported")
	}
	return &ExprStmt{Position: pos, Value: first}, nil
}

// parseAssignment parses an assignment statement, including chained
// targets like a = b = c = 1. The last expression is the value.
func (p *parser) parseAssignment(pos Position, first Expr) (Stmt, error) {
	node := &Assign{Position: pos}
	exprs := []Expr{first}
	for p.peekType() == TokenAssign {
		p.pos++
		value, err := p.parseExprList()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, value)
	}
	node.Targets = exprs[:len(exprs)-1]
	node.Value = exprs[len(exprs)-1]
	for _, target := range node.Targets {
		if err := p.checkTarget(target); err != nil {
			return nil, err
		}
	}
	return node, nil
}

// parseAugmentedAssignment parses `target op= value`
func (p *parser) parseAugmentedAssignment(pos Position, target Expr) (Stmt, error) {
	opTok := p.next()
	op, ok := binaryOperators[strings.TrimSuffix(opTok.Value, "=")]
	if !ok {
		return nil, p.errorf(opTok, "unknown operator %q", opTok.Value)
	}
	switch target.(type) {
	case *Name, *Subscript, *Attribute:
	default:
		return nil, p.errorf(opTok, "illegal expression for augmented assignment")
	}
	value, err := p.parseExprList()
	if err != nil {
		return nil, err
	}
	return &AugAssign{Position: pos, Target: target, Op: op, Value: value}, nil
}

func (p *parser) checkTarget(target Expr) error {
	switch t := target.(type) {
	case *Name, *Subscript, *Attribute:
		return nil
	case *Tuple:
		for _, elt := range t.Elts {
			if err := p.checkTarget(elt); err != nil {
				return err
			}
		}
		return nil
	case *List:
		for _, elt := range t.Elts {
			if err := p.checkTarget(elt); err != nil {
				return err
			}
		}
		return nil
	}
	return &ParseError{Line: target.Line(), Col: 1, Msg: fmt.Sprintf("cannot assign to %s", target.Kind())}
}

// parseDecorated parses `@expr NEWLINE` lines followed by a def
func (p *parser) parseDecorated() (Stmt, error) {
	line := p.peek().Line
	var decorators []Expr
	for p.peekType() == TokenAt {
		p.pos++
		expr, err := p.parseTest()
		if err != nil {
			return nil, err
		}
		decorators = append(decorators, expr)
		if _, err := p.expect(TokenNewline, "end of line after decorator"); err != nil {
			return nil, err
		}
	}
	if !p.atKeyword("def") {
		return nil, p.errorf(p.peek(), "decorators must precede a function definition")
	}
	return p.parseFunctionDef(decorators, line)
}

// parseFunctionDef parses a function definition. Parameter and return
// annotations are accepted and dropped.
func (p *parser) parseFunctionDef(decorators []Expr, line int) (Stmt, error) {
	defTok := p.next()
	node := &FunctionDef{Position: Position{Lineno: line}, Decorators: decorators}

	nameTok, err := p.expect(TokenIdentifier, "function name")
	if err != nil {
		return nil, err
	}
	node.Name = nameTok.Value

	if _, err := p.expect(TokenLParen, "'('"); err != nil {
		return nil, err
	}
	args, err := p.parseParameters(defTok.Line)
	if err != nil {
		return nil, err
	}
	node.Args = args

	// Return type annotation (-> type)
	if p.peekType() == TokenArrow {
		p.pos++
		if _, err := p.parseTest(); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(TokenColon, "':'"); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	node.Body = body
	return node, nil
}

// parseParameters parses the parameter list up to and including ')'
func (p *parser) parseParameters(line int) (*Arguments, error) {
	args := &Arguments{Position: Position{Lineno: line}}
	for p.peekType() != TokenRParen {
		tok := p.peek()
		switch {
		case tok.Type == TokenDoubleStar:
			p.pos++
			nameTok, err := p.expect(TokenIdentifier, "parameter name")
			if err != nil {
				return nil, err
			}
			args.Kwarg = &Arg{Position: Position{Lineno: nameTok.Line}, Name: nameTok.Value}
		case tok.Type == TokenStar:
			p.pos++
			if p.peekType() != TokenIdentifier {
				return nil, p.errorf(tok, "keyword-only parameters are not supported")
			}
			nameTok := p.next()
			args.Vararg = &Arg{Position: Position{Lineno: nameTok.Line}, Name: nameTok.Value}
		case tok.Type == TokenIdentifier:
			p.pos++
			args.Args = append(args.Args, &Arg{Position: Position{Lineno: tok.Line}, Name: tok.Value})
			// Check for type annotation
			if p.peekType() == TokenColon {
				p.pos++
				if _, err := p.parseTest(); err != nil {
					return nil, err
				}
			}
			// Check for default value
			if p.peekType() == TokenAssign {
				p.pos++
				def, err := p.parseTest()
				if err != nil {
					return nil, err
				}
				args.Defaults = append(args.Defaults, def)
			}
		default:
			return nil, p.errorf(tok, "expected parameter, found %s", describe(tok))
		}
		if p.peekType() == TokenComma {
			p.pos++
			continue
		}
		if p.peekType() != TokenRParen {
			return nil, p.errorf(p.peek(), "expected ',' or ')', found %s", describe(p.peek()))
		}
	}
	p.pos++
	return args, nil
}

// parseBlock parses the suite after a colon: an indented block of
// statements or simple statements on the same line
func (p *parser) parseBlock() ([]Stmt, error) {
	if p.peekType() != TokenNewline {
		return p.parseSimpleStatements()
	}
	p.pos++
	if _, err := p.expect(TokenIndent, "an indented block"); err != nil {
		return nil, err
	}
	var body []Stmt
	for p.peekType() != TokenDedent && p.peekType() != TokenEOF {
		stmts, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmts...)
	}
	if p.peekType() == TokenDedent {
		p.pos++
	}
	return body, nil
}

// parseIf parses an if statement; elif becomes a nested If in Orelse
func (p *parser) parseIf() (Stmt, error) {
	tok := p.next() // 'if' or 'elif'
	node := &If{Position: Position{Lineno: tok.Line}}

	test, err := p.parseTest()
	if err != nil {
		return nil, err
	}
	node.Test = test
	if _, err := p.expect(TokenColon, "':'"); err != nil {
		return nil, err
	}
	if node.Body, err = p.parseBlock(); err != nil {
		return nil, err
	}

	switch {
	case p.atKeyword("elif"):
		elif, err := p.parseIf()
		if err != nil {
			return nil, err
		}
		node.Orelse = []Stmt{elif}
	case p.atKeyword("else"):
		if node.Orelse, err = p.parseElse(); err != nil {
			return nil, err
		}
	}
	return node, nil
}

// parseElse parses an else clause
func (p *parser) parseElse() ([]Stmt, error) {
	p.pos++
	if _, err := p.expect(TokenColon, "':'"); err != nil {
		return nil, err
	}
	return p.parseBlock()
}

// parseWhile parses a while statement (including optional else clause)
func (p *parser) parseWhile() (Stmt, error) {
	tok := p.next()
	node := &While{Position: Position{Lineno: tok.Line}}

	test, err := p.parseTest()
	if err != nil {
		return nil, err
	}
	node.Test = test
	if _, err := p.expect(TokenColon, "':'"); err != nil {
		return nil, err
	}
	if node.Body, err = p.parseBlock(); err != nil {
		return nil, err
	}
	if p.atKeyword("else") {
		if node.Orelse, err = p.parseElse(); err != nil {
			return nil, err
		}
	}
	return node, nil
}

// parseFor parses a for statement (including optional else clause)
func (p *parser) parseFor() (Stmt, error) {
	tok := p.next()
	node := &For{Position: Position{Lineno: tok.Line}}

	target, err := p.parseTargetList()
	if err != nil {
		return nil, err
	}
	if err := p.checkTarget(target); err != nil {
		return nil, err
	}
	node.Target = target
	if _, err := p.expectKeyword("in"); err != nil {
		return nil, err
	}
	if node.Iter, err = p.parseExprList(); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenColon, "':'"); err != nil {
		return nil, err
	}
	if node.Body, err = p.parseBlock(); err != nil {
		return nil, err
	}
	if p.atKeyword("else") {
		if node.Orelse, err = p.parseElse(); err != nil {
			return nil, err
		}
	}
	return node, nil
}

// canStartExpression reports whether the next token can begin an expression
func (p *parser) canStartExpression() bool {
	tok := p.peek()
	switch tok.Type {
	case TokenIdentifier, TokenNumber, TokenString, TokenLParen, TokenLBracket, TokenLBrace:
		return true
	case TokenOperator:
		return tok.Value == "-" || tok.Value == "+" || tok.Value == "~"
	case TokenKeyword:
		switch tok.Value {
		case "not", "lambda", "None", "True", "False", "await":
			return true
		}
	}
	return false
}

// parseExprList parses `test (',' test)* [',']`; a comma makes a Tuple
func (p *parser) parseExprList() (Expr, error) {
	return p.parseSequence(p.parseTest)
}

// parseTargetList parses for-loop targets, which stop before 'in'
func (p *parser) parseTargetList() (Expr, error) {
	return p.parseSequence(p.parseBitwiseOr)
}

func (p *parser) parseSequence(item func() (Expr, error)) (Expr, error) {
	line := p.peek().Line
	first, err := item()
	if err != nil {
		return nil, err
	}
	if p.peekType() != TokenComma {
		return first, nil
	}
	tuple := &Tuple{Position: Position{Lineno: line}, Elts: []Expr{first}}
	for p.peekType() == TokenComma {
		p.pos++
		if !p.canStartExpression() {
			break // Trailing comma
		}
		elt, err := item()
		if err != nil {
			return nil, err
		}
		tuple.Elts = append(tuple.Elts, elt)
	}
	return tuple, nil
}

// parseTest parses a full expression including the conditional form
// `body if test else orelse`
func (p *parser) parseTest() (Expr, error) {
	tok := p.peek()
	switch {
	case p.atKeyword("lambda"):
		return nil, p.errorf(tok, "lambda expressions are not supported")
	case p.atKeyword("await"), p.atKeyword("yield"):
		return nil, p.errorf(tok, "%s expressions are not supported", tok.Value)
	}

	body, err := p.parseOrTest()
	if err != nil {
		return nil, err
	}
	if !p.atKeyword("if") {
		return body, nil
	}
	p.pos++
	test, err := p.parseOrTest()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKeyword("else"); err != nil {
		return nil, err
	}
	orelse, err := p.parseTest()
	if err != nil {
		return nil, err
	}
	return &IfExp{Position: Position{Lineno: tok.Line}, Test: test, Body: body, Orelse: orelse}, nil
}

// parseOrTest parses 'or' expressions
func (p *parser) parseOrTest() (Expr, error) {
	return p.parseBoolOp("or", Or, p.parseAndTest)
}

// parseAndTest parses 'and' expressions
func (p *parser) parseAndTest() (Expr, error) {
	return p.parseBoolOp("and", And, p.parseNotTest)
}

func (p *parser) parseBoolOp(keyword string, op Operator, operand func() (Expr, error)) (Expr, error) {
	line := p.peek().Line
	left, err := operand()
	if err != nil {
		return nil, err
	}
	if !p.atKeyword(keyword) {
		return left, nil
	}
	node := &BoolOp{Position: Position{Lineno: line}, Op: op, Values: []Expr{left}}
	for p.atKeyword(keyword) {
		p.pos++
		right, err := operand()
		if err != nil {
			return nil, err
		}
		node.Values = append(node.Values, right)
	}
	return node, nil
}

// parseNotTest parses 'not' expressions
func (p *parser) parseNotTest() (Expr, error) {
	if p.atKeyword("not") {
		tok := p.next()
		operand, err := p.parseNotTest()
		if err != nil {
			return nil, err
		}
		return &UnaryOp{Position: Position{Lineno: tok.Line}, Op: Not, Operand: operand}, nil
	}
	return p.parseComparison()
}

// parseComparison parses comparison expressions including chained comparisons
// e.g., 1 < x < 10 becomes one Compare with two ops
func (p *parser) parseComparison() (Expr, error) {
	line := p.peek().Line
	left, err := p.parseBitwiseOr()
	if err != nil {
		return nil, err
	}
	var node *Compare
	for {
		op, ok := p.comparisonOperator()
		if !ok {
			break
		}
		right, err := p.parseBitwiseOr()
		if err != nil {
			return nil, err
		}
		if node == nil {
			node = &Compare{Position: Position{Lineno: line}, Left: left}
		}
		node.Ops = append(node.Ops, op)
		node.Comparators = append(node.Comparators, right)
	}
	if node == nil {
		return left, nil
	}
	return node, nil
}

// comparisonOperator consumes a comparison operator if one is next
func (p *parser) comparisonOperator() (Operator, bool) {
	tok := p.peek()
	if tok.Type == TokenOperator {
		if op, ok := comparisonOperators[tok.Value]; ok {
			p.pos++
			return op, true
		}
		return OpInvalid, false
	}
	switch {
	case p.atKeyword("in"):
		p.pos++
		return In, true
	case p.atKeyword("is"):
		p.pos++
		if p.atKeyword("not") {
			p.pos++
			return IsNot, true
		}
		return Is, true
	case p.atKeyword("not") && p.pos+1 < len(p.tokens) &&
		p.tokens[p.pos+1].Type == TokenKeyword && p.tokens[p.pos+1].Value == "in":
		p.pos += 2
		return NotIn, true
	}
	return OpInvalid, false
}

// binary operator levels from loosest to tightest
var binaryLevels = [][]string{
	{"|"},
	{"^"},
	{"&"},
	{"<<", ">>"},
	{"+", "-"},
	{"*", "/", "//", "%", "@"},
}

// parseBitwiseOr parses the arithmetic and bitwise operator levels
func (p *parser) parseBitwiseOr() (Expr, error) {
	return p.parseBinaryLevel(0)
}

func (p *parser) parseBinaryLevel(level int) (Expr, error) {
	if level == len(binaryLevels) {
		return p.parseFactor()
	}
	line := p.peek().Line
	left, err := p.parseBinaryLevel(level + 1)
	if err != nil {
		return nil, err
	}
	for {
		spelling, ok := p.levelOperator(level)
		if !ok {
			return left, nil
		}
		p.pos++
		right, err := p.parseBinaryLevel(level + 1)
		if err != nil {
			return nil, err
		}
		left = &BinOp{Position: Position{Lineno: line}, Left: left, Op: binaryOperators[spelling], Right: right}
	}
}

func (p *parser) levelOperator(level int) (string, bool) {
	for _, spelling := range binaryLevels[level] {
		if p.atOperator(spelling) {
			return spelling, true
		}
	}
	return "", false
}

// parseFactor parses unary operators (-, +, ~)
func (p *parser) parseFactor() (Expr, error) {
	tok := p.peek()
	var op Operator
	switch {
	case p.atOperator("-"):
		op = USub
	case p.atOperator("+"):
		op = UAdd
	case p.atOperator("~"):
		op = Invert
	default:
		return p.parsePower()
	}
	p.pos++
	operand, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	return &UnaryOp{Position: Position{Lineno: tok.Line}, Op: op, Operand: operand}, nil
}

// parsePower parses `primary ** factor`, which binds tighter than a unary
// operator on its left and associates to the right
func (p *parser) parsePower() (Expr, error) {
	line := p.peek().Line
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.peekType() != TokenDoubleStar {
		return base, nil
	}
	p.pos++
	exponent, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	return &BinOp{Position: Position{Lineno: line}, Left: base, Op: Pow, Right: exponent}, nil
}

// parsePrimary parses primary expressions (atoms, calls, subscripts, attributes)
func (p *parser) parsePrimary() (Expr, error) {
	node, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peekType() {
		case TokenLParen:
			node, err = p.parseCall(node)
		case TokenLBracket:
			node, err = p.parseSubscript(node)
		case TokenDot:
			p.pos++
			var attrTok Token
			attrTok, err = p.expect(TokenIdentifier, "attribute name")
			if err == nil {
				node = &Attribute{Position: Position{Lineno: node.Line()}, Value: node, Attr: attrTok.Value}
			}
		default:
			return node, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// parseAtom parses atomic expressions
func (p *parser) parseAtom() (Expr, error) {
	tok := p.peek()
	pos := Position{Lineno: tok.Line}

	switch tok.Type {
	case TokenNumber:
		p.pos++
		return parseNumber(tok)

	case TokenString:
		// Adjacent literals concatenate
		var s strings.Builder
		for p.peekType() == TokenString {
			s.WriteString(p.next().Value)
		}
		return &Str{Position: pos, S: s.String()}, nil

	case TokenIdentifier:
		p.pos++
		return &Name{Position: pos, ID: tok.Value}, nil

	case TokenKeyword:
		switch tok.Value {
		case "True", "False", "None":
			p.pos++
			return &NameConstant{Position: pos, Value: tok.Value}, nil
		}

	case TokenLParen:
		return p.parseParenthesized()

	case TokenLBracket:
		return p.parseListLiteral()

	case TokenLBrace:
		return nil, p.errorf(tok, "dict and set literals are not supported")
	}

	return nil, p.errorf(tok, "unexpected %s", describe(tok))
}

// parseParenthesized parses (), (expr) and tuples
func (p *parser) parseParenthesized() (Expr, error) {
	open := p.next()
	if p.peekType() == TokenRParen {
		p.pos++
		return &Tuple{Position: Position{Lineno: open.Line}}, nil
	}
	expr, err := p.parseTest()
	if err != nil {
		return nil, err
	}
	if p.atKeyword("for") {
		return nil, p.errorf(p.peek(), "generator expressions are not supported")
	}
	if p.peekType() == TokenComma {
		tuple := &Tuple{Position: Position{Lineno: open.Line}, Elts: []Expr{expr}}
		for p.peekType() == TokenComma {
			p.pos++
			if p.peekType() == TokenRParen {
				break
			}
			elt, err := p.parseTest()
			if err != nil {
				return nil, err
			}
			tuple.Elts = append(tuple.Elts, elt)
		}
		expr = tuple
	}
	if _, err := p.expect(TokenRParen, "')'"); err != nil {
		return nil, err
	}
	return expr, nil
}

// parseListLiteral parses a list literal [...] or list comprehension [expr for x in iter]
func (p *parser) parseListLiteral() (Expr, error) {
	open := p.next()
	pos := Position{Lineno: open.Line}
	list := &List{Position: pos}
	if p.peekType() == TokenRBracket {
		p.pos++
		return list, nil
	}
	first, err := p.parseTest()
	if err != nil {
		return nil, err
	}
	if p.atKeyword("for") {
		return p.parseListComprehension(pos, first)
	}
	list.Elts = append(list.Elts, first)
	for p.peekType() == TokenComma {
		p.pos++
		if p.peekType() == TokenRBracket {
			break
		}
		elt, err := p.parseTest()
		if err != nil {
			return nil, err
		}
		list.Elts = append(list.Elts, elt)
	}
	if _, err := p.expect(TokenRBracket, "']'"); err != nil {
		return nil, err
	}
	return list, nil
}

func (p *parser) parseListComprehension(pos Position, elt Expr) (Expr, error) {
	node := &ListComp{Position: pos, Elt: elt}
	for p.atKeyword("for") {
		tok := p.next()
		gen := &Comprehension{Position: Position{Lineno: tok.Line}}
		target, err := p.parseTargetList()
		if err != nil {
			return nil, err
		}
		gen.Target = target
		if _, err := p.expectKeyword("in"); err != nil {
			return nil, err
		}
		if gen.Iter, err = p.parseOrTest(); err != nil {
			return nil, err
		}
		for p.atKeyword("if") {
			p.pos++
			cond, err := p.parseOrTest()
			if err != nil {
				return nil, err
			}
			gen.Ifs = append(gen.Ifs, cond)
		}
		node.Generators = append(node.Generators, gen)
	}
	if _, err := p.expect(TokenRBracket, "']'"); err != nil {
		return nil, err
	}
	return node, nil
}

// parseCall parses a function call
func (p *parser) parseCall(fn Expr) (Expr, error) {
	p.pos++ // Skip '('
	node := &Call{Position: Position{Lineno: fn.Line()}, Func: fn}
	for p.peekType() != TokenRParen {
		tok := p.peek()
		switch {
		case tok.Type == TokenStar || tok.Type == TokenDoubleStar:
			return nil, p.errorf(tok, "argument unpacking is not supported")
		case tok.Type == TokenIdentifier && p.pos+1 < len(p.tokens) && p.tokens[p.pos+1].Type == TokenAssign:
			// Keyword argument: name=value
			p.pos += 2
			value, err := p.parseTest()
			if err != nil {
				return nil, err
			}
			node.Keywords = append(node.Keywords, &Keyword{Position: Position{Lineno: tok.Line}, Arg: tok.Value, Value: value})
		default:
			arg, err := p.parseTest()
			if err != nil {
				return nil, err
			}
			if p.atKeyword("for") {
				return nil, p.errorf(p.peek(), "generator expressions are not supported")
			}
			node.Args = append(node.Args, arg)
		}
		if p.peekType() == TokenComma {
			p.pos++
			continue
		}
		if p.peekType() != TokenRParen {
			return nil, p.errorf(p.peek(), "expected ',' or ')', found %s", describe(p.peek()))
		}
	}
	p.pos++ // Skip ')'
	return node, nil
}

// parseSubscript parses a subscript expression or slice
// x[0], x[1:3], x[::2], x[1:], x[:3], x[1:3:2], m[:, 2:]
func (p *parser) parseSubscript(value Expr) (Expr, error) {
	open := p.next()
	pos := Position{Lineno: value.Line()}

	var items []Node
	hasComma := false
	for {
		item, err := p.parseSubscriptItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if p.peekType() != TokenComma {
			break
		}
		hasComma = true
		p.pos++
		if p.peekType() == TokenRBracket {
			break
		}
	}
	if _, err := p.expect(TokenRBracket, "']'"); err != nil {
		return nil, err
	}

	node := &Subscript{Position: pos, Value: value}
	hasSlice := false
	for _, item := range items {
		if _, ok := item.(*Slice); ok {
			hasSlice = true
		}
	}

	switch {
	case !hasComma && hasSlice:
		node.Slice = items[0]
	case !hasComma:
		node.Slice = &Index{Position: Position{Lineno: open.Line}, Value: items[0].(Expr)}
	case hasSlice:
		ext := &ExtSlice{Position: Position{Lineno: open.Line}}
		for _, item := range items {
			if e, ok := item.(Expr); ok {
				item = &Index{Position: Position{Lineno: e.Line()}, Value: e}
			}
			ext.Dims = append(ext.Dims, item)
		}
		node.Slice = ext
	default:
		tuple := &Tuple{Position: Position{Lineno: open.Line}}
		for _, item := range items {
			tuple.Elts = append(tuple.Elts, item.(Expr))
		}
		node.Slice = &Index{Position: Position{Lineno: open.Line}, Value: tuple}
	}
	return node, nil
}

// parseSubscriptItem parses one comma-separated subscript entry: either
// an expression or a `[lower]:[upper][:[step]]` slice
func (p *parser) parseSubscriptItem() (Node, error) {
	line := p.peek().Line
	var lower Expr
	if p.peekType() != TokenColon {
		expr, err := p.parseTest()
		if err != nil {
			return nil, err
		}
		if p.peekType() != TokenColon {
			return expr, nil
		}
		lower = expr
	}
	p.pos++ // Skip ':'

	slice := &Slice{Position: Position{Lineno: line}, Lower: lower}
	if p.sliceBoundFollows() {
		upper, err := p.parseTest()
		if err != nil {
			return nil, err
		}
		slice.Upper = upper
	}
	if p.peekType() == TokenColon {
		p.pos++
		if p.sliceBoundFollows() {
			step, err := p.parseTest()
			if err != nil {
				return nil, err
			}
			slice.Step = step
		}
	}
	return slice, nil
}

func (p *parser) sliceBoundFollows() bool {
	switch p.peekType() {
	case TokenColon, TokenComma, TokenRBracket:
		return false
	}
	return true
}

// parseNumber converts a number token into a Num node. Integers keep
// arbitrary precision; any base prefix is accepted.
func parseNumber(tok Token) (Expr, error) {
	text := strings.ReplaceAll(tok.Value, "_", "")
	pos := Position{Lineno: tok.Line}
	bad := &ParseError{Line: tok.Line, Col: tok.Col, Msg: fmt.Sprintf("invalid number literal %q", tok.Value)}

	lower := strings.ToLower(text)
	prefixed := strings.HasPrefix(lower, "0x") || strings.HasPrefix(lower, "0o") || strings.HasPrefix(lower, "0b")
	if !prefixed && strings.ContainsAny(lower, ".e") {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, bad
		}
		return &Num{Position: pos, Float: f, IsFloat: true}, nil
	}

	base := 10
	if prefixed {
		base = 0
	} else if len(text) > 1 && text[0] == '0' && strings.Trim(text, "0") != "" {
		// Python rejects leading zeros in non-zero decimal integers
		return nil, bad
	}
	n, ok := new(big.Int).SetString(text, base)
	if !ok {
		return nil, bad
	}
	return &Num{Position: pos, Int: n}, nil
}
