package pyparser

import (
	"fmt"
	"strings"
)

// ParseError reports source text the lexer or parser cannot accept.
// Line and Col are 1-based.
type ParseError struct {
	Line int
	Col  int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("syntax error at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// Character classification functions

func isLetter(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isAlphaNumeric(ch byte) bool {
	return isLetter(ch) || isDigit(ch)
}

func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\f'
}

// operators ordered longest first so the lexer munches maximally
var operatorSpellings = []string{
	"**=", "//=", ">>=", "<<=",
	"==", "!=", "<=", ">=", "//", "**", "->", "<<", ">>",
	"+=", "-=", "*=", "/=", "%=", "@=", "&=", "|=", "^=",
}

type lexer struct {
	src         string
	pos         int
	line        int
	col         int
	depth       int // open brackets; newlines inside them are ignored
	atLineStart bool
	indentStack []int
	tokens      []Token
}

// Tokenize converts Python source code into a slice of tokens
func Tokenize(input string) ([]Token, error) {
	lx := &lexer{
		src:         input,
		line:        1,
		col:         1,
		atLineStart: true,
		indentStack: []int{0},
	}
	if err := lx.run(); err != nil {
		return nil, err
	}
	return lx.tokens, nil
}

func (lx *lexer) errorf(format string, args ...any) error {
	return &ParseError{Line: lx.line, Col: lx.col, Msg: fmt.Sprintf(format, args...)}
}

func (lx *lexer) emit(tokenType TokenType, value string, col int) {
	lx.tokens = append(lx.tokens, NewToken(tokenType, value, lx.line, col))
}

func (lx *lexer) advance(n int) {
	lx.pos += n
	lx.col += n
}

func (lx *lexer) lastType() TokenType {
	if len(lx.tokens) == 0 {
		return TokenNewline
	}
	return lx.tokens[len(lx.tokens)-1].Type
}

// newline ends a logical line unless the line produced no tokens
func (lx *lexer) newline() {
	switch lx.lastType() {
	case TokenNewline, TokenIndent, TokenDedent:
	default:
		lx.emit(TokenNewline, "", lx.col)
	}
}

func (lx *lexer) run() error {
	for lx.pos < len(lx.src) {
		ch := lx.src[lx.pos]

		// Handle newlines
		if ch == '\n' {
			if lx.depth == 0 {
				lx.newline()
				lx.atLineStart = true
			}
			lx.pos++
			lx.line++
			lx.col = 1
			continue
		}

		// Handle carriage return (skip it)
		if ch == '\r' {
			lx.pos++
			continue
		}

		// Handle indentation at line start
		if lx.atLineStart {
			done, err := lx.indentation()
			if err != nil {
				return err
			}
			if done {
				break
			}
			continue
		}

		// Skip whitespace (not at line start)
		if isWhitespace(ch) {
			lx.advance(1)
			continue
		}

		// Skip comments
		if ch == '#' {
			lx.skipComment()
			continue
		}

		// Explicit line joining
		if ch == '\\' {
			if lx.pos+1 < len(lx.src) && (lx.src[lx.pos+1] == '\n' || lx.src[lx.pos+1] == '\r') {
				lx.pos++
				if lx.src[lx.pos] == '\r' {
					lx.pos++
				}
				if lx.pos < len(lx.src) && lx.src[lx.pos] == '\n' {
					lx.pos++
				}
				lx.line++
				lx.col = 1
				continue
			}
			return lx.errorf("unexpected character after line continuation")
		}

		// Identifiers and keywords
		if isLetter(ch) {
			lx.identifier()
			continue
		}

		// Numbers
		if isDigit(ch) || ch == '.' && lx.pos+1 < len(lx.src) && isDigit(lx.src[lx.pos+1]) {
			if err := lx.number(); err != nil {
				return err
			}
			continue
		}

		// String literals
		if ch == '"' || ch == '\'' {
			if err := lx.str(); err != nil {
				return err
			}
			continue
		}

		if err := lx.punct(); err != nil {
			return err
		}
	}

	// Close the last logical line, then emit remaining DEDENTs
	lx.newline()
	for len(lx.indentStack) > 1 {
		lx.indentStack = lx.indentStack[:len(lx.indentStack)-1]
		lx.emit(TokenDedent, "", lx.col)
	}
	lx.emit(TokenEOF, "", lx.col)
	return nil
}

// indentation measures the leading whitespace of a line and emits
// INDENT/DEDENT tokens. It reports done when the input is exhausted.
func (lx *lexer) indentation() (bool, error) {
	indent := 0
	for lx.pos < len(lx.src) {
		ch := lx.src[lx.pos]
		if ch == ' ' {
			indent++
		} else if ch == '\t' {
			indent += 4 // Treat tab as 4 spaces
		} else if ch == '\f' {
			indent = 0
		} else {
			break
		}
		lx.advance(1)
	}
	if lx.pos >= len(lx.src) {
		return true, nil
	}

	// Skip blank lines and comment-only lines
	switch lx.src[lx.pos] {
	case '\n', '\r':
		return false, nil
	case '#':
		lx.skipComment()
		return false, nil
	}

	currentIndent := lx.indentStack[len(lx.indentStack)-1]
	if indent > currentIndent {
		lx.indentStack = append(lx.indentStack, indent)
		lx.emit(TokenIndent, "", 1)
	} else if indent < currentIndent {
		// Emit DEDENT tokens for each level we're leaving
		for len(lx.indentStack) > 1 && lx.indentStack[len(lx.indentStack)-1] > indent {
			lx.indentStack = lx.indentStack[:len(lx.indentStack)-1]
			lx.emit(TokenDedent, "", 1)
		}
		if lx.indentStack[len(lx.indentStack)-1] != indent {
			return false, lx.errorf("unindent does not match any outer indentation level")
		}
	}
	lx.atLineStart = false
	return false, nil
}

func (lx *lexer) skipComment() {
	for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' {
		lx.advance(1)
	}
}

func (lx *lexer) identifier() {
	start, col := lx.pos, lx.col
	for lx.pos < len(lx.src) && isAlphaNumeric(lx.src[lx.pos]) {
		lx.advance(1)
	}
	value := lx.src[start:lx.pos]
	if isKeyword(value) {
		lx.emit(TokenKeyword, value, col)
	} else {
		lx.emit(TokenIdentifier, value, col)
	}
}

// number scans decimal, hexadecimal, octal and binary integers and
// decimal floats with optional exponent. Underscore separators are kept;
// the parser validates the literal.
func (lx *lexer) number() error {
	start, col := lx.pos, lx.col
	src := lx.src
	if src[lx.pos] == '0' && lx.pos+1 < len(src) && strings.ContainsRune("xXoObB", rune(src[lx.pos+1])) {
		lx.advance(2)
		for lx.pos < len(src) && (isAlphaNumeric(src[lx.pos])) {
			lx.advance(1)
		}
		lx.emit(TokenNumber, src[start:lx.pos], col)
		return nil
	}
	for lx.pos < len(src) && (isDigit(src[lx.pos]) || src[lx.pos] == '_' || src[lx.pos] == '.') {
		lx.advance(1)
	}
	if lx.pos < len(src) && (src[lx.pos] == 'e' || src[lx.pos] == 'E') {
		lx.advance(1)
		if lx.pos < len(src) && (src[lx.pos] == '+' || src[lx.pos] == '-') {
			lx.advance(1)
		}
		if lx.pos >= len(src) || !isDigit(src[lx.pos]) {
			return lx.errorf("invalid number literal %q", src[start:lx.pos])
		}
		for lx.pos < len(src) && (isDigit(src[lx.pos]) || src[lx.pos] == '_') {
			lx.advance(1)
		}
	}
	if lx.pos < len(src) && isLetter(src[lx.pos]) {
		return lx.errorf("invalid number literal %q", src[start:lx.pos+1])
	}
	lx.emit(TokenNumber, src[start:lx.pos], col)
	return nil
}

// str scans a single- or triple-quoted string literal and decodes its
// escape sequences. Unknown escapes keep their backslash, as Python does.
func (lx *lexer) str() error {
	src := lx.src
	quote := src[lx.pos]
	line, col := lx.line, lx.col
	triple := strings.HasPrefix(src[lx.pos:], strings.Repeat(string(quote), 3))
	if triple {
		lx.advance(3)
	} else {
		lx.advance(1)
	}

	var value strings.Builder
	for {
		if lx.pos >= len(src) {
			return &ParseError{Line: line, Col: col, Msg: "unterminated string literal"}
		}
		ch := src[lx.pos]
		if ch == quote {
			if !triple {
				lx.advance(1)
				break
			}
			if strings.HasPrefix(src[lx.pos:], strings.Repeat(string(quote), 3)) {
				lx.advance(3)
				break
			}
		}
		if ch == '\n' {
			if !triple {
				return &ParseError{Line: line, Col: col, Msg: "unterminated string literal"}
			}
			value.WriteByte(ch)
			lx.pos++
			lx.line++
			lx.col = 1
			continue
		}
		if ch == '\\' && lx.pos+1 < len(src) {
			escaped := src[lx.pos+1]
			switch escaped {
			case 'n':
				value.WriteByte('\n')
			case 't':
				value.WriteByte('\t')
			case 'r':
				value.WriteByte('\r')
			case '0':
				value.WriteByte(0)
			case '\\', '"', '\'':
				value.WriteByte(escaped)
			case '\n':
				// escaped newline joins the lines
				lx.pos += 2
				lx.line++
				lx.col = 1
				continue
			default:
				value.WriteByte('\\')
				value.WriteByte(escaped)
			}
			lx.advance(2)
			continue
		}
		value.WriteByte(ch)
		lx.advance(1)
	}
	lx.tokens = append(lx.tokens, NewToken(TokenString, value.String(), line, col))
	return nil
}

func (lx *lexer) punct() error {
	col := lx.col
	rest := lx.src[lx.pos:]
	for _, op := range operatorSpellings {
		if !strings.HasPrefix(rest, op) {
			continue
		}
		switch {
		case op == "**":
			lx.emit(TokenDoubleStar, op, col)
		case op == "->":
			lx.emit(TokenArrow, op, col)
		case strings.HasSuffix(op, "=") && op != "==" && op != "!=" && op != "<=" && op != ">=":
			lx.emit(TokenAugAssign, op, col)
		default:
			lx.emit(TokenOperator, op, col)
		}
		lx.advance(len(op))
		return nil
	}

	// Single-character tokens
	ch := lx.src[lx.pos]
	switch ch {
	case ':':
		lx.emit(TokenColon, ":", col)
	case ',':
		lx.emit(TokenComma, ",", col)
	case ';':
		lx.emit(TokenSemicolon, ";", col)
	case '(':
		lx.depth++
		lx.emit(TokenLParen, "(", col)
	case ')':
		lx.depth--
		lx.emit(TokenRParen, ")", col)
	case '[':
		lx.depth++
		lx.emit(TokenLBracket, "[", col)
	case ']':
		lx.depth--
		lx.emit(TokenRBracket, "]", col)
	case '{':
		lx.depth++
		lx.emit(TokenLBrace, "{", col)
	case '}':
		lx.depth--
		lx.emit(TokenRBrace, "}", col)
	case '.':
		lx.emit(TokenDot, ".", col)
	case '=':
		lx.emit(TokenAssign, "=", col)
	case '@':
		lx.emit(TokenAt, "@", col)
	case '*':
		lx.emit(TokenStar, "*", col)
	case '+', '-', '/', '%', '<', '>', '&', '|', '^', '~':
		lx.emit(TokenOperator, string(ch), col)
	default:
		return lx.errorf("unexpected character %q", ch)
	}
	if lx.depth < 0 {
		return lx.errorf("unmatched %q", ch)
	}
	lx.advance(1)
	return nil
}
