package pyparser

import "fmt"

// TokenType classifies a lexical token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenNewline
	TokenIndent
	TokenDedent
	TokenIdentifier
	TokenNumber
	TokenString
	TokenOperator
	TokenKeyword
	TokenColon
	TokenComma
	TokenLParen
	TokenRParen
	TokenLBracket
	TokenRBracket
	TokenLBrace
	TokenRBrace
	TokenDot
	TokenAssign
	TokenAt
	TokenStar
	TokenDoubleStar
	TokenArrow     // -> for type hints
	TokenAugAssign // +=, -=, *=, /=, //=, %=, **=, ...
	TokenSemicolon
)

// Token represents a lexical token
type Token struct {
	Type  TokenType
	Value string
	Line  int
	Col   int
}

// NewToken creates a new token
func NewToken(tokenType TokenType, value string, line int, col int) Token {
	return Token{
		Type:  tokenType,
		Value: value,
		Line:  line,
		Col:   col,
	}
}

func (t Token) String() string {
	if t.Value == "" {
		return t.Type.String()
	}
	return fmt.Sprintf("%s %q", t.Type, t.Value)
}

var keywords = map[string]struct{}{
	"False": {}, "None": {}, "True": {}, "and": {}, "as": {}, "assert": {},
	"async": {}, "await": {}, "break": {}, "class": {}, "continue": {},
	"def": {}, "del": {}, "elif": {}, "else": {}, "except": {}, "finally": {},
	"for": {}, "from": {}, "global": {}, "if": {}, "import": {}, "in": {},
	"is": {}, "lambda": {}, "nonlocal": {}, "not": {}, "or": {}, "pass": {},
	"raise": {}, "return": {}, "try": {}, "while": {}, "with": {}, "yield": {},
}

// isKeyword reports whether s is a reserved Python keyword.
// print is an ordinary identifier in Python 3.
func isKeyword(s string) bool {
	_, ok := keywords[s]
	return ok
}

var tokenTypeNames = map[TokenType]string{
	TokenEOF:        "EOF",
	TokenNewline:    "NEWLINE",
	TokenIndent:     "INDENT",
	TokenDedent:     "DEDENT",
	TokenIdentifier: "IDENTIFIER",
	TokenNumber:     "NUMBER",
	TokenString:     "STRING",
	TokenOperator:   "OPERATOR",
	TokenKeyword:    "KEYWORD",
	TokenColon:      "COLON",
	TokenComma:      "COMMA",
	TokenLParen:     "LPAREN",
	TokenRParen:     "RPAREN",
	TokenLBracket:   "LBRACKET",
	TokenRBracket:   "RBRACKET",
	TokenLBrace:     "LBRACE",
	TokenRBrace:     "RBRACE",
	TokenDot:        "DOT",
	TokenAssign:     "ASSIGN",
	TokenAt:         "AT",
	TokenStar:       "STAR",
	TokenDoubleStar: "DOUBLESTAR",
	TokenArrow:      "ARROW",
	TokenAugAssign:  "AUGASSIGN",
	TokenSemicolon:  "SEMICOLON",
}

// String returns a human-readable name for token type
func (t TokenType) String() string {
	if name, ok := tokenTypeNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}
