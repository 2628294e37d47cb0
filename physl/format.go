package physl

import (
	"regexp"
	"strings"
)

// a quoted string, an innermost parenthesized group, or any single byte
var formatToken = regexp.MustCompile(`"[^"]*"|\([^()]*\)|(?s:.)`)

// Format re-indents IR text for reading. Innermost groups such as f(x)
// stay on one line. Every other '(' opens an indentation level of two
// spaces, ',' ends the line, and ')' closes on a line of its own. Quoted
// strings pass through untouched. The result ends with a newline.
func Format(src string) string {
	var b strings.Builder
	indent := 0
	for _, tok := range formatToken.FindAllString(src, -1) {
		switch tok {
		case "(":
			b.WriteString(tok)
			indent++
		case ")":
			indent = max(indent-1, 0)
			b.WriteByte('\n')
			b.WriteString(strings.Repeat("  ", indent))
			b.WriteString(tok)
		case ",":
			b.WriteString(",\n")
			b.WriteString(strings.Repeat("  ", indent))
		default:
			b.WriteString(tok)
		}
	}
	b.WriteByte('\n')
	return b.String()
}
