package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Yeahhhh/phylanx/compiler"
	"github.com/Yeahhhh/phylanx/libs/pyparser"
)

// checkErrors holds every construct the checker rejected in one input.
type checkErrors []error

func (e checkErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}

// reportErrors prints err, or each error of a checkErrors, with the
// offending source line.
func reportErrors(w io.Writer, filename, src string, err error) {
	var all checkErrors
	if errors.As(err, &all) {
		for _, e := range all {
			reportError(w, filename, src, e)
		}
		return
	}
	reportError(w, filename, src, err)
}

// reportError prints one error in the layout
//
//	Syntax error: message
//	  --> file:line:col
//	     3 | source line
//	       |     ^
//	  hint
func reportError(w io.Writer, filename, src string, err error) {
	title, msg := describe(err)
	fmt.Fprintf(w, "\033[31m\033[1m%s: %s\033[0m\n", title, msg)

	line, col := compiler.SourcePosition(err)
	if line > 0 {
		sourceLine := readSourceLine(src, line)
		if col == 0 {
			col = len(sourceLine) - len(strings.TrimLeft(sourceLine, " \t")) + 1
			fmt.Fprintf(w, "  \033[36m-->\033[0m %s:%d\n", filename, line)
		} else {
			fmt.Fprintf(w, "  \033[36m-->\033[0m %s:%d:%d\n", filename, line, col)
		}

		if sourceLine != "" {
			fmt.Fprintf(w, "   \033[90m%4d |\033[0m %s\n", line, sourceLine)

			padding := strings.Repeat(" ", col-1)
			fmt.Fprintf(w, "   \033[90m     |\033[0m \033[31m%s^\033[0m\n", padding)
		}
	}

	var unsup *compiler.UnsupportedConstruct
	if errors.As(err, &unsup) {
		if hint := compiler.Hint(unsup.Kind); hint != "" {
			fmt.Fprintf(w, "  %s\n", hint)
		}
	}
	fmt.Fprintln(w)
}

// describe picks the headline for err
func describe(err error) (title, msg string) {
	var parseErr *pyparser.ParseError
	switch {
	case errors.As(err, &parseErr):
		return "Syntax error", parseErr.Msg
	case errors.Is(err, compiler.ErrUnsupported),
		errors.Is(err, compiler.ErrMisplacedReturn),
		errors.Is(err, compiler.ErrStructure):
		return "Translation error", err.Error()
	}
	return "Error", err.Error()
}

// readSourceLine returns line lineNum of src, or the empty string
func readSourceLine(src string, lineNum int) string {
	scanner := bufio.NewScanner(strings.NewReader(src))
	currentLine := 0
	for scanner.Scan() {
		currentLine++
		if currentLine == lineNum {
			return scanner.Text()
		}
	}
	return ""
}
