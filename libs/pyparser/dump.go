package pyparser

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes an indented outline of the tree rooted at n, one node per
// line, two spaces per level. Leaves show their value (Num=3, Name='x'),
// string-valued fields are listed as `attr[field]=value` lines, slices label
// their bounds and an If separates its branches with an Else line.
// Nil nodes print as None.
func Dump(w io.Writer, n Node) error {
	d := &dumper{w: w}
	d.dump(n, 0, "")
	return d.err
}

type dumper struct {
	w   io.Writer
	err error
}

func (d *dumper) printf(format string, args ...any) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, format, args...)
}

func (d *dumper) dump(n Node, depth int, label string) {
	indent := strings.Repeat("  ", depth)
	d.printf("%s%s", indent, label)
	if n == nil || isNil(n) {
		d.printf("None\n")
		return
	}

	showChildren := true
	switch n := n.(type) {
	case *Num:
		if n.IsFloat {
			d.printf("Num=%f\n", n.Float)
		} else {
			d.printf("Num=%s\n", n.Int.String())
		}
	case *Slice:
		d.printf("Slice\n")
		d.dump(n.Lower, depth+1, "lower:")
		d.dump(n.Upper, depth+1, "upper:")
		showChildren = false
	case *Str:
		d.printf("Str='%s'\n", n.S)
	case *Name:
		d.printf("Name='%s'\n", n.ID)
	case *Arg:
		d.printf("arg='%s'\n", n.Name)
	case *If:
		d.printf("If\n")
		for _, stmt := range n.Body {
			d.dump(stmt, depth+1, "")
		}
		if len(n.Orelse) > 0 {
			d.printf("%sElse\n", indent)
			for _, stmt := range n.Orelse {
				d.dump(stmt, depth+1, "")
			}
		}
		showChildren = false
	default:
		d.printf("%s\n", n.Kind())
	}

	for _, attr := range stringFields(n) {
		d.printf("%s  attr[%s]=%s\n", indent, attr[0], attr[1])
	}
	if showChildren {
		for _, child := range n.Children() {
			d.dump(child, depth+1, "")
		}
	}
}

// stringFields lists the string-valued fields of n by their Python names
func stringFields(n Node) [][2]string {
	switch n := n.(type) {
	case *FunctionDef:
		return [][2]string{{"name", n.Name}}
	case *Arg:
		return [][2]string{{"arg", n.Name}}
	case *Keyword:
		return [][2]string{{"arg", n.Arg}}
	case *Name:
		return [][2]string{{"id", n.ID}}
	case *Str:
		return [][2]string{{"s", n.S}}
	case *Attribute:
		return [][2]string{{"attr", n.Attr}}
	}
	return nil
}
