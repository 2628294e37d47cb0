package compiler

import (
	"fmt"

	"github.com/Yeahhhh/phylanx/libs/pyparser"
)

// Selector picks one immediate child of a node. With a Kind, Index counts
// only children of that kind; without one, Index is an absolute position.
// HasIndex distinguishes "index 0" from "no index".
type Selector struct {
	Kind     pyparser.Kind
	Index    int
	HasIndex bool
}

// ByKind selects the first child of kind k.
func ByKind(k pyparser.Kind) Selector {
	return Selector{Kind: k}
}

// ByKindAt selects the i-th child of kind k.
func ByKindAt(k pyparser.Kind, i int) Selector {
	return Selector{Kind: k, Index: i, HasIndex: true}
}

// At selects the child at absolute position i.
func At(i int) Selector {
	return Selector{Index: i, HasIndex: true}
}

func (s Selector) String() string {
	switch {
	case s.Kind != "" && s.HasIndex:
		return fmt.Sprintf("%s#%d", s.Kind, s.Index)
	case s.Kind != "":
		return string(s.Kind)
	case s.HasIndex:
		return fmt.Sprintf("#%d", s.Index)
	}
	return "<empty>"
}

// Locate returns the immediate child of n chosen by sel, in
// Children order. It fails with ErrEmptySelector when sel names neither a
// kind nor an index and with a *LookupMiss when nothing matches.
func Locate(n pyparser.Node, sel Selector) (pyparser.Node, error) {
	if sel.Kind == "" && !sel.HasIndex {
		return nil, ErrEmptySelector
	}
	miss := &LookupMiss{Parent: n.Kind(), Line: n.Line(), Selector: sel}
	children := n.Children()

	if sel.Kind == "" {
		if sel.Index < 0 || sel.Index >= len(children) {
			return nil, miss
		}
		return children[sel.Index], nil
	}

	seen := 0
	for _, child := range children {
		if child.Kind() != sel.Kind {
			continue
		}
		if seen == sel.Index {
			return child, nil
		}
		seen++
	}
	return nil, miss
}
