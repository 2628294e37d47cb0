package pyparser

import (
	"strings"
	"testing"

	"github.com/onsi/gomega"
)

func TestDump(t *testing.T) {
	g := gomega.NewWithT(t)

	module, err := Parse("def f(x):\n    return x + 1.5\n")
	g.Expect(err).NotTo(gomega.HaveOccurred())

	var out strings.Builder
	g.Expect(Dump(&out, module)).To(gomega.Succeed())
	g.Expect(out.String()).To(gomega.Equal(`Module
  FunctionDef
    attr[name]=f
    arguments
      arg='x'
        attr[arg]=x
    Return
      BinOp
        Name='x'
          attr[id]=x
        Num=1.500000
`))
}

func TestDumpSliceAndIf(t *testing.T) {
	g := gomega.NewWithT(t)

	module, err := Parse("if c:\n    a[:2]\nelse:\n    'no'\n")
	g.Expect(err).NotTo(gomega.HaveOccurred())

	var out strings.Builder
	g.Expect(Dump(&out, module.Body[0])).To(gomega.Succeed())
	g.Expect(out.String()).To(gomega.Equal(`If
  Expr
    Subscript
      Name='a'
        attr[id]=a
      Slice
        lower:None
        upper:Num=2
Else
  Expr
    Str='no'
      attr[s]=no
`))
}
