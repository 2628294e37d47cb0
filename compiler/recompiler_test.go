package compiler

import (
	"errors"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Yeahhhh/phylanx/libs/pyparser"
	"github.com/Yeahhhh/phylanx/physl"
)

var _ = Describe("Recompiler", func() {
	always := Options{Grouping: GroupAlways}
	byPrecedence := Options{Grouping: GroupByPrecedence}

	Context("translation rules", func() {
		DescribeTable("should translate",
			func(src string, opts Options, want string) {
				got, err := recompile(src, opts)
				Expect(err).NotTo(HaveOccurred())
				Expect(got).To(Equal(want))
			},
			Entry("a function",
				"def f(x):\n    y = x + 1\n    return y * 2\n", always,
				"define(f,x,block(define(y,(x + 1)), (y * 2))),f"),
			Entry("a single-statement function body",
				"def id(a, b):\n    return a\n", always,
				"define(id,a,b, a),id"),
			Entry("precedence in always-group mode",
				"a - b * c\n", always,
				"(a - (b * c))"),
			Entry("precedence by comparison",
				"a - b * c\n", byPrecedence,
				"a - b * c"),
			Entry("a looser operation inside a tighter one",
				"(a - b) * c\n", byPrecedence,
				"(a - b) * c"),
			Entry("power",
				"x ** 2 / y\n", byPrecedence,
				"x ** 2 / y"),
			Entry("a two-axis slice with defaults",
				"m[:, 2:]\n", always,
				"slice(m,0,shape(m,0),2,shape(m,1))"),
			Entry("a two-axis slice with all bounds",
				"m[i:i + 1, 0:n]\n", always,
				"slice(m,i,(i + 1),0,n)"),
			Entry("print as cout",
				"print(x)\n", always,
				"cout(x)"),
			Entry("a call with several arguments",
				"dot(a, b + 1, 2.5)\n", byPrecedence,
				"dot(a,b + 1,2.5)"),
			Entry("a call without arguments",
				"rand()\n", always,
				"rand()"),
			Entry("comparisons without spaces",
				"a + 1 <= b\n", always,
				"(a + 1)<=b"),
			Entry("augmented assignment",
				"x += y * 2\n", always,
				"store(x,x+(y * 2))"),
			Entry("augmented assignment by precedence",
				"x += y * 2\n", byPrecedence,
				"store(x,x+y * 2)"),
			Entry("a while loop",
				"while i < n:\n    i += 1\n    print(i)\n", always,
				"while(i<n,block(store(i,i+1),cout(i)))"),
			Entry("a while loop with one statement",
				"while i != 0:\n    i += -1\n", byPrecedence,
				"while(i!=0,store(i,i+-1))"),
			Entry("an if without else",
				"if a == b:\n    print(a)\n", always,
				"if(a==b,cout(a),block())"),
			Entry("an if with a multi-statement else",
				"if a > b:\n    x = a\nelse:\n    print(b)\n    x = b\n", always,
				"if(a>b,define(x,a),block(cout(b),store(x,b)))"),
			Entry("elif as a nested if",
				"if a:\n    print(1)\nelif b:\n    print(2)\nelse:\n    print(3)\n", always,
				"if(a,cout(1),if(b,cout(2),cout(3)))"),
			Entry("negation of a name",
				"-x\n", always,
				"-(x)"),
			Entry("negation of a name by precedence",
				"-x\n", byPrecedence,
				"-x"),
			Entry("negation of an operation",
				"-(a + b)\n", byPrecedence,
				"-(a + b)"),
			Entry("negation of an operation in always-group mode",
				"-(a + b)\n", always,
				"-((a + b))"),
			Entry("integers in decimal",
				"x = 0x10\n", always,
				"define(x,16)"),
			Entry("big integers",
				"x = 123456789012345678901234567890\n", always,
				"define(x,123456789012345678901234567890)"),
			Entry("floats with a point",
				"x = 2.0\n", always,
				"define(x,2.0)"),
			Entry("floats in exponent notation",
				"x = 1.5e3\n", always,
				"define(x,1500.0)"),
			Entry("strings",
				"x = 'a b'\n", always,
				`define(x,"a b")`),
		)
	})

	Context("binding", func() {
		It("should define the first assignment and store the rest", func() {
			src := `def f(x):
    if x > 0:
        y = 1
    else:
        y = 2
    y = y + 1
    return y
`
			got, err := recompile(src, Options{})
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal("define(f,x,block(if(x>0,define(y,1),store(y,2)),store(y,(y + 1)), y)),f"))
		})

		It("should treat assignments inside loops by source order", func() {
			src := "def f(n):\n    while n > 0:\n        s = n\n        n += -1\n    s = 0\n    return s\n"
			got, err := recompile(src, Options{})
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal("define(f,n,block(while(n>0,block(define(s,n),store(n,n+-(1)))),store(s,0), s)),f"))
		})

		It("should not carry definitions between translations", func() {
			r := New(Options{})
			first, err := r.Recompile(mustParse("x = 1\n"))
			Expect(err).NotTo(HaveOccurred())
			second, err := r.Recompile(mustParse("x = 1\n"))
			Expect(err).NotTo(HaveOccurred())
			Expect(first).To(Equal("define(x,1)"))
			Expect(second).To(Equal(first))
		})

		It("should be safe for concurrent translations", func() {
			r := New(Options{})
			module := mustParse("def f(x):\n    y = x + 1\n    return y * 2\n")

			var wg sync.WaitGroup
			results := make([]string, 16)
			errs := make([]error, 16)
			for i := range results {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					results[i], errs[i] = r.Recompile(module)
				}(i)
			}
			wg.Wait()

			for i := range results {
				Expect(errs[i]).NotTo(HaveOccurred())
				Expect(results[i]).To(Equal("define(f,x,block(define(y,(x + 1)), (y * 2))),f"))
			}
		})
	})

	Context("tail returns", func() {
		It("should allow returns at the end of both branches of a final if", func() {
			src := "def sign(x):\n    if x < 0:\n        return -1\n    else:\n        return 1\n"

			got, err := recompile(src, always)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal("define(sign,x,if(x<0, -(1), 1)),sign"))

			got, err = recompile(src, byPrecedence)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal("define(sign,x,if(x<0, -1, 1)),sign"))
		})

		DescribeTable("should reject a return outside tail position",
			func(src string, line int) {
				_, err := recompile(src, Options{})
				Expect(errors.Is(err, ErrMisplacedReturn)).To(BeTrue())

				var misplaced *MisplacedReturn
				Expect(errors.As(err, &misplaced)).To(BeTrue())
				Expect(misplaced.Line).To(Equal(line))
			},
			Entry("before the last statement", "def f(x):\n    return x\n    y = 1\n", 2),
			Entry("inside a loop", "def f(x):\n    while x:\n        return x\n", 3),
			Entry("in an if that is not last", "def f(x):\n    if x:\n        return 1\n    return 2\n", 3),
			Entry("at top level", "return 1\n", 1),
			Entry("in a condition branch at top level", "if x:\n    return 1\n", 2),
		)
	})

	Context("errors", func() {
		DescribeTable("should reject unsupported constructs",
			func(src string, kind pyparser.Kind, detail string, line int) {
				_, err := recompile(src, Options{})
				Expect(errors.Is(err, ErrUnsupported)).To(BeTrue(), "error: %v", err)

				var unsup *UnsupportedConstruct
				Expect(errors.As(err, &unsup)).To(BeTrue())
				Expect(unsup.Kind).To(Equal(kind))
				Expect(unsup.Detail).To(Equal(detail))
				Expect(unsup.Line).To(Equal(line))
			},
			Entry("list comprehension", "[x for x in y]\n", pyparser.KindListComp, "", 1),
			Entry("for loop", "for i in x:\n    print(i)\n", pyparser.KindFor, "", 1),
			Entry("pass", "def f():\n    pass\n", pyparser.KindPass, "", 2),
			Entry("floor division", "x = a // b\n", pyparser.KindBinOp, "operator FloorDiv", 1),
			Entry("augmented subtraction", "x -= 1\n", pyparser.KindAugAssign, "operator Sub", 1),
			Entry("logical not", "not x\n", pyparser.KindUnaryOp, "operator Not", 1),
			Entry("membership test", "a in b\n", pyparser.KindCompare, "operator In", 1),
			Entry("method call", "np.dot(a)\n", pyparser.KindAttribute, "callee", 1),
			Entry("keyword argument", "f(a, k=1)\n", pyparser.KindKeyword, "keyword argument k", 1),
			Entry("tuple target", "a, b = 1, 2\n", pyparser.KindTuple, "assignment target", 1),
			Entry("while-else", "while x:\n    f()\nelse:\n    g()\n", pyparser.KindWhile, "else clause", 1),
			Entry("default parameter", "def f(x=1):\n    return x\n", pyparser.KindFunctionDef, "default parameter values", 1),
			Entry("variadic parameter", "def f(*xs):\n    return xs\n", pyparser.KindFunctionDef, "variadic parameter *xs", 1),
			Entry("nested unsupported node", "def f(x):\n    y = x\n    return [y]\n", pyparser.KindList, "", 3),
		)

		It("should reject decorated definitions", func() {
			_, err := recompile("@jit\ndef f(x):\n    return x\n", Options{})
			var unsup *UnsupportedConstruct
			Expect(errors.As(err, &unsup)).To(BeTrue())
			Expect(unsup.Detail).To(Equal("decorators"))
			Expect(err).To(MatchError("unsupported construct FunctionDef (decorators) at line 1"))
		})

		It("should reject the same construct every time", func() {
			module := mustParse("[x for x in y]\n")
			r := New(Options{})
			_, first := r.Recompile(module)
			_, second := r.Recompile(module)
			Expect(first).To(Equal(second))
			Expect(first).To(MatchError("unsupported construct ListComp at line 1"))
		})

		DescribeTable("should reject malformed shapes",
			func(src string, kind pyparser.Kind, lookupMiss bool) {
				_, err := recompile(src, Options{})
				Expect(errors.Is(err, ErrStructure)).To(BeTrue(), "error: %v", err)
				Expect(errors.Is(err, ErrLookupMiss)).To(Equal(lookupMiss))

				var violation *StructuralViolation
				Expect(errors.As(err, &violation)).To(BeTrue())
				Expect(violation.Kind).To(Equal(kind))
			},
			Entry("two top-level statements", "x = 1\ny = 2\n", pyparser.KindModule, false),
			Entry("chained assignment", "x = y = 1\n", pyparser.KindAssign, false),
			Entry("chained comparison", "a < b < c\n", pyparser.KindCompare, false),
			Entry("bare return", "def f():\n    return\n", pyparser.KindReturn, false),
			Entry("index subscript", "a[1]\n", pyparser.KindSubscript, true),
			Entry("one-axis slice", "a[1:2]\n", pyparser.KindSubscript, true),
			Entry("index on one axis", "a[1, 2:3]\n", pyparser.KindSubscript, true),
			Entry("three axes", "a[1:2, 3:4, 5:6]\n", pyparser.KindSubscript, false),
			Entry("slice step", "a[::2, :]\n", pyparser.KindSubscript, false),
		)

		It("should reject an empty module", func() {
			_, err := New(Options{}).Recompile(&pyparser.Module{})
			Expect(errors.Is(err, ErrStructure)).To(BeTrue())
		})

		It("should reject an expression statement without a value", func() {
			stmt := &pyparser.ExprStmt{Position: pyparser.Position{Lineno: 4}}
			_, err := New(Options{}).Recompile(stmt)
			Expect(err).To(MatchError("malformed Expr: expected exactly one expression, found 0 at line 4"))
		})

		It("should reject a nil tree", func() {
			_, err := New(Options{}).Recompile(nil)
			Expect(errors.Is(err, ErrStructure)).To(BeTrue())
		})

		It("should report positions", func() {
			_, err := recompile("def f(x):\n    y = x\n    return [y]\n", Options{})
			line, col := SourcePosition(err)
			Expect(line).To(Equal(3))
			Expect(col).To(Equal(0))

			_, err = pyparser.Parse("x = $\n")
			line, col = SourcePosition(err)
			Expect(line).To(Equal(1))
			Expect(col).To(Equal(5))
		})
	})

	Context("IR trees", func() {
		It("should build the value tree behind the text", func() {
			ir, err := New(Options{}).Build(mustParse("x = a - b * c\n"))
			Expect(err).NotTo(HaveOccurred())

			call, ok := ir.(*physl.Call)
			Expect(ok).To(BeTrue())
			Expect(call.Name).To(Equal("define"))
			Expect(call.Args).To(HaveLen(2))
			Expect(call.Args[0]).To(Equal(physl.Atom("x")))

			sub := call.Args[1].(*physl.Binary)
			Expect(sub.Op).To(Equal("-"))
			Expect(sub.Grouped).To(BeTrue())
			Expect(sub.Right.(*physl.Binary).Op).To(Equal("*"))
		})

		It("should build a definition followed by its name", func() {
			ir, err := New(Options{}).Build(mustParse("def f():\n    return 1\n"))
			Expect(err).NotTo(HaveOccurred())

			seq, ok := ir.(physl.Seq)
			Expect(ok).To(BeTrue())
			Expect(seq).To(HaveLen(2))
			Expect(seq[1]).To(Equal(physl.Atom("f")))
			Expect(seq.String()).To(Equal("define(f, 1),f"))
		})
	})

	Context("grouping names", func() {
		It("should round-trip", func() {
			for _, g := range []Grouping{GroupAlways, GroupByPrecedence} {
				parsed, err := ParseGrouping(g.String())
				Expect(err).NotTo(HaveOccurred())
				Expect(parsed).To(Equal(g))
			}
			_, err := ParseGrouping("sometimes")
			Expect(err).To(HaveOccurred())
		})
	})
})
