package compiler

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Yeahhhh/phylanx/libs/pyparser"
)

var _ = Describe("Program", func() {
	var r *Recompiler

	BeforeEach(func() {
		r = New(Options{})
	})

	It("should strip the decorator and wrap the unit in a block", func() {
		compiled, err := r.Program("@phyfun\ndef f(x):\n    y = x + 1\n    return y * 2\n")
		Expect(err).NotTo(HaveOccurred())
		Expect(compiled.Name).To(Equal("f"))
		Expect(compiled.Source).To(Equal("block(define(f,x,block(define(y,(x + 1)), (y * 2))),f)\n"))
	})

	It("should accept undecorated source", func() {
		compiled, err := r.Program("def g(a, b):\n    return a * b\n")
		Expect(err).NotTo(HaveOccurred())
		Expect(compiled.Name).To(Equal("g"))
		Expect(compiled.Source).To(Equal("block(define(g,a,b, (a * b)),g)\n"))
	})

	It("should leave the name empty for other units", func() {
		compiled, err := r.Program("print(1)\n")
		Expect(err).NotTo(HaveOccurred())
		Expect(compiled.Name).To(BeEmpty())
		Expect(compiled.Source).To(Equal("block(cout(1))\n"))
	})

	It("should keep line numbers of the given text", func() {
		_, err := r.Program("@phyfun\ndef f(x):\n    return x\n    x = 2\n")
		var misplaced *MisplacedReturn
		Expect(errors.As(err, &misplaced)).To(BeTrue())
		Expect(misplaced.Line).To(Equal(3))
	})

	It("should pass parse errors through", func() {
		_, err := r.Program("@phyfun\ndef f(x)\n    return x\n")
		var parseErr *pyparser.ParseError
		Expect(errors.As(err, &parseErr)).To(BeTrue())
		Expect(parseErr.Line).To(Equal(2))
	})

	It("should strip only one decorator", func() {
		_, err := r.Program("@a\n@b\ndef f(x):\n    return x\n")
		Expect(errors.Is(err, ErrUnsupported)).To(BeTrue())
	})
})

var _ = Describe("Check", func() {
	It("should list every unsupported construct", func() {
		module := mustParse("def f(x):\n    y = x.a + x.b\n    for i in y:\n        z = [i for i in y]\n    return y\n")

		errs := Check(module)
		Expect(errs).To(HaveLen(3))

		var kinds []pyparser.Kind
		var lines []int
		for _, err := range errs {
			var unsup *UnsupportedConstruct
			Expect(errors.As(err, &unsup)).To(BeTrue())
			kinds = append(kinds, unsup.Kind)
			lines = append(lines, unsup.Line)
		}
		Expect(kinds).To(Equal([]pyparser.Kind{pyparser.KindAttribute, pyparser.KindAttribute, pyparser.KindFor}))
		Expect(lines).To(Equal([]int{2, 2, 3}))
	})

	It("should accept translatable trees", func() {
		module := mustParse("def f(m):\n    while m > 0:\n        m += -1\n    return m[1:, :2]\n")
		Expect(Check(module)).To(BeEmpty())
		Expect(Check(nil)).To(BeEmpty())
	})

	It("should have hints for common constructs", func() {
		Expect(Hint(pyparser.KindFor)).To(ContainSubstring("while loop"))
		Expect(Hint(pyparser.KindBinOp)).To(BeEmpty())
	})
})
