package compiler

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Yeahhhh/phylanx/libs/pyparser"
)

var _ = Describe("Locate", func() {
	var call pyparser.Node

	BeforeEach(func() {
		module := mustParse("f(a, 1, b)\n")
		call = module.Body[0].(*pyparser.ExprStmt).Value
	})

	It("should find the first child of a kind", func() {
		child, err := Locate(call, ByKind(pyparser.KindName))
		Expect(err).NotTo(HaveOccurred())
		Expect(child.(*pyparser.Name).ID).To(Equal("f"))
	})

	It("should count the index among children of the kind", func() {
		child, err := Locate(call, ByKindAt(pyparser.KindName, 2))
		Expect(err).NotTo(HaveOccurred())
		Expect(child.(*pyparser.Name).ID).To(Equal("b"))

		child, err = Locate(call, ByKindAt(pyparser.KindNum, 0))
		Expect(err).NotTo(HaveOccurred())
		Expect(child.Kind()).To(Equal(pyparser.KindNum))
	})

	It("should find a child by absolute position", func() {
		child, err := Locate(call, At(2))
		Expect(err).NotTo(HaveOccurred())
		Expect(child.Kind()).To(Equal(pyparser.KindNum))
	})

	DescribeTable("should report a miss",
		func(sel Selector) {
			_, err := Locate(call, sel)
			Expect(errors.Is(err, ErrLookupMiss)).To(BeTrue())

			var miss *LookupMiss
			Expect(errors.As(err, &miss)).To(BeTrue())
			Expect(miss.Parent).To(Equal(pyparser.KindCall))
			Expect(miss.Selector).To(Equal(sel))
			Expect(miss.Line).To(Equal(1))
		},
		Entry("absent kind", ByKind(pyparser.KindStr)),
		Entry("index past the kind's children", ByKindAt(pyparser.KindNum, 1)),
		Entry("position out of range", At(4)),
		Entry("negative position", At(-1)),
		Entry("negative kind index", ByKindAt(pyparser.KindName, -1)),
	)

	It("should reject an empty selector", func() {
		_, err := Locate(call, Selector{})
		Expect(err).To(MatchError(ErrEmptySelector))
	})

	It("should describe selectors", func() {
		Expect(ByKind(pyparser.KindSlice).String()).To(Equal("Slice"))
		Expect(ByKindAt(pyparser.KindSlice, 1).String()).To(Equal("Slice#1"))
		Expect(At(0).String()).To(Equal("#0"))

		_, err := Locate(call, ByKind(pyparser.KindStr))
		Expect(err).To(MatchError("Call has no child Str"))
	})
})
