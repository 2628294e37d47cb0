package engine

import (
	"context"
	"errors"

	gomock "github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Yeahhhh/phylanx/compiler"
)

var _ = Describe("Function", func() {
	var (
		mockCtrl  *gomock.Controller
		evaluator *MockEvaluator
		ctx       context.Context
	)

	const src = "@phyfun\ndef f(x, m):\n    return m[:x, :]\n"
	const ir = "block(define(f,x,m, slice(m,0,x,0,shape(m,1))),f)\n"

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		evaluator = NewMockEvaluator(mockCtrl)
		ctx = context.Background()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should compile the decorated source", func() {
		fn, err := Compile(compiler.New(compiler.Options{}), src, evaluator)
		Expect(err).NotTo(HaveOccurred())
		Expect(fn.Name).To(Equal("f"))
		Expect(fn.Source).To(Equal(ir))
	})

	It("should pass marshaled arguments to the evaluator", func() {
		fn, err := Compile(compiler.New(compiler.Options{}), src, evaluator)
		Expect(err).NotTo(HaveOccurred())

		matrix := [][]float64{{1, 2}, {3, 4}}
		evaluator.EXPECT().
			Eval(gomock.Any(), ir,
				&Var{Value: int64(1)},
				&Var{Value: matrix, Dims: []int{2, 2}}).
			Return([]float64{1, 2}, nil)

		result, err := fn.Call(ctx, 1, matrix)
		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(Equal([]float64{1, 2}))
	})

	It("should wrap evaluation errors with the function name", func() {
		fn, err := Compile(compiler.New(compiler.Options{}), src, evaluator)
		Expect(err).NotTo(HaveOccurred())

		failure := errors.New("shape mismatch")
		evaluator.EXPECT().
			Eval(gomock.Any(), ir, gomock.Any(), gomock.Any()).
			Return(nil, failure)

		_, err = fn.Call(ctx, 1, 2.5)
		Expect(err).To(MatchError(failure))
		Expect(err.Error()).To(Equal("f: shape mismatch"))
	})

	It("should not evaluate with a ragged matrix", func() {
		fn, err := Compile(compiler.New(compiler.Options{}), src, evaluator)
		Expect(err).NotTo(HaveOccurred())

		_, err = fn.Call(ctx, 1, [][]float64{{1, 2}, {3}})
		Expect(err).To(MatchError(ErrRagged))
	})

	It("should not evaluate after cancellation", func() {
		fn, err := Compile(compiler.New(compiler.Options{}), src, evaluator)
		Expect(err).NotTo(HaveOccurred())

		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err = fn.Call(cancelled, 1)
		Expect(err).To(MatchError(context.Canceled))
	})

	It("should report translation errors", func() {
		_, err := Compile(compiler.New(compiler.Options{}), "def f(x):\n    for i in x:\n        print(i)\n", evaluator)
		Expect(errors.Is(err, compiler.ErrUnsupported)).To(BeTrue())
	})
})

var _ = Describe("Convert", func() {
	DescribeTable("should marshal",
		func(in any, want any) {
			got, err := Convert(in)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
		},
		Entry("int", 3, &Var{Value: int64(3)}),
		Entry("uint8", uint8(7), &Var{Value: int64(7)}),
		Entry("float32", float32(0.5), &Var{Value: 0.5}),
		Entry("float64", 2.5, &Var{Value: 2.5}),
		Entry("string", "abc", &Var{Value: "abc"}),
		Entry("vector", []float64{1, 2, 3}, &Var{Value: []float64{1, 2, 3}, Dims: []int{3}}),
		Entry("int vector", []int{1, 2}, &Var{Value: []float64{1, 2}, Dims: []int{2}}),
		Entry("matrix", [][]float64{{1}, {2}}, &Var{Value: [][]float64{{1}, {2}}, Dims: []int{2, 1}}),
		Entry("empty matrix", [][]float64{}, &Var{Value: [][]float64{}, Dims: []int{0, 0}}),
		Entry("list", []any{1, "a"}, &Var{Value: []any{1, "a"}, Dims: []int{2}}),
		Entry("other values", true, true),
	)

	It("should leave existing vars alone", func() {
		v := &Var{Value: int64(1)}
		got, err := Convert(v)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(BeIdenticalTo(v))
	})

	It("should describe itself", func() {
		Expect((&Var{Value: int64(1)}).String()).To(Equal("var(1)"))
		Expect((&Var{Value: []float64{1, 2}, Dims: []int{2}}).String()).To(Equal("var([1 2], dims=[2])"))
	})
})
