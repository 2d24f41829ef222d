package ops

import "github.com/ket-ml/ket/internal/tensor"

// ConjOp represents element-wise complex conjugation: output = conj(x).
//
// Conjugation is not holomorphic; under the Wirtinger convention its
// backward pass conjugates the output gradient.
type ConjOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewConjOp creates a new ConjOp.
func NewConjOp(input, output *tensor.RawTensor) *ConjOp {
	return &ConjOp{input: input, output: output}
}

// Backward conjugates the output gradient.
func (op *ConjOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Conj(outputGrad)}
}

// Inputs returns the input tensors.
func (op *ConjOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the output tensor conj(x).
func (op *ConjOp) Output() *tensor.RawTensor {
	return op.output
}
