package ops

import "github.com/ket-ml/ket/internal/tensor"

// SqrtOp represents the element-wise principal square root: output = √x.
//
// Backward pass: grad_x = grad_out ⊙ conj(1 / (2·output)).
type SqrtOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewSqrtOp creates a new SqrtOp.
func NewSqrtOp(input, output *tensor.RawTensor) *SqrtOp {
	return &SqrtOp{input: input, output: output}
}

// Backward computes the input gradient for sqrt.
func (op *SqrtOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	half := backend.MulScalar(backend.Conj(op.output), 2)
	return []*tensor.RawTensor{backend.Div(outputGrad, half)}
}

// Inputs returns the input tensors.
func (op *SqrtOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the output tensor √x.
func (op *SqrtOp) Output() *tensor.RawTensor {
	return op.output
}
