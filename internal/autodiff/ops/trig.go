package ops

import "github.com/ket-ml/ket/internal/tensor"

// CosOp represents the element-wise cosine: output = cos(x).
//
// Backward pass: grad_x = grad_out ⊙ conj(-sin(x)).
type CosOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewCosOp creates a new CosOp.
func NewCosOp(input, output *tensor.RawTensor) *CosOp {
	return &CosOp{input: input, output: output}
}

// Backward computes the input gradient for cos.
func (op *CosOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	negSin := backend.MulScalar(backend.Sin(op.input), -1)
	return []*tensor.RawTensor{backend.Mul(outputGrad, backend.Conj(negSin))}
}

// Inputs returns the input tensors.
func (op *CosOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the output tensor cos(x).
func (op *CosOp) Output() *tensor.RawTensor {
	return op.output
}

// SinOp represents the element-wise sine: output = sin(x).
//
// Backward pass: grad_x = grad_out ⊙ conj(cos(x)).
type SinOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewSinOp creates a new SinOp.
func NewSinOp(input, output *tensor.RawTensor) *SinOp {
	return &SinOp{input: input, output: output}
}

// Backward computes the input gradient for sin.
func (op *SinOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Mul(outputGrad, backend.Conj(backend.Cos(op.input)))}
}

// Inputs returns the input tensors.
func (op *SinOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the output tensor sin(x).
func (op *SinOp) Output() *tensor.RawTensor {
	return op.output
}
