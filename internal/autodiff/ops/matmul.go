package ops

import "github.com/ket-ml/ket/internal/tensor"

// MatMulOp represents 2D matrix multiplication: output = a @ b.
//
// Backward pass (Wirtinger convention):
//   - grad_a = grad_out @ bᴴ
//   - grad_b = aᴴ @ grad_out
//
// where ᴴ is the conjugate transpose.
type MatMulOp struct {
	inputs []*tensor.RawTensor // [a, b]
	output *tensor.RawTensor   // a @ b
}

// NewMatMulOp creates a new MatMulOp.
func NewMatMulOp(a, b, output *tensor.RawTensor) *MatMulOp {
	return &MatMulOp{
		inputs: []*tensor.RawTensor{a, b},
		output: output,
	}
}

// Backward computes input gradients for matrix multiplication.
func (op *MatMulOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	a, b := op.inputs[0], op.inputs[1]

	bH := backend.Conj(backend.Transpose(b))
	aH := backend.Conj(backend.Transpose(a))

	gradA := backend.MatMul(outputGrad, bH)
	gradB := backend.MatMul(aH, outputGrad)

	return []*tensor.RawTensor{gradA, gradB}
}

// Inputs returns the input tensors [a, b].
func (op *MatMulOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the output tensor a @ b.
func (op *MatMulOp) Output() *tensor.RawTensor {
	return op.output
}
