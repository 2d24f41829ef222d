package ops

import "github.com/ket-ml/ket/internal/tensor"

// MulOp represents an element-wise multiplication operation: output = a ⊙ b.
//
// Backward pass (Wirtinger convention):
//   - grad_a = grad_out ⊙ conj(b)
//   - grad_b = grad_out ⊙ conj(a)
type MulOp struct {
	inputs []*tensor.RawTensor // [a, b]
	output *tensor.RawTensor   // a ⊙ b
}

// NewMulOp creates a new MulOp.
func NewMulOp(a, b, output *tensor.RawTensor) *MulOp {
	return &MulOp{
		inputs: []*tensor.RawTensor{a, b},
		output: output,
	}
}

// Backward computes input gradients for element-wise multiplication.
func (op *MulOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	a, b := op.inputs[0], op.inputs[1]
	gradA := reduceBroadcast(backend.Mul(outputGrad, backend.Conj(b)), a.Shape(), backend)
	gradB := reduceBroadcast(backend.Mul(outputGrad, backend.Conj(a)), b.Shape(), backend)
	return []*tensor.RawTensor{gradA, gradB}
}

// Inputs returns the input tensors [a, b].
func (op *MulOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the output tensor a ⊙ b.
func (op *MulOp) Output() *tensor.RawTensor {
	return op.output
}
