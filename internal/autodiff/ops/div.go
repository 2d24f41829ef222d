package ops

import "github.com/ket-ml/ket/internal/tensor"

// DivOp represents an element-wise division operation: output = a / b.
//
// Backward pass (Wirtinger convention):
//   - grad_a = grad_out ⊙ conj(1 / b)
//   - grad_b = grad_out ⊙ conj(-a / b²)
type DivOp struct {
	inputs []*tensor.RawTensor // [a, b]
	output *tensor.RawTensor   // a / b
}

// NewDivOp creates a new DivOp.
func NewDivOp(a, b, output *tensor.RawTensor) *DivOp {
	return &DivOp{
		inputs: []*tensor.RawTensor{a, b},
		output: output,
	}
}

// Backward computes input gradients for division.
func (op *DivOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	a, b := op.inputs[0], op.inputs[1]

	conjB := backend.Conj(b)
	gradA := reduceBroadcast(backend.Div(outputGrad, conjB), a.Shape(), backend)

	// -a/b² = -(output)/b, so reuse the forward output.
	dOutB := backend.Conj(backend.MulScalar(backend.Div(op.output, b), -1))
	gradB := reduceBroadcast(backend.Mul(outputGrad, dOutB), b.Shape(), backend)

	return []*tensor.RawTensor{gradA, gradB}
}

// Inputs returns the input tensors [a, b].
func (op *DivOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the output tensor a / b.
func (op *DivOp) Output() *tensor.RawTensor {
	return op.output
}
