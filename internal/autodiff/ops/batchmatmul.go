package ops

import "github.com/ket-ml/ket/internal/tensor"

// BatchMatMulOp represents batched matrix multiplication on
// [B, M, K] @ [B, K, N] tensors.
//
// Backward pass (Wirtinger convention, per batch element):
//   - grad_a = grad_out @ bᴴ
//   - grad_b = aᴴ @ grad_out
//
// If a batch dimension of 1 was broadcast in the forward pass, the
// corresponding gradient is summed over the batch axis.
type BatchMatMulOp struct {
	inputs []*tensor.RawTensor // [a, b]
	output *tensor.RawTensor   // a @ b
}

// NewBatchMatMulOp creates a new BatchMatMulOp.
func NewBatchMatMulOp(a, b, output *tensor.RawTensor) *BatchMatMulOp {
	return &BatchMatMulOp{
		inputs: []*tensor.RawTensor{a, b},
		output: output,
	}
}

// Backward computes input gradients for batched matrix multiplication.
func (op *BatchMatMulOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	a, b := op.inputs[0], op.inputs[1]

	bH := backend.Conj(backend.Transpose(b, 0, 2, 1))
	aH := backend.Conj(backend.Transpose(a, 0, 2, 1))

	gradA := backend.BatchMatMul(outputGrad, bH)
	gradB := backend.BatchMatMul(aH, outputGrad)

	// Reduce over a broadcast batch axis.
	if a.Shape()[0] == 1 && gradA.Shape()[0] != 1 {
		gradA = backend.SumDim(gradA, 0, true)
	}
	if b.Shape()[0] == 1 && gradB.Shape()[0] != 1 {
		gradB = backend.SumDim(gradB, 0, true)
	}

	return []*tensor.RawTensor{gradA, gradB}
}

// Inputs returns the input tensors [a, b].
func (op *BatchMatMulOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the output tensor a @ b.
func (op *BatchMatMulOp) Output() *tensor.RawTensor {
	return op.output
}
