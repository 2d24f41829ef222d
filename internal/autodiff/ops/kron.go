package ops

import "github.com/ket-ml/ket/internal/tensor"

// KronOp represents the Kronecker product of batched matrices:
// output = a ⊗ b with a: [M, N, B], b: [P, Q, B].
//
// Backward pass (Wirtinger convention):
//   - grad_a[i,j] = Σ_{k,l} grad_out[iP+k, jQ+l] · conj(b[k,l])
//   - grad_b[k,l] = Σ_{i,j} grad_out[iP+k, jQ+l] · conj(a[i,j])
//
// Both contractions are carried out by regrouping the output gradient into
// a [MN, PQ] matrix per batch element and contracting with the conjugated
// other factor via BatchMatMul.
type KronOp struct {
	inputs []*tensor.RawTensor // [a, b]
	output *tensor.RawTensor   // a ⊗ b
}

// NewKronOp creates a new KronOp.
func NewKronOp(a, b, output *tensor.RawTensor) *KronOp {
	return &KronOp{
		inputs: []*tensor.RawTensor{a, b},
		output: output,
	}
}

// Backward computes input gradients for the Kronecker product.
func (op *KronOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	a, b := op.inputs[0], op.inputs[1]
	m, n := a.Shape()[0], a.Shape()[1]
	p, q := b.Shape()[0], b.Shape()[1]
	batch := outputGrad.Shape()[2]

	// [MP, NQ, B] -> [M, P, N, Q, B] -> [B, MN, PQ]
	grouped := backend.Reshape(outputGrad, tensor.Shape{m, p, n, q, batch})
	grouped = backend.Transpose(grouped, 4, 0, 2, 1, 3)
	grouped = backend.Reshape(grouped, tensor.Shape{batch, m * n, p * q})

	// grad_a: contract the b factor away: [B, MN, PQ] @ [B, PQ, 1].
	conjB := backend.Conj(backend.Transpose(b, 2, 0, 1)) // [Bb, P, Q]
	conjBVec := backend.Reshape(conjB, tensor.Shape{b.Shape()[2], p * q, 1})
	gradA := backend.BatchMatMul(grouped, conjBVec) // [B, MN, 1]
	gradA = backend.Reshape(backend.Transpose(gradA, 1, 2, 0), tensor.Shape{m, n, batch})

	// grad_b: contract the a factor away: [B, PQ, MN] @ [B, MN, 1].
	conjA := backend.Conj(backend.Transpose(a, 2, 0, 1)) // [Ba, M, N]
	conjAVec := backend.Reshape(conjA, tensor.Shape{a.Shape()[2], m * n, 1})
	gradB := backend.BatchMatMul(backend.Transpose(grouped, 0, 2, 1), conjAVec) // [B, PQ, 1]
	gradB = backend.Reshape(backend.Transpose(gradB, 1, 2, 0), tensor.Shape{p, q, batch})

	// Reduce over a broadcast batch axis.
	if a.Shape()[2] == 1 && batch != 1 {
		gradA = backend.SumDim(gradA, 2, true)
	}
	if b.Shape()[2] == 1 && batch != 1 {
		gradB = backend.SumDim(gradB, 2, true)
	}

	return []*tensor.RawTensor{gradA, gradB}
}

// Inputs returns the input tensors [a, b].
func (op *KronOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the output tensor a ⊗ b.
func (op *KronOp) Output() *tensor.RawTensor {
	return op.output
}
