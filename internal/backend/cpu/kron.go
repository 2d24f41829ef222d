package cpu

import (
	"fmt"

	"github.com/ket-ml/ket/internal/tensor"
)

// Kron computes the Kronecker product of two batched matrices:
// [M, N, B] ⊗ [P, Q, B] -> [M*P, N*Q, B]. A batch size of 1 on either
// operand broadcasts against the other.
func (cpu *CPUBackend) Kron(a, b *tensor.RawTensor) *tensor.RawTensor {
	aShape, bShape := a.Shape(), b.Shape()
	if len(aShape) != 3 || len(bShape) != 3 {
		panic(fmt.Sprintf("kron: expected [M, N, B] tensors, got %v and %v", aShape, bShape))
	}
	batchA, batchB := aShape[2], bShape[2]
	if batchA != batchB && batchA != 1 && batchB != 1 {
		panic(fmt.Sprintf("kron: batch sizes not broadcastable: %d vs %d", batchA, batchB))
	}
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("kron: dtype mismatch: %s vs %s", a.DType(), b.DType()))
	}

	m, n := aShape[0], aShape[1]
	p, q := bShape[0], bShape[1]
	batch := maxInt(batchA, batchB)

	result, err := tensor.NewRaw(tensor.Shape{m * p, n * q, batch}, a.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("kron: %v", err))
	}

	rows, cols := m*p, n*q
	for r := 0; r < rows; r++ {
		ar, br := r/p, r%p
		for c := 0; c < cols; c++ {
			ac, bc := c/q, c%q
			for bi := 0; bi < batch; bi++ {
				abi := bi
				if batchA == 1 {
					abi = 0
				}
				bbi := bi
				if batchB == 1 {
					bbi = 0
				}
				av := a.At(ar*n*batchA + ac*batchA + abi)
				bv := b.At(br*q*batchB + bc*batchB + bbi)
				result.SetAt(r*cols*batch+c*batch+bi, av*bv)
			}
		}
	}
	return result
}
