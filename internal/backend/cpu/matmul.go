package cpu

import (
	"fmt"

	"github.com/ket-ml/ket/internal/tensor"
)

// MatMul performs 2D matrix multiplication: [M, K] @ [K, N] -> [M, N].
func (cpu *CPUBackend) MatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	aShape, bShape := a.Shape(), b.Shape()
	if len(aShape) != 2 || len(bShape) != 2 {
		panic(fmt.Sprintf("matmul: expected 2D tensors, got %v and %v", aShape, bShape))
	}
	if aShape[1] != bShape[0] {
		panic(fmt.Sprintf("matmul: inner dimensions mismatch: %v @ %v", aShape, bShape))
	}

	m, k, n := aShape[0], aShape[1], bShape[1]
	result, err := tensor.NewRaw(tensor.Shape{m, n}, a.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("matmul: %v", err))
	}

	switch a.DType() {
	case tensor.Complex64:
		matmulKernel(result.AsComplex64(), a.AsComplex64(), b.AsComplex64(), m, k, n)
	case tensor.Complex128:
		matmulKernel(result.AsComplex128(), a.AsComplex128(), b.AsComplex128(), m, k, n)
	}
	return result
}

// BatchMatMul performs batched matrix multiplication for 3D tensors:
// [B, M, K] @ [B, K, N] -> [B, M, N]. A batch size of 1 on either operand
// broadcasts against the other.
func (cpu *CPUBackend) BatchMatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	aShape, bShape := a.Shape(), b.Shape()
	if len(aShape) != 3 || len(bShape) != 3 {
		panic(fmt.Sprintf("batchmatmul: expected 3D tensors, got %v and %v", aShape, bShape))
	}
	if aShape[2] != bShape[1] {
		panic(fmt.Sprintf("batchmatmul: inner dimensions mismatch: %v @ %v", aShape, bShape))
	}
	batchA, batchB := aShape[0], bShape[0]
	if batchA != batchB && batchA != 1 && batchB != 1 {
		panic(fmt.Sprintf("batchmatmul: batch sizes not broadcastable: %d vs %d", batchA, batchB))
	}

	batch := maxInt(batchA, batchB)
	m, k, n := aShape[1], aShape[2], bShape[2]
	result, err := tensor.NewRaw(tensor.Shape{batch, m, n}, a.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("batchmatmul: %v", err))
	}

	switch a.DType() {
	case tensor.Complex64:
		batchMatmulKernel(result.AsComplex64(), a.AsComplex64(), b.AsComplex64(), batch, batchA, batchB, m, k, n)
	case tensor.Complex128:
		batchMatmulKernel(result.AsComplex128(), a.AsComplex128(), b.AsComplex128(), batch, batchA, batchB, m, k, n)
	}
	return result
}

// matmulKernel computes out = a @ b with the i-k-j loop order for
// sequential memory access on the inner dimension.
func matmulKernel[T tensor.Complex](out, a, b []T, m, k, n int) {
	for i := 0; i < m; i++ {
		for l := 0; l < k; l++ {
			av := a[i*k+l]
			if av == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				out[i*n+j] += av * b[l*n+j]
			}
		}
	}
}

func batchMatmulKernel[T tensor.Complex](out, a, b []T, batch, batchA, batchB, m, k, n int) {
	for bi := 0; bi < batch; bi++ {
		ai := bi
		if batchA == 1 {
			ai = 0
		}
		bj := bi
		if batchB == 1 {
			bj = 0
		}
		matmulKernel(out[bi*m*n:(bi+1)*m*n], a[ai*m*k:(ai+1)*m*k], b[bj*k*n:(bj+1)*k*n], m, k, n)
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
