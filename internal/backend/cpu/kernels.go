package cpu

import (
	"github.com/ket-ml/ket/internal/tensor"
)

// binaryVectorized applies f element-wise over same-shape operands.
func binaryVectorized[T tensor.Complex](out, a, b []T, f func(x, y T) T) {
	for i := range out {
		out[i] = f(a[i], b[i])
	}
}

// binaryInplace applies f element-wise over same-shape operands,
// writing the result back into a.
func binaryInplace[T tensor.Complex](a, b []T, f func(x, y T) T) {
	for i := range a {
		a[i] = f(a[i], b[i])
	}
}

// binaryWithBroadcast applies f with NumPy broadcasting.
// Broadcast dimensions are walked with an effective stride of zero.
func binaryWithBroadcast[T tensor.Complex](
	result, a, b *tensor.RawTensor,
	out, aData, bData []T,
	f func(x, y T) T,
) {
	outShape := result.Shape()
	aStrides := broadcastStrides(a.Shape(), outShape)
	bStrides := broadcastStrides(b.Shape(), outShape)

	idx := make([]int, len(outShape))
	for i := range out {
		aOff, bOff := 0, 0
		for d := range idx {
			aOff += idx[d] * aStrides[d]
			bOff += idx[d] * bStrides[d]
		}
		out[i] = f(aData[aOff], bData[bOff])

		// Advance the multi-index, last dimension fastest.
		for d := len(idx) - 1; d >= 0; d-- {
			idx[d]++
			if idx[d] < outShape[d] {
				break
			}
			idx[d] = 0
		}
	}
}

// broadcastStrides computes the strides of shape viewed as outShape,
// with zero strides on broadcast (size-1 or missing) dimensions.
func broadcastStrides(shape, outShape tensor.Shape) []int {
	strides := make([]int, len(outShape))
	realStrides := shape.ComputeStrides()
	offset := len(outShape) - len(shape)
	for d := range outShape {
		sd := d - offset
		if sd < 0 || shape[sd] == 1 {
			strides[d] = 0
		} else {
			strides[d] = realStrides[sd]
		}
	}
	return strides
}

// unary applies f element-wise, converting through complex128 for the
// complex64 case. All unary kernels route through cmplx and this keeps a
// single implementation per function.
func (cpu *CPUBackend) unary(x *tensor.RawTensor, f func(complex128) complex128) *tensor.RawTensor {
	result, err := tensor.NewRaw(x.Shape(), x.DType(), cpu.device)
	if err != nil {
		panic(err)
	}
	switch x.DType() {
	case tensor.Complex64:
		in, out := x.AsComplex64(), result.AsComplex64()
		for i := range out {
			out[i] = complex64(f(complex128(in[i])))
		}
	case tensor.Complex128:
		in, out := x.AsComplex128(), result.AsComplex128()
		for i := range out {
			out[i] = f(in[i])
		}
	}
	return result
}
