package cpu

import (
	"fmt"

	"github.com/ket-ml/ket/internal/tensor"
)

// Sum reduces the tensor to a single-element tensor holding the total sum.
func (cpu *CPUBackend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	result, err := tensor.NewRaw(tensor.Shape{1}, x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("sum: %v", err))
	}
	var acc complex128
	for i := 0; i < x.NumElements(); i++ {
		acc += x.At(i)
	}
	result.SetAt(0, acc)
	return result
}

// SumDim sums along one dimension. With keepDim the reduced dimension is
// retained with size 1, otherwise it is dropped.
func (cpu *CPUBackend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("sumdim: invalid dimension %d for %dD tensor", dim, ndim))
	}

	outShape := make(tensor.Shape, 0, ndim)
	for d := 0; d < ndim; d++ {
		if d == dim {
			if keepDim {
				outShape = append(outShape, 1)
			}
			continue
		}
		outShape = append(outShape, shape[d])
	}
	if len(outShape) == 0 {
		outShape = tensor.Shape{1}
	}

	result, err := tensor.NewRaw(outShape, x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("sumdim: %v", err))
	}

	outer := 1
	for d := 0; d < dim; d++ {
		outer *= shape[d]
	}
	inner := 1
	for d := dim + 1; d < ndim; d++ {
		inner *= shape[d]
	}
	reduce := shape[dim]

	switch x.DType() {
	case tensor.Complex64:
		sumDimKernel(result.AsComplex64(), x.AsComplex64(), outer, reduce, inner)
	case tensor.Complex128:
		sumDimKernel(result.AsComplex128(), x.AsComplex128(), outer, reduce, inner)
	}
	return result
}

func sumDimKernel[T tensor.Complex](out, in []T, outer, reduce, inner int) {
	for o := 0; o < outer; o++ {
		for r := 0; r < reduce; r++ {
			base := (o*reduce + r) * inner
			for i := 0; i < inner; i++ {
				out[o*inner+i] += in[base+i]
			}
		}
	}
}

// Trace reduces a batched matrix [D, D, B] to its diagonal sum [B].
func (cpu *CPUBackend) Trace(x *tensor.RawTensor) *tensor.RawTensor {
	shape := x.Shape()
	if len(shape) != 3 || shape[0] != shape[1] {
		panic(fmt.Sprintf("trace: expected [D, D, B] tensor, got %v", shape))
	}
	d, batch := shape[0], shape[2]

	result, err := tensor.NewRaw(tensor.Shape{batch}, x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("trace: %v", err))
	}

	for b := 0; b < batch; b++ {
		var acc complex128
		for i := 0; i < d; i++ {
			acc += x.At(i*d*batch + i*batch + b)
		}
		result.SetAt(b, acc)
	}
	return result
}
