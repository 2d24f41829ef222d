package cpu

import (
	"fmt"

	"github.com/ket-ml/ket/internal/tensor"
)

// Reshape returns a tensor with the same data but a different shape.
func (cpu *CPUBackend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	if err := newShape.Validate(); err != nil {
		panic(fmt.Sprintf("reshape: invalid shape: %v", err))
	}
	if t.NumElements() != newShape.NumElements() {
		panic(fmt.Sprintf("reshape: incompatible shapes: %v -> %v (different number of elements)",
			t.Shape(), newShape))
	}

	result, err := tensor.NewRaw(newShape, t.DType(), t.Device())
	if err != nil {
		panic(fmt.Sprintf("reshape: %v", err))
	}
	copy(result.Data(), t.Data()[:t.ByteSize()])
	return result
}

// Transpose permutes the tensor's dimensions.
// With no axes given, all dimensions are reversed.
func (cpu *CPUBackend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	shape := t.Shape()
	ndim := len(shape)

	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}

	if len(axes) != ndim {
		panic(fmt.Sprintf("transpose: axes length %d != ndim %d", len(axes), ndim))
	}
	seen := make([]bool, ndim)
	for _, ax := range axes {
		if ax < 0 || ax >= ndim {
			panic(fmt.Sprintf("transpose: invalid axis %d for %dD tensor", ax, ndim))
		}
		if seen[ax] {
			panic(fmt.Sprintf("transpose: duplicate axis %d", ax))
		}
		seen[ax] = true
	}

	newShape := make(tensor.Shape, ndim)
	for i, ax := range axes {
		newShape[i] = shape[ax]
	}

	result, err := tensor.NewRaw(newShape, t.DType(), t.Device())
	if err != nil {
		panic(fmt.Sprintf("transpose: %v", err))
	}

	switch t.DType() {
	case tensor.Complex64:
		transposeData(result.AsComplex64(), t.AsComplex64(), shape, newShape, axes)
	case tensor.Complex128:
		transposeData(result.AsComplex128(), t.AsComplex128(), shape, newShape, axes)
	}
	return result
}

func transposeData[T tensor.Complex](out, in []T, inShape, outShape tensor.Shape, axes []int) {
	inStrides := inShape.ComputeStrides()
	idx := make([]int, len(outShape))
	for i := range out {
		inOff := 0
		for d, ax := range axes {
			inOff += idx[d] * inStrides[ax]
		}
		out[i] = in[inOff]

		for d := len(idx) - 1; d >= 0; d-- {
			idx[d]++
			if idx[d] < outShape[d] {
				break
			}
			idx[d] = 0
		}
	}
}

// Cat concatenates tensors along a dimension.
func (cpu *CPUBackend) Cat(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	if len(tensors) == 0 {
		panic("cat: empty tensor list")
	}
	first := tensors[0]
	ndim := len(first.Shape())
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("cat: invalid dimension %d for %dD tensors", dim, ndim))
	}

	outShape := first.Shape().Clone()
	for _, t := range tensors[1:] {
		s := t.Shape()
		if len(s) != ndim || t.DType() != first.DType() {
			panic("cat: rank or dtype mismatch")
		}
		for d := 0; d < ndim; d++ {
			if d == dim {
				continue
			}
			if s[d] != outShape[d] {
				panic(fmt.Sprintf("cat: shape mismatch at dim %d: %v vs %v", d, first.Shape(), s))
			}
		}
		outShape[dim] += s[dim]
	}

	result, err := tensor.NewRaw(outShape, first.DType(), first.Device())
	if err != nil {
		panic(fmt.Sprintf("cat: %v", err))
	}

	// Copy slab-by-slab: every index prefix before dim selects one slab
	// in each input, laid out contiguously after dim.
	outer := 1
	for d := 0; d < dim; d++ {
		outer *= outShape[d]
	}
	inner := 1
	for d := dim + 1; d < ndim; d++ {
		inner *= outShape[d]
	}

	elemSize := first.DType().Size()
	outData := result.Data()
	outSlab := outShape[dim] * inner * elemSize
	offset := 0
	for _, t := range tensors {
		slab := t.Shape()[dim] * inner * elemSize
		inData := t.Data()
		for o := 0; o < outer; o++ {
			copy(outData[o*outSlab+offset:o*outSlab+offset+slab], inData[o*slab:(o+1)*slab])
		}
		offset += slab
	}
	return result
}

// Narrow returns a copy of the tensor restricted to
// [start, start+length) along the given dimension.
func (cpu *CPUBackend) Narrow(t *tensor.RawTensor, dim, start, length int) *tensor.RawTensor {
	shape := t.Shape()
	ndim := len(shape)
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("narrow: invalid dimension %d for %dD tensor", dim, ndim))
	}
	if start < 0 || length <= 0 || start+length > shape[dim] {
		panic(fmt.Sprintf("narrow: range [%d, %d) out of bounds for dim of size %d", start, start+length, shape[dim]))
	}

	outShape := shape.Clone()
	outShape[dim] = length
	result, err := tensor.NewRaw(outShape, t.DType(), t.Device())
	if err != nil {
		panic(fmt.Sprintf("narrow: %v", err))
	}

	outer := 1
	for d := 0; d < dim; d++ {
		outer *= shape[d]
	}
	inner := 1
	for d := dim + 1; d < ndim; d++ {
		inner *= shape[d]
	}

	elemSize := t.DType().Size()
	inSlab := shape[dim] * inner * elemSize
	outSlab := length * inner * elemSize
	inData, outData := t.Data(), result.Data()
	for o := 0; o < outer; o++ {
		from := o*inSlab + start*inner*elemSize
		copy(outData[o*outSlab:(o+1)*outSlab], inData[from:from+outSlab])
	}
	return result
}

// Expand materializes a broadcast of the tensor to the given shape.
func (cpu *CPUBackend) Expand(t *tensor.RawTensor, shape tensor.Shape) *tensor.RawTensor {
	if _, _, err := tensor.BroadcastShapes(t.Shape(), shape); err != nil {
		panic(fmt.Sprintf("expand: %v", err))
	}

	result, err := tensor.NewRaw(shape, t.DType(), t.Device())
	if err != nil {
		panic(fmt.Sprintf("expand: %v", err))
	}

	switch t.DType() {
	case tensor.Complex64:
		expandData(result.AsComplex64(), t.AsComplex64(), t.Shape(), shape)
	case tensor.Complex128:
		expandData(result.AsComplex128(), t.AsComplex128(), t.Shape(), shape)
	}
	return result
}

func expandData[T tensor.Complex](out, in []T, inShape, outShape tensor.Shape) {
	strides := broadcastStrides(inShape, outShape)
	idx := make([]int, len(outShape))
	for i := range out {
		off := 0
		for d := range idx {
			off += idx[d] * strides[d]
		}
		out[i] = in[off]

		for d := len(idx) - 1; d >= 0; d-- {
			idx[d]++
			if idx[d] < outShape[d] {
				break
			}
			idx[d] = 0
		}
	}
}
