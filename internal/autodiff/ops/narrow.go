package ops

import "github.com/ket-ml/ket/internal/tensor"

// NarrowOp records a slice along one dimension.
//
// Backward: the gradient is zero-padded back to the input extent by
// concatenating zero blocks around it.
type NarrowOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
	dim    int
	start  int
	length int
}

// NewNarrowOp creates a new NarrowOp.
func NewNarrowOp(input, output *tensor.RawTensor, dim, start, length int) *NarrowOp {
	return &NarrowOp{
		input:  input,
		output: output,
		dim:    dim,
		start:  start,
		length: length,
	}
}

// Backward pads the gradient with zeros up to the input shape.
func (op *NarrowOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	inShape := op.input.Shape()
	total := inShape[op.dim]

	parts := make([]*tensor.RawTensor, 0, 3)
	if op.start > 0 {
		before := inShape.Clone()
		before[op.dim] = op.start
		parts = append(parts, tensor.Zeros(before, outputGrad.DType(), outputGrad.Device()))
	}
	parts = append(parts, outputGrad)
	if end := op.start + op.length; end < total {
		after := inShape.Clone()
		after[op.dim] = total - end
		parts = append(parts, tensor.Zeros(after, outputGrad.DType(), outputGrad.Device()))
	}

	if len(parts) == 1 {
		return []*tensor.RawTensor{outputGrad}
	}
	return []*tensor.RawTensor{backend.Cat(parts, op.dim)}
}

// Inputs returns the input tensors.
func (op *NarrowOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the narrowed output tensor.
func (op *NarrowOp) Output() *tensor.RawTensor {
	return op.output
}
