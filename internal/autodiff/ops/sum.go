package ops

import "github.com/ket-ml/ket/internal/tensor"

// SumOp represents a full reduction: output = Σ x (single-element tensor).
//
// Backward pass: the scalar gradient broadcasts back over the input shape.
type SumOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewSumOp creates a new SumOp.
func NewSumOp(input, output *tensor.RawTensor) *SumOp {
	return &SumOp{input: input, output: output}
}

// Backward broadcasts the gradient over the input shape.
func (op *SumOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Expand(outputGrad, op.input.Shape())}
}

// Inputs returns the input tensors.
func (op *SumOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the reduced output tensor.
func (op *SumOp) Output() *tensor.RawTensor {
	return op.output
}

// SumDimOp represents a reduction along one dimension.
//
// Backward pass: the gradient is re-inserted at the reduced dimension and
// broadcast back to the input shape.
type SumDimOp struct {
	input   *tensor.RawTensor
	output  *tensor.RawTensor
	dim     int
	keepDim bool
}

// NewSumDimOp creates a new SumDimOp.
func NewSumDimOp(input, output *tensor.RawTensor, dim int, keepDim bool) *SumDimOp {
	return &SumDimOp{input: input, output: output, dim: dim, keepDim: keepDim}
}

// Backward broadcasts the gradient along the reduced dimension.
func (op *SumDimOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	grad := outputGrad
	if !op.keepDim && len(outputGrad.Shape()) < len(op.input.Shape()) {
		// Re-insert the reduced dimension with size 1.
		withDim := make(tensor.Shape, 0, len(op.input.Shape()))
		withDim = append(withDim, outputGrad.Shape()[:op.dim]...)
		withDim = append(withDim, 1)
		withDim = append(withDim, outputGrad.Shape()[op.dim:]...)
		grad = backend.Reshape(grad, withDim)
	}
	return []*tensor.RawTensor{backend.Expand(grad, op.input.Shape())}
}

// Inputs returns the input tensors.
func (op *SumDimOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the reduced output tensor.
func (op *SumDimOp) Output() *tensor.RawTensor {
	return op.output
}
