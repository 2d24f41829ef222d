package ops

import "github.com/ket-ml/ket/internal/tensor"

// TraceOp represents the batched matrix trace: [D, D, B] -> [B].
//
// Backward pass: the gradient of the trace with respect to the matrix is the
// identity, so the batched gradient is eye(D) scaled per batch element.
type TraceOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewTraceOp creates a new TraceOp.
func NewTraceOp(input, output *tensor.RawTensor) *TraceOp {
	return &TraceOp{input: input, output: output}
}

// Backward scatters the gradient along the diagonal.
func (op *TraceOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	d := op.input.Shape()[0]
	batch := op.input.Shape()[2]

	eye := tensor.Eye(d, outputGrad.DType(), outputGrad.Device()) // [D, D, 1]
	gradB := backend.Reshape(outputGrad, tensor.Shape{1, 1, batch})
	return []*tensor.RawTensor{backend.Mul(eye, gradB)}
}

// Inputs returns the input tensors.
func (op *TraceOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the trace output tensor.
func (op *TraceOp) Output() *tensor.RawTensor {
	return op.output
}
