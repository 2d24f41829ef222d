// Package ops defines operation interfaces and implementations for automatic
// differentiation over complex tensors.
//
// Each operation implements the Operation interface: the forward pass is
// computed by the wrapped backend, the backward pass computes input gradients
// given the output gradient.
//
// Gradient convention: for a real-valued loss L, the gradient stored for a
// complex tensor x is dL/d(conj x). Holomorphic operations therefore
// back-propagate as grad_in = grad_out * conj(f'(x)), and the conjugation
// operation back-propagates the conjugated gradient. With this convention a
// real parameter's derivative is the real part of its accumulated gradient.
package ops

import "github.com/ket-ml/ket/internal/tensor"

// Operation represents a differentiable operation in the computation graph.
// Each operation records its inputs and output during the forward pass,
// and computes input gradients during the backward pass.
type Operation interface {
	// Backward computes gradients for inputs given the output gradient.
	// Returns a slice of gradients corresponding to each input tensor.
	Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor

	// Inputs returns the input tensors for this operation.
	Inputs() []*tensor.RawTensor

	// Output returns the output tensor produced by this operation.
	Output() *tensor.RawTensor
}
