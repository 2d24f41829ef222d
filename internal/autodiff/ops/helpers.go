package ops

import "github.com/ket-ml/ket/internal/tensor"

// reduceBroadcast sums a gradient over the dimensions that were broadcast in
// the forward pass, so its shape matches the original input shape.
func reduceBroadcast(grad *tensor.RawTensor, inputShape tensor.Shape, backend tensor.Backend) *tensor.RawTensor {
	gradShape := grad.Shape()
	if gradShape.Equal(inputShape) {
		return grad
	}

	// Reduce leading dimensions the input never had.
	result := grad
	for len(result.Shape()) > len(inputShape) {
		result = backend.SumDim(result, 0, false)
	}

	// Reduce dimensions where the input had size 1.
	for d, dim := range inputShape {
		if dim == 1 && result.Shape()[d] != 1 {
			result = backend.SumDim(result, d, true)
		}
	}
	return backend.Reshape(result, inputShape)
}
