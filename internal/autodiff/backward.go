package autodiff

import (
	"fmt"

	"github.com/ket-ml/ket/internal/tensor"
)

// BackwardCapable is an interface for backends that support a backward pass.
// AutodiffBackend implements this interface.
type BackwardCapable interface {
	tensor.Backend
	// GetTape returns the gradient tape for backward computation.
	GetTape() *GradientTape
}

// GetTape returns the gradient tape (implements BackwardCapable).
func (b *AutodiffBackend[B]) GetTape() *GradientTape {
	return b.tape
}

// Backward seeds the output with a gradient of ones and walks the tape,
// returning a map from RawTensor to its accumulated gradient.
func Backward(output *tensor.RawTensor, backend BackwardCapable) map[*tensor.RawTensor]*tensor.RawTensor {
	tape := backend.GetTape()
	if tape.NumOps() == 0 {
		panic("backward: no operations recorded (did you forget to call Tape().StartRecording()?)")
	}

	seed, err := tensor.NewRaw(output.Shape(), output.DType(), backend.Device())
	if err != nil {
		panic(fmt.Sprintf("backward: failed to create output gradient: %v", err))
	}
	for i := 0; i < seed.NumElements(); i++ {
		seed.SetAt(i, 1)
	}

	return tape.Backward(output, seed, backend)
}
