package cpu

import (
	"github.com/ket-ml/ket/internal/tensor"
)

// MulScalar multiplies every element by a scalar.
func (cpu *CPUBackend) MulScalar(x *tensor.RawTensor, scalar complex128) *tensor.RawTensor {
	return cpu.unary(x, func(v complex128) complex128 { return v * scalar })
}

// AddScalar adds a scalar to every element.
func (cpu *CPUBackend) AddScalar(x *tensor.RawTensor, scalar complex128) *tensor.RawTensor {
	return cpu.unary(x, func(v complex128) complex128 { return v + scalar })
}
