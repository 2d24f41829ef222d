package cpu

import (
	"math/cmplx"

	"github.com/ket-ml/ket/internal/tensor"
)

// Conj returns the element-wise complex conjugate.
func (cpu *CPUBackend) Conj(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary(x, cmplx.Conj)
}

// Exp returns the element-wise complex exponential.
func (cpu *CPUBackend) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary(x, cmplx.Exp)
}

// Cos returns the element-wise complex cosine.
func (cpu *CPUBackend) Cos(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary(x, cmplx.Cos)
}

// Sin returns the element-wise complex sine.
func (cpu *CPUBackend) Sin(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary(x, cmplx.Sin)
}

// Sqrt returns the element-wise principal square root.
func (cpu *CPUBackend) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary(x, cmplx.Sqrt)
}
