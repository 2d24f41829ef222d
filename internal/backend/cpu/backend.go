// Package cpu implements the pure-Go CPU backend for complex tensors.
package cpu

import (
	"fmt"

	"github.com/ket-ml/ket/internal/tensor"
)

// CPUBackend implements tensor operations on CPU.
type CPUBackend struct {
	device tensor.Device
}

// New creates a new CPU backend.
func New() *CPUBackend {
	return &CPUBackend{
		device: tensor.CPU,
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// Add performs element-wise addition with NumPy-style broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("add", a, b,
		func(x, y complex64) complex64 { return x + y },
		func(x, y complex128) complex128 { return x + y })
}

// Sub performs element-wise subtraction with broadcasting.
func (cpu *CPUBackend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("sub", a, b,
		func(x, y complex64) complex64 { return x - y },
		func(x, y complex128) complex128 { return x - y })
}

// Mul performs element-wise multiplication with broadcasting.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("mul", a, b,
		func(x, y complex64) complex64 { return x * y },
		func(x, y complex128) complex128 { return x * y })
}

// Div performs element-wise division with broadcasting.
func (cpu *CPUBackend) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("div", a, b,
		func(x, y complex64) complex64 { return x / y },
		func(x, y complex128) complex128 { return x / y })
}

// binary dispatches an element-wise binary operation by dtype.
func (cpu *CPUBackend) binary(
	name string,
	a, b *tensor.RawTensor,
	f64 func(x, y complex64) complex64,
	f128 func(x, y complex128) complex128,
) *tensor.RawTensor {
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("%s: dtype mismatch: %s vs %s", name, a.DType(), b.DType()))
	}

	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	// Fast path: same shapes and a owns its buffer exclusively, so the
	// result can be written into a without allocating.
	if !needsBroadcast && a.Shape().Equal(b.Shape()) && a.IsUnique() {
		switch a.DType() {
		case tensor.Complex64:
			binaryInplace(a.AsComplex64(), b.AsComplex64(), f64)
		case tensor.Complex128:
			binaryInplace(a.AsComplex128(), b.AsComplex128(), f128)
		}
		return a
	}

	result, err := tensor.NewRaw(outShape, a.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", name, err))
	}

	switch a.DType() {
	case tensor.Complex64:
		if !needsBroadcast {
			binaryVectorized(result.AsComplex64(), a.AsComplex64(), b.AsComplex64(), f64)
		} else {
			binaryWithBroadcast(result, a, b, result.AsComplex64(), a.AsComplex64(), b.AsComplex64(), f64)
		}
	case tensor.Complex128:
		if !needsBroadcast {
			binaryVectorized(result.AsComplex128(), a.AsComplex128(), b.AsComplex128(), f128)
		} else {
			binaryWithBroadcast(result, a, b, result.AsComplex128(), a.AsComplex128(), b.AsComplex128(), f128)
		}
	}

	return result
}
