// Copyright 2025 The ket Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for the dense complex tensor
// core underlying quantum state evolution.
//
// The package re-exports the core types and constructors:
//   - RawTensor: dense complex tensor with copy-on-write buffers
//   - Backend: interface for device-specific compute implementations
//   - Shape, DataType, Device: core type definitions
//
// Example:
//
//	backend := cpu.New()
//	psi := tensor.Zeros(tensor.Shape{2, 2, 1}, tensor.Complex128, tensor.CPU)
//	phi := backend.MulScalar(psi, 2)
package tensor

import (
	"github.com/ket-ml/ket/internal/tensor"
)

// Complex is the constraint for tensor element types.
type Complex = tensor.Complex

// DataType represents the underlying data type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Complex64  DataType = tensor.Complex64
	Complex128 DataType = tensor.Complex128
)

// Device represents the device where tensor data resides.
type Device = tensor.Device

// CPU is the only in-tree device.
const CPU Device = tensor.CPU

// Shape represents the dimensions of a tensor.
type Shape = tensor.Shape

// RawTensor is a dense complex tensor backed by a reference-counted
// copy-on-write buffer.
type RawTensor = tensor.RawTensor

// Backend is the compute interface all backends implement.
type Backend = tensor.Backend

// NewRaw allocates an uninitialized tensor.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype, device)
}

// Zeros returns a zero-filled tensor.
func Zeros(shape Shape, dtype DataType, device Device) *RawTensor {
	return tensor.Zeros(shape, dtype, device)
}

// Ones returns a tensor filled with 1.
func Ones(shape Shape, dtype DataType, device Device) *RawTensor {
	return tensor.Ones(shape, dtype, device)
}

// Full returns a tensor filled with the given value.
func Full(shape Shape, value complex128, dtype DataType, device Device) *RawTensor {
	return tensor.Full(shape, value, dtype, device)
}

// Eye returns the batch-1 identity matrix [n, n, 1].
func Eye(n int, dtype DataType, device Device) *RawTensor {
	return tensor.Eye(n, dtype, device)
}

// FromSlice copies a complex slice into a tensor of the given shape.
func FromSlice[T Complex](data []T, shape Shape, device Device) (*RawTensor, error) {
	return tensor.FromSlice(data, shape, device)
}

// Randn returns a tensor with standard-normal real and imaginary parts.
func Randn(shape Shape, dtype DataType, device Device) *RawTensor {
	return tensor.Randn(shape, dtype, device)
}

// BroadcastShapes computes the NumPy-style broadcast of two shapes.
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	return tensor.BroadcastShapes(a, b)
}
