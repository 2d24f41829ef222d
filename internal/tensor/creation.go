package tensor

import (
	"fmt"
	"math"
	"math/rand"
)

// Zeros creates a zero-initialized tensor.
// Panics on an invalid shape; use NewRaw when the shape is caller-supplied.
func Zeros(shape Shape, dtype DataType, device Device) *RawTensor {
	raw, err := NewRaw(shape, dtype, device)
	if err != nil {
		panic(err)
	}
	return raw
}

// Full creates a tensor filled with a specific value.
func Full(shape Shape, value complex128, dtype DataType, device Device) *RawTensor {
	t := Zeros(shape, dtype, device)
	for i := 0; i < t.NumElements(); i++ {
		t.SetAt(i, value)
	}
	return t
}

// Ones creates a tensor filled with ones.
func Ones(shape Shape, dtype DataType, device Device) *RawTensor {
	return Full(shape, 1, dtype, device)
}

// Eye creates an identity matrix of dimension n with a trailing batch axis
// of size 1, the layout used for operator matrices.
func Eye(n int, dtype DataType, device Device) *RawTensor {
	t := Zeros(Shape{n, n, 1}, dtype, device)
	for i := 0; i < n; i++ {
		t.SetAt(i*n+i, 1)
	}
	return t
}

// FromSlice creates a tensor from a Go slice, copying the data.
func FromSlice[T Complex](data []T, shape Shape, device Device) (*RawTensor, error) {
	var dummy T
	dtype := inferDataType(dummy)

	raw, err := NewRaw(shape, dtype, device)
	if err != nil {
		return nil, err
	}
	if len(data) != raw.NumElements() {
		return nil, fmt.Errorf("data length %d does not match shape %v (%d elements)",
			len(data), shape, raw.NumElements())
	}
	switch dtype {
	case Complex64:
		copy(raw.AsComplex64(), any(data).([]complex64))
	case Complex128:
		copy(raw.AsComplex128(), any(data).([]complex128))
	}
	return raw, nil
}

// Randn creates a tensor whose real and imaginary parts are drawn from a
// standard normal distribution via the Box-Muller transform.
// Note: uses math/rand (not crypto/rand) - appropriate for simulation purposes.
func Randn(shape Shape, dtype DataType, device Device) *RawTensor {
	t := Zeros(shape, dtype, device)
	for i := 0; i < t.NumElements(); i++ {
		u1 := rand.Float64() //nolint:gosec // G404: simulation uses math/rand intentionally for reproducibility
		u2 := rand.Float64() //nolint:gosec // G404
		re := math.Sqrt(-2.0*math.Log(u1)) * math.Cos(2.0*math.Pi*u2)
		im := math.Sqrt(-2.0*math.Log(u1)) * math.Sin(2.0*math.Pi*u2)
		t.SetAt(i, complex(re, im))
	}
	return t
}
