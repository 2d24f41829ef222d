// Package tensor provides the dense complex tensor core for the ket emulator.
package tensor

// Complex is a constraint for supported amplitude element types.
// It uses Go generics to ensure compile-time type safety.
type Complex interface {
	~complex64 | ~complex128
}

// DataType represents runtime type information for tensors.
type DataType int

// Supported data types for tensors.
const (
	Complex64 DataType = iota
	Complex128
)

// Size returns the byte size of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Complex64:
		return 8
	case Complex128:
		return 16
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Complex64:
		return "complex64"
	case Complex128:
		return "complex128"
	default:
		return "unknown"
	}
}

// Eps returns the comparison tolerance appropriate for the data type.
func (dt DataType) Eps() float64 {
	if dt == Complex64 {
		return 1e-5
	}
	return 1e-8
}

// inferDataType infers DataType from a generic type T.
func inferDataType[T Complex](dummy T) DataType {
	switch any(dummy).(type) {
	case complex64:
		return Complex64
	case complex128:
		return Complex128
	default:
		panic("unsupported type")
	}
}
