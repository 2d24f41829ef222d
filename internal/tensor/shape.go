package tensor

import "fmt"

// Shape holds the dimensions of a tensor in row-major order.
type Shape []int

// QubitShape builds the tensor shape of a batched pure state or
// operator over nQubits wires: one axis of size 2 per wire, with the
// batch as the trailing axis.
func QubitShape(nQubits, batch int) Shape {
	s := make(Shape, nQubits+1)
	for i := 0; i < nQubits; i++ {
		s[i] = 2
	}
	s[nQubits] = batch
	return s
}

// DensityShape builds the tensor shape of a batched density matrix over
// nQubits wires: 2n axes of size 2 (row then column wires) plus the
// trailing batch axis.
func DensityShape(nQubits, batch int) Shape {
	return QubitShape(2*nQubits, batch)
}

// NumElements returns the number of elements a tensor of this shape
// holds. A zero-length shape is a scalar.
func (s Shape) NumElements() int {
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate rejects shapes with non-positive dimensions.
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim <= 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be > 0)", i, dim)
		}
	}
	return nil
}

// Equal reports whether both shapes have the same dimensions.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// ComputeStrides returns the row-major strides: stride[i] is the
// product of the dimensions after i, with the last axis contiguous.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// BroadcastShapes aligns two shapes under NumPy broadcasting: walking
// right to left, dimensions must match or one of them must be 1, and a
// missing dimension counts as 1. It returns the combined shape, whether
// any stretching is actually required, and an error on a mismatch.
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	result := make(Shape, maxLen)
	needsBroadcast := false

	for i := 0; i < maxLen; i++ {
		aDim, bDim := 1, 1
		if j := len(a) - 1 - i; j >= 0 {
			aDim = a[j]
		}
		if j := len(b) - 1 - i; j >= 0 {
			bDim = b[j]
		}

		switch {
		case aDim == bDim:
			result[maxLen-1-i] = aDim
		case aDim == 1:
			result[maxLen-1-i] = bDim
			needsBroadcast = true
		case bDim == 1:
			result[maxLen-1-i] = aDim
			needsBroadcast = true
		default:
			return nil, false, fmt.Errorf("shapes not compatible for broadcasting: %v vs %v (dimension %d: %d vs %d)",
				a, b, maxLen-1-i, aDim, bDim)
		}
	}

	return result, needsBroadcast, nil
}
