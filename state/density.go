package state

import (
	"fmt"
	"math"

	"github.com/ket-ml/ket/internal/tensor"
)

// DensityMatrix holds a batch of n-qubit density matrices. The tensor
// layout is [2]*n (row axes) ++ [2]*n (column axes) ++ [batch].
type DensityMatrix struct {
	raw     *tensor.RawTensor
	nQubits int
	batch   int
}

// ZeroDensity returns the density matrix of the all-zero basis state.
func ZeroDensity(nQubits int, opts ...Option) (*DensityMatrix, error) {
	if nQubits < 1 {
		return nil, fmt.Errorf("%w: qubit count must be >= 1, got %d", ErrShape, nQubits)
	}
	c := buildConfig(opts)
	if c.batch < 1 {
		return nil, fmt.Errorf("%w: batch size must be >= 1, got %d", ErrBatchMismatch, c.batch)
	}

	raw := tensor.Zeros(tensor.DensityShape(nQubits, c.batch), c.dtype, tensor.CPU)
	for b := 0; b < c.batch; b++ {
		raw.SetAt(b, 1) // |0..0><0..0| has a single unit entry at the origin
	}
	return &DensityMatrix{raw: raw, nQubits: nQubits, batch: c.batch}, nil
}

// FromMatrix wraps a caller-supplied density tensor after validating its
// layout: two axes of size 2 per qubit plus a trailing batch axis.
func FromMatrix(raw *tensor.RawTensor, nQubits int) (*DensityMatrix, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: nil density tensor", ErrShape)
	}
	shape := raw.Shape()
	if len(shape) != 2*nQubits+1 {
		return nil, fmt.Errorf("%w: expected rank %d (two axes per qubit plus batch), got shape %v",
			ErrShape, 2*nQubits+1, shape)
	}
	for d := 0; d < 2*nQubits; d++ {
		if shape[d] != 2 {
			return nil, fmt.Errorf("%w: qubit axis %d has dimension %d, want 2", ErrShape, d, shape[d])
		}
	}
	return &DensityMatrix{raw: raw, nQubits: nQubits, batch: shape[2*nQubits]}, nil
}

// NumQubits returns the number of qubits.
func (d *DensityMatrix) NumQubits() int {
	return d.nQubits
}

// BatchSize returns the batch size.
func (d *DensityMatrix) BatchSize() int {
	return d.batch
}

// Tensor returns the underlying density tensor.
func (d *DensityMatrix) Tensor() *tensor.RawTensor {
	return d.raw
}

// DType returns the data type.
func (d *DensityMatrix) DType() tensor.DataType {
	return d.raw.DType()
}

// Trace returns the trace of each batch element.
func (d *DensityMatrix) Trace() []complex128 {
	dim := 1 << d.nQubits
	out := make([]complex128, d.batch)
	for b := 0; b < d.batch; b++ {
		var acc complex128
		for i := 0; i < dim; i++ {
			// Row index i and column index i, batch axis last.
			acc += d.raw.At(i*dim*d.batch + i*d.batch + b)
		}
		out[b] = acc
	}
	return out
}

// CheckTrace logs a warning for any batch element whose trace drifted
// beyond NormTolerance from 1. Returns true when all elements are within
// tolerance.
func (d *DensityMatrix) CheckTrace() bool {
	ok := true
	for b, tr := range d.Trace() {
		if math.Abs(real(tr)-1) > NormTolerance || math.Abs(imag(tr)) > NormTolerance {
			logger.Warn("density trace drifted from 1", "batch", b, "trace", tr)
			ok = false
		}
	}
	return ok
}

// Normalize returns a copy scaled to unit trace per batch element.
// The engine never renormalizes on its own; callers opt in explicitly.
func (d *DensityMatrix) Normalize() *DensityMatrix {
	raw := tensor.Zeros(d.raw.Shape(), d.raw.DType(), d.raw.Device())
	copy(raw.Data(), d.raw.Data()[:d.raw.ByteSize()])
	out := &DensityMatrix{raw: raw, nQubits: d.nQubits, batch: d.batch}

	dim := 1 << d.nQubits
	for b, tr := range d.Trace() {
		if tr == 0 {
			continue
		}
		inv := 1 / tr
		for i := 0; i < dim*dim; i++ {
			idx := i*d.batch + b
			raw.SetAt(idx, raw.At(idx)*inv)
		}
	}
	return out
}
