// Copyright 2025 The ket Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package state represents multi-qubit quantum states as dense complex
// tensors.
//
// A pure state over n qubits is a tensor with one axis of size 2 per qubit
// plus a trailing batch axis; a density matrix carries two axes per qubit
// (row and column) plus the batch axis. States are immutable: every
// operation produces a new value, which keeps reverse-mode differentiation
// free of aliasing hazards.
package state

import (
	"fmt"
	"math"
	"os"

	"github.com/charmbracelet/log"

	"github.com/ket-ml/ket/internal/tensor"
)

// NormTolerance is the norm / trace drift beyond which a warning is logged.
// Drift is expected from floating-point arithmetic and never a hard failure.
const NormTolerance = 1e-8

var logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "ket.state"})

// QuantumState holds the amplitudes of a batch of pure n-qubit states.
// The tensor layout is [2]*n ++ [batch]: qubit 0 is the leading axis,
// the batch axis is always last.
type QuantumState struct {
	raw     *tensor.RawTensor
	nQubits int
	batch   int
}

// Option configures state construction.
type Option func(*config)

type config struct {
	batch int
	dtype tensor.DataType
}

// WithBatchSize sets the batch size of the constructed state (default 1).
func WithBatchSize(batch int) Option {
	return func(c *config) { c.batch = batch }
}

// WithDType sets the amplitude data type (default Complex128).
func WithDType(dtype tensor.DataType) Option {
	return func(c *config) { c.dtype = dtype }
}

func buildConfig(opts []Option) config {
	c := config{batch: 1, dtype: tensor.Complex128}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Zero returns the all-zero basis state |0...0> for the given qubit count.
func Zero(nQubits int, opts ...Option) (*QuantumState, error) {
	if nQubits < 1 {
		return nil, fmt.Errorf("%w: qubit count must be >= 1, got %d", ErrShape, nQubits)
	}
	c := buildConfig(opts)
	if c.batch < 1 {
		return nil, fmt.Errorf("%w: batch size must be >= 1, got %d", ErrBatchMismatch, c.batch)
	}

	raw := tensor.Zeros(tensor.QubitShape(nQubits, c.batch), c.dtype, tensor.CPU)
	for b := 0; b < c.batch; b++ {
		raw.SetAt(b, 1)
	}
	return &QuantumState{raw: raw, nQubits: nQubits, batch: c.batch}, nil
}

// Product returns the computational basis state described by a bitstring,
// e.g. "10" for |10>. The leftmost character addresses qubit 0.
func Product(bits string, opts ...Option) (*QuantumState, error) {
	if len(bits) == 0 {
		return nil, fmt.Errorf("%w: empty bitstring", ErrShape)
	}
	c := buildConfig(opts)
	if c.batch < 1 {
		return nil, fmt.Errorf("%w: batch size must be >= 1, got %d", ErrBatchMismatch, c.batch)
	}

	index := 0
	for _, ch := range bits {
		index <<= 1
		switch ch {
		case '0':
		case '1':
			index |= 1
		default:
			return nil, fmt.Errorf("%w: bitstring may contain only '0' and '1', got %q", ErrShape, bits)
		}
	}

	raw := tensor.Zeros(tensor.QubitShape(len(bits), c.batch), c.dtype, tensor.CPU)
	for b := 0; b < c.batch; b++ {
		raw.SetAt(index*c.batch+b, 1)
	}
	return &QuantumState{raw: raw, nQubits: len(bits), batch: c.batch}, nil
}

// Random returns a batch of unit-norm random states with Gaussian
// amplitudes.
func Random(nQubits int, opts ...Option) (*QuantumState, error) {
	if nQubits < 1 {
		return nil, fmt.Errorf("%w: qubit count must be >= 1, got %d", ErrShape, nQubits)
	}
	c := buildConfig(opts)
	if c.batch < 1 {
		return nil, fmt.Errorf("%w: batch size must be >= 1, got %d", ErrBatchMismatch, c.batch)
	}

	raw := tensor.Randn(tensor.QubitShape(nQubits, c.batch), c.dtype, tensor.CPU)
	st := &QuantumState{raw: raw, nQubits: nQubits, batch: c.batch}
	st.normalizeInPlace()
	return st, nil
}

// FromAmplitudes wraps a caller-supplied amplitude tensor after validating
// its layout: one axis of size 2 per qubit plus a trailing batch axis.
func FromAmplitudes(raw *tensor.RawTensor, nQubits int) (*QuantumState, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: nil amplitude tensor", ErrShape)
	}
	shape := raw.Shape()
	if len(shape) != nQubits+1 {
		return nil, fmt.Errorf("%w: expected rank %d (one axis per qubit plus batch), got shape %v",
			ErrShape, nQubits+1, shape)
	}
	for d := 0; d < nQubits; d++ {
		if shape[d] != 2 {
			return nil, fmt.Errorf("%w: qubit axis %d has dimension %d, want 2", ErrShape, d, shape[d])
		}
	}
	return &QuantumState{raw: raw, nQubits: nQubits, batch: shape[nQubits]}, nil
}

// NumQubits returns the number of qubits.
func (s *QuantumState) NumQubits() int {
	return s.nQubits
}

// BatchSize returns the batch size.
func (s *QuantumState) BatchSize() int {
	return s.batch
}

// Tensor returns the underlying amplitude tensor.
func (s *QuantumState) Tensor() *tensor.RawTensor {
	return s.raw
}

// DType returns the amplitude data type.
func (s *QuantumState) DType() tensor.DataType {
	return s.raw.DType()
}

// Amplitude returns the amplitude of the basis state with the given flat
// index for one batch element.
func (s *QuantumState) Amplitude(index, batch int) complex128 {
	return s.raw.At(index*s.batch + batch)
}

// Norms returns the 2-norm of each batch element.
func (s *QuantumState) Norms() []float64 {
	dim := 1 << s.nQubits
	norms := make([]float64, s.batch)
	for b := 0; b < s.batch; b++ {
		var acc float64
		for i := 0; i < dim; i++ {
			v := s.raw.At(i*s.batch + b)
			acc += real(v)*real(v) + imag(v)*imag(v)
		}
		norms[b] = math.Sqrt(acc)
	}
	return norms
}

// CheckNorm logs a warning for any batch element whose norm drifted beyond
// NormTolerance from 1. Returns true when all elements are within tolerance.
func (s *QuantumState) CheckNorm() bool {
	ok := true
	for b, n := range s.Norms() {
		if math.Abs(n-1) > NormTolerance {
			logger.Warn("state norm drifted from 1", "batch", b, "norm", n)
			ok = false
		}
	}
	return ok
}

// Normalize returns a copy of the state scaled to unit norm per batch
// element.
func (s *QuantumState) Normalize() *QuantumState {
	out := s.cloneData()
	out.normalizeInPlace()
	return out
}

func (s *QuantumState) normalizeInPlace() {
	dim := 1 << s.nQubits
	for b, n := range s.Norms() {
		if n == 0 {
			continue
		}
		inv := complex(1/n, 0)
		for i := 0; i < dim; i++ {
			idx := i*s.batch + b
			s.raw.SetAt(idx, s.raw.At(idx)*inv)
		}
	}
}

func (s *QuantumState) cloneData() *QuantumState {
	raw := tensor.Zeros(s.raw.Shape(), s.raw.DType(), s.raw.Device())
	copy(raw.Data(), s.raw.Data()[:s.raw.ByteSize()])
	return &QuantumState{raw: raw, nQubits: s.nQubits, batch: s.batch}
}

// Overlap returns the inner product <s|other> for each batch element.
func (s *QuantumState) Overlap(other *QuantumState) ([]complex128, error) {
	if s.nQubits != other.nQubits {
		return nil, fmt.Errorf("%w: qubit counts differ: %d vs %d", ErrShape, s.nQubits, other.nQubits)
	}
	if s.batch != other.batch {
		return nil, fmt.Errorf("%w: %d vs %d", ErrBatchMismatch, s.batch, other.batch)
	}
	dim := 1 << s.nQubits
	out := make([]complex128, s.batch)
	for b := 0; b < s.batch; b++ {
		var acc complex128
		for i := 0; i < dim; i++ {
			idx := i*s.batch + b
			v := s.raw.At(idx)
			acc += complex(real(v), -imag(v)) * other.raw.At(idx)
		}
		out[b] = acc
	}
	return out, nil
}

// ToDensityMatrix returns the outer product |s><s| per batch element.
func (s *QuantumState) ToDensityMatrix(b tensor.Backend) *DensityMatrix {
	dim := 1 << s.nQubits

	flat := b.Reshape(s.raw, tensor.Shape{dim, 1, s.batch})
	conjRow := b.Conj(b.Reshape(s.raw, tensor.Shape{1, dim, s.batch}))
	outer := b.Mul(flat, conjRow) // [dim, dim, batch]

	return &DensityMatrix{
		raw:     b.Reshape(outer, tensor.DensityShape(s.nQubits, s.batch)),
		nQubits: s.nQubits,
		batch:   s.batch,
	}
}
