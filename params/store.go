// Copyright 2025 The ket Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package params provides the parameter store shared by parameterized
// operators.
//
// A Store maps parameter names to scalar or batched values. Operators
// reference entries by name and only ever read them; an external caller
// (typically an optimizer) mutates values between evaluations. Concurrent
// mutation during an in-flight evaluation is not supported.
package params

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ket-ml/ket/internal/tensor"
	"github.com/ket-ml/ket/state"
)

// ErrUnknownParameter reports a parameter name with no value in the store.
var ErrUnknownParameter = errors.New("unknown parameter")

// Store maps parameter names to batched values. Values are held as complex
// leaf tensors of shape [batch] so the tracing differentiation engine can
// treat them as graph leaves; the imaginary parts are zero.
type Store struct {
	values map[string]*tensor.RawTensor
	dtype  tensor.DataType
}

// Option configures a Store.
type Option func(*Store)

// WithDType sets the data type of stored value tensors (default
// Complex128). It must match the data type of the states the parameters
// are evaluated against.
func WithDType(dtype tensor.DataType) Option {
	return func(s *Store) { s.dtype = dtype }
}

// NewStore creates an empty parameter store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		values: make(map[string]*tensor.RawTensor),
		dtype:  tensor.Complex128,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetScalar sets a parameter to a single unbatched value.
func (s *Store) SetScalar(name string, value float64) {
	s.Set(name, []float64{value})
}

// Set sets a parameter to a batch of values.
func (s *Store) Set(name string, values []float64) {
	raw := tensor.Zeros(tensor.Shape{len(values)}, s.dtype, tensor.CPU)
	for i, v := range values {
		raw.SetAt(i, complex(v, 0))
	}
	s.values[name] = raw
}

// Get returns the value tensor for a parameter name.
func (s *Store) Get(name string) (*tensor.RawTensor, error) {
	raw, ok := s.values[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownParameter, name)
	}
	return raw, nil
}

// Values returns the real parts of a parameter's batch of values.
func (s *Store) Values(name string) ([]float64, error) {
	raw, err := s.Get(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, raw.NumElements())
	for i := range out {
		out[i] = real(raw.At(i))
	}
	return out, nil
}

// Names returns all parameter names in sorted order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.values))
	for name := range s.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of stored parameters.
func (s *Store) Len() int {
	return len(s.values)
}

// DType returns the data type of stored value tensors.
func (s *Store) DType() tensor.DataType {
	return s.dtype
}

// BatchSize returns the common batch size of all stored values. Every value
// must have batch size 1 or the shared size; anything else is a
// state.ErrBatchMismatch.
func (s *Store) BatchSize() (int, error) {
	batch := 1
	for _, name := range s.Names() {
		n := s.values[name].NumElements()
		switch {
		case n == 1 || n == batch:
		case batch == 1:
			batch = n
		default:
			return 0, fmt.Errorf("%w: parameter %q has batch size %d, want 1 or %d",
				state.ErrBatchMismatch, name, n, batch)
		}
		if n > batch {
			batch = n
		}
	}
	return batch, nil
}
