// Copyright 2025 The ket Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package gates implements quantum operators: fixed single- and
// multi-qubit gates, controlled variants, parameterized rotations and
// Kraus noise channels.
//
// Every operator exposes its unitary as a batched matrix of shape
// [2^k, 2^k, batch] over its support, and applies itself to a state by
// index-selective contraction against the support axes. Parameterized
// operators build their matrices through backend operations so that a
// recording backend captures the construction on its tape.
package gates

import (
	"github.com/google/uuid"

	"github.com/ket-ml/ket/internal/tensor"
	"github.com/ket-ml/ket/params"
	"github.com/ket-ml/ket/state"
)

// Operator is a quantum operator acting on a fixed set of qubits.
type Operator interface {
	// Support returns the qubit indices the operator acts on, in the
	// order the unitary's tensor axes are laid out (controls before
	// targets for controlled gates).
	Support() []int

	// Unitary returns the operator matrix of shape [2^k, 2^k, batch]
	// where k = len(Support()). Operators without parameters return a
	// batch-1 matrix; parameterized operators resolve their values from
	// the store and may carry a larger batch.
	Unitary(b tensor.Backend, store *params.Store, dtype tensor.DataType) (*tensor.RawTensor, error)

	// Dagger returns the conjugate transpose of Unitary.
	Dagger(b tensor.Backend, store *params.Store, dtype tensor.DataType) (*tensor.RawTensor, error)

	// Apply contracts the operator with the state's support axes and
	// returns the evolved state. The input state is not modified.
	Apply(b tensor.Backend, st *state.QuantumState, store *params.Store) (*state.QuantumState, error)
}

// Parametric is implemented by operators whose unitary depends on named
// parameters from a store.
type Parametric interface {
	Operator

	// ParamNames returns the parameter names the operator reads.
	ParamNames() []string

	// JacobianUnitary returns the analytic derivative of the unitary
	// with respect to the named parameter, shaped like Unitary.
	JacobianUnitary(b tensor.Backend, store *params.Store, dtype tensor.DataType, name string) (*tensor.RawTensor, error)

	// SpectralGap returns the single spectral gap of the operator's
	// generator when the two-term shift rule applies, and ok=false for
	// operators with more than one gap.
	SpectralGap() (gap float64, ok bool)
}

// anonName returns name unchanged, or a fresh unique parameter name when
// name is empty.
func anonName(name string) string {
	if name == "" {
		return uuid.NewString()
	}
	return name
}

// daggerOf computes the conjugate transpose of a batched matrix
// [M, N, B] -> [N, M, B] through backend ops, so a recording backend
// captures it.
func daggerOf(b tensor.Backend, u *tensor.RawTensor) *tensor.RawTensor {
	return b.Conj(b.Transpose(u, 1, 0, 2))
}
