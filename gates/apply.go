// Copyright 2025 The ket Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package gates

import (
	"fmt"

	"github.com/ket-ml/ket/internal/tensor"
	"github.com/ket-ml/ket/params"
	"github.com/ket-ml/ket/state"
)

// ApplyUnitary contracts a batched operator matrix [2^k, 2^k, batch] with
// the support axes of a state and returns the evolved state. The operator
// batch and state batch must match, or either may be 1 and broadcasts
// against the other.
func ApplyUnitary(b tensor.Backend, u *tensor.RawTensor, support []int, st *state.QuantumState) (*state.QuantumState, error) {
	n := st.NumQubits()
	if err := validateSupport(support, n); err != nil {
		return nil, err
	}
	if err := validateOperator(u, len(support), st.BatchSize()); err != nil {
		return nil, err
	}
	raw := contract(b, u, support, st.Tensor(), n)
	return state.FromAmplitudes(raw, n)
}

// ApplyDensity evolves a density matrix as U rho U-dagger: the operator is
// contracted with the row axes of rho, then its conjugate with the
// matching column axes.
func ApplyDensity(b tensor.Backend, op Operator, rho *state.DensityMatrix, store *params.Store) (*state.DensityMatrix, error) {
	u, err := op.Unitary(b, store, rho.DType())
	if err != nil {
		return nil, err
	}
	return applyDensityRaw(b, u, op.Support(), rho)
}

func applyDensityRaw(b tensor.Backend, u *tensor.RawTensor, support []int, rho *state.DensityMatrix) (*state.DensityMatrix, error) {
	n := rho.NumQubits()
	if err := validateSupport(support, n); err != nil {
		return nil, err
	}
	if err := validateOperator(u, len(support), rho.BatchSize()); err != nil {
		return nil, err
	}
	cols := make([]int, len(support))
	for i, q := range support {
		cols[i] = q + n
	}
	raw := contract(b, u, support, rho.Tensor(), 2*n)
	raw = contract(b, b.Conj(u), cols, raw, 2*n)
	return state.FromMatrix(raw, n)
}

// ApplyToRows contracts an operator matrix with the row axes of a density
// matrix only, producing U rho. Unlike ApplyDensity no conjugate is
// applied to the column axes; this is the building block for traces of
// operator-density products.
func ApplyToRows(b tensor.Backend, u *tensor.RawTensor, support []int, rho *state.DensityMatrix) (*state.DensityMatrix, error) {
	n := rho.NumQubits()
	if err := validateSupport(support, n); err != nil {
		return nil, err
	}
	if err := validateOperator(u, len(support), rho.BatchSize()); err != nil {
		return nil, err
	}
	raw := contract(b, u, support, rho.Tensor(), 2*n)
	return state.FromMatrix(raw, n)
}

// Channel is a quantum noise channel described by Kraus operators over a
// fixed support.
type Channel interface {
	Support() []int
	// Kraus returns the channel's operators, each of shape
	// [2^k, 2^k, 1].
	Kraus(dtype tensor.DataType) []*tensor.RawTensor
}

// ApplyKraus evolves a density matrix through a noise channel, summing
// K_i rho K_i-dagger over the channel's Kraus operators. The result's
// trace is checked and a numerical warning is logged when it drifts; no
// renormalization is performed.
func ApplyKraus(b tensor.Backend, ch Channel, rho *state.DensityMatrix) (*state.DensityMatrix, error) {
	n := rho.NumQubits()
	support := ch.Support()
	if err := validateSupport(support, n); err != nil {
		return nil, err
	}
	ops := ch.Kraus(rho.DType())
	if len(ops) == 0 {
		return nil, fmt.Errorf("%w: channel has no Kraus operators", state.ErrShape)
	}
	cols := make([]int, len(support))
	for i, q := range support {
		cols[i] = q + n
	}
	var acc *tensor.RawTensor
	for _, k := range ops {
		if err := validateOperator(k, len(support), rho.BatchSize()); err != nil {
			return nil, err
		}
		term := contract(b, k, support, rho.Tensor(), 2*n)
		term = contract(b, b.Conj(k), cols, term, 2*n)
		if acc == nil {
			acc = term
		} else {
			acc = b.Add(acc, term)
		}
	}
	out, err := state.FromMatrix(acc, n)
	if err != nil {
		return nil, err
	}
	out.CheckTrace()
	return out, nil
}

// contract applies a batched matrix [K, K, Bu] to the given axes of a
// tensor laid out as nAxes size-2 axes plus a trailing batch axis. The
// support axes are permuted to the front, flattened against the matrix,
// multiplied batch-wise, and restored. All steps go through the backend
// so a recording backend captures them.
func contract(b tensor.Backend, u *tensor.RawTensor, support []int, raw *tensor.RawTensor, nAxes int) *tensor.RawTensor {
	k := len(support)
	dim := 1 << k
	rest := 1 << (nAxes - k)
	batch := raw.Shape()[nAxes]

	onSupport := make([]bool, nAxes)
	for _, q := range support {
		onSupport[q] = true
	}
	perm := make([]int, 0, nAxes+1)
	perm = append(perm, support...)
	for i := 0; i < nAxes; i++ {
		if !onSupport[i] {
			perm = append(perm, i)
		}
	}
	perm = append(perm, nAxes)

	t := b.Transpose(raw, perm...)
	t = b.Reshape(t, tensor.Shape{dim, rest, batch})
	t = b.Transpose(t, 2, 0, 1)
	um := b.Transpose(u, 2, 0, 1)
	out := b.BatchMatMul(um, t)
	outBatch := out.Shape()[0]
	out = b.Transpose(out, 1, 2, 0)

	out = b.Reshape(out, tensor.QubitShape(nAxes, outBatch))

	inv := make([]int, nAxes+1)
	for i, p := range perm {
		inv[p] = i
	}
	return b.Transpose(out, inv...)
}

func validateSupport(support []int, nQubits int) error {
	if len(support) == 0 {
		return fmt.Errorf("%w: empty qubit support", state.ErrIndex)
	}
	seen := make(map[int]bool, len(support))
	for _, q := range support {
		if q < 0 || q >= nQubits {
			return fmt.Errorf("%w: qubit %d out of range for %d-qubit state", state.ErrIndex, q, nQubits)
		}
		if seen[q] {
			return fmt.Errorf("%w: duplicate qubit %d in support", state.ErrIndex, q)
		}
		seen[q] = true
	}
	return nil
}

func validateOperator(u *tensor.RawTensor, k, stateBatch int) error {
	dim := 1 << k
	shape := u.Shape()
	if len(shape) != 3 || shape[0] != dim || shape[1] != dim {
		return fmt.Errorf("%w: operator shape %v, want [%d %d batch] for %d support qubit(s)",
			state.ErrShape, shape, dim, dim, k)
	}
	if ub := shape[2]; ub != 1 && stateBatch != 1 && ub != stateBatch {
		return fmt.Errorf("%w: operator batch %d vs state batch %d", state.ErrBatchMismatch, ub, stateBatch)
	}
	return nil
}

// applyOperator is the shared Apply implementation: resolve the unitary
// at the state's data type, then contract.
func applyOperator(b tensor.Backend, op Operator, st *state.QuantumState, store *params.Store) (*state.QuantumState, error) {
	u, err := op.Unitary(b, store, st.DType())
	if err != nil {
		return nil, err
	}
	return ApplyUnitary(b, u, op.Support(), st)
}
