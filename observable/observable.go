// Copyright 2025 The ket Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package observable builds Hermitian observables as weighted sums of
// operator products and evaluates their expectation values on pure
// states and density matrices.
package observable

import (
	"fmt"
	"math"
	"math/cmplx"
	"os"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/ket-ml/ket/gates"
	"github.com/ket-ml/ket/internal/tensor"
	"github.com/ket-ml/ket/params"
	"github.com/ket-ml/ket/state"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "ket.observable"})

// residueTolerance bounds the imaginary part an expectation value may
// carry before a numerical warning is logged.
const residueTolerance = 1e-8

// Term is a weighted product of operators. The operators multiply as
// applied in order: the first acts on the state first.
type Term struct {
	Weight complex128
	Ops    []gates.Operator
}

// NewTerm builds a weighted operator product.
func NewTerm(weight complex128, ops ...gates.Operator) *Term {
	return &Term{Weight: weight, Ops: ops}
}

// Observable is a sum of weighted operator products. For physically
// meaningful expectation values it should be Hermitian: real weights on
// self-adjoint products.
type Observable struct {
	terms []*Term
}

// New builds an observable from its terms.
func New(terms ...*Term) (*Observable, error) {
	if len(terms) == 0 {
		return nil, fmt.Errorf("%w: observable has no terms", state.ErrShape)
	}
	for _, t := range terms {
		if len(t.Ops) == 0 {
			return nil, fmt.Errorf("%w: observable term has no operators", state.ErrShape)
		}
	}
	return &Observable{terms: terms}, nil
}

// Z returns the single-qubit Pauli-Z observable.
func Z(qubit int) *Observable {
	return &Observable{terms: []*Term{NewTerm(1, gates.Z(qubit))}}
}

// ZZ returns the two-qubit correlation observable Z⊗Z.
func ZZ(a, b int) *Observable {
	return &Observable{terms: []*Term{NewTerm(1, gates.Z(a), gates.Z(b))}}
}

// Terms returns the observable's terms.
func (o *Observable) Terms() []*Term { return o.terms }

// Support returns the sorted union of the terms' supports.
func (o *Observable) Support() []int {
	seen := make(map[int]bool)
	for _, t := range o.terms {
		for _, op := range t.Ops {
			for _, q := range op.Support() {
				seen[q] = true
			}
		}
	}
	out := make([]int, 0, len(seen))
	for q := range seen {
		out = append(out, q)
	}
	sort.Ints(out)
	return out
}

// Apply evaluates O|psi> as a linear combination of term applications.
// The result is generally not normalized. All arithmetic goes through the
// backend, so a recording backend captures the computation.
func (o *Observable) Apply(b tensor.Backend, st *state.QuantumState, store *params.Store) (*state.QuantumState, error) {
	var acc *tensor.RawTensor
	for _, t := range o.terms {
		cur := st
		var err error
		for _, op := range t.Ops {
			cur, err = op.Apply(b, cur, store)
			if err != nil {
				return nil, err
			}
		}
		raw := cur.Tensor()
		if t.Weight != 1 {
			raw = b.MulScalar(raw, t.Weight)
		}
		if acc == nil {
			acc = raw
		} else {
			acc = b.Add(acc, raw)
		}
	}
	return state.FromAmplitudes(acc, st.NumQubits())
}

// Expectation returns the batched real expectation values <psi|O|psi>.
// An imaginary residue beyond tolerance logs a numerical warning; the
// real part is returned either way.
func (o *Observable) Expectation(b tensor.Backend, st *state.QuantumState, store *params.Store) ([]float64, error) {
	applied, err := o.Apply(b, st, store)
	if err != nil {
		return nil, err
	}
	vals, err := st.Overlap(applied)
	if err != nil {
		return nil, err
	}
	return realParts(vals), nil
}

// ExpectationDensity returns the batched real values Tr(O rho), applying
// each term to the row axes and tracing.
func (o *Observable) ExpectationDensity(b tensor.Backend, rho *state.DensityMatrix, store *params.Store) ([]float64, error) {
	var acc *tensor.RawTensor
	for _, t := range o.terms {
		cur := rho
		for _, op := range t.Ops {
			u, err := op.Unitary(b, store, rho.DType())
			if err != nil {
				return nil, err
			}
			cur, err = gates.ApplyToRows(b, u, op.Support(), cur)
			if err != nil {
				return nil, err
			}
		}
		raw := cur.Tensor()
		if t.Weight != 1 {
			raw = b.MulScalar(raw, t.Weight)
		}
		if acc == nil {
			acc = raw
		} else {
			acc = b.Add(acc, raw)
		}
	}
	dim := 1 << rho.NumQubits()
	batch := acc.Shape()[2*rho.NumQubits()]
	traced := b.Trace(b.Reshape(acc, tensor.Shape{dim, dim, batch}))
	vals := make([]complex128, batch)
	for i := range vals {
		vals[i] = traced.At(i)
	}
	return realParts(vals), nil
}

func realParts(vals []complex128) []float64 {
	out := make([]float64, len(vals))
	worst := 0.0
	for i, v := range vals {
		out[i] = real(v)
		if im := math.Abs(imag(v)); im > worst {
			worst = im
		}
	}
	if worst > residueTolerance {
		logger.Warn("expectation value has imaginary residue", "residue", worst)
	}
	return out
}

// Hermitian wraps an explicit matrix [2^k, 2^k, 1] over the support
// qubits as a single-term observable. The matrix must be Hermitian
// within its data type's tolerance.
func Hermitian(mat *tensor.RawTensor, support ...int) (*Observable, error) {
	op, err := newMatrixOp(mat, support)
	if err != nil {
		return nil, err
	}
	return &Observable{terms: []*Term{NewTerm(1, op)}}, nil
}

// matrixOp adapts an explicit matrix to the operator interface.
type matrixOp struct {
	support []int
	mat     *tensor.RawTensor
}

func newMatrixOp(mat *tensor.RawTensor, support []int) (*matrixOp, error) {
	if mat == nil {
		return nil, fmt.Errorf("%w: nil observable matrix", state.ErrShape)
	}
	dim := 1 << len(support)
	shape := mat.Shape()
	if len(shape) != 3 || shape[0] != dim || shape[1] != dim || shape[2] != 1 {
		return nil, fmt.Errorf("%w: observable matrix shape %v, want [%d %d 1] for %d support qubit(s)",
			state.ErrShape, shape, dim, dim, len(support))
	}
	eps := mat.DType().Eps()
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			if cmplx.Abs(mat.At(i*dim+j)-cmplx.Conj(mat.At(j*dim+i))) > eps {
				return nil, fmt.Errorf("%w: observable matrix is not Hermitian at (%d, %d)", state.ErrShape, i, j)
			}
		}
	}
	return &matrixOp{support: support, mat: mat}, nil
}

func (m *matrixOp) Support() []int { return m.support }

func (m *matrixOp) String() string {
	return fmt.Sprintf("Hermitian%v", m.support)
}

func (m *matrixOp) Unitary(_ tensor.Backend, _ *params.Store, dtype tensor.DataType) (*tensor.RawTensor, error) {
	if m.mat.DType() != dtype {
		return nil, fmt.Errorf("%w: observable matrix data type %s, want %s", state.ErrShape, m.mat.DType(), dtype)
	}
	return m.mat, nil
}

func (m *matrixOp) Dagger(b tensor.Backend, store *params.Store, dtype tensor.DataType) (*tensor.RawTensor, error) {
	// Hermitian by construction.
	return m.Unitary(b, store, dtype)
}

func (m *matrixOp) Apply(b tensor.Backend, st *state.QuantumState, store *params.Store) (*state.QuantumState, error) {
	u, err := m.Unitary(b, store, st.DType())
	if err != nil {
		return nil, err
	}
	return gates.ApplyUnitary(b, u, m.support, st)
}
