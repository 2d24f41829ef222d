// Copyright 2025 The ket Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package circuit

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/ket-ml/ket/gates"
	"github.com/ket-ml/ket/internal/tensor"
	"github.com/ket-ml/ket/params"
	"github.com/ket-ml/ket/state"
)

// expmTerms is the series order of the matrix exponential after scaling
// the argument below unit norm.
const expmTerms = 16

// HamiltonianEvolution evolves a state under a Hermitian generator H for
// a parameterized duration: U = exp(-i t H). The exponential is computed
// by scaling and squaring a truncated series entirely through backend
// operations, so the tracing differentiation engine can follow the time
// parameter. It has no analytic jacobian; adjoint differentiation rejects
// it.
type HamiltonianEvolution struct {
	support   []int
	generator *tensor.RawTensor
	param     string
}

// NewHamiltonianEvolution builds the evolution operator for a generator
// matrix of shape [2^k, 2^k, 1] over k support qubits. The duration is
// read from the store under timeParam. A generator that is not Hermitian
// within its data type's tolerance is rejected.
func NewHamiltonianEvolution(generator *tensor.RawTensor, timeParam string, support ...int) (*HamiltonianEvolution, error) {
	if timeParam == "" {
		return nil, fmt.Errorf("%w: empty time parameter name", params.ErrUnknownParameter)
	}
	if generator == nil {
		return nil, fmt.Errorf("%w: nil generator", state.ErrShape)
	}
	dim := 1 << len(support)
	shape := generator.Shape()
	if len(shape) != 3 || shape[0] != dim || shape[1] != dim || shape[2] != 1 {
		return nil, fmt.Errorf("%w: generator shape %v, want [%d %d 1] for %d support qubit(s)",
			state.ErrShape, shape, dim, dim, len(support))
	}
	eps := generator.DType().Eps()
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			d := generator.At(i*dim+j) - cmplx.Conj(generator.At(j*dim+i))
			if cmplx.Abs(d) > eps {
				return nil, fmt.Errorf("%w: generator is not Hermitian at (%d, %d)", state.ErrShape, i, j)
			}
		}
	}
	return &HamiltonianEvolution{support: support, generator: generator, param: timeParam}, nil
}

// Support returns the qubit indices the evolution acts on.
func (h *HamiltonianEvolution) Support() []int { return h.support }

func (h *HamiltonianEvolution) String() string {
	return fmt.Sprintf("HamiltonianEvolution%v(%s)", h.support, h.param)
}

// ParamNames returns the time parameter name.
func (h *HamiltonianEvolution) ParamNames() []string { return []string{h.param} }

// Unitary computes exp(-i t H) as a batched matrix over the support.
func (h *HamiltonianEvolution) Unitary(b tensor.Backend, store *params.Store, dtype tensor.DataType) (*tensor.RawTensor, error) {
	if h.generator.DType() != dtype {
		return nil, fmt.Errorf("%w: generator data type %s, want %s", state.ErrShape, h.generator.DType(), dtype)
	}
	if store == nil {
		return nil, fmt.Errorf("%w: %q (no parameter store)", params.ErrUnknownParameter, h.param)
	}
	t, err := store.Get(h.param)
	if err != nil {
		return nil, err
	}
	if t.DType() != dtype {
		return nil, fmt.Errorf("%w: parameter %q has data type %s, want %s", state.ErrShape, h.param, t.DType(), dtype)
	}
	batch := t.NumElements()
	tr := b.Reshape(t, tensor.Shape{1, 1, batch})
	arg := b.MulScalar(b.Mul(h.generator, tr), -1i)
	return expm(b, arg, dtype), nil
}

// Dagger returns the conjugate transpose of Unitary.
func (h *HamiltonianEvolution) Dagger(b tensor.Backend, store *params.Store, dtype tensor.DataType) (*tensor.RawTensor, error) {
	u, err := h.Unitary(b, store, dtype)
	if err != nil {
		return nil, err
	}
	return b.Conj(b.Transpose(u, 1, 0, 2)), nil
}

// Apply contracts the evolution operator with the state's support axes.
func (h *HamiltonianEvolution) Apply(b tensor.Backend, st *state.QuantumState, store *params.Store) (*state.QuantumState, error) {
	u, err := h.Unitary(b, store, st.DType())
	if err != nil {
		return nil, err
	}
	return gates.ApplyUnitary(b, u, h.support, st)
}

// expm exponentiates a batched matrix [d, d, batch] by scaling and
// squaring a truncated Taylor series. The scaling exponent is picked from
// the entry magnitudes; it only selects an integer and does not enter the
// differentiated computation.
func expm(b tensor.Backend, arg *tensor.RawTensor, dtype tensor.DataType) *tensor.RawTensor {
	dim := arg.Shape()[0]
	maxAbs := 0.0
	for i := 0; i < arg.NumElements(); i++ {
		if a := cmplx.Abs(arg.At(i)); a > maxAbs {
			maxAbs = a
		}
	}
	squarings := 0
	if norm := maxAbs * float64(dim); norm > 1 {
		squarings = int(math.Ceil(math.Log2(norm)))
	}

	bf := b.Transpose(arg, 2, 0, 1)
	bf = b.MulScalar(bf, complex(1/math.Pow(2, float64(squarings)), 0))

	eye := b.Transpose(tensor.Eye(dim, dtype, tensor.CPU), 2, 0, 1)
	sum := eye
	term := eye
	for k := 1; k <= expmTerms; k++ {
		term = b.MulScalar(b.BatchMatMul(term, bf), complex(1/float64(k), 0))
		sum = b.Add(sum, term)
	}
	for i := 0; i < squarings; i++ {
		sum = b.BatchMatMul(sum, sum)
	}
	return b.Transpose(sum, 1, 2, 0)
}
