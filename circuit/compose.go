// Copyright 2025 The ket Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package circuit

import (
	"fmt"

	"github.com/ket-ml/ket/gates"
	"github.com/ket-ml/ket/internal/tensor"
	"github.com/ket-ml/ket/params"
	"github.com/ket-ml/ket/state"
)

// Scale multiplies the output of an element by a constant or a named
// parameter. The result is generally not normalized; Scale is meant for
// building weighted operator combinations, not physical evolution.
type Scale struct {
	op     applier
	factor complex128
	param  string
}

// NewScale scales an element's application by a constant factor.
func NewScale(op applier, factor complex128) *Scale {
	return &Scale{op: op, factor: factor}
}

// NewScaleParam scales an element's application by a parameter resolved
// from the store, so the weight itself can be differentiated.
func NewScaleParam(op applier, param string) *Scale {
	return &Scale{op: op, param: param}
}

// Support returns the scaled element's support.
func (s *Scale) Support() []int { return s.op.Support() }

func (s *Scale) String() string {
	if s.param != "" {
		return fmt.Sprintf("Scale(%s, %v)", s.param, s.op)
	}
	return fmt.Sprintf("Scale(%v, %v)", s.factor, s.op)
}

// ParamNames returns the scale parameter, if any, plus the names read by
// the scaled element.
func (s *Scale) ParamNames() []string {
	names := paramNamesOf(s.op)
	if s.param != "" {
		names = append([]string{s.param}, names...)
	}
	return names
}

// Apply evolves the state through the element and scales the amplitudes.
func (s *Scale) Apply(b tensor.Backend, st *state.QuantumState, store *params.Store) (*state.QuantumState, error) {
	out, err := s.op.Apply(b, st, store)
	if err != nil {
		return nil, err
	}
	if s.param == "" {
		return state.FromAmplitudes(b.MulScalar(out.Tensor(), s.factor), out.NumQubits())
	}
	if store == nil {
		return nil, fmt.Errorf("%w: %q (no parameter store)", params.ErrUnknownParameter, s.param)
	}
	w, err := store.Get(s.param)
	if err != nil {
		return nil, err
	}
	if w.DType() != out.DType() {
		return nil, fmt.Errorf("%w: parameter %q has data type %s, want %s",
			state.ErrShape, s.param, w.DType(), out.DType())
	}
	pb := w.NumElements()
	if sb := out.BatchSize(); pb != 1 && sb != 1 && pb != sb {
		return nil, fmt.Errorf("%w: scale batch %d vs state batch %d", state.ErrBatchMismatch, pb, sb)
	}
	// Broadcast the weight as [1, .., 1, batch] against the state axes.
	shape := make(tensor.Shape, out.NumQubits()+1)
	for i := range shape {
		shape[i] = 1
	}
	shape[out.NumQubits()] = pb
	scaled := b.Mul(out.Tensor(), b.Reshape(w, shape))
	return state.FromAmplitudes(scaled, out.NumQubits())
}

// Sum applies each element to the same input state and adds the results.
// Like Scale, the output is a linear combination rather than a physical
// state.
type Sum struct {
	ops []applier
}

// NewSum builds a sum of element applications.
func NewSum(ops ...applier) (*Sum, error) {
	if len(ops) == 0 {
		return nil, fmt.Errorf("%w: empty sum", state.ErrShape)
	}
	return &Sum{ops: ops}, nil
}

// Support returns the sorted union of the summands' supports.
func (s *Sum) Support() []int {
	c := &Circuit{elements: make([]Element, len(s.ops))}
	for i, op := range s.ops {
		c.elements[i] = op
	}
	return c.Support()
}

func (s *Sum) String() string {
	return fmt.Sprintf("Sum(%d terms)", len(s.ops))
}

// ParamNames returns the names read by any summand.
func (s *Sum) ParamNames() []string {
	var names []string
	for _, op := range s.ops {
		names = append(names, paramNamesOf(op)...)
	}
	return names
}

// Apply sums the elements' applications to the input state.
func (s *Sum) Apply(b tensor.Backend, st *state.QuantumState, store *params.Store) (*state.QuantumState, error) {
	var acc *tensor.RawTensor
	for _, op := range s.ops {
		out, err := op.Apply(b, st, store)
		if err != nil {
			return nil, err
		}
		if acc == nil {
			acc = out.Tensor()
			continue
		}
		ab, ob := acc.Shape()[st.NumQubits()], out.BatchSize()
		if ab != ob && ab != 1 && ob != 1 {
			return nil, fmt.Errorf("%w: summand batch %d vs %d", state.ErrBatchMismatch, ob, ab)
		}
		acc = b.Add(acc, out.Tensor())
	}
	return state.FromAmplitudes(acc, st.NumQubits())
}

// Merge fuses operators sharing one support into a single matrix, so a
// run of small gates costs one contraction. Application order is
// preserved: the first operator acts first.
type Merge struct {
	support []int
	ops     []gates.Operator
}

// NewMerge fuses the given operators. All of them must act on the same
// support in the same order.
func NewMerge(ops ...gates.Operator) (*Merge, error) {
	if len(ops) == 0 {
		return nil, fmt.Errorf("%w: empty merge", state.ErrShape)
	}
	support := ops[0].Support()
	for _, op := range ops[1:] {
		if !equalSupport(support, op.Support()) {
			return nil, fmt.Errorf("%w: operator %v support differs from %v", state.ErrIndex, op, support)
		}
	}
	return &Merge{support: support, ops: ops}, nil
}

func equalSupport(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Support returns the shared support.
func (m *Merge) Support() []int { return m.support }

func (m *Merge) String() string {
	return fmt.Sprintf("Merge(%d ops on %v)", len(m.ops), m.support)
}

// ParamNames returns the names read by any fused operator.
func (m *Merge) ParamNames() []string {
	var names []string
	for _, op := range m.ops {
		names = append(names, paramNamesOf(op)...)
	}
	return names
}

// Unitary returns the fused matrix, the product of the member unitaries
// with the first operator rightmost.
func (m *Merge) Unitary(b tensor.Backend, store *params.Store, dtype tensor.DataType) (*tensor.RawTensor, error) {
	u, err := m.ops[0].Unitary(b, store, dtype)
	if err != nil {
		return nil, err
	}
	acc := b.Transpose(u, 2, 0, 1)
	for _, op := range m.ops[1:] {
		next, err := op.Unitary(b, store, dtype)
		if err != nil {
			return nil, err
		}
		ab, nb := acc.Shape()[0], next.Shape()[2]
		if ab != nb && ab != 1 && nb != 1 {
			return nil, fmt.Errorf("%w: merged operator batch %d vs %d", state.ErrBatchMismatch, nb, ab)
		}
		acc = b.BatchMatMul(b.Transpose(next, 2, 0, 1), acc)
	}
	return b.Transpose(acc, 1, 2, 0), nil
}

// Dagger returns the conjugate transpose of the fused matrix.
func (m *Merge) Dagger(b tensor.Backend, store *params.Store, dtype tensor.DataType) (*tensor.RawTensor, error) {
	u, err := m.Unitary(b, store, dtype)
	if err != nil {
		return nil, err
	}
	return b.Conj(b.Transpose(u, 1, 0, 2)), nil
}

// Apply contracts the fused matrix with the state once.
func (m *Merge) Apply(b tensor.Backend, st *state.QuantumState, store *params.Store) (*state.QuantumState, error) {
	u, err := m.Unitary(b, store, st.DType())
	if err != nil {
		return nil, err
	}
	return gates.ApplyUnitary(b, u, m.support, st)
}
