// Copyright 2025 The ket Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package circuit composes operators into ordered quantum circuits,
// including nested circuits, scaled and summed operators, fused gate
// sequences and Hamiltonian evolution.
package circuit

import (
	"fmt"
	"sort"

	"github.com/ket-ml/ket/gates"
	"github.com/ket-ml/ket/internal/tensor"
	"github.com/ket-ml/ket/params"
	"github.com/ket-ml/ket/state"
)

// Element is anything a circuit can hold: a gates.Operator, a nested
// *Circuit, a composition, or a gates.Channel (density evolution only).
type Element interface {
	Support() []int
}

// applier is satisfied by every element that can evolve a pure state.
type applier interface {
	Element
	Apply(b tensor.Backend, st *state.QuantumState, store *params.Store) (*state.QuantumState, error)
}

// Circuit is an ordered sequence of operators over a fixed qubit count.
// Applying a circuit threads the state through its elements in
// declaration order.
type Circuit struct {
	nQubits  int
	elements []Element
}

// New builds a circuit, validating every element's support against the
// qubit count.
func New(nQubits int, elements ...Element) (*Circuit, error) {
	if nQubits < 1 {
		return nil, fmt.Errorf("%w: qubit count must be >= 1, got %d", state.ErrShape, nQubits)
	}
	for _, el := range elements {
		if err := checkSupport(el, nQubits); err != nil {
			return nil, err
		}
	}
	return &Circuit{nQubits: nQubits, elements: elements}, nil
}

func checkSupport(el Element, nQubits int) error {
	for _, q := range el.Support() {
		if q < 0 || q >= nQubits {
			return fmt.Errorf("%w: element %v uses qubit %d, circuit has %d", state.ErrIndex, el, q, nQubits)
		}
	}
	return nil
}

// NumQubits returns the declared qubit count.
func (c *Circuit) NumQubits() int { return c.nQubits }

// Elements returns the circuit's elements in application order.
func (c *Circuit) Elements() []Element { return c.elements }

// Support returns the sorted union of the elements' supports.
func (c *Circuit) Support() []int {
	seen := make(map[int]bool)
	for _, el := range c.elements {
		for _, q := range el.Support() {
			seen[q] = true
		}
	}
	out := make([]int, 0, len(seen))
	for q := range seen {
		out = append(out, q)
	}
	sort.Ints(out)
	return out
}

func (c *Circuit) String() string {
	return fmt.Sprintf("Circuit(%d qubits, %d elements)", c.nQubits, len(c.elements))
}

// Apply evolves a pure state through the circuit. Kraus channels cannot
// act on pure states; a circuit containing one must be applied to a
// density matrix instead.
func (c *Circuit) Apply(b tensor.Backend, st *state.QuantumState, store *params.Store) (*state.QuantumState, error) {
	if st.NumQubits() < c.nQubits {
		return nil, fmt.Errorf("%w: %d-qubit state for %v", state.ErrShape, st.NumQubits(), c)
	}
	out := st
	for _, el := range c.elements {
		a, ok := el.(applier)
		if !ok {
			return nil, fmt.Errorf("%w: element %v requires a density matrix", state.ErrShape, el)
		}
		var err error
		out, err = a.Apply(b, out, store)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ApplyDensity evolves a density matrix through the circuit. Unitary
// elements act as U rho U-dagger; Kraus channels are applied through
// their operator sums.
func (c *Circuit) ApplyDensity(b tensor.Backend, rho *state.DensityMatrix, store *params.Store) (*state.DensityMatrix, error) {
	if rho.NumQubits() < c.nQubits {
		return nil, fmt.Errorf("%w: %d-qubit density matrix for %v", state.ErrShape, rho.NumQubits(), c)
	}
	out := rho
	var err error
	for _, el := range c.elements {
		switch v := el.(type) {
		case *Circuit:
			out, err = v.ApplyDensity(b, out, store)
		case gates.Channel:
			out, err = gates.ApplyKraus(b, v, out)
		case gates.Operator:
			out, err = gates.ApplyDensity(b, v, out, store)
		default:
			err = fmt.Errorf("%w: element %v cannot act on a density matrix", state.ErrShape, el)
		}
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ParamNames returns the sorted set of parameter names read anywhere in
// the circuit, including nested elements.
func (c *Circuit) ParamNames() []string {
	seen := make(map[string]bool)
	for _, el := range c.elements {
		for _, name := range paramNamesOf(el) {
			seen[name] = true
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// paramNamesOf collects the parameter names an element reads, if any.
func paramNamesOf(el Element) []string {
	if pr, ok := el.(interface{ ParamNames() []string }); ok {
		return pr.ParamNames()
	}
	return nil
}

// Flatten expands nested circuits and fused sequences into the ordered
// list of leaf operators. It fails on elements with no operator form
// (channels, scaled or summed applications), which only the tracing
// differentiation engine can handle.
func (c *Circuit) Flatten() ([]gates.Operator, error) {
	out := make([]gates.Operator, 0, len(c.elements))
	for _, el := range c.elements {
		switch v := el.(type) {
		case *Circuit:
			inner, err := v.Flatten()
			if err != nil {
				return nil, err
			}
			out = append(out, inner...)
		case *Merge:
			out = append(out, v.ops...)
		case gates.Operator:
			out = append(out, v)
		default:
			return nil, fmt.Errorf("circuit: element %v has no unitary operator form", el)
		}
	}
	return out, nil
}
