// Copyright 2025 The ket Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package diff

import (
	"fmt"

	"github.com/ket-ml/ket/circuit"
	"github.com/ket-ml/ket/gates"
	"github.com/ket-ml/ket/internal/tensor"
	"github.com/ket-ml/ket/observable"
	"github.com/ket-ml/ket/params"
	"github.com/ket-ml/ket/state"
)

// adjointExpectation runs the reverse-sweep algorithm: after the forward
// pass, the state is rolled back one operator at a time while a second
// state carries the observable application, and each parameterized
// operator contributes 2 Re<lambda|dU psi> through its analytic jacobian.
// Memory stays at two state tensors regardless of circuit depth.
func adjointExpectation(b tensor.Backend, c *circuit.Circuit, st *state.QuantumState, obs *observable.Observable, store *params.Store) (*Result, error) {
	ops, err := c.Flatten()
	if err != nil {
		return nil, fmt.Errorf("adjoint differentiation: %w", err)
	}
	for _, op := range ops {
		if readsParams(op) {
			if _, ok := op.(gates.Parametric); !ok {
				return nil, fmt.Errorf("adjoint differentiation: operator %v has no analytic jacobian, use Tracing", op)
			}
		}
	}

	psi := st
	for _, op := range ops {
		psi, err = op.Apply(b, psi, store)
		if err != nil {
			return nil, err
		}
	}
	lambda, err := obs.Apply(b, psi, store)
	if err != nil {
		return nil, err
	}

	overlaps, err := psi.Overlap(lambda)
	if err != nil {
		return nil, err
	}
	values := make([]float64, len(overlaps))
	for i, v := range overlaps {
		values[i] = real(v)
	}

	gradients := make(map[string][]float64)
	for i := len(ops) - 1; i >= 0; i-- {
		op := ops[i]
		dag, err := op.Dagger(b, store, psi.DType())
		if err != nil {
			return nil, err
		}
		psi, err = gates.ApplyUnitary(b, dag, op.Support(), psi)
		if err != nil {
			return nil, err
		}

		if p, ok := op.(gates.Parametric); ok {
			for _, name := range p.ParamNames() {
				jac, err := p.JacobianUnitary(b, store, psi.DType(), name)
				if err != nil {
					return nil, err
				}
				mu, err := gates.ApplyUnitary(b, jac, op.Support(), psi)
				if err != nil {
					return nil, err
				}
				ov, err := lambda.Overlap(mu)
				if err != nil {
					return nil, err
				}
				if err := accumulate(gradients, store, name, ov); err != nil {
					return nil, err
				}
			}
		}

		lambda, err = gates.ApplyUnitary(b, dag, op.Support(), lambda)
		if err != nil {
			return nil, err
		}
	}
	return &Result{Values: values, Gradients: gradients}, nil
}

// accumulate adds 2 Re<lambda|mu> into a parameter's gradient slot,
// summing over the batch for scalar parameters so repeated reads of one
// name add up the same way the tape does.
func accumulate(gradients map[string][]float64, store *params.Store, name string, overlaps []complex128) error {
	leaf, err := store.Get(name)
	if err != nil {
		return err
	}
	slot, ok := gradients[name]
	if !ok {
		slot = make([]float64, leaf.NumElements())
		gradients[name] = slot
	}
	if len(slot) == 1 {
		for _, v := range overlaps {
			slot[0] += 2 * real(v)
		}
		return nil
	}
	if len(overlaps) != len(slot) {
		return fmt.Errorf("%w: gradient batch %d vs parameter batch %d", state.ErrBatchMismatch, len(overlaps), len(slot))
	}
	for i, v := range overlaps {
		slot[i] += 2 * real(v)
	}
	return nil
}
