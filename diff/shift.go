// Copyright 2025 The ket Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package diff

import (
	"fmt"
	"math"

	"github.com/ket-ml/ket/circuit"
	"github.com/ket-ml/ket/gates"
	"github.com/ket-ml/ket/internal/tensor"
	"github.com/ket-ml/ket/observable"
	"github.com/ket-ml/ket/params"
	"github.com/ket-ml/ket/state"
)

// shiftExpectation applies the two-term parameter-shift rule: for an
// operator whose generator has a single spectral gap r, the derivative is
// r (f(theta + pi/(2r)) - f(theta - pi/(2r))) / 2. Parameters shared by
// several operators would need per-occurrence shifts, which the store
// cannot express, so they are rejected.
func shiftExpectation(b tensor.Backend, c *circuit.Circuit, st *state.QuantumState, obs *observable.Observable, store *params.Store) (*Result, error) {
	ops, err := c.Flatten()
	if err != nil {
		return nil, fmt.Errorf("shift rule: %w", err)
	}

	gaps := make(map[string]float64)
	occurrences := make(map[string]int)
	for _, op := range ops {
		if !readsParams(op) {
			continue
		}
		p, ok := op.(gates.Parametric)
		if !ok {
			return nil, fmt.Errorf("shift rule: operator %v is not parametric in the shift sense, use Tracing", op)
		}
		gap, single := p.SpectralGap()
		if !single {
			return nil, fmt.Errorf("shift rule: operator %v has multiple spectral gaps, use Adjoint", op)
		}
		for _, name := range p.ParamNames() {
			gaps[name] = gap
			occurrences[name]++
		}
	}
	for name, count := range occurrences {
		if count > 1 {
			return nil, fmt.Errorf("shift rule: parameter %q appears in %d operators, use Adjoint", name, count)
		}
	}

	values, err := evaluate(b, c, st, obs, store)
	if err != nil {
		return nil, err
	}

	gradients := make(map[string][]float64)
	for name, gap := range gaps {
		shift := math.Pi / (2 * gap)
		plus, err := evaluate(b, c, st, obs, shiftedStore(store, name, shift))
		if err != nil {
			return nil, err
		}
		minus, err := evaluate(b, c, st, obs, shiftedStore(store, name, -shift))
		if err != nil {
			return nil, err
		}
		leaf, err := store.Get(name)
		if err != nil {
			return nil, err
		}
		grad := make([]float64, leaf.NumElements())
		if len(grad) == 1 {
			for i := range plus {
				grad[0] += gap * (plus[i] - minus[i]) / 2
			}
		} else {
			if len(plus) != len(grad) {
				return nil, fmt.Errorf("%w: gradient batch %d vs parameter batch %d", state.ErrBatchMismatch, len(plus), len(grad))
			}
			for i := range grad {
				grad[i] = gap * (plus[i] - minus[i]) / 2
			}
		}
		gradients[name] = grad
	}
	return &Result{Values: values, Gradients: gradients}, nil
}

func evaluate(b tensor.Backend, c *circuit.Circuit, st *state.QuantumState, obs *observable.Observable, store *params.Store) ([]float64, error) {
	out, err := c.Apply(b, st, store)
	if err != nil {
		return nil, err
	}
	return obs.Expectation(b, out, store)
}

// shiftedStore copies a store with one parameter offset by delta in every
// batch entry.
func shiftedStore(store *params.Store, name string, delta float64) *params.Store {
	out := params.NewStore(params.WithDType(store.DType()))
	for _, n := range store.Names() {
		vals, err := store.Values(n)
		if err != nil {
			continue
		}
		if n == name {
			shifted := make([]float64, len(vals))
			for i, v := range vals {
				shifted[i] = v + delta
			}
			vals = shifted
		}
		out.Set(n, vals)
	}
	return out
}
