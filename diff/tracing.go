// Copyright 2025 The ket Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package diff

import (
	"github.com/ket-ml/ket/circuit"
	"github.com/ket-ml/ket/internal/autodiff"
	"github.com/ket-ml/ket/internal/tensor"
	"github.com/ket-ml/ket/observable"
	"github.com/ket-ml/ket/params"
	"github.com/ket-ml/ket/state"
)

// tracingExpectation records the full forward computation, including the
// reduction to a real expectation value, on a gradient tape and
// back-propagates a seed of ones. The parameter leaves in the store pick
// up their gradients directly from the tape.
func tracingExpectation(base tensor.Backend, c *circuit.Circuit, st *state.QuantumState, obs *observable.Observable, store *params.Store) (*Result, error) {
	ad := autodiff.New(base)
	tape := ad.Tape()
	tape.StartRecording()

	out, err := c.Apply(ad, st, store)
	if err != nil {
		return nil, err
	}
	applied, err := obs.Apply(ad, out, store)
	if err != nil {
		return nil, err
	}

	// <psi|O|psi> on tape: conjugate-weighted product, summed over the
	// state axes, then the explicit real part (e + conj e) / 2 so the
	// seed of ones propagates the full real derivative.
	psi, phi := out.Tensor(), applied.Tensor()
	prod := ad.Mul(ad.Conj(psi), phi)
	n := out.NumQubits()
	batch := prod.Shape()[n]
	flat := ad.Reshape(prod, tensor.Shape{1 << n, batch})
	e := ad.SumDim(flat, 0, false)
	r := ad.MulScalar(ad.Add(e, ad.Conj(e)), 0.5)

	tape.StopRecording()
	seed := tensor.Ones(tensor.Shape{batch}, r.DType(), r.Device())
	grads := tape.Backward(r, seed, base)

	values := make([]float64, batch)
	for i := range values {
		values[i] = real(r.At(i))
	}

	gradients := make(map[string][]float64)
	for _, name := range c.ParamNames() {
		leaf, err := store.Get(name)
		if err != nil {
			return nil, err
		}
		vals := make([]float64, leaf.NumElements())
		if g := grads[leaf]; g != nil {
			for i := range vals {
				vals[i] = real(g.At(i))
			}
		}
		gradients[name] = vals
	}
	return &Result{Values: values, Gradients: gradients}, nil
}
