// Copyright 2025 The ket Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package diff computes expectation values of observables over circuit
// outputs together with their gradients with respect to circuit
// parameters.
//
// Three engines are available. Tracing records the whole computation on
// a gradient tape and runs reverse-mode differentiation; it handles every
// circuit element. Adjoint runs the O(ops) reverse-sweep algorithm using
// the operators' analytic jacobians; it requires a purely unitary circuit.
// Shift evaluates the two-term parameter-shift rule; it additionally
// requires every parameterized operator to have a single spectral gap and
// every parameter to appear in exactly one operator. Auto picks Adjoint
// when the circuit supports it and falls back to Tracing.
package diff

import (
	"github.com/ket-ml/ket/circuit"
	"github.com/ket-ml/ket/gates"
	"github.com/ket-ml/ket/internal/backend/cpu"
	"github.com/ket-ml/ket/internal/tensor"
	"github.com/ket-ml/ket/observable"
	"github.com/ket-ml/ket/params"
	"github.com/ket-ml/ket/state"
)

// Mode selects the differentiation engine.
type Mode int

const (
	// Auto picks Adjoint when the circuit supports it, else Tracing.
	Auto Mode = iota
	// Tracing records the computation on a tape and back-propagates.
	Tracing
	// Adjoint runs the reverse-sweep algorithm with analytic jacobians.
	Adjoint
	// Shift applies the two-term parameter-shift rule.
	Shift
)

func (m Mode) String() string {
	switch m {
	case Auto:
		return "Auto"
	case Tracing:
		return "Tracing"
	case Adjoint:
		return "Adjoint"
	case Shift:
		return "Shift"
	}
	return "Mode(?)"
}

// Result holds batched expectation values and the gradients of their
// batch sum with respect to each parameter. A gradient slice has the
// parameter's batch size: per-batch derivatives for batched parameters,
// a single summed derivative for scalar ones.
type Result struct {
	Values    []float64
	Gradients map[string][]float64
}

type config struct {
	mode    Mode
	backend tensor.Backend
}

// Option configures an expectation evaluation.
type Option func(*config)

// WithMode forces a differentiation engine.
func WithMode(m Mode) Option {
	return func(c *config) { c.mode = m }
}

// WithBackend substitutes the compute backend (default CPU).
func WithBackend(b tensor.Backend) Option {
	return func(c *config) { c.backend = b }
}

// Expectation evaluates <psi|O|psi> for the circuit output and
// differentiates it with respect to every parameter the circuit reads.
func Expectation(c *circuit.Circuit, st *state.QuantumState, obs *observable.Observable, store *params.Store, opts ...Option) (*Result, error) {
	cfg := config{mode: Auto, backend: cpu.New()}
	for _, opt := range opts {
		opt(&cfg)
	}
	mode := cfg.mode
	if mode == Auto {
		mode = chooseMode(c)
	}
	switch mode {
	case Adjoint:
		return adjointExpectation(cfg.backend, c, st, obs, store)
	case Shift:
		return shiftExpectation(cfg.backend, c, st, obs, store)
	default:
		return tracingExpectation(cfg.backend, c, st, obs, store)
	}
}

// chooseMode returns Adjoint when every operator in the circuit is either
// parameter-free or carries an analytic jacobian, and Tracing otherwise.
func chooseMode(c *circuit.Circuit) Mode {
	ops, err := c.Flatten()
	if err != nil {
		return Tracing
	}
	for _, op := range ops {
		if readsParams(op) {
			if _, ok := op.(gates.Parametric); !ok {
				return Tracing
			}
		}
	}
	return Adjoint
}

func readsParams(op gates.Operator) bool {
	pr, ok := op.(interface{ ParamNames() []string })
	return ok && len(pr.ParamNames()) > 0
}
