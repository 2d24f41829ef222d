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

// Primitive is a fixed (non-parameterized) operator defined by a constant
// matrix over its support.
type Primitive struct {
	name    string
	support []int
	mat     [][]complex128
}

func newPrimitive(name string, mat [][]complex128, support ...int) *Primitive {
	return &Primitive{name: name, support: support, mat: mat}
}

// I returns the single-qubit identity gate.
func I(target int) *Primitive { return newPrimitive("I", matI, target) }

// X returns the Pauli-X (NOT) gate.
func X(target int) *Primitive { return newPrimitive("X", matX, target) }

// Y returns the Pauli-Y gate.
func Y(target int) *Primitive { return newPrimitive("Y", matY, target) }

// Z returns the Pauli-Z gate.
func Z(target int) *Primitive { return newPrimitive("Z", matZ, target) }

// H returns the Hadamard gate.
func H(target int) *Primitive { return newPrimitive("H", matH, target) }

// S returns the phase gate diag(1, i).
func S(target int) *Primitive { return newPrimitive("S", matS, target) }

// SDagger returns the inverse phase gate diag(1, -i).
func SDagger(target int) *Primitive { return newPrimitive("SDagger", daggerLiteral(matS), target) }

// T returns the pi/8 gate diag(1, exp(i pi/4)).
func T(target int) *Primitive { return newPrimitive("T", matT, target) }

// N returns the number operator |1><1|. It is a projector, not a unitary.
func N(target int) *Primitive { return newPrimitive("N", matN, target) }

// SWAP returns the gate exchanging two qubits.
func SWAP(a, b int) *Primitive { return newPrimitive("SWAP", matSWAP, a, b) }

// Projector returns |ket><bra| over the given support qubits. The
// bitstrings must have one character per support qubit, leftmost first.
func Projector(ket, bra string, support ...int) (*Primitive, error) {
	if len(ket) != len(bra) {
		return nil, fmt.Errorf("%w: ket %q and bra %q have different lengths", state.ErrShape, ket, bra)
	}
	if len(ket) != len(support) {
		return nil, fmt.Errorf("%w: bitstring length %d vs %d support qubit(s)", state.ErrShape, len(ket), len(support))
	}
	for _, s := range []string{ket, bra} {
		for _, c := range s {
			if c != '0' && c != '1' {
				return nil, fmt.Errorf("%w: bitstring %q must contain only 0 and 1", state.ErrIndex, s)
			}
		}
	}
	return newPrimitive("Projector", projectorLiteral(ket, bra), support...), nil
}

// Support returns the qubit indices the gate acts on.
func (g *Primitive) Support() []int { return g.support }

func (g *Primitive) String() string {
	return fmt.Sprintf("%s%v", g.name, g.support)
}

// Unitary returns the gate matrix as a batch-1 tensor [d, d, 1]. The
// parameter store is ignored.
func (g *Primitive) Unitary(_ tensor.Backend, _ *params.Store, dtype tensor.DataType) (*tensor.RawTensor, error) {
	return rawFromLiteral(g.mat, dtype), nil
}

// Dagger returns the conjugate transpose of the gate matrix.
func (g *Primitive) Dagger(_ tensor.Backend, _ *params.Store, dtype tensor.DataType) (*tensor.RawTensor, error) {
	return rawFromLiteral(daggerLiteral(g.mat), dtype), nil
}

// Apply contracts the gate with the state's support axes.
func (g *Primitive) Apply(b tensor.Backend, st *state.QuantumState, store *params.Store) (*state.QuantumState, error) {
	return applyOperator(b, g, st, store)
}
