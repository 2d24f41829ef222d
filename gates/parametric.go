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

type rotationKind int

const (
	kindRX rotationKind = iota
	kindRY
	kindRZ
	kindPhase
)

func (k rotationKind) String() string {
	switch k {
	case kindRX:
		return "RX"
	case kindRY:
		return "RY"
	case kindRZ:
		return "RZ"
	case kindPhase:
		return "Phase"
	}
	return "Rotation"
}

// Rotation is a parameterized single-qubit operator, optionally with
// control qubits. Its matrix entries are functions of one named parameter
// resolved from a store at application time; the matrix is assembled
// through backend operations so a recording backend captures the
// dependency on the parameter leaf.
type Rotation struct {
	kind     rotationKind
	param    string
	controls []int
	support  []int
}

func newRotation(kind rotationKind, param string, controls []int, target int) *Rotation {
	support := make([]int, 0, len(controls)+1)
	support = append(support, controls...)
	support = append(support, target)
	return &Rotation{kind: kind, param: anonName(param), controls: controls, support: support}
}

// RX returns a rotation around the X axis by the named parameter. An
// empty name is replaced with a fresh unique one.
func RX(target int, param string) *Rotation { return newRotation(kindRX, param, nil, target) }

// RY returns a rotation around the Y axis.
func RY(target int, param string) *Rotation { return newRotation(kindRY, param, nil, target) }

// RZ returns a rotation around the Z axis.
func RZ(target int, param string) *Rotation { return newRotation(kindRZ, param, nil, target) }

// Phase returns the gate diag(1, exp(i theta)).
func Phase(target int, param string) *Rotation { return newRotation(kindPhase, param, nil, target) }

// CRX returns a controlled rotation around the X axis.
func CRX(control, target int, param string) *Rotation {
	return newRotation(kindRX, param, []int{control}, target)
}

// CRY returns a controlled rotation around the Y axis.
func CRY(control, target int, param string) *Rotation {
	return newRotation(kindRY, param, []int{control}, target)
}

// CRZ returns a controlled rotation around the Z axis.
func CRZ(control, target int, param string) *Rotation {
	return newRotation(kindRZ, param, []int{control}, target)
}

// CPhase returns a controlled phase gate.
func CPhase(control, target int, param string) *Rotation {
	return newRotation(kindPhase, param, []int{control}, target)
}

// Support returns the qubit indices the gate acts on, controls first.
func (g *Rotation) Support() []int { return g.support }

func (g *Rotation) String() string {
	name := g.kind.String()
	if len(g.controls) > 0 {
		name = "C" + name
	}
	return fmt.Sprintf("%s%v(%s)", name, g.support, g.param)
}

// ParamNames returns the single parameter name the gate reads.
func (g *Rotation) ParamNames() []string { return []string{g.param} }

// SpectralGap reports the two-term shift-rule gap. Uncontrolled rotations
// and phase gates have a single gap of 1; controlled variants have two
// distinct gaps, so ok is false.
func (g *Rotation) SpectralGap() (float64, bool) {
	if len(g.controls) > 0 {
		return 0, false
	}
	return 1, true
}

// Unitary assembles the gate matrix [2^k, 2^k, batch] from the parameter
// leaf. Controlled variants embed the base matrix as I + P ⊗ (U - I) so
// the construction stays on tape.
func (g *Rotation) Unitary(b tensor.Backend, store *params.Store, dtype tensor.DataType) (*tensor.RawTensor, error) {
	theta, err := g.resolve(store, dtype)
	if err != nil {
		return nil, err
	}
	base := g.baseUnitary(b, theta, dtype)
	return g.embed(b, base, dtype), nil
}

// Dagger returns the conjugate transpose of Unitary, computed through
// backend ops.
func (g *Rotation) Dagger(b tensor.Backend, store *params.Store, dtype tensor.DataType) (*tensor.RawTensor, error) {
	u, err := g.Unitary(b, store, dtype)
	if err != nil {
		return nil, err
	}
	return daggerOf(b, u), nil
}

// Apply contracts the gate with the state's support axes.
func (g *Rotation) Apply(b tensor.Backend, st *state.QuantumState, store *params.Store) (*state.QuantumState, error) {
	return applyOperator(b, g, st, store)
}

// JacobianUnitary returns the analytic derivative of the gate matrix with
// respect to its parameter.
func (g *Rotation) JacobianUnitary(b tensor.Backend, store *params.Store, dtype tensor.DataType, name string) (*tensor.RawTensor, error) {
	if name != g.param {
		return nil, fmt.Errorf("%w: %s does not read %q", params.ErrUnknownParameter, g, name)
	}
	theta, err := g.resolve(store, dtype)
	if err != nil {
		return nil, err
	}
	jac := g.baseJacobian(b, theta, dtype)
	if len(g.controls) == 0 {
		return jac, nil
	}
	// d/dtheta of the embedding: the identity term drops out.
	return b.Kron(g.controlProjector(dtype), jac), nil
}

// resolve fetches the parameter leaf and reshapes it to a [1, 1, batch]
// matrix entry.
func (g *Rotation) resolve(store *params.Store, dtype tensor.DataType) (*tensor.RawTensor, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: %q (no parameter store)", params.ErrUnknownParameter, g.param)
	}
	theta, err := store.Get(g.param)
	if err != nil {
		return nil, err
	}
	if theta.DType() != dtype {
		return nil, fmt.Errorf("%w: parameter %q has data type %s, want %s",
			state.ErrShape, g.param, theta.DType(), dtype)
	}
	return theta, nil
}

// entries lays out four [1, 1, batch] blocks as a [2, 2, batch] matrix.
func entries(b tensor.Backend, e00, e01, e10, e11 *tensor.RawTensor) *tensor.RawTensor {
	row0 := b.Cat([]*tensor.RawTensor{e00, e01}, 1)
	row1 := b.Cat([]*tensor.RawTensor{e10, e11}, 1)
	return b.Cat([]*tensor.RawTensor{row0, row1}, 0)
}

func (g *Rotation) baseUnitary(b tensor.Backend, theta *tensor.RawTensor, dtype tensor.DataType) *tensor.RawTensor {
	batch := theta.NumElements()
	th := b.Reshape(theta, tensor.Shape{1, 1, batch})
	zero := tensor.Zeros(tensor.Shape{1, 1, batch}, dtype, tensor.CPU)
	switch g.kind {
	case kindRX:
		half := b.MulScalar(th, 0.5)
		c, s := b.Cos(half), b.Sin(half)
		mis := b.MulScalar(s, -1i)
		return entries(b, c, mis, mis, c)
	case kindRY:
		half := b.MulScalar(th, 0.5)
		c, s := b.Cos(half), b.Sin(half)
		return entries(b, c, b.MulScalar(s, -1), s, c)
	case kindRZ:
		em := b.Exp(b.MulScalar(th, -0.5i))
		ep := b.Exp(b.MulScalar(th, 0.5i))
		return entries(b, em, zero, zero, ep)
	case kindPhase:
		one := tensor.Ones(tensor.Shape{1, 1, batch}, dtype, tensor.CPU)
		e := b.Exp(b.MulScalar(th, 1i))
		return entries(b, one, zero, zero, e)
	}
	panic("gates: unknown rotation kind")
}

func (g *Rotation) baseJacobian(b tensor.Backend, theta *tensor.RawTensor, dtype tensor.DataType) *tensor.RawTensor {
	batch := theta.NumElements()
	th := b.Reshape(theta, tensor.Shape{1, 1, batch})
	zero := tensor.Zeros(tensor.Shape{1, 1, batch}, dtype, tensor.CPU)
	switch g.kind {
	case kindRX:
		half := b.MulScalar(th, 0.5)
		msh := b.MulScalar(b.Sin(half), -0.5)
		mich := b.MulScalar(b.Cos(half), -0.5i)
		return entries(b, msh, mich, mich, msh)
	case kindRY:
		half := b.MulScalar(th, 0.5)
		msh := b.MulScalar(b.Sin(half), -0.5)
		ch := b.MulScalar(b.Cos(half), 0.5)
		return entries(b, msh, b.MulScalar(ch, -1), ch, msh)
	case kindRZ:
		em := b.MulScalar(b.Exp(b.MulScalar(th, -0.5i)), -0.5i)
		ep := b.MulScalar(b.Exp(b.MulScalar(th, 0.5i)), 0.5i)
		return entries(b, em, zero, zero, ep)
	case kindPhase:
		e := b.MulScalar(b.Exp(b.MulScalar(th, 1i)), 1i)
		return entries(b, zero, zero, zero, e)
	}
	panic("gates: unknown rotation kind")
}

// embed lifts a [2, 2, batch] base matrix onto the full control+target
// space as I + P ⊗ (U - I), where P projects onto all controls |1>.
func (g *Rotation) embed(b tensor.Backend, base *tensor.RawTensor, dtype tensor.DataType) *tensor.RawTensor {
	if len(g.controls) == 0 {
		return base
	}
	full := 2 << len(g.controls)
	eye2 := tensor.Eye(2, dtype, tensor.CPU)
	delta := b.Sub(base, eye2)
	block := b.Kron(g.controlProjector(dtype), delta)
	return b.Add(tensor.Eye(full, dtype, tensor.CPU), block)
}

// controlProjector returns the batch-1 projector onto the all-controls-|1>
// subspace, diag(0, .., 0, 1) of dimension 2^c.
func (g *Rotation) controlProjector(dtype tensor.DataType) *tensor.RawTensor {
	dim := 1 << len(g.controls)
	p := tensor.Zeros(tensor.Shape{dim, dim, 1}, dtype, tensor.CPU)
	p.SetAt(dim*dim-1, 1)
	return p
}
