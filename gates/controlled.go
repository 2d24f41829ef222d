// Copyright 2025 The ket Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package gates

// Controlled fixed gates. The base matrix sits in the last diagonal block
// of an identity over the joint space, so the gate acts only on the
// all-controls-|1> subspace. The support lists controls before targets.

// CNOT returns the controlled-X gate.
func CNOT(control, target int) *Primitive {
	return newPrimitive("CNOT", controlledLiteral(matX, 1), control, target)
}

// CY returns the controlled-Y gate.
func CY(control, target int) *Primitive {
	return newPrimitive("CY", controlledLiteral(matY, 1), control, target)
}

// CZ returns the controlled-Z gate.
func CZ(control, target int) *Primitive {
	return newPrimitive("CZ", controlledLiteral(matZ, 1), control, target)
}

// Toffoli returns the doubly-controlled X gate.
func Toffoli(control1, control2, target int) *Primitive {
	return newPrimitive("Toffoli", controlledLiteral(matX, 2), control1, control2, target)
}

// CSWAP returns the controlled-SWAP (Fredkin) gate.
func CSWAP(control, a, b int) *Primitive {
	return newPrimitive("CSWAP", controlledLiteral(matSWAP, 1), control, a, b)
}
