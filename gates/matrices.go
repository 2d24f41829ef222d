// Copyright 2025 The ket Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package gates

import (
	"math"
	"math/cmplx"

	"github.com/ket-ml/ket/internal/tensor"
)

// Matrix literals for the fixed gates. Stored as complex128 and converted
// to the requested data type when a unitary tensor is built.
var (
	matI = [][]complex128{
		{1, 0},
		{0, 1},
	}
	matX = [][]complex128{
		{0, 1},
		{1, 0},
	}
	matY = [][]complex128{
		{0, -1i},
		{1i, 0},
	}
	matZ = [][]complex128{
		{1, 0},
		{0, -1},
	}
	matH = [][]complex128{
		{complex(1/math.Sqrt2, 0), complex(1/math.Sqrt2, 0)},
		{complex(1/math.Sqrt2, 0), complex(-1/math.Sqrt2, 0)},
	}
	matS = [][]complex128{
		{1, 0},
		{0, 1i},
	}
	matT = [][]complex128{
		{1, 0},
		{0, cmplx.Exp(1i * math.Pi / 4)},
	}
	// Number operator |1><1|, the projector onto the excited state.
	matN = [][]complex128{
		{0, 0},
		{0, 1},
	}
	matSWAP = [][]complex128{
		{1, 0, 0, 0},
		{0, 0, 1, 0},
		{0, 1, 0, 0},
		{0, 0, 0, 1},
	}
)

// rawFromLiteral converts a square matrix literal to a batch-1 operator
// tensor of shape [d, d, 1].
func rawFromLiteral(m [][]complex128, dtype tensor.DataType) *tensor.RawTensor {
	d := len(m)
	raw := tensor.Zeros(tensor.Shape{d, d, 1}, dtype, tensor.CPU)
	for i := 0; i < d; i++ {
		for j := 0; j < d; j++ {
			raw.SetAt(i*d+j, m[i][j])
		}
	}
	return raw
}

// daggerLiteral returns the conjugate transpose of a matrix literal.
func daggerLiteral(m [][]complex128) [][]complex128 {
	d := len(m)
	out := make([][]complex128, d)
	for i := range out {
		out[i] = make([]complex128, d)
		for j := 0; j < d; j++ {
			out[i][j] = cmplx.Conj(m[j][i])
		}
	}
	return out
}

// controlledLiteral embeds a base matrix in the last diagonal block of an
// identity over the joint control+target space: the gate fires only when
// every control qubit is |1>.
func controlledLiteral(base [][]complex128, nControls int) [][]complex128 {
	d := len(base)
	full := d << nControls
	out := make([][]complex128, full)
	for i := range out {
		out[i] = make([]complex128, full)
		out[i][i] = 1
	}
	off := full - d
	for i := 0; i < d; i++ {
		for j := 0; j < d; j++ {
			out[off+i][off+j] = base[i][j]
		}
	}
	return out
}

// projectorLiteral builds |ket><bra| from two bitstrings of equal length.
// The leftmost character addresses the first support qubit.
func projectorLiteral(ket, bra string) [][]complex128 {
	d := 1 << len(ket)
	out := make([][]complex128, d)
	for i := range out {
		out[i] = make([]complex128, d)
	}
	out[bitIndex(ket)][bitIndex(bra)] = 1
	return out
}

func bitIndex(bits string) int {
	idx := 0
	for _, c := range bits {
		idx <<= 1
		if c == '1' {
			idx++
		}
	}
	return idx
}
