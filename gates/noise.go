// Copyright 2025 The ket Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package gates

import (
	"fmt"
	"math"

	"github.com/ket-ml/ket/internal/tensor"
)

// Noise is a single-qubit Kraus channel. Channels act on density
// matrices only; see ApplyKraus.
type Noise struct {
	name    string
	support []int
	kraus   [][][]complex128
}

func scaledLiteral(m [][]complex128, s float64) [][]complex128 {
	out := make([][]complex128, len(m))
	for i := range m {
		out[i] = make([]complex128, len(m[i]))
		for j := range m[i] {
			out[i][j] = m[i][j] * complex(s, 0)
		}
	}
	return out
}

func checkProbability(name string, p, limit float64) error {
	if p < 0 || p > limit {
		return fmt.Errorf("gates: %s probability %v out of [0, %v]", name, p, limit)
	}
	return nil
}

// BitFlip returns the channel applying X with probability p.
func BitFlip(target int, p float64) (*Noise, error) {
	if err := checkProbability("bit flip", p, 1); err != nil {
		return nil, err
	}
	return &Noise{
		name:    "BitFlip",
		support: []int{target},
		kraus: [][][]complex128{
			scaledLiteral(matI, math.Sqrt(1-p)),
			scaledLiteral(matX, math.Sqrt(p)),
		},
	}, nil
}

// PhaseFlip returns the channel applying Z with probability p.
func PhaseFlip(target int, p float64) (*Noise, error) {
	if err := checkProbability("phase flip", p, 1); err != nil {
		return nil, err
	}
	return &Noise{
		name:    "PhaseFlip",
		support: []int{target},
		kraus: [][][]complex128{
			scaledLiteral(matI, math.Sqrt(1-p)),
			scaledLiteral(matZ, math.Sqrt(p)),
		},
	}, nil
}

// Depolarizing returns the channel mixing the state toward the maximally
// mixed state with probability p.
func Depolarizing(target int, p float64) (*Noise, error) {
	if err := checkProbability("depolarizing", p, 1); err != nil {
		return nil, err
	}
	return &Noise{
		name:    "Depolarizing",
		support: []int{target},
		kraus: [][][]complex128{
			scaledLiteral(matI, math.Sqrt(1-3*p/4)),
			scaledLiteral(matX, math.Sqrt(p/4)),
			scaledLiteral(matY, math.Sqrt(p/4)),
			scaledLiteral(matZ, math.Sqrt(p/4)),
		},
	}, nil
}

// AmplitudeDamping returns the channel relaxing |1> toward |0> with rate
// gamma.
func AmplitudeDamping(target int, gamma float64) (*Noise, error) {
	if err := checkProbability("amplitude damping", gamma, 1); err != nil {
		return nil, err
	}
	k0 := [][]complex128{
		{1, 0},
		{0, complex(math.Sqrt(1-gamma), 0)},
	}
	k1 := [][]complex128{
		{0, complex(math.Sqrt(gamma), 0)},
		{0, 0},
	}
	return &Noise{
		name:    "AmplitudeDamping",
		support: []int{target},
		kraus:   [][][]complex128{k0, k1},
	}, nil
}

// Support returns the qubit indices the channel acts on.
func (c *Noise) Support() []int { return c.support }

func (c *Noise) String() string {
	return fmt.Sprintf("%s%v", c.name, c.support)
}

// Kraus returns the channel operators as batch-1 tensors [2, 2, 1].
func (c *Noise) Kraus(dtype tensor.DataType) []*tensor.RawTensor {
	out := make([]*tensor.RawTensor, len(c.kraus))
	for i, m := range c.kraus {
		out[i] = rawFromLiteral(m, dtype)
	}
	return out
}
