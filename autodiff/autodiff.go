// Copyright 2025 The ket Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides reverse-mode automatic differentiation for
// complex tensors.
//
// It wraps any compute backend with a gradient tape. The stored gradient
// of a complex tensor x is dL/d(conj x) for a real-valued output L, so
// real parameter derivatives are the real part of the leaf gradient.
//
// Example:
//
//	base := cpu.New()
//	backend := autodiff.New(base)
//	backend.Tape().StartRecording()
//	// ... operations through backend ...
//	grads := autodiff.Backward(output, backend)
package autodiff

import (
	"github.com/ket-ml/ket/internal/autodiff"
	"github.com/ket-ml/ket/internal/tensor"
)

// Backend is the tape-recording backend decorator.
type Backend[B tensor.Backend] = autodiff.AutodiffBackend[B]

// New wraps a backend with gradient recording.
func New[B tensor.Backend](backend B) *Backend[B] {
	return autodiff.New(backend)
}

// GradientTape records operations for the backward pass.
type GradientTape = autodiff.GradientTape

// NewGradientTape creates an empty gradient tape.
func NewGradientTape() *GradientTape {
	return autodiff.NewGradientTape()
}

// BackwardCapable is satisfied by backends carrying a gradient tape.
type BackwardCapable = autodiff.BackwardCapable

// Backward seeds the output with ones and walks the tape, returning the
// accumulated gradient per participating tensor.
func Backward(output *tensor.RawTensor, backend BackwardCapable) map[*tensor.RawTensor]*tensor.RawTensor {
	return autodiff.Backward(output, backend)
}
