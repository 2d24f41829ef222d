// Copyright 2025 The ket Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the pure-Go compute backend.
package cpu

import (
	internalcpu "github.com/ket-ml/ket/internal/backend/cpu"
	"github.com/ket-ml/ket/tensor"
)

// Backend is the CPU backend implementation, with pure Go kernels for
// complex64 and complex128 tensors.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new CPU backend.
//
// Example:
//
//	backend := cpu.New()
//	st, _ := state.Zero(2)
//	out, _ := gates.H(0).Apply(backend, st, nil)
func New() *Backend {
	return internalcpu.New()
}
