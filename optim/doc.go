// Copyright 2025 The ket Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimization algorithms for variational
// circuit training.
//
// # Overview
//
// This package contains:
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation with bias correction
//   - Optimizer interface for custom optimizers
//
// # Basic Usage
//
//	import (
//	    "github.com/ket-ml/ket/diff"
//	    "github.com/ket-ml/ket/optim"
//	    "github.com/ket-ml/ket/params"
//	)
//
//	func main() {
//	    store := params.NewStore()
//	    store.Set("theta", []float64{0.1})
//
//	    optimizer := optim.NewAdam(optim.AdamConfig{LR: 0.001})
//
//	    for epoch := 0; epoch < 100; epoch++ {
//	        res, err := diff.Expectation(circ, st, obs, store)
//	        if err != nil {
//	            log.Fatal(err)
//	        }
//	        if err := optimizer.Step(store, res.Gradients); err != nil {
//	            log.Fatal(err)
//	        }
//	    }
//	}
//
// Optimizers update the named values in the parameter store in place;
// the gradient map keys select which parameters move on a given step.
package optim
