// Package optim implements optimization algorithms for variational
// circuit training.
//
// Optimizers consume the gradient maps produced by diff.Expectation and
// update the named values in a parameter store in place:
//
//	res, _ := diff.Expectation(circ, st, obs, store)
//	optimizer.Step(store, res.Gradients)
package optim

import (
	"github.com/ket-ml/ket/params"
)

// Optimizer is the base interface for all optimization algorithms.
type Optimizer interface {
	// Step applies one gradient update to every parameter named in the
	// gradient map. Names without a store entry are an error; a nil
	// gradient slice is skipped.
	Step(store *params.Store, grads map[string][]float64) error

	// GetLR returns the current learning rate.
	GetLR() float64
}

// applyUpdate writes param - update back into the store, broadcasting a
// single-entry gradient over a batched parameter.
func applyUpdate(store *params.Store, name string, update []float64) error {
	vals, err := store.Values(name)
	if err != nil {
		return err
	}
	for i := range vals {
		j := i
		if len(update) == 1 {
			j = 0
		}
		vals[i] -= update[j]
	}
	store.Set(name, vals)
	return nil
}
