package optim

import (
	"sort"

	"github.com/ket-ml/ket/params"
)

// SGD implements stochastic gradient descent with optional momentum.
//
// Update rule without momentum:
//
//	param = param - lr * gradient
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
type SGD struct {
	lr         float64
	momentum   float64
	velocities map[string][]float64
}

// SGDConfig holds configuration for the SGD optimizer.
type SGDConfig struct {
	LR       float64 // learning rate (default 0.01)
	Momentum float64 // momentum factor (default 0, range [0, 1))
}

// NewSGD creates an SGD optimizer.
func NewSGD(config SGDConfig) *SGD {
	if config.LR == 0 {
		config.LR = 0.01
	}
	return &SGD{
		lr:         config.LR,
		momentum:   config.Momentum,
		velocities: make(map[string][]float64),
	}
}

// Step applies one gradient descent update per named parameter.
func (s *SGD) Step(store *params.Store, grads map[string][]float64) error {
	for _, name := range sortedNames(grads) {
		grad := grads[name]
		if grad == nil {
			continue
		}
		update := make([]float64, len(grad))
		if s.momentum == 0 {
			for i, g := range grad {
				update[i] = s.lr * g
			}
		} else {
			vel := s.velocities[name]
			if vel == nil {
				vel = make([]float64, len(grad))
				s.velocities[name] = vel
			}
			for i, g := range grad {
				vel[i] = s.momentum*vel[i] + g
				update[i] = s.lr * vel[i]
			}
		}
		if err := applyUpdate(store, name, update); err != nil {
			return err
		}
	}
	return nil
}

// GetLR returns the current learning rate.
func (s *SGD) GetLR() float64 {
	return s.lr
}

// SetLR updates the learning rate, for scheduling during training.
func (s *SGD) SetLR(lr float64) {
	s.lr = lr
}

// sortedNames keeps the update order deterministic across runs.
func sortedNames(grads map[string][]float64) []string {
	names := make([]string, 0, len(grads))
	for name := range grads {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
