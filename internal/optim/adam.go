package optim

import (
	"math"

	"github.com/ket-ml/ket/params"
)

// Adam implements the Adam (adaptive moment estimation) optimizer.
//
// Update rule:
//
//	m_t = beta1 * m_{t-1} + (1-beta1) * gradient
//	v_t = beta2 * v_{t-1} + (1-beta2) * gradient²
//	m_hat = m_t / (1 - beta1^t)
//	v_hat = v_t / (1 - beta2^t)
//	param = param - lr * m_hat / (sqrt(v_hat) + eps)
//
// Reference: "Adam: A Method for Stochastic Optimization"
// (Kingma & Ba, 2014).
type Adam struct {
	lr    float64
	beta1 float64
	beta2 float64
	eps   float64
	t     int
	m     map[string][]float64
	v     map[string][]float64
}

// AdamConfig holds configuration for the Adam optimizer.
type AdamConfig struct {
	LR    float64    // learning rate (default 0.001)
	Betas [2]float64 // moving-average coefficients (default [0.9, 0.999])
	Eps   float64    // numerical stability term (default 1e-8)
}

// NewAdam creates an Adam optimizer with defaulted hyperparameters.
func NewAdam(config AdamConfig) *Adam {
	if config.LR == 0 {
		config.LR = 0.001
	}
	if config.Betas[0] == 0 {
		config.Betas[0] = 0.9
	}
	if config.Betas[1] == 0 {
		config.Betas[1] = 0.999
	}
	if config.Eps == 0 {
		config.Eps = 1e-8
	}
	return &Adam{
		lr:    config.LR,
		beta1: config.Betas[0],
		beta2: config.Betas[1],
		eps:   config.Eps,
		m:     make(map[string][]float64),
		v:     make(map[string][]float64),
	}
}

// Step applies one Adam update per named parameter.
func (a *Adam) Step(store *params.Store, grads map[string][]float64) error {
	a.t++
	biasCorrection1 := 1 - math.Pow(a.beta1, float64(a.t))
	biasCorrection2 := 1 - math.Pow(a.beta2, float64(a.t))

	for _, name := range sortedNames(grads) {
		grad := grads[name]
		if grad == nil {
			continue
		}
		m := a.m[name]
		if m == nil {
			m = make([]float64, len(grad))
			a.m[name] = m
		}
		v := a.v[name]
		if v == nil {
			v = make([]float64, len(grad))
			a.v[name] = v
		}
		update := make([]float64, len(grad))
		for i, g := range grad {
			m[i] = a.beta1*m[i] + (1-a.beta1)*g
			v[i] = a.beta2*v[i] + (1-a.beta2)*g*g
			mHat := m[i] / biasCorrection1
			vHat := v[i] / biasCorrection2
			update[i] = a.lr * mHat / (math.Sqrt(vHat) + a.eps)
		}
		if err := applyUpdate(store, name, update); err != nil {
			return err
		}
	}
	return nil
}

// GetLR returns the current learning rate.
func (a *Adam) GetLR() float64 {
	return a.lr
}

// SetLR updates the learning rate, for scheduling during training.
func (a *Adam) SetLR(lr float64) {
	a.lr = lr
}

// GetTimestep returns the number of steps taken.
func (a *Adam) GetTimestep() int {
	return a.t
}
