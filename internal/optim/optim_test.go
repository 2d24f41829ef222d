package optim_test

import (
	"errors"
	"math"
	"testing"

	"github.com/ket-ml/ket/circuit"
	"github.com/ket-ml/ket/diff"
	"github.com/ket-ml/ket/gates"
	"github.com/ket-ml/ket/internal/optim"
	"github.com/ket-ml/ket/observable"
	"github.com/ket-ml/ket/params"
	"github.com/ket-ml/ket/state"
)

// Helper to check float equality with tolerance.
func floatEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func storeValues(t *testing.T, store *params.Store, name string) []float64 {
	t.Helper()
	vals, err := store.Values(name)
	if err != nil {
		t.Fatalf("Values(%q) error: %v", name, err)
	}
	return vals
}

func TestSGDStep(t *testing.T) {
	store := params.NewStore()
	store.SetScalar("theta", 1.0)

	sgd := optim.NewSGD(optim.SGDConfig{LR: 0.1})
	if err := sgd.Step(store, map[string][]float64{"theta": {2.0}}); err != nil {
		t.Fatalf("Step error: %v", err)
	}

	if vals := storeValues(t, store, "theta"); !floatEqual(vals[0], 0.8, 1e-12) {
		t.Errorf("theta = %v, want 0.8", vals[0])
	}
}

func TestSGDMomentumAccumulates(t *testing.T) {
	store := params.NewStore()
	store.SetScalar("theta", 0.0)

	sgd := optim.NewSGD(optim.SGDConfig{LR: 1, Momentum: 0.5})
	grads := map[string][]float64{"theta": {1.0}}
	for i := 0; i < 2; i++ {
		if err := sgd.Step(store, grads); err != nil {
			t.Fatalf("Step %d error: %v", i, err)
		}
	}

	// Velocities: 1, then 1.5; total update 2.5.
	if vals := storeValues(t, store, "theta"); !floatEqual(vals[0], -2.5, 1e-12) {
		t.Errorf("theta = %v, want -2.5", vals[0])
	}
}

func TestSGDUnknownParameter(t *testing.T) {
	sgd := optim.NewSGD(optim.SGDConfig{})
	err := sgd.Step(params.NewStore(), map[string][]float64{"ghost": {1}})
	if !errors.Is(err, params.ErrUnknownParameter) {
		t.Errorf("Step error = %v, want ErrUnknownParameter", err)
	}
}

func TestAdamDefaults(t *testing.T) {
	adam := optim.NewAdam(optim.AdamConfig{})
	if !floatEqual(adam.GetLR(), 0.001, 1e-12) {
		t.Errorf("GetLR = %v, want 0.001", adam.GetLR())
	}

	store := params.NewStore()
	store.SetScalar("theta", 1.0)
	if err := adam.Step(store, map[string][]float64{"theta": {0.5}}); err != nil {
		t.Fatalf("Step error: %v", err)
	}
	if adam.GetTimestep() != 1 {
		t.Errorf("GetTimestep = %d, want 1", adam.GetTimestep())
	}

	// First Adam step moves by ~lr regardless of gradient scale.
	if vals := storeValues(t, store, "theta"); !floatEqual(vals[0], 1.0-0.001, 1e-6) {
		t.Errorf("theta = %v, want %v", vals[0], 1.0-0.001)
	}
}

func TestBatchedParameterUpdate(t *testing.T) {
	store := params.NewStore()
	store.Set("theta", []float64{1, 2, 3})

	sgd := optim.NewSGD(optim.SGDConfig{LR: 1})
	if err := sgd.Step(store, map[string][]float64{"theta": {0.1, 0.2, 0.3}}); err != nil {
		t.Fatalf("Step error: %v", err)
	}

	vals := storeValues(t, store, "theta")
	want := []float64{0.9, 1.8, 2.7}
	for i, w := range want {
		if !floatEqual(vals[i], w, 1e-12) {
			t.Errorf("theta[%d] = %v, want %v", i, vals[i], w)
		}
	}
}

// Minimizing <Z> over RY(theta)|0> should drive theta toward pi.
func TestTrainingConverges(t *testing.T) {
	c, err := circuit.New(1, gates.RY(0, "theta"))
	if err != nil {
		t.Fatal(err)
	}
	obs := observable.Z(0)
	store := params.NewStore()
	store.SetScalar("theta", 0.2)

	adam := optim.NewAdam(optim.AdamConfig{LR: 0.1})
	var value float64
	for i := 0; i < 200; i++ {
		st, err := state.Zero(1)
		if err != nil {
			t.Fatal(err)
		}
		res, err := diff.Expectation(c, st, obs, store)
		if err != nil {
			t.Fatalf("Expectation error: %v", err)
		}
		value = res.Values[0]
		if err := adam.Step(store, res.Gradients); err != nil {
			t.Fatalf("Step error: %v", err)
		}
	}
	if value >= -0.99 {
		t.Errorf("final expectation = %v, want < -0.99", value)
	}
	if vals := storeValues(t, store, "theta"); !floatEqual(vals[0], math.Pi, 0.2) {
		t.Errorf("theta = %v, want ~pi", vals[0])
	}
}
