package circuit

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ket-ml/ket/gates"
	"github.com/ket-ml/ket/internal/backend/cpu"
	"github.com/ket-ml/ket/internal/tensor"
	"github.com/ket-ml/ket/params"
	"github.com/ket-ml/ket/state"
)

func TestBellCircuit(t *testing.T) {
	b := cpu.New()
	c, err := New(2, gates.H(0), gates.CNOT(0, 1))
	require.NoError(t, err)

	st, err := state.Zero(2)
	require.NoError(t, err)
	out, err := c.Apply(b, st, nil)
	require.NoError(t, err)

	inv := 1 / math.Sqrt2
	assert.InDelta(t, inv, cmplx.Abs(out.Amplitude(0, 0)), 1e-12)
	assert.InDelta(t, 0, cmplx.Abs(out.Amplitude(1, 0)), 1e-12)
	assert.InDelta(t, 0, cmplx.Abs(out.Amplitude(2, 0)), 1e-12)
	assert.InDelta(t, inv, cmplx.Abs(out.Amplitude(3, 0)), 1e-12)
}

func TestNestedCircuit(t *testing.T) {
	b := cpu.New()
	inner, err := New(2, gates.H(0), gates.CNOT(0, 1))
	require.NoError(t, err)
	outer, err := New(2, inner, gates.X(0))
	require.NoError(t, err)

	st, err := state.Zero(2)
	require.NoError(t, err)
	got, err := outer.Apply(b, st, nil)
	require.NoError(t, err)

	flat, err := New(2, gates.H(0), gates.CNOT(0, 1), gates.X(0))
	require.NoError(t, err)
	st2, err := state.Zero(2)
	require.NoError(t, err)
	want, err := flat.Apply(b, st2, nil)
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		assert.InDelta(t, 0, cmplx.Abs(got.Amplitude(i, 0)-want.Amplitude(i, 0)), 1e-12)
	}
}

func TestConstructionValidation(t *testing.T) {
	_, err := New(0)
	assert.ErrorIs(t, err, state.ErrShape)

	_, err = New(1, gates.CNOT(0, 1))
	assert.ErrorIs(t, err, state.ErrIndex)
}

func TestMergeMatchesSequentialApplication(t *testing.T) {
	b := cpu.New()
	store := params.NewStore()
	store.SetScalar("theta", 0.6)
	ops := []gates.Operator{gates.H(0), gates.RZ(0, "theta"), gates.X(0)}

	m, err := NewMerge(ops...)
	require.NoError(t, err)

	st, err := state.Random(1)
	require.NoError(t, err)
	got, err := m.Apply(b, st, store)
	require.NoError(t, err)

	want := st
	for _, op := range ops {
		want, err = op.Apply(b, want, store)
		require.NoError(t, err)
	}
	for i := 0; i < 2; i++ {
		assert.InDelta(t, 0, cmplx.Abs(got.Amplitude(i, 0)-want.Amplitude(i, 0)), 1e-10)
	}
}

func TestMergeRejectsMixedSupport(t *testing.T) {
	_, err := NewMerge(gates.X(0), gates.X(1))
	assert.ErrorIs(t, err, state.ErrIndex)
}

func TestScaleConstant(t *testing.T) {
	b := cpu.New()
	st, err := state.Zero(1)
	require.NoError(t, err)

	sc := NewScale(gates.I(0), 2)
	out, err := sc.Apply(b, st, nil)
	require.NoError(t, err)
	assert.InDelta(t, 2, cmplx.Abs(out.Amplitude(0, 0)), 1e-12)
}

func TestScaleParameter(t *testing.T) {
	b := cpu.New()
	store := params.NewStore()
	store.SetScalar("w", 0.25)

	st, err := state.Zero(1)
	require.NoError(t, err)
	sc := NewScaleParam(gates.X(0), "w")
	out, err := sc.Apply(b, st, store)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, cmplx.Abs(out.Amplitude(1, 0)), 1e-12)

	_, err = sc.Apply(b, st, params.NewStore())
	assert.ErrorIs(t, err, params.ErrUnknownParameter)
}

func TestSumOfApplications(t *testing.T) {
	b := cpu.New()
	st, err := state.Zero(1)
	require.NoError(t, err)

	sum, err := NewSum(gates.X(0), gates.Z(0))
	require.NoError(t, err)
	out, err := sum.Apply(b, st, nil)
	require.NoError(t, err)

	// (X + Z)|0> = |1> + |0>
	assert.InDelta(t, 1, real(out.Amplitude(0, 0)), 1e-12)
	assert.InDelta(t, 1, real(out.Amplitude(1, 0)), 1e-12)
}

func TestHamiltonianEvolutionMatchesRZ(t *testing.T) {
	b := cpu.New()
	theta := 0.9

	// exp(-i (theta/2) Z) = RZ(theta)
	gen := tensor.Zeros(tensor.Shape{2, 2, 1}, tensor.Complex128, tensor.CPU)
	gen.SetAt(0, 1)
	gen.SetAt(3, -1)
	evo, err := NewHamiltonianEvolution(gen, "t", 0)
	require.NoError(t, err)

	store := params.NewStore()
	store.SetScalar("t", theta/2)
	store.SetScalar("theta", theta)

	u, err := evo.Unitary(b, store, tensor.Complex128)
	require.NoError(t, err)
	want, err := gates.RZ(0, "theta").Unitary(b, store, tensor.Complex128)
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		assert.InDelta(t, 0, cmplx.Abs(u.At(i)-want.At(i)), 1e-9, "entry %d", i)
	}
}

func TestHamiltonianEvolutionRejectsNonHermitian(t *testing.T) {
	gen := tensor.Zeros(tensor.Shape{2, 2, 1}, tensor.Complex128, tensor.CPU)
	gen.SetAt(1, 1) // upper off-diagonal only
	_, err := NewHamiltonianEvolution(gen, "t", 0)
	assert.ErrorIs(t, err, state.ErrShape)
}

func TestChannelRequiresDensityMatrix(t *testing.T) {
	b := cpu.New()
	flip, err := gates.BitFlip(0, 0.5)
	require.NoError(t, err)
	c, err := New(1, gates.H(0), flip)
	require.NoError(t, err)

	st, err := state.Zero(1)
	require.NoError(t, err)
	_, err = c.Apply(b, st, nil)
	assert.ErrorIs(t, err, state.ErrShape)

	rho, err := state.ZeroDensity(1)
	require.NoError(t, err)
	out, err := c.ApplyDensity(b, rho, nil)
	require.NoError(t, err)
	assert.InDelta(t, 1, real(out.Trace()[0]), 1e-10)
}

func TestFlattenExpandsNestingAndMerge(t *testing.T) {
	inner, err := New(2, gates.X(1))
	require.NoError(t, err)
	m, err := NewMerge(gates.H(0), gates.Z(0))
	require.NoError(t, err)
	c, err := New(2, inner, m, gates.CNOT(0, 1))
	require.NoError(t, err)

	ops, err := c.Flatten()
	require.NoError(t, err)
	require.Len(t, ops, 4)

	withSum, err := New(2, NewScale(gates.X(0), 2))
	require.NoError(t, err)
	_, err = withSum.Flatten()
	assert.Error(t, err)
}
