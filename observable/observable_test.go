package observable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ket-ml/ket/gates"
	"github.com/ket-ml/ket/internal/backend/cpu"
	"github.com/ket-ml/ket/internal/tensor"
	"github.com/ket-ml/ket/state"
)

func TestPauliZExpectation(t *testing.T) {
	b := cpu.New()
	cases := []struct {
		bits string
		want float64
	}{
		{"0", 1},
		{"1", -1},
	}
	for _, tc := range cases {
		st, err := state.Product(tc.bits)
		require.NoError(t, err)
		vals, err := Z(0).Expectation(b, st, nil)
		require.NoError(t, err)
		assert.InDelta(t, tc.want, vals[0], 1e-12)
	}

	plus, err := state.Zero(1)
	require.NoError(t, err)
	plus, err = gates.H(0).Apply(b, plus, nil)
	require.NoError(t, err)
	vals, err := Z(0).Expectation(b, plus, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0, vals[0], 1e-12)
}

func TestBellStateCorrelation(t *testing.T) {
	b := cpu.New()
	st, err := state.Zero(2)
	require.NoError(t, err)
	st, err = gates.H(0).Apply(b, st, nil)
	require.NoError(t, err)
	st, err = gates.CNOT(0, 1).Apply(b, st, nil)
	require.NoError(t, err)

	vals, err := ZZ(0, 1).Expectation(b, st, nil)
	require.NoError(t, err)
	assert.InDelta(t, 1, vals[0], 1e-12)
}

func TestWeightedSum(t *testing.T) {
	b := cpu.New()
	plus, err := state.Zero(1)
	require.NoError(t, err)
	plus, err = gates.H(0).Apply(b, plus, nil)
	require.NoError(t, err)

	obs, err := New(
		NewTerm(0.5, gates.Z(0)),
		NewTerm(2, gates.X(0)),
	)
	require.NoError(t, err)
	vals, err := obs.Expectation(b, plus, nil)
	require.NoError(t, err)
	assert.InDelta(t, 2, vals[0], 1e-12)
}

func TestHermitianMatchesPauli(t *testing.T) {
	b := cpu.New()
	mat := tensor.Zeros(tensor.Shape{2, 2, 1}, tensor.Complex128, tensor.CPU)
	mat.SetAt(0, 1)
	mat.SetAt(3, -1)
	obs, err := Hermitian(mat, 0)
	require.NoError(t, err)

	st, err := state.Random(1)
	require.NoError(t, err)
	got, err := obs.Expectation(b, st, nil)
	require.NoError(t, err)
	want, err := Z(0).Expectation(b, st, nil)
	require.NoError(t, err)
	assert.InDelta(t, want[0], got[0], 1e-10)
}

func TestHermitianRejectsNonHermitian(t *testing.T) {
	mat := tensor.Zeros(tensor.Shape{2, 2, 1}, tensor.Complex128, tensor.CPU)
	mat.SetAt(1, 1i)
	mat.SetAt(2, 1i) // conjugate would be -i
	_, err := Hermitian(mat, 0)
	assert.ErrorIs(t, err, state.ErrShape)
}

func TestDensityExpectationMatchesPure(t *testing.T) {
	b := cpu.New()
	st, err := state.Random(2)
	require.NoError(t, err)
	obs, err := New(
		NewTerm(1, gates.Z(0)),
		NewTerm(0.3, gates.X(1)),
	)
	require.NoError(t, err)

	pure, err := obs.Expectation(b, st, nil)
	require.NoError(t, err)
	dens, err := obs.ExpectationDensity(b, st.ToDensityMatrix(b), nil)
	require.NoError(t, err)
	assert.InDelta(t, pure[0], dens[0], 1e-10)
}

func TestBatchedExpectation(t *testing.T) {
	b := cpu.New()
	st, err := state.Random(1, state.WithBatchSize(3))
	require.NoError(t, err)
	vals, err := Z(0).Expectation(b, st, nil)
	require.NoError(t, err)
	require.Len(t, vals, 3)
	for i, v := range vals {
		assert.LessOrEqual(t, v, 1.0+1e-10, "batch %d", i)
		assert.GreaterOrEqual(t, v, -1.0-1e-10, "batch %d", i)
	}
}
