package gates

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ket-ml/ket/internal/backend/cpu"
	"github.com/ket-ml/ket/internal/tensor"
	"github.com/ket-ml/ket/params"
	"github.com/ket-ml/ket/state"
)

func TestPauliXFlipsZero(t *testing.T) {
	b := cpu.New()
	st, err := state.Zero(1)
	require.NoError(t, err)

	out, err := X(0).Apply(b, st, nil)
	require.NoError(t, err)

	assert.InDelta(t, 0, cmplx.Abs(out.Amplitude(0, 0)), 1e-12)
	assert.InDelta(t, 1, cmplx.Abs(out.Amplitude(1, 0)), 1e-12)
}

func TestHadamardSuperposition(t *testing.T) {
	b := cpu.New()
	st, err := state.Zero(1)
	require.NoError(t, err)

	out, err := H(0).Apply(b, st, nil)
	require.NoError(t, err)

	want := complex(1/math.Sqrt2, 0)
	assert.InDelta(t, real(want), real(out.Amplitude(0, 0)), 1e-12)
	assert.InDelta(t, real(want), real(out.Amplitude(1, 0)), 1e-12)
}

func TestCNOTTruthTable(t *testing.T) {
	b := cpu.New()
	cases := []struct {
		in, out string
	}{
		{"00", "00"},
		{"01", "01"},
		{"10", "11"},
		{"11", "10"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			st, err := state.Product(tc.in)
			require.NoError(t, err)

			got, err := CNOT(0, 1).Apply(b, st, nil)
			require.NoError(t, err)

			wantIdx := bitIndex(tc.out)
			for idx := 0; idx < 4; idx++ {
				want := 0.0
				if idx == wantIdx {
					want = 1.0
				}
				assert.InDelta(t, want, cmplx.Abs(got.Amplitude(idx, 0)), 1e-12, "amplitude %d", idx)
			}
		})
	}
}

func TestCNOTReversedSupport(t *testing.T) {
	b := cpu.New()
	// Control on qubit 1: |01> (qubit 1 set) flips qubit 0.
	st, err := state.Product("01")
	require.NoError(t, err)

	got, err := CNOT(1, 0).Apply(b, st, nil)
	require.NoError(t, err)

	assert.InDelta(t, 1, cmplx.Abs(got.Amplitude(bitIndex("11"), 0)), 1e-12)
}

func TestDaggerRoundTrip(t *testing.T) {
	b := cpu.New()
	store := params.NewStore()
	store.SetScalar("theta", 0.7)

	ops := []Operator{X(0), H(0), S(0), T(0), RX(0, "theta"), CRZ(0, 1, "theta")}
	for _, op := range ops {
		st, err := state.Random(2)
		require.NoError(t, err)

		mid, err := op.Apply(b, st, store)
		require.NoError(t, err)

		dag, err := op.Dagger(b, store, st.DType())
		require.NoError(t, err)
		back, err := ApplyUnitary(b, dag, op.Support(), mid)
		require.NoError(t, err)

		ov, err := st.Overlap(back)
		require.NoError(t, err)
		assert.InDelta(t, 1, cmplx.Abs(ov[0]), 1e-10, "round trip through %v", op)
	}
}

func TestRXMatchesClosedForm(t *testing.T) {
	b := cpu.New()
	theta := 1.234
	store := params.NewStore()
	store.SetScalar("theta", theta)

	u, err := RX(0, "theta").Unitary(b, store, tensor.Complex128)
	require.NoError(t, err)
	require.Equal(t, tensor.Shape{2, 2, 1}, u.Shape())

	c := complex(math.Cos(theta/2), 0)
	s := complex(0, -math.Sin(theta/2))
	want := []complex128{c, s, s, c}
	for i, w := range want {
		assert.InDelta(t, 0, cmplx.Abs(u.At(i)-w), 1e-12, "entry %d", i)
	}
}

func TestBatchedParameterBroadcast(t *testing.T) {
	b := cpu.New()
	thetas := []float64{0.1, 0.9, 2.5}
	store := params.NewStore()
	store.Set("theta", thetas)

	st, err := state.Zero(1)
	require.NoError(t, err)
	out, err := RY(0, "theta").Apply(b, st, store)
	require.NoError(t, err)
	require.Equal(t, 3, out.BatchSize())

	for i, theta := range thetas {
		single := params.NewStore()
		single.SetScalar("theta", theta)
		base, err := state.Zero(1)
		require.NoError(t, err)
		want, err := RY(0, "theta").Apply(b, base, single)
		require.NoError(t, err)

		for idx := 0; idx < 2; idx++ {
			assert.InDelta(t, 0, cmplx.Abs(out.Amplitude(idx, i)-want.Amplitude(idx, 0)), 1e-12,
				"batch %d amplitude %d", i, idx)
		}
	}
}

func TestJacobianMatchesFiniteDifference(t *testing.T) {
	b := cpu.New()
	const (
		theta = 0.8
		eps   = 1e-5
	)
	gs := []Parametric{RX(0, "p"), RY(0, "p"), RZ(0, "p"), Phase(0, "p"), CRX(0, 1, "p"), CPhase(0, 1, "p")}
	for _, g := range gs {
		store := params.NewStore()
		store.SetScalar("p", theta)
		jac, err := g.JacobianUnitary(b, store, tensor.Complex128, "p")
		require.NoError(t, err)

		plus := params.NewStore()
		plus.SetScalar("p", theta+eps)
		up, err := g.Unitary(b, plus, tensor.Complex128)
		require.NoError(t, err)

		minus := params.NewStore()
		minus.SetScalar("p", theta-eps)
		um, err := g.Unitary(b, minus, tensor.Complex128)
		require.NoError(t, err)

		for i := 0; i < jac.NumElements(); i++ {
			fd := (up.At(i) - um.At(i)) / complex(2*eps, 0)
			assert.InDelta(t, 0, cmplx.Abs(jac.At(i)-fd), 1e-7, "%v entry %d", g, i)
		}
	}
}

func TestProjectorReconstructsGate(t *testing.T) {
	b := cpu.New()
	// X = |0><1| + |1><0|.
	p01, err := Projector("0", "1", 0)
	require.NoError(t, err)
	p10, err := Projector("1", "0", 0)
	require.NoError(t, err)

	u01, err := p01.Unitary(b, nil, tensor.Complex128)
	require.NoError(t, err)
	u10, err := p10.Unitary(b, nil, tensor.Complex128)
	require.NoError(t, err)
	sum := b.Add(u01, u10)

	x, err := X(0).Unitary(b, nil, tensor.Complex128)
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		assert.InDelta(t, 0, cmplx.Abs(sum.At(i)-x.At(i)), 1e-12)
	}
}

func TestApplyErrorKinds(t *testing.T) {
	b := cpu.New()
	st, err := state.Zero(2)
	require.NoError(t, err)

	_, err = X(5).Apply(b, st, nil)
	assert.ErrorIs(t, err, state.ErrIndex)

	_, err = CNOT(1, 1).Apply(b, st, nil)
	assert.ErrorIs(t, err, state.ErrIndex)

	_, err = RX(0, "missing").Apply(b, st, params.NewStore())
	assert.ErrorIs(t, err, params.ErrUnknownParameter)

	// 4x4 matrix on a single-qubit support.
	u := tensor.Zeros(tensor.Shape{4, 4, 1}, tensor.Complex128, tensor.CPU)
	_, err = ApplyUnitary(b, u, []int{0}, st)
	assert.ErrorIs(t, err, state.ErrShape)

	// Batch 2 operator vs batch 3 state.
	st3, err := state.Zero(1, state.WithBatchSize(3))
	require.NoError(t, err)
	u2 := tensor.Zeros(tensor.Shape{2, 2, 2}, tensor.Complex128, tensor.CPU)
	_, err = ApplyUnitary(b, u2, []int{0}, st3)
	assert.ErrorIs(t, err, state.ErrBatchMismatch)
}

func TestDensityAgreesWithPureEvolution(t *testing.T) {
	b := cpu.New()
	st, err := state.Random(2)
	require.NoError(t, err)
	ops := []Operator{H(0), CNOT(0, 1), Y(1)}

	pure := st
	rho := st.ToDensityMatrix(b)
	for _, op := range ops {
		pure, err = op.Apply(b, pure, nil)
		require.NoError(t, err)
		rho, err = ApplyDensity(b, op, rho, nil)
		require.NoError(t, err)
	}

	want := pure.ToDensityMatrix(b)
	got, wantRaw := rho.Tensor(), want.Tensor()
	require.Equal(t, wantRaw.Shape(), got.Shape())
	for i := 0; i < got.NumElements(); i++ {
		assert.InDelta(t, 0, cmplx.Abs(got.At(i)-wantRaw.At(i)), 1e-10, "entry %d", i)
	}
}

func TestBitFlipChannel(t *testing.T) {
	b := cpu.New()
	rho, err := state.ZeroDensity(1)
	require.NoError(t, err)
	ch, err := BitFlip(0, 0.3)
	require.NoError(t, err)

	out, err := ApplyKraus(b, ch, rho)
	require.NoError(t, err)

	raw := out.Tensor()
	assert.InDelta(t, 0.7, real(raw.At(0)), 1e-12) // <0|rho|0>
	assert.InDelta(t, 0.3, real(raw.At(3)), 1e-12) // <1|rho|1>
	assert.InDelta(t, 1, real(out.Trace()[0]), 1e-12)
}

func TestNoiseProbabilityValidation(t *testing.T) {
	_, err := BitFlip(0, -0.1)
	assert.Error(t, err)
	_, err = Depolarizing(0, 1.5)
	assert.Error(t, err)
}

func TestAnonymousParameterNamesAreUnique(t *testing.T) {
	a := RX(0, "")
	b := RX(0, "")
	require.Len(t, a.ParamNames(), 1)
	assert.NotEmpty(t, a.ParamNames()[0])
	assert.NotEqual(t, a.ParamNames()[0], b.ParamNames()[0])
}
