package cpu

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/ket-ml/ket/internal/tensor"
)

// Helper to check complex slices are equal within epsilon.
func complexSliceEqual(a, b []complex128) bool {
	const epsilon = 1e-9
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if cmplx.Abs(a[i]-b[i]) > epsilon {
			return false
		}
	}
	return true
}

func fromVals(t *testing.T, vals []complex128, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.FromSlice(vals, shape, tensor.CPU)
	if err != nil {
		t.Fatalf("FromSlice error: %v", err)
	}
	return raw
}

func vals(raw *tensor.RawTensor) []complex128 {
	out := make([]complex128, raw.NumElements())
	for i := range out {
		out[i] = raw.At(i)
	}
	return out
}

func TestCPUBackend_New(t *testing.T) {
	backend := New()
	if backend == nil {
		t.Fatal("New() returned nil")
	}
	if backend.Name() != "CPU" {
		t.Errorf("Name = %q, want CPU", backend.Name())
	}
	if backend.Device() != tensor.CPU {
		t.Errorf("Device = %v, want CPU", backend.Device())
	}
}

func TestCPUBackend_Add(t *testing.T) {
	backend := New()
	a := fromVals(t, []complex128{1, 2i, 3, 4}, tensor.Shape{2, 2})
	b := fromVals(t, []complex128{1, 1, 1i, 1}, tensor.Shape{2, 2})

	got := vals(backend.Add(a, b))
	want := []complex128{2, 1 + 2i, 3 + 1i, 5}
	if !complexSliceEqual(got, want) {
		t.Errorf("Add = %v, want %v", got, want)
	}
}

func TestCPUBackend_AddInplace(t *testing.T) {
	backend := New()
	a := fromVals(t, []complex128{1, 2i, 3, 4}, tensor.Shape{2, 2})
	b := fromVals(t, []complex128{1, 1, 1i, 1}, tensor.Shape{2, 2})

	got := backend.Add(a, b)
	if got != a {
		t.Error("Add with a unique same-shape operand should reuse a")
	}
	want := []complex128{2, 1 + 2i, 3 + 1i, 5}
	if !complexSliceEqual(vals(a), want) {
		t.Errorf("a after inplace Add = %v, want %v", vals(a), want)
	}
}

func TestCPUBackend_AddSharedOperandAllocates(t *testing.T) {
	backend := New()
	a := fromVals(t, []complex128{1, 2}, tensor.Shape{2})
	b := fromVals(t, []complex128{10, 20}, tensor.Shape{2})
	release := a.ForceNonUnique()
	defer release()

	got := backend.Add(a, b)
	if got == a {
		t.Error("Add must not write into a shared operand")
	}
	if !complexSliceEqual(vals(a), []complex128{1, 2}) {
		t.Errorf("a changed to %v, want [1 2]", vals(a))
	}
	if !complexSliceEqual(vals(got), []complex128{11, 22}) {
		t.Errorf("Add = %v, want [11 22]", vals(got))
	}
}

func TestCPUBackend_AddBroadcast(t *testing.T) {
	backend := New()
	a := fromVals(t, []complex128{1, 2, 3, 4}, tensor.Shape{2, 2, 1})
	b := fromVals(t, []complex128{10, 20}, tensor.Shape{1, 1, 2})

	got := backend.Add(a, b)
	if !got.Shape().Equal(tensor.Shape{2, 2, 2}) {
		t.Fatalf("broadcast shape = %v, want [2 2 2]", got.Shape())
	}
	want := []complex128{11, 21, 12, 22, 13, 23, 14, 24}
	if !complexSliceEqual(vals(got), want) {
		t.Errorf("Add broadcast = %v, want %v", vals(got), want)
	}
}

func TestCPUBackend_MulDivSub(t *testing.T) {
	backend := New()
	// Same-shape unique operands are consumed in place, so each op gets
	// a fresh left-hand side.
	src := []complex128{2, 4i, 6}
	b := fromVals(t, []complex128{2, 2, 3}, tensor.Shape{3})

	if got := vals(backend.Mul(fromVals(t, src, tensor.Shape{3}), b)); !complexSliceEqual(got, []complex128{4, 8i, 18}) {
		t.Errorf("Mul = %v", got)
	}
	if got := vals(backend.Div(fromVals(t, src, tensor.Shape{3}), b)); !complexSliceEqual(got, []complex128{1, 2i, 2}) {
		t.Errorf("Div = %v", got)
	}
	if got := vals(backend.Sub(fromVals(t, src, tensor.Shape{3}), b)); !complexSliceEqual(got, []complex128{0, -2 + 4i, 3}) {
		t.Errorf("Sub = %v", got)
	}
}

func TestCPUBackend_ScalarOps(t *testing.T) {
	backend := New()
	a := fromVals(t, []complex128{1, 2}, tensor.Shape{2})

	if got := vals(backend.MulScalar(a, 2i)); !complexSliceEqual(got, []complex128{2i, 4i}) {
		t.Errorf("MulScalar = %v", got)
	}
	if got := vals(backend.AddScalar(a, -1)); !complexSliceEqual(got, []complex128{0, 1}) {
		t.Errorf("AddScalar = %v", got)
	}
}

func TestCPUBackend_MatMul(t *testing.T) {
	backend := New()
	a := fromVals(t, []complex128{1, 2, 3, 4}, tensor.Shape{2, 2})
	b := fromVals(t, []complex128{0, 1, 1, 0}, tensor.Shape{2, 2})

	got := vals(backend.MatMul(a, b))
	want := []complex128{2, 1, 4, 3}
	if !complexSliceEqual(got, want) {
		t.Errorf("MatMul = %v, want %v", got, want)
	}
}

func TestCPUBackend_BatchMatMul(t *testing.T) {
	backend := New()
	// Two batches of 2x2 times one broadcast 2x2.
	a := fromVals(t, []complex128{
		1, 0, 0, 1, // identity
		0, 1, 1, 0, // swap
	}, tensor.Shape{2, 2, 2})
	b := fromVals(t, []complex128{1, 2, 3, 4}, tensor.Shape{1, 2, 2})

	got := backend.BatchMatMul(a, b)
	if !got.Shape().Equal(tensor.Shape{2, 2, 2}) {
		t.Fatalf("BatchMatMul shape = %v", got.Shape())
	}
	want := []complex128{1, 2, 3, 4, 3, 4, 1, 2}
	if !complexSliceEqual(vals(got), want) {
		t.Errorf("BatchMatMul = %v, want %v", vals(got), want)
	}
}

func TestCPUBackend_Kron(t *testing.T) {
	backend := New()
	// Z ⊗ X, batch 1.
	z := fromVals(t, []complex128{1, 0, 0, -1}, tensor.Shape{2, 2, 1})
	x := fromVals(t, []complex128{0, 1, 1, 0}, tensor.Shape{2, 2, 1})

	got := backend.Kron(z, x)
	if !got.Shape().Equal(tensor.Shape{4, 4, 1}) {
		t.Fatalf("Kron shape = %v", got.Shape())
	}
	want := []complex128{
		0, 1, 0, 0,
		1, 0, 0, 0,
		0, 0, 0, -1,
		0, 0, -1, 0,
	}
	if !complexSliceEqual(vals(got), want) {
		t.Errorf("Kron = %v, want %v", vals(got), want)
	}
}

func TestCPUBackend_Transpose(t *testing.T) {
	backend := New()
	a := fromVals(t, []complex128{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	got := backend.Transpose(a, 1, 0)
	if !got.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("Transpose shape = %v", got.Shape())
	}
	want := []complex128{1, 4, 2, 5, 3, 6}
	if !complexSliceEqual(vals(got), want) {
		t.Errorf("Transpose = %v, want %v", vals(got), want)
	}

	// Default reverses all axes.
	rev := backend.Transpose(a)
	if !rev.Shape().Equal(tensor.Shape{3, 2}) {
		t.Errorf("Transpose() shape = %v", rev.Shape())
	}
}

func TestCPUBackend_ReshapeCatNarrowExpand(t *testing.T) {
	backend := New()
	a := fromVals(t, []complex128{1, 2, 3, 4}, tensor.Shape{2, 2})

	r := backend.Reshape(a, tensor.Shape{4})
	if !r.Shape().Equal(tensor.Shape{4}) {
		t.Errorf("Reshape shape = %v", r.Shape())
	}

	c := backend.Cat([]*tensor.RawTensor{a, a}, 0)
	if !c.Shape().Equal(tensor.Shape{4, 2}) {
		t.Errorf("Cat shape = %v", c.Shape())
	}
	if !complexSliceEqual(vals(c), []complex128{1, 2, 3, 4, 1, 2, 3, 4}) {
		t.Errorf("Cat = %v", vals(c))
	}

	n := backend.Narrow(c, 0, 1, 2)
	if !n.Shape().Equal(tensor.Shape{2, 2}) {
		t.Errorf("Narrow shape = %v", n.Shape())
	}
	if !complexSliceEqual(vals(n), []complex128{3, 4, 1, 2}) {
		t.Errorf("Narrow = %v", vals(n))
	}

	e := backend.Expand(fromVals(t, []complex128{7, 8}, tensor.Shape{1, 2}), tensor.Shape{3, 2})
	if !complexSliceEqual(vals(e), []complex128{7, 8, 7, 8, 7, 8}) {
		t.Errorf("Expand = %v", vals(e))
	}
}

func TestCPUBackend_MathOps(t *testing.T) {
	backend := New()
	a := fromVals(t, []complex128{1 + 1i, -2i}, tensor.Shape{2})

	if got := vals(backend.Conj(a)); !complexSliceEqual(got, []complex128{1 - 1i, 2i}) {
		t.Errorf("Conj = %v", got)
	}

	x := fromVals(t, []complex128{0, complex(math.Pi, 0)}, tensor.Shape{2})
	if got := vals(backend.Cos(x)); !complexSliceEqual(got, []complex128{1, -1}) {
		t.Errorf("Cos = %v", got)
	}
	if got := vals(backend.Sin(x)); !complexSliceEqual(got, []complex128{0, 0}) {
		t.Errorf("Sin = %v", got)
	}
	if got := vals(backend.Exp(fromVals(t, []complex128{0}, tensor.Shape{1}))); !complexSliceEqual(got, []complex128{1}) {
		t.Errorf("Exp = %v", got)
	}
	if got := vals(backend.Sqrt(fromVals(t, []complex128{4}, tensor.Shape{1}))); !complexSliceEqual(got, []complex128{2}) {
		t.Errorf("Sqrt = %v", got)
	}
}

func TestCPUBackend_Reductions(t *testing.T) {
	backend := New()
	a := fromVals(t, []complex128{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	s := backend.Sum(a)
	if s.At(0) != 21 {
		t.Errorf("Sum = %v, want 21", s.At(0))
	}

	d := backend.SumDim(a, 0, false)
	if !d.Shape().Equal(tensor.Shape{3}) {
		t.Fatalf("SumDim shape = %v", d.Shape())
	}
	if !complexSliceEqual(vals(d), []complex128{5, 7, 9}) {
		t.Errorf("SumDim = %v", vals(d))
	}

	k := backend.SumDim(a, 1, true)
	if !k.Shape().Equal(tensor.Shape{2, 1}) {
		t.Errorf("SumDim keepDim shape = %v", k.Shape())
	}

	m := fromVals(t, []complex128{1, 2, 0, 0, 0, 0, 3, 4}, tensor.Shape{2, 2, 2})
	tr := backend.Trace(m)
	if !tr.Shape().Equal(tensor.Shape{2}) {
		t.Fatalf("Trace shape = %v", tr.Shape())
	}
	if !complexSliceEqual(vals(tr), []complex128{4, 6}) {
		t.Errorf("Trace = %v", vals(tr))
	}
}
