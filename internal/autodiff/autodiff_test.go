package autodiff_test

import (
	"math/cmplx"
	"testing"

	"github.com/ket-ml/ket/internal/autodiff"
	"github.com/ket-ml/ket/internal/backend/cpu"
	"github.com/ket-ml/ket/internal/tensor"
)

func TestAutodiffBackend_Name(t *testing.T) {
	backend := autodiff.New(cpu.New())
	if backend.Name() != "Autodiff(CPU)" {
		t.Errorf("Name() = %s, want Autodiff(CPU)", backend.Name())
	}
}

func TestAutodiffBackend_Device(t *testing.T) {
	backend := autodiff.New(cpu.New())
	if backend.Device() != tensor.CPU {
		t.Errorf("Device() = %v, want CPU", backend.Device())
	}
}

func TestTape_Recording(t *testing.T) {
	backend := autodiff.New(cpu.New())
	tape := backend.Tape()

	if tape.IsRecording() {
		t.Error("tape should not be recording initially")
	}

	a := tensor.Ones(tensor.Shape{2}, tensor.Complex128, tensor.CPU)
	backend.Add(a, a)
	if tape.NumOps() != 0 {
		t.Error("operations should not be recorded while stopped")
	}

	tape.StartRecording()
	backend.Add(a, a)
	if tape.NumOps() != 1 {
		t.Errorf("NumOps = %d, want 1", tape.NumOps())
	}

	tape.StopRecording()
	backend.Add(a, a)
	if tape.NumOps() != 1 {
		t.Error("operations should not be recorded after stopping")
	}

	tape.Clear()
	if tape.NumOps() != 0 {
		t.Error("Clear should drop recorded operations")
	}
}

// d(x*x)/dx with the Wirtinger convention: the stored gradient of x for
// output x*x seeded with ones is 2 conj(x).
func TestBackward_Square(t *testing.T) {
	backend := autodiff.New(cpu.New())
	tape := backend.Tape()

	x, err := tensor.FromSlice([]complex128{3, -2i}, tensor.Shape{2}, tensor.CPU)
	if err != nil {
		t.Fatal(err)
	}

	tape.StartRecording()
	y := backend.Mul(x, x)
	tape.StopRecording()

	grads := autodiff.Backward(y, backend)
	g, ok := grads[x]
	if !ok {
		t.Fatal("no gradient for input")
	}
	want := []complex128{6, 4i} // 2*conj(x)
	for i, w := range want {
		if cmplx.Abs(g.At(i)-w) > 1e-9 {
			t.Errorf("grad[%d] = %v, want %v", i, g.At(i), w)
		}
	}
}

func TestBackward_MulScalar(t *testing.T) {
	backend := autodiff.New(cpu.New())
	tape := backend.Tape()

	x, err := tensor.FromSlice([]complex128{1 + 1i}, tensor.Shape{1}, tensor.CPU)
	if err != nil {
		t.Fatal(err)
	}

	tape.StartRecording()
	y := backend.MulScalar(x, 2i)
	tape.StopRecording()

	grads := autodiff.Backward(y, backend)
	g := grads[x]
	if g == nil {
		t.Fatal("no gradient for input")
	}
	// grad = seed * conj(scalar) = -2i
	if cmplx.Abs(g.At(0)-(-2i)) > 1e-9 {
		t.Errorf("grad = %v, want -2i", g.At(0))
	}
}

func TestBackward_MulTwoInputs(t *testing.T) {
	backend := autodiff.New(cpu.New())
	tape := backend.Tape()

	// Backward for a product consumes the seed gradient twice, once per
	// operand; the first use must leave the seed intact for the second.
	x, err := tensor.FromSlice([]complex128{3}, tensor.Shape{1}, tensor.CPU)
	if err != nil {
		t.Fatal(err)
	}
	w, err := tensor.FromSlice([]complex128{2i}, tensor.Shape{1}, tensor.CPU)
	if err != nil {
		t.Fatal(err)
	}

	tape.StartRecording()
	y := backend.Mul(x, w)
	tape.StopRecording()

	grads := autodiff.Backward(y, backend)
	if g := grads[x]; g == nil || cmplx.Abs(g.At(0)-(-2i)) > 1e-9 {
		t.Errorf("grad x = %v, want conj(w) = -2i", g)
	}
	if g := grads[w]; g == nil || cmplx.Abs(g.At(0)-3) > 1e-9 {
		t.Errorf("grad w = %v, want conj(x) = 3", g)
	}
}

func TestBackward_SharedInputAccumulates(t *testing.T) {
	backend := autodiff.New(cpu.New())
	tape := backend.Tape()

	x, err := tensor.FromSlice([]complex128{1}, tensor.Shape{1}, tensor.CPU)
	if err != nil {
		t.Fatal(err)
	}

	tape.StartRecording()
	y := backend.Add(x, x)
	tape.StopRecording()

	grads := autodiff.Backward(y, backend)
	if g := grads[x]; g == nil || cmplx.Abs(g.At(0)-2) > 1e-9 {
		t.Errorf("shared input gradient = %v, want 2", g)
	}
}

func TestBackward_BatchMatMul(t *testing.T) {
	base := cpu.New()
	backend := autodiff.New(base)
	tape := backend.Tape()

	a, err := tensor.FromSlice([]complex128{1, 2i, 3, 4}, tensor.Shape{1, 2, 2}, tensor.CPU)
	if err != nil {
		t.Fatal(err)
	}
	b, err := tensor.FromSlice([]complex128{1, 0, 0, 1i}, tensor.Shape{1, 2, 2}, tensor.CPU)
	if err != nil {
		t.Fatal(err)
	}

	tape.StartRecording()
	y := backend.BatchMatMul(a, b)
	tape.StopRecording()

	grads := autodiff.Backward(y, backend)

	// gradA = seed @ B-dagger with seed all ones.
	bDag := base.Conj(base.Transpose(b, 0, 2, 1))
	seed := tensor.Ones(tensor.Shape{1, 2, 2}, tensor.Complex128, tensor.CPU)
	wantA := base.BatchMatMul(seed, bDag)
	gA := grads[a]
	if gA == nil {
		t.Fatal("no gradient for a")
	}
	for i := 0; i < 4; i++ {
		if cmplx.Abs(gA.At(i)-wantA.At(i)) > 1e-9 {
			t.Errorf("gradA[%d] = %v, want %v", i, gA.At(i), wantA.At(i))
		}
	}

	// gradB = A-dagger @ seed.
	aDag := base.Conj(base.Transpose(a, 0, 2, 1))
	wantB := base.BatchMatMul(aDag, seed)
	gB := grads[b]
	if gB == nil {
		t.Fatal("no gradient for b")
	}
	for i := 0; i < 4; i++ {
		if cmplx.Abs(gB.At(i)-wantB.At(i)) > 1e-9 {
			t.Errorf("gradB[%d] = %v, want %v", i, gB.At(i), wantB.At(i))
		}
	}
}
