package tensor

import (
	"testing"
)

func TestShapeNumElements(t *testing.T) {
	cases := []struct {
		shape Shape
		want  int
	}{
		{Shape{2, 3}, 6},
		{Shape{2, 2, 2, 4}, 32},
		{Shape{1}, 1},
		{Shape{}, 1},
	}
	for _, tc := range cases {
		if got := tc.shape.NumElements(); got != tc.want {
			t.Errorf("NumElements(%v) = %d, want %d", tc.shape, got, tc.want)
		}
	}
}

func TestQubitShape(t *testing.T) {
	if got := QubitShape(3, 5); !got.Equal(Shape{2, 2, 2, 5}) {
		t.Errorf("QubitShape(3, 5) = %v, want [2 2 2 5]", got)
	}
	if got := QubitShape(1, 1); !got.Equal(Shape{2, 1}) {
		t.Errorf("QubitShape(1, 1) = %v, want [2 1]", got)
	}
}

func TestDensityShape(t *testing.T) {
	got := DensityShape(2, 3)
	if !got.Equal(Shape{2, 2, 2, 2, 3}) {
		t.Errorf("DensityShape(2, 3) = %v, want [2 2 2 2 3]", got)
	}
	if got.NumElements() != 16*3 {
		t.Errorf("NumElements = %d, want 48", got.NumElements())
	}
}

func TestShapeValidate(t *testing.T) {
	if err := (Shape{2, 3}).Validate(); err != nil {
		t.Errorf("Validate(valid shape) = %v", err)
	}
	if err := (Shape{2, 0}).Validate(); err == nil {
		t.Error("Validate should reject zero dimension")
	}
	if err := (Shape{2, -1}).Validate(); err == nil {
		t.Error("Validate should reject negative dimension")
	}
}

func TestShapeEqualClone(t *testing.T) {
	a := Shape{2, 2, 3}
	b := a.Clone()
	if !a.Equal(b) {
		t.Error("clone should equal original")
	}
	b[0] = 7
	if a[0] == 7 {
		t.Error("clone should not share storage")
	}
	if a.Equal(Shape{2, 2}) {
		t.Error("shapes of different rank should not be equal")
	}
}

func TestComputeStrides(t *testing.T) {
	strides := Shape{2, 3, 4}.ComputeStrides()
	want := []int{12, 4, 1}
	for i := range want {
		if strides[i] != want[i] {
			t.Errorf("ComputeStrides = %v, want %v", strides, want)
			break
		}
	}
}

func TestBroadcastShapes(t *testing.T) {
	cases := []struct {
		a, b, want Shape
	}{
		{Shape{2, 2, 1}, Shape{2, 2, 5}, Shape{2, 2, 5}},
		{Shape{1, 1, 3}, Shape{4, 4, 3}, Shape{4, 4, 3}},
		{Shape{3}, Shape{2, 3}, Shape{2, 3}},
		{Shape{5}, Shape{5}, Shape{5}},
	}
	for _, tc := range cases {
		got, _, err := BroadcastShapes(tc.a, tc.b)
		if err != nil {
			t.Errorf("BroadcastShapes(%v, %v) error: %v", tc.a, tc.b, err)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("BroadcastShapes(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}

	if _, _, err := BroadcastShapes(Shape{2, 3}, Shape{2, 4}); err == nil {
		t.Error("BroadcastShapes should reject incompatible shapes")
	}
}
