package model

import (
	"math"
	"testing"
)

func TestParseTransform(t *testing.T) {
	tr, ok := ParseTransform("1 0 0 0 1 0 0 0 1 10 20 30")
	if !ok {
		t.Fatal("valid transform rejected")
	}
	if tr[9] != 10 || tr[10] != 20 || tr[11] != 30 {
		t.Errorf("translation = %v %v %v, want 10 20 30", tr[9], tr[10], tr[11])
	}
}

func TestParseTransformRejections(t *testing.T) {
	cases := []struct {
		name  string
		value string
	}{
		{"too few values", "1 0 0 0 1 0 0 0 1 10 20"},
		{"too many values", "1 0 0 0 1 0 0 0 1 10 20 30 40"},
		{"non-numeric", "1 0 0 0 x 0 0 0 1 0 0 0"},
		{"nan", "1 0 0 0 NaN 0 0 0 1 0 0 0"},
		{"infinite", "1 0 0 0 +Inf 0 0 0 1 0 0 0"},
		{"singular", "1 0 0 2 0 0 3 0 0 0 0 0"},
		{"all zero", "0 0 0 0 0 0 0 0 0 0 0 0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, ok := ParseTransform(tc.value); ok {
				t.Errorf("ParseTransform(%q) accepted, want rejection", tc.value)
			}
		})
	}
}

func TestTransformApply(t *testing.T) {
	tr := Identity()
	tr[9], tr[10], tr[11] = 5, -3, 2
	got := tr.Apply(Vertex{X: 1, Y: 2, Z: 3})
	want := Vertex{X: 6, Y: -1, Z: 5}
	if got != want {
		t.Errorf("Apply = %+v, want %+v", got, want)
	}
}

func TestTransformMulComposition(t *testing.T) {
	scale := Transform{2, 0, 0, 0, 2, 0, 0, 0, 2, 0, 0, 0}
	translate := Identity()
	translate[9] = 10

	// Mul applies u first, then t: scaling after translating.
	composed := scale.Mul(translate)
	v := composed.Apply(Vertex{X: 1, Y: 0, Z: 0})
	if v.X != 12 {
		t.Errorf("composed X = %v, want 12", v.X)
	}
}

func TestTransformRoundTrip(t *testing.T) {
	tr, ok := ParseTransform("0.5 0 0 0 0.25 0 0 0 4 1.5 -2 0.001")
	if !ok {
		t.Fatal("valid transform rejected")
	}
	back, ok := ParseTransform(tr.String())
	if !ok {
		t.Fatalf("String() output %q did not parse", tr.String())
	}
	if back != tr {
		t.Errorf("round trip changed transform: %v -> %v", tr, back)
	}
}

func TestDeterminant(t *testing.T) {
	if d := Identity().Determinant(); d != 1 {
		t.Errorf("identity determinant = %v, want 1", d)
	}
	mirror := Transform{-1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0}
	if d := mirror.Determinant(); d != -1 {
		t.Errorf("mirror determinant = %v, want -1", d)
	}
}

func TestIsFinite(t *testing.T) {
	tr := Identity()
	if !tr.IsFinite() {
		t.Error("identity should be finite")
	}
	tr[4] = math.Inf(1)
	if tr.IsFinite() {
		t.Error("transform with +Inf should not be finite")
	}
}
