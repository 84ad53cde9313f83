package mathutil

import (
	"math"
	"math/rand"
	"testing"
)

func TestWrapExamples(t *testing.T) {
	tests := []struct {
		min, max, v, want float64
	}{
		{0, 4, 5, 1},
		{0, 4, -1, 3},
		{0, 4, 2, 2},
		{0, 4, 0, 0},
		{0, 4, 4, 0},
		{0, 4, -4, 0},
		{-2, 2, 3, -1},
		{1, 3, 0.5, 2.5},
	}
	for _, tt := range tests {
		if got := Wrap(tt.min, tt.max, tt.v); got != tt.want {
			t.Errorf("Wrap(%g, %g, %g) = %g, want %g", tt.min, tt.max, tt.v, got, tt.want)
		}
	}
}

func TestWrapRangeAndCongruence(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 5000; i++ {
		min := rng.Float64()*200 - 100
		max := min + 0.01 + rng.Float64()*50
		v := rng.Float64()*20000 - 10000
		got := Wrap(min, max, v)
		if got < min || got >= max {
			t.Fatalf("Wrap(%g, %g, %g) = %g outside range", min, max, v, got)
		}
		k := (got - v) / (max - min)
		if math.Abs(k-math.Round(k)) > 1e-6 {
			t.Fatalf("Wrap(%g, %g, %g) = %g not congruent (k=%g)", min, max, v, got, k)
		}
	}
}

func TestWrapTinyNegativeStaysInRange(t *testing.T) {
	got := Wrap(0, 4, -1e-18)
	if got < 0 || got >= 4 {
		t.Fatalf("Wrap(0, 4, -1e-18) = %g outside [0, 4)", got)
	}
}

func TestWrapEmptyRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for empty range")
		}
	}()
	Wrap(2, 2, 1)
}

func TestWrapInt(t *testing.T) {
	tests := []struct{ min, max, v, want int }{
		{0, 4, 5, 1},
		{0, 4, -1, 3},
		{0, 4, -8, 0},
		{0, 4, 2, 2},
		{0, 1, 99, 0},
		{3, 6, 2, 5},
	}
	for _, tt := range tests {
		if got := WrapInt(tt.min, tt.max, tt.v); got != tt.want {
			t.Errorf("WrapInt(%d, %d, %d) = %d, want %d", tt.min, tt.max, tt.v, got, tt.want)
		}
	}
}

func TestWrapIntEmptyRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for empty range")
		}
	}()
	WrapInt(0, 0, 1)
}

func TestClampLerpDamp(t *testing.T) {
	if got := Clamp(5, 0, 1); got != 1 {
		t.Errorf("Clamp high = %g", got)
	}
	if got := Clamp(-5, 0, 1); got != 0 {
		t.Errorf("Clamp low = %g", got)
	}
	if got := Lerp(2, 4, 0.5); got != 3 {
		t.Errorf("Lerp = %g", got)
	}
	if got := Damp(0, 10, 0.1); got != 1 {
		t.Errorf("Damp = %g", got)
	}
}

func TestVec2(t *testing.T) {
	v := Vec2{3, -4}
	if got := v.MaxAbs(); got != 4 {
		t.Errorf("MaxAbs = %g", got)
	}
	if !v.IsFinite() {
		t.Error("expected finite")
	}
	if (Vec2{math.NaN(), 0}).IsFinite() {
		t.Error("NaN reported finite")
	}
	if got := v.Add(Vec2{1, 1}).Scale(2); got != (Vec2{8, -6}) {
		t.Errorf("Add/Scale = %v", got)
	}
}
