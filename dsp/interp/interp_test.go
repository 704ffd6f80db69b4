package interp

import (
	"errors"
	"math/cmplx"
	"testing"
)

func TestComplexPredict(t *testing.T) {
	var c Complex
	if err := c.Fit([]float64{0, 2, 4}, []complex128{0, 2 + 2i, 2 - 2i}); err != nil {
		t.Fatalf("Fit error: %v", err)
	}

	for _, tc := range []struct {
		x    float64
		want complex128
	}{
		{x: 1, want: 1 + 1i},
		{x: 3, want: 2},
		{x: -5, want: 0},
		{x: 9, want: 2 - 2i},
	} {
		if got := c.Predict(tc.x); cmplx.Abs(got-tc.want) > 1e-12 {
			t.Fatalf("Predict(%v) = %v, want %v", tc.x, got, tc.want)
		}
	}
}

func TestFitErrors(t *testing.T) {
	var c Complex
	if err := c.Fit([]float64{1}, []complex128{1}); !errors.Is(err, ErrTooFewKnots) {
		t.Fatalf("single knot error = %v, want ErrTooFewKnots", err)
	}
	if err := c.Fit([]float64{1, 2}, []complex128{1}); err == nil {
		t.Fatal("expected length mismatch error")
	}
}

func TestLinearAtSingleKnot(t *testing.T) {
	got, err := LinearAt([]float64{3}, []complex128{5i}, 0)
	if err != nil || got != 5i {
		t.Fatalf("LinearAt = %v, %v; want 5i", got, err)
	}
}

func TestDespikeRemovesImpulse(t *testing.T) {
	x := make([]complex128, 100)
	for i := range x {
		x[i] = complex(float64(i)*0.01, 0)
	}
	x[50] = 100

	// 1% of 100 samples: only the impulse is replaced.
	if err := Despike(x, 0.01, 20); err != nil {
		t.Fatalf("Despike error: %v", err)
	}
	if cmplx.Abs(x[50]-0.5) > 1e-12 {
		t.Fatalf("x[50] = %v, want 0.5 on the ramp", x[50])
	}
	if x[49] != 0.49 || x[51] != 0.51 {
		t.Fatalf("neighbours changed: %v %v", x[49], x[51])
	}
}

func TestDespikeValidation(t *testing.T) {
	if err := Despike(make([]complex128, 4), 1, 20); err == nil {
		t.Fatal("expected error for fraction 1")
	}
	if err := Despike(make([]complex128, 4), 0.1, 0); err == nil {
		t.Fatal("expected error for zero radius")
	}
}
