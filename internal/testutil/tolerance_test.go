package testutil

import (
	"math"
	"math/cmplx"
	"testing"
)

func TestMaxAbsDiff(t *testing.T) {
	a := []float64{1.0, 2.0, 3.0}
	b := []float64{1.0, 2.1, 3.0}

	d, err := MaxAbsDiff(a, b)
	if err != nil {
		t.Fatalf("MaxAbsDiff error: %v", err)
	}

	if math.Abs(d-0.1) > 1e-15 {
		t.Fatalf("MaxAbsDiff = %v, want 0.1", d)
	}
}

func TestMaxAbsDiffLengthMismatch(t *testing.T) {
	if _, err := MaxAbsDiff([]float64{1}, []float64{1, 2}); err == nil {
		t.Fatal("expected error for length mismatch")
	}
	if _, err := MaxAbsDiffComplex([]complex128{1}, nil); err == nil {
		t.Fatal("expected error for complex length mismatch")
	}
}

func TestMaxAbsDiffComplex(t *testing.T) {
	d, err := MaxAbsDiffComplex([]complex128{1, 1i}, []complex128{1, 1i + 0.5})
	if err != nil {
		t.Fatalf("MaxAbsDiffComplex error: %v", err)
	}
	if d != 0.5 {
		t.Fatalf("MaxAbsDiffComplex = %v, want 0.5", d)
	}
}

func TestSceneDeterministic(t *testing.T) {
	burst := Burst{Start: 100, Length: 512, Center: 0.1, Bandwidth: 0.05, Power: 1}
	a := Scene(t, 7, 2048, 1e-4, burst)
	b := Scene(t, 7, 2048, 1e-4, burst)
	RequireComplexNearlyEqual(t, a, b, 0)

	var before, inside float64
	for i := range 100 {
		before += cmplx.Abs(a[i])
	}
	for i := 100; i < 200; i++ {
		inside += cmplx.Abs(a[i])
	}
	if inside < 10*before {
		t.Fatalf("burst not visible: floor %v, burst %v", before, inside)
	}
}
