package fir

import (
	"math"
	"math/cmplx"
	"testing"
)

const eps = 1e-12

func TestNewCopiesCoefficients(t *testing.T) {
	coeffs := []float64{0.25, 0.5, 0.25}
	f := New(coeffs)
	coeffs[0] = 999
	if f.coeffs[0] != 0.25 {
		t.Fatal("New did not copy coefficients")
	}
}

func TestApplySameMovingAverage(t *testing.T) {
	f := New([]float64{1.0 / 3, 1.0 / 3, 1.0 / 3})
	y, err := f.ApplySame([]complex128{3, 3i, 3, 3i})
	if err != nil {
		t.Fatalf("ApplySame error: %v", err)
	}
	want := []complex128{1 + 1i, 2 + 1i, 1 + 2i, 1 + 1i}
	for i := range want {
		if cmplx.Abs(y[i]-want[i]) > eps {
			t.Fatalf("index %d: got %v want %v", i, y[i], want[i])
		}
	}
}

func TestApplySameRemovesDelay(t *testing.T) {
	h, err := Lowpass(31, 0.2, 1)
	if err != nil {
		t.Fatalf("Lowpass error: %v", err)
	}
	f := New(h)

	x := make([]complex128, 200)
	for i := range x {
		s, c := math.Sincos(2 * math.Pi * 0.02 * float64(i))
		x[i] = complex(c, s)
	}

	y, err := f.ApplySame(x)
	if err != nil {
		t.Fatalf("ApplySame error: %v", err)
	}
	if len(y) != len(x) {
		t.Fatalf("len = %d, want %d", len(y), len(x))
	}
	// Away from the edges a passband tone comes through unchanged.
	for i := 40; i < 160; i++ {
		if cmplx.Abs(y[i]-x[i]) > 5e-3 {
			t.Fatalf("index %d: got %v want %v", i, y[i], x[i])
		}
	}
}

func TestResponse_DCGain(t *testing.T) {
	f := New([]float64{0.25, 0.5, 0.25})
	if got := cmplx.Abs(f.Response(0)); math.Abs(got-1) > eps {
		t.Fatalf("DC gain = %v, want 1", got)
	}
	if got := cmplx.Abs(f.Response(0.5)); got > eps {
		t.Fatalf("Nyquist gain = %v, want 0", got)
	}
	if db := f.MagnitudeDB(0); math.Abs(db) > 1e-9 {
		t.Fatalf("MagnitudeDB(0) = %v, want 0", db)
	}
}
