package fir

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-sigscan/dsp/window"
)

func TestLowpassProperties(t *testing.T) {
	h, err := Lowpass(283, 0.1, 1)
	if err != nil {
		t.Fatalf("Lowpass error: %v", err)
	}
	if len(h) != 283 {
		t.Fatalf("len = %d, want 283", len(h))
	}

	sum := 0.0
	for i, v := range h {
		sum += v
		if math.Abs(v-h[len(h)-1-i]) > 1e-15 {
			t.Fatalf("coefficients not symmetric at %d", i)
		}
	}
	if math.Abs(sum-1) > 1e-12 {
		t.Fatalf("DC gain = %v, want 1", sum)
	}

	f := New(h)
	if g := cmplx.Abs(f.Response(0.1)); math.Abs(g-0.5) > 0.02 {
		t.Fatalf("gain at cutoff = %v, want ~0.5", g)
	}
	if g := cmplx.Abs(f.Response(0.05)); math.Abs(g-1) > 5e-3 {
		t.Fatalf("passband gain = %v, want ~1", g)
	}
	if db := f.MagnitudeDB(0.2); db > -45 {
		t.Fatalf("stopband attenuation %v dB, want < -45 dB", db)
	}
}

func TestLowpassNearNyquist(t *testing.T) {
	// A full-band extraction uses a sample rate slightly above one so the
	// cutoff of 0.5 stays below Nyquist.
	h, err := Lowpass(283, 0.5, 1+1e-6)
	if err != nil {
		t.Fatalf("Lowpass error: %v", err)
	}
	if math.Abs(h[141]-1) > 1e-3 {
		t.Fatalf("center tap = %v, want ~1 for an all-pass design", h[141])
	}
}

func TestLowpassWindowOption(t *testing.T) {
	hamming, err := Lowpass(63, 0.1, 1)
	if err != nil {
		t.Fatalf("Lowpass error: %v", err)
	}
	blackman, err := Lowpass(63, 0.1, 1, WithWindow(window.TypeBlackman))
	if err != nil {
		t.Fatalf("Lowpass error: %v", err)
	}
	if hamming[0] == blackman[0] {
		t.Fatal("window option had no effect")
	}
}

func TestLowpassErrors(t *testing.T) {
	if _, err := Lowpass(0, 0.1, 1); !errors.Is(err, ErrInvalidTaps) {
		t.Fatalf("expected ErrInvalidTaps, got %v", err)
	}
	for _, cutoff := range []float64{0, -0.1, 0.5, math.NaN()} {
		if _, err := Lowpass(11, cutoff, 1); !errors.Is(err, ErrInvalidCutoff) {
			t.Fatalf("cutoff %v: expected ErrInvalidCutoff, got %v", cutoff, err)
		}
	}
}
