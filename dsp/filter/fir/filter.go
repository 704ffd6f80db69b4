package fir

import (
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-sigscan/dsp/conv"
)

// Filter applies real FIR coefficients to complex samples.
type Filter struct {
	coeffs []float64
}

// New creates a FIR filter from the given coefficient slice.
// The coefficients are copied.
func New(coeffs []float64) *Filter {
	c := make([]float64, len(coeffs))
	copy(c, coeffs)
	return &Filter{coeffs: c}
}

// ApplySame convolves x with the coefficients and returns len(x) samples
// centered on the full convolution, so a symmetric filter introduces no
// delay.
func (f *Filter) ApplySame(x []complex128) ([]complex128, error) {
	return conv.ConvolveMode(x, f.coeffs, conv.ModeSame)
}

// Response computes the complex frequency response at normalized frequency
// freq (cycles per sample).
func (f *Filter) Response(freq float64) complex128 {
	w := 2 * math.Pi * freq
	var h complex128
	for k, c := range f.coeffs {
		h += complex(c, 0) * cmplx.Exp(complex(0, -w*float64(k)))
	}
	return h
}

// MagnitudeDB returns the magnitude response in dB at normalized frequency freq.
func (f *Filter) MagnitudeDB(freq float64) float64 {
	return 20 * math.Log10(cmplx.Abs(f.Response(freq)))
}
