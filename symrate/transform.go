package symrate

import (
	"fmt"
	"math/cmplx"

	"github.com/cwbudde/algo-sigscan/dsp/fft"
	"github.com/cwbudde/algo-sigscan/dsp/spectrum"
)

// Transform returns |FFT(|diff(atan(x))|)|, of length len(x)-1. Symbol
// transitions show up as lines at the symbol rate and its harmonics.
func Transform(x []complex128) ([]float64, error) {
	if len(x) < 2 {
		return nil, fmt.Errorf("%w: %d samples", ErrTooShort, len(x))
	}

	d := make([]complex128, len(x)-1)
	prev := cmplx.Atan(x[0])
	for i := 1; i < len(x); i++ {
		cur := cmplx.Atan(x[i])
		d[i-1] = complex(cmplx.Abs(cur-prev), 0)
		prev = cur
	}

	spec, err := fft.Forward(d)
	if err != nil {
		return nil, err
	}
	return spectrum.Magnitude(spec), nil
}

// shiftIQ delays the imaginary part of x by w samples, dropping w samples.
func shiftIQ(x []complex128, w int) []complex128 {
	if w == 0 {
		return x
	}
	out := make([]complex128, len(x)-w)
	for i := range out {
		out[i] = complex(real(x[i]), imag(x[i+w]))
	}
	return out
}

// central returns the middle min(len(x), m) samples of x.
func central(x []complex128, m int) []complex128 {
	if len(x) <= m {
		return x
	}
	start := (len(x) - m) / 2
	return x[start : start+m]
}
