package symrate

import (
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-sigscan/dsp/fft"
	"github.com/cwbudde/algo-sigscan/dsp/spectrum"
)

// Coherence computes, for each cyclic frequency in alphas, the mean
// magnitude of the non-conjugate spectral coherence of x, estimated with
// the frequency smoothing method. The boxcar smoother spans
// ceil(smoothing*len(x)) bins. A candidate whose smoothed auto-spectra
// touch zero anywhere scores 0.
func Coherence(x []complex128, alphas []float64, smoothing float64) ([]float64, error) {
	n := len(x)
	if n == 0 {
		return nil, ErrTooShort
	}
	spec, err := fft.Forward(x)
	if err != nil {
		return nil, err
	}
	width := max(1, int(math.Ceil(float64(n)*smoothing)))

	cross := make([]complex128, n)
	plus := make([]complex128, n)
	minus := make([]complex128, n)
	out := make([]float64, len(alphas))
	inv := 1 / float64(n)
	for a, alpha := range alphas {
		s := int(math.RoundToEven(alpha / 2 * float64(n)))
		for i := range n {
			up := spec[mod(i-s, n)]
			down := spec[mod(i+s, n)]
			cross[i] = up * cmplx.Conj(down) * complex(inv, 0)
			plus[i] = complex(sq(up)*inv, 0)
			minus[i] = complex(sq(down)*inv, 0)
		}

		c := boxcarSame(spectrum.FFTShift(cross), width)
		p := boxcarSame(spectrum.FFTShift(plus), width)
		m := boxcarSame(spectrum.FFTShift(minus), width)

		var sum float64
		for i := range n {
			pv, mv := real(p[i]), real(m[i])
			if pv <= 0 || mv <= 0 {
				sum = 0
				break
			}
			sum += cmplx.Abs(c[i]) / math.Sqrt(pv*mv)
		}
		out[a] = sum / float64(n)
	}
	return out, nil
}

// boxcarSame convolves x with a length-width boxcar of unit area and
// keeps the len(x) central outputs, as a "same"-mode convolution does.
func boxcarSame(x []complex128, width int) []complex128 {
	n := len(x)
	prefix := make([]complex128, n+1)
	for i, v := range x {
		prefix[i+1] = prefix[i] + v
	}

	off := (width - 1) / 2
	scale := complex(1/float64(width), 0)
	out := make([]complex128, n)
	for i := range out {
		hi := min(i+off, n-1) + 1
		lo := max(i+off-width+1, 0)
		if lo < hi {
			out[i] = (prefix[hi] - prefix[lo]) * scale
		}
	}
	return out
}

func sq(v complex128) float64 {
	return real(v)*real(v) + imag(v)*imag(v)
}

func mod(a, n int) int {
	a %= n
	if a < 0 {
		a += n
	}
	return a
}
