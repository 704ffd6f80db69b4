package conv

import (
	"github.com/cwbudde/algo-sigscan/dsp/fft"
)

// Correlate computes the full cross-correlation of a and b,
// z[k] = sum_n a[n+k] * conj(b[n]).
// The result has length len(a) + len(b) - 1; index i holds lag
// i - (len(b) - 1).
func Correlate(a, b []complex128) ([]complex128, error) {
	if len(a) == 0 || len(b) == 0 {
		return nil, ErrEmptyInput
	}

	n, m := len(a), len(b)
	size := nextPowerOf2(n + m - 1)

	tr, err := fft.New(size)
	if err != nil {
		return nil, err
	}

	aFreq := make([]complex128, size)
	bFreq := make([]complex128, size)
	copy(aFreq, a)
	copy(bFreq, b)

	if err := tr.Forward(aFreq, aFreq); err != nil {
		return nil, err
	}
	if err := tr.Forward(bFreq, bFreq); err != nil {
		return nil, err
	}

	for i := range aFreq {
		bf := bFreq[i]
		aFreq[i] *= complex(real(bf), -imag(bf))
	}

	if err := tr.Inverse(aFreq, aFreq); err != nil {
		return nil, err
	}

	// Circular result: non-negative lags at the front, negative lags wrap
	// to the end.
	result := make([]complex128, n+m-1)
	copy(result[m-1:], aFreq[:n])
	copy(result[:m-1], aFreq[size-m+1:])

	return result, nil
}

// CorrelateMode computes cross-correlation with specified output mode.
func CorrelateMode(a, b []complex128, mode Mode) ([]complex128, error) {
	full, err := Correlate(a, b)
	if err != nil {
		return nil, err
	}

	return trimToMode(full, len(a), len(b), mode), nil
}

// AutoCorrelate computes the full auto-correlation of x, of length
// 2*len(x) - 1 with the zero lag at index len(x) - 1.
func AutoCorrelate(x []complex128) ([]complex128, error) {
	return Correlate(x, x)
}

// AutoCorrelateMode computes auto-correlation with specified output mode.
// In [ModeSame] the zero lag sits at index len(x)/2.
func AutoCorrelateMode(x []complex128, mode Mode) ([]complex128, error) {
	return CorrelateMode(x, x, mode)
}

// LagFromIndex converts a full correlation result index to a lag value.
func LagFromIndex(index, lenB int) int {
	return index - (lenB - 1)
}

// IndexFromLag converts a lag value to a full correlation result index.
func IndexFromLag(lag, lenB int) int {
	return lag + (lenB - 1)
}
