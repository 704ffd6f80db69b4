package resample

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-sigscan/dsp/fft"
)

var (
	// ErrEmptyInput indicates an empty input signal.
	ErrEmptyInput = errors.New("resample: empty input")
	// ErrInvalidLength indicates a non-positive output length.
	ErrInvalidLength = errors.New("resample: invalid output length")
	// ErrInvalidFactor indicates a non-positive or non-finite factor.
	ErrInvalidFactor = errors.New("resample: invalid factor")
)

// Fourier resamples x to num samples. The output spans the same time
// interval as the input, so sample k of the output sits at input position
// k*len(x)/num. Amplitudes are preserved.
func Fourier(x []complex128, num int) ([]complex128, error) {
	if len(x) == 0 {
		return nil, ErrEmptyInput
	}
	if num <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, num)
	}

	nx := len(x)
	spec, err := fft.Forward(x)
	if err != nil {
		return nil, err
	}

	y := make([]complex128, num)
	n := min(num, nx)
	nyq := n/2 + 1

	// Positive frequencies, including the Nyquist bin when n is even.
	copy(y[:nyq], spec[:nyq])
	// Negative frequencies.
	if neg := n - nyq; neg > 0 {
		copy(y[num-neg:], spec[nx-neg:])
	}

	if n%2 == 0 {
		switch {
		case num < nx:
			// Fold the dropped -n/2 component onto +n/2.
			y[n/2] += spec[nx-n/2]
		case nx < num:
			// Split the +n/2 component evenly between +n/2 and -n/2.
			y[n/2] *= 0.5
			y[num-n/2] = y[n/2]
		}
	}

	out, err := fft.Inverse(y)
	if err != nil {
		return nil, err
	}

	scale := float64(num) / float64(nx)
	for i := range out {
		out[i] = complex(real(out[i])*scale, imag(out[i])*scale)
	}

	return out, nil
}

// ByFactor resamples x to ceil(len(x)*factor) samples with [Fourier].
func ByFactor(x []complex128, factor float64) ([]complex128, error) {
	if !(factor > 0) || math.IsInf(factor, 0) {
		return nil, fmt.Errorf("%w: %g", ErrInvalidFactor, factor)
	}
	return Fourier(x, OutputLen(len(x), factor))
}

// OutputLen returns the output length [ByFactor] produces for n input samples.
func OutputLen(n int, factor float64) int {
	return int(math.Ceil(float64(n) * factor))
}
