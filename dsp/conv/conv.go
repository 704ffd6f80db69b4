package conv

import "errors"

// Errors returned by convolution functions.
var (
	ErrEmptyInput       = errors.New("conv: empty input")
	ErrEmptyKernel      = errors.New("conv: empty kernel")
	ErrLengthMismatch   = errors.New("conv: buffer length mismatch")
	ErrInvalidBlockSize = errors.New("conv: invalid block size")
)

// Mode specifies the output mode for convolution and correlation.
type Mode int

const (
	// ModeFull returns the full convolution result with length len(a)+len(b)-1.
	ModeFull Mode = iota

	// ModeSame returns output with the same length as the first input.
	ModeSame

	// ModeValid returns only the portion where signals fully overlap,
	// with length max(len(a), len(b)) - min(len(a), len(b)) + 1.
	ModeValid
)

// directThreshold is the longest kernel convolved in the time domain.
const directThreshold = 64

// Direct performs direct time-domain linear convolution of signal a with
// real kernel b. Returns a new slice of length len(a) + len(b) - 1.
func Direct(a []complex128, b []float64) ([]complex128, error) {
	if len(a) == 0 {
		return nil, ErrEmptyInput
	}
	if len(b) == 0 {
		return nil, ErrEmptyKernel
	}

	result := make([]complex128, len(a)+len(b)-1)
	DirectTo(result, a, b)
	return result, nil
}

// DirectTo performs direct convolution, writing to a pre-allocated destination.
// dst must have length len(a) + len(b) - 1.
func DirectTo(dst []complex128, a []complex128, b []float64) {
	clear(dst)

	for i, x := range a {
		re, im := real(x), imag(x)
		out := dst[i : i+len(b)]
		for j, h := range b {
			out[j] += complex(re*h, im*h)
		}
	}
}

// Convolve performs linear convolution with automatic algorithm selection.
// Kernels up to 64 taps use direct convolution, longer ones overlap-add.
func Convolve(a []complex128, b []float64) ([]complex128, error) {
	if len(a) == 0 {
		return nil, ErrEmptyInput
	}
	if len(b) == 0 {
		return nil, ErrEmptyKernel
	}

	if len(b) <= directThreshold {
		return Direct(a, b)
	}

	return OverlapAddConvolve(a, b)
}

// ConvolveMode performs convolution with specified output mode.
func ConvolveMode(a []complex128, b []float64, mode Mode) ([]complex128, error) {
	full, err := Convolve(a, b)
	if err != nil {
		return nil, err
	}

	return trimToMode(full, len(a), len(b), mode), nil
}

// trimToMode extracts the appropriate portion of a full convolution result.
func trimToMode[T any](full []T, lenA, lenB int, mode Mode) []T {
	switch mode {
	case ModeSame:
		// Centered on the full result, as long as the first input.
		start := (lenB - 1) / 2
		return full[start : start+lenA]
	case ModeValid:
		if lenA >= lenB {
			return full[lenB-1 : lenA]
		}
		return full[lenA-1 : lenB]
	default:
		return full
	}
}

// nextPowerOf2 returns the next power of 2 >= n.
func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p *= 2
	}
	return p
}
