package spectrum

import "math"

// FFTShift returns a copy of x with the zero-frequency element moved to the
// middle. For a spectrum of length n, index n/2 of the result holds bin 0.
func FFTShift[T any](x []T) []T {
	n := len(x)
	out := make([]T, n)
	half := n / 2
	for i := range x {
		out[(i+half)%n] = x[i]
	}
	return out
}

// IFFTShift undoes [FFTShift], including for odd lengths.
func IFFTShift[T any](x []T) []T {
	n := len(x)
	out := make([]T, n)
	half := n / 2
	for i := range x {
		out[i] = x[(i+half)%n]
	}
	return out
}

// Roll returns a copy of x circularly shifted by s positions:
// out[(i+s) mod n] = x[i]. Negative shifts roll to the left.
func Roll[T any](x []T, s int) []T {
	n := len(x)
	out := make([]T, n)
	if n == 0 {
		return out
	}
	s %= n
	if s < 0 {
		s += n
	}
	copy(out[s:], x[:n-s])
	copy(out[:s], x[n-s:])
	return out
}

// FrequencyShift returns x[k] * exp(i*2*pi*df*k), translating the spectrum
// of x by df (normalized frequency).
func FrequencyShift(x []complex128, df float64) []complex128 {
	out := make([]complex128, len(x))
	for k, v := range x {
		s, c := math.Sincos(2 * math.Pi * df * float64(k))
		out[k] = v * complex(c, s)
	}
	return out
}
