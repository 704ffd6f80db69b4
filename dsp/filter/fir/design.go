package fir

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-sigscan/dsp/window"
)

var (
	// ErrInvalidTaps is returned for a non-positive tap count.
	ErrInvalidTaps = errors.New("fir: number of taps must be positive")
	// ErrInvalidCutoff is returned when the cutoff is not strictly between
	// zero and the Nyquist frequency.
	ErrInvalidCutoff = errors.New("fir: cutoff must be in (0, sampleRate/2)")
)

// DefaultWindow is the design window of [Lowpass] unless [WithWindow] is given.
const DefaultWindow = window.TypeHamming

// DesignOption configures [Lowpass].
type DesignOption func(*designConfig)

type designConfig struct {
	window window.Type
}

// WithWindow selects the design window. The default is Hamming.
func WithWindow(t window.Type) DesignOption {
	return func(c *designConfig) {
		c.window = t
	}
}

// Lowpass designs a numTaps-long windowed-sinc low-pass filter with the
// given cutoff in the units of sampleRate. The coefficients are scaled so
// that the gain at DC is exactly one.
func Lowpass(numTaps int, cutoff, sampleRate float64, opts ...DesignOption) ([]float64, error) {
	if numTaps <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTaps, numTaps)
	}
	nyquist := sampleRate / 2
	if !(cutoff > 0 && cutoff < nyquist) {
		return nil, fmt.Errorf("%w: cutoff=%g sampleRate=%g", ErrInvalidCutoff, cutoff, sampleRate)
	}

	cfg := designConfig{window: DefaultWindow}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	c := cutoff / nyquist
	alpha := float64(numTaps-1) / 2
	win := window.Generate(cfg.window, numTaps)

	h := make([]float64, numTaps)
	sum := 0.0
	for n := range h {
		h[n] = c * sinc(c*(float64(n)-alpha)) * win[n]
		sum += h[n]
	}

	for n := range h {
		h[n] /= sum
	}

	return h, nil
}

// sinc is the normalized sinc function sin(pi x)/(pi x).
func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	px := math.Pi * x
	return math.Sin(px) / px
}
