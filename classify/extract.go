package classify

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-sigscan/dsp/core"
	"github.com/cwbudde/algo-sigscan/dsp/filter/fir"
	"github.com/cwbudde/algo-sigscan/dsp/resample"
	"github.com/cwbudde/algo-sigscan/dsp/spectrum"
)

var (
	// ErrEmptySignal is returned for a zero-length input.
	ErrEmptySignal = errors.New("classify: empty signal")
	// ErrInvalidBand is returned when high is not above low.
	ErrInvalidBand = errors.New("classify: invalid band")
)

// Extraction is the result of [ExtractBand].
type Extraction struct {
	// Filtered is Centered after low-pass filtering, len(x) samples.
	Filtered []complex128
	// Centered is the input shifted so the band center sits at DC.
	Centered []complex128
	// Taps are the low-pass coefficients.
	Taps []float64
	// Cutoff is the normalized low-pass cutoff, half the band width.
	Cutoff float64
	// EdgeDB is the filter gain at Cutoff.
	EdgeDB float64
}

// ExtractBand shifts x so the band [low, high] is centered on DC and
// filters it with a numTaps [fir.DefaultWindow] low-pass at (high-low)/2.
func ExtractBand(x []complex128, low, high float64, numTaps int) (Extraction, error) {
	if len(x) == 0 {
		return Extraction{}, ErrEmptySignal
	}
	if !(high > low) {
		return Extraction{}, fmt.Errorf("%w: [%g, %g]", ErrInvalidBand, low, high)
	}

	centered := spectrum.FrequencyShift(x, -(low + (high-low)/2))

	// A band spanning the whole spectrum still needs a cutoff below Nyquist.
	cutoff := core.Clamp((high-low)/2, 0, math.Nextafter(0.5, 0))
	taps, err := fir.Lowpass(numTaps, cutoff, 1)
	if err != nil {
		return Extraction{}, fmt.Errorf("classify: design low-pass: %w", err)
	}

	f := fir.New(taps)
	filtered, err := f.ApplySame(centered)
	if err != nil {
		return Extraction{}, err
	}
	return Extraction{
		Filtered: filtered,
		Centered: centered,
		Taps:     taps,
		Cutoff:   cutoff,
		EdgeDB:   f.MagnitudeDB(cutoff),
	}, nil
}

// ExtractBandResampled runs [ExtractBand] and then resamples the filtered
// signal by high-low, so ceil(len(x)*(high-low)) samples remain and the
// band fills the full spectrum. Amplitudes are scaled by 1/(high-low).
func ExtractBandResampled(x []complex128, low, high float64, numTaps int) ([]complex128, error) {
	ext, err := ExtractBand(x, low, high, numTaps)
	if err != nil {
		return nil, err
	}

	bw := high - low
	y, err := resample.ByFactor(ext.Filtered, bw)
	if err != nil {
		return nil, fmt.Errorf("classify: resample: %w", err)
	}
	scale := 1 / bw
	for i, v := range y {
		y[i] = complex(real(v)*scale, imag(v)*scale)
	}
	return y, nil
}
