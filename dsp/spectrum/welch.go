package spectrum

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-sigscan/dsp/core"
	"github.com/cwbudde/algo-sigscan/dsp/fft"
	"github.com/cwbudde/algo-sigscan/dsp/window"
)

// DefaultSegmentLength is the Welch segment length used when none is given.
const DefaultSegmentLength = 256

var (
	// ErrEmptyInput is returned when a PSD is requested for an empty signal.
	ErrEmptyInput = errors.New("spectrum: empty input")
	// ErrInvalidParameter is returned for non-positive lengths or an
	// overlap that does not leave room for a hop.
	ErrInvalidParameter = errors.New("spectrum: invalid parameter")
)

// Option configures a [Welch] estimator.
type Option func(*welchConfig)

type welchConfig struct {
	segment    int
	overlap    int
	window     window.Type
	detrend    bool
	overlapSet bool
}

// WithSegmentLength sets the number of samples per Welch segment.
func WithSegmentLength(n int) Option {
	return func(c *welchConfig) {
		c.segment = n
	}
}

// WithOverlap sets the number of samples shared by consecutive segments.
// The default is half the segment length.
func WithOverlap(n int) Option {
	return func(c *welchConfig) {
		c.overlap = n
		c.overlapSet = true
	}
}

// WithWindow selects the segment window. The periodic form is always used.
func WithWindow(t window.Type) Option {
	return func(c *welchConfig) {
		c.window = t
	}
}

// WithoutDetrend disables removal of each segment's mean.
func WithoutDetrend() Option {
	return func(c *welchConfig) {
		c.detrend = false
	}
}

// Welch estimates two-sided power spectra by averaging windowed periodograms
// of overlapping segments.
//
// Segments are zero-padded to the transform length. Power is scaled as a
// power spectrum (|X|^2 / (sum w)^2), so a unit-amplitude complex tone
// centered on a bin reads 1 (0 dB). Output bins are FFT-shifted: index 0
// is -0.5 and the last index is just below +0.5.
//
// A Welch is not safe for concurrent use.
type Welch struct {
	nfft    int
	segment int
	step    int
	detrend bool
	winType window.Type
	win     []float64
	scale   float64
	tr      *fft.Transform
	buf     []complex128
	pow     []float64
	acc     []float64
}

// NewWelch returns an estimator producing nfft-bin spectra.
func NewWelch(nfft int, opts ...Option) (*Welch, error) {
	cfg := welchConfig{
		segment: DefaultSegmentLength,
		window:  window.TypeHann,
		detrend: true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if nfft <= 0 || cfg.segment <= 0 {
		return nil, fmt.Errorf("%w: nfft=%d segment=%d", ErrInvalidParameter, nfft, cfg.segment)
	}

	segment := min(cfg.segment, nfft)
	overlap := segment / 2
	if cfg.overlapSet {
		overlap = cfg.overlap
	}
	if overlap < 0 || overlap >= segment {
		return nil, fmt.Errorf("%w: overlap %d with segment %d", ErrInvalidParameter, overlap, segment)
	}

	tr, err := fft.New(nfft)
	if err != nil {
		return nil, err
	}

	win := window.Generate(cfg.window, segment, window.WithPeriodic())
	sum := window.Sum(win)
	if sum == 0 {
		return nil, fmt.Errorf("%w: window sums to zero", ErrInvalidParameter)
	}

	return &Welch{
		nfft:    nfft,
		segment: segment,
		step:    segment - overlap,
		detrend: cfg.detrend,
		winType: cfg.window,
		win:     win,
		scale:   1 / (sum * sum),
		tr:      tr,
		buf:     make([]complex128, nfft),
		pow:     make([]float64, nfft),
		acc:     make([]float64, nfft),
	}, nil
}

// NFFT returns the number of output bins.
func (w *Welch) NFFT() int { return w.nfft }

// NoiseLevel returns the expected bin value of [Welch.PSD] for white noise
// of total power p: p times the window's equivalent noise bandwidth over
// the segment length.
func (w *Welch) NoiseLevel(p float64) float64 {
	enbw, err := window.EquivalentNoiseBandwidth(w.win)
	if err != nil {
		return 0
	}
	return p * enbw / float64(w.segment)
}

// Frequencies returns the normalized frequency of every output bin, from
// -0.5 upwards in steps of 1/NFFT.
func (w *Welch) Frequencies() []float64 {
	return Frequencies(w.nfft)
}

// PSD writes the shifted linear power spectrum of x into dst.
// dst must have length NFFT(). Signals shorter than the segment length are
// analysed as a single segment of their own length.
func (w *Welch) PSD(dst []float64, x []complex128) error {
	if len(x) == 0 {
		return ErrEmptyInput
	}
	if len(dst) != w.nfft {
		return fmt.Errorf("%w: dst length %d, want %d", ErrInvalidParameter, len(dst), w.nfft)
	}

	segment, step, win, scale := w.segment, w.step, w.win, w.scale
	if len(x) < segment {
		// Short input: one segment covering the whole signal.
		segment = len(x)
		step = segment - segment/2
		win = window.Generate(w.winType, segment, window.WithPeriodic())
		if s := window.Sum(win); s != 0 {
			scale = 1 / (s * s)
		}
	}

	count := (len(x) - (segment - step)) / step
	if count < 1 {
		count = 1
	}

	clear(w.acc)
	for s := 0; s < count; s++ {
		seg := x[s*step : s*step+segment]

		var mean complex128
		if w.detrend {
			for _, v := range seg {
				mean += v
			}
			mean /= complex(float64(segment), 0)
		}

		clear(w.buf)
		for i, v := range seg {
			d := v - mean
			w.buf[i] = complex(real(d)*win[i], imag(d)*win[i])
		}

		if err := w.tr.Forward(w.buf, w.buf); err != nil {
			return err
		}

		PowerInto(w.pow, w.buf)
		for k, p := range w.pow {
			w.acc[k] += p
		}
	}

	norm := scale / float64(count)
	half := w.nfft / 2
	for k, p := range w.acc {
		dst[(k+half)%w.nfft] = p * norm
	}

	return nil
}

// PSDdB is [Welch.PSD] followed by conversion to dB with powers at or below
// [core.PowerFloor] clamped, so every output bin is finite.
func (w *Welch) PSDdB(dst []float64, x []complex128) error {
	if err := w.PSD(dst, x); err != nil {
		return err
	}
	core.PowerToDBInPlace(dst)
	return nil
}

// PSD is a one-shot Welch estimate of x with nfft output bins. It returns
// the bin frequencies and the shifted linear power spectrum.
func PSD(x []complex128, nfft int, opts ...Option) (freqs, power []float64, err error) {
	w, err := NewWelch(nfft, opts...)
	if err != nil {
		return nil, nil, err
	}
	power = make([]float64, nfft)
	if err := w.PSD(power, x); err != nil {
		return nil, nil, err
	}
	return w.Frequencies(), power, nil
}

// PSDdB is the dB-scaled variant of [PSD].
func PSDdB(x []complex128, nfft int, opts ...Option) (freqs, powerDB []float64, err error) {
	freqs, powerDB, err = PSD(x, nfft, opts...)
	if err != nil {
		return nil, nil, err
	}
	core.PowerToDBInPlace(powerDB)
	return freqs, powerDB, nil
}

// Frequencies returns n shifted normalized bin frequencies, -0.5 + k/n.
// For odd n this is offset by half a bin from the exact FFT grid.
func Frequencies(n int) []float64 {
	out := make([]float64, n)
	for k := range out {
		out[k] = -0.5 + float64(k)/float64(n)
	}
	return out
}
