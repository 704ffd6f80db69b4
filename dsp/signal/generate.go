// Package signal generates deterministic complex baseband test signals.
//
// Frequencies and symbol rates are normalized to the sample rate. Every
// random draw comes from the generator's seeded source, so the same seed
// and call sequence always yields the same samples.
package signal

import (
	"fmt"
	"math"
	"math/cmplx"
	"math/rand"

	"github.com/cwbudde/algo-sigscan/dsp/fft"
)

// Generator creates deterministic signals from a seeded random source.
// A Generator is not safe for concurrent use.
type Generator struct {
	seed int64
	rng  *rand.Rand
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a signal generator. The default seed is 1.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{seed: 1}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	g.rng = rand.New(rand.NewSource(g.seed))
	return g
}

// Seed returns the seed the random source was last reset to.
func (g *Generator) Seed() int64 {
	return g.seed
}

// SetSeed resets the random source.
func (g *Generator) SetSeed(seed int64) {
	g.seed = seed
	g.rng = rand.New(rand.NewSource(seed))
}

// Tone generates amplitude * exp(i*2*pi*freq*n).
func (g *Generator) Tone(freq, amplitude float64, samples int) ([]complex128, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("tone samples must be > 0: %d", samples)
	}
	out := make([]complex128, samples)
	for i := range out {
		s, c := math.Sincos(2 * math.Pi * freq * float64(i))
		out[i] = complex(amplitude*c, amplitude*s)
	}
	return out, nil
}

// Noise generates circular complex Gaussian noise with mean power
// E|x|^2 = power.
func (g *Generator) Noise(power float64, samples int) ([]complex128, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}
	if power < 0 {
		return nil, fmt.Errorf("noise power must be >= 0: %f", power)
	}
	sigma := math.Sqrt(power / 2)
	out := make([]complex128, samples)
	for i := range out {
		out[i] = complex(sigma*g.rng.NormFloat64(), sigma*g.rng.NormFloat64())
	}
	return out, nil
}

// BandNoise generates complex Gaussian noise confined to the band
// [center-bandwidth/2, center+bandwidth/2] with a flat spectrum and mean
// power E|x|^2 = power.
func (g *Generator) BandNoise(center, bandwidth, power float64, samples int) ([]complex128, error) {
	if bandwidth <= 0 || bandwidth > 1 {
		return nil, fmt.Errorf("band noise bandwidth must be in (0, 1]: %f", bandwidth)
	}
	white, err := g.Noise(1, samples)
	if err != nil {
		return nil, err
	}

	spec, err := fft.Forward(white)
	if err != nil {
		return nil, err
	}
	n := float64(samples)
	lo, hi := center-bandwidth/2, center+bandwidth/2
	for k := range spec {
		f := float64(k) / n
		if f >= 0.5 {
			f--
		}
		if f < lo || f > hi {
			spec[k] = 0
		}
	}

	out, err := fft.Inverse(spec)
	if err != nil {
		return nil, err
	}

	var got float64
	for _, v := range out {
		got += real(v)*real(v) + imag(v)*imag(v)
	}
	got /= n
	if got == 0 {
		return out, nil
	}
	scale := math.Sqrt(power / got)
	for i, v := range out {
		out[i] = complex(real(v)*scale, imag(v)*scale)
	}
	return out, nil
}

// BPSK generates random +/-amplitude symbols with rectangular pulses at the
// given symbol rate (symbols per sample, in (0, 1]).
func (g *Generator) BPSK(symbolRate, amplitude float64, samples int) ([]complex128, error) {
	return g.psk(2, symbolRate, amplitude, samples)
}

// QPSK generates random unit-circle symbols at odd multiples of pi/4 with
// rectangular pulses.
func (g *Generator) QPSK(symbolRate, amplitude float64, samples int) ([]complex128, error) {
	return g.psk(4, symbolRate, amplitude, samples)
}

func (g *Generator) psk(order int, symbolRate, amplitude float64, samples int) ([]complex128, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("psk samples must be > 0: %d", samples)
	}
	if !(symbolRate > 0 && symbolRate <= 1) {
		return nil, fmt.Errorf("psk symbol rate must be in (0, 1]: %f", symbolRate)
	}

	offset := 0.0
	if order == 4 {
		offset = math.Pi / 4
	}

	out := make([]complex128, samples)
	current := -1
	var sym complex128
	for i := range out {
		idx := int(float64(i) * symbolRate)
		if idx != current {
			current = idx
			phase := offset + 2*math.Pi*float64(g.rng.Intn(order))/float64(order)
			sym = cmplx.Rect(amplitude, phase)
		}
		out[i] = sym
	}
	return out, nil
}

// Multicarrier sums subcarriers equally spaced by spacing and centered on
// zero, each with an independent random phase. The total mean power is
// amplitude^2.
func (g *Generator) Multicarrier(subcarriers int, spacing, amplitude float64, samples int) ([]complex128, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("multicarrier samples must be > 0: %d", samples)
	}
	if subcarriers <= 0 {
		return nil, fmt.Errorf("multicarrier subcarriers must be > 0: %d", subcarriers)
	}

	each := amplitude / math.Sqrt(float64(subcarriers))
	out := make([]complex128, samples)
	for k := range subcarriers {
		freq := (float64(k) - float64(subcarriers-1)/2) * spacing
		phase := 2 * math.Pi * g.rng.Float64()
		for i := range out {
			out[i] += cmplx.Rect(each, 2*math.Pi*freq*float64(i)+phase)
		}
	}
	return out, nil
}

// Repeated tiles a random complex Gaussian pattern of length period with
// mean power amplitude^2, modelling a repeated preamble.
func (g *Generator) Repeated(period int, amplitude float64, samples int) ([]complex128, error) {
	if period <= 0 {
		return nil, fmt.Errorf("repeated period must be > 0: %d", period)
	}
	pattern, err := g.Noise(amplitude*amplitude, period)
	if err != nil {
		return nil, err
	}
	if samples <= 0 {
		return nil, fmt.Errorf("repeated samples must be > 0: %d", samples)
	}
	out := make([]complex128, samples)
	for i := range out {
		out[i] = pattern[i%period]
	}
	return out, nil
}

// Add sums src into dst starting at offset. Samples falling outside dst are
// dropped.
func Add(dst, src []complex128, offset int) {
	for i, v := range src {
		j := offset + i
		if j < 0 {
			continue
		}
		if j >= len(dst) {
			return
		}
		dst[j] += v
	}
}

// NormalizeMean divides data by its mean magnitude and returns the new
// slice together with the scale that was applied. All-zero input is
// returned unchanged with scale 1.
func NormalizeMean(data []complex128) ([]complex128, float64, error) {
	if len(data) == 0 {
		return nil, 0, fmt.Errorf("normalize input must not be empty")
	}

	sum := 0.0
	for _, v := range data {
		sum += cmplx.Abs(v)
	}
	mean := sum / float64(len(data))

	out := make([]complex128, len(data))
	if mean == 0 {
		copy(out, data)
		return out, 1, nil
	}

	scale := 1 / mean
	for i, v := range data {
		out[i] = complex(real(v)*scale, imag(v)*scale)
	}
	return out, scale, nil
}
