// Package frequency computes shape descriptors of two-sided power spectra.
package frequency

import (
	"math"

	"github.com/cwbudde/algo-sigscan/dsp/core"
)

// DefaultOccupiedFraction is the power fraction used for the occupied
// bandwidth in [Calculate].
const DefaultOccupiedFraction = 0.99

// Stats describes the shape of a shifted two-sided power spectrum.
//
// Frequencies are normalized: bin k of n sits at -0.5 + k/n, the layout
// produced by a Welch estimate or an FFT followed by an fftshift.
type Stats struct {
	BinCount int
	Total    float64 // sum of bin powers
	Peak     float64
	PeakBin  int
	PeakFreq float64
	// Shape descriptors. Centroid and Spread are power weighted.
	Centroid  float64
	Spread    float64
	Flatness  float64 // geometric over arithmetic mean power, 0..1
	Bandwidth float64 // 3 dB bandwidth around the peak
	// OccupiedLow and OccupiedHigh bound the central DefaultOccupiedFraction
	// of the power.
	OccupiedLow  float64
	OccupiedHigh float64
}

// PeakDB returns the peak power in dB (10*log10). Zero gives -Inf.
func (s Stats) PeakDB() float64 {
	if s.Peak <= 0 {
		return math.Inf(-1)
	}
	return 10 * math.Log10(s.Peak)
}

// Occupied returns the occupied bandwidth, OccupiedHigh - OccupiedLow.
func (s Stats) Occupied() float64 {
	return s.OccupiedHigh - s.OccupiedLow
}

func binFreq(i, n int) float64 {
	return -0.5 + float64(i)/float64(n)
}

// Calculate computes every descriptor of a linear power spectrum.
func Calculate(power []float64) Stats {
	n := len(power)
	if n == 0 {
		return Stats{}
	}

	s := Stats{BinCount: n, Peak: power[0]}
	for i, p := range power {
		s.Total += p
		if p > s.Peak {
			s.Peak = p
			s.PeakBin = i
		}
	}
	s.PeakFreq = binFreq(s.PeakBin, n)

	s.Centroid = centroid(power, s.Total)
	s.Spread = spread(power, s.Centroid, s.Total)
	s.Flatness = Flatness(power)
	s.Bandwidth = bandwidth(power, s.PeakBin)
	s.OccupiedLow, s.OccupiedHigh = occupied(power, DefaultOccupiedFraction, s.Total)
	return s
}

// Centroid returns the power-weighted mean frequency.
func Centroid(power []float64) float64 {
	total := 0.0
	for _, p := range power {
		total += p
	}
	return centroid(power, total)
}

func centroid(power []float64, total float64) float64 {
	if total <= 0 {
		return 0
	}
	weighted := 0.0
	for i, p := range power {
		weighted += binFreq(i, len(power)) * p
	}
	return weighted / total
}

func spread(power []float64, cent, total float64) float64 {
	if total <= 0 {
		return 0
	}
	acc := 0.0
	for i, p := range power {
		d := binFreq(i, len(power)) - cent
		acc += d * d * p
	}
	return math.Sqrt(acc / total)
}

// Flatness returns the spectral flatness (Wiener entropy) in 0..1. White
// noise is close to 1, a pure tone close to 0. Any zero bin makes the
// geometric mean, and so the result, zero.
func Flatness(power []float64) float64 {
	if len(power) == 0 {
		return 0
	}
	sumLin, sumLog := 0.0, 0.0
	for _, p := range power {
		if p <= 0 {
			return 0
		}
		sumLin += p
		sumLog += math.Log(p)
	}
	n := float64(len(power))
	return math.Exp(sumLog/n) / (sumLin / n)
}

// OccupiedBandwidth returns the band holding fraction of the total power,
// with (1-fraction)/2 of it left out on each side.
func OccupiedBandwidth(power []float64, fraction float64) (low, high float64) {
	total := 0.0
	for _, p := range power {
		total += p
	}
	return occupied(power, fraction, total)
}

func occupied(power []float64, fraction, total float64) (low, high float64) {
	n := len(power)
	if n == 0 || total <= 0 {
		return 0, 0
	}
	tail := (1 - core.Clamp(fraction, 0, 1)) / 2 * total

	lo, acc := 0, 0.0
	for ; lo < n-1; lo++ {
		if acc+power[lo] > tail {
			break
		}
		acc += power[lo]
	}
	hi := n - 1
	for acc = 0; hi > lo; hi-- {
		if acc+power[hi] > tail {
			break
		}
		acc += power[hi]
	}
	// Bin edges: the band includes the whole of bins lo and hi.
	return binFreq(lo, n), binFreq(hi+1, n)
}

// Bandwidth returns the 3 dB bandwidth around the spectral peak with
// linear interpolation between bins.
func Bandwidth(power []float64) float64 {
	if len(power) == 0 {
		return 0
	}
	peak := 0
	for i, p := range power {
		if p > power[peak] {
			peak = i
		}
	}
	return bandwidth(power, peak)
}

func bandwidth(power []float64, peak int) float64 {
	n := len(power)
	if n < 2 || power[peak] <= 0 {
		return 0
	}
	threshold := power[peak] / 2

	lower := binFreq(0, n)
	for i := peak; i >= 1; i-- {
		if power[i-1] <= threshold && power[i] > threshold {
			lower = crossing(i-1, i, power[i-1], power[i], threshold, n)
			break
		}
	}
	upper := binFreq(n-1, n)
	for i := peak; i < n-1; i++ {
		if power[i+1] <= threshold && power[i] > threshold {
			upper = crossing(i, i+1, power[i], power[i+1], threshold, n)
			break
		}
	}
	return math.Max(0, upper-lower)
}

// crossing interpolates the frequency where the spectrum crosses threshold
// between bins a and b.
func crossing(a, b int, pa, pb, threshold float64, n int) float64 {
	fa, fb := binFreq(a, n), binFreq(b, n)
	if pb == pa {
		return (fa + fb) / 2
	}
	t := (threshold - pa) / (pb - pa)
	return fa + t*(fb-fa)
}
