package time

import (
	"errors"
	"math"
)

// ErrTooFewSamples is returned when a statistic needs more samples than
// were supplied.
var ErrTooFewSamples = errors.New("stats: too few samples")

// Summary holds amplitude statistics of a real-valued sequence.
type Summary struct {
	Length      int
	DC          float64 // mean
	RMS         float64
	Peak        float64 // max |x|
	PeakPos     int
	CrestFactor float64 // peak / RMS (linear)
	Variance    float64 // population variance
	Skewness    float64
	Kurtosis    float64 // excess kurtosis
	K4          float64 // fourth k-statistic, 0 below four samples
}

// PeakDB returns the peak amplitude in dB (20*log10). Zero peaks give -Inf.
func (s Summary) PeakDB() float64 { return ampToDB(s.Peak) }

// RMSDB returns the RMS level in dB (20*log10). Zero RMS gives -Inf.
func (s Summary) RMSDB() float64 { return ampToDB(s.RMS) }

func ampToDB(v float64) float64 {
	a := math.Abs(v)
	if a == 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(a)
}

// welford tracks central moment sums M2..M4 with the single-pass update of
// Welford/Terriberry.
type welford struct {
	n          int
	mean       float64
	m2, m3, m4 float64
	sumSq      float64
	peak       float64
	peakPos    int
}

func (w *welford) add(x float64) {
	prev := float64(w.n)
	w.n++
	ni := float64(w.n)

	delta := x - w.mean
	deltaN := delta / ni
	deltaN2 := deltaN * deltaN
	term1 := delta * deltaN * prev

	// M4 before M3 before M2.
	w.m4 += term1*deltaN2*(ni*ni-3*ni+3) + 6*deltaN2*w.m2 - 4*deltaN*w.m3
	w.m3 += term1*deltaN*(prev-1) - 3*deltaN*w.m2
	w.m2 += term1
	w.mean += deltaN

	w.sumSq += x * x
	if a := math.Abs(x); w.n == 1 || a > w.peak {
		w.peak = a
		w.peakPos = w.n - 1
	}
}

func (w *welford) moments() (mean, variance, skewness, kurtosis float64) {
	if w.n == 0 {
		return 0, 0, 0, 0
	}
	nf := float64(w.n)
	variance = w.m2 / nf
	if variance > 0 {
		skewness = (w.m3 / nf) / (variance * math.Sqrt(variance))
		kurtosis = (w.m4/nf)/(variance*variance) - 3
	}
	return w.mean, variance, skewness, kurtosis
}

// kstat4 is the unbiased fourth cumulant estimator
// n^2((n+1)m4 - 3(n-1)m2^2) / ((n-1)(n-2)(n-3)) on central moments m2, m4.
func (w *welford) kstat4() (float64, error) {
	if w.n < 4 {
		return 0, ErrTooFewSamples
	}
	n := float64(w.n)
	m2 := w.m2 / n
	m4 := w.m4 / n
	return n * n * ((n+1)*m4 - 3*(n-1)*m2*m2) / ((n - 1) * (n - 2) * (n - 3)), nil
}

func (w *welford) summary() Summary {
	if w.n == 0 {
		return Summary{}
	}
	mean, variance, skewness, kurtosis := w.moments()
	rms := math.Sqrt(w.sumSq / float64(w.n))

	s := Summary{
		Length:   w.n,
		DC:       mean,
		RMS:      rms,
		Peak:     w.peak,
		PeakPos:  w.peakPos,
		Variance: variance,
		Skewness: skewness,
		Kurtosis: kurtosis,
	}
	if rms > 0 {
		s.CrestFactor = w.peak / rms
	}
	if k4, err := w.kstat4(); err == nil {
		s.K4 = k4
	}
	return s
}

// Calculate computes all statistics of signal in a single pass.
func Calculate(signal []float64) Summary {
	var w welford
	for _, x := range signal {
		w.add(x)
	}
	return w.summary()
}

// RMS returns the root-mean-square of the signal.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	var sumSq float64
	for _, x := range signal {
		sumSq += x * x
	}

	return math.Sqrt(sumSq / float64(len(signal)))
}

// Peak returns the largest absolute value in the signal.
func Peak(signal []float64) float64 {
	var peak float64
	for _, x := range signal {
		peak = math.Max(peak, math.Abs(x))
	}
	return peak
}

// Moments returns the mean, population variance, skewness and excess
// kurtosis of the signal.
func Moments(signal []float64) (mean, variance, skewness, kurtosis float64) {
	var w welford
	for _, x := range signal {
		w.add(x)
	}
	return w.moments()
}

// KStat4 returns the fourth k-statistic of signal, the unbiased estimator of
// its fourth cumulant. It is near zero for Gaussian data, negative for
// constant-envelope data and needs at least four samples.
func KStat4(signal []float64) (float64, error) {
	var w welford
	for _, x := range signal {
		w.add(x)
	}
	return w.kstat4()
}

// StreamingStats accumulates the same statistics as [Calculate] across
// successive blocks. Results are identical to a single Calculate over the
// concatenated input.
type StreamingStats struct {
	w welford
}

// NewStreamingStats creates an empty accumulator.
func NewStreamingStats() *StreamingStats {
	return &StreamingStats{}
}

// Update adds a block of samples.
func (s *StreamingStats) Update(samples []float64) {
	for _, x := range samples {
		s.w.add(x)
	}
}

// Len returns the number of samples seen so far.
func (s *StreamingStats) Len() int { return s.w.n }

// Result returns the statistics of everything seen so far.
func (s *StreamingStats) Result() Summary {
	return s.w.summary()
}

// Reset clears all accumulated data.
func (s *StreamingStats) Reset() {
	s.w = welford{}
}
