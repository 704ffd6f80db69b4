package classify

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-sigscan/config"
	"github.com/cwbudde/algo-sigscan/dsp/conv"
	"github.com/cwbudde/algo-sigscan/dsp/interp"
	"github.com/cwbudde/algo-sigscan/dsp/spectrum"
)

// NoiseScore describes the autocorrelation test of [IsNoise].
type NoiseScore struct {
	// Main is the largest autocorrelation peak magnitude.
	Main float64
	// Side is the mean of the next largest peaks.
	Side float64
	// Peaks is the number of peaks compared.
	Peaks int
}

// Noise reports whether the side peaks stay at or below main/ratio.
func (s NoiseScore) Noise(ratio float64) bool {
	return s.Peaks < 2 || s.Side <= s.Main/ratio
}

// ScoreNoise de-spikes a copy of x and ranks the peaks of its "same"-mode
// autocorrelation magnitude.
func ScoreNoise(x []complex128, cfg config.ClassifyConfig) (NoiseScore, error) {
	if len(x) == 0 {
		return NoiseScore{}, ErrEmptySignal
	}

	work := append([]complex128(nil), x...)
	if err := interp.Despike(work, cfg.DespikeFraction, cfg.DespikeRadius); err != nil {
		return NoiseScore{}, fmt.Errorf("classify: %w", err)
	}

	w, err := conv.AutoCorrelateMode(work, conv.ModeSame)
	if err != nil {
		return NoiseScore{}, fmt.Errorf("classify: autocorrelate: %w", err)
	}
	mag := spectrum.Magnitude(w)

	peaks := spectrum.FindPeaks(mag)
	vals := make([]float64, len(peaks))
	for i, p := range peaks {
		vals[i] = mag[p]
	}
	order := make([]int, len(vals))
	floats.Argsort(vals, order)

	// vals is ascending now; walk it from the top.
	k := min(cfg.NoisePeaks, len(vals))
	top := make([]float64, k)
	for i := range top {
		top[i] = vals[len(vals)-1-i]
	}

	score := NoiseScore{Peaks: k}
	if k > 0 {
		score.Main = top[0]
	}
	if k > 1 {
		score.Side = stat.Mean(top[1:], nil)
	}
	return score, nil
}

// IsNoise reports whether x lacks repeating structure: after removing the
// largest DespikeFraction of samples, the mean of the 2nd to NoisePeaks-th
// largest autocorrelation peaks stays at or below the zero-lag peak divided
// by NoisePeakRatio.
func IsNoise(x []complex128, cfg config.ClassifyConfig) (bool, error) {
	score, err := ScoreNoise(x, cfg)
	if err != nil {
		return false, err
	}
	return score.Noise(cfg.NoisePeakRatio), nil
}
