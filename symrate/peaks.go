package symrate

import (
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-sigscan/dsp/spectrum"
)

// Candidates returns the bins of the largest local maxima of the first
// half of nl whose normalized frequency exceeds lowerBound. At most limit
// bins are returned, in increasing frequency order.
func Candidates(nl []float64, lowerBound float64, limit int) []int {
	nfft := len(nl)
	peaks := spectrum.FindPeaks(nl[:nfft/2])

	var bins []int
	var vals []float64
	for _, p := range peaks {
		if float64(p)/float64(nfft) > lowerBound {
			bins = append(bins, p)
			vals = append(vals, nl[p])
		}
	}
	if len(bins) <= limit {
		return bins
	}

	order := make([]int, len(vals))
	floats.Argsort(vals, order)
	keep := make([]int, limit)
	for i := range keep {
		keep[i] = bins[order[len(order)-1-i]]
	}
	slices.Sort(keep)
	return keep
}

// SubtractLocalMean returns s minus, per element, the average of the mean
// of up to radius neighbours on the left and the mean of those on the
// right. The window holds 2*radius+1 elements and slides inward at the
// edges.
func SubtractLocalMean(s []float64, radius int) []float64 {
	n := len(s)
	out := make([]float64, n)
	for j := range s {
		start := max(0, j-radius)
		if start+2*radius >= n {
			start = max(0, n-2*radius)
		}
		end := min(start+2*radius+1, n)

		var local float64
		cnt := 0
		if j > start {
			local += mean(s[start:j])
			cnt++
		}
		if end > j+1 {
			local += mean(s[j+1 : end])
			cnt++
		}
		if cnt > 0 {
			local /= float64(cnt)
		}
		out[j] = s[j] - local
	}
	return out
}

func mean(x []float64) float64 {
	return floats.Sum(x) / float64(len(x))
}

// resolveHarmonic compares nl around bin idx and its 2nd to 4th
// sub-harmonics, halving the value at idx, and returns the normalized
// frequency and value of the strongest.
func resolveHarmonic(nl []float64, idx, window int) (freq, value float64) {
	nfft := float64(len(nl))
	for div := 1; div <= 4; div++ {
		c := idx / div
		lo, hi := max(c-window, 0), min(c+window, len(nl))
		if lo >= hi {
			continue
		}
		v := floats.Max(nl[lo:hi])
		if div == 1 {
			v /= 2
		}
		if div == 1 || v > value {
			value = v
			freq = float64(idx) / (float64(div) * nfft)
		}
	}
	return freq, value
}
