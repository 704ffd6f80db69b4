package spectrum

// FindPeaks returns the indices of local maxima of x in ascending order.
//
// A peak is a sample (or a flat run of equal samples) strictly greater than
// both neighbours. For a flat run the middle index is reported, rounding
// down. The first and last samples are never peaks.
func FindPeaks(x []float64) []int {
	var peaks []int
	last := len(x) - 1

	for i := 1; i < last; i++ {
		if x[i-1] >= x[i] {
			continue
		}

		ahead := i + 1
		for ahead < last && x[ahead] == x[i] {
			ahead++
		}

		if x[ahead] < x[i] {
			left, right := i, ahead-1
			peaks = append(peaks, (left+right)/2)
			i = ahead
		}
	}

	return peaks
}
