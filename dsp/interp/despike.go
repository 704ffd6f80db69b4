package interp

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"
)

// Despike replaces the largest-magnitude fraction of x, in place, by
// linear interpolation over the samples up to radius positions away on
// either side. Spikes are visited from the smallest to the largest, and
// each one sees the values already replaced before it. Index 0 never
// serves as a neighbour.
func Despike(x []complex128, fraction float64, radius int) error {
	if !(fraction >= 0 && fraction < 1) {
		return fmt.Errorf("interp: despike fraction must be in [0, 1): %g", fraction)
	}
	if radius <= 0 {
		return fmt.Errorf("interp: despike radius must be > 0: %d", radius)
	}

	n := len(x)
	mag := make([]float64, n)
	for i, v := range x {
		mag[i] = cmplx.Abs(v)
	}
	order := make([]int, n)
	floats.Argsort(mag, order)

	first := int(math.Floor(float64(n) * (1 - fraction)))
	xs := make([]float64, 0, 2*radius)
	ys := make([]complex128, 0, 2*radius)
	for _, idx := range order[first:] {
		xs, ys = xs[:0], ys[:0]
		for j := max(1, idx-radius); j < min(n, idx+radius); j++ {
			if j == idx {
				continue
			}
			xs = append(xs, float64(j))
			ys = append(ys, x[j])
		}
		if len(xs) == 0 {
			continue
		}

		v, err := LinearAt(xs, ys, float64(idx))
		if err != nil {
			return err
		}
		x[idx] = v
	}
	return nil
}
