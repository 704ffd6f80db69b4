package classify

import (
	"fmt"
	"math"

	stats "github.com/cwbudde/algo-sigscan/stats/time"
)

// Cumulants holds the length-normalized 4th k-statistics of the real and
// imaginary parts of a signal.
type Cumulants struct {
	Real float64
	Imag float64
}

// Max returns the larger magnitude of the two.
func (c Cumulants) Max() float64 {
	return math.Max(math.Abs(c.Real), math.Abs(c.Imag))
}

// FourthCumulants computes k4(re(x))/len(x) and k4(im(x))/len(x).
func FourthCumulants(x []complex128) (Cumulants, error) {
	re := make([]float64, len(x))
	im := make([]float64, len(x))
	for i, v := range x {
		re[i], im[i] = real(v), imag(v)
	}

	kr, err := stats.KStat4(re)
	if err != nil {
		return Cumulants{}, fmt.Errorf("classify: %w", err)
	}
	ki, err := stats.KStat4(im)
	if err != nil {
		return Cumulants{}, fmt.Errorf("classify: %w", err)
	}
	n := float64(len(x))
	return Cumulants{Real: kr / n, Imag: ki / n}, nil
}

// IsMulticarrier reports whether x looks Gaussian: neither normalized
// 4th cumulant exceeds threshold in magnitude. Pure noise passes too; see
// [IsNoise].
func IsMulticarrier(x []complex128, threshold float64) (bool, error) {
	c, err := FourthCumulants(x)
	if err != nil {
		return false, err
	}
	return c.Max() <= threshold, nil
}
