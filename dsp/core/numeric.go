package core

import "math"

const defaultEpsilon = 1e-12

// PowerFloor is the smallest linear power converted to dB by [PowerToDB].
// Anything at or below it maps to -120 dB instead of -Inf.
const PowerFloor = 1e-12

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// NearlyEqual reports whether a and b are equal within eps.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return diff <= eps
	}

	return diff/largest <= eps
}

// IsFinite reports whether v is neither NaN nor an infinity.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// DBPowerToLinear converts dB to linear power (10*log10 convention).
func DBPowerToLinear(db float64) float64 {
	return math.Pow(10, db/10)
}

// LinearPowerToDB converts linear power to dB (10*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearPowerToDB(power float64) float64 {
	if power < 0 {
		return math.NaN()
	}

	if power == 0 {
		return math.Inf(-1)
	}

	return 10 * math.Log10(power)
}

// PowerToDB converts linear power to dB after clamping it to [PowerFloor].
// The result is always finite for finite, non-negative input.
func PowerToDB(power float64) float64 {
	if power <= PowerFloor {
		power = PowerFloor
	}

	return 10 * math.Log10(power)
}

// PowerToDBInPlace applies [PowerToDB] to every element of buf.
func PowerToDBInPlace(buf []float64) {
	for i, p := range buf {
		buf[i] = PowerToDB(p)
	}
}
