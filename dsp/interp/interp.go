package interp

import (
	"errors"
	"fmt"

	gonuminterp "gonum.org/v1/gonum/interp"
)

// ErrTooFewKnots is returned when fewer than two knots are supplied.
var ErrTooFewKnots = errors.New("interp: at least two knots required")

// Complex is a piecewise-linear interpolant through complex knots. The real
// and imaginary parts are fitted independently.
type Complex struct {
	re, im gonuminterp.PiecewiseLinear
}

// Fit fits the interpolant through (xs[i], ys[i]). xs must be strictly
// increasing.
func (c *Complex) Fit(xs []float64, ys []complex128) error {
	if len(xs) != len(ys) {
		return fmt.Errorf("interp: %d positions for %d values", len(xs), len(ys))
	}
	if len(xs) < 2 {
		return ErrTooFewKnots
	}

	re := make([]float64, len(ys))
	im := make([]float64, len(ys))
	for i, v := range ys {
		re[i], im[i] = real(v), imag(v)
	}
	if err := c.re.Fit(xs, re); err != nil {
		return fmt.Errorf("interp: %w", err)
	}
	if err := c.im.Fit(xs, im); err != nil {
		return fmt.Errorf("interp: %w", err)
	}
	return nil
}

// Predict returns the interpolated value at x. Outside the fitted range the
// nearest end value is returned.
func (c *Complex) Predict(x float64) complex128 {
	return complex(c.re.Predict(x), c.im.Predict(x))
}

// LinearAt fits xs, ys and evaluates at x in one call. A single knot is
// returned as is.
func LinearAt(xs []float64, ys []complex128, x float64) (complex128, error) {
	if len(xs) == 1 && len(ys) == 1 {
		return ys[0], nil
	}
	var c Complex
	if err := c.Fit(xs, ys); err != nil {
		return 0, err
	}
	return c.Predict(x), nil
}
