// Package fft provides complex discrete Fourier transforms of arbitrary length.
//
// Every length is served by an algo-fft plan: powers of two and small
// composites by its radix kernels, everything else by its Bluestein
// kernel, so callers never need to pad a signal just to satisfy the
// transform.
//
// Forward is unnormalized. Inverse is scaled by 1/N, so Inverse(Forward(x))
// reproduces x.
package fft

import (
	"errors"
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// ErrInvalidLength indicates a transform length below one.
var ErrInvalidLength = errors.New("fft: invalid length")

// Transform is a reusable complex FFT of a fixed length.
//
// A Transform is not safe for concurrent use; create one per goroutine.
type Transform struct {
	n    int
	plan *algofft.Plan[complex128]
	work []complex128
}

// New returns a Transform for length n.
func New(n int) (*Transform, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, n)
	}
	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("fft: failed to create plan for length %d: %w", n, err)
	}
	return &Transform{n: n, plan: plan, work: make([]complex128, n)}, nil
}

// Len returns the transform length.
func (t *Transform) Len() int { return t.n }

// Forward computes the unnormalized DFT of src into dst.
// Both slices must have length Len(). dst and src may alias.
func (t *Transform) Forward(dst, src []complex128) error {
	if err := t.check(dst, src); err != nil {
		return err
	}
	copy(t.work, src)
	if err := t.plan.Forward(dst, t.work); err != nil {
		return fmt.Errorf("fft: forward failed: %w", err)
	}
	return nil
}

// Inverse computes the 1/N-scaled inverse DFT of src into dst.
// Both slices must have length Len(). dst and src may alias.
func (t *Transform) Inverse(dst, src []complex128) error {
	if err := t.check(dst, src); err != nil {
		return err
	}
	copy(t.work, src)
	if err := t.plan.Inverse(dst, t.work); err != nil {
		return fmt.Errorf("fft: inverse failed: %w", err)
	}
	return nil
}

func (t *Transform) check(dst, src []complex128) error {
	if len(dst) != t.n || len(src) != t.n {
		return fmt.Errorf("%w: got dst=%d src=%d want %d", ErrInvalidLength, len(dst), len(src), t.n)
	}
	return nil
}

// Forward is a one-shot convenience wrapper returning the DFT of x.
func Forward(x []complex128) ([]complex128, error) {
	t, err := New(len(x))
	if err != nil {
		return nil, err
	}
	out := make([]complex128, len(x))
	if err := t.Forward(out, x); err != nil {
		return nil, err
	}
	return out, nil
}

// Inverse is a one-shot convenience wrapper returning the scaled inverse DFT of x.
func Inverse(x []complex128) ([]complex128, error) {
	t, err := New(len(x))
	if err != nil {
		return nil, err
	}
	out := make([]complex128, len(x))
	if err := t.Inverse(out, x); err != nil {
		return nil, err
	}
	return out, nil
}

// ForwardReal returns the DFT of a real-valued sequence.
func ForwardReal(x []float64) ([]complex128, error) {
	in := make([]complex128, len(x))
	for i, v := range x {
		in[i] = complex(v, 0)
	}
	return Forward(in)
}

// NextPowerOf2 returns the smallest power of two >= n.
func NextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p *= 2
	}
	return p
}
