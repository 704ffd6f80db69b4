package spectrum

import (
	"math/cmplx"
	"sync"

	"github.com/cwbudde/algo-vecmath"
)

// scratchBuf holds pooled scratch memory for complex-to-real unpacking.
type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) (re, im []float64, buf *scratchBuf) {
	buf = scratchPool.Get().(*scratchBuf)
	need := 2 * n
	if cap(buf.data) < need {
		buf.data = make([]float64, need)
	} else {
		buf.data = buf.data[:need]
	}
	return buf.data[:n], buf.data[n:need], buf
}

func putScratch(buf *scratchBuf) {
	scratchPool.Put(buf)
}

func splitParts(re, im []float64, in []complex128) {
	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}
}

// Magnitude returns |x[k]| for each complex sample.
//
// Scratch buffers are pooled internally, so in steady state this allocates
// only the output slice.
func Magnitude(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	re, im, buf := getScratch(len(in))
	splitParts(re, im, in)
	vecmath.Magnitude(out, re, im)
	putScratch(buf)
	return out
}

// MagnitudeFromParts computes sqrt(re[k]^2 + im[k]^2) into dst.
// All three slices must have the same length.
func MagnitudeFromParts(dst, re, im []float64) {
	vecmath.Magnitude(dst, re, im)
}

// Power returns |x[k]|^2 for each complex sample.
func Power(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	PowerInto(out, in)
	return out
}

// PowerInto writes |x[k]|^2 into dst, which must be as long as in.
func PowerInto(dst []float64, in []complex128) {
	re, im, buf := getScratch(len(in))
	splitParts(re, im, in)
	vecmath.Power(dst[:len(in)], re, im)
	putScratch(buf)
}

// PowerFromParts computes re[k]^2 + im[k]^2 into dst.
// All three slices must have the same length.
func PowerFromParts(dst, re, im []float64) {
	vecmath.Power(dst, re, im)
}

// Phase returns arg(x[k]) in radians for each complex sample.
func Phase(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}
	out := make([]float64, len(in))
	for i, c := range in {
		out[i] = cmplx.Phase(c)
	}
	return out
}
