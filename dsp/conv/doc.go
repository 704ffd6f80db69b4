// Package conv provides linear convolution and correlation of complex
// baseband signals.
//
// Signals are complex; filter kernels are real, which is what FIR filters
// and smoothing windows need. Two strategies are offered:
//
//   - Direct convolution: O(N*M) time-domain convolution, best for short kernels
//   - Overlap-add (OLA): FFT-based block convolution for long kernels
//
// [Convolve] picks between them by kernel length. [ConvolveMode] trims the
// full result to [ModeSame] or [ModeValid] the way array libraries do:
// "same" output is centered on the full result, starting at (M-1)/2.
//
// # Correlation
//
// Correlation follows the convention z[k] = sum_n a[n+k] * conj(b[n]) and is
// computed through the FFT:
//
//	acf, err := conv.AutoCorrelateMode(x, conv.ModeSame)
//	lag := conv.LagFromIndex(idx, len(x))
//
// For repeated convolution with the same kernel, create an [OverlapAdd]
// once to avoid repeated FFT plan creation.
package conv
