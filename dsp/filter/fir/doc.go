// Package fir designs and applies finite impulse response filters to complex
// baseband signals.
//
// [Lowpass] designs a linear-phase low-pass filter by the window method
// (windowed sinc, Hamming by default) with unity gain at DC. A [Filter]
// applies the coefficients either as a stream through a circular delay line
// or, with [Filter.ApplySame], as a block convolution whose output is
// aligned with the input (the group delay of (N-1)/2 samples removed).
package fir
