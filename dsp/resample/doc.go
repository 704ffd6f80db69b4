// Package resample changes the length of complex signals with the Fourier
// method.
//
// The input spectrum is truncated (downsampling) or zero-padded (upsampling)
// and transformed back, which is exact for band-limited periodic signals and
// lets the output length be any positive integer rather than a rational
// ratio of the input length. A Nyquist bin present in the shorter spectrum
// is split or joined so that real-valued tones stay real.
//
// Common workflows:
//   - Fourier(x, num) for an exact output length
//   - ByFactor(x, factor) for an output of ceil(len(x)*factor) samples
package resample
