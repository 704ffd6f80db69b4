// Package spectrum provides spectrum-domain utilities for complex baseband
// signals.
//
// It covers Welch power spectral density estimation (two-sided, with the
// zero frequency moved to the middle), FFT-shifting, complex frequency
// translation, local-maximum search and vectorized magnitude/power helpers.
//
// All frequencies are normalized to the sample rate and lie in [-0.5, 0.5).
package spectrum
