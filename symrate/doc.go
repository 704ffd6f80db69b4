// Package symrate estimates the symbol rate of a single-carrier signal.
//
// Each I/Q shift w (the imaginary part delayed by w samples) runs the
// same search: the magnitude spectrum of |diff(atan(x))| exposes
// candidate cyclic frequencies, the strongest of which are scored with a
// frequency-smoothed spectral coherence, de-trended by a local mean, and
// finally checked against their sub-harmonics. The shifts run on a
// bounded worker pool and the rounded estimates are settled by majority
// vote. Rates are normalized to the sample rate.
package symrate
