// Package classify isolates a detection's band and decides whether it
// holds a single-carrier signal, a multi-carrier signal or plain noise.
//
// [ExtractBand] moves a band [low, high] to baseband and low-pass filters
// it; [ExtractBandResampled] additionally decimates it so the band fills
// the whole spectrum. [IsMulticarrier] tests the 4th cumulant of the
// resampled signal for Gaussianity and [IsNoise] looks for repeating
// structure in a de-spiked autocorrelation. [Classifier] ties the steps
// together with a validated configuration.
package classify
