// Package pipeline runs a complete analysis over a [Source]: time/frequency
// segmentation with package detect, then per-detection classification and
// symbol-rate estimation, delivering one [Result] per detection to a
// [Sink]. A failure while analysing one detection is recorded on its
// result and the run carries on.
package pipeline
