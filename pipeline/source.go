package pipeline

// Source supplies the samples of one capture. Samples must not be
// modified by the caller while a run is in progress.
type Source interface {
	Len() int
	SampleRate() float64
	CenterFrequency() float64
	Samples() []complex128
}

// SliceSource adapts an in-memory sample slice.
type SliceSource struct {
	samples []complex128
	rate    float64
	center  float64
}

// NewSliceSource returns a source over samples captured at sampleRate Hz
// around centerFrequency Hz.
func NewSliceSource(samples []complex128, sampleRate, centerFrequency float64) *SliceSource {
	return &SliceSource{samples: samples, rate: sampleRate, center: centerFrequency}
}

func (s *SliceSource) Len() int { return len(s.samples) }
func (s *SliceSource) SampleRate() float64 { return s.rate }
func (s *SliceSource) CenterFrequency() float64 { return s.center }
func (s *SliceSource) Samples() []complex128 { return s.samples }
