// Package detect finds transmissions in complex baseband samples and tracks
// them across fixed-size analysis chunks.
//
// A [Segmenter] splits the input into chunks and groups loud ones into
// bursts. Each burst goes to a [Tracker], which finds bands of interest per
// chunk, follows them over time as [Detection] tracks, reconciles tracks
// that were split or merged by mistake and drops short ones. Frequencies are
// normalized to the sample rate, in (-0.5, 0.5).
package detect

import (
	"fmt"
	"sync/atomic"
)

// Band is a [Low, High] pair of normalized frequencies.
type Band struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Center returns the band midpoint.
func (b Band) Center() float64 { return (b.Low + b.High) / 2 }

// Width returns High - Low.
func (b Band) Width() float64 { return b.High - b.Low }

func (b Band) String() string {
	return fmt.Sprintf("[%.4f, %.4f]", b.Low, b.High)
}

// Detection is one tracked time/frequency region.
//
// A Detection is owned by the [Tracker] until the burst it belongs to is
// finalized; afterwards it is handed to the callback and must be treated as
// read-only.
type Detection struct {
	ID int64
	// StartSample and EndSample are inclusive absolute sample indices.
	// EndSample is -1 while the track is open.
	StartSample int
	EndSample   int
	// History holds one band per chunk in which the track was matched,
	// oldest first.
	History []Band
	// LowFreq and HighFreq are the envelope of History, set on close and
	// narrowed by reconciliation.
	LowFreq  float64
	HighFreq float64
	// Samples is the detection's slice of the burst block, attached when
	// the burst is finalized.
	Samples []complex128
}

func newDetection(id int64, start int, b Band) *Detection {
	return &Detection{
		ID:          id,
		StartSample: start,
		EndSample:   -1,
		History:     []Band{b},
		LowFreq:     b.Low,
		HighFreq:    b.High,
	}
}

// Open reports whether the track is still being extended.
func (d *Detection) Open() bool { return d.EndSample < 0 }

// Last returns the most recently recorded band.
func (d *Detection) Last() Band { return d.History[len(d.History)-1] }

// Band returns the reported [LowFreq, HighFreq] band.
func (d *Detection) Band() Band { return Band{Low: d.LowFreq, High: d.HighFreq} }

// CenterFreq returns the midpoint of the reported band.
func (d *Detection) CenterFreq() float64 { return d.Band().Center() }

// Span returns EndSample - StartSample, or 0 while open.
func (d *Detection) Span() int {
	if d.Open() {
		return 0
	}
	return d.EndSample - d.StartSample
}

// Clone returns a deep copy.
func (d *Detection) Clone() *Detection {
	c := *d
	c.History = append([]Band(nil), d.History...)
	c.Samples = append([]complex128(nil), d.Samples...)
	return &c
}

func (d *Detection) String() string {
	return fmt.Sprintf("detection %d: samples [%d, %d], band %v", d.ID, d.StartSample, d.EndSample, d.Band())
}

func (d *Detection) extend(b Band) {
	d.History = append(d.History, b)
}

// close fixes the end sample and computes the frequency envelope.
func (d *Detection) close(end int) {
	d.EndSample = end
	d.LowFreq, d.HighFreq = d.History[0].Low, d.History[0].High
	for _, b := range d.History[1:] {
		d.LowFreq = min(d.LowFreq, b.Low)
		d.HighFreq = max(d.HighFreq, b.High)
	}
}

// IDGenerator hands out detection identifiers.
type IDGenerator interface {
	NextID() int64
}

// SequentialIDs yields start, start+1, ... It is safe for concurrent use.
type SequentialIDs struct {
	next atomic.Int64
}

// NewSequentialIDs returns a generator whose first id is start.
func NewSequentialIDs(start int64) *SequentialIDs {
	g := &SequentialIDs{}
	g.next.Store(start)
	return g
}

// NextID implements [IDGenerator].
func (g *SequentialIDs) NextID() int64 {
	return g.next.Add(1) - 1
}
