package pipeline

import (
	"github.com/cwbudde/algo-sigscan/classify"
	"github.com/cwbudde/algo-sigscan/detect"
)

// SourceAutomatic marks annotations produced by this package.
const SourceAutomatic = "automatic"

// Annotation is a detection expressed in physical units.
type Annotation struct {
	StartTime float64 `json:"start_time"` // seconds
	Duration  float64 `json:"duration"`   // seconds
	LowFreq   float64 `json:"low_freq"`   // Hz
	HighFreq  float64 `json:"high_freq"`  // Hz
	Source    string  `json:"source"`
	Author    string  `json:"author,omitempty"`
	Comment   string  `json:"comment,omitempty"`
}

// Result is one analysed detection.
type Result struct {
	RunID       string  `json:"run_id"`
	ID          int64   `json:"id"`
	StartSample int     `json:"start_sample"`
	EndSample   int     `json:"end_sample"`
	LowFreq     float64 `json:"low_freq"`  // normalized
	HighFreq    float64 `json:"high_freq"` // normalized

	Kind         classify.Kind `json:"kind,omitempty"`
	Multicarrier bool          `json:"multicarrier"`
	// Flatness and OccupiedBandwidthHz describe the extracted band's
	// Welch spectrum. The occupied bandwidth holds 99% of its power.
	Flatness            float64 `json:"flatness,omitempty"`
	OccupiedBandwidthHz float64 `json:"occupied_bandwidth_hz,omitempty"`
	// SymbolRate is normalized; SymbolRateHz scales it by the sample rate.
	SymbolRate   float64 `json:"symbol_rate,omitempty"`
	SymbolRateHz float64 `json:"symbol_rate_hz,omitempty"`
	Votes        int     `json:"votes,omitempty"`

	Annotation Annotation `json:"annotation"`
	// Err describes why the detection could not be fully analysed.
	Err string `json:"error,omitempty"`
}

// Failed reports whether analysis of the detection failed.
func (r Result) Failed() bool { return r.Err != "" }

// annotate converts det to physical units for src.
func annotate(det *detect.Detection, sampleRate, center float64, author, comment string) Annotation {
	return Annotation{
		StartTime: float64(det.StartSample) / sampleRate,
		Duration:  float64(det.EndSample-det.StartSample) / sampleRate,
		LowFreq:   center + sampleRate*det.LowFreq,
		HighFreq:  center + sampleRate*det.HighFreq,
		Source:    SourceAutomatic,
		Author:    author,
		Comment:   comment,
	}
}
