package detect

import (
	"fmt"

	"github.com/cwbudde/algo-sigscan/dsp/spectrum"
)

// binRange is a half-open run of PSD bins [lo, hi) in shifted bin order.
type binRange struct{ lo, hi int }

// ExtractBands scans a shifted dB spectrum (bin 0 at -0.5) for runs of bins
// at or above threshold.
//
// Runs spanning no more than deglitchBins bins are discarded, then runs
// separated by a gap of at most deglitchBins bins are merged left to right.
// The result is ordered by frequency.
func ExtractBands(psdDB []float64, threshold float64, deglitchBins int) []Band {
	runs := scanRuns(psdDB, threshold, deglitchBins)
	runs = mergeRuns(runs, deglitchBins)

	df := 1 / float64(len(psdDB))
	out := make([]Band, len(runs))
	for i, r := range runs {
		out[i] = Band{Low: float64(r.lo)*df - 0.5, High: float64(r.hi)*df - 0.5}
	}
	return out
}

func scanRuns(psdDB []float64, threshold float64, deglitchBins int) []binRange {
	var (
		runs  []binRange
		in    bool
		start int
	)
	last := len(psdDB) - 1
	for j, p := range psdDB {
		switch {
		case !in && p >= threshold:
			in = true
			start = j
		case in && (p < threshold || j == last):
			// A run still open at the last bin ends there.
			in = false
			if j-start > deglitchBins {
				runs = append(runs, binRange{lo: start, hi: j})
			}
		}
	}
	return runs
}

func mergeRuns(runs []binRange, deglitchBins int) []binRange {
	if len(runs) < 2 {
		return runs
	}
	merged := runs[:0:0]
	cur := runs[0]
	for _, r := range runs[1:] {
		if r.lo-cur.hi <= deglitchBins {
			cur.hi = r.hi
			continue
		}
		merged = append(merged, cur)
		cur = r
	}
	return append(merged, cur)
}

// BOIExtractor computes per-chunk dB spectra and their bands of interest.
// It is not safe for concurrent use.
type BOIExtractor struct {
	welch     *spectrum.Welch
	threshold float64
	deglitch  int
}

// NewBOIExtractor returns an extractor for chunks of chunkSize samples.
// The spectrum has chunkSize bins; Welch segments are welchSegment long.
func NewBOIExtractor(chunkSize int, threshold float64, deglitchBins, welchSegment int) (*BOIExtractor, error) {
	w, err := spectrum.NewWelch(chunkSize, spectrum.WithSegmentLength(welchSegment))
	if err != nil {
		return nil, fmt.Errorf("detect: band extractor: %w", err)
	}
	return &BOIExtractor{welch: w, threshold: threshold, deglitch: deglitchBins}, nil
}

// ChunkSize returns the expected chunk length.
func (e *BOIExtractor) ChunkSize() int { return e.welch.NFFT() }

// PSD returns a freshly allocated shifted dB spectrum of chunk.
func (e *BOIExtractor) PSD(chunk []complex128) ([]float64, error) {
	dst := make([]float64, e.welch.NFFT())
	if err := e.welch.PSDdB(dst, chunk); err != nil {
		return nil, err
	}
	return dst, nil
}

// Extract returns the bands of interest of one chunk.
func (e *BOIExtractor) Extract(chunk []complex128) ([]Band, error) {
	psd, err := e.PSD(chunk)
	if err != nil {
		return nil, err
	}
	return ExtractBands(psd, e.threshold, e.deglitch), nil
}
