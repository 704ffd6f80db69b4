package detect

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/cwbudde/algo-sigscan/config"
)

// Callback receives each finalized detection together with the burst block
// it was found in and the absolute index of the block's first sample.
// Returning an error stops the run.
type Callback func(block []complex128, blockStart int, det *Detection) error

// Summary counts what a [Segmenter.Run] saw.
type Summary struct {
	Chunks     int
	Bursts     int
	Detections int
}

// Segmenter splits a signal into chunks, groups loud chunks into bursts and
// tracks the bands inside each burst.
type Segmenter struct {
	cfg  config.DetectConfig
	opts []Option
	log  *slog.Logger
}

// NewSegmenter validates cfg and returns a segmenter.
func NewSegmenter(cfg config.DetectConfig, opts ...Option) (*Segmenter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := applyOptions(opts)
	return &Segmenter{cfg: cfg, opts: opts, log: o.logger}, nil
}

// Run scans samples and invokes cb once per detection, in time order. A
// trailing partial chunk is ignored.
//
// A burst starts at the first chunk whose peak PSD bin reaches the time
// threshold. It ends at the next chunk below the threshold, which is
// included in the block handed to the tracker so tracks can be seen ending,
// or at the last chunk.
func (s *Segmenter) Run(ctx context.Context, samples []complex128, cb Callback) (Summary, error) {
	dt := s.cfg.ChunkSize
	sum := Summary{Chunks: len(samples) / dt}
	if cb == nil {
		cb = func([]complex128, int, *Detection) error { return nil }
	}

	tracker, err := NewTracker(s.cfg, s.opts...)
	if err != nil {
		return sum, err
	}

	var (
		inBurst bool
		first   int
		psds    [][]float64
	)
	for i := 0; i < sum.Chunks; i++ {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		psd, err := tracker.extractor.PSD(samples[i*dt : (i+1)*dt])
		if err != nil {
			return sum, fmt.Errorf("detect: chunk %d: %w", i, err)
		}
		peak := slices.Max(psd)

		if !inBurst && peak >= s.cfg.ThresholdTime {
			inBurst = true
			first = i
			psds = append(psds[:0], psd)
			continue
		}
		if !inBurst {
			continue
		}
		psds = append(psds, psd)
		if peak >= s.cfg.ThresholdTime && i != sum.Chunks-1 {
			continue
		}

		inBurst = false
		sum.Bursts++
		blockStart := first * dt
		block := samples[blockStart : (i+1)*dt]
		s.log.Debug("burst", "first_chunk", first, "last_chunk", i, "start", blockStart, "end", (i+1)*dt-1)

		dets, err := tracker.process(ctx, block, blockStart, psds)
		if err != nil {
			return sum, err
		}
		for _, d := range dets {
			sum.Detections++
			s.log.Info("detection",
				"id", d.ID,
				"start", d.StartSample,
				"end", d.EndSample,
				"center", d.CenterFreq(),
				"low", d.LowFreq,
				"high", d.HighFreq)
			if err := cb(block, blockStart, d); err != nil {
				return sum, fmt.Errorf("detect: callback for detection %d: %w", d.ID, err)
			}
		}
	}
	return sum, nil
}
