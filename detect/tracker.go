package detect

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/cwbudde/algo-sigscan/config"
)

// ErrBlockLength is returned when a burst block is not a whole number of
// chunks.
var ErrBlockLength = errors.New("detect: block length is not a positive multiple of the chunk size")

// Option configures a [Tracker] or [Segmenter].
type Option func(*options)

type options struct {
	logger *slog.Logger
	ids    IDGenerator
}

// WithLogger sets the logger used for tracing. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithIDGenerator sets the source of detection ids. By default each new
// [Tracker], and so each [Segmenter.Run], starts a fresh sequence at 0.
func WithIDGenerator(g IDGenerator) Option {
	return func(o *options) {
		o.ids = g
	}
}

func applyOptions(opts []Option) options {
	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// Tracker follows bands of interest across the chunks of one burst.
//
// A Tracker keeps no state between calls to [Tracker.Process]; it is not
// safe for concurrent use because it reuses its spectrum buffers.
type Tracker struct {
	cfg       config.DetectConfig
	extractor *BOIExtractor
	ids       IDGenerator
	log       *slog.Logger
}

// NewTracker returns a tracker for cfg.
func NewTracker(cfg config.DetectConfig, opts ...Option) (*Tracker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := applyOptions(opts)
	if o.ids == nil {
		o.ids = NewSequentialIDs(0)
	}

	ex, err := NewBOIExtractor(cfg.ChunkSize, cfg.ThresholdFreq, cfg.DeglitchBins, cfg.WelchSegment)
	if err != nil {
		return nil, err
	}
	return &Tracker{cfg: cfg, extractor: ex, ids: o.ids, log: o.logger}, nil
}

// Process tracks every band in block, a burst starting at absolute sample
// blockStart, and returns the finalized detections in time order.
func (t *Tracker) Process(ctx context.Context, block []complex128, blockStart int) ([]*Detection, error) {
	dt := t.cfg.ChunkSize
	if len(block) == 0 || len(block)%dt != 0 {
		return nil, fmt.Errorf("%w: %d samples, chunk %d", ErrBlockLength, len(block), dt)
	}

	psds := make([][]float64, len(block)/dt)
	for i := range psds {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		psd, err := t.extractor.PSD(block[i*dt : (i+1)*dt])
		if err != nil {
			return nil, err
		}
		psds[i] = psd
	}
	return t.process(ctx, block, blockStart, psds)
}

// process runs tracking on precomputed chunk spectra.
func (t *Tracker) process(ctx context.Context, block []complex128, blockStart int, psds [][]float64) ([]*Detection, error) {
	bands := make([][]Band, len(psds))
	for i, psd := range psds {
		bands[i] = ExtractBands(psd, t.cfg.ThresholdFreq, t.cfg.DeglitchBins)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dets := t.track(bands, blockStart)
	t.reconcile(dets, psds, blockStart)
	return t.finalize(dets, block, blockStart), nil
}

// track opens, extends and closes tracks chunk by chunk.
func (t *Tracker) track(bands [][]Band, blockStart int) []*Detection {
	dt := t.cfg.ChunkSize
	tol := float64(t.cfg.ToleranceBins) * t.cfg.BinWidth()

	var open, done []*Detection
	for i, chunk := range bands {
		t.log.Debug("chunk bands", "chunk", i, "sample", blockStart+i*dt, "bands", chunk)

		assign, order := t.match(chunk, open, tol)

		next := make([]*Detection, 0, len(chunk))
		for b, k := range assign {
			if k >= 0 {
				continue
			}
			d := newDetection(t.ids.NextID(), blockStart+i*dt, chunk[b])
			t.log.Debug("track opened", "id", d.ID, "start", d.StartSample, "band", chunk[b])
			next = append(next, d)
		}

		matched := make([]bool, len(open))
		for _, k := range order {
			matched[k] = true
			next = append(next, open[k])
		}
		for b, k := range assign {
			if k >= 0 && lastAssigned(assign, k) == b {
				open[k].extend(chunk[b])
			}
		}

		for k, d := range open {
			if matched[k] {
				continue
			}
			d.close(blockStart + i*dt - 1)
			t.log.Debug("track closed", "id", d.ID, "end", d.EndSample, "band", d.Band())
			done = append(done, d)
		}
		open = next
	}

	end := blockStart + len(bands)*dt - 1
	for _, d := range open {
		d.close(end)
		t.log.Debug("track closed at burst end", "id", d.ID, "end", end, "band", d.Band())
		done = append(done, d)
	}
	return done
}

// lastAssigned returns the highest band index assigned to track k.
func lastAssigned(assign []int, k int) int {
	last := -1
	for b, a := range assign {
		if a == k {
			last = b
		}
	}
	return last
}

// contains reports whether band b lies inside d's last band widened by tol
// on both sides.
func contains(d *Detection, b Band, tol float64) bool {
	last := d.Last()
	return last.Low-tol < b.Low && last.High+tol > b.High
}

// match assigns each band the index of an open track, or -1 to open a new
// one. order lists matched tracks in order of their first assigned band.
func (t *Tracker) match(bands []Band, open []*Detection, tol float64) (assign, order []int) {
	assign = make([]int, len(bands))
	for b := range assign {
		assign[b] = -1
	}

	switch t.cfg.MatchPolicy {
	case config.MatchLastWins:
		for b, band := range bands {
			for k, d := range open {
				if contains(d, band, tol) {
					assign[b] = k
					break
				}
			}
		}
	default:
		type pair struct {
			b, k int
			dist float64
		}
		var pairs []pair
		for b, band := range bands {
			for k, d := range open {
				if contains(d, band, tol) {
					pairs = append(pairs, pair{b: b, k: k, dist: math.Abs(band.Center() - d.Last().Center())})
				}
			}
		}
		sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].dist < pairs[j].dist })

		taken := make([]bool, len(open))
		for _, p := range pairs {
			if assign[p.b] >= 0 || taken[p.k] {
				continue
			}
			assign[p.b] = p.k
			taken[p.k] = true
		}
	}

	seen := make([]bool, len(open))
	for _, k := range assign {
		if k >= 0 && !seen[k] {
			seen[k] = true
			order = append(order, k)
		}
	}
	return assign, order
}

// finalize drops short tracks, clamps the upper band edge, attaches samples
// and sorts by start sample.
func (t *Tracker) finalize(dets []*Detection, block []complex128, blockStart int) []*Detection {
	minSpan := t.cfg.MinDuration()

	out := dets[:0:0]
	for _, d := range dets {
		if d.Span() < minSpan {
			t.log.Debug("track dropped as too short", "id", d.ID, "start", d.StartSample, "end", d.EndSample)
			continue
		}
		if d.HighFreq > t.cfg.MaxHighFreq {
			d.HighFreq = t.cfg.MaxHighFreq
		}

		lo := max(d.StartSample-blockStart, 0)
		hi := min(d.EndSample+1-blockStart, len(block))
		if lo < hi {
			d.Samples = block[lo:hi]
		}
		out = append(out, d)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].StartSample != out[j].StartSample {
			return out[i].StartSample < out[j].StartSample
		}
		return out[i].ID < out[j].ID
	})
	return out
}
