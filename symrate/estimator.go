package symrate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-sigscan/config"
)

var (
	// ErrTooShort is returned when the signal is too short for the
	// configured number of shifts.
	ErrTooShort = errors.New("symrate: signal too short")
	// ErrNoCandidates is returned when no shift found a spectral line
	// above the lower bound.
	ErrNoCandidates = errors.New("symrate: no candidate frequencies")
)

// minSamples is the shortest shifted signal a shift can search.
const minSamples = 8

// Shift is the outcome of one I/Q shift.
type Shift struct {
	// Shift is the delay of the imaginary part in samples.
	Shift int
	// Rate is the estimate rounded to the configured decimals.
	Rate float64
	// Raw is the unrounded estimate.
	Raw float64
	// Peak is the transform magnitude backing the estimate.
	Peak float64
	// Coherence is the de-trended coherence of the winning candidate.
	Coherence float64
	// Valid is false when the shift found no candidate; it then does not vote.
	Valid bool
}

// Estimate is the aggregated result of [Estimator.Estimate].
type Estimate struct {
	// Rate is the majority rate, normalized to the sample rate.
	Rate float64
	// Votes is how many shifts agreed on Rate.
	Votes int
	// Shifts holds every shift's outcome, indexed by shift.
	Shifts []Shift
}

// Option configures an [Estimator].
type Option func(*Estimator)

// WithLogger sets the logger. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(e *Estimator) {
		if l != nil {
			e.log = l
		}
	}
}

// WithWorkers bounds the number of shifts evaluated concurrently. Values
// below one select GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(e *Estimator) {
		e.workers = n
	}
}

// Estimator runs the multi-shift symbol-rate search. It holds no mutable
// state and is safe for concurrent use.
type Estimator struct {
	cfg     config.SymbolRateConfig
	workers int
	log     *slog.Logger
}

// New validates cfg and returns an estimator.
func New(cfg config.SymbolRateConfig, opts ...Option) (*Estimator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Estimator{cfg: cfg, workers: cfg.Workers, log: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	if e.workers < 1 {
		e.workers = runtime.GOMAXPROCS(0)
	}
	return e, nil
}

// Estimate evaluates every configured I/Q shift of x and returns the
// majority rate. Ties go to the rate with the larger summed coherence,
// then to the smaller rate.
func (e *Estimator) Estimate(ctx context.Context, x []complex128) (Estimate, error) {
	if len(x)-(e.cfg.Shifts-1) < minSamples {
		return Estimate{}, fmt.Errorf("%w: %d samples for %d shifts", ErrTooShort, len(x), e.cfg.Shifts)
	}

	shifts := make([]Shift, e.cfg.Shifts)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for w := range shifts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s, err := e.EstimateShift(x, w)
			if err != nil {
				return fmt.Errorf("symrate: shift %d: %w", w, err)
			}
			shifts[w] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Estimate{}, err
	}

	for _, s := range shifts {
		e.log.Debug("shift estimate",
			"shift", s.Shift,
			"rate", s.Rate,
			"peak", s.Peak,
			"coherence", s.Coherence,
			"valid", s.Valid)
	}

	est, err := vote(shifts)
	if err != nil {
		return Estimate{}, err
	}
	e.log.Debug("symbol rate", "rate", est.Rate, "votes", est.Votes, "shifts", len(shifts))
	return est, nil
}

// EstimateShift runs the search on x with its imaginary part delayed by w
// samples.
func (e *Estimator) EstimateShift(x []complex128, w int) (Shift, error) {
	if w < 0 || len(x)-w < minSamples {
		return Shift{}, fmt.Errorf("%w: %d samples for shift %d", ErrTooShort, len(x), w)
	}
	y := shiftIQ(x, w)
	res := Shift{Shift: w}

	nl, err := Transform(y)
	if err != nil {
		return res, err
	}
	nfft := len(nl)

	bins := Candidates(nl, e.cfg.LowerBound, e.cfg.Candidates)
	if len(bins) == 0 {
		return res, nil
	}
	alphas := make([]float64, len(bins))
	for i, b := range bins {
		alphas[i] = float64(b) / float64(nfft)
	}

	scores, err := Coherence(central(y, e.cfg.MaxSamples), alphas, e.cfg.Smoothing)
	if err != nil {
		return res, err
	}
	detrended := SubtractLocalMean(scores, e.cfg.MedianRadius)
	best := floats.MaxIdx(detrended)

	idx := int(alphas[best] * float64(nfft))
	res.Raw, res.Peak = resolveHarmonic(nl, idx, e.cfg.HarmonicWindow)
	res.Rate = round(res.Raw, e.cfg.Decimals)
	res.Coherence = detrended[best]
	res.Valid = true
	return res, nil
}

func vote(shifts []Shift) (Estimate, error) {
	type tally struct {
		votes int
		score float64
	}
	tallies := make(map[float64]*tally)
	for _, s := range shifts {
		if !s.Valid {
			continue
		}
		t, ok := tallies[s.Rate]
		if !ok {
			t = &tally{}
			tallies[s.Rate] = t
		}
		t.votes++
		t.score += s.Coherence
	}
	if len(tallies) == 0 {
		return Estimate{}, ErrNoCandidates
	}

	var (
		best  float64
		bestT *tally
	)
	for rate, t := range tallies {
		switch {
		case bestT == nil,
			t.votes > bestT.votes,
			t.votes == bestT.votes && t.score > bestT.score,
			t.votes == bestT.votes && t.score == bestT.score && rate < best:
			best, bestT = rate, t
		}
	}
	return Estimate{Rate: best, Votes: bestT.votes, Shifts: shifts}, nil
}

func round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.RoundToEven(v*p) / p
}
