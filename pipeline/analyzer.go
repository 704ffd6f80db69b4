package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/cwbudde/algo-sigscan/classify"
	"github.com/cwbudde/algo-sigscan/config"
	"github.com/cwbudde/algo-sigscan/detect"
	"github.com/cwbudde/algo-sigscan/dsp/signal"
	"github.com/cwbudde/algo-sigscan/symrate"
)

// ErrInvalidSource is returned for a source without samples or with a
// non-positive sample rate.
var ErrInvalidSource = errors.New("pipeline: invalid source")

// Option configures an [Analyzer].
type Option func(*Analyzer)

// WithLogger sets the logger passed down to every stage. The default
// discards.
func WithLogger(l *slog.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.log = l
		}
	}
}

// WithSink sets where results go. The default discards them; the
// [Report] still counts them.
func WithSink(s Sink) Option {
	return func(a *Analyzer) {
		if s != nil {
			a.sink = s
		}
	}
}

// WithMetrics records run statistics in m.
func WithMetrics(m *Metrics) Option {
	return func(a *Analyzer) {
		a.metrics = m
	}
}

// WithRunID fixes the run id instead of drawing a random UUID per run.
func WithRunID(id string) Option {
	return func(a *Analyzer) {
		a.runID = id
	}
}

// Report summarizes one [Analyzer.Run].
type Report struct {
	RunID      string
	Chunks     int
	Bursts     int
	Detections int
	Failures   int
	Elapsed    time.Duration
}

// Analyzer runs the full detection and classification chain.
type Analyzer struct {
	cfg        config.Config
	classifier *classify.Classifier
	estimator  *symrate.Estimator
	sink       Sink
	metrics    *Metrics
	runID      string
	log        *slog.Logger
}

// New validates cfg and returns an analyzer.
func New(cfg config.Config, opts ...Option) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &Analyzer{cfg: cfg, sink: discardSink{}, log: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}

	var err error
	a.classifier, err = classify.New(cfg.Classify, classify.WithLogger(a.log))
	if err != nil {
		return nil, err
	}
	a.estimator, err = symrate.New(cfg.SymbolRate, symrate.WithLogger(a.log))
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Run analyses src and emits one result per detection, in time order.
// It stops early on cancellation or when the sink fails.
func (a *Analyzer) Run(ctx context.Context, src Source) (Report, error) {
	begin := time.Now()
	rep := Report{RunID: a.runID}
	if rep.RunID == "" {
		rep.RunID = uuid.NewString()
	}
	log := a.log.With("run_id", rep.RunID)

	if src == nil || src.Len() == 0 || !(src.SampleRate() > 0) {
		return rep, ErrInvalidSource
	}
	samples := src.Samples()
	if a.cfg.Pipeline.NormalizeInput {
		var scale float64
		var err error
		samples, scale, err = signal.NormalizeMean(samples)
		if err != nil {
			return rep, fmt.Errorf("pipeline: normalize: %w", err)
		}
		log.Debug("input normalized", "scale", scale)
	}

	seg, err := detect.NewSegmenter(a.cfg.Detect, detect.WithLogger(log))
	if err != nil {
		return rep, err
	}
	log.Info("analysis started",
		"samples", len(samples),
		"sample_rate", src.SampleRate(),
		"center_frequency", src.CenterFrequency())

	sum, err := seg.Run(ctx, samples, func(_ []complex128, _ int, det *detect.Detection) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := a.analyze(ctx, log, src, det)
		if err != nil {
			return err
		}
		res.RunID = rep.RunID
		rep.Detections++
		if res.Failed() {
			rep.Failures++
		}
		return a.sink.Emit(ctx, res)
	})
	rep.Chunks, rep.Bursts = sum.Chunks, sum.Bursts
	rep.Elapsed = time.Since(begin)
	if m := a.metrics; m != nil {
		m.chunks.Add(float64(sum.Chunks))
		m.bursts.Add(float64(sum.Bursts))
	}
	if err != nil {
		return rep, err
	}

	if a.metrics != nil {
		a.metrics.runs.Inc()
	}
	log.Info("analysis finished",
		"chunks", rep.Chunks,
		"bursts", rep.Bursts,
		"detections", rep.Detections,
		"failures", rep.Failures,
		"elapsed", rep.Elapsed)
	return rep, nil
}

// analyze classifies det. Analysis failures, panics included, end up in
// Result.Err; only cancellation is returned as an error.
func (a *Analyzer) analyze(ctx context.Context, log *slog.Logger, src Source, det *detect.Detection) (res Result, err error) {
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			res.Err = fmt.Sprintf("pipeline: panic analysing detection %d: %v", det.ID, p)
		}
		if m := a.metrics; m != nil {
			m.detections.Inc()
			m.analysisSeconds.Observe(time.Since(start).Seconds())
			if res.Failed() {
				m.failures.Inc()
			}
			m.observeKind(res.Kind)
		}
		if res.Failed() && err == nil {
			log.Warn("detection analysis failed", "id", det.ID, "error", res.Err)
		}
	}()

	res = Result{
		ID:          det.ID,
		StartSample: det.StartSample,
		EndSample:   det.EndSample,
		LowFreq:     det.LowFreq,
		HighFreq:    det.HighFreq,
	}
	res.Annotation = annotate(det, src.SampleRate(), src.CenterFrequency(), a.cfg.Pipeline.Author, a.cfg.Pipeline.Comment)

	if err = a.classifyInto(ctx, log, &res, src, det); err != nil {
		if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			return res, err
		}
		res.Err = err.Error()
		err = nil
	}
	return res, nil
}

func (a *Analyzer) classifyInto(ctx context.Context, log *slog.Logger, res *Result, src Source, det *detect.Detection) error {
	cl, err := a.classifier.Classify(det.Samples, det.LowFreq, det.HighFreq)
	if err != nil {
		return err
	}
	res.Kind = cl.Kind
	res.Multicarrier = cl.Kind == classify.Multicarrier
	res.Flatness = cl.Spectrum.Flatness
	res.OccupiedBandwidthHz = cl.Spectrum.Occupied() * src.SampleRate()
	log.Info("detection classified", "id", det.ID, "kind", cl.Kind, "k4_max", cl.Cumulants.Max())

	if cl.Kind != classify.SingleCarrier || !a.cfg.Pipeline.EstimateSymbolRate {
		return nil
	}
	est, err := a.estimator.Estimate(ctx, cl.Baseband)
	if err != nil {
		return err
	}
	res.SymbolRate = est.Rate
	res.SymbolRateHz = est.Rate * src.SampleRate()
	res.Votes = est.Votes
	log.Info("symbol rate estimated", "id", det.ID, "rate", est.Rate, "rate_hz", res.SymbolRateHz, "votes", est.Votes)
	return nil
}
