package classify

import (
	"log/slog"
	"math/cmplx"

	"github.com/cwbudde/algo-sigscan/config"
	"github.com/cwbudde/algo-sigscan/dsp/filter/fir"
	"github.com/cwbudde/algo-sigscan/dsp/spectrum"
	"github.com/cwbudde/algo-sigscan/dsp/window"
	freqstats "github.com/cwbudde/algo-sigscan/stats/frequency"
	stats "github.com/cwbudde/algo-sigscan/stats/time"
)

// spectrumBins is the Welch resolution of [Result.Spectrum].
const spectrumBins = 256

// Kind is the outcome of a classification.
type Kind string

const (
	SingleCarrier Kind = "single_carrier"
	Multicarrier  Kind = "multicarrier"
	Noise         Kind = "noise"
)

// Result is what [Classifier.Classify] found for one band.
type Result struct {
	Kind      Kind
	Cumulants Cumulants
	// NoiseScore is set when the multi-carrier verdict was cross-checked.
	NoiseScore *NoiseScore
	// Baseband is the filtered, non-resampled extraction. The noise test
	// runs on it and symbol-rate estimation expects it.
	Baseband []complex128
	// Envelope summarizes |Baseband|.
	Envelope stats.Summary
	// Spectrum describes the Welch spectrum of Baseband. Its frequencies
	// are relative to the band center.
	Spectrum freqstats.Stats
}

// Option configures a [Classifier].
type Option func(*Classifier)

// WithLogger sets the logger. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(c *Classifier) {
		if l != nil {
			c.log = l
		}
	}
}

// Classifier runs band extraction and the carrier and noise tests.
// It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	cfg config.ClassifyConfig
	log *slog.Logger
}

// New validates cfg and returns a classifier.
func New(cfg config.ClassifyConfig, opts ...Option) (*Classifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Classifier{cfg: cfg, log: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// Classify extracts the band [low, high] from x and classifies it.
func (c *Classifier) Classify(x []complex128, low, high float64) (Result, error) {
	ext, err := ExtractBand(x, low, high, c.cfg.FilterTaps)
	if err != nil {
		return Result{}, err
	}
	res := Result{Baseband: ext.Filtered, Envelope: envelope(ext.Filtered)}
	_, psd, err := spectrum.PSD(ext.Filtered, spectrumBins)
	if err != nil {
		return Result{}, err
	}
	res.Spectrum = freqstats.Calculate(psd)
	c.log.Debug("band extracted",
		"low", low,
		"high", high,
		"cutoff", ext.Cutoff,
		"window", filterWindow.Name,
		"sidelobe_db", filterWindow.HighestSidelobe,
		"edge_db", ext.EdgeDB,
		"samples", res.Envelope.Length,
		"rms_db", res.Envelope.RMSDB(),
		"peak_db", res.Envelope.PeakDB(),
		"crest", res.Envelope.CrestFactor,
		"flatness", res.Spectrum.Flatness,
		"occupied", res.Spectrum.Occupied())

	resampled, err := ExtractBandResampled(x, low, high, c.cfg.FilterTaps)
	if err != nil {
		return Result{}, err
	}
	res.Cumulants, err = FourthCumulants(resampled)
	if err != nil {
		return Result{}, err
	}
	c.log.Debug("carrier test",
		"k4_real", res.Cumulants.Real,
		"k4_imag", res.Cumulants.Imag,
		"threshold", c.cfg.MulticarrierThreshold)

	if res.Cumulants.Max() > c.cfg.MulticarrierThreshold {
		res.Kind = SingleCarrier
		return res, nil
	}

	score, err := ScoreNoise(ext.Filtered, c.cfg)
	if err != nil {
		return Result{}, err
	}
	res.NoiseScore = &score
	c.log.Debug("noise test", "main", score.Main, "side", score.Side, "peaks", score.Peaks)

	res.Kind = Multicarrier
	if score.Noise(c.cfg.NoisePeakRatio) {
		res.Kind = Noise
	}
	return res, nil
}

var filterWindow = window.Info(fir.DefaultWindow)

func envelope(x []complex128) stats.Summary {
	mag := make([]float64, len(x))
	for i, v := range x {
		mag[i] = cmplx.Abs(v)
	}
	return stats.Calculate(mag)
}
