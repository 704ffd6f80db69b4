// Package config holds every tunable of a scan run in one structure.
//
// Zero values are never meaningful; start from [Default] and override
// individual fields, or [Load] a YAML file whose keys are applied on top of
// the defaults so partial files are valid.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid")

// MatchPolicy selects how several bands found in one chunk are assigned to
// open tracks.
type MatchPolicy string

const (
	// MatchNearest assigns each open track at most one band, greedily by
	// band-center distance.
	MatchNearest MatchPolicy = "nearest"
	// MatchLastWins lets every band join the first open track that contains
	// it; when several bands join the same track the last one defines the
	// track's band for that chunk.
	MatchLastWins MatchPolicy = "last_wins"
)

// Config aggregates the configuration of all stages.
type Config struct {
	Detect     DetectConfig     `yaml:"detect"`
	Classify   ClassifyConfig   `yaml:"classify"`
	SymbolRate SymbolRateConfig `yaml:"symbol_rate"`
	Pipeline   PipelineConfig   `yaml:"pipeline"`
}

// DetectConfig configures time segmentation and frequency tracking.
// Bin counts are in units of the PSD bin width 1/ChunkSize.
type DetectConfig struct {
	ChunkSize         int         `yaml:"chunk_size"`
	ThresholdTime     float64     `yaml:"threshold_t"`
	ThresholdFreq     float64     `yaml:"threshold_f"`
	WelchSegment      int         `yaml:"welch_segment"`
	DeglitchBins      int         `yaml:"deglitch_bins"`
	ToleranceBins     int         `yaml:"tolerance_bins"`
	NeighborGap       int         `yaml:"neighbor_gap"`
	EndHysteresis     float64     `yaml:"end_hysteresis_db"`
	MinDurationChunks int         `yaml:"min_duration_chunks"`
	MaxHighFreq       float64     `yaml:"max_high_freq"`
	MatchPolicy       MatchPolicy `yaml:"match_policy"`
}

// BinWidth returns the normalized width of one PSD bin.
func (c DetectConfig) BinWidth() float64 {
	return 1 / float64(c.ChunkSize)
}

// MinDuration returns the shortest reportable detection in samples.
func (c DetectConfig) MinDuration() int {
	return c.MinDurationChunks * c.ChunkSize
}

// ClassifyConfig configures band extraction and the carrier/noise tests.
type ClassifyConfig struct {
	FilterTaps            int     `yaml:"filter_taps"`
	MulticarrierThreshold float64 `yaml:"multicarrier_threshold"`
	DespikeFraction       float64 `yaml:"despike_fraction"`
	DespikeRadius         int     `yaml:"despike_radius"`
	NoisePeaks            int     `yaml:"noise_peaks"`
	NoisePeakRatio        float64 `yaml:"noise_peak_ratio"`
}

// SymbolRateConfig configures the cyclostationary symbol-rate search.
type SymbolRateConfig struct {
	Shifts         int     `yaml:"shifts"`
	Candidates     int     `yaml:"candidates"`
	MaxSamples     int     `yaml:"max_samples"`
	LowerBound     float64 `yaml:"lower_bound"`
	HarmonicWindow int     `yaml:"harmonic_window"`
	MedianRadius   int     `yaml:"median_radius"`
	Smoothing      float64 `yaml:"smoothing"`
	Decimals       int     `yaml:"decimals"`
	// Workers bounds concurrent shift evaluations; 0 means GOMAXPROCS.
	Workers int `yaml:"workers"`
}

// PipelineConfig configures orchestration and result annotation.
type PipelineConfig struct {
	NormalizeInput     bool   `yaml:"normalize_input"`
	EstimateSymbolRate bool   `yaml:"estimate_symbol_rate"`
	Author             string `yaml:"author"`
	Comment            string `yaml:"comment"`
}

// Default returns the documented defaults.
func Default() Config {
	return Config{
		Detect: DetectConfig{
			ChunkSize:         4096,
			ThresholdTime:     -20,
			ThresholdFreq:     -30,
			WelchSegment:      256,
			DeglitchBins:      100,
			ToleranceBins:     100,
			NeighborGap:       100,
			EndHysteresis:     10,
			MinDurationChunks: 2,
			MaxHighFreq:       0.49,
			MatchPolicy:       MatchNearest,
		},
		Classify: ClassifyConfig{
			FilterTaps:            283,
			MulticarrierThreshold: 1e-2,
			DespikeFraction:       0.1,
			DespikeRadius:         20,
			NoisePeaks:            5,
			NoisePeakRatio:        20,
		},
		SymbolRate: SymbolRateConfig{
			Shifts:         20,
			Candidates:     100,
			MaxSamples:     65536,
			LowerBound:     1e-4,
			HarmonicWindow: 30,
			MedianRadius:   3,
			Smoothing:      0.005,
			Decimals:       4,
		},
		Pipeline: PipelineConfig{
			NormalizeInput:     true,
			EstimateSymbolRate: true,
			Author:             "sigscan",
		},
	}
}

// Load reads a YAML file over [Default] and validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over [Default] and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Marshal encodes c as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate reports every invalid field. Each failure wraps [ErrInvalid].
func (c Config) Validate() error {
	return errors.Join(c.Detect.Validate(), c.Classify.Validate(), c.SymbolRate.Validate())
}

// checker accumulates validation failures.
type checker struct {
	errs []error
}

func (c *checker) check(ok bool, format string, args ...any) {
	if !ok {
		c.errs = append(c.errs, fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...)))
	}
}

func (c *checker) err() error { return errors.Join(c.errs...) }

// Validate reports every invalid detect field.
func (d DetectConfig) Validate() error {
	var c checker
	c.check(d.ChunkSize > 0, "detect.chunk_size must be > 0, got %d", d.ChunkSize)
	c.check(finite(d.ThresholdTime), "detect.threshold_t must be finite, got %v", d.ThresholdTime)
	c.check(finite(d.ThresholdFreq), "detect.threshold_f must be finite, got %v", d.ThresholdFreq)
	c.check(d.WelchSegment > 0, "detect.welch_segment must be > 0, got %d", d.WelchSegment)
	c.check(d.DeglitchBins >= 0, "detect.deglitch_bins must be >= 0, got %d", d.DeglitchBins)
	c.check(d.ToleranceBins >= 0, "detect.tolerance_bins must be >= 0, got %d", d.ToleranceBins)
	c.check(d.NeighborGap >= 0, "detect.neighbor_gap must be >= 0, got %d", d.NeighborGap)
	c.check(finite(d.EndHysteresis) && d.EndHysteresis >= 0, "detect.end_hysteresis_db must be >= 0, got %v", d.EndHysteresis)
	c.check(d.MinDurationChunks >= 0, "detect.min_duration_chunks must be >= 0, got %d", d.MinDurationChunks)
	c.check(d.MaxHighFreq > -0.5 && d.MaxHighFreq <= 0.5, "detect.max_high_freq must be in (-0.5, 0.5], got %v", d.MaxHighFreq)
	c.check(d.MatchPolicy == MatchNearest || d.MatchPolicy == MatchLastWins,
		"detect.match_policy must be %q or %q, got %q", MatchNearest, MatchLastWins, d.MatchPolicy)
	return c.err()
}

// Validate reports every invalid classify field.
func (k ClassifyConfig) Validate() error {
	var c checker
	c.check(k.FilterTaps > 0, "classify.filter_taps must be > 0, got %d", k.FilterTaps)
	c.check(finite(k.MulticarrierThreshold) && k.MulticarrierThreshold >= 0,
		"classify.multicarrier_threshold must be >= 0, got %v", k.MulticarrierThreshold)
	c.check(k.DespikeFraction >= 0 && k.DespikeFraction < 1, "classify.despike_fraction must be in [0, 1), got %v", k.DespikeFraction)
	c.check(k.DespikeRadius > 0, "classify.despike_radius must be > 0, got %d", k.DespikeRadius)
	c.check(k.NoisePeaks >= 2, "classify.noise_peaks must be >= 2, got %d", k.NoisePeaks)
	c.check(k.NoisePeakRatio > 0 && finite(k.NoisePeakRatio), "classify.noise_peak_ratio must be > 0, got %v", k.NoisePeakRatio)
	return c.err()
}

// Validate reports every invalid symbol_rate field.
func (s SymbolRateConfig) Validate() error {
	var c checker
	c.check(s.Shifts > 0, "symbol_rate.shifts must be > 0, got %d", s.Shifts)
	c.check(s.Candidates > 0, "symbol_rate.candidates must be > 0, got %d", s.Candidates)
	c.check(s.MaxSamples > 1, "symbol_rate.max_samples must be > 1, got %d", s.MaxSamples)
	c.check(s.LowerBound >= 0 && s.LowerBound < 0.5, "symbol_rate.lower_bound must be in [0, 0.5), got %v", s.LowerBound)
	c.check(s.HarmonicWindow > 0, "symbol_rate.harmonic_window must be > 0, got %d", s.HarmonicWindow)
	c.check(s.MedianRadius > 0, "symbol_rate.median_radius must be > 0, got %d", s.MedianRadius)
	c.check(s.Smoothing > 0 && s.Smoothing <= 1, "symbol_rate.smoothing must be in (0, 1], got %v", s.Smoothing)
	c.check(s.Decimals >= 0 && s.Decimals <= 15, "symbol_rate.decimals must be in [0, 15], got %d", s.Decimals)
	c.check(s.Workers >= 0, "symbol_rate.workers must be >= 0, got %d", s.Workers)
	return c.err()
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
