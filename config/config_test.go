package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 4096, cfg.Detect.ChunkSize)
	assert.Equal(t, -20.0, cfg.Detect.ThresholdTime)
	assert.Equal(t, -30.0, cfg.Detect.ThresholdFreq)
	assert.Equal(t, 2*4096, cfg.Detect.MinDuration())
	assert.InDelta(t, 1.0/4096, cfg.Detect.BinWidth(), 1e-18)
	assert.Equal(t, MatchNearest, cfg.Detect.MatchPolicy)
	assert.Equal(t, 283, cfg.Classify.FilterTaps)
	assert.Equal(t, 20, cfg.SymbolRate.Shifts)
	assert.Equal(t, 100, cfg.SymbolRate.Candidates)
	assert.Equal(t, 65536, cfg.SymbolRate.MaxSamples)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero chunk", func(c *Config) { c.Detect.ChunkSize = 0 }},
		{"negative chunk", func(c *Config) { c.Detect.ChunkSize = -4 }},
		{"nan threshold_t", func(c *Config) { c.Detect.ThresholdTime = math.NaN() }},
		{"inf threshold_f", func(c *Config) { c.Detect.ThresholdFreq = math.Inf(1) }},
		{"policy", func(c *Config) { c.Detect.MatchPolicy = "closest" }},
		{"taps", func(c *Config) { c.Classify.FilterTaps = 0 }},
		{"despike fraction", func(c *Config) { c.Classify.DespikeFraction = 1 }},
		{"shifts", func(c *Config) { c.SymbolRate.Shifts = 0 }},
		{"smoothing", func(c *Config) { c.SymbolRate.Smoothing = 0 }},
		{"workers", func(c *Config) { c.SymbolRate.Workers = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestValidateReportsAllFailures(t *testing.T) {
	cfg := Default()
	cfg.Detect.ChunkSize = 0
	cfg.SymbolRate.Shifts = 0

	err := cfg.Validate()
	require.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "detect.chunk_size")
	assert.Contains(t, err.Error(), "symbol_rate.shifts")
}

func TestParsePartialOverDefaults(t *testing.T) {
	cfg, err := Parse([]byte("detect:\n  chunk_size: 1024\n  match_policy: last_wins\nsymbol_rate:\n  shifts: 4\n"))
	require.NoError(t, err)

	assert.Equal(t, 1024, cfg.Detect.ChunkSize)
	assert.Equal(t, MatchLastWins, cfg.Detect.MatchPolicy)
	assert.Equal(t, 4, cfg.SymbolRate.Shifts)
	assert.Equal(t, -20.0, cfg.Detect.ThresholdTime, "untouched keys keep defaults")
	assert.Equal(t, 283, cfg.Classify.FilterTaps)
}

func TestParseRejectsInvalid(t *testing.T) {
	_, err := Parse([]byte("detect:\n  chunk_size: 0\n"))
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = Parse([]byte("detect: [not, a, map]"))
	assert.Error(t, err)
}

func TestLoadRoundTrip(t *testing.T) {
	want := Default()
	want.Detect.ThresholdFreq = -42
	want.Pipeline.Comment = "bench capture"

	data, err := want.Marshal()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "sigscan.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
