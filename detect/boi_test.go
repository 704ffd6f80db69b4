package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-sigscan/internal/testutil"
)

// flatPSD returns n bins at floor with the given [lo, hi) runs raised to level.
func flatPSD(n int, floor, level float64, runs ...[2]int) []float64 {
	psd := make([]float64, n)
	for i := range psd {
		psd[i] = floor
	}
	for _, r := range runs {
		for i := r[0]; i < r[1]; i++ {
			psd[i] = level
		}
	}
	return psd
}

func TestExtractBandsSingleRun(t *testing.T) {
	psd := flatPSD(1024, -60, -10, [2]int{300, 600})
	bands := ExtractBands(psd, -30, 100)
	require.Len(t, bands, 1)

	df := 1.0 / 1024
	assert.InDelta(t, 300*df-0.5, bands[0].Low, 1e-12)
	assert.InDelta(t, 600*df-0.5, bands[0].High, 1e-12)
}

func TestExtractBandsDiscardsNarrowRuns(t *testing.T) {
	// 100 bins is not wider than the deglitch width.
	psd := flatPSD(1024, -60, -10, [2]int{100, 200}, [2]int{500, 700})
	bands := ExtractBands(psd, -30, 100)
	require.Len(t, bands, 1)
	assert.InDelta(t, 500.0/1024-0.5, bands[0].Low, 1e-12)
}

func TestExtractBandsMergesNarrowGaps(t *testing.T) {
	psd := flatPSD(2048, -60, -10,
		[2]int{100, 300}, [2]int{350, 600}, // 50-bin notch: merged
		[2]int{900, 1100}, [2]int{1300, 1500}) // 200-bin gap: kept apart
	bands := ExtractBands(psd, -30, 100)
	require.Len(t, bands, 3)

	df := 1.0 / 2048
	assert.InDelta(t, 100*df-0.5, bands[0].Low, 1e-12)
	assert.InDelta(t, 600*df-0.5, bands[0].High, 1e-12)
	assert.InDelta(t, 900*df-0.5, bands[1].Low, 1e-12)
	assert.InDelta(t, 1100*df-0.5, bands[1].High, 1e-12)
	assert.InDelta(t, 1300*df-0.5, bands[2].Low, 1e-12)
}

func TestExtractBandsRunToLastBin(t *testing.T) {
	psd := flatPSD(1024, -60, -10, [2]int{800, 1024})
	bands := ExtractBands(psd, -30, 100)
	require.Len(t, bands, 1)
	assert.InDelta(t, 1023.0/1024-0.5, bands[0].High, 1e-12)
}

func TestExtractBandsNone(t *testing.T) {
	assert.Empty(t, ExtractBands(flatPSD(512, -60, 0), -30, 100))
}

func TestBOIExtractorFindsBand(t *testing.T) {
	const dt = 4096
	x := testutil.Scene(t, 1, dt, 1e-4, testutil.Burst{Length: dt, Center: 0.1, Bandwidth: 0.1, Power: 1})

	ex, err := NewBOIExtractor(dt, -30, 100, 256)
	require.NoError(t, err)
	assert.Equal(t, dt, ex.ChunkSize())

	bands, err := ex.Extract(x)
	require.NoError(t, err)
	require.Len(t, bands, 1)
	assert.InDelta(t, 0.05, bands[0].Low, 0.01)
	assert.InDelta(t, 0.15, bands[0].High, 0.01)
}
