package testutil

import (
	"testing"

	"github.com/cwbudde/algo-sigscan/dsp/signal"
)

// Burst is a flat band of noise switched on for Length samples from Start.
type Burst struct {
	Start     int
	Length    int
	Center    float64
	Bandwidth float64
	Power     float64
}

// Scene returns n samples of complex Gaussian background noise with the
// given power plus every burst. The result depends only on seed and the
// arguments.
func Scene(tb testing.TB, seed int64, n int, floorPower float64, bursts ...Burst) []complex128 {
	tb.Helper()

	g := signal.NewGenerator(signal.WithSeed(seed))
	out, err := g.Noise(floorPower, n)
	if err != nil {
		tb.Fatalf("scene floor: %v", err)
	}
	for i, b := range bursts {
		x, err := g.BandNoise(b.Center, b.Bandwidth, b.Power, b.Length)
		if err != nil {
			tb.Fatalf("scene burst %d: %v", i, err)
		}
		signal.Add(out, x, b.Start)
	}
	return out
}
