package classify

import (
	"testing"

	"github.com/cwbudde/algo-sigscan/config"
	"github.com/cwbudde/algo-sigscan/dsp/signal"
)

func TestIsNoise(t *testing.T) {
	const n = 16384
	cfg := config.Default().Classify
	g := signal.NewGenerator(signal.WithSeed(31))

	white, _ := g.Noise(1, n)
	preamble, _ := g.Repeated(1024, 1, n)

	tests := []struct {
		name string
		x    []complex128
		want bool
	}{
		{name: "white noise", x: white, want: true},
		{name: "repeated preamble", x: preamble, want: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			orig := append([]complex128(nil), tc.x...)
			got, err := IsNoise(tc.x, cfg)
			if err != nil {
				t.Fatalf("IsNoise error: %v", err)
			}
			if got != tc.want {
				s, _ := ScoreNoise(tc.x, cfg)
				t.Fatalf("IsNoise = %v, want %v (score %+v)", got, tc.want, s)
			}
			for i := range orig {
				if tc.x[i] != orig[i] {
					t.Fatalf("input modified at %d", i)
				}
			}
		})
	}
}

func TestNoiseScoreFewPeaks(t *testing.T) {
	if !(NoiseScore{Main: 10, Peaks: 1}).Noise(20) {
		t.Fatal("a lone peak must count as noise")
	}
	if (NoiseScore{Main: 10, Side: 1, Peaks: 5}).Noise(20) {
		t.Fatal("side peaks above main/20 must not count as noise")
	}
}

func TestScoreNoiseEmpty(t *testing.T) {
	if _, err := ScoreNoise(nil, config.Default().Classify); err == nil {
		t.Fatal("expected error for empty input")
	}
}
