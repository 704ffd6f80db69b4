package classify

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-sigscan/dsp/signal"
	stats "github.com/cwbudde/algo-sigscan/stats/time"
)

func TestIsMulticarrier(t *testing.T) {
	const n = 4096
	g := signal.NewGenerator(signal.WithSeed(21))

	tone, _ := g.Tone(0.0123, 4, n)
	noise, _ := g.Noise(1, n)
	signal.Add(tone, noise, 0)

	eight, _ := g.Multicarrier(8, 0.03, 1, n)
	many, _ := g.Multicarrier(32, 0.01, 1, n)

	tests := []struct {
		name string
		x    []complex128
		want bool
	}{
		{name: "tone plus noise", x: tone, want: false},
		{name: "8 subcarriers", x: eight, want: true},
		{name: "32 subcarriers", x: many, want: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := IsMulticarrier(tc.x, 1e-2)
			if err != nil {
				t.Fatalf("IsMulticarrier error: %v", err)
			}
			if got != tc.want {
				c, _ := FourthCumulants(tc.x)
				t.Fatalf("IsMulticarrier = %v, want %v (cumulants %+v)", got, tc.want, c)
			}
		})
	}
}

func TestFourthCumulantsNormalizedByLength(t *testing.T) {
	x := []complex128{1 + 1i, 2 - 1i, 3 + 2i, 4 - 3i, 5 + 1i}
	c, err := FourthCumulants(x)
	if err != nil {
		t.Fatalf("FourthCumulants error: %v", err)
	}
	kr, _ := stats.KStat4([]float64{1, 2, 3, 4, 5})
	if c.Real != kr/5 {
		t.Fatalf("real = %v, want %v", c.Real, kr/5)
	}
}

func TestFourthCumulantsTooShort(t *testing.T) {
	if _, err := IsMulticarrier(make([]complex128, 3), 1e-2); !errors.Is(err, stats.ErrTooFewSamples) {
		t.Fatalf("error = %v, want ErrTooFewSamples", err)
	}
}
