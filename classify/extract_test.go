package classify

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-sigscan/dsp/fft"
	"github.com/cwbudde/algo-sigscan/dsp/signal"
)

// peakFrequency returns the normalized frequency of the strongest FFT bin
// of x, in [-0.5, 0.5).
func peakFrequency(t *testing.T, x []complex128) float64 {
	t.Helper()
	spec, err := fft.Forward(x)
	if err != nil {
		t.Fatalf("fft: %v", err)
	}
	best := 0
	for k := range spec {
		if cmplx.Abs(spec[k]) > cmplx.Abs(spec[best]) {
			best = k
		}
	}
	f := float64(best) / float64(len(x))
	if f >= 0.5 {
		f--
	}
	return f
}

func TestExtractBandCentersTone(t *testing.T) {
	g := signal.NewGenerator(signal.WithSeed(11))
	x, _ := g.Tone(0.1, 1, 4096)

	ext, err := ExtractBand(x, 0.05, 0.15, 283)
	if err != nil {
		t.Fatalf("ExtractBand error: %v", err)
	}
	if len(ext.Filtered) != len(x) || len(ext.Centered) != len(x) {
		t.Fatalf("lengths = %d/%d, want %d", len(ext.Filtered), len(ext.Centered), len(x))
	}
	if len(ext.Taps) != 283 {
		t.Fatalf("taps = %d, want 283", len(ext.Taps))
	}
	if math.Abs(ext.Cutoff-0.05) > 1e-12 {
		t.Fatalf("cutoff = %v, want 0.05", ext.Cutoff)
	}
	// Windowed-sinc designs cross half amplitude at the cutoff.
	if math.Abs(ext.EdgeDB+6.02) > 0.4 {
		t.Fatalf("edge gain = %v dB, want about -6 dB", ext.EdgeDB)
	}
	if f := peakFrequency(t, ext.Filtered); math.Abs(f) > 1.0/4096 {
		t.Fatalf("baseband tone at %v, want 0", f)
	}

	// Away from the filter edges the tone passes at unit gain.
	if got := cmplx.Abs(ext.Filtered[2048]); math.Abs(got-1) > 0.01 {
		t.Fatalf("|filtered| = %v, want 1", got)
	}
}

func TestExtractBandRejectsOutOfBand(t *testing.T) {
	g := signal.NewGenerator()
	x, _ := g.Tone(0.3, 1, 4096)

	ext, err := ExtractBand(x, 0.05, 0.15, 283)
	if err != nil {
		t.Fatalf("ExtractBand error: %v", err)
	}
	for i := 500; i < 3500; i++ {
		if cmplx.Abs(ext.Filtered[i]) > 0.01 {
			t.Fatalf("sample %d = %v, out-of-band tone not rejected", i, ext.Filtered[i])
		}
	}
}

func TestExtractBandResampledPreservesTone(t *testing.T) {
	g := signal.NewGenerator()
	x, _ := g.Tone(0.12, 1, 4096)

	y, err := ExtractBandResampled(x, 0.05, 0.15, 283)
	if err != nil {
		t.Fatalf("ExtractBandResampled error: %v", err)
	}
	if len(y) != 410 {
		t.Fatalf("len = %d, want 410", len(y))
	}

	// 0.02 above the band center, in a band 0.1 wide.
	if f := peakFrequency(t, y); math.Abs(f-0.2) > 2.0/410 {
		t.Fatalf("resampled tone at %v, want 0.2", f)
	}
	if got := cmplx.Abs(y[205]); math.Abs(got-10) > 0.5 {
		t.Fatalf("|y| = %v, want 10", got)
	}
}

func TestExtractBandWholeSpectrum(t *testing.T) {
	g := signal.NewGenerator()
	x, _ := g.Noise(1, 1024)
	ext, err := ExtractBand(x, -0.5, 0.5, 283)
	if err != nil {
		t.Fatalf("ExtractBand error: %v", err)
	}
	if !(ext.Cutoff < 0.5) {
		t.Fatalf("cutoff = %v, want below Nyquist", ext.Cutoff)
	}
}

func TestExtractBandErrors(t *testing.T) {
	if _, err := ExtractBand(nil, 0, 0.1, 283); !errors.Is(err, ErrEmptySignal) {
		t.Fatalf("empty error = %v", err)
	}
	x := make([]complex128, 16)
	if _, err := ExtractBand(x, 0.1, 0.1, 283); !errors.Is(err, ErrInvalidBand) {
		t.Fatalf("zero-width error = %v", err)
	}
	if _, err := ExtractBandResampled(x, 0.2, 0.1, 283); !errors.Is(err, ErrInvalidBand) {
		t.Fatalf("inverted error = %v", err)
	}
}
