package classify

import (
	"bytes"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/cwbudde/algo-sigscan/config"
	"github.com/cwbudde/algo-sigscan/dsp/signal"
)

func newTestClassifier(t *testing.T, opts ...Option) *Classifier {
	t.Helper()
	c, err := New(config.Default().Classify, opts...)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	return c
}

func TestClassifySingleCarrier(t *testing.T) {
	const n = 4096
	g := signal.NewGenerator(signal.WithSeed(41))
	x, _ := g.BPSK(0.05, 1, n)
	noise, _ := g.Noise(0.01, n)
	signal.Add(x, noise, 0)

	res, err := newTestClassifier(t).Classify(x, -0.1, 0.1)
	if err != nil {
		t.Fatalf("Classify error: %v", err)
	}
	if res.Kind != SingleCarrier {
		t.Fatalf("kind = %s, want %s (cumulants %+v)", res.Kind, SingleCarrier, res.Cumulants)
	}
	if res.NoiseScore != nil {
		t.Fatal("noise test must not run for single-carrier signals")
	}
	if len(res.Baseband) != n || res.Envelope.Length != n {
		t.Fatalf("baseband = %d samples, envelope = %d", len(res.Baseband), res.Envelope.Length)
	}
	if s := res.Spectrum; math.Abs(s.Centroid) > 0.02 || s.Occupied() < 0.05 || s.Occupied() > 0.3 {
		t.Fatalf("spectrum centroid %f, occupied %f", s.Centroid, s.Occupied())
	}
}

func TestClassifyMulticarrier(t *testing.T) {
	const n = 4096
	g := signal.NewGenerator(signal.WithSeed(42))
	x, _ := g.Multicarrier(64, 0.005, 1, n)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	res, err := newTestClassifier(t, WithLogger(logger)).Classify(x, -0.2, 0.2)
	if err != nil {
		t.Fatalf("Classify error: %v", err)
	}
	if res.Kind != Multicarrier {
		t.Fatalf("kind = %s, want %s (cumulants %+v, noise %+v)", res.Kind, Multicarrier, res.Cumulants, res.NoiseScore)
	}
	if res.NoiseScore == nil {
		t.Fatal("noise score missing")
	}
	for _, msg := range []string{"band extracted", "window=Hamming", "edge_db=", "carrier test", "noise test"} {
		if !strings.Contains(buf.String(), msg) {
			t.Fatalf("log lacks %q:\n%s", msg, buf.String())
		}
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default().Classify
	cfg.FilterTaps = 0
	if _, err := New(cfg); err == nil {
		t.Fatal("expected config error")
	}
}
