package main

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-sigscan/dsp/filter/fir"
	"github.com/cwbudde/algo-sigscan/dsp/signal"
	"github.com/cwbudde/algo-sigscan/dsp/spectrum"
)

// burstSpec places one synthetic emission in a simulated capture.
//
// The flag form is kind:start:length:center[:param]. param is the symbol
// rate for bpsk and qpsk, the bandwidth for noise and the subcarrier
// count for ofdm. Tones ignore it.
type burstSpec struct {
	Kind      string
	Start     int
	Length    int
	Center    float64
	Param     float64
	Amplitude float64
}

func parseBurst(s string) (burstSpec, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 4 || len(parts) > 5 {
		return burstSpec{}, fmt.Errorf("burst %q: want kind:start:length:center[:param]", s)
	}

	b := burstSpec{Kind: strings.ToLower(parts[0]), Amplitude: 1}
	var err error
	if b.Start, err = strconv.Atoi(parts[1]); err != nil || b.Start < 0 {
		return burstSpec{}, fmt.Errorf("burst %q: invalid start %q", s, parts[1])
	}
	if b.Length, err = strconv.Atoi(parts[2]); err != nil || b.Length <= 0 {
		return burstSpec{}, fmt.Errorf("burst %q: invalid length %q", s, parts[2])
	}
	if b.Center, err = strconv.ParseFloat(parts[3], 64); err != nil || math.Abs(b.Center) >= 0.5 {
		return burstSpec{}, fmt.Errorf("burst %q: center %q must be in (-0.5, 0.5)", s, parts[3])
	}

	switch b.Kind {
	case "bpsk", "qpsk":
		b.Param = 0.05
	case "noise":
		b.Param = 0.1
	case "ofdm":
		b.Param = 64
	case "tone":
	default:
		return burstSpec{}, fmt.Errorf("burst %q: unknown kind %q", s, b.Kind)
	}
	if len(parts) == 5 {
		if b.Param, err = strconv.ParseFloat(parts[4], 64); err != nil || !(b.Param > 0) {
			return burstSpec{}, fmt.Errorf("burst %q: invalid param %q", s, parts[4])
		}
	}
	return b, nil
}

// render generates the burst at its center frequency.
func (b burstSpec) render(g *signal.Generator, taps int) ([]complex128, error) {
	var (
		x   []complex128
		err error
	)
	switch b.Kind {
	case "tone":
		return g.Tone(b.Center, b.Amplitude, b.Length)
	case "noise":
		return g.BandNoise(b.Center, b.Param, b.Amplitude*b.Amplitude, b.Length)
	case "ofdm":
		n := int(b.Param)
		x, err = g.Multicarrier(n, 0.2/float64(n), b.Amplitude, b.Length)
	case "bpsk", "qpsk":
		if b.Kind == "bpsk" {
			x, err = g.BPSK(b.Param, b.Amplitude, b.Length)
		} else {
			x, err = g.QPSK(b.Param, b.Amplitude, b.Length)
		}
		if err != nil {
			return nil, err
		}
		// Band-limit the rectangular pulses so the emission has clean edges.
		var coeffs []float64
		if coeffs, err = fir.Lowpass(taps, math.Min(0.8*b.Param, 0.49), 1); err != nil {
			return nil, err
		}
		x, err = fir.New(coeffs).ApplySame(x)
	}
	if err != nil {
		return nil, err
	}
	return spectrum.FrequencyShift(x, b.Center), nil
}

type simulateFlags struct {
	out        string
	format     string
	samples    int
	noisePower float64
	seed       int64
	bursts     []string
}

func (a *app) newSimulateCmd() *cobra.Command {
	var f simulateFlags
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Write a synthetic I/Q capture",
		Long: `simulate writes a capture of complex Gaussian noise with the given
bursts added. Frequencies and rates are normalized to the sample rate.

Burst kinds: tone, bpsk, qpsk, noise, ofdm.`,
		Example: `  sigscan simulate -o test.cf32 -n 262144 \
    --burst bpsk:8192:131072:0.1:0.05 \
    --burst ofdm:65536:98304:-0.25:64`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.simulate(f)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.out, "out", "o", "-", "output file, - for stdout")
	fl.StringVarP(&f.format, "format", "f", formatCF32, "sample format (cf32, cu8)")
	fl.IntVarP(&f.samples, "samples", "n", 1<<18, "capture length in samples")
	fl.Float64Var(&f.noisePower, "noise-power", 1e-4, "noise floor power")
	fl.Int64Var(&f.seed, "seed", 1, "random seed")
	fl.StringArrayVar(&f.bursts, "burst", nil, "burst as kind:start:length:center[:param], repeatable")
	return cmd
}

func (a *app) simulate(f simulateFlags) error {
	log, err := a.logger()
	if err != nil {
		return err
	}

	specs := make([]burstSpec, 0, len(f.bursts))
	for _, s := range f.bursts {
		b, err := parseBurst(s)
		if err != nil {
			return err
		}
		specs = append(specs, b)
	}

	x, err := simulateCapture(f.seed, f.samples, f.noisePower, specs)
	if err != nil {
		return err
	}

	var w io.Writer = a.stdout
	if f.out != "-" {
		file, err := os.Create(f.out)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer file.Close()
		w = file
	}
	if err := writeIQ(w, x, f.format); err != nil {
		return err
	}

	for _, b := range specs {
		log.Info("burst", slog.String("kind", b.Kind), slog.Int("start", b.Start), slog.Int("length", b.Length),
			slog.Float64("center", b.Center), slog.Float64("param", b.Param))
	}
	log.Info("capture written", "out", f.out, "samples", len(x), "format", f.format, "seed", f.seed)
	return nil
}

// simulateCapture renders a noise floor with every burst added. The same
// seed and bursts always give the same samples.
func simulateCapture(seed int64, samples int, noisePower float64, bursts []burstSpec) ([]complex128, error) {
	g := signal.NewGenerator(signal.WithSeed(seed))

	var x []complex128
	if noisePower > 0 {
		var err error
		if x, err = g.Noise(noisePower, samples); err != nil {
			return nil, err
		}
	} else {
		if samples <= 0 {
			return nil, fmt.Errorf("samples must be > 0: %d", samples)
		}
		x = make([]complex128, samples)
	}

	for _, b := range bursts {
		y, err := b.render(g, 283)
		if err != nil {
			return nil, fmt.Errorf("render %s burst at %d: %w", b.Kind, b.Start, err)
		}
		signal.Add(x, y, b.Start)
	}
	return x, nil
}
