package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/cmplx"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-sigscan/config"
	"github.com/cwbudde/algo-sigscan/pipeline"
	stats "github.com/cwbudde/algo-sigscan/stats/time"
)

type analyzeFlags struct {
	sampleRate  float64
	centerFreq  float64
	format      string
	configPath  string
	metricsAddr string
	runID       string
	author      string
	comment     string
}

func (a *app) newAnalyzeCmd() *cobra.Command {
	var f analyzeFlags
	cmd := &cobra.Command{
		Use:   "analyze [capture]",
		Short: "Detect and classify signals in a raw I/Q capture",
		Long: `analyze reads a raw I/Q capture (from the file argument or stdin) and
writes one JSON object per detection to stdout.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			return a.analyze(cmd.Context(), cmd, path, f)
		},
	}

	fl := cmd.Flags()
	fl.Float64VarP(&f.sampleRate, "sample-rate", "r", 0, "sample rate in Hz")
	fl.Float64VarP(&f.centerFreq, "center-freq", "c", 0, "center frequency of the capture in Hz")
	fl.StringVarP(&f.format, "format", "f", formatCF32, "sample format (cf32, cu8)")
	fl.StringVar(&f.configPath, "config", "", "YAML configuration file, applied over the defaults")
	fl.StringVar(&f.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while running")
	fl.StringVar(&f.runID, "run-id", "", "run id stamped on every result (default: random UUID)")
	fl.StringVar(&f.author, "author", "", "annotation author (overrides the configuration)")
	fl.StringVar(&f.comment, "comment", "", "annotation comment (overrides the configuration)")
	_ = cmd.MarkFlagRequired("sample-rate")
	return cmd
}

func (a *app) analyze(ctx context.Context, cmd *cobra.Command, path string, f analyzeFlags) error {
	log, err := a.logger()
	if err != nil {
		return err
	}
	if !(f.sampleRate > 0) {
		return fmt.Errorf("--sample-rate must be > 0, got %g", f.sampleRate)
	}

	cfg := config.Default()
	if f.configPath != "" {
		if cfg, err = config.Load(f.configPath); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("author") {
		cfg.Pipeline.Author = f.author
	}
	if cmd.Flags().Changed("comment") {
		cfg.Pipeline.Comment = f.comment
	}

	samples, err := a.readCapture(cmd, path, f.format)
	if err != nil {
		return err
	}
	logInput(log, path, samples, f.sampleRate)

	reg := prometheus.NewRegistry()
	opts := []pipeline.Option{
		pipeline.WithLogger(log),
		pipeline.WithSink(pipeline.NewJSONLinesSink(a.stdout)),
		pipeline.WithMetrics(pipeline.NewMetrics(reg)),
	}
	if f.runID != "" {
		opts = append(opts, pipeline.WithRunID(f.runID))
	}

	if f.metricsAddr != "" {
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		stop, err := serveMetrics(log, f.metricsAddr, reg)
		if err != nil {
			return err
		}
		defer stop()
	}

	an, err := pipeline.New(cfg, opts...)
	if err != nil {
		return err
	}
	rep, err := an.Run(ctx, pipeline.NewSliceSource(samples, f.sampleRate, f.centerFreq))
	if err != nil {
		return err
	}
	if rep.Failures > 0 {
		log.Warn("some detections could not be analyzed", "failures", rep.Failures, "detections", rep.Detections)
	}
	return nil
}

func (a *app) readCapture(cmd *cobra.Command, path, format string) ([]complex128, error) {
	if path == "-" {
		return readIQ(cmd.InOrStdin(), format)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture: %w", err)
	}
	defer file.Close()
	return readIQ(file, format)
}

// logInput summarizes the sample magnitudes of the capture.
func logInput(log *slog.Logger, path string, samples []complex128, sampleRate float64) {
	const block = 1 << 16
	st := stats.NewStreamingStats()
	mags := make([]float64, 0, block)
	for start := 0; start < len(samples); start += block {
		mags = mags[:0]
		for _, v := range samples[start:min(start+block, len(samples))] {
			mags = append(mags, cmplx.Abs(v))
		}
		st.Update(mags)
	}
	sum := st.Result()
	log.Info("input",
		"path", path,
		"samples", sum.Length,
		"duration", time.Duration(float64(len(samples))/sampleRate*float64(time.Second)),
		"rms_db", sum.RMSDB(),
		"peak_db", sum.PeakDB(),
		"crest", sum.CrestFactor)
}

// serveMetrics exposes reg on addr until the returned stop func is called.
func serveMetrics(log *slog.Logger, addr string, reg *prometheus.Registry) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen for metrics: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", "error", err)
		}
	}()
	log.Info("serving metrics", "addr", ln.Addr().String())

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
