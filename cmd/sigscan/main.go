// Command sigscan finds, classifies and measures signals in complex
// baseband captures.
//
// Usage:
//
//	sigscan analyze -r 2e6 -c 433.9e6 capture.cf32 > detections.jsonl
//	sigscan simulate -o test.cf32 --burst bpsk:8192:65536:0.1:0.05
//	sigscan config > sigscan.yaml
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

// app carries the streams and persistent flags shared by every command.
type app struct {
	stdout, stderr io.Writer

	logLevel  string
	logFormat string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "sigscan",
		Short: "Detect and classify signals in I/Q captures",
		Long: `sigscan scans a complex baseband capture for bursts, tracks the bands
inside each burst, classifies every detection as single carrier,
multicarrier or noise, and estimates the symbol rate of single carrier
signals. Results are written as JSON lines.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "text", "log format (text, json)")

	root.AddCommand(a.newAnalyzeCmd(), a.newSimulateCmd(), a.newConfigCmd())
	return root
}

// logger builds the slog logger selected by the persistent flags. Logs go
// to stderr so stdout stays machine readable.
func (a *app) logger() (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(a.logLevel)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", a.logLevel, err)
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(a.logFormat) {
	case "text":
		return slog.New(slog.NewTextHandler(a.stderr, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(a.stderr, opts)), nil
	default:
		return nil, fmt.Errorf("invalid --log-format %q: want text or json", a.logFormat)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
