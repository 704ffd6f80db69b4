package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/cwbudde/algo-sigscan/classify"
)

// Metrics counts what runs of an [Analyzer] saw.
type Metrics struct {
	runs            prometheus.Counter
	chunks          prometheus.Counter
	bursts          prometheus.Counter
	detections      prometheus.Counter
	classifications *prometheus.CounterVec // by kind
	failures        prometheus.Counter
	analysisSeconds prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		runs: f.NewCounter(prometheus.CounterOpts{
			Namespace: "sigscan",
			Name:      "runs_total",
			Help:      "Completed analysis runs.",
		}),
		chunks: f.NewCounter(prometheus.CounterOpts{
			Namespace: "sigscan",
			Name:      "chunks_total",
			Help:      "Chunks scanned by the time segmenter.",
		}),
		bursts: f.NewCounter(prometheus.CounterOpts{
			Namespace: "sigscan",
			Name:      "bursts_total",
			Help:      "Bursts handed to the track manager.",
		}),
		detections: f.NewCounter(prometheus.CounterOpts{
			Namespace: "sigscan",
			Name:      "detections_total",
			Help:      "Finalized detections.",
		}),
		classifications: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sigscan",
			Name:      "classifications_total",
			Help:      "Classified detections by kind.",
		}, []string{"kind"}),
		failures: f.NewCounter(prometheus.CounterOpts{
			Namespace: "sigscan",
			Name:      "analysis_failures_total",
			Help:      "Detections whose analysis failed.",
		}),
		analysisSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sigscan",
			Name:      "analysis_duration_seconds",
			Help:      "Time spent classifying one detection.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
	}
}

func (m *Metrics) observeKind(k classify.Kind) {
	if m == nil || k == "" {
		return
	}
	m.classifications.WithLabelValues(string(k)).Inc()
}
