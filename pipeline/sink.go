package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"sync"
)

// Sink receives finalized results in time order.
type Sink interface {
	Emit(ctx context.Context, r Result) error
}

// SinkFunc adapts a function to [Sink].
type SinkFunc func(ctx context.Context, r Result) error

// Emit calls f.
func (f SinkFunc) Emit(ctx context.Context, r Result) error { return f(ctx, r) }

// CollectSink keeps every result in memory.
type CollectSink struct {
	mu      sync.Mutex
	results []Result
}

// Emit appends r.
func (s *CollectSink) Emit(_ context.Context, r Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, r)
	return nil
}

// Results returns a copy of the collected results.
func (s *CollectSink) Results() []Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.results)
}

// JSONLinesSink writes one JSON object per line.
type JSONLinesSink struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewJSONLinesSink returns a sink writing to w.
func NewJSONLinesSink(w io.Writer) *JSONLinesSink {
	return &JSONLinesSink{enc: json.NewEncoder(w)}
}

// Emit encodes r followed by a newline.
func (s *JSONLinesSink) Emit(_ context.Context, r Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enc.Encode(r); err != nil {
		return fmt.Errorf("pipeline: encode result %d: %w", r.ID, err)
	}
	return nil
}

type discardSink struct{}

func (discardSink) Emit(context.Context, Result) error { return nil }
