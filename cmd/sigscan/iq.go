package main

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/cwbudde/algo-sigscan/dsp/core"
)

// Sample formats of raw capture files.
const (
	formatCF32 = "cf32" // interleaved little-endian float32 I/Q
	formatCU8  = "cu8"  // interleaved unsigned 8-bit I/Q, RTL-SDR style
)

var errTruncated = errors.New("capture ends inside a sample")

func bytesPerSample(format string) (int, error) {
	switch strings.ToLower(format) {
	case formatCF32:
		return 8, nil
	case formatCU8:
		return 2, nil
	default:
		return 0, fmt.Errorf("unknown sample format %q: want %s or %s", format, formatCF32, formatCU8)
	}
}

// readIQ decodes a whole raw capture.
func readIQ(r io.Reader, format string) ([]complex128, error) {
	size, err := bytesPerSample(format)
	if err != nil {
		return nil, err
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read samples: %w", err)
	}
	if len(raw)%size != 0 {
		return nil, fmt.Errorf("%w: %d bytes, %d per sample", errTruncated, len(raw), size)
	}

	out := make([]complex128, len(raw)/size)
	switch size {
	case 8:
		for i := range out {
			b := raw[i*8:]
			re := math.Float32frombits(binary.LittleEndian.Uint32(b))
			im := math.Float32frombits(binary.LittleEndian.Uint32(b[4:]))
			out[i] = complex(float64(re), float64(im))
		}
	case 2:
		for i := range out {
			re := (float64(raw[i*2]) - 127.5) / 127.5
			im := (float64(raw[i*2+1]) - 127.5) / 127.5
			out[i] = complex(re, im)
		}
	}
	return out, nil
}

// writeIQ encodes samples. cu8 output saturates outside [-1, 1].
func writeIQ(w io.Writer, samples []complex128, format string) error {
	size, err := bytesPerSample(format)
	if err != nil {
		return err
	}

	buf := make([]byte, len(samples)*size)
	switch size {
	case 8:
		for i, v := range samples {
			b := buf[i*8:]
			binary.LittleEndian.PutUint32(b, math.Float32bits(float32(real(v))))
			binary.LittleEndian.PutUint32(b[4:], math.Float32bits(float32(imag(v))))
		}
	case 2:
		for i, v := range samples {
			buf[i*2] = toU8(real(v))
			buf[i*2+1] = toU8(imag(v))
		}
	}

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("failed to write samples: %w", err)
	}
	return nil
}

func toU8(v float64) byte {
	return byte(math.Round(core.Clamp(v*127.5+127.5, 0, 255)))
}
